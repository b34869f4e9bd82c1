package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"annograph/domain/core/validators"
)

var validateFlags struct {
	from string
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check passages against the structural rules",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateFlags.from, "from", "", "Input format: site or json (default: by extension)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	validator := validators.NewStructureValidator()
	failed := 0

	for _, path := range args {
		p, err := readPassage(path, validateFlags.from)
		if err == nil {
			err = validator.Validate(p)
		}
		if err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d passages failed validation", failed, len(args))
	}
	return nil
}
