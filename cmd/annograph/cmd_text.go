package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"annograph/interfaces/convert"
)

var textFlags struct {
	from string
}

var textCmd = &cobra.Command{
	Use:   "text <file>",
	Short: "Print a passage's tokens, one paragraph per line",
	Args:  cobra.ExactArgs(1),
	RunE:  runText,
}

func init() {
	textCmd.Flags().StringVar(&textFlags.from, "from", "", "Input format: site or json (default: by extension)")
}

func runText(cmd *cobra.Command, args []string) error {
	p, err := readPassage(args[0], textFlags.from)
	if err != nil {
		return err
	}

	paragraphs, err := convert.ToText(p)
	if err != nil {
		return err
	}
	for _, paragraph := range paragraphs {
		fmt.Fprintln(cmd.OutOrStdout(), paragraph)
	}
	return nil
}
