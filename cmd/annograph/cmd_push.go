package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"annograph/domain/core/validators"
)

var pushFlags struct {
	from string
}

var pushCmd = &cobra.Command{
	Use:   "push <file>",
	Short: "Submit a passage to the remote annotation server",
	Args:  cobra.ExactArgs(1),
	RunE:  runPush,
}

func init() {
	addRemoteFlags(pushCmd)
	pushCmd.Flags().StringVar(&pushFlags.from, "from", "", "Input format: site or json (default: by extension)")
}

func runPush(cmd *cobra.Command, args []string) error {
	p, err := readPassage(args[0], pushFlags.from)
	if err != nil {
		return err
	}
	if err := validators.NewStructureValidator().Validate(p); err != nil {
		return fmt.Errorf("validate %s: %w", args[0], err)
	}

	client, err := newRemoteClient()
	if err != nil {
		return err
	}
	if err := client.Submit(cmd.Context(), p); err != nil {
		return fmt.Errorf("submit %s: %w", p.ID(), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pushed passage %s\n", p.ID())
	return nil
}
