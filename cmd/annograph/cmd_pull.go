package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"annograph/infrastructure/config"
	"annograph/infrastructure/remote"
	"annograph/interfaces/convert"
)

var remoteFlags struct {
	url      string
	email    string
	password string
	token    string
}

var pullFlags struct {
	out string
}

var pullCmd = &cobra.Command{
	Use:   "pull <passage-id>",
	Short: "Fetch a passage from the remote annotation server",
	Args:  cobra.ExactArgs(1),
	RunE:  runPull,
}

func init() {
	addRemoteFlags(pullCmd)
	pullCmd.Flags().StringVarP(&pullFlags.out, "out", "o", "", "Output file (default: stdout)")
}

// addRemoteFlags registers the connection flags shared by pull and push.
// Credentials fall back to the REMOTE_* environment variables.
func addRemoteFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&remoteFlags.url, "url", os.Getenv("REMOTE_URL"), "Remote server URL")
	f.StringVar(&remoteFlags.email, "email", os.Getenv("REMOTE_EMAIL"), "Login email")
	f.StringVar(&remoteFlags.password, "password", os.Getenv("REMOTE_PASSWORD"), "Login password")
	f.StringVar(&remoteFlags.token, "token", os.Getenv("REMOTE_TOKEN"), "Access token")
}

func newRemoteClient() (*remote.Client, error) {
	return remote.NewClient(config.RemoteConfig{
		URL:      remoteFlags.url,
		Email:    remoteFlags.email,
		Password: remoteFlags.password,
		Token:    remoteFlags.token,
	}, zap.NewNop())
}

func runPull(cmd *cobra.Command, args []string) error {
	client, err := newRemoteClient()
	if err != nil {
		return err
	}

	p, err := client.Fetch(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetch %s: %w", args[0], err)
	}

	data, err := convert.ToJSON(p)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	if pullFlags.out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	return os.WriteFile(pullFlags.out, data, 0o644)
}
