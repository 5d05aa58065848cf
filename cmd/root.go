// Package cmd defines the Cobra command tree for the docs-client CLI. The
// root command sets up global flags and a persistent pre-run check that
// evaluates authentication state before most subcommands run.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rvveber/docs/internal/app"
	"github.com/rvveber/docs/pkg/docs"
)

var rootCmd = &cobra.Command{
	Use:   "docs-client",
	Short: "A CLI client for collaborative docs",
	Long: `docs-client is a command-line interface for a collaborative document
service. It lets you list your documents, inspect who can access them, and
manage sharing: searching the user directory, inviting people by email, and
changing or revoking roles.

Current capabilities include:
  - Authentication management (login, logout, status)
  - Listing documents and inspecting their abilities
  - Viewing document members and pending invitations
  - Searching users and inviting them, including invite-by-email for
    addresses not yet in the directory
  - Updating and revoking accesses, withdrawing invitations`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The auth command group establishes authentication, so it is exempt
		// from the check.
		if cmd.Parent() != nil && cmd.Parent().Name() == "auth" {
			return nil
		}

		_, err := app.NewApp(cmd)
		if err != nil {
			// A pending device-code login carries its own instructions.
			if errors.Is(err, app.ErrLoginPending) {
				fmt.Println(err.Error())
				return app.ErrLoginPending
			}
			// Not having a token yet is not fatal at this stage. Commands
			// that need one will tell the user to log in.
			if errors.Is(err, docs.ErrReauthRequired) {
				return nil
			}
			return err
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// ErrLoginPending was already explained by the pre-run hook.
		if !errors.Is(err, app.ErrLoginPending) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
