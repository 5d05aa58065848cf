// Package cmd (auth.go) defines the authentication commands: 'auth login',
// 'auth logout', and 'auth status'. Login uses the OAuth 2.0 device code
// flow; the pending state is persisted so any later command can complete it.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rvveber/docs/internal/app"
	"github.com/rvveber/docs/internal/config"
	"github.com/rvveber/docs/internal/session"
	"github.com/rvveber/docs/pkg/docs"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication with the docs service",
	Long:  `Provides subcommands to initiate login, clear the current session (logout), and check authentication status.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate using the device code flow",
	Long: `Starts the authentication process. You will be prompted to visit a URL in
a web browser and enter a unique code to authorize this application.

If an existing login session or a pending login attempt is found, it will
advise accordingly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrCreate()
		if err != nil {
			return fmt.Errorf("loading configuration for login: %w", err)
		}

		if cfg.Token.AccessToken != "" {
			fmt.Println("You are already logged in. To switch accounts, run 'docs-client auth logout' first.")
			return nil
		}

		sessionMgr, err := session.NewManager()
		if err != nil {
			return fmt.Errorf("creating session manager: %w", err)
		}

		pending, err := sessionMgr.LoadAuthState()
		if err != nil {
			return fmt.Errorf("checking for pending login: %w", err)
		}
		if pending != nil {
			fmt.Printf("A login attempt is already pending. Please go to %s and enter code %s.\n", pending.VerificationURI, pending.UserCode)
			fmt.Println("Alternatively, run 'docs-client auth logout' to cancel it and start over.")
			return nil
		}

		debug, _ := cmd.Flags().GetBool("debug")
		deviceCodeResp, err := docs.InitiateDeviceCodeFlow(config.ClientID, debug)
		if err != nil {
			return fmt.Errorf("login initiation failed: %w", err)
		}

		authState := &session.AuthState{
			DeviceCode:      deviceCodeResp.DeviceCode,
			VerificationURI: deviceCodeResp.VerificationURI,
			UserCode:        deviceCodeResp.UserCode,
			Interval:        deviceCodeResp.Interval,
		}
		if err := sessionMgr.SaveAuthState(authState); err != nil {
			return fmt.Errorf("saving auth session state failed: %w", err)
		}

		fmt.Printf("To complete authentication, open a web browser and go to:\n%s\n", deviceCodeResp.VerificationURI)
		fmt.Printf("Then enter the following code: %s\n\n", deviceCodeResp.UserCode)
		if deviceCodeResp.ExpiresIn > 0 {
			fmt.Printf("This code will expire in approximately %d minutes.\n", deviceCodeResp.ExpiresIn/60)
		}
		fmt.Println("Run any docs-client command afterwards to finish logging in.")
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear stored credentials",
	Long:  `Removes the stored OAuth token and cancels any pending login attempt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrCreate()
		if err != nil {
			return fmt.Errorf("loading configuration for logout: %w", err)
		}
		return app.Logout(cfg)
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrCreate()
		if err != nil {
			return fmt.Errorf("loading configuration for status: %w", err)
		}

		sessionMgr, err := session.NewManager()
		if err != nil {
			return fmt.Errorf("creating session manager: %w", err)
		}
		pending, err := sessionMgr.LoadAuthState()
		if err != nil {
			return fmt.Errorf("checking for pending login: %w", err)
		}
		if pending != nil {
			fmt.Printf("Login pending. Go to %s and enter code %s.\n", pending.VerificationURI, pending.UserCode)
			return nil
		}

		if cfg.Token.AccessToken == "" {
			fmt.Println("Not logged in. Run 'docs-client auth login' to authenticate.")
			return nil
		}

		// A token exists; confirm it still works by fetching the profile.
		a, err := app.NewApp(cmd)
		if err != nil {
			fmt.Println("Logged in, but the session could not be validated. You may need to run 'docs-client auth login' again.")
			return nil
		}
		me, err := a.SDK.GetMe(cmd.Context())
		if err != nil {
			fmt.Println("Logged in, but the token was rejected. Run 'docs-client auth login' to re-authenticate.")
			return nil
		}
		name := me.FullName
		if name == "" {
			name = me.ShortName
		}
		fmt.Printf("Logged in as %s (%s)\n", name, me.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
}
