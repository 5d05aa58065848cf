// Package app wires the CLI together: configuration, pending-login
// completion, the OAuth token source, and the SDK handle the commands run
// against.
package app

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/rvveber/docs/internal/config"
	"github.com/rvveber/docs/internal/logger"
	"github.com/rvveber/docs/internal/session"
	"github.com/rvveber/docs/internal/ui"
	"github.com/rvveber/docs/pkg/docs"
)

// ErrLoginPending indicates a device-code login was started but the user has
// not yet finished the browser flow.
var ErrLoginPending = errors.New("login pending")

// App is the dependency container handed to command logic.
type App struct {
	Config *config.Configuration
	Logger logger.Logger
	SDK    SDK
}

// NewApp loads configuration, completes any pending login, and builds an
// authenticated SDK. Returns ErrLoginPending (with instructions in the
// message) while a device-code login is still waiting on the user.
func NewApp(cmd *cobra.Command) (*App, error) {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		cfg.Debug = true
	}

	app := &App{
		Config: cfg,
		Logger: logger.NewDefaultLogger(cfg.Debug),
	}

	if cfg.BaseURL != "" {
		docs.SetCustomAPIEndpoint(cfg.BaseURL)
	}

	client, err := app.initializeDocsClient()
	if err != nil {
		if errors.Is(err, ErrLoginPending) {
			return nil, err
		}
		return nil, fmt.Errorf("initializing docs client: %w", err)
	}
	app.SDK = NewDocsSDK(client)

	return app, nil
}

func (a *App) initializeDocsClient() (*docs.Client, error) {
	if a.Config == nil {
		return nil, errors.New("configuration is nil")
	}

	// Step 1: check for a pending device-code login and try to complete it.
	sessionMgr, err := session.NewManager()
	if err != nil {
		return nil, fmt.Errorf("creating session manager: %w", err)
	}
	pendingAuth, err := sessionMgr.LoadAuthState()
	if err != nil {
		return nil, fmt.Errorf("could not load auth state: %w", err)
	}

	if pendingAuth != nil {
		token, err := docs.VerifyDeviceCode(config.ClientID, pendingAuth.DeviceCode, a.Config.Debug)
		if err != nil {
			if errors.Is(err, docs.ErrAuthorizationPending) {
				return nil, fmt.Errorf("%w: Please go to %s and enter code %s", ErrLoginPending, pendingAuth.VerificationURI, pendingAuth.UserCode)
			}
			// The pending login is no longer completable (expired or
			// declined), so clean it up before failing.
			_ = sessionMgr.DeleteAuthState()
			return nil, fmt.Errorf("authentication failed. Your login code may have expired. Please try again: %w", err)
		}

		a.Config.Token = *token
		if err := a.Config.Save(); err != nil {
			return nil, fmt.Errorf("saving token: %w", err)
		}
		if err := sessionMgr.DeleteAuthState(); err != nil {
			log.Printf("Warning: could not delete auth session file: %v", err)
		}
		fmt.Println("Login successful!")
	}

	ctx, oauthConfig := docs.GetOauth2Config(config.ClientID)

	if a.Config.Token.AccessToken == "" {
		return nil, docs.ErrReauthRequired
	}

	baseTokenSource := (*oauth2.Config)(oauthConfig).TokenSource(ctx, (*oauth2.Token)(&a.Config.Token))

	onNewToken := func(token *oauth2.Token) error {
		return a.Config.UpdateToken(docs.Token(*token))
	}

	persistingSource := newPersistingTokenSource(baseTokenSource, (*oauth2.Token)(&a.Config.Token), onNewToken)

	return docs.NewClient(ctx, persistingSource, a.Logger), nil
}

// Logout clears the stored credentials and any pending login state.
func Logout(cfg *config.Configuration) error {
	cfg.Token = docs.Token{}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("could not clear token: %w", err)
	}
	sessionMgr, err := session.NewManager()
	if err == nil {
		if err := sessionMgr.DeleteAuthState(); err != nil {
			log.Printf("Warning: could not delete auth session file during logout: %v", err)
		}
	}
	ui.Success("You have been logged out.")
	return nil
}
