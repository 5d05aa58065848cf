// Package session manages the temporary state file used while a device-code
// login is pending: the device code, user code, and verification URI handed
// out by the identity provider. File locking prevents races when several CLI
// instances touch the pending login concurrently.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/rvveber/docs/internal/config"
)

const authSessionFile = "auth_session.json"

// AuthState is the on-disk state of a pending device-code login. It lives
// from 'auth login' until the user finishes the browser flow or logs out.
type AuthState struct {
	DeviceCode      string `json:"device_code"`
	VerificationURI string `json:"verification_uri"`
	UserCode        string `json:"user_code"`
	Interval        int    `json:"interval"`
}

// Manager handles session file operations under a configurable directory so
// tests can point it at a temp dir.
type Manager struct {
	configDir string
}

// NewManager creates a session manager rooted at the standard config dir.
func NewManager() (*Manager, error) {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return nil, err
	}
	return &Manager{configDir: configDir}, nil
}

// NewManagerWithConfigDir creates a session manager with a custom root.
func NewManagerWithConfigDir(configDir string) *Manager {
	return &Manager{configDir: configDir}
}

func (m *Manager) sessionDir() string {
	return filepath.Join(m.configDir, "sessions")
}

func (m *Manager) authSessionFilePath() string {
	return filepath.Join(m.sessionDir(), authSessionFile)
}

// lockFor acquires the advisory lock guarding one session file. The caller
// must Unlock the returned lock.
func lockFor(filePath string) (*flock.Flock, error) {
	fileLock := flock.New(filePath + ".lock")
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring file lock for '%s': %w", filePath, err)
	}
	if !locked {
		return nil, errors.New("could not acquire file lock, another instance may be performing authentication")
	}
	return fileLock, nil
}

// SaveAuthState persists the pending login state.
func (m *Manager) SaveAuthState(state *AuthState) error {
	if err := os.MkdirAll(m.sessionDir(), 0755); err != nil {
		return fmt.Errorf("creating session directory '%s': %w", m.sessionDir(), err)
	}

	filePath := m.authSessionFilePath()
	fileLock, err := lockFor(filePath)
	if err != nil {
		return err
	}
	defer fileLock.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling auth session state: %w", err)
	}

	return os.WriteFile(filePath, data, 0600)
}

// LoadAuthState retrieves the pending login state, returning (nil, nil) when
// no login is pending.
func (m *Manager) LoadAuthState() (*AuthState, error) {
	if err := os.MkdirAll(m.sessionDir(), 0755); err != nil {
		return nil, fmt.Errorf("creating session directory '%s': %w", m.sessionDir(), err)
	}

	filePath := m.authSessionFilePath()
	fileLock, err := lockFor(filePath)
	if err != nil {
		return nil, err
	}
	defer fileLock.Unlock()

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading auth session file '%s': %w", filePath, err)
	}

	var state AuthState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshalling auth session state from '%s': %w", filePath, err)
	}

	return &state, nil
}

// DeleteAuthState removes the pending login state. Deleting an absent state
// is not an error.
func (m *Manager) DeleteAuthState() error {
	if err := os.MkdirAll(m.sessionDir(), 0755); err != nil {
		return fmt.Errorf("creating session directory '%s': %w", m.sessionDir(), err)
	}

	filePath := m.authSessionFilePath()
	fileLock, err := lockFor(filePath)
	if err != nil {
		return err
	}
	defer fileLock.Unlock()

	err = os.Remove(filePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting auth session file '%s': %w", filePath, err)
	}
	return nil
}
