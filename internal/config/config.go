// Package config persists the docs-client settings: the OAuth token, the
// target instance URL, and the debug flag. The file lives in the user config
// directory and is written with owner-only permissions since it contains
// credentials.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rvveber/docs/pkg/docs"
)

const appDirName = "docs-client"
const configFile = "config.json"

// ClientID is the OAuth2 client registered for this CLI with the docs
// identity provider.
const ClientID = "docs-cli"

// Configuration holds all persisted settings.
type Configuration struct {
	Token   docs.Token `json:"token"`
	BaseURL string     `json:"base_url,omitempty"`
	Debug   bool       `json:"debug"`
	mu      sync.RWMutex
}

// GetConfigDir returns the directory holding the configuration and session
// files, creating nothing.
func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config directory: %w", err)
	}
	return filepath.Join(configDir, appDirName), nil
}

// Save persists the configuration to disk, creating the directory on first
// use. The file is written 0600 because it holds the OAuth token.
func (c *Configuration) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling config to JSON: %v", err)
	}

	configDirPath, err := GetConfigDir()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configDirPath); os.IsNotExist(err) {
		if err := os.MkdirAll(configDirPath, 0700); err != nil {
			return fmt.Errorf("creating config directory: %v", err)
		}
	}

	configFilePath := filepath.Join(configDirPath, configFile)
	if err := os.WriteFile(configFilePath, jsonData, 0600); err != nil {
		return fmt.Errorf("writing configuration file: %v", err)
	}

	return nil
}

// UpdateToken replaces the stored token and persists immediately. Called by
// the persisting token source whenever a refresh yields a new token.
func (c *Configuration) UpdateToken(token docs.Token) error {
	c.mu.Lock()
	c.Token = token
	c.mu.Unlock()
	return c.Save()
}

// Load reads the configuration file from disk.
func Load() (*Configuration, error) {
	config := &Configuration{}
	configDirPath, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(configDirPath, configFile)
	fileHandle, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(fileHandle, config); err != nil {
		return nil, fmt.Errorf("unmarshalling json: %v", err)
	}

	return config, nil
}

// LoadOrCreate attempts to load a configuration file, returning a fresh
// empty configuration when none exists yet.
func LoadOrCreate() (*Configuration, error) {
	config, err := Load()
	if err != nil {
		if os.IsNotExist(err) {
			return &Configuration{}, nil
		}
		return nil, err
	}
	return config, nil
}
