// Package config persists the connection settings for the remote
// Download Station in a per-user TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// AppConfig carries everything needed to reach the server: address,
// credentials and how often the task list refreshes.
type AppConfig struct {
	ServerURL       string `toml:"server_url"`
	Port            int    `toml:"port"`
	Username        string `toml:"username"`
	Password        string `toml:"password"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// Path returns the config file location under the OS user config dir,
// e.g. ~/.config/dstui/config.toml on Linux.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dstui", "config.toml"), nil
}

// Load reads the config file. A missing file is reported via
// os.IsNotExist so the caller can run first-time setup.
func Load() (*AppConfig, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg AppConfig
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config file, creating the directory if needed. The
// file carries credentials so it is not group or world readable.
func (c *AppConfig) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// Endpoint joins the server URL and port into the base URL the API
// client dials.
func (c *AppConfig) Endpoint() string {
	return fmt.Sprintf("%s:%d", strings.TrimSuffix(c.ServerURL, "/"), c.Port)
}
