// Package settings provides global configuration for hostprep.
// Configuration is stored at ~/.config/hostprep/config.yaml and holds the
// fixed names the provisioning steps otherwise hard-code.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Version is the current config schema version.
const Version = "1.0"

// ErrNotInitialized is returned when no config file exists yet.
var ErrNotInitialized = errors.New("hostprep not initialized: run 'hostprep init' first")

// Config represents the global hostprep configuration.
type Config struct {
	Version       string      `yaml:"version"`
	RunnerAccount string      `yaml:"runner_account"` // automation account for the sudoers drop-in
	SudoersPath   string      `yaml:"sudoers_path"`   // drop-in location
	RegistryURL   string      `yaml:"registry_url,omitempty"`
	DesktopUser   DesktopUser `yaml:"desktop_user"` // shortcut target for the editor installer
}

// DesktopUser identifies the fixed user the editor shortcut is placed for.
type DesktopUser struct {
	Name string `yaml:"name"`
	UID  int    `yaml:"uid"`
	GID  int    `yaml:"gid"`
}

// NewConfig creates a Config with the script defaults.
func NewConfig() *Config {
	return &Config{
		Version:       Version,
		RunnerAccount: "act_runner",
		SudoersPath:   "/etc/sudoers.d/act_runner",
		DesktopUser: DesktopUser{
			Name: "user",
			UID:  1000,
			GID:  1000,
		},
	}
}

// ConfigPath returns the path of the config file.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "hostprep", "config.yaml"), nil
}

// Load loads the config from ~/.config/hostprep/config.yaml.
// Returns ErrNotInitialized if the file doesn't exist.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault loads the config if it exists, or returns the defaults.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		if errors.Is(err, ErrNotInitialized) {
			return NewConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save saves the config to ~/.config/hostprep/config.yaml.
func (c *Config) Save() error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo saves the config to an explicit path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyDefaults fills in zero-value fields with the script defaults.
func (c *Config) applyDefaults() {
	defaults := NewConfig()
	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.RunnerAccount == "" {
		c.RunnerAccount = defaults.RunnerAccount
	}
	if c.SudoersPath == "" {
		c.SudoersPath = "/etc/sudoers.d/" + c.RunnerAccount
	}
	if c.DesktopUser == (DesktopUser{}) {
		c.DesktopUser = defaults.DesktopUser
	}
}
