package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"taskdeck/log"
)

const (
	ConfigFileName = "config.json"
	StateFileName  = "state.json"
	TokenFileName  = "token.json"
	OAuthFileName  = "oauth_client.json"
	HistoryDBName  = "history.db"
)

// GetConfigDir returns the path to the application's configuration
// directory (XDG-compliant ~/.config/taskdeck/).
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "taskdeck"), nil
}

// Config represents the application configuration.
type Config struct {
	// DefaultProject is the project selected at startup. Empty means the
	// backend's default list.
	DefaultProject string `json:"default_project,omitempty"`
	// TelemetryEnabled controls crash reporting via Sentry.
	// Defaults to false when not set.
	TelemetryEnabled *bool `json:"telemetry_enabled,omitempty"`
	// OAuthClientPath overrides the location of oauth_client.json.
	OAuthClientPath string `json:"oauth_client_path,omitempty"`
	// HistoryEnabled controls the local sqlite mutation journal.
	// Defaults to true when not set.
	HistoryEnabled *bool `json:"history_enabled,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{}
}

// IsTelemetryEnabled returns whether Sentry telemetry is enabled.
func (c *Config) IsTelemetryEnabled() bool {
	if c.TelemetryEnabled == nil {
		return false
	}
	return *c.TelemetryEnabled
}

// IsHistoryEnabled returns whether the mutation journal is enabled.
// Defaults to true when the field is not set.
func (c *Config) IsHistoryEnabled() bool {
	if c.HistoryEnabled == nil {
		return true
	}
	return *c.HistoryEnabled
}

// OAuthClient returns the path of the OAuth client secret file.
func (c *Config) OAuthClient() string {
	if c.OAuthClientPath != "" {
		return c.OAuthClientPath
	}
	dir, err := GetConfigDir()
	if err != nil {
		return OAuthFileName
	}
	return filepath.Join(dir, OAuthFileName)
}

// TokenPath returns the path of the cached OAuth token.
func (c *Config) TokenPath() string {
	dir, err := GetConfigDir()
	if err != nil {
		return TokenFileName
	}
	return filepath.Join(dir, TokenFileName)
}

// HistoryDBPath returns the path of the sqlite mutation journal.
func (c *Config) HistoryDBPath() string {
	dir, err := GetConfigDir()
	if err != nil {
		return HistoryDBName
	}
	return filepath.Join(dir, HistoryDBName)
}

// LoadConfig reads config.json, creating it with defaults on first run, and
// overlays config.toml when present (TOML wins for the fields it sets).
func LoadConfig() *Config {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultConfig()
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			defaultCfg := DefaultConfig()
			if saveErr := saveConfig(defaultCfg); saveErr != nil {
				log.WarningLog.Printf("failed to save default config: %v", saveErr)
			}
			return applyTOMLOverlay(defaultCfg)
		}
		log.WarningLog.Printf("failed to read config file: %v", err)
		return DefaultConfig()
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		log.ErrorLog.Printf("failed to parse config file: %v", err)
		return DefaultConfig()
	}

	return applyTOMLOverlay(&config)
}

func applyTOMLOverlay(config *Config) *Config {
	tomlResult, tomlErr := LoadTOMLConfig()
	if tomlErr != nil {
		log.WarningLog.Printf("failed to load TOML config: %v", tomlErr)
		return config
	}
	if tomlResult == nil {
		return config
	}
	if tomlResult.DefaultProject != "" {
		config.DefaultProject = tomlResult.DefaultProject
	}
	if tomlResult.TelemetryEnabled != nil {
		config.TelemetryEnabled = tomlResult.TelemetryEnabled
	}
	if tomlResult.OAuthClientPath != "" {
		config.OAuthClientPath = tomlResult.OAuthClientPath
	}
	if tomlResult.HistoryEnabled != nil {
		config.HistoryEnabled = tomlResult.HistoryEnabled
	}
	return config
}

// saveConfig saves the configuration to disk.
func saveConfig(config *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0o644)
}

// SaveConfig exports the saveConfig function for use by other packages.
func SaveConfig(config *Config) error {
	return saveConfig(config)
}
