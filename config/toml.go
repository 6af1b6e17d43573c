package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const TOMLConfigFileName = "config.toml"

// TOMLConfig mirrors the overridable subset of Config for users who prefer
// TOML. Pointer fields distinguish "unset" from explicit false.
type TOMLConfig struct {
	DefaultProject   string `toml:"default_project"`
	TelemetryEnabled *bool  `toml:"telemetry_enabled"`
	OAuthClientPath  string `toml:"oauth_client_path"`
	HistoryEnabled   *bool  `toml:"history_enabled"`
}

// LoadTOMLConfig reads config.toml from the config directory. A missing file
// is not an error; it returns (nil, nil).
func LoadTOMLConfig() (*TOMLConfig, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	tomlPath := filepath.Join(configDir, TOMLConfigFileName)
	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		return nil, nil
	}

	var config TOMLConfig
	if _, err := toml.DecodeFile(tomlPath, &config); err != nil {
		return nil, err
	}
	return &config, nil
}
