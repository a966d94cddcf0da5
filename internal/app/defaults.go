package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - CAL_CONFIG_PATH: config file location (default: ~/.config/calorielog.toml)
//   - CAL_HOME: base directory for calorielog data (default: ~/.local/share/calorielog)
func GetDefaults() (map[string]string, error) {
	configPath, err := fromEnvOrHome("CAL_CONFIG_PATH", ".config", "calorielog.toml")
	if err != nil {
		return nil, err
	}

	baseDir, err := fromEnvOrHome("CAL_HOME", ".local", "share", "calorielog")
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
		"env_file":    filepath.Join(baseDir, ".env"),
	}, nil
}

// fromEnvOrHome returns $env if set, else the path under the home directory.
func fromEnvOrHome(env string, elem ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, elem...)...), nil
}
