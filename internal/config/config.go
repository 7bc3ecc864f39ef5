// Package config handles loading the pulse.toml configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the pulse configuration file
// (~/.config/pulse/config.toml).
type Config struct {
	// DBPath overrides the default database location.
	DBPath string `toml:"db-path"`

	// User is the identity all commands run as.
	User string `toml:"user"`

	// DailyGoalMinutes is the tracked-time goal shown on the dashboard.
	DailyGoalMinutes int `toml:"daily-goal-minutes"`

	// WorkDays lists the weekdays counted toward the goal, 1=Monday through
	// 7=Sunday.
	WorkDays []int `toml:"work-days"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		User:             "default",
		DailyGoalMinutes: 480,
		WorkDays:         []int{1, 2, 3, 4, 5},
	}
}

// Load reads the global config file, applying defaults for missing keys.
// Returns the default config if no file exists.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return loadFile(path)
}

// Path returns the config file location.
func Path() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "pulse", "config.toml"), nil
}

func loadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var loaded Config
	meta, err := toml.Decode(string(data), &loaded)
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if meta.IsDefined("db-path") {
		cfg.DBPath = loaded.DBPath
	}
	if meta.IsDefined("user") {
		cfg.User = loaded.User
	}
	if meta.IsDefined("daily-goal-minutes") {
		cfg.DailyGoalMinutes = loaded.DailyGoalMinutes
	}
	if meta.IsDefined("work-days") {
		cfg.WorkDays = append([]int(nil), loaded.WorkDays...)
	}

	return cfg, nil
}
