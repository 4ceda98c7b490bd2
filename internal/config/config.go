// Package config persists user settings of the schematic editor.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Theme names accepted by the editor.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// AppConfig stores persistent application settings
type AppConfig struct {
	Theme        string `json:"theme"`
	ShowGrid     bool   `json:"show_grid"`
	LastFile     string `json:"last_file,omitempty"`
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
}

// Default returns the settings used when no config file exists.
func Default() *AppConfig {
	return &AppConfig{
		Theme:        ThemeLight,
		ShowGrid:     true,
		WindowWidth:  1400,
		WindowHeight: 900,
	}
}

// Dark reports whether the dark theme is selected.
func (c *AppConfig) Dark() bool {
	return c.Theme == ThemeDark
}

// ToggleTheme switches between the light and dark theme.
func (c *AppConfig) ToggleTheme() {
	if c.Dark() {
		c.Theme = ThemeLight
	} else {
		c.Theme = ThemeDark
	}
}

// PathFunc returns the config file location. Tests replace it.
var PathFunc = defaultPath

// defaultPath returns the path to the config file
func defaultPath() (string, error) {
	var configDir string
	// Use platform-appropriate config directory
	if appData := os.Getenv("APPDATA"); appData != "" {
		// Windows: use %APPDATA%\OpenTraceSchem
		configDir = filepath.Join(appData, "OpenTraceSchem")
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		// Linux/macOS: use ~/.config/opentraceschem
		configDir = filepath.Join(homeDir, ".config", "opentraceschem")
	}
	return filepath.Join(configDir, "config.json"), nil
}

// Load loads the application configuration. A missing file yields the
// defaults; unknown or missing fields keep their default values.
func Load() (*AppConfig, error) {
	path, err := PathFunc()
	if err != nil {
		return Default(), fmt.Errorf("config: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	if cfg.Theme != ThemeDark {
		cfg.Theme = ThemeLight
	}
	return cfg, nil
}

// Save saves the application configuration
func Save(cfg *AppConfig) error {
	path, err := PathFunc()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
