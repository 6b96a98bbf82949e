package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Settings is what the client remembers between runs.
type Settings struct {
	Username string `mapstructure:"username"`
	Port     int    `mapstructure:"port"`
	Chime    bool   `mapstructure:"chime"`
	LogLevel string `mapstructure:"log_level"`
}

func defaultSettings() Settings {
	return Settings{LogLevel: "info"}
}

// ConfigStore persists settings as a JSON file.
type ConfigStore struct {
	path string
}

func NewConfigStore(path string) *ConfigStore {
	return &ConfigStore{path: path}
}

// appDir returns the per-user directory holding the config, transcripts
// and the diagnostic log.
func appDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// read loads the file into a fresh viper instance. A missing or corrupt
// file gives an empty one.
func (c *ConfigStore) read() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(c.path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return viper.New()
	}
	return v
}

// Load returns every stored key.
func (c *ConfigStore) Load() map[string]any {
	return c.read().AllSettings()
}

// Settings decodes the stored keys. A file that does not decode is treated
// as no configuration at all.
func (c *ConfigStore) Settings() Settings {
	v := c.read()
	v.SetDefault("log_level", "info")

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return defaultSettings()
	}
	s.Username = strings.TrimSpace(s.Username)
	return s
}

// Save stores value under key, keeping all other keys.
func (c *ConfigStore) Save(key string, value any) error {
	v := viper.New()
	for k, val := range c.Load() {
		v.Set(k, val)
	}
	v.Set(key, value)
	v.SetConfigType("json")
	if err := v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
