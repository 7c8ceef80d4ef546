// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads keyproto settings from keyproto.yaml, KEYPROTO_*
// environment variables and command line flags using Viper, and writes them
// back with goccy/go-yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds the settings shared by the keyproto commands.
type Config struct {
	Debug bool `mapstructure:"debug" yaml:"debug"`
	// Output is "text" or "yaml".
	Output string `mapstructure:"output" yaml:"output"`
	// Allow restricts accepted algorithms; empty accepts every known one.
	Allow      []string `mapstructure:"allow" yaml:"allow"`
	WarnLegacy bool     `mapstructure:"warn-legacy" yaml:"warn-legacy"`
	Dedup      bool     `mapstructure:"dedup" yaml:"dedup"`
}

// OutputFormats lists the accepted values of Config.Output.
var OutputFormats = []string{"text", "yaml"}

// Defaults returns the default value of every configuration key.
func Defaults() map[string]any {
	return map[string]any{
		"debug":       false,
		"output":      "text",
		"allow":       []string{},
		"warn-legacy": true,
		"dedup":       false,
	}
}

// Validate checks values that viper cannot type-check on its own.
func (c Config) Validate() error {
	if !slices.Contains(OutputFormats, c.Output) {
		return fmt.Errorf("invalid output format %q (want one of %s)", c.Output, strings.Join(OutputFormats, ", "))
	}
	return nil
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "keyproto")
		default:
			configDir = "/etc/keyproto"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "keyproto")
	}

	return filepath.Join(configDir, "keyproto.yaml"), nil
}

// LoadConfig resolves defaults, config file, environment and the flags of
// cmd (in increasing precedence) into a T. A missing config file is not an
// error; an explicit configFile that cannot be read is.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("keyproto")
	v.SetConfigType("yaml")

	if configFile != nil && *configFile != "" {
		v.SetConfigFile(*configFile)
	} else {
		if userConfigPath, err := GetConfigPath(false); err == nil {
			v.AddConfigPath(filepath.Dir(userConfigPath))
		}
		if systemConfigPath, err := GetConfigPath(true); err == nil {
			v.AddConfigPath(filepath.Dir(systemConfigPath))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("keyproto")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

// WriteConfigFile stores c as YAML in the user or system config path and
// returns the path written.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
