// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads the agent's configuration from file, environment and
// CLI flags, in that order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the full configuration of the agent.
type Config struct {
	Database struct {
		// Type is the Grafana storage engine: sqlite, mysql or postgres.
		Type string `mapstructure:"type" yaml:"type"`
		// Dsn locates the Grafana database itself, not a database owned
		// by the agent.
		Dsn string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`

	// AdminPassword overrides the generated-once admin password when set.
	AdminPassword string `mapstructure:"admin_password" yaml:"admin_password,omitempty"`
	// NagiosContext feeds the derived admin contact address.
	NagiosContext string `mapstructure:"nagios_context" yaml:"nagios_context,omitempty"`
	// BootstrapDelaySeconds is the wait before the first credential
	// rotation, giving Grafana time to run its own migrations.
	BootstrapDelaySeconds int `mapstructure:"bootstrap_delay_seconds" yaml:"bootstrap_delay_seconds"`

	// StateFile is where the agent persists its unit state.
	StateFile string `mapstructure:"state_file" yaml:"state_file"`
	// SourcesFile is the desired-state snapshot document.
	SourcesFile string `mapstructure:"sources_file" yaml:"sources_file"`

	Language string `mapstructure:"language" yaml:"language"`
	Debug    bool   `mapstructure:"debug" yaml:"debug"`
}

// Defaults returns the default configuration values keyed for viper.
func Defaults() map[string]any {
	// Every key is registered here, even the empty ones, so environment
	// overrides survive viper's Unmarshal.
	return map[string]any{
		"database.type":           "sqlite",
		"database.dsn":            "/var/lib/grafana/grafana.db",
		"admin_password":          "",
		"nagios_context":          "",
		"bootstrap_delay_seconds": 10,
		"state_file":              "/var/lib/grafana-charm/state.yaml",
		"sources_file":            "/var/lib/grafana-charm/datasources.yaml",
		"language":                "en",
		"debug":                   false,
	}
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "GrafanaCharm")
		default:
			configDir = "/etc/grafana-charm"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "grafana-charm")
	}

	return filepath.Join(configDir, "grafana-charm.yaml"), nil
}

// LoadConfig resolves configuration for the given command: defaults first,
// then any config file found on the search path (or the explicit --config
// path), then GRAFANA_CHARM_* environment variables, then bound CLI flags.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFilePath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("grafana-charm")
	v.SetConfigType("yaml")

	// An explicit --config path has the highest file precedence.
	if configFilePath != nil {
		v.SetConfigFile(*configFilePath)
	}

	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; the agent runs on defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("grafana_charm")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// WriteConfigFile persists the configuration to the standard location.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the file may contain the admin password.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}

	return nil
}
