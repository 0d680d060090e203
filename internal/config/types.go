// Package config loads BenDB configuration from defaults, a YAML file,
// BENDB_* environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"
)

// Default values
const (
	DefaultDataDir    = "data"
	DefaultBackend    = "json"
	DefaultLogLevel   = "info"
	DefaultFormat     = "table"
	DefaultAdminAddr  = "127.0.0.1:8080"
	DefaultServerAddr = "127.0.0.1:4000"
	EnvPrefix         = "BENDB_"
)

// AdminConfig holds configuration for the admin web UI
type AdminConfig struct {
	Addr          string `koanf:"addr"`
	SessionSecret string `koanf:"session_secret"`
}

// ServerConfig holds configuration for the TCP server
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// Config holds all configuration options. It is passed explicitly to each
// component at construction.
type Config struct {
	DataDir      string       `koanf:"data_dir"`
	Backend      string       `koanf:"backend"`
	SQLitePath   string       `koanf:"sqlite_path"`
	DefaultTable string       `koanf:"default_table"`
	LogLevel     string       `koanf:"log_level"`
	SeqURL       string       `koanf:"seq_url"`
	Format       string       `koanf:"format"`
	HistoryFile  string       `koanf:"history_file"`
	Verbose      bool         `koanf:"verbose"`
	Admin        AdminConfig  `koanf:"admin"`
	Server       ServerConfig `koanf:"server"`

	// File is the config file that was read, empty if none
	File string `koanf:"-"`
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("invalid backend %q: want json or sqlite", c.Backend)
	}
	switch c.Format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("invalid format %q: want table, json or yaml", c.Format)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	return nil
}

// EffectiveLogLevel is LogLevel, raised to debug when Verbose is set
func (c *Config) EffectiveLogLevel() string {
	if c.Verbose {
		return "debug"
	}
	return c.LogLevel
}
