package config

import "fmt"

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with the source of each key.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Store drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Default values.
const (
	DefaultStoreDriver = DriverFile
	DefaultStorageKey  = "tasks"
	DefaultTimeFormat  = "Jan 2, 2006 3:04:05 PM"
	DefaultDataDir     = "~/.taskboard"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// Config holds the full configuration for taskboard.
type Config struct {
	// Storage
	StoreDriver string `toml:"store_driver"`
	StorePath   string `toml:"store_path"`
	StorageKey  string `toml:"storage_key"`

	// Display layout for Created/Completed timestamps (Go time layout).
	TimeFormat string `toml:"time_format"`

	// Hooks
	HookCommand string `toml:"hook_command"`

	// Paths
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// configFields returns the configurable keys for source tracking.
func configFields() []string {
	return []string{
		"store_driver",
		"store_path",
		"storage_key",
		"time_format",
		"hook_command",
		"data_dir",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Validate rejects values no component can act on.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverFile, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("invalid store_driver %q (want %s, %s or %s)", c.StoreDriver, DriverFile, DriverSQLite, DriverMemory)
	}
	if c.StorageKey == "" {
		return fmt.Errorf("storage_key is empty")
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log_format %q (want text, json or logfmt)", c.LogFormat)
	}
	return nil
}
