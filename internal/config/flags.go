package config

import "flag"

// parseFlags defines the global flags on fs, parses args and attributes
// explicitly set flags to SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskboard", flag.ContinueOnError)
	}

	var ephemeral bool

	// Storage
	fs.StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "Store driver (file, sqlite, memory)")
	fs.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "Path to the store file or database")
	fs.StringVar(&cfg.StorageKey, "key", cfg.StorageKey, "Key the task snapshot is stored under")
	fs.BoolVar(&ephemeral, "ephemeral", false, "Keep tasks in memory only (same as -store memory)")

	// Display
	fs.StringVar(&cfg.TimeFormat, "time-format", cfg.TimeFormat, "Go time layout for Created/Completed lines")

	// Hooks
	fs.StringVar(&cfg.HookCommand, "hook", cfg.HookCommand, "Command to run after each saved change")

	// Paths
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	flagToSource := map[string]string{
		"store":          "store_driver",
		"ephemeral":      "store_driver",
		"store-path":     "store_path",
		"key":            "storage_key",
		"time-format":    "time_format",
		"hook":           "hook_command",
		"data-dir":       "data_dir",
		"log-dir":        "log_dir",
		"log-level":      "log_level",
		"log-format":     "log_format",
		"log-timestamps": "log_timestamps",
		"log-caller":     "log_caller",
	}
	fs.Visit(func(f *flag.Flag) {
		if sources == nil {
			return
		}
		if field, ok := flagToSource[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})

	if ephemeral {
		cfg.StoreDriver = DriverMemory
	}
	return nil
}
