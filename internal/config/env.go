package config

import (
	"os"
	"strings"
)

// envBindings maps TASKBOARD_* variables to config keys.
var envBindings = []struct {
	env   string
	field string
}{
	{"TASKBOARD_STORE_DRIVER", "store_driver"},
	{"TASKBOARD_STORE_PATH", "store_path"},
	{"TASKBOARD_STORAGE_KEY", "storage_key"},
	{"TASKBOARD_TIME_FORMAT", "time_format"},
	{"TASKBOARD_HOOK", "hook_command"},
	{"TASKBOARD_DATA_DIR", "data_dir"},
	{"TASKBOARD_LOG_DIR", "log_dir"},
	{"TASKBOARD_LOG_LEVEL", "log_level"},
	{"TASKBOARD_LOG_FORMAT", "log_format"},
	{"TASKBOARD_LOG_TIMESTAMPS", "log_timestamps"},
	{"TASKBOARD_LOG_CALLER", "log_caller"},
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	for _, b := range envBindings {
		v := os.Getenv(b.env)
		if v == "" {
			continue
		}
		if setField(cfg, b.field, v) && sources != nil {
			sources[b.field] = SourceEnv
		}
	}
}

// setField assigns a string value to the config key. It reports whether the
// key is known.
func setField(cfg *Config, field, v string) bool {
	switch field {
	case "store_driver":
		cfg.StoreDriver = strings.ToLower(v)
	case "store_path":
		cfg.StorePath = v
	case "storage_key":
		cfg.StorageKey = v
	case "time_format":
		cfg.TimeFormat = v
	case "hook_command":
		cfg.HookCommand = v
	case "data_dir":
		cfg.DataDir = v
	case "log_dir":
		cfg.LogDir = v
	case "log_level":
		cfg.LogLevel = strings.ToLower(v)
	case "log_format":
		cfg.LogFormat = strings.ToLower(v)
	case "log_timestamps":
		cfg.LogTimestamps = boolFromString(v)
	case "log_caller":
		cfg.LogCaller = boolFromString(v)
	default:
		return false
	}
	return true
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
