package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskboard configuration file
# Values can be overridden by TASKBOARD_* environment variables or CLI flags

# Store driver: file (JSON file), sqlite, or memory (nothing is kept)
store_driver = "file"

# Store location (default: <data_dir>/store.json or <data_dir>/store.db)
# store_path = "~/.taskboard/store.json"

# Key the task snapshot is stored under
storage_key = "tasks"

# Go time layout for Created/Completed lines, shown in local time
time_format = "Jan 2, 2006 3:04:05 PM"

# Command to run after each saved change.
# Called as: <hook_command> <event> <task-id>
# hook_command = "/path/to/hook.sh"

# Data directory (supports ~ expansion and %VAR% on Windows)
data_dir = "~/.taskboard"

# Log directory (default: <data_dir>/logs)
# log_dir = "~/.taskboard/logs"

# Logging: level (debug, info, warn, error) and format (text, json, logfmt)
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
