// Package datadir provides names and paths for the taskboard data directory.
package datadir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the data directory under the user's home.
	Dir = ".taskboard"

	// StoreFile is the JSON key-value store used by the file driver.
	StoreFile = "store.json"

	// StoreDB is the database used by the sqlite driver.
	StoreDB = "store.db"

	// ConfigFile is the config file name.
	ConfigFile = "taskboard.toml"

	// LogsDir holds per-run log files.
	LogsDir = "logs"
)

// Default returns ~/.taskboard, or .taskboard in the working directory when
// the home directory is unknown.
func Default() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// StorePath returns the default store location for a driver inside base.
func StorePath(base, driver string) string {
	if driver == "sqlite" {
		return filepath.Join(base, StoreDB)
	}
	return filepath.Join(base, StoreFile)
}

// ConfigPath returns the config file path inside base.
func ConfigPath(base string) string {
	return filepath.Join(base, ConfigFile)
}

// LogPath returns the log directory inside base.
func LogPath(base string) string {
	return filepath.Join(base, LogsDir)
}

// Ensure creates dir with the permissions used for data directories.
func Ensure(dir string) error {
	return os.MkdirAll(dir, 0755)
}
