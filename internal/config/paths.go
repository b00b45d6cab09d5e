package config

import (
	"os"
	"path/filepath"
	"strings"
)

// resolvePath expands environment variables and a leading ~ in p, then
// anchors a relative result at root. An empty p stays empty.
func resolvePath(root, p string) string {
	if p == "" {
		return ""
	}
	p = filepath.FromSlash(os.ExpandEnv(p))
	if p == "~" || strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	if filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}
