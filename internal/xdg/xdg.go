// Package xdg provides helpers to resolve XDG Base Directory paths for convex-seed.
// It implements the XDG Base Directory specification for locating the optional
// configuration file, falling back to the traditional ~/.config location when
// XDG_CONFIG_HOME is not set.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "convex-seed"

// ConfigDir returns the XDG config directory for convex-seed.
// The directory is not created; callers only read from it.
// It falls back to ~/.config/convex-seed when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName), nil
}
