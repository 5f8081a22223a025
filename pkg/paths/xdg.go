// Package paths provides XDG-compliant path resolution for workon.
//
// Resolution order:
// 1. WORKON_HOME (portable root) → $WORKON_HOME/{config,state}
// 2. XDG env vars → $XDG_*_HOME/workon
// 3. Platform defaults → ~/.config/workon, ~/.local/state/workon
package paths

import (
	"os"
	"path/filepath"
)

const appName = "workon"

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if workonHome := os.Getenv("WORKON_HOME"); workonHome != "" {
		return filepath.Join(workonHome, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if workonHome := os.Getenv("WORKON_HOME"); workonHome != "" {
		return filepath.Join(workonHome, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// ConfigDir returns the workon configuration directory.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	if os.Getenv("WORKON_HOME") != "" {
		return base
	}
	return filepath.Join(base, appName)
}

// StateDir returns the workon state directory.
// Used for log files.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	if os.Getenv("WORKON_HOME") != "" {
		return base
	}
	return filepath.Join(base, appName)
}

// ConfigFile returns the path of the persistent store. WORKON_CONFIG wins;
// otherwise an existing config.toml is preferred over the default config.yml.
func ConfigFile() string {
	if explicit := os.Getenv("WORKON_CONFIG"); explicit != "" {
		return explicit
	}
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	tomlPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}
	return filepath.Join(dir, "config.yml")
}

// LogDir returns the directory for file log sinks.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}
