// Package pathutil canonicalizes and expands filesystem paths.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Expand expands a leading ~ and environment variables. It does not make
// the path absolute.
func Expand(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return os.ExpandEnv(path), nil
}

// Absolutify expands path and, when it is relative, joins it onto base.
// An empty base means the current directory.
func Absolutify(base, path string) (string, error) {
	expanded, err := Expand(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(expanded) && base != "" {
		b, err := Expand(base)
		if err != nil {
			return "", err
		}
		expanded = filepath.Join(b, expanded)
	}
	return filepath.Abs(expanded)
}

// Canonicalize returns the absolute path with symlinks resolved. A path that
// does not exist yet falls back to its cleaned absolute form.
func Canonicalize(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return absPath, nil
	}
	return resolved, nil
}

// SamePath reports whether two paths canonicalize to the same location.
func SamePath(a, b string) bool {
	ca, err := Canonicalize(a)
	if err != nil {
		return false
	}
	cb, err := Canonicalize(b)
	if err != nil {
		return false
	}
	return ca == cb
}

// FindUp walks from dir towards the root and returns the first directory
// containing name.
func FindUp(dir, name string) (string, bool) {
	current := dir
	for {
		if _, err := os.Stat(filepath.Join(current, name)); err == nil {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}
