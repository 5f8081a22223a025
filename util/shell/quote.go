// Package shell renders arguments for POSIX shells. Every line workon emits
// for evaluation goes through Quote.
package shell

import (
	"regexp"
	"strings"
)

var safe = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// Quote returns s unchanged when it holds only characters the shell treats
// literally; otherwise it wraps s in single quotes, escaping embedded ones.
func Quote(s string) string {
	if safe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Join quotes each argument and joins them with spaces.
func Join(args ...string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = Quote(a)
	}
	return strings.Join(quoted, " ")
}

// Command renders name followed by its quoted arguments. The name is left
// bare so the shell resolves it on PATH.
func Command(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + Join(args...)
}
