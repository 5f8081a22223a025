package errors

import (
	"fmt"
	"os/exec"
	"strings"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *WorkonError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *WorkonError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// EventsNotConfigured reports requested events that the project does not
// have enabled. Both lists are kept as details so callers can render them.
func EventsNotConfigured(project string, invalid, valid []string) *WorkonError {
	return New(ErrCodeConfigInvalid,
		fmt.Sprintf("commands not configured for project '%s': %s. Available: %s",
			project, strings.Join(invalid, ", "), strings.Join(valid, ", "))).
		WithDetail("project", project).
		WithDetail("invalid", invalid).
		WithDetail("valid", valid)
}

// ProjectNotFound creates a lookup error for an unknown project identifier
func ProjectNotFound(name string) *WorkonError {
	return New(ErrCodeProjectNotFound, fmt.Sprintf("project '%s' not found", name)).
		WithDetail("project", name)
}

// RecognitionFailed wraps a failure to determine the live branch of a
// directory that already matched a project.
func RecognitionFailed(dir string, err error) *WorkonError {
	return Wrap(err, ErrCodeRecognitionFailed, fmt.Sprintf("could not determine branch for %s", dir)).
		WithDetail("dir", dir)
}

// RegistryNotInitialized is returned by registry lookups made before Initialize.
func RegistryNotInitialized() *WorkonError {
	return New(ErrCodeRegistryNotInitialized, "command registry must be initialized before use")
}

// EventNotFound creates an error for an event name the registry does not know
func EventNotFound(name string) *WorkonError {
	return New(ErrCodeEventNotFound, fmt.Sprintf("event '%s' is not registered", name)).
		WithDetail("event", name)
}

// ToolUnavailable signals that an external tool is missing from PATH
func ToolUnavailable(tool string) *WorkonError {
	return New(ErrCodeToolUnavailable, fmt.Sprintf("%s is not available", tool)).
		WithDetail("tool", tool)
}

// SessionCreationFailed wraps a failed multiplexer step
func SessionCreationFailed(session, step string, err error) *WorkonError {
	return Wrap(err, ErrCodeSessionCreationFailed, fmt.Sprintf("failed to %s for session '%s'", step, session)).
		WithDetail("session", session).
		WithDetail("step", step)
}

// CommandFailed creates a command execution failure error
func CommandFailed(cmd string, err error) *WorkonError {
	workonErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	// Extract exit code if available
	if exitErr, ok := err.(*exec.ExitError); ok {
		workonErr = workonErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return workonErr
}

// InvalidInput creates an error for malformed user input
func InvalidInput(reason string) *WorkonError {
	return New(ErrCodeInvalidInput, reason)
}
