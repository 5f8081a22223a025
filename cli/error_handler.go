package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/tui/theme"
)

// ErrorHandler renders errors on stderr with a hint per error code.
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{Verbose: verbose, Out: os.Stderr}
}

// Handle prints err and returns it unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	t := theme.DefaultTheme
	out := h.Out
	mark := t.Error.Render("✗")
	hint := func(format string, args ...interface{}) {
		fmt.Fprintln(out, t.Muted.Render(fmt.Sprintf(format, args...)))
	}

	werr, _ := errors.As(err)
	detail := func(key string) interface{} {
		if werr == nil {
			return nil
		}
		return werr.Details[key]
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeProjectNotFound:
		fmt.Fprintf(out, "%s Project '%v' not found\n", mark, detail("project"))
		hint("Run 'workon list' to see registered projects or 'workon manage add' to register one.")

	case errors.ErrCodeConfigInvalid:
		if invalid, ok := detail("invalid").([]string); ok {
			fmt.Fprintf(out, "%s Commands not configured for project '%v': %s\n", mark, detail("project"), strings.Join(invalid, ", "))
			if valid, ok := detail("valid").([]string); ok && len(valid) > 0 {
				hint("Available: %s", strings.Join(valid, ", "))
			}
		} else {
			fmt.Fprintf(out, "%s %s\n", mark, werr.Message)
			hint("Run 'workon config validate' to check the whole configuration.")
		}

	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(out, "%s Configuration not found at %v\n", mark, detail("path"))
		hint("Run 'workon manage add' to create it.")

	case errors.ErrCodeRecognitionFailed:
		fmt.Fprintf(out, "%s Could not determine the current branch of %v\n", mark, detail("dir"))
		hint("Check that git is installed and the repository is healthy.")

	case errors.ErrCodeToolUnavailable:
		fmt.Fprintf(out, "%s %v is not installed or not on PATH\n", mark, detail("tool"))

	case errors.ErrCodeSessionCreationFailed:
		fmt.Fprintf(out, "%s tmux could not %v for session '%v'\n", mark, detail("step"), detail("session"))

	case errors.ErrCodeRegistryNotInitialized:
		fmt.Fprintf(out, "%s Internal error: event registry used before initialization\n", mark)

	case errors.ErrCodeEventNotFound:
		fmt.Fprintf(out, "%s Unknown event '%v'\n", mark, detail("event"))
		hint("Run 'workon events' to list available events.")

	case errors.ErrCodeCommandNotFound:
		fmt.Fprintf(out, "%s Required command not found: %v\n", mark, detail("command"))

	case errors.ErrCodeCommandFailed:
		fmt.Fprintf(out, "%s Command failed: %v\n", mark, detail("command"))
		if code, ok := detail("exitCode").(int); ok {
			hint("Exit code %d", code)
		}

	case errors.ErrCodeInvalidInput:
		fmt.Fprintf(out, "%s %s\n", mark, werr.Message)

	default:
		fmt.Fprintf(out, "%s Error: %v\n", mark, err)
	}

	if h.Verbose && werr != nil {
		fmt.Fprintf(out, "\nError details:\n%s\n", werr.ToJSON())
	}
	return err
}
