// Package starship shows the recognized project in a Starship prompt.
package starship

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/pkg/environment"
)

const moduleHeader = "[custom.workon]"

// Recognizer resolves a directory to its project.
type Recognizer interface {
	Recognize(ctx context.Context, dir string) (*environment.Environment, error)
}

// ConfigPath returns the starship config location, honouring
// STARSHIP_CONFIG.
func ConfigPath() (string, error) {
	if p := os.Getenv("STARSHIP_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "starship.toml"), nil
}

func module(binary string) string {
	return fmt.Sprintf(`
# Added by '%s starship install'
%s
description = "Shows the current workon project"
command = "%s starship status"
when = true
format = " $output "
`, binary, moduleHeader, binary)
}

// Install adds or refreshes the workon module in the starship config at
// path and adds it to the prompt format when it can find a place for it.
// Progress messages go to w.
func Install(path, binary string, w io.Writer) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.ConfigNotFound(path)
		}
		return errors.Wrap(err, errors.ErrCodeInternal, "could not read starship config")
	}
	content := string(raw)
	block := module(binary)

	if start := strings.Index(content, moduleHeader); start >= 0 {
		end := len(content)
		if next := strings.Index(content[start+1:], "\n["); next >= 0 {
			end = start + 1 + next
		}
		// Replace our marker comment along with the block.
		marker := fmt.Sprintf("# Added by '%s starship install'\n", binary)
		if strings.HasSuffix(content[:start], marker) {
			start -= len(marker)
		}
		content = content[:start] + strings.TrimPrefix(block, "\n") + content[end:]
		fmt.Fprintln(w, "✓ Updated existing workon starship module.")
	} else {
		content += block
		fmt.Fprintf(w, "✓ Added %s module to starship config.\n", moduleHeader)
	}

	switch {
	case strings.Contains(content, "${custom.workon}") || strings.Contains(content, "$custom.workon"):
		fmt.Fprintln(w, "✓ workon module already in starship format.")
	case strings.Contains(content, "$git_branch\\"):
		content = strings.Replace(content, "$git_branch\\", "$git_branch\\\n${custom.workon}\\", 1)
		fmt.Fprintln(w, "✓ Added workon module to starship format.")
	default:
		fmt.Fprintf(w, "⚠ Add '${custom.workon}' to the format string in %s\n", path)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write starship config")
	}
	return nil
}

// Status returns the prompt segment for dir: the project name, with the
// live branch when it is not already part of the name. Errors and
// unrecognized directories give an empty segment.
func Status(ctx context.Context, r Recognizer, dir string) string {
	env, err := r.Recognize(ctx, dir)
	if err != nil || !env.IsProject() {
		return ""
	}
	name := env.Project.Name
	if env.Branch != "" && !env.Project.IsBranchQualified() {
		return fmt.Sprintf("%s (%s)", name, env.Branch)
	}
	return name
}
