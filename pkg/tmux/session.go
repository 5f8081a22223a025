package tmux

import (
	"context"
	"fmt"
	"strings"

	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/pkg/process"
	"github.com/grovetools/workon/util/shell"
)

// SessionPrefix starts every session workon creates.
const SessionPrefix = "workon-"

// SessionName returns the session for a project. Names are used verbatim so
// the mapping stays case-sensitive and injective.
func SessionName(projectName string) string {
	return SessionPrefix + projectName
}

// step is one tmux invocation of a session build.
type step struct {
	name string
	args []string
}

// plan expands a layout into the tmux invocations that build it, minus the
// initial kill and final attach.
func plan(layout Layout, session, dir string, commands PaneCommands) ([]step, error) {
	slots, ok := arrangements[layout]
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("layout %q has no panes", layout))
	}

	steps := make([]step, 0, len(slots)+1)
	for i, s := range slots {
		cmd := ""
		if s.role != RoleShell {
			cmd = commands[s.role]
			if cmd == "" {
				return nil, errors.InvalidInput(fmt.Sprintf("layout %q needs a %s command", layout, s.role))
			}
		}

		var args []string
		if i == 0 {
			args = []string{"new-session", "-d", "-s", session, "-c", dir}
		} else {
			target := session
			if s.target != "" {
				target = session + ":" + s.target
			}
			args = []string{"split-window", s.split, "-t", target, "-c", dir}
		}
		if cmd != "" {
			args = append(args, cmd)
		}
		steps = append(steps, step{name: args[0], args: args})
	}

	steps = append(steps, step{name: "select-pane", args: []string{"select-pane", "-t", session + ":0.0"}})
	return steps, nil
}

// BuildShellLines renders a layout as shell lines for the caller's shell to
// evaluate. insideTmux selects switch-client over attach-session. It has no
// side effects.
func BuildShellLines(layout Layout, projectName, projectPath string, commands PaneCommands, insideTmux bool) ([]string, error) {
	return buildShellLines("", layout, projectName, projectPath, commands, insideTmux)
}

// ShellLines is BuildShellLines using this client's socket and its view of
// whether the caller is inside tmux.
func (c *Client) ShellLines(layout Layout, projectName, projectPath string, commands PaneCommands) ([]string, error) {
	return buildShellLines(c.socket, layout, projectName, projectPath, commands, c.InsideTmux())
}

func buildShellLines(socket string, layout Layout, projectName, projectPath string, commands PaneCommands, insideTmux bool) ([]string, error) {
	session := SessionName(projectName)
	steps, err := plan(layout, session, projectPath, commands)
	if err != nil {
		return nil, err
	}

	tmux := "tmux"
	if socket != "" {
		tmux = "tmux -L " + shell.Quote(socket)
	}
	render := func(args ...string) string {
		return tmux + " " + args[0] + " " + shell.Join(args[1:]...)
	}

	lines := []string{
		render("has-session", "-t", "="+session) + " 2>/dev/null && " + render("kill-session", "-t", "="+session),
	}
	for _, s := range steps {
		lines = append(lines, render(s.args...))
	}
	if insideTmux {
		lines = append(lines, render("switch-client", "-t", session))
	} else {
		lines = append(lines, render("attach-session", "-t", session))
	}
	return lines, nil
}

// CreateSession builds the layout as a live detached session and returns its
// name. A same-named session is killed first. The first failing step aborts
// with a SESSION_CREATION_FAILED error; nothing is retried or cleaned up.
func (c *Client) CreateSession(ctx context.Context, layout Layout, projectName, projectPath string, commands PaneCommands) (string, error) {
	session := SessionName(projectName)
	steps, err := plan(layout, session, projectPath, commands)
	if err != nil {
		return "", err
	}

	exists, err := c.SessionExists(ctx, session)
	if err != nil {
		return "", errors.SessionCreationFailed(session, "has-session", err)
	}
	if exists {
		if err := c.KillSession(ctx, session); err != nil {
			return "", errors.SessionCreationFailed(session, "kill-session", err)
		}
	}

	for _, s := range steps {
		if _, err := c.run(ctx, s.args...); err != nil {
			return "", errors.SessionCreationFailed(session, s.name, err)
		}
	}
	return session, nil
}

// Attach brings the session to the foreground. Inside tmux it switches the
// current client; it never nests tmux. Outside tmux it blocks until the
// attached client exits.
func (c *Client) Attach(ctx context.Context, session string) error {
	if c.InsideTmux() {
		_, err := c.run(ctx, "switch-client", "-t", session)
		return err
	}
	return c.spawner.Run(ctx, process.Spec{
		Name: "tmux",
		Args: c.socketArgs("attach-session", "-t", session),
	})
}

// SessionExists reports whether a session with exactly this name is live.
func (c *Client) SessionExists(ctx context.Context, sessionName string) (bool, error) {
	_, err := c.run(ctx, "has-session", "-t", "="+sessionName)
	if err == nil {
		return true, nil
	}

	if strings.Contains(err.Error(), "exit status 1") {
		return false, nil
	}

	return false, err
}

// KillSession kills a session by exact name.
func (c *Client) KillSession(ctx context.Context, sessionName string) error {
	_, err := c.run(ctx, "kill-session", "-t", "="+sessionName)
	return err
}

// ListSessions returns the project names of live workon sessions. No
// running server means no sessions.
func (c *Client) ListSessions(ctx context.Context) ([]string, error) {
	output, err := c.run(ctx, "list-sessions", "-F", "#{session_name}")
	if err != nil {
		if strings.Contains(output, "no server running") || strings.Contains(err.Error(), "no server running") ||
			strings.Contains(err.Error(), "error connecting") {
			return nil, nil
		}
		return nil, err
	}

	var projects []string
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if name, ok := strings.CutPrefix(strings.TrimSpace(line), SessionPrefix); ok && name != "" {
			projects = append(projects, name)
		}
	}
	return projects, nil
}
