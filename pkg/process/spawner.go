// Package process starts the external programs activation events launch.
package process

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/grovetools/workon/command"
	"github.com/grovetools/workon/errors"
)

// Spec describes one process to launch.
type Spec struct {
	Name string
	Args []string
	Dir  string
	Env  []string
}

// String renders the spec as a command line for logs and dry runs.
func (s Spec) String() string {
	return strings.TrimSpace(s.Name + " " + strings.Join(s.Args, " "))
}

// Spawner launches processes either detached (not awaited) or attached to
// the caller's terminal (blocks until exit).
type Spawner interface {
	Start(ctx context.Context, spec Spec) error
	Run(ctx context.Context, spec Spec) error
}

// ExecSpawner is the os/exec backed Spawner.
type ExecSpawner struct {
	executor command.Executor
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// NewExecSpawner returns a spawner wired to the process's own stdio.
func NewExecSpawner(executor command.Executor) *ExecSpawner {
	if executor == nil {
		executor = &command.RealExecutor{}
	}
	return &ExecSpawner{
		executor: executor,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// Start launches spec without waiting. The child outlives workon.
func (s *ExecSpawner) Start(ctx context.Context, spec Spec) error {
	// Not bound to ctx: cancelling the caller must not kill the child.
	cmd := s.executor.Command(spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return errors.CommandFailed(spec.String(), err)
	}
	return cmd.Process.Release()
}

// Run launches spec with inherited stdio and waits for it to exit.
func (s *ExecSpawner) Run(ctx context.Context, spec Spec) error {
	cmd := s.executor.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	cmd.Stdin = s.stdin
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr

	if err := cmd.Run(); err != nil {
		return errors.CommandFailed(spec.String(), err)
	}
	return nil
}
