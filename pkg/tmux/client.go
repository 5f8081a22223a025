package tmux

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/grovetools/workon/command"
	"github.com/grovetools/workon/pkg/process"
)

// Runner executes one tmux subcommand and returns its combined output.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// Client drives tmux. Construction never fails: call IsAvailable before
// anything else.
type Client struct {
	runner   Runner
	spawner  process.Spawner
	lookPath func(string) (string, error)
	inside   func() bool
	socket   string // Socket name for dedicated tmux server (uses -L flag)
}

// Option configures a Client.
type Option func(*Client)

// WithRunner replaces the exec-backed runner.
func WithRunner(r Runner) Option {
	return func(c *Client) { c.runner = r }
}

// WithSpawner sets the spawner used for interactive attach.
func WithSpawner(s process.Spawner) Option {
	return func(c *Client) { c.spawner = s }
}

// WithLookPath replaces the binary probe.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(c *Client) { c.lookPath = fn }
}

// WithInsideTmux replaces the "already inside tmux" capability check.
func WithInsideTmux(fn func() bool) Option {
	return func(c *Client) { c.inside = fn }
}

// WithSocket points every call at a dedicated tmux server.
func WithSocket(socket string) Option {
	return func(c *Client) { c.socket = socket }
}

// NewClient returns a client that runs tmux through builder. When
// WORKON_TMUX_SOCKET is set it uses that dedicated server.
func NewClient(builder *command.SafeBuilder, opts ...Option) *Client {
	if builder == nil {
		builder = command.NewSafeBuilder()
	}
	c := &Client{
		lookPath: builder.Executor().LookPath,
		inside:   func() bool { return os.Getenv("TMUX") != "" },
		socket:   os.Getenv("WORKON_TMUX_SOCKET"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.runner == nil {
		c.runner = &execRunner{builder: builder, socket: c.socket}
	}
	if c.spawner == nil {
		c.spawner = process.NewExecSpawner(builder.Executor())
	}
	return c
}

// Socket returns the socket name this client uses, or empty string for default.
func (c *Client) Socket() string {
	return c.socket
}

// InsideTmux reports whether the calling process runs inside a tmux client.
func (c *Client) InsideTmux() bool {
	return c.inside()
}

// IsAvailable probes for the tmux binary. It has no side effects and gives
// up after command.ProbeTimeout.
func (c *Client) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, command.ProbeTimeout)
	defer cancel()

	found := make(chan bool, 1)
	go func() {
		_, err := c.lookPath("tmux")
		found <- err == nil
	}()

	select {
	case ok := <-found:
		return ok
	case <-ctx.Done():
		return false
	}
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	return c.runner.Run(ctx, args...)
}

// socketArgs prefixes args with the -L flag when a dedicated server is used.
func (c *Client) socketArgs(args ...string) []string {
	if c.socket == "" {
		return args
	}
	return append([]string{"-L", c.socket}, args...)
}

type execRunner struct {
	builder *command.SafeBuilder
	socket  string
}

func (r *execRunner) Run(ctx context.Context, args ...string) (string, error) {
	if r.socket != "" {
		args = append([]string{"-L", r.socket}, args...)
	}

	cmd, err := r.builder.Build(ctx, "tmux", args...)
	if err != nil {
		return "", fmt.Errorf("failed to build command: %w", err)
	}
	defer cmd.Release()

	output, err := cmd.Exec().CombinedOutput()
	if err != nil {
		cmdStr := "tmux " + strings.Join(args, " ")
		return string(output), fmt.Errorf("tmux command failed: `%s`: %w, output: %s", cmdStr, err, string(output))
	}
	return string(output), nil
}
