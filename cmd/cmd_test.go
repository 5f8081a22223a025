package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/workon/config"
	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/pkg/environment"
	"github.com/grovetools/workon/pkg/events"
	"github.com/grovetools/workon/pkg/paths"
	"github.com/grovetools/workon/pkg/process"
	"github.com/grovetools/workon/pkg/tmux"
	"github.com/grovetools/workon/testutil"
	"github.com/grovetools/workon/tui/prompt"
	"github.com/grovetools/workon/util/shell"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerFunc func(ctx context.Context, args ...string) (string, error)

func (f runnerFunc) Run(ctx context.Context, args ...string) (string, error) { return f(ctx, args...) }

type noBranch struct{}

func (noBranch) CurrentBranch(ctx context.Context, dir string) (string, error) { return "main", nil }

type env struct {
	base     string
	config   string
	recorder *process.Recorder
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// setup writes a config with projects demo and other, and swaps newApp for
// one that records spawns and talks to a fake tmux.
func setup(t *testing.T, tmuxAvailable bool, runner tmux.Runner) *env {
	t.Helper()
	base := t.TempDir()
	for _, dir := range []string{"demo", "other"} {
		require.NoError(t, os.MkdirAll(filepath.Join(base, dir), 0755))
	}
	path := testutil.WriteConfig(t, fmt.Sprintf(`project_defaults:
  base: %s
  ide: code
projects:
  demo:
    path: demo
    events:
      cwd: true
      claude: true
  other:
    path: other
    events:
      cwd: true
`, base))

	e := &env{base: base, config: path, recorder: &process.Recorder{}}
	if runner == nil {
		runner = runnerFunc(func(ctx context.Context, args ...string) (string, error) {
			return "", fmt.Errorf("exit status 1")
		})
	}

	orig := newApp
	t.Cleanup(func() { newApp = orig })
	newApp = func(cmd *cobra.Command) (*app, error) {
		store, err := config.Open(paths.ConfigFile())
		if err != nil {
			return nil, err
		}
		lookPath := func(string) (string, error) {
			if tmuxAvailable {
				return "/usr/bin/tmux", nil
			}
			return "", fmt.Errorf("not found")
		}
		return &app{
			store:      store,
			registry:   events.NewRegistry(quietLogger()),
			recognizer: environment.NewRecognizer(store, noBranch{}, quietLogger()),
			tmux: tmux.NewClient(nil,
				tmux.WithRunner(runner),
				tmux.WithSpawner(e.recorder),
				tmux.WithLookPath(lookPath),
				tmux.WithInsideTmux(func() bool { return false })),
			spawner:  e.recorder,
			prompter: prompt.Defaults{},
			logger:   quietLogger(),
		}, nil
	}
	return e
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func (e *env) reload(t *testing.T) *config.FileStore {
	t.Helper()
	store, err := config.Open(e.config)
	require.NoError(t, err)
	return store
}

func TestOpenShellModeWithoutTmux(t *testing.T) {
	e := setup(t, false, nil)

	out, err := run(t, "demo", "--shell")
	require.NoError(t, err)
	assert.Equal(t, "cd "+shell.Quote(filepath.Join(e.base, "demo"))+"\nclaude\n", out)
	assert.Empty(t, e.recorder.Calls)
}

func TestOpenSubcommandAndSubset(t *testing.T) {
	e := setup(t, false, nil)

	out, err := run(t, "open", "demo:cwd", "--shell")
	require.NoError(t, err)
	assert.Equal(t, "cd "+shell.Quote(filepath.Join(e.base, "demo"))+"\n", out)
}

func TestOpenHelp(t *testing.T) {
	e := setup(t, true, nil)

	out, err := run(t, "demo:help")
	require.NoError(t, err)
	assert.Contains(t, out, "Available commands for")
	assert.Contains(t, out, "claude")
	assert.Empty(t, e.recorder.Calls)
}

func TestOpenHelpShellModeKeepsStdoutClean(t *testing.T) {
	setup(t, true, nil)

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"demo:help", "--shell"})
	require.NoError(t, root.Execute())

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Available commands for")
	assert.Contains(t, stderr.String(), "claude")
}

func TestOpenDryRunJSON(t *testing.T) {
	e := setup(t, true, nil)

	out, err := run(t, "demo", "--dry-run", "--json")
	require.NoError(t, err)
	var res map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []interface{}{"cwd", "claude"}, res["events"])
	assert.Equal(t, "split-terminal", res["layout"])
	assert.Empty(t, e.recorder.Calls)
}

func TestOpenErrors(t *testing.T) {
	setup(t, false, nil)

	_, err := run(t, "missing")
	assert.Equal(t, errors.ErrCodeProjectNotFound, errors.GetCode(err))

	_, err = run(t, "other:claude")
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))

	assert.Equal(t, 1, Execute([]string{"missing"}))
}

func TestConfigSetListUnset(t *testing.T) {
	e := setup(t, false, nil)

	_, err := run(t, "config", "set", "projects.demo.events.web", "true")
	require.NoError(t, err)
	v, ok := e.reload(t).Get("projects.demo.events.web")
	require.True(t, ok)
	assert.Equal(t, true, v)

	out, err := run(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "projects.demo.events.web=true")
	assert.Contains(t, out, "project_defaults.ide=code")

	_, err = run(t, "config", "unset", "projects.demo.events.web")
	require.NoError(t, err)
	assert.False(t, e.reload(t).Has("projects.demo.events.web"))

	_, err = run(t, "config", "unset", "projects.demo.events.web")
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
	_, err = run(t, "config", "unset", "projects.demo.events.web", "--silent")
	assert.NoError(t, err)
}

func TestConfigValidate(t *testing.T) {
	setup(t, false, nil)

	out, err := run(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	_, err = run(t, "config", "set", "projects.demo.events.claude", "{flags: [resume]}")
	require.NoError(t, err)
	_, err = run(t, "config", "validate")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
	assert.Contains(t, err.Error(), "Flags must start with")

	_, err = run(t, "config", "set", "projects.demo.pth", "x")
	require.NoError(t, err)
	_, err = run(t, "config", "validate")
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
}

func TestConfigSchema(t *testing.T) {
	setup(t, false, nil)
	out, err := run(t, "config", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"projects"`)
}

func TestListPatterns(t *testing.T) {
	setup(t, false, nil)
	_, err := run(t, "manage", "branch", "demo", "feature-x")
	require.NoError(t, err)

	names := func(args ...string) []string {
		out, err := run(t, append([]string{"list", "--json"}, args...)...)
		require.NoError(t, err)
		var rows []projectRow
		require.NoError(t, json.Unmarshal([]byte(out), &rows))
		var got []string
		for _, r := range rows {
			got = append(got, r.Name)
		}
		return got
	}

	assert.Equal(t, []string{"demo", "demo#feature-x", "other"}, names())
	assert.Equal(t, []string{"demo", "demo#feature-x"}, names("demo*"))
	assert.Equal(t, []string{"demo"}, names("demo*", "!demo#*"))

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "demo#feature-x")
}

func TestManageAdd(t *testing.T) {
	e := setup(t, false, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(e.base, "api"), 0755))

	_, err := run(t, "manage", "add", "api", "--events", "cwd,npm,docker", "--homepage", "https://api.example.com")
	require.NoError(t, err)

	store := e.reload(t)
	assert.Equal(t, "api", store.GetString("projects.api.path", ""))
	assert.Equal(t, "https://api.example.com", store.GetString("projects.api.homepage", ""))
	assert.Equal(t, "dev", store.GetString("projects.api.events.npm", ""))
	compose, ok := store.Get("projects.api.events.docker.compose_file")
	require.True(t, ok)
	assert.Equal(t, "docker-compose.yml", compose)

	_, err = run(t, "manage", "add", "api")
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))

	_, err = run(t, "manage", "add", "ghost")
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err), "directory does not exist")

	_, err = run(t, "manage", "add", "bad name")
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
}

func TestManageBranch(t *testing.T) {
	e := setup(t, false, nil)

	_, err := run(t, "manage", "branch", "demo", "feature-x", "--event", "claude={flags: [--resume]}", "--ide", "vim")
	require.NoError(t, err)

	store := e.reload(t)
	assert.Equal(t, "feature-x", store.GetString("projects.demo#feature-x.branch", ""))
	assert.Equal(t, "vim", store.GetString("projects.demo#feature-x.ide", ""))
	flags, ok := store.Get("projects.demo#feature-x.events.claude.flags")
	require.True(t, ok)
	assert.Equal(t, []interface{}{"--resume"}, flags)
	// The base is untouched.
	assert.Equal(t, true, mustGet(t, store, "projects.demo.events.claude"))

	_, err = run(t, "manage", "branch", "demo", "feature-x")
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))

	_, err = run(t, "manage", "branch", "demo", "bad#branch")
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))

	_, err = run(t, "manage", "branch", "nope", "main")
	assert.Equal(t, errors.ErrCodeProjectNotFound, errors.GetCode(err))
}

func mustGet(t *testing.T, store *config.FileStore, key string) interface{} {
	t.Helper()
	v, ok := store.Get(key)
	require.True(t, ok, key)
	return v
}

func TestManageRemove(t *testing.T) {
	e := setup(t, false, nil)
	_, err := run(t, "manage", "branch", "demo", "feature-x")
	require.NoError(t, err)

	_, err = run(t, "manage", "remove", "demo", "--branches")
	require.NoError(t, err)
	store := e.reload(t)
	assert.False(t, store.Has("projects.demo"))
	assert.False(t, store.Has("projects.demo#feature-x"))
	assert.True(t, store.Has("projects.other"))

	_, err = run(t, "manage", "remove", "demo")
	assert.Equal(t, errors.ErrCodeProjectNotFound, errors.GetCode(err))
}

func TestSessions(t *testing.T) {
	setup(t, false, nil)
	_, err := run(t, "sessions")
	assert.Equal(t, errors.ErrCodeToolUnavailable, errors.GetCode(err))

	var killed []string
	runner := runnerFunc(func(ctx context.Context, args ...string) (string, error) {
		switch args[0] {
		case "list-sessions":
			return "workon-demo\nscratch\nworkon-api#main\n", nil
		case "kill-session":
			killed = append(killed, args[len(args)-1])
		}
		return "", nil
	})
	setup(t, true, runner)

	out, err := run(t, "sessions")
	require.NoError(t, err)
	assert.Equal(t, []string{"demo", "api#main"}, strings.Fields(out))

	_, err = run(t, "sessions", "--kill", "demo")
	require.NoError(t, err)
	assert.Equal(t, []string{"=workon-demo"}, killed)
}

func TestEvents(t *testing.T) {
	setup(t, false, nil)

	out, err := run(t, "events", "--json")
	require.NoError(t, err)
	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 6)
	assert.Equal(t, "Change directory (cwd)", entries[0]["display"])

	out, err = run(t, "events", "npm")
	require.NoError(t, err)
	assert.Contains(t, out, "npm run dev")

	_, err = run(t, "events", "nope")
	assert.Equal(t, errors.ErrCodeEventNotFound, errors.GetCode(err))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)
}

func TestStarship(t *testing.T) {
	e := setup(t, false, nil)

	chdir(t, filepath.Join(e.base, "demo"))
	out, err := run(t, "starship", "status")
	require.NoError(t, err)
	assert.Equal(t, "demo", out)

	chdir(t, e.base)
	out, err = run(t, "starship", "status")
	require.NoError(t, err)
	assert.Empty(t, out)

	cfg := filepath.Join(t.TempDir(), "starship.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("add_newline = false\n"), 0644))
	t.Setenv("STARSHIP_CONFIG", cfg)
	out, err = run(t, "starship", "install")
	require.NoError(t, err)
	assert.Contains(t, out, "Add '${custom.workon}'")
	data, err := os.ReadFile(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[custom.workon]")
}

type scriptedPrompter struct {
	confirm bool
	answers []string
	asked   []string
}

func (s *scriptedPrompter) Input(label, def string) (string, error) {
	s.asked = append(s.asked, label)
	if len(s.answers) == 0 {
		return def, nil
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *scriptedPrompter) Confirm(label string, def bool) (bool, error) {
	s.asked = append(s.asked, label)
	return s.confirm, nil
}

func (s *scriptedPrompter) Interactive() bool { return true }

func withPrompter(t *testing.T, p *scriptedPrompter) {
	t.Helper()
	orig := newApp
	t.Cleanup(func() { newApp = orig })
	newApp = func(cmd *cobra.Command) (*app, error) {
		a, err := orig(cmd)
		if err != nil {
			return nil, err
		}
		a.prompter = p
		return a, nil
	}
}

func TestOpenUnknownProjectCreatesInteractively(t *testing.T) {
	e := setup(t, false, nil)
	dir := filepath.Join(e.base, "fresh")
	require.NoError(t, os.MkdirAll(dir, 0755))
	p := &scriptedPrompter{confirm: true, answers: []string{dir, "vim", "cwd"}}
	withPrompter(t, p)

	out, err := run(t, "fresh", "--shell")
	require.NoError(t, err)
	assert.Equal(t, "cd "+shell.Quote(dir)+"\n", out)
	assert.Equal(t, "Project 'fresh' not found. Create it?", p.asked[0])

	store := e.reload(t)
	assert.Equal(t, "vim", store.GetString("projects.fresh.ide", ""))
	assert.Equal(t, "fresh", store.GetString("projects.fresh.path", ""))
}

func TestOpenUnknownProjectDeclined(t *testing.T) {
	e := setup(t, false, nil)
	withPrompter(t, &scriptedPrompter{confirm: false})

	_, err := run(t, "fresh")
	assert.Equal(t, errors.ErrCodeProjectNotFound, errors.GetCode(err))
	assert.False(t, e.reload(t).Has("projects.fresh"))
}

func TestLogs(t *testing.T) {
	setup(t, false, nil)

	_, err := run(t, "logs")
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))

	logFile := filepath.Join(t.TempDir(), "workon.log")
	require.NoError(t, os.WriteFile(logFile, []byte("one\ntwo\nthree\n"), 0644))
	_, err = run(t, "config", "set", "logging.file.path", logFile)
	require.NoError(t, err)

	out, err := run(t, "logs", "--lines", "2")
	require.NoError(t, err)
	assert.Equal(t, "two\nthree\n", out)

	out, err = run(t, "logs", "--lines", "0")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", out)
}

func TestOpenCurrentDirectoryCreatesInteractively(t *testing.T) {
	e := setup(t, false, nil)
	dir := filepath.Join(e.base, "scratch")
	require.NoError(t, os.MkdirAll(dir, 0755))
	chdir(t, dir)
	p := &scriptedPrompter{confirm: true}
	withPrompter(t, p)

	out, err := run(t, "--shell")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "cd "+shell.Quote(dir)+"\n"), out)
	assert.Equal(t, []string{
		"This directory is not a project. Create one?",
		"What is the name of the project?",
		"What is the path to the project?",
		"What is the IDE?",
		"Which events should take place when opening?",
	}, p.asked)
	assert.Equal(t, "code", e.reload(t).GetString("projects.scratch.ide", ""))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	if filepath.IsAbs(dir) {
		t.Setenv("PWD", dir)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}
