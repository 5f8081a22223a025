// Package cmd builds the workon command tree.
package cmd

import (
	"github.com/grovetools/workon/command"
	"github.com/grovetools/workon/config"
	"github.com/grovetools/workon/git"
	"github.com/grovetools/workon/logging"
	"github.com/grovetools/workon/pkg/dispatch"
	"github.com/grovetools/workon/pkg/environment"
	"github.com/grovetools/workon/pkg/events"
	"github.com/grovetools/workon/pkg/paths"
	"github.com/grovetools/workon/pkg/process"
	"github.com/grovetools/workon/pkg/registry"
	"github.com/grovetools/workon/pkg/tmux"
	"github.com/grovetools/workon/tui/prompt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app is the set of collaborators one invocation works with. It is built
// once per process after flags are parsed.
type app struct {
	store      *config.FileStore
	registry   *registry.Registry
	recognizer *environment.Recognizer
	repo       git.RepositoryProvider
	tmux       *tmux.Client
	spawner    process.Spawner
	prompter   registry.Prompter
	logger     *logrus.Entry
}

// newApp builds the app. Tests replace it to inject fakes.
var newApp = func(cmd *cobra.Command) (*app, error) {
	store, err := config.Open(paths.ConfigFile())
	if err != nil {
		return nil, err
	}
	builder := command.NewSafeBuilder()
	spawner := process.NewExecSpawner(builder.Executor())
	repo := git.NewCLIRepositoryWithBuilder(builder)
	return &app{
		store:      store,
		registry:   events.NewRegistry(logging.NewLogger("registry")),
		recognizer: environment.NewRecognizer(store, repo, logging.NewLogger("environment")),
		repo:       repo,
		tmux:       tmux.NewClient(builder, tmux.WithSpawner(spawner)),
		spawner:    spawner,
		prompter:   prompt.New(),
		logger:     logging.NewLogger("workon"),
	}, nil
}

func (a *app) dispatcher(cmd *cobra.Command) *dispatch.Dispatcher {
	return dispatch.New(a.store, a.recognizer, a.registry, a.tmux, a.spawner,
		dispatch.WithStdout(cmd.OutOrStdout()),
		dispatch.WithLogger(logging.NewLogger("dispatch")))
}
