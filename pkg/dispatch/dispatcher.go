package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/grovetools/workon/config"
	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/pkg/environment"
	"github.com/grovetools/workon/pkg/process"
	"github.com/grovetools/workon/pkg/profiling"
	"github.com/grovetools/workon/pkg/project"
	"github.com/grovetools/workon/pkg/registry"
	"github.com/grovetools/workon/pkg/tmux"
	"github.com/sirupsen/logrus"
)

// Multiplexer is the part of the tmux client the dispatcher drives.
type Multiplexer interface {
	IsAvailable(ctx context.Context) bool
	ShellLines(layout tmux.Layout, projectName, projectPath string, commands tmux.PaneCommands) ([]string, error)
	CreateSession(ctx context.Context, layout tmux.Layout, projectName, projectPath string, commands tmux.PaneCommands) (string, error)
	KillSession(ctx context.Context, session string) error
	Attach(ctx context.Context, session string) error
}

// Recognizer resolves a directory to the project it belongs to.
type Recognizer interface {
	Recognize(ctx context.Context, dir string) (*environment.Environment, error)
}

var (
	_ Multiplexer = (*tmux.Client)(nil)
	_ Recognizer  = (*environment.Recognizer)(nil)
)

// Request is one activation.
type Request struct {
	Target Identifier
	// Dir is where "this" is recognized from; defaults to the working
	// directory.
	Dir       string
	ShellMode bool
	DryRun    bool
}

// HelpEntry describes one configured event.
type HelpEntry struct {
	Name        string `json:"name"`
	Display     string `json:"display"`
	Description string `json:"description"`
	Usage       string `json:"usage,omitempty"`
}

// Result reports what an activation did.
type Result struct {
	Project *project.Project `json:"-"`
	// Events is the resolved event list.
	Events []string    `json:"events"`
	Layout tmux.Layout `json:"layout"`
	// Lines are the shell lines written in shell mode.
	Lines   []string `json:"lines,omitempty"`
	Session string   `json:"session,omitempty"`
	// FellBack is set when a layout was chosen but events ran one by one.
	FellBack bool        `json:"fell_back,omitempty"`
	DryRun   bool        `json:"dry_run,omitempty"`
	Help     []HelpEntry `json:"help,omitempty"`
}

// Dispatcher executes activations.
type Dispatcher struct {
	store      config.Store
	recognizer Recognizer
	registry   *registry.Registry
	mux        Multiplexer
	spawner    process.Spawner
	stdout     io.Writer
	logger     *logrus.Entry
	goos       string
	shell      string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithStdout sets where shell lines are written.
func WithStdout(w io.Writer) Option {
	return func(d *Dispatcher) { d.stdout = w }
}

// WithLogger sets the dispatcher's logger.
func WithLogger(l *logrus.Entry) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithPlatform overrides the operating system and interactive shell handed
// to events.
func WithPlatform(goos, shell string) Option {
	return func(d *Dispatcher) {
		d.goos = goos
		d.shell = shell
	}
}

// New returns a dispatcher. The registry must already be initialized.
func New(store config.Store, recognizer Recognizer, reg *registry.Registry, mux Multiplexer, spawner process.Spawner, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:      store,
		recognizer: recognizer,
		registry:   reg,
		mux:        mux,
		spawner:    spawner,
		stdout:     os.Stdout,
		logger:     logrus.NewEntry(logrus.StandardLogger()),
		goos:       runtime.GOOS,
		shell:      os.Getenv("SHELL"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Lookup returns the project an identifier names.
func (d *Dispatcher) Lookup(ctx context.Context, target Identifier, dir string) (*project.Project, error) {
	if !target.Current {
		return project.Load(d.store, target.Project)
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.RecognitionFailed(".", err)
		}
		dir = wd
	}
	env, err := d.recognizer.Recognize(ctx, dir)
	if err != nil {
		return nil, err
	}
	if !env.IsProject() {
		return nil, errors.ProjectNotFound(target.Project).WithDetail("dir", dir)
	}
	d.logger.WithField("project", env.Project.Name).Info("Open current")
	return env.Project, nil
}

// Activate runs one request: look up the project, resolve its events, pick a
// layout and either build a tmux session or process the events one by one.
// When tmux is missing or session setup fails the events run individually
// in resolved order.
func (d *Dispatcher) Activate(ctx context.Context, req Request) (*Result, error) {
	defer profiling.Start("activate").Stop()

	lookup := profiling.Start("lookup")
	p, err := d.Lookup(ctx, req.Target, req.Dir)
	lookup.Stop()
	if err != nil {
		return nil, err
	}
	logger := d.logger.WithField("project", p.Name)

	if req.Target.Help {
		entries, err := d.help(p)
		if err != nil {
			return nil, err
		}
		return &Result{Project: p, Help: entries}, nil
	}

	resolve := profiling.Start("resolve")
	events, err := Resolve(d.registry, p, req.Target.Events)
	if err != nil {
		resolve.Stop()
		return nil, err
	}
	plan, err := SelectLayout(d.registry, p, events)
	resolve.Stop()
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"path":   p.Path,
		"ide":    p.IDE,
		"events": strings.Join(events, ","),
		"layout": plan.Layout,
	}).Debug("Resolved activation")

	res := &Result{Project: p, Events: events, Layout: plan.Layout, DryRun: req.DryRun}
	for _, name := range events {
		d.logScripts(logger, p, name)
	}
	if req.DryRun {
		for _, name := range events {
			logger.WithField("event", name).Info("Would process event")
		}
		return res, nil
	}

	run := &run{d: d, project: p, shellMode: req.ShellMode, logger: logger}
	exec := profiling.Start("execute")
	err = d.execute(ctx, run, plan, events, res)
	exec.Stop()
	if err != nil {
		return nil, err
	}

	res.Lines = run.lines
	if req.ShellMode && len(run.lines) > 0 {
		if _, err := fmt.Fprintln(d.stdout, strings.Join(run.lines, "\n")); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to write shell commands")
		}
	}
	return res, nil
}

func (d *Dispatcher) execute(ctx context.Context, r *run, plan Plan, events []string, res *Result) error {
	if !plan.Layout.Multiplexed() {
		return r.processAll(ctx, events)
	}

	if !d.mux.IsAvailable(ctx) {
		r.logger.WithField("layout", plan.Layout).Debug("tmux not available, processing events individually")
		res.FellBack = true
		return r.processAll(ctx, events)
	}

	// Independent events go first; attaching blocks.
	if err := r.processAll(ctx, plan.Independent); err != nil {
		return err
	}

	p := r.project
	if r.shellMode {
		lines, err := d.mux.ShellLines(plan.Layout, p.Name, p.Path, plan.Commands)
		if err != nil {
			r.logger.WithError(err).Debug("Could not build tmux commands, processing events individually")
			res.FellBack = true
			return r.processAll(ctx, plan.Panes)
		}
		r.lines = append(r.lines, lines...)
		res.Session = tmux.SessionName(p.Name)
		return nil
	}

	session, err := d.mux.CreateSession(ctx, plan.Layout, p.Name, p.Path, plan.Commands)
	if err != nil {
		r.logger.WithError(err).Debug("tmux session failed, processing events individually")
		if kerr := d.mux.KillSession(ctx, tmux.SessionName(p.Name)); kerr != nil {
			r.logger.WithError(kerr).Debug("No partial session to remove")
		}
		res.FellBack = true
		return r.processAll(ctx, plan.Panes)
	}
	res.Session = session
	return d.mux.Attach(ctx, session)
}

func (d *Dispatcher) help(p *project.Project) ([]HelpEntry, error) {
	names, err := ConfiguredEvents(d.registry, p)
	if err != nil {
		return nil, err
	}
	entries := make([]HelpEntry, 0, len(names))
	for _, name := range names {
		desc, err := d.registry.ByName(name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, HelpEntry{
			Name:        desc.Name,
			Display:     desc.DisplayName,
			Description: desc.Description,
			Usage:       desc.Help.Usage,
		})
	}
	return entries, nil
}

// logScripts notes configured hooks, which are not run.
func (d *Dispatcher) logScripts(logger *logrus.Entry, p *project.Project, event string) {
	if len(p.Scripts) == 0 {
		return
	}
	before := "before" + strings.ToUpper(event[:1]) + event[1:]
	if _, ok := p.Scripts[before]; ok {
		logger.WithField("script", before).Debug("Found 'before' script, scripts are not supported")
	}
	if _, ok := p.Scripts[event]; ok {
		logger.WithField("script", event).Debug("Found script with event name, scripts are not supported")
	}
}

// run carries the state of one activation's event processing.
type run struct {
	d         *Dispatcher
	project   *project.Project
	shellMode bool
	logger    *logrus.Entry
	lines     []string
}

func (r *run) processAll(ctx context.Context, events []string) error {
	for _, name := range events {
		if err := r.process(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) process(ctx context.Context, name string) error {
	desc, err := r.d.registry.ByName(name)
	if err != nil {
		return err
	}
	logger := r.logger.WithField("event", name)
	logger.Debug("Processing event")

	a := &registry.Activation{
		Project:   r.project,
		ShellMode: r.shellMode,
		Spawner:   r.d.spawner,
		Logger:    logger,
		GOOS:      r.d.goos,
		Shell:     r.d.shell,
	}
	if err := desc.Process(ctx, a); err != nil {
		return err
	}
	r.lines = append(r.lines, a.Lines()...)
	return nil
}
