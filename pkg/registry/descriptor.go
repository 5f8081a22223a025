// Package registry holds the catalog of activation events workon knows how
// to run.
package registry

import (
	"context"

	"github.com/grovetools/workon/pkg/process"
	"github.com/grovetools/workon/pkg/project"
	"github.com/grovetools/workon/pkg/tmux"
	"github.com/sirupsen/logrus"
)

// Prompter asks the user questions while configuring an event.
type Prompter interface {
	Input(label, defaultValue string) (string, error)
	Confirm(label string, defaultValue bool) (bool, error)
}

// Activation is what an event's Process function works with.
type Activation struct {
	Project   *project.Project
	ShellMode bool
	Spawner   process.Spawner
	Logger    *logrus.Entry
	// GOOS selects the browser opener; defaults to runtime.GOOS.
	GOOS string
	// Shell is the user's interactive shell; defaults to $SHELL.
	Shell string

	lines []string
}

// Emit appends a line to the shell output. Only meaningful in shell mode.
func (a *Activation) Emit(line string) {
	a.lines = append(a.lines, line)
}

// Lines returns the emitted shell lines in order.
func (a *Activation) Lines() []string {
	return a.lines
}

// TmuxHint declares that an event can fill a tmux pane.
type TmuxHint struct {
	// Priority orders layout contributions; higher asks first.
	Priority int
	// Role is the pane this event occupies.
	Role tmux.Role
	// Contribute picks a layout given the set of present event names.
	Contribute func(present map[string]bool) tmux.Layout
	// PaneCommand is the shell command the event's pane runs.
	PaneCommand func(p *project.Project) string
}

// Example is one documented configuration.
type Example struct {
	Config      string `json:"config"`
	Description string `json:"description"`
}

// Help documents an event's configuration.
type Help struct {
	Usage       string    `json:"usage"`
	Description string    `json:"description"`
	Examples    []Example `json:"examples,omitempty"`
}

// Descriptor is one activation event. Name, DisplayName, Validate, Configure
// and Process are required.
type Descriptor struct {
	Name         string
	DisplayName  string
	Description  string
	Category     string
	RequiresTmux bool
	Dependencies []string
	// RequiresCwd marks events whose process runs relative to the project
	// directory; they pull in cwd.
	RequiresCwd bool

	Validate      func(value interface{}) error
	Configure     func(p Prompter) (interface{}, error)
	DefaultConfig func() interface{}
	Process       func(ctx context.Context, a *Activation) error

	Tmux *TmuxHint
	Help Help
}

func (d *Descriptor) complete() bool {
	return d.Name != "" && d.DisplayName != "" &&
		d.Validate != nil && d.Configure != nil && d.Process != nil
}

// Catalog is a named, ordered group of descriptors.
type Catalog struct {
	Name        string
	Descriptors []Descriptor
}
