package events

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/pkg/process"
	"github.com/grovetools/workon/pkg/registry"
	"github.com/grovetools/workon/util/shell"
)

func toggle() interface{} { return true }

func configureToggle(registry.Prompter) (interface{}, error) { return true, nil }

// Core returns the built-in events: cwd, ide and web.
func Core() registry.Catalog {
	return registry.Catalog{
		Name:        "core",
		Descriptors: []registry.Descriptor{cwdDescriptor(), ideDescriptor(), webDescriptor()},
	}
}

func cwdDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:        "cwd",
		DisplayName: "Change directory (cwd)",
		Description: "Change current working directory to project path",
		Category:    "core",
		Validate: func(v interface{}) error {
			if !isToggle(v) {
				return toggleError("CWD")
			}
			return nil
		},
		Configure:     configureToggle,
		DefaultConfig: toggle,
		Process:       processCwd,
		Help: registry.Help{
			Usage:       "cwd: true",
			Description: "Changes the current working directory to the project path",
			Examples: []registry.Example{
				{Config: "cwd: true", Description: "Enable directory change when opening project"},
				{Config: "cwd: false", Description: "Disable directory change (stay in current directory)"},
			},
		},
	}
}

// processCwd emits a cd in shell mode. Otherwise it opens an interactive
// shell in the project directory and waits for it.
func processCwd(ctx context.Context, a *registry.Activation) error {
	if a.ShellMode {
		a.Emit("cd " + shell.Quote(a.Project.Path))
		return nil
	}
	sh := a.Shell
	if sh == "" {
		sh = os.Getenv("SHELL")
	}
	if sh == "" {
		sh = "/bin/sh"
	}
	return a.Spawner.Run(ctx, process.Spec{Name: sh, Args: []string{"-i"}, Dir: a.Project.Path})
}

func ideDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:        "ide",
		DisplayName: "Open in IDE",
		Description: "Open project in configured IDE/editor",
		Category:    "core",
		RequiresCwd: true,
		Validate: func(v interface{}) error {
			if !isToggle(v) {
				return toggleError("IDE")
			}
			return nil
		},
		Configure:     configureToggle,
		DefaultConfig: toggle,
		Process:       processIDE,
		Help: registry.Help{
			Usage:       "ide: true",
			Description: "Opens the project in the configured IDE/editor",
			Examples: []registry.Example{
				{Config: "ide: true", Description: "Enable opening project in IDE when switching to project"},
				{Config: "ide: false", Description: "Disable automatic IDE opening"},
			},
		},
	}
}

// processIDE launches the project's IDE in the background. The IDE value may
// carry arguments ("code -n").
func processIDE(ctx context.Context, a *registry.Activation) error {
	fields := strings.Fields(a.Project.IDE)
	if len(fields) == 0 {
		return errors.InvalidInput("no IDE configured for project '" + a.Project.Name + "'")
	}
	args := append(fields[1:], a.Project.Path)

	if a.ShellMode {
		a.Emit(shell.Command(fields[0], args...) + " &")
		return nil
	}
	return a.Spawner.Start(ctx, process.Spec{Name: fields[0], Args: args, Dir: a.Project.Path})
}

func webDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:        "web",
		DisplayName: "Open homepage in browser",
		Description: "Open project homepage in web browser",
		Category:    "core",
		Validate: func(v interface{}) error {
			if !isToggle(v) {
				return toggleError("Web")
			}
			return nil
		},
		Configure:     configureToggle,
		DefaultConfig: toggle,
		Process:       processWeb,
		Help: registry.Help{
			Usage:       "web: true",
			Description: "Opens the project homepage in the default web browser",
			Examples: []registry.Example{
				{Config: "web: true", Description: "Enable opening project homepage when switching to project"},
				{Config: "web: false", Description: "Disable automatic homepage opening"},
			},
		},
	}
}

// opener returns the command that opens a URL on goos.
func opener(goos string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", nil
	case "windows":
		return "cmd", []string{"/c", "start", ""}
	default:
		return "xdg-open", nil
	}
}

func processWeb(ctx context.Context, a *registry.Activation) error {
	homepage := a.Project.Homepage
	if homepage == "" {
		a.Logger.Debug("No homepage configured, skipping web event")
		return nil
	}

	goos := a.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	name, args := opener(goos)
	args = append(args, homepage)

	if a.ShellMode {
		if goos == "windows" {
			a.Emit("start " + shell.Quote(homepage))
			return nil
		}
		a.Emit(shell.Command(name, args...) + " &")
		return nil
	}
	return a.Spawner.Start(ctx, process.Spec{Name: name, Args: args})
}
