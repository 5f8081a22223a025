package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/workon/cli"
	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/git"
	"github.com/grovetools/workon/pkg/dispatch"
	"github.com/grovetools/workon/pkg/project"
	"github.com/grovetools/workon/pkg/registry"
	"github.com/grovetools/workon/tui/table"
	"github.com/grovetools/workon/tui/theme"
	"github.com/spf13/cobra"
)

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open [project[:events]]",
		Short: "Open a project by passing its name",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOpen,
	}
}

func runOpen(cmd *cobra.Command, args []string) error {
	identifier := "this"
	if len(args) == 1 {
		identifier = args[0]
	}
	target, err := dispatch.ParseIdentifier(identifier)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	opts := cli.GetOptions(cmd)

	req := dispatch.Request{
		Target:    target,
		ShellMode: opts.ShellMode,
		DryRun:    opts.DryRun,
	}
	res, err := a.dispatcher(cmd).Activate(cmd.Context(), req)
	if errors.GetCode(err) == errors.ErrCodeProjectNotFound && interactive(a.prompter) {
		a.logger.WithField("project", target.Project).Debug("Project not found, starting interactive mode")
		name := target.Project
		if target.Current {
			name = ""
		}
		created, cerr := createInteractively(cmd.Context(), a, name)
		if cerr != nil {
			return cerr
		}
		if created {
			if _, rerr := a.recognizer.Projects(true); rerr != nil {
				return rerr
			}
			res, err = a.dispatcher(cmd).Activate(cmd.Context(), req)
		}
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case target.Help:
		if opts.JSONOutput {
			return writeJSON(out, res.Help)
		}
		if opts.ShellMode {
			printProjectHelp(cmd.ErrOrStderr(), res)
			return nil
		}
		printProjectHelp(out, res)
	case opts.DryRun && opts.JSONOutput:
		return writeJSON(out, res)
	case opts.DryRun:
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v (layout %s)\n",
			theme.DefaultTheme.Accent.Render("dry-run"), res.Project.Name, res.Events, res.Layout)
	}
	return nil
}

func interactive(p registry.Prompter) bool {
	i, ok := p.(interface{ Interactive() bool })
	return ok && i.Interactive()
}

// createInteractively offers to register an unknown project and asks for
// its directory, editor and events. An empty name registers the working
// directory, named after its repository. It reports false when declined.
func createInteractively(ctx context.Context, a *app, name string) (bool, error) {
	wd, err := os.Getwd()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeInternal, "could not read working directory")
	}
	defaultPath := wd

	question := fmt.Sprintf("Project '%s' not found. Create it?", name)
	if name == "" {
		question = "This directory is not a project. Create one?"
	}
	ok, err := a.prompter.Confirm(question, true)
	if err != nil || !ok {
		return false, err
	}

	if name == "" {
		suggested := filepath.Base(wd)
		if a.repo != nil && git.HasGitDir(wd) {
			if repo, _, err := a.repo.GetRepoInfo(ctx, wd); err == nil {
				suggested = repo
			}
			if root, err := a.repo.GetGitRoot(ctx, wd); err == nil {
				defaultPath = root
			}
		}
		if name, err = a.prompter.Input("What is the name of the project?", suggested); err != nil {
			return false, err
		}
	}
	if err := project.ValidateName(name); err != nil {
		return false, err
	}
	if project.Exists(a.store, name) {
		return false, errors.InvalidInput(fmt.Sprintf("project '%s' already exists", name))
	}

	path, err := a.prompter.Input("What is the path to the project?", defaultPath)
	if err != nil {
		return false, err
	}
	defaults, err := project.LoadDefaults(a.store)
	if err != nil {
		return false, err
	}
	ide, err := a.prompter.Input("What is the IDE?", defaults.IDE)
	if err != nil {
		return false, err
	}
	answer, err := a.prompter.Input("Which events should take place when opening?", "cwd,ide")
	if err != nil {
		return false, err
	}
	var events []string
	for _, e := range strings.Split(answer, ",") {
		if e = strings.TrimSpace(e); e != "" {
			events = append(events, e)
		}
	}

	p, err := buildProject(a, name, path, ide, "", events, true)
	if err != nil {
		return false, err
	}
	if err := project.Save(a.store, p); err != nil {
		return false, err
	}
	a.logger.WithField("project", name).Info("Project created")
	return true, nil
}

func printProjectHelp(w io.Writer, res *dispatch.Result) {
	fmt.Fprintf(w, "Available commands for %s:\n", theme.DefaultTheme.Header.Render(res.Project.Name))
	rows := make([][]string, 0, len(res.Help))
	for _, e := range res.Help {
		rows = append(rows, []string{e.Name, e.Display, e.Usage})
	}
	fmt.Fprintln(w, table.Render([]string{"EVENT", "DESCRIPTION", "USAGE"}, rows))
	fmt.Fprintf(w, "Run a subset with: workon %s:<event>,<event>\n", res.Project.Name)
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
