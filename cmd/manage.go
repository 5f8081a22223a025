package cmd

import (
	"fmt"
	"strings"

	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/pkg/project"
	"github.com/grovetools/workon/util/pathutil"
	"github.com/spf13/cobra"
)

func newManageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manage",
		Short: "Create, branch and remove projects",
	}
	cmd.AddCommand(newManageAddCmd(), newManageBranchCmd(), newManageRemoveCmd())
	return cmd
}

func newManageAddCmd() *cobra.Command {
	var (
		path      string
		ide       string
		homepage  string
		events    []string
		configure bool
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a project",
		Example: `workon manage add api --path ~/code/api --events cwd,ide,claude
workon manage add site --homepage https://example.com --events cwd,web,npm --configure`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			name := args[0]
			if strings.Contains(name, project.BranchSeparator) {
				return errors.InvalidInput("use 'workon manage branch' to create branch projects")
			}
			if err := project.ValidateName(name); err != nil {
				return err
			}
			if project.Exists(a.store, name) {
				return errors.InvalidInput(fmt.Sprintf("project '%s' already exists", name))
			}

			p, err := buildProject(a, name, path, ide, homepage, events, configure)
			if err != nil {
				return err
			}
			if err := project.Save(a.store, p); err != nil {
				return err
			}
			a.logger.WithField("project", name).Info("Project created")
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "Project directory, relative to project_defaults.base (default: the name)")
	cmd.Flags().StringVar(&ide, "ide", "", "Editor command (default: project_defaults.ide)")
	cmd.Flags().StringVar(&homepage, "homepage", "", "URL opened by the web event")
	cmd.Flags().StringSliceVar(&events, "events", nil, "Events to enable, comma-separated")
	cmd.Flags().BoolVar(&configure, "configure", false, "Ask for each event's options instead of using defaults")
	return cmd
}

// buildProject assembles and validates a new record. Empty path and ide fall
// back to the name and project_defaults.ide.
func buildProject(a *app, name, path, ide, homepage string, events []string, configure bool) (*project.Project, error) {
	defaults, err := project.LoadDefaults(a.store)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = name
	}
	abs, err := pathutil.Absolutify(defaults.Base, path)
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("invalid path '%s': %v", path, err))
	}
	if ide == "" {
		ide = defaults.IDE
	}

	p := &project.Project{Name: name, Path: abs, IDE: ide, Homepage: homepage, Events: map[string]interface{}{}}
	for _, e := range events {
		value, err := eventValue(a, e, configure)
		if err != nil {
			return nil, err
		}
		p.Events[e] = value
	}
	if err := p.Validate(a.registry); err != nil {
		return nil, err
	}
	return p, nil
}

// eventValue returns the configuration stored for a newly enabled event.
func eventValue(a *app, name string, configure bool) (interface{}, error) {
	d, err := a.registry.ByName(name)
	if err != nil {
		return nil, err
	}
	if configure {
		return d.Configure(a.prompter)
	}
	if d.DefaultConfig != nil {
		if v := d.DefaultConfig(); v != nil {
			return v, nil
		}
	}
	return true, nil
}

func newManageBranchCmd() *cobra.Command {
	var (
		ide      string
		homepage string
		sets     []string
		disable  []string
	)
	cmd := &cobra.Command{
		Use:   "branch <project> <branch>",
		Short: "Create a branch project derived from an existing project",
		Long: `Create the record "<project>#<branch>". It starts as a copy of the base
project; the flags override individual fields and events. The two records are
independent afterwards.`,
		Example: `workon manage branch api feature-x --event npm=test --disable web`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			base, err := project.Load(a.store, args[0])
			if err != nil {
				return err
			}

			overrides := map[string]interface{}{}
			if ide != "" {
				overrides["ide"] = ide
			}
			if homepage != "" {
				overrides["homepage"] = homepage
			}
			eventOverrides := map[string]interface{}{}
			for _, kv := range sets {
				name, raw, ok := strings.Cut(kv, "=")
				if !ok || name == "" {
					return errors.InvalidInput(fmt.Sprintf("expected event=value, got '%s'", kv))
				}
				value, err := parseValue(raw)
				if err != nil {
					return err
				}
				eventOverrides[name] = value
			}
			for _, name := range disable {
				eventOverrides[name] = false
			}
			if len(eventOverrides) > 0 {
				overrides["events"] = eventOverrides
			}

			derived, err := project.DeriveBranch(base, args[1], overrides)
			if err != nil {
				return err
			}
			if project.Exists(a.store, derived.Name) {
				return errors.InvalidInput(fmt.Sprintf("project '%s' already exists", derived.Name))
			}
			if err := derived.Validate(a.registry); err != nil {
				return err
			}
			if err := project.Save(a.store, derived); err != nil {
				return err
			}
			a.logger.WithField("project", derived.Name).Info("Branch project created")
			return nil
		},
	}
	cmd.Flags().StringVar(&ide, "ide", "", "Override the editor command")
	cmd.Flags().StringVar(&homepage, "homepage", "", "Override the homepage")
	cmd.Flags().StringArrayVar(&sets, "event", nil, "Override an event as name=value (value parsed as YAML); repeatable")
	cmd.Flags().StringSliceVar(&disable, "disable", nil, "Events to disable on the branch")
	return cmd
}

func newManageRemoveCmd() *cobra.Command {
	var branches bool
	cmd := &cobra.Command{
		Use:   "remove <project>",
		Short: "Remove a project record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			name := args[0]
			if err := project.Remove(a.store, name); err != nil {
				return err
			}
			a.logger.WithField("project", name).Info("Project removed")

			if !branches {
				return nil
			}
			prefix := name + project.BranchSeparator
			for _, other := range project.Names(a.store) {
				if strings.HasPrefix(other, prefix) {
					if err := project.Remove(a.store, other); err != nil {
						return err
					}
					a.logger.WithField("project", other).Info("Project removed")
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&branches, "branches", false, "Also remove the project's branch records")
	return cmd
}
