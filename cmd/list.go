package cmd

import (
	"fmt"
	"strings"

	"github.com/grovetools/workon/cli"
	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/pkg/project"
	"github.com/grovetools/workon/tui/table"
	"github.com/moby/patternmatcher"
	"github.com/spf13/cobra"
)

type projectRow struct {
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Branch   string   `json:"branch,omitempty"`
	IDE      string   `json:"ide,omitempty"`
	Homepage string   `json:"homepage,omitempty"`
	Events   []string `json:"events"`
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [pattern...]",
		Short: "List registered projects",
		Long: `List registered projects. Patterns are globs matched against project
names; a pattern starting with "!" excludes matches.`,
		Example: `workon list
workon list 'api*' '!api#*'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			all, err := project.LoadAll(a.store)
			if err != nil {
				return err
			}
			matched, err := filterProjects(all, args)
			if err != nil {
				return err
			}

			rows := make([]projectRow, 0, len(matched))
			for _, p := range matched {
				rows = append(rows, projectRow{
					Name:     p.Name,
					Path:     p.Path,
					Branch:   p.Branch,
					IDE:      p.IDE,
					Homepage: p.Homepage,
					Events:   p.EnabledEvents(),
				})
			}

			out := cmd.OutOrStdout()
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(out, rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No projects found")
				return nil
			}
			cells := make([][]string, 0, len(rows))
			for _, r := range rows {
				cells = append(cells, []string{r.Name, r.Path, r.Branch, strings.Join(r.Events, ", ")})
			}
			fmt.Fprintln(out, table.Render([]string{"NAME", "PATH", "BRANCH", "EVENTS"}, cells))
			return nil
		},
	}
}

// filterProjects keeps projects whose names match the patterns. No patterns
// keeps everything.
func filterProjects(all []*project.Project, patterns []string) ([]*project.Project, error) {
	if len(patterns) == 0 {
		return all, nil
	}
	pm, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("invalid pattern: %v", err))
	}
	var out []*project.Project
	for _, p := range all {
		ok, err := pm.MatchesOrParentMatches(p.Name)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("invalid pattern: %v", err))
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}
