package cmd

import (
	"fmt"

	"github.com/grovetools/workon/cli"
	"github.com/grovetools/workon/tui/table"
	"github.com/grovetools/workon/tui/theme"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events [event]",
		Short: "List available activation events, or show how to configure one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			jsonOut := cli.GetOptions(cmd).JSONOutput

			if len(args) == 1 {
				d, err := a.registry.ByName(args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(out, d.Help)
				}
				t := theme.DefaultTheme
				fmt.Fprintf(out, "%s  %s\n\n", t.Header.Render(d.DisplayName), t.Muted.Render(d.Help.Usage))
				fmt.Fprintln(out, d.Help.Description)
				for _, ex := range d.Help.Examples {
					fmt.Fprintf(out, "\n  %s\n  %s\n", t.Accent.Render(ex.Config), t.Muted.Render(ex.Description))
				}
				return nil
			}

			entries, err := a.registry.ForManageUI()
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(out, entries)
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Name, e.Display, e.Description})
			}
			fmt.Fprintln(out, table.Render([]string{"EVENT", "NAME", "DESCRIPTION"}, rows))
			return nil
		},
	}
}
