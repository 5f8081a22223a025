package cmd

import (
	"fmt"

	"github.com/grovetools/workon/cli"
	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/pkg/tmux"
	"github.com/spf13/cobra"
)

func newSessionsCmd() *cobra.Command {
	var kill string
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List live workon tmux sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if !a.tmux.IsAvailable(ctx) {
				return errors.ToolUnavailable("tmux")
			}

			if kill != "" {
				if err := a.tmux.KillSession(ctx, tmux.SessionName(kill)); err != nil {
					return errors.CommandFailed("tmux kill-session", err).WithDetail("session", tmux.SessionName(kill))
				}
				a.logger.WithField("session", tmux.SessionName(kill)).Info("Killed session")
				return nil
			}

			names, err := a.tmux.ListSessions(ctx)
			if err != nil {
				return errors.CommandFailed("tmux list-sessions", err)
			}
			out := cmd.OutOrStdout()
			if cli.GetOptions(cmd).JSONOutput {
				if names == nil {
					names = []string{}
				}
				return writeJSON(out, names)
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kill, "kill", "", "Kill the session of this project")
	return cmd
}
