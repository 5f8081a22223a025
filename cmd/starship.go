package cmd

import (
	"fmt"
	"os"

	"github.com/grovetools/workon/starship"
	"github.com/spf13/cobra"
)

func newStarshipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "starship",
		Short: "Show the current project in the Starship prompt",
	}

	install := &cobra.Command{
		Use:   "install",
		Short: "Add the workon module to starship.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := starship.ConfigPath()
			if err != nil {
				return err
			}
			return starship.Install(path, "workon", cmd.OutOrStdout())
		},
	}

	status := &cobra.Command{
		Use:    "status",
		Short:  "Print the prompt segment for the current directory",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return nil
			}
			dir, err := os.Getwd()
			if err != nil {
				return nil
			}
			if s := starship.Status(cmd.Context(), a.recognizer, dir); s != "" {
				fmt.Fprint(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}

	cmd.AddCommand(install, status)
	return cmd
}
