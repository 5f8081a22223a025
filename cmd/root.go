package cmd

import (
	"github.com/grovetools/workon/cli"
	"github.com/grovetools/workon/pkg/profiling"
	"github.com/spf13/cobra"
)

// NewRootCmd returns the workon command. Without a subcommand it opens the
// given project.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand("workon [project[:events]]",
		"Switch between projects and run their activation events")
	root.Long = `Switch between projects and run their activation events.

A project identifier may select events with a colon: "demo:cwd,claude" runs
only those events and "demo:help" lists what the project has configured.
"this" or "." opens the project the current directory belongs to.`
	root.Example = `# open a project with every configured event
workon demo
# evaluate the emitted commands in the calling shell
eval "$(workon demo --shell)"
# run a subset
workon demo:cwd,npm`
	root.Args = cobra.MaximumNArgs(1)
	timer := profiling.NewCobraTimer()
	timer.AddFlags(root)
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		timer.PreRun(cmd, args)
		return cli.GetOptions(cmd).Apply()
	}
	root.PersistentPostRun = timer.PostRun
	root.RunE = runOpen

	root.AddCommand(
		newOpenCmd(),
		newConfigCmd(),
		newListCmd(),
		newManageCmd(),
		newSessionsCmd(),
		newEventsCmd(),
		newStarshipCmd(),
		newLogsCmd(),
		cli.NewVersionCommand("workon"),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(args []string) int {
	root := NewRootCmd()
	root.SetArgs(args)
	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}
	cli.NewErrorHandler(cli.GetOptions(cmd).Debug).Handle(err)
	return 1
}
