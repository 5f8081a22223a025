// Package cli holds the pieces every workon subcommand shares: standard
// flags, logger setup, styled help and error rendering.
package cli

import (
	"os"

	"github.com/grovetools/workon/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds the standard flags.
type CommandOptions struct {
	ConfigFile string
	Debug      bool
	JSONOutput bool
	ShellMode  bool
	DryRun     bool
}

// NewStandardCommand creates a command carrying the standard workon flags.
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging on stderr")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to the workon config file")
	cmd.PersistentFlags().Bool("shell", false, "Print shell commands instead of spawning processes")
	cmd.PersistentFlags().BoolP("dry-run", "n", false, "Resolve events without running them")

	SetStyledHelp(cmd)
	return cmd
}

// GetOptions extracts the standard flags from a command.
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	shellMode, _ := cmd.Flags().GetBool("shell")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	return CommandOptions{
		ConfigFile: configFile,
		Debug:      debug,
		JSONOutput: jsonOutput,
		ShellMode:  shellMode,
		DryRun:     dryRun,
	}
}

// Apply makes the options take effect for the rest of the process: an
// explicit config file is exported as WORKON_CONFIG and --debug raises
// every logger to debug.
func (o CommandOptions) Apply() error {
	if o.ConfigFile != "" {
		if err := os.Setenv("WORKON_CONFIG", o.ConfigFile); err != nil {
			return err
		}
	}
	if o.Debug {
		logging.SetDebug(true)
	}
	return nil
}

// GetLogger returns the logger for a command, named after its path.
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	return logging.NewLogger(cmd.Root().Name())
}
