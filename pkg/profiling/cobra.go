package profiling

import (
	"github.com/spf13/cobra"
)

// CobraTimer wires the --timing flag into a command tree.
type CobraTimer struct {
	enabled bool
	timer   *Timer
}

// NewCobraTimer returns a CobraTimer bound to the process-wide timer.
func NewCobraTimer() *CobraTimer {
	return &CobraTimer{timer: defaultTimer}
}

// AddFlags registers --timing as a persistent flag.
func (c *CobraTimer) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&c.enabled, "timing", false, "Print a timing summary to stderr on exit")
}

// PreRun enables the timer when --timing was given.
func (c *CobraTimer) PreRun(cmd *cobra.Command, args []string) {
	if c.enabled {
		c.timer.Enable()
	}
}

// PostRun prints the summary to the command's error stream.
func (c *CobraTimer) PostRun(cmd *cobra.Command, args []string) {
	if c.enabled {
		c.timer.Summarize(cmd.ErrOrStderr())
	}
}
