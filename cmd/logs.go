package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/logging"
	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"
)

func newLogsCmd() *cobra.Command {
	var (
		follow bool
		lines  int
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show today's workon log file",
		Long: `Show the log file written when logging.file.enabled is set.

The file is shared by every component; each entry names its component.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, enabled := logging.CurrentFile()
			if _, err := os.Stat(path); err != nil {
				if !enabled {
					return errors.InvalidInput("file logging is disabled; run 'workon config set logging.file.enabled true'")
				}
				return errors.New(errors.ErrCodeConfigNotFound, fmt.Sprintf("no log file at %s", path)).
					WithDetail("path", path)
			}

			out := cmd.OutOrStdout()
			if err := printLastLines(out, path, lines); err != nil {
				return err
			}
			if !follow {
				return nil
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return followFile(ctx, out, path)
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new entries")
	cmd.Flags().IntVar(&lines, "lines", 20, "Number of trailing lines to show (0 for all)")
	return cmd
}

// printLastLines reads path to its end and writes the last n lines.
func printLastLines(w io.Writer, path string, n int) error {
	t, err := tail.TailFile(path, tail.Config{MustExist: true, Logger: tail.DiscardingLogger})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "could not read log file")
	}
	defer t.Cleanup()

	var ring []string
	for line := range t.Lines {
		if line.Err != nil {
			return errors.Wrap(line.Err, errors.ErrCodeInternal, "could not read log file")
		}
		ring = append(ring, line.Text)
		if n > 0 && len(ring) > n {
			ring = ring[1:]
		}
	}
	for _, l := range ring {
		fmt.Fprintln(w, l)
	}
	return nil
}

// followFile prints lines appended to path until ctx is done.
func followFile(ctx context.Context, w io.Writer, path string) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Location: &tail.SeekInfo{Whence: io.SeekEnd},
		Logger:   tail.DiscardingLogger,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "could not follow log file")
	}
	defer t.Cleanup()

	for {
		select {
		case <-ctx.Done():
			return t.Stop()
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				continue
			}
			fmt.Fprintln(w, line.Text)
		}
	}
}
