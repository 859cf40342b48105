package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/genie/internal/app"
)

func addDaemonFlags(cmd *cobra.Command, opts *app.DaemonOptions) {
	cmd.Flags().StringVar(&opts.Name, "name", "", "Name the genie registers under")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "Directory to create the socket in (defaults to the first path entry)")
	cmd.Flags().DurationVar(&opts.IdleTimeout, "idle-timeout", 0, "Exit after this long without a request (0 disables)")
	cmd.Flags().Uint64Var(&opts.EvictLag, "evict-lag", 0, "Forget cookies this many snapshots behind (0 disables)")
	cmd.Flags().BoolVarP(&opts.Detach, "detach", "d", false, "Run in the background, logging next to the socket")
}

func (c *CLI) newWatchCmd() *cobra.Command {
	var opts app.WatchOptions
	cmd := &cobra.Command{
		Use:   "watch [flags] -- command...",
		Short: "Re-run a shell command periodically and serve its output",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			opts.Command = args
			opts.Reexec = c.args
			return c.app.Watch(cmd.Context(), c.settings, opts)
		},
	}
	cmd.Flags().SetInterspersed(false)
	addDaemonFlags(cmd, &opts.DaemonOptions)
	cmd.Flags().DurationVarP(&opts.Interval, "interval", "i", 0, "Pause between runs (defaults to the configured interval)")
	cmd.Flags().BoolVar(&opts.Bell, "bell", false, "Ring the terminal bell in poll replies of failed runs")
	cmd.Flags().BoolVar(&opts.TTY, "tty", false, "Run the command under a pseudo-terminal")
	cmd.Flags().StringVarP(&opts.WatchDir, "watch-dir", "w", "", "Re-run early when files below this directory change")
	return cmd
}

func (c *CLI) newTscCmd() *cobra.Command {
	var opts app.CompilerOptions
	cmd := &cobra.Command{
		Use:   "tsc [flags] [-- args...]",
		Short: "Supervise an incremental compiler and serve each compilation cycle",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Args = args
			opts.Reexec = c.args
			return c.app.Compile(cmd.Context(), c.settings, opts)
		},
	}
	cmd.Flags().SetInterspersed(false)
	addDaemonFlags(cmd, &opts.DaemonOptions)
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "Configured compiler profile (defaults to tsc)")
	cmd.Flags().StringVar(&opts.Start, "start", "", "Regular expression matching the first line of a cycle")
	cmd.Flags().StringVar(&opts.End, "end", "", "Regular expression matching the last line of a cycle, capturing the error count")
	return cmd
}
