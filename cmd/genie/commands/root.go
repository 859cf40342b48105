// Package commands implements the CLI commands for genie.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/genie/internal/app"
	"go.trai.ch/genie/internal/build"
)

// CLI represents the command line interface for genie.
type CLI struct {
	app      Application
	rootCmd  *cobra.Command
	settings app.Settings
	args     []string
}

// Application represents the application logic interface.
type Application interface {
	Watch(ctx context.Context, s app.Settings, opts app.WatchOptions) error
	Compile(ctx context.Context, s app.Settings, opts app.CompilerOptions) error
	Poll(ctx context.Context, s app.Settings) error
	Get(ctx context.Context, s app.Settings, ref string) error
	Exit(ctx context.Context, s app.Settings, ref string) error
	Promote(ctx context.Context, s app.Settings, refs []string) error
	List(ctx context.Context, s app.Settings) error
	NewCookie() error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "genie",
		Short:         "Background workers answering long polls over unix sockets",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.settings.ConfigPath, "config", "", "Path to the config file")
	flags.StringVar(&c.settings.Path, "path", "", "Colon-separated genie search path (overrides GENIE_PATH)")
	flags.StringVar(&c.settings.Cookie, "cookie", "", "Client cookie (overrides GENIE_COOKIE)")
	flags.StringVar(&c.settings.Color, "color", "auto", "Colorize output: auto, always or never")
	flags.BoolVarP(&c.settings.Verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&c.settings.JSONLogs, "json-logs", false, "Write logs as JSON")

	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newTscCmd())
	rootCmd.AddCommand(c.newPollCmd())
	rootCmd.AddCommand(c.newGetCmd())
	rootCmd.AddCommand(c.newExitCmd())
	rootCmd.AddCommand(c.newPromoteCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newCookieCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command.
// A detached daemon re-executes itself with the same arguments.
func (c *CLI) SetArgs(args []string) {
	c.args = args
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
