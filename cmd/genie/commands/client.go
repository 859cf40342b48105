package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newPollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Print what changed in every genie on the path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Poll(cmd.Context(), c.settings)
		},
	}
}

func (c *CLI) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get name[.id]",
		Short: "Print the full output of a genie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Get(cmd.Context(), c.settings, args[0])
		},
	}
}

func (c *CLI) newExitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exit name[.id]",
		Short: "Ask a genie to shut down",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Exit(cmd.Context(), c.settings, args[0])
		},
	}
}

func (c *CLI) newPromoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote name[.id]...",
		Short: "Move genies one directory further down the path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Promote(cmd.Context(), c.settings, args)
		},
	}
}

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List every genie on the path",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.List(cmd.Context(), c.settings)
		},
	}
}

func (c *CLI) newCookieCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cookie",
		Short: "Print a fresh random cookie",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.app.NewCookie()
		},
	}
}
