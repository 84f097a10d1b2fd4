package main

import (
	"github.com/spf13/cobra"

	"github.com/njchilds90/symexpr/internal/repl"
)

func newReplCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session (batch mode when stdin is not a terminal)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := repl.ForKind(c.cfg.Numeric)
			if err != nil {
				return err
			}
			return repl.Run(cmd.InOrStdin(), cmd.OutOrStdout(), ev)
		},
	}
}
