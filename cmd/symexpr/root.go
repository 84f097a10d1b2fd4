package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/njchilds90/symexpr"
	"github.com/njchilds90/symexpr/internal/config"
	"github.com/njchilds90/symexpr/internal/logging"
)

// cli carries state shared by the subcommands once flags are parsed.
type cli struct {
	configPath string
	numeric    string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "symexpr",
		Short:         "symexpr parses, simplifies and evaluates arithmetic expressions",
		Long:          `symexpr is a small symbolic algebra engine. Variables are written [name], e.g. "2 * (7 / [x])".`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultPath, "Path to the YAML configuration file")
	root.PersistentFlags().StringVar(&c.numeric, "numeric", "", "Numeric type: int, float or rat (overrides config)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")

	root.AddCommand(
		newEvalCmd(c),
		newFuncCmd(c),
		newReplCmd(c),
		newServeCmd(c),
		newMCPCmd(c),
		newVersionCmd(),
	)
	return root
}

func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("numeric") {
		cfg.Numeric = c.numeric
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := logging.ParseLevel(cfg.LogLevel)
	c.cfg = cfg
	c.logger = logging.NewWriter(cmd.ErrOrStderr(), level)
	return nil
}

func (c *cli) handler() (symexpr.ToolHandler, error) {
	return symexpr.NewToolHandler(c.cfg.Numeric)
}
