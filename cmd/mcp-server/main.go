// Command mcp-server exposes the symexpr tools to MCP clients such as
// desktop agents, without the rest of the symexpr CLI.
//
// Usage:
//
//	mcp-server                          # stdio, exact rationals
//	mcp-server --numeric float --transport sse --port 8081
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/njchilds90/symexpr/internal/app"
	"github.com/njchilds90/symexpr/internal/config"
	"github.com/njchilds90/symexpr/internal/logging"
)

func main() {
	if err := newCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var configPath string
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:          "mcp-server",
		Short:        "Serve symexpr tools over the Model Context Protocol",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			// Flags win over the file.
			for name, apply := range map[string]func(){
				"numeric":   func() { loaded.Numeric = cfg.Numeric },
				"transport": func() { loaded.MCP.Transport = cfg.MCP.Transport },
				"port":      func() { loaded.MCP.Port = cfg.MCP.Port },
				"log-level": func() { loaded.LogLevel = cfg.LogLevel },
			} {
				if cmd.Flags().Changed(name) {
					apply()
				}
			}
			if err := loaded.Validate(); err != nil {
				return err
			}

			level, _ := logging.ParseLevel(loaded.LogLevel)
			// Stdout carries JSON-RPC on stdio; logs go to stderr.
			logger := logging.New(level)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, loaded, logger)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.ServeMCP(ctx, loaded.MCP.Transport, loaded.MCP.Port)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML configuration file")
	cmd.Flags().StringVar(&cfg.Numeric, "numeric", cfg.Numeric, "Numeric type: int, float or rat")
	cmd.Flags().StringVar(&cfg.MCP.Transport, "transport", cfg.MCP.Transport, "Transport protocol to use: 'stdio' or 'sse'")
	cmd.Flags().IntVar(&cfg.MCP.Port, "port", cfg.MCP.Port, "Port to listen on (only for SSE)")
	cmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	return cmd
}
