package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"firebase-mcp/internal/config"
	"firebase-mcp/internal/shared/logger"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "1.0.0"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger logger.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	var envFile string

	root := &cobra.Command{
		Use:           "firebase-mcp",
		Short:         "Model Context Protocol server for documents, users and files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := config.LoadDotEnv(envFile); err != nil {
					return err
				}
			} else if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger.New(logger.Options{
				Backend: cfg.Log.Backend,
				Level:   cfg.Log.Level,
				Format:  cfg.Log.Format,
			}).WithComponent("firebase-mcp")
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file (default .env when present)")

	serve := newServeCommand(a)
	root.AddCommand(serve, newToolsCommand(), newTokenCommand(a), newVersionCommand())
	// Running the binary bare serves, which is what MCP hosts expect.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "firebase-mcp %s\n", version)
			return err
		},
	}
}
