package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"firebase-mcp/internal/config"
	"firebase-mcp/internal/di"
	"firebase-mcp/internal/mcp"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		transport string
		addr      string
		httpPath  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tool catalog over stdio or streamable HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if transport != "" {
				a.cfg.Server.Transport = transport
			}
			if httpPath != "" {
				a.cfg.Server.HTTPPath = httpPath
			}
			if addr != "" {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return fmt.Errorf("invalid --addr %q: %w", addr, err)
				}
				a.cfg.Server.Host, a.cfg.Server.Port = host, port
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return runServer(cmd.Context(), a)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&transport, "transport", "t", "", "transport to serve: stdio or http (default MCP_TRANSPORT)")
	flags.StringVarP(&addr, "addr", "a", "", "listen address for the http transport (default SERVER_HOST:SERVER_PORT)")
	flags.StringVar(&httpPath, "http-path", "", "endpoint path for the http transport (default MCP_HTTP_PATH)")
	return cmd
}

func runServer(ctx context.Context, a *app) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := a.logger

	container := di.NewContainer(a.cfg, log)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Close(closeCtx); err != nil {
			log.Error("Failed to close container", zap.Error(err))
		}
	}()

	if err := container.Initialize(ctx, version); err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	switch a.cfg.Server.Transport {
	case config.TransportHTTP:
		httpTransport := mcp.NewHTTPTransport(container.Server, container.HTTPOptions(), log)
		return httpTransport.ListenAndServe(ctx, a.cfg.Server.Addr())
	default:
		log.Info("Firebase MCP server running on stdio", zap.String("version", version))
		return container.Server.ServeStdio(ctx)
	}
}
