package mcp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"firebase-mcp/internal/auth/domain/repository"
	"firebase-mcp/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HTTPOptions configures the streamable HTTP transport.
type HTTPOptions struct {
	// Path serves the MCP endpoint. Defaults to /mcp.
	Path string
	// Tokens enables bearer authentication on Path when non-nil.
	Tokens repository.TokenService
	// Gatherer backs /metrics. The endpoint is omitted when nil.
	Gatherer prometheus.Gatherer
	// HealthCheck backs /health. A nil check always reports healthy.
	HealthCheck func(ctx context.Context) error
}

// HTTPTransport hosts the MCP streamable HTTP handler in a fiber app.
type HTTPTransport struct {
	app    *fiber.App
	logger logger.Logger
}

// NewHTTPTransport builds the fiber app serving server.
func NewHTTPTransport(server *Server, opts HTTPOptions, log logger.Logger) *HTTPTransport {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if opts.Path == "" {
		opts.Path = "/mcp"
	}
	log = log.WithComponent("mcp-http")

	app := fiber.New(fiber.Config{
		AppName:               ServerName,
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			log.Error("HTTP error", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Mcp-Session-Id, Mcp-Protocol-Version",
		ExposeHeaders: "Mcp-Session-Id",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if opts.HealthCheck != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
			defer cancel()
			if err := opts.HealthCheck(ctx); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "UNHEALTHY",
					"error":  err.Error(),
				})
			}
		}
		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"server":    ServerName,
			"timestamp": time.Now().UTC(),
		})
	})

	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	// JSON responses keep every reply inside one HTTP response, which the
	// fasthttp adaptor can buffer.
	var handler http.Handler = mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return server.SDK()
	}, &mcpsdk.StreamableHTTPOptions{
		Stateless:    true,
		JSONResponse: true,
	})
	if opts.Tokens != nil {
		handler = RequireBearer(opts.Tokens, handler)
	}
	app.All(opts.Path, adaptor.HTTPHandler(handler))

	return &HTTPTransport{app: app, logger: log}
}

// App returns the fiber app, for tests and embedding.
func (t *HTTPTransport) App() *fiber.App {
	return t.app
}

// Handler returns the app as a net/http handler.
func (t *HTTPTransport) Handler() http.HandlerFunc {
	return adaptor.FiberApp(t.app)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (t *HTTPTransport) ListenAndServe(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		t.logger.Info("Firebase MCP server listening", zap.String("addr", addr))
		errCh <- t.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := t.app.ShutdownWithContext(shutdownCtx); err != nil {
			t.logger.Error("Server forced to shutdown", zap.Error(err))
			return err
		}
		t.logger.Info("HTTP server stopped")
		return nil
	}
}
