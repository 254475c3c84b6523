package mcp

import (
	"context"
	"errors"
	"fmt"

	"firebase-mcp/internal/auth/domain/repository"
	sharedErrors "firebase-mcp/internal/shared/errors"
	"firebase-mcp/internal/shared/logger"
	"firebase-mcp/internal/shared/utils"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// ServerName is advertised to clients during initialization.
const ServerName = "firebase-mcp-server"

const methodCallTool = "tools/call"

// Server exposes a Dispatcher through the MCP protocol.
type Server struct {
	dispatcher *Dispatcher
	sdk        *mcpsdk.Server
	logger     logger.Logger
}

// NewServer registers every catalog entry with a go-sdk server.
func NewServer(dispatcher *Dispatcher, version string, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}
	s := &Server{
		dispatcher: dispatcher,
		logger:     log.WithComponent("mcp-server"),
	}
	s.sdk = mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    ServerName,
		Version: version,
	}, &mcpsdk.ServerOptions{
		Instructions: "Tools for reading and writing Firestore documents, looking up Firebase Auth users and browsing Firebase Storage.",
	})

	for _, def := range dispatcher.Tools() {
		s.sdk.AddTool(sdkTool(def), s.toolHandler(def.Name))
	}
	s.sdk.AddReceivingMiddleware(s.methodNotFound)
	return s
}

// SDK returns the underlying go-sdk server.
func (s *Server) SDK() *mcpsdk.Server {
	return s.sdk
}

// ServeStdio serves one session over stdin/stdout until ctx is done or the
// client disconnects.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.logger.Info("Firebase MCP server running on stdio")
	return s.Serve(ctx, &mcpsdk.StdioTransport{})
}

// Serve serves one session over t.
func (s *Server) Serve(ctx context.Context, t mcpsdk.Transport) error {
	if err := s.sdk.Run(ctx, t); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp session failed: %w", err)
	}
	return nil
}

func sdkTool(def ToolDefinition) *mcpsdk.Tool {
	tool := &mcpsdk.Tool{
		Name:        def.Name,
		Description: def.Description,
		InputSchema: def.InputSchema,
		Annotations: &mcpsdk.ToolAnnotations{ReadOnlyHint: def.ReadOnly},
	}
	if !def.ReadOnly {
		destructive := def.Name == ToolDeleteDocument || def.Name == ToolUpdateDocument || def.Name == ToolAddDocument
		tool.Annotations.DestructiveHint = &destructive
		tool.Annotations.IdempotentHint = def.Name == ToolDeleteDocument
	}
	return tool
}

func (s *Server) toolHandler(name string) mcpsdk.ToolHandler {
	return func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		if req.Extra != nil && req.Extra.TokenInfo != nil {
			info := req.Extra.TokenInfo
			ctx = utils.WithSubject(ctx, info.UserID)
			claims := repository.Claims{Tools: info.Scopes}
			if !claims.Allows(name) {
				s.logger.WithContext(ctx).Warn("Tool not granted by token", zap.String("tool", name))
				return toSDKResult(ErrorResult(sharedErrors.NewAuthorizationError(
					fmt.Sprintf("Access denied: token does not grant tool %s", name)))), nil
			}
		}

		var raw []byte
		if req.Params != nil {
			raw = req.Params.Arguments
		}
		args, err := DecodeArguments(raw)
		if err != nil {
			return toSDKResult(ErrorResult(err)), nil
		}

		res, err := s.dispatcher.Invoke(ctx, name, args)
		if err != nil {
			return nil, wireError(err)
		}
		return toSDKResult(res), nil
	}
}

// methodNotFound answers tools/call for unknown names with JSON-RPC -32601
// before the go-sdk's own lookup runs.
func (s *Server) methodNotFound(next mcpsdk.MethodHandler) mcpsdk.MethodHandler {
	return func(ctx context.Context, method string, req mcpsdk.Request) (mcpsdk.Result, error) {
		if method == methodCallTool {
			if params, ok := req.GetParams().(*mcpsdk.CallToolParamsRaw); ok && params != nil {
				if _, found := s.dispatcher.Lookup(params.Name); !found {
					_, err := s.dispatcher.Invoke(ctx, params.Name, nil)
					return nil, wireError(err)
				}
			}
		}
		return next(ctx, method, req)
	}
}

func wireError(err error) error {
	var protoErr *ProtocolError
	if errors.As(err, &protoErr) {
		return protoErr.WireError()
	}
	return err
}

func toSDKResult(r *Result) *mcpsdk.CallToolResult {
	content := make([]mcpsdk.Content, 0, len(r.Content))
	for _, c := range r.Content {
		content = append(content, &mcpsdk.TextContent{Text: c.Text})
	}
	return &mcpsdk.CallToolResult{Content: content, IsError: r.IsError}
}
