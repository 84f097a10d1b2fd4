package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/njchilds90/symexpr"
	"github.com/njchilds90/symexpr/internal/logging"
	"github.com/njchilds90/symexpr/internal/toolsvc"
)

// Server exposes every symexpr tool as an MCP tool.
type Server struct {
	svc       *toolsvc.Service
	logger    *slog.Logger
	tools     []mcp.Tool
	mcpServer *server.MCPServer
}

// NewServer registers one MCP tool per symexpr.ToolSpecs entry.
func NewServer(svc *toolsvc.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		svc:       svc,
		logger:    logger,
		mcpServer: server.NewMCPServer("symexpr-mcp", symexpr.Version, server.WithToolCapabilities(false)),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	for _, spec := range symexpr.ToolSpecs() {
		opts := []mcp.ToolOption{mcp.WithDescription(spec.Description)}
		for _, p := range spec.Params {
			popts := []mcp.PropertyOption{mcp.Description(p.Description)}
			if p.Required {
				popts = append(popts, mcp.Required())
			}
			switch p.Type {
			case "boolean":
				opts = append(opts, mcp.WithBoolean(p.Name, popts...))
			case "object":
				opts = append(opts, mcp.WithObject(p.Name, popts...))
			default:
				opts = append(opts, mcp.WithString(p.Name, popts...))
			}
		}
		tool := mcp.NewTool(spec.Name, opts...)
		s.tools = append(s.tools, tool)
		s.mcpServer.AddTool(tool, s.Handle)
	}
}

// Tools lists the registered tool definitions.
func (s *Server) Tools() []mcp.Tool { return s.tools }

// Handle answers one tools/call request. Tool failures are reported as MCP
// error results, not protocol errors.
func (s *Server) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params, err := toolParams(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp := s.svc.Call(ctx, symexpr.ToolRequest{Tool: request.Params.Name, Params: params})
	if resp.Error != "" {
		return mcp.NewToolResultError(resp.Error), nil
	}
	out, err := json.Marshal(resp)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// toolParams accepts object-typed arguments either as JSON objects or as
// JSON text, since some clients only send strings.
func toolParams(args map[string]interface{}) (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(args))
	for k, v := range args {
		if text, ok := v.(string); ok && k == "bindings" {
			var m map[string]interface{}
			if err := json.Unmarshal([]byte(text), &m); err != nil {
				return nil, fmt.Errorf("param %s: invalid JSON object: %w", k, err)
			}
			v = m
		}
		params[k] = v
	}
	return params, nil
}

// ServeStdio serves on stdin/stdout until EOF.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on the given port using SSE until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}
