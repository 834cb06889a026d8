// Package mcpserver wraps mark3labs/mcp-go's server into the shared tool
// registration and transport scaffolding used by every cmd/* binary
// (§3.A): tool registration, domain-error translation, and a
// streamable-HTTP listener with graceful shutdown. It offers no resource
// or prompt registration.
package mcpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"ai-accounting-mcp/internal/errs"
)

// Framework wraps *server.MCPServer with the registration and serving
// conventions shared across the accountant, terminal, and context-manager
// tool servers.
type Framework struct {
	Name    string
	Version string
	MCP     *server.MCPServer
	log     *logrus.Logger
	mux     *http.ServeMux
}

// New builds a Framework bound to name/version, with instructions shown to
// MCP clients on initialize.
func New(name, version, instructions string, log *logrus.Logger) *Framework {
	f := &Framework{
		Name:    name,
		Version: version,
		log:     log,
		mux:     http.NewServeMux(),
	}
	f.MCP = server.NewMCPServer(
		name,
		version,
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
	)
	f.mux.HandleFunc("/health", f.healthHandler)
	return f
}

// RegisterTool wires a tool definition to fn, translating fn's returned
// domain errors (§7) into isError:true results instead of propagating
// plain Go errors up through the transport.
func (f *Framework) RegisterTool(tool mcp.Tool, fn func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)) {
	f.MCP.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := fn(ctx, req)
		if err == nil {
			return result, nil
		}
		return ErrorResult(err), nil
	})
}

// ErrorResult renders err as an isError:true tool result carrying its
// domain error Kind as a stable tag (§7), falling back to a generic tag
// for errors that did not originate in internal/errs.
func ErrorResult(err error) *mcp.CallToolResult {
	var de *errs.Error
	if errors.As(err, &de) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(de.Kind) + ": " + de.Error()}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: "Error: " + err.Error()}},
		IsError: true,
	}
}

// TextResult wraps s as a plain-text, non-error tool result.
func TextResult(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.TextContent{Type: "text", Text: s}}}
}

func (f *Framework) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"` + f.Name + `","version":"` + f.Version + `"}`))
}

// Serve mounts the streamable-HTTP transport and blocks until ctx is
// canceled, then shuts the listener down within a bounded grace period.
func (f *Framework) Serve(ctx context.Context, addr string) error {
	streamable := server.NewStreamableHTTPServer(f.MCP, server.WithEndpointPath("/mcp/"))
	f.mux.Handle("/mcp/", streamable)

	httpServer := &http.Server{Addr: addr, Handler: f.mux}

	errCh := make(chan error, 1)
	go func() {
		f.log.WithFields(logrus.Fields{"addr": addr, "service": f.Name}).Info("mcp server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	f.log.Info("shutting down mcp server")
	return httpServer.Shutdown(shutdownCtx)
}
