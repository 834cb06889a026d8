// Command contextmanager runs the Context-Manager tool server (§4.K): an
// in-memory store of named text contexts with summarize/clean/optimize
// transforms and a version history.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"

	"ai-accounting-mcp/internal/contextmanager"
	"ai-accounting-mcp/internal/errs"
	"ai-accounting-mcp/internal/logging"
	"ai-accounting-mcp/internal/mcpserver"
)

const version = "1.0.0"

type successEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func jsonResult(data interface{}) (*mcp.CallToolResult, error) {
	body, err := json.Marshal(successEnvelope{Success: true, Data: data})
	if err != nil {
		return nil, errs.IOError("failed to marshal tool result", err)
	}
	return mcpserver.TextResult(string(body)), nil
}

func main() {
	log := logging.New("contextmanager")
	mgr := contextmanager.New()

	framework := mcpserver.New("contextmanager", version,
		"Track named text contexts: add, summarize, clean, optimize, version, restore, list, and measure.", log)

	framework.RegisterTool(
		mcp.NewTool("add_context",
			mcp.WithDescription("Record a new context, or the next version of an existing one"),
			mcp.WithString("name", mcp.Description("Context name"), mcp.Required()),
			mcp.WithString("type", mcp.Description("conversation | system | knowledge | mixed"), mcp.Required()),
			mcp.WithString("text", mcp.Description("Context text"), mcp.Required()),
			mcp.WithString("note", mcp.Description("Optional note for this version")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			name, _ := args["name"].(string)
			typ, _ := args["type"].(string)
			text, _ := args["text"].(string)
			note, _ := args["note"].(string)
			snap, err := mgr.Add(name, contextmanager.ContextType(typ), text, note)
			if err != nil {
				return nil, err
			}
			return jsonResult(snap)
		},
	)

	framework.RegisterTool(
		mcp.NewTool("summarize_context",
			mcp.WithDescription("Record a condensed version of a context's current text"),
			mcp.WithString("name", mcp.Description("Context name"), mcp.Required()),
			mcp.WithNumber("maxSentences", mcp.Description("Maximum sentences to keep (default 3)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			name, _ := args["name"].(string)
			maxSentences := 0
			if v, ok := args["maxSentences"].(float64); ok {
				maxSentences = int(v)
			}
			snap, err := mgr.Summarize(name, maxSentences)
			if err != nil {
				return nil, err
			}
			return jsonResult(snap)
		},
	)

	framework.RegisterTool(
		mcp.NewTool("clean_context",
			mcp.WithDescription("Record a whitespace- and duplicate-line-stripped version of a context"),
			mcp.WithString("name", mcp.Description("Context name"), mcp.Required()),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			name, _ := req.GetArguments()["name"].(string)
			snap, err := mgr.Clean(name)
			if err != nil {
				return nil, err
			}
			return jsonResult(snap)
		},
	)

	framework.RegisterTool(
		mcp.NewTool("optimize_context",
			mcp.WithDescription("Record a version of a context trimmed to a character budget"),
			mcp.WithString("name", mcp.Description("Context name"), mcp.Required()),
			mcp.WithNumber("maxCharacters", mcp.Description("Maximum characters to keep"), mcp.Required()),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			name, _ := args["name"].(string)
			maxChars := 0
			if v, ok := args["maxCharacters"].(float64); ok {
				maxChars = int(v)
			}
			snap, err := mgr.Optimize(name, maxChars)
			if err != nil {
				return nil, err
			}
			return jsonResult(snap)
		},
	)

	framework.RegisterTool(
		mcp.NewTool("get_context_version",
			mcp.WithDescription("Fetch a specific recorded version of a context"),
			mcp.WithString("name", mcp.Description("Context name"), mcp.Required()),
			mcp.WithNumber("version", mcp.Description("Version number"), mcp.Required()),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			name, _ := args["name"].(string)
			v, _ := args["version"].(float64)
			snap, err := mgr.Version(name, int(v))
			if err != nil {
				return nil, err
			}
			return jsonResult(snap)
		},
	)

	framework.RegisterTool(
		mcp.NewTool("restore_context_version",
			mcp.WithDescription("Make an earlier version the new current version, without erasing history"),
			mcp.WithString("name", mcp.Description("Context name"), mcp.Required()),
			mcp.WithNumber("version", mcp.Description("Version number to restore"), mcp.Required()),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			name, _ := args["name"].(string)
			v, _ := args["version"].(float64)
			snap, err := mgr.Restore(name, int(v))
			if err != nil {
				return nil, err
			}
			return jsonResult(snap)
		},
	)

	framework.RegisterTool(
		mcp.NewTool("list_context_versions",
			mcp.WithDescription("List every recorded version of a context, oldest first"),
			mcp.WithString("name", mcp.Description("Context name"), mcp.Required()),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			name, _ := req.GetArguments()["name"].(string)
			versions, err := mgr.List(name)
			if err != nil {
				return nil, err
			}
			return jsonResult(versions)
		},
	)

	framework.RegisterTool(
		mcp.NewTool("get_context_metrics",
			mcp.WithDescription("Report size and version counters for a context's current state"),
			mcp.WithString("name", mcp.Description("Context name"), mcp.Required()),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			name, _ := req.GetArguments()["name"].(string)
			metrics, err := mgr.Metrics(name)
			if err != nil {
				return nil, err
			}
			return jsonResult(metrics)
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("CONTEXTMANAGER_PORT")
	if port == "" {
		port = "8097"
	}
	if err := framework.Serve(ctx, ":"+port); err != nil {
		log.WithError(err).Fatal("contextmanager server exited with error")
	}
}
