// Command terminal runs the Terminal tool server (§4.K): policy-checked
// child-process execution with a configurable blacklist and a bounded
// command history.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"ai-accounting-mcp/internal/errs"
	"ai-accounting-mcp/internal/logging"
	"ai-accounting-mcp/internal/mcpserver"
	"ai-accounting-mcp/internal/terminalserver"
)

const version = "1.0.0"

func main() {
	log := logging.New("terminal")

	root := getEnv("TERMINAL_ROOT", mustGetwd())
	policy := terminalserver.DefaultPolicy(root)
	srv := terminalserver.New(policy)

	framework := mcpserver.New("terminal", version,
		"Execute allow-listed shell commands under a configurable blacklist and working-directory root.", log)

	framework.RegisterTool(
		mcp.NewTool("execute_terminal_command",
			mcp.WithDescription("Run a command under the terminal server's policy"),
			mcp.WithString("command", mcp.Description("Executable name or path"), mcp.Required()),
			mcp.WithString("arguments", mcp.Description("Comma-separated command arguments")),
			mcp.WithString("workingDirectory", mcp.Description("Working directory (must resolve inside the configured root)")),
			mcp.WithNumber("timeout", mcp.Description("Timeout in seconds (default 10, max 60)")),
			mcp.WithBoolean("captureOutput", mcp.Description("Capture stdout/stderr (default true)")),
			mcp.WithString("environment", mcp.Description("Comma-separated KEY=VALUE environment overrides")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			execReq, err := toExecuteRequest(args)
			if err != nil {
				return nil, err
			}
			result, err := srv.Execute(ctx, execReq)
			if err != nil {
				return nil, err
			}
			return jsonResult(result)
		},
	)

	framework.RegisterTool(
		mcp.NewTool("validate_command",
			mcp.WithDescription("Check whether a command would be permitted, without executing it"),
			mcp.WithString("command", mcp.Description("Executable name or path"), mcp.Required()),
			mcp.WithString("arguments", mcp.Description("Comma-separated command arguments")),
			mcp.WithString("workingDirectory", mcp.Description("Working directory to validate")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			execReq, err := toExecuteRequest(args)
			if err != nil {
				return nil, err
			}
			if err := srv.ValidateCommand(execReq); err != nil {
				return nil, err
			}
			return jsonResult(map[string]bool{"allowed": true})
		},
	)

	framework.RegisterTool(
		mcp.NewTool("get_command_history",
			mcp.WithDescription("List recent terminal command executions"),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return jsonResult(srv.History())
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := framework.Serve(ctx, ":"+getEnv("PORT", "8096")); err != nil {
		log.WithError(err).Fatal("terminal server exited with error")
	}
}

func toExecuteRequest(args map[string]interface{}) (terminalserver.ExecuteRequest, error) {
	command, _ := args["command"].(string)
	if command == "" {
		return terminalserver.ExecuteRequest{}, errs.Validation("command", "command is required")
	}
	req := terminalserver.ExecuteRequest{
		Command:          command,
		Arguments:        splitCSV(stringArg(args, "arguments")),
		WorkingDirectory: stringArg(args, "workingDirectory"),
		CaptureOutput:    boolArg(args, "captureOutput", true),
	}
	if seconds, ok := args["timeout"].(float64); ok && seconds > 0 {
		req.Timeout = time.Duration(seconds) * time.Second
	}
	if env := stringArg(args, "environment"); env != "" {
		req.Environment = map[string]string{}
		for _, pair := range splitCSV(env) {
			kv := strings.SplitN(pair, "=", 2)
			if len(kv) == 2 {
				req.Environment[kv[0]] = kv[1]
			}
		}
	}
	return req, nil
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func boolArg(args map[string]interface{}, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

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
