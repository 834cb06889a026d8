// Package terminalserver implements the Terminal tool server's domain
// logic (§4.K): policy-checked child-process execution with a bounded
// command history, grounded on the teacher's MCP tool-server shape
// (security_agent_mcp/context_agent_mcp) even though none of the pack
// executes external commands itself — os/exec is standard library and no
// process-execution library appears anywhere in the retrieval pack.
package terminalserver

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"syscall"
	"time"

	"ai-accounting-mcp/internal/errs"
)

// defaultBlacklist names dangerous system mutators and remote-access
// binaries refused outright, independent of any shell metacharacter
// check.
var defaultBlacklist = []string{
	"rm", "rmdir", "mkfs", "dd", "shutdown", "reboot", "halt", "init",
	"kill", "killall", "pkill", "chmod", "chown", "passwd", "useradd",
	"userdel", "sudo", "su", "ssh", "scp", "telnet", "nc", "netcat",
	"curl", "wget", "iptables", "systemctl", "service",
}

// dangerousMetacharacters catches shell-level composition that would let
// a permitted binary smuggle in a blacklisted one.
var dangerousMetacharacters = regexp.MustCompile(`[;&|$` + "`" + `<>]`)

// Policy governs what execute_terminal_command and validate_command
// allow.
type Policy struct {
	Blacklist      []string
	Root            string // working directories must resolve inside this root
	DefaultTimeout time.Duration
	MaxTimeout     time.Duration
	MaxOutputBytes int
	MaxHistory     int
}

// DefaultPolicy mirrors the conservative defaults implied by spec §4.K.
func DefaultPolicy(root string) Policy {
	return Policy{
		Blacklist:      defaultBlacklist,
		Root:           root,
		DefaultTimeout: 10 * time.Second,
		MaxTimeout:     60 * time.Second,
		MaxOutputBytes: 65536,
		MaxHistory:     100,
	}
}

// HistoryEntry records one prior execution.
type HistoryEntry struct {
	Command          string
	Arguments        []string
	WorkingDirectory string
	StartedAt        time.Time
	Duration         time.Duration
	ExitCode         int
	TimedOut         bool
	Blocked          bool
}

// Server runs commands under Policy and remembers the last MaxHistory
// executions.
type Server struct {
	policy  Policy
	mu      sync.Mutex
	history []HistoryEntry
}

func New(policy Policy) *Server {
	return &Server{policy: policy}
}

// ExecuteRequest is the execute_terminal_command argument set.
type ExecuteRequest struct {
	Command          string
	Arguments        []string
	WorkingDirectory string
	Timeout          time.Duration
	CaptureOutput    bool
	Environment      map[string]string
}

// ExecuteResult is the execute_terminal_command response.
type ExecuteResult struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
	Truncated bool
}

// validateCommand applies the policy without executing, returning the
// resolved working directory and a validation error if the command is
// refused.
func (s *Server) validateCommand(req ExecuteRequest) (string, error) {
	if req.Command == "" {
		return "", errs.Validation("command", "command is required")
	}
	base := filepath.Base(req.Command)
	for _, blocked := range s.policy.Blacklist {
		if strings.EqualFold(base, blocked) {
			return "", errs.Blocked("command "+base+" is not permitted", "it appears on the terminal server's blacklist")
		}
	}
	if dangerousMetacharacters.MatchString(req.Command) {
		return "", errs.Blocked("command contains disallowed shell metacharacters", "pass arguments via the arguments list instead of shell composition")
	}
	for _, a := range req.Arguments {
		if dangerousMetacharacters.MatchString(a) {
			return "", errs.Blocked("argument contains disallowed shell metacharacters", "pass arguments via the arguments list instead of shell composition")
		}
	}

	workingDir := req.WorkingDirectory
	if workingDir == "" {
		workingDir = s.policy.Root
	}
	resolved, err := filepath.EvalSymlinks(workingDir)
	if err != nil {
		resolved = filepath.Clean(workingDir)
	}
	rootResolved, err := filepath.EvalSymlinks(s.policy.Root)
	if err != nil {
		rootResolved = filepath.Clean(s.policy.Root)
	}
	rel, err := filepath.Rel(rootResolved, resolved)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", errs.Protected("working directory is outside the permitted root", "use a path under "+s.policy.Root)
	}
	return resolved, nil
}

// ValidateCommand runs the policy check without executing, for the
// validate_command tool.
func (s *Server) ValidateCommand(req ExecuteRequest) error {
	_, err := s.validateCommand(req)
	return err
}

// Execute runs req under the configured policy, truncating captured
// output at MaxOutputBytes and force-killing the process group if it
// exceeds its timeout.
func (s *Server) Execute(ctx context.Context, req ExecuteRequest) (ExecuteResult, error) {
	workingDir, err := s.validateCommand(req)
	if err != nil {
		s.record(req, HistoryEntry{Blocked: true})
		return ExecuteResult{}, err
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = s.policy.DefaultTimeout
	}
	if timeout > s.policy.MaxTimeout {
		timeout = s.policy.MaxTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, req.Command, req.Arguments...)
	cmd.Dir = workingDir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	if len(req.Environment) > 0 {
		env := make([]string, 0, len(req.Environment))
		for k, v := range req.Environment {
			env = append(env, k+"="+v)
		}
		cmd.Env = env
	}

	var stdout, stderr bytes.Buffer
	if req.CaptureOutput {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	started := time.Now()
	runErr := cmd.Run()
	duration := time.Since(started)

	timedOut := runCtx.Err() == context.DeadlineExceeded
	exitCode := 0
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if runErr != nil && !timedOut {
		s.record(req, HistoryEntry{Command: req.Command, WorkingDirectory: workingDir, StartedAt: started, Duration: duration})
		return ExecuteResult{}, errs.IOError(fmt.Sprintf("failed to start %s", req.Command), runErr)
	}

	truncated := false
	outStr, outTrunc := truncate(stdout.String(), s.policy.MaxOutputBytes)
	errStr, errTrunc := truncate(stderr.String(), s.policy.MaxOutputBytes)
	truncated = outTrunc || errTrunc

	s.record(req, HistoryEntry{
		Command: req.Command, Arguments: req.Arguments, WorkingDirectory: workingDir,
		StartedAt: started, Duration: duration, ExitCode: exitCode, TimedOut: timedOut,
	})

	if timedOut {
		return ExecuteResult{}, errs.Timeout(fmt.Sprintf("command %s exceeded its %s timeout", req.Command, timeout))
	}

	return ExecuteResult{
		Command: req.Command, Stdout: outStr, Stderr: errStr,
		ExitCode: exitCode, TimedOut: false, Duration: duration, Truncated: truncated,
	}, nil
}

func truncate(s string, max int) (string, bool) {
	if max <= 0 || len(s) <= max {
		return s, false
	}
	return s[:max], true
}

func (s *Server) record(req ExecuteRequest, entry HistoryEntry) {
	if entry.Command == "" {
		entry.Command = req.Command
		entry.Arguments = req.Arguments
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, entry)
	if len(s.history) > s.policy.MaxHistory {
		s.history = s.history[len(s.history)-s.policy.MaxHistory:]
	}
}

// History returns the most recent executions, newest last.
func (s *Server) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}
