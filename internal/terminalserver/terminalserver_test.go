package terminalserver

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ai-accounting-mcp/internal/errs"
)

func newServerWithRoot(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	return New(DefaultPolicy(root)), root
}

func TestValidateCommandRejectsBlacklisted(t *testing.T) {
	srv, _ := newServerWithRoot(t)
	err := srv.ValidateCommand(ExecuteRequest{Command: "rm", Arguments: []string{"-rf", "/"}})
	require.Error(t, err)
	de, ok := errs.As(err)
	require.True(t, ok)
	require.Equal(t, errs.KindBlocked, de.Kind)
}

func TestValidateCommandRejectsShellMetacharacters(t *testing.T) {
	srv, _ := newServerWithRoot(t)
	err := srv.ValidateCommand(ExecuteRequest{Command: "echo", Arguments: []string{"a; rm -rf /"}})
	require.Error(t, err)
}

func TestValidateCommandRejectsOutsideRoot(t *testing.T) {
	srv, root := newServerWithRoot(t)
	outside := os.TempDir()
	if outside == root {
		t.Skip("temp dir coincides with root")
	}
	err := srv.ValidateCommand(ExecuteRequest{Command: "echo", WorkingDirectory: string(os.PathSeparator)})
	require.Error(t, err)
	de, ok := errs.As(err)
	require.True(t, ok)
	require.Equal(t, errs.KindProtected, de.Kind)
}

func TestValidateCommandAllowsPermittedCommand(t *testing.T) {
	srv, _ := newServerWithRoot(t)
	err := srv.ValidateCommand(ExecuteRequest{Command: "echo", Arguments: []string{"hello"}})
	require.NoError(t, err)
}

func TestExecuteCapturesOutput(t *testing.T) {
	srv, root := newServerWithRoot(t)
	result, err := srv.Execute(context.Background(), ExecuteRequest{
		Command:          "echo",
		Arguments:        []string{"hello"},
		WorkingDirectory: root,
		CaptureOutput:    true,
	})
	require.NoError(t, err)
	require.Contains(t, result.Stdout, "hello")
	require.Equal(t, 0, result.ExitCode)
}

func TestExecuteTimesOut(t *testing.T) {
	srv, root := newServerWithRoot(t)
	_, err := srv.Execute(context.Background(), ExecuteRequest{
		Command:          "sleep",
		Arguments:        []string{"5"},
		WorkingDirectory: root,
		Timeout:          50 * time.Millisecond,
	})
	require.Error(t, err)
	de, ok := errs.As(err)
	require.True(t, ok)
	require.Equal(t, errs.KindTimeout, de.Kind)
}

func TestHistoryRecordsExecutions(t *testing.T) {
	srv, root := newServerWithRoot(t)
	_, err := srv.Execute(context.Background(), ExecuteRequest{Command: "echo", Arguments: []string{"hi"}, WorkingDirectory: root})
	require.NoError(t, err)

	history := srv.History()
	require.Len(t, history, 1)
	require.Equal(t, "echo", history[0].Command)
}
