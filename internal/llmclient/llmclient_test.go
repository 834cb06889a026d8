package llmclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"ai-accounting-mcp/internal/errs"
)

func TestCompleteReturnsDemoModeWithoutAPIKey(t *testing.T) {
	c := New("", "")
	_, err := c.Complete(context.Background(), "categorize this", nil)
	require.ErrorIs(t, err, ErrDemoMode)
}

func TestCompleteParsesFunctionCallResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "user", req.Contents[0].Role)

		resp := response{Candidates: []candidate{{Content: Content{
			Role: "model",
			Parts: []Part{{FunctionCall: &FunctionCall{
				Name: "update_transaction_account",
				Args: map[string]interface{}{"transactionId": "t1", "accountCode": "310"},
			}}},
		}}}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	c := New("test-key", "gemini-test")
	c.Endpoint = server.URL + "?model=%s&key=%s"

	parts, err := c.Complete(context.Background(), "categorize this", nil)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	require.NotNil(t, parts[0].FunctionCall)
	require.Equal(t, "update_transaction_account", parts[0].FunctionCall.Name)
	require.Equal(t, "310", parts[0].FunctionCall.Args["accountCode"])
}

func TestCompleteWrapsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New("test-key", "")
	c.Endpoint = server.URL + "?model=%s&key=%s"

	_, err := c.Complete(context.Background(), "hi", nil)
	require.Error(t, err)
	de, ok := errs.As(err)
	require.True(t, ok)
	require.Equal(t, errs.KindIOError, de.Kind)
}

func TestCompleteErrorsOnEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(response{}))
	}))
	defer server.Close()

	c := New("test-key", "")
	c.Endpoint = server.URL + "?model=%s&key=%s"

	_, err := c.Complete(context.Background(), "hi", nil)
	require.Error(t, err)
}
