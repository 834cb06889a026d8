// Package llmclient is a minimal Gemini chat-completion client (§4.J),
// shaped after coordinator_mcp's GeminiRequest/GeminiResponse structs: a
// prompt plus a set of callable tool declarations goes in, a list of
// suggested function calls (or plain text) comes back.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ai-accounting-mcp/internal/errs"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

// Client calls the Gemini generateContent API. APIKey empty means demo
// mode: Complete returns ErrDemoMode rather than making a network call,
// so callers (the Orchestrator) can fall back to a no-op batch.
type Client struct {
	APIKey     string
	Model      string
	HTTPClient *http.Client
	// Endpoint overrides the default Gemini URL template (model %s, then key %s);
	// tests point it at an httptest server.
	Endpoint string
}

// ErrDemoMode is returned by Complete when no API key is configured.
var ErrDemoMode = errs.New(errs.KindBlocked, "GEMINI_API_KEY is not set; running in demo mode")

// New builds a Client for model (e.g. "gemini-2.5-flash-lite") using
// apiKey, read by the caller from the environment.
func New(apiKey, model string) *Client {
	if model == "" {
		model = "gemini-2.5-flash-lite"
	}
	return &Client{APIKey: apiKey, Model: model, HTTPClient: &http.Client{Timeout: 30 * time.Second}}
}

// Request is one Gemini generateContent call: a single user turn plus the
// tools it may call.
type Request struct {
	Contents []Content `json:"contents"`
	Tools    []Tool    `json:"tools,omitempty"`
}

type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text         string        `json:"text,omitempty"`
	FunctionCall *FunctionCall `json:"functionCall,omitempty"`
}

type FunctionCall struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

type Tool struct {
	FunctionDeclarations []Function `json:"functionDeclarations"`
}

type Function struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  interface{} `json:"parameters"`
}

type response struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content Content `json:"content"`
}

// Complete sends prompt plus tools and returns every part of the first
// candidate's response.
func (c *Client) Complete(ctx context.Context, prompt string, tools []Tool) ([]Part, error) {
	if c.APIKey == "" {
		return nil, ErrDemoMode
	}

	body := Request{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: prompt}}}},
		Tools:    tools,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errs.Wrap(errs.KindIOError, "failed to marshal Gemini request", err)
	}

	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	url := fmt.Sprintf(endpoint, c.Model, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errs.Wrap(errs.KindIOError, "failed to build Gemini request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.KindTimeout, "Gemini request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.New(errs.KindIOError, fmt.Sprintf("Gemini returned status %d", resp.StatusCode))
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errs.Wrap(errs.KindIOError, "failed to decode Gemini response", err)
	}
	if len(parsed.Candidates) == 0 {
		return nil, errs.New(errs.KindIOError, "Gemini returned no candidates")
	}
	return parsed.Candidates[0].Content.Parts, nil
}
