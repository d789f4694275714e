package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts the external structured-generation endpoint. Implementations
// return the raw JSON arguments produced for the forced tool call.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (json.RawMessage, error)
}

// CompletionRequest carries the prompt and the tool schema the output must match.
type CompletionRequest struct {
	System string
	User   string
	Tool   ToolSpec
}

// ToolSpec declares the function tool the model is forced to call.
type ToolSpec struct {
	Name        string
	Description string
	Schema      json.RawMessage
}

var (
	// ErrRateLimited maps the endpoint's HTTP 429 responses.
	ErrRateLimited = errors.New("inference endpoint rate limited")
	// ErrQuotaExhausted maps the endpoint's HTTP 402 responses.
	ErrQuotaExhausted = errors.New("inference quota exhausted")
	// ErrNotConfigured is returned by the placeholder client.
	ErrNotConfigured = errors.New("inference client not configured")
)

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, req CompletionRequest) (json.RawMessage, error) {
	_ = ctx
	_ = req
	return nil, ErrNotConfigured
}
