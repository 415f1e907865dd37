// Package llm defines the completion client used by every agent.
//
// Agents depend on the Client interface only. OpenAIClient talks to any
// OpenAI-compatible chat completion endpoint (OpenRouter by default) and
// MockClient stands in for it in tests.
package llm

import (
	"context"
	"time"
)

// Role constants for messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the input to a Complete call. Zero values for
// Model, MaxTokens and Temperature fall back to the client's configuration.
type CompletionRequest struct {
	Model       string    `json:"model,omitempty"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"maxTokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// CompletionResponse is the result of a completion.
type CompletionResponse struct {
	Content    string        `json:"content"`
	StopReason string        `json:"stopReason,omitempty"`
	Usage      Usage         `json:"usage"`
	Model      string        `json:"model,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Client is the interface all completion providers implement.
type Client interface {
	// Complete sends a request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g., "openrouter").
	Name() string
}

// Prompt builds a single-turn request from user text.
func Prompt(text string) CompletionRequest {
	return CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: text}},
	}
}

// Generate sends a single user prompt and returns the first completion's text.
func Generate(ctx context.Context, c Client, prompt string) (string, error) {
	resp, err := c.Complete(ctx, Prompt(prompt))
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
