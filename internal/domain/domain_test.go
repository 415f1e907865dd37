package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- Error taxonomy tests ---

func TestConfigErrorMessage(t *testing.T) {
	err := MissingConfig("OPENROUTER_API_KEY")
	assert.Equal(t, "OPENROUTER_API_KEY: not configured", err.Error())

	multi := MissingConfig("OPENROUTER_API_KEY", "OPENROUTER_MODEL")
	assert.Contains(t, multi.Error(), "OPENROUTER_MODEL")
}

func TestUpstreamErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *UpstreamError
		want string
	}{
		{"status", &UpstreamError{Service: "completion", Status: 401, Body: `{"error":"bad key"}`}, `completion API error (401): {"error":"bad key"}`},
		{"transport", &UpstreamError{Service: "search", Err: errors.New("dial tcp: refused")}, "search request failed: dial tcp: refused"},
		{"body only", &UpstreamError{Service: "completion", Body: "no choices returned"}, "completion: no choices returned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestUpstreamErrorUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := fmt.Errorf("research: %w", &UpstreamError{Service: "search", Err: cause})
	assert.ErrorIs(t, err, cause)

	var ue *UpstreamError
	assert.ErrorAs(t, err, &ue)
	assert.Equal(t, "search", ue.Service)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(MissingConfig("PEXELS_API_KEY")))
	assert.True(t, IsClientError(fmt.Errorf("wrapped: %w", Invalid("topic", "is required"))))
	assert.False(t, IsClientError(&UpstreamError{Service: "completion", Status: 500}))
	assert.False(t, IsClientError(errors.New("plain")))
}

// --- Sourced tests ---

func TestSourced(t *testing.T) {
	live := Live(map[string]int{"views": 42})
	assert.Equal(t, SourceLive, live.Source)
	assert.False(t, live.IsMock())
	assert.Empty(t, live.Reason)

	mock := Mock([]string{"a"}, "placeholder")
	assert.True(t, mock.IsMock())
	assert.Equal(t, "placeholder", mock.Reason)
	assert.Equal(t, []string{"a"}, mock.Value)
}
