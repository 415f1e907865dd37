package domain

// Source tags where a value came from.
type Source string

const (
	// SourceLive marks data fetched from a real upstream API.
	SourceLive Source = "live"
	// SourceMock marks canned or formula-derived placeholder data.
	SourceMock Source = "mock"
)

// Sourced pairs a value with its provenance. Reason explains a mock value,
// e.g. the upstream failure that triggered the fallback.
type Sourced[T any] struct {
	Value  T      `json:"value"`
	Source Source `json:"source"`
	Reason string `json:"reason,omitempty"`
}

// Live wraps a value fetched from an upstream API.
func Live[T any](v T) Sourced[T] {
	return Sourced[T]{Value: v, Source: SourceLive}
}

// Mock wraps a placeholder value with the reason it was substituted.
func Mock[T any](v T, reason string) Sourced[T] {
	return Sourced[T]{Value: v, Source: SourceMock, Reason: reason}
}

// IsMock reports whether the value is a placeholder.
func (s Sourced[T]) IsMock() bool { return s.Source == SourceMock }
