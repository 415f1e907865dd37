package domain

import (
	"errors"
	"fmt"
)

// ErrLocked is returned when the API lock is engaged and enforcement is on.
var ErrLocked = errors.New("API is locked")

// ConfigError reports a missing or unusable credential or setting. It is
// raised before any network access.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Key, e.Message)
}

// MissingConfig returns a ConfigError for an unset key.
func MissingConfig(keys ...string) *ConfigError {
	if len(keys) == 1 {
		return &ConfigError{Key: keys[0], Message: "not configured"}
	}
	return &ConfigError{Message: fmt.Sprintf("%v not configured", keys)}
}

// ValidationError reports a malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid returns a ValidationError for the given field.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// UpstreamError wraps a failed call to an external service. Status is zero
// for transport failures; Body carries the upstream diagnostic text.
type UpstreamError struct {
	Service string
	Status  int
	Body    string
	Err     error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s API error (%d): %s", e.Service, e.Status, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Service, e.Body)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsClientError reports whether err should be surfaced to callers as a
// client-side problem (bad configuration or a malformed request).
func IsClientError(err error) bool {
	var ce *ConfigError
	var ve *ValidationError
	return errors.As(err, &ce) || errors.As(err, &ve)
}
