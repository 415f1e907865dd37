package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	// Gateway validation
	if cfg.Gateway.Port < 0 || cfg.Gateway.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Gateway.Port),
		})
	}

	validBinds := []string{"auto", "lan", "loopback", "custom"}
	if cfg.Gateway.Bind != "" && !slices.Contains(validBinds, cfg.Gateway.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Gateway.Bind),
		})
	}

	if cfg.Gateway.RequestTimeout < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.requestTimeoutSeconds",
			Message: "must not be negative",
		})
	}

	if cfg.Gateway.TLS.Enabled && (cfg.Gateway.TLS.CertPath == "" || cfg.Gateway.TLS.KeyPath == "") {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.tls",
			Message: "certPath and keyPath are required when TLS is enabled",
		})
	}

	validAuthModes := []string{"token", "password"}
	if cfg.Gateway.Auth.Mode != "" && !slices.Contains(validAuthModes, cfg.Gateway.Auth.Mode) {
		issues = append(issues, ValidationIssue{
			Path:    "gateway.auth.mode",
			Message: fmt.Sprintf("must be one of %v, got %q", validAuthModes, cfg.Gateway.Auth.Mode),
		})
	}

	// Logging validation
	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validConsoleStyles := []string{"pretty", "compact", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	// Completion validation
	if cfg.Completion.Temperature < 0 || cfg.Completion.Temperature > 2 {
		issues = append(issues, ValidationIssue{
			Path:    "completion.temperature",
			Message: fmt.Sprintf("must be between 0 and 2, got %g", cfg.Completion.Temperature),
		})
	}
	if cfg.Completion.MaxTokens < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "completion.maxTokens",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.Completion.MaxTokens),
		})
	}
	if cfg.Completion.TimeoutSeconds < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "completion.timeoutSeconds",
			Message: "must not be negative",
		})
	}

	// Search validation
	validProviders := []string{"serper", "brave"}
	if cfg.Search.Provider != "" && !slices.Contains(validProviders, cfg.Search.Provider) {
		issues = append(issues, ValidationIssue{
			Path:    "search.provider",
			Message: fmt.Sprintf("must be one of %v, got %q", validProviders, cfg.Search.Provider),
		})
	}
	if cfg.Search.ResultCount < 0 || cfg.Search.ResultCount > 50 {
		issues = append(issues, ValidationIssue{
			Path:    "search.resultCount",
			Message: fmt.Sprintf("must be 0-50, got %d", cfg.Search.ResultCount),
		})
	}

	if cfg.Stock.PerPage < 0 || cfg.Stock.PerPage > 80 {
		issues = append(issues, ValidationIssue{
			Path:    "stock.perPage",
			Message: fmt.Sprintf("must be 0-80, got %d", cfg.Stock.PerPage),
		})
	}

	// History validation
	validStores := []string{"sqlite", "memory"}
	if cfg.History.Store != "" && !slices.Contains(validStores, cfg.History.Store) {
		issues = append(issues, ValidationIssue{
			Path:    "history.store",
			Message: fmt.Sprintf("must be one of %v, got %q", validStores, cfg.History.Store),
		})
	}

	return issues
}
