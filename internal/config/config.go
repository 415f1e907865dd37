package config

import (
	"fmt"
	"time"
)

// Default endpoints and generation settings.
const (
	DefaultCompletionBaseURL = "https://openrouter.ai/api/v1"
	DefaultTemperature       = 0.7
	DefaultMaxTokens         = 2000
	DefaultCompletionTimeout = 120
	DefaultSearchProvider    = "serper"
	DefaultSearchResults     = 5
	DefaultStockPerPage      = 3
	DefaultGatewayPort       = 8000
	DefaultRequestTimeout    = 300
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Gateway: GatewayConfig{
			Port:           DefaultGatewayPort,
			Bind:           "loopback",
			RequestTimeout: DefaultRequestTimeout,
			Auth: GatewayAuth{
				Mode: "token",
			},
		},
		Completion: CompletionConfig{
			BaseURL:        DefaultCompletionBaseURL,
			Temperature:    DefaultTemperature,
			MaxTokens:      DefaultMaxTokens,
			TimeoutSeconds: DefaultCompletionTimeout,
		},
		Search: SearchConfig{
			Provider:    DefaultSearchProvider,
			ResultCount: DefaultSearchResults,
		},
		Stock: StockConfig{
			PerPage: DefaultStockPerPage,
		},
		History: HistoryConfig{
			Store: "sqlite",
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}

// CompletionTimeout returns the per-call completion deadline.
func (c CompletionConfig) CompletionTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns the per-request gateway deadline.
func (g GatewayConfig) Timeout() time.Duration {
	return time.Duration(g.RequestTimeout) * time.Second
}
