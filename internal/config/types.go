package config

// Config is the root configuration for tubecrew.
type Config struct {
	Gateway    GatewayConfig    `yaml:"gateway,omitempty"`
	Completion CompletionConfig `yaml:"completion,omitempty"`
	Search     SearchConfig     `yaml:"search,omitempty"`
	Stock      StockConfig      `yaml:"stock,omitempty"`
	YouTube    YouTubeConfig    `yaml:"youtube,omitempty"`
	Assets     AssetsConfig     `yaml:"assets,omitempty"`
	Lock       LockConfig       `yaml:"lock,omitempty"`
	History    HistoryConfig    `yaml:"history,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Hooks      HooksConfig      `yaml:"hooks,omitempty"`
}

// GatewayConfig controls the HTTP/WebSocket server.
type GatewayConfig struct {
	Port           int              `yaml:"port,omitempty"`
	Bind           string           `yaml:"bind,omitempty"` // "auto" | "lan" | "loopback" | "custom"
	CustomBindHost string           `yaml:"customBindHost,omitempty"`
	RequestTimeout int              `yaml:"requestTimeoutSeconds,omitempty"`
	Auth           GatewayAuth      `yaml:"auth,omitempty"`
	TLS            GatewayTLS       `yaml:"tls,omitempty"`
	ControlUI      GatewayControlUI `yaml:"controlUi,omitempty"`
}

// GatewayAuth configures authentication for the /ws events feed.
type GatewayAuth struct {
	Mode     string `yaml:"mode,omitempty"` // "token" | "password"
	Token    string `yaml:"token,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// GatewayTLS configures TLS for the gateway.
type GatewayTLS struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	CertPath string `yaml:"certPath,omitempty"`
	KeyPath  string `yaml:"keyPath,omitempty"`
}

// GatewayControlUI configures browser access.
type GatewayControlUI struct {
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// CompletionConfig points at an OpenAI-compatible chat completion API.
type CompletionConfig struct {
	BaseURL        string  `yaml:"baseUrl,omitempty"`
	APIKey         string  `yaml:"apiKey,omitempty"`
	Model          string  `yaml:"model,omitempty"`
	Temperature    float64 `yaml:"temperature,omitempty"`
	MaxTokens      int     `yaml:"maxTokens,omitempty"`
	TimeoutSeconds int     `yaml:"timeoutSeconds,omitempty"`
}

// SearchConfig selects and configures the web search provider.
type SearchConfig struct {
	Provider    string `yaml:"provider,omitempty"` // "serper" | "brave"
	APIKey      string `yaml:"apiKey,omitempty"`
	BaseURL     string `yaml:"baseUrl,omitempty"`
	ResultCount int    `yaml:"resultCount,omitempty"`
}

// StockConfig configures the Pexels stock footage API.
type StockConfig struct {
	APIKey  string `yaml:"apiKey,omitempty"`
	BaseURL string `yaml:"baseUrl,omitempty"`
	PerPage int    `yaml:"perPage,omitempty"`
}

// YouTubeConfig configures the YouTube Data API.
type YouTubeConfig struct {
	APIKey            string `yaml:"apiKey,omitempty"`
	ClientSecretsFile string `yaml:"clientSecretsFile,omitempty"`
	TokenFile         string `yaml:"tokenFile,omitempty"`
	Endpoint          string `yaml:"endpoint,omitempty"`
}

// AssetsConfig locates downloaded media.
type AssetsConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// LockConfig controls the API lock.
type LockConfig struct {
	Enforce bool `yaml:"enforce,omitempty"` // reject agent calls while locked
}

// HistoryConfig selects the run history store.
type HistoryConfig struct {
	Store string `yaml:"store,omitempty"` // "sqlite" | "memory"
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "compact" | "json"
}

// HooksConfig maps lifecycle events to shell commands.
type HooksConfig struct {
	AgentRunStart []HookEntry `yaml:"agentRunStart,omitempty"`
	AgentRunEnd   []HookEntry `yaml:"agentRunEnd,omitempty"`
	LockToggled   []HookEntry `yaml:"lockToggled,omitempty"`
	GatewayStart  []HookEntry `yaml:"gatewayStart,omitempty"`
	GatewayStop   []HookEntry `yaml:"gatewayStop,omitempty"`
}

// HookEntry defines a single hook action.
type HookEntry struct {
	Command string `yaml:"command"`
	Timeout int    `yaml:"timeout,omitempty"` // milliseconds
}
