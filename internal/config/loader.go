package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential fields so keys and tokens can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	cfg.Gateway.Auth.Token = expandEnvVars(cfg.Gateway.Auth.Token)
	cfg.Gateway.Auth.Password = expandEnvVars(cfg.Gateway.Auth.Password)
	cfg.Completion.APIKey = expandEnvVars(cfg.Completion.APIKey)
	cfg.Completion.Model = expandEnvVars(cfg.Completion.Model)
	cfg.Search.APIKey = expandEnvVars(cfg.Search.APIKey)
	cfg.Stock.APIKey = expandEnvVars(cfg.Stock.APIKey)
	cfg.YouTube.APIKey = expandEnvVars(cfg.YouTube.APIKey)
	cfg.YouTube.ClientSecretsFile = expandEnvVars(cfg.YouTube.ClientSecretsFile)
}

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the
// process environment. Missing files are skipped and variables that are
// already set are not overwritten.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return &ConfigError{Message: fmt.Sprintf("failed to load %s: %v", f, err)}
		}
	}
	return nil
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. Missing files produce defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	return cfg, nil
}

// LoadRaw reads the config file into a generic map for path-based access.
func LoadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}
	return raw, nil
}

// SaveRaw writes a generic map back to a YAML config file.
func SaveRaw(path string, raw map[string]any) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// applyDefaults fills zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	d := Defaults()
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = d.Gateway.Port
	}
	if cfg.Gateway.Bind == "" {
		cfg.Gateway.Bind = d.Gateway.Bind
	}
	if cfg.Gateway.RequestTimeout == 0 {
		cfg.Gateway.RequestTimeout = d.Gateway.RequestTimeout
	}
	if cfg.Gateway.Auth.Mode == "" {
		cfg.Gateway.Auth.Mode = d.Gateway.Auth.Mode
	}
	if cfg.Completion.BaseURL == "" {
		cfg.Completion.BaseURL = d.Completion.BaseURL
	}
	if cfg.Completion.Temperature == 0 {
		cfg.Completion.Temperature = d.Completion.Temperature
	}
	if cfg.Completion.MaxTokens == 0 {
		cfg.Completion.MaxTokens = d.Completion.MaxTokens
	}
	if cfg.Completion.TimeoutSeconds == 0 {
		cfg.Completion.TimeoutSeconds = d.Completion.TimeoutSeconds
	}
	if cfg.Search.Provider == "" {
		cfg.Search.Provider = d.Search.Provider
	}
	if cfg.Search.ResultCount == 0 {
		cfg.Search.ResultCount = d.Search.ResultCount
	}
	if cfg.Stock.PerPage == 0 {
		cfg.Stock.PerPage = d.Stock.PerPage
	}
	if cfg.History.Store == "" {
		cfg.History.Store = d.History.Store
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
	if cfg.Logging.ConsoleStyle == "" {
		cfg.Logging.ConsoleStyle = d.Logging.ConsoleStyle
	}
}

// envOverrides maps environment variables onto string config fields.
// The unprefixed names match the keys commonly kept in a project .env file.
func envOverrides(cfg *Config) map[string]*string {
	return map[string]*string{
		"OPENROUTER_API_KEY":          &cfg.Completion.APIKey,
		"OPENROUTER_MODEL":            &cfg.Completion.Model,
		"OPENROUTER_BASE_URL":         &cfg.Completion.BaseURL,
		"SERPER_API_KEY":              &cfg.Search.APIKey,
		"PEXELS_API_KEY":              &cfg.Stock.APIKey,
		"YOUTUBE_API_KEY":             &cfg.YouTube.APIKey,
		"YOUTUBE_CLIENT_SECRETS_FILE": &cfg.YouTube.ClientSecretsFile,
		"TUBECREW_ASSETS_DIR":         &cfg.Assets.Dir,
		"TUBECREW_GATEWAY_BIND":       &cfg.Gateway.Bind,
		"TUBECREW_GATEWAY_TOKEN":      &cfg.Gateway.Auth.Token,
	}
}

// applyEnvOverrides reads environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	for name, field := range envOverrides(cfg) {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
	if v := os.Getenv("BRAVE_API_KEY"); v != "" && cfg.Search.Provider == "brave" {
		cfg.Search.APIKey = v
	}
	if v := os.Getenv("TUBECREW_GATEWAY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.Port = port
		}
	}
	if v := os.Getenv("TUBECREW_LOCK_ENFORCE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Lock.Enforce = b
		}
	}
	if v := os.Getenv("TUBECREW_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}
