package config

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultBaseDir = ".tubecrew"

// assetSubdirs is the media tree created under the assets directory.
var assetSubdirs = []string{
	"images/thumbnails",
	"images/backgrounds",
	"videos/raw",
	"videos/edited",
	"audio/music",
	"audio/sfx",
	"cache",
	"temp",
	"logs",
	"pexels",
}

// Paths holds resolved filesystem paths for tubecrew data.
type Paths struct {
	Base        string // ~/.tubecrew
	Config      string // ~/.tubecrew/config.yaml
	DotEnv      string // ~/.tubecrew/.env
	Credentials string // ~/.tubecrew/credentials
	Assets      string // ~/.tubecrew/assets
	Data        string // ~/.tubecrew/data
}

// ResolvePaths computes all standard paths from the home directory.
// If TUBECREW_HOME is set, it overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("TUBECREW_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:        base,
		Config:      filepath.Join(base, "config.yaml"),
		DotEnv:      filepath.Join(base, ".env"),
		Credentials: filepath.Join(base, "credentials"),
		Assets:      filepath.Join(base, "assets"),
		Data:        filepath.Join(base, "data"),
	}, nil
}

// WithAssets returns a copy of p with the assets directory replaced.
func (p Paths) WithAssets(dir string) Paths {
	if dir != "" {
		p.Assets = dir
	}
	return p
}

// AssetDirs lists every directory of the media tree.
func (p Paths) AssetDirs() []string {
	dirs := make([]string, 0, len(assetSubdirs)+1)
	dirs = append(dirs, p.Assets)
	for _, sub := range assetSubdirs {
		dirs = append(dirs, filepath.Join(p.Assets, filepath.FromSlash(sub)))
	}
	return dirs
}

// PexelsDir is where stock footage previews are stored.
func (p Paths) PexelsDir() string {
	return filepath.Join(p.Assets, "pexels")
}

// EnsureDirs creates all standard directories if they don't exist. Empty
// media directories get a .gitkeep so the tree survives being committed.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.Base, p.Credentials, p.Data} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	dirs := p.AssetDirs()
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	// Marked after creation so only the leaf directories can be empty.
	for _, d := range dirs {
		entries, err := os.ReadDir(d)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			if err := os.WriteFile(filepath.Join(d, ".gitkeep"), nil, 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

// ApplyPaths fills file locations left empty in cfg from the resolved paths.
func ApplyPaths(cfg *Config, p Paths) {
	if cfg.Assets.Dir == "" {
		cfg.Assets.Dir = p.Assets
	}
	if cfg.YouTube.ClientSecretsFile == "" {
		cfg.YouTube.ClientSecretsFile = filepath.Join(p.Credentials, "client_secret.json")
	}
	if cfg.YouTube.TokenFile == "" {
		cfg.YouTube.TokenFile = filepath.Join(p.Credentials, "youtube-token.json")
	}
}

// blockedKeys are keys that must never appear in config paths.
var blockedKeys = map[string]bool{
	"__proto__":   true,
	"prototype":   true,
	"constructor": true,
}

// ParseConfigPath splits a dot-separated config path into segments.
// Returns an error if any segment is blocked or empty.
func ParseConfigPath(raw string) ([]string, error) {
	if raw == "" {
		return nil, &ConfigError{Message: "empty config path"}
	}
	parts := strings.Split(raw, ".")
	for _, p := range parts {
		if p == "" {
			return nil, &ConfigError{Message: "config path contains empty segment"}
		}
		if blockedKeys[p] {
			return nil, &ConfigError{Message: "config path contains blocked key: " + p}
		}
	}
	return parts, nil
}

// GetValueAtPath traverses a nested map using the given path segments.
func GetValueAtPath(root map[string]any, path []string) (any, bool) {
	current := any(root)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetValueAtPath sets a value in a nested map, creating intermediate maps as needed.
func SetValueAtPath(root map[string]any, path []string, value any) {
	current := root
	for _, key := range path[:len(path)-1] {
		next, ok := current[key]
		if !ok {
			next = map[string]any{}
			current[key] = next
		}
		m, ok := next.(map[string]any)
		if !ok {
			m = map[string]any{}
			current[key] = m
		}
		current = m
	}
	current[path[len(path)-1]] = value
}

// UnsetValueAtPath removes a value at the given path. Returns true if removed.
func UnsetValueAtPath(root map[string]any, path []string) bool {
	current := root
	for _, key := range path[:len(path)-1] {
		next, ok := current[key]
		if !ok {
			return false
		}
		m, ok := next.(map[string]any)
		if !ok {
			return false
		}
		current = m
	}
	last := path[len(path)-1]
	if _, ok := current[last]; !ok {
		return false
	}
	delete(current, last)
	return true
}
