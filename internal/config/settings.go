package config

import "os"

// SettingsReport summarizes whether the credentials the agents need are
// present. It does not make any network calls.
type SettingsReport struct {
	IsValid              bool     `json:"is_valid"`
	MissingKeys          []string `json:"missing_keys"`
	CredentialsDirExists bool     `json:"credentials_dir_exists"`
	AssetsDirExists      bool     `json:"assets_dir_exists"`
}

// VerifySettings checks cfg for missing credentials and the on-disk
// directories in p.
func VerifySettings(cfg Config, p Paths) SettingsReport {
	missing := []string{}
	if cfg.Completion.APIKey == "" {
		missing = append(missing, "OPENROUTER_API_KEY")
	}
	if cfg.Completion.Model == "" {
		missing = append(missing, "OPENROUTER_MODEL")
	}
	if cfg.Search.APIKey == "" {
		if cfg.Search.Provider == "brave" {
			missing = append(missing, "BRAVE_API_KEY")
		} else {
			missing = append(missing, "SERPER_API_KEY")
		}
	}
	if cfg.Stock.APIKey == "" {
		missing = append(missing, "PEXELS_API_KEY")
	}
	if cfg.YouTube.APIKey == "" {
		missing = append(missing, "YOUTUBE_API_KEY")
	}
	if !fileExists(cfg.YouTube.ClientSecretsFile) {
		missing = append(missing, "YOUTUBE_CLIENT_SECRETS_FILE")
	}

	assets := p.Assets
	if cfg.Assets.Dir != "" {
		assets = cfg.Assets.Dir
	}

	return SettingsReport{
		IsValid:              len(missing) == 0,
		MissingKeys:          missing,
		CredentialsDirExists: dirExists(p.Credentials),
		AssetsDirExists:      dirExists(assets),
	}
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
