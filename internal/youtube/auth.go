package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/soyeahso/tubecrew/internal/config"
	"github.com/soyeahso/tubecrew/internal/domain"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	yt "google.golang.org/api/youtube/v3"
)

// Scopes requested for channel management.
var Scopes = []string{yt.YoutubeUploadScope, yt.YoutubeScope, yt.YoutubeForceSslScope}

// OAuthConfig reads an installed-app client secrets file.
func OAuthConfig(secretsFile string) (*oauth2.Config, error) {
	if secretsFile == "" {
		return nil, domain.MissingConfig("YOUTUBE_CLIENT_SECRETS_FILE")
	}
	b, err := os.ReadFile(secretsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.ConfigError{Key: "YOUTUBE_CLIENT_SECRETS_FILE", Message: fmt.Sprintf("%s does not exist", secretsFile)}
		}
		return nil, fmt.Errorf("unable to read client secrets: %w", err)
	}
	cfg, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, &domain.ConfigError{Key: "YOUTUBE_CLIENT_SECRETS_FILE", Message: fmt.Sprintf("unable to parse client secrets: %v", err)}
	}
	return cfg, nil
}

// TokenFromFile loads a saved OAuth token.
func TokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// SaveToken writes token to path with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("unable to create token dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// Authorize runs the interactive code flow: it prints the consent URL to
// out, reads the authorization code from in, and saves the token.
func Authorize(ctx context.Context, cfg config.YouTubeConfig, in io.Reader, out io.Writer) error {
	oauthCfg, err := OAuthConfig(cfg.ClientSecretsFile)
	if err != nil {
		return err
	}
	if cfg.TokenFile == "" {
		return domain.MissingConfig("youtube.tokenFile")
	}

	authURL := oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Go to the following link in your browser then type the authorization code:\n%v\n", authURL)

	var code string
	if _, err := fmt.Fscan(in, &code); err != nil {
		return fmt.Errorf("unable to read authorization code: %w", err)
	}

	tok, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	if err := SaveToken(cfg.TokenFile, tok); err != nil {
		return err
	}
	fmt.Fprintf(out, "Token saved to %s\n", cfg.TokenFile)
	return nil
}
