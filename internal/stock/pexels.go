// Package stock searches the Pexels video library and stores preview
// images for the editor agent.
package stock

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/soyeahso/tubecrew/internal/config"
	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/upstream"
)

const pexelsBaseURL = "https://api.pexels.com"

// Video is one stock footage hit.
type Video struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Image    string `json:"image"`
	Duration int    `json:"duration"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	User     struct {
		Name string `json:"name"`
	} `json:"user"`
}

type searchResponse struct {
	Videos       []Video `json:"videos"`
	TotalResults int     `json:"total_results"`
}

// Pexels is a client for the Pexels video search API.
type Pexels struct {
	apiKey  string
	baseURL string
	perPage int
	client  *http.Client
}

// New creates a Pexels client. A missing API key is a domain.ConfigError.
func New(cfg config.StockConfig, client *http.Client) (*Pexels, error) {
	if cfg.APIKey == "" {
		return nil, domain.MissingConfig("PEXELS_API_KEY")
	}
	if client == nil {
		client = upstream.NewHTTPClient()
	}
	base := cfg.BaseURL
	if base == "" {
		base = pexelsBaseURL
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = config.DefaultStockPerPage
	}
	return &Pexels{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(base, "/"),
		perPage: perPage,
		client:  client,
	}, nil
}

// PerPage returns the configured page size.
func (p *Pexels) PerPage() int { return p.perPage }

// SearchVideos returns up to perPage videos matching query. A non-positive
// perPage uses the configured page size.
func (p *Pexels) SearchVideos(ctx context.Context, query string, perPage int) ([]Video, error) {
	if perPage <= 0 {
		perPage = p.perPage
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/videos/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)

	var resp searchResponse
	if err := upstream.DoJSON(p.client, req, "stock", &resp); err != nil {
		return nil, err
	}

	if len(resp.Videos) > perPage {
		resp.Videos = resp.Videos[:perPage]
	}
	return resp.Videos, nil
}

// PreviewFilename is the local file name for a video's preview image.
func PreviewFilename(id int64) string {
	return fmt.Sprintf("pexels_%d.jpg", id)
}

// DownloadPreview saves the video's preview image into dir and returns the
// written path. Videos without an id or image yield "" and no error.
func (p *Pexels) DownloadPreview(ctx context.Context, v Video, dir string) (string, error) {
	if v.ID == 0 || v.Image == "" {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.Image, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	data, err := upstream.Fetch(p.client, req, "stock")
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating preview dir: %w", err)
	}
	path := filepath.Join(dir, PreviewFilename(v.ID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing preview: %w", err)
	}
	return path, nil
}
