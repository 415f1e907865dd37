package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/soyeahso/tubecrew/internal/upstream"
)

const serperBaseURL = "https://google.serper.dev"

// Serper queries the serper.dev Google search API.
type Serper struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSerper creates a Serper provider. An empty baseURL uses the public API.
func NewSerper(apiKey, baseURL string, client *http.Client) *Serper {
	if baseURL == "" {
		baseURL = serperBaseURL
	}
	return &Serper{apiKey: apiKey, baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (s *Serper) Name() string { return "serper" }

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
	GL  string `json:"gl"`
	HL  string `json:"hl"`
	TBS string `json:"tbs"`
}

type serperResponse struct {
	Organic []serperItem `json:"organic"`
	News    []serperItem `json:"news"`
}

type serperItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Search asks for twice the wanted count so filtering still leaves enough.
func (s *Serper) Search(ctx context.Context, q Query) ([]Result, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	n := q.count()

	payload, err := json.Marshal(serperRequest{
		Q:   q.Text,
		Num: n * 2,
		GL:  "us",
		HL:  "en",
		TBS: RecencyToken(q.months()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	path := "/search"
	if q.Kind == KindNews {
		path = "/news"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var resp serperResponse
	if err := upstream.DoJSON(s.client, req, "search", &resp); err != nil {
		return nil, err
	}

	items := resp.Organic
	if q.Kind == KindNews {
		items = resp.News
	}
	raw := make([]Result, 0, len(items))
	for _, it := range items {
		raw = append(raw, Result{Title: it.Title, Link: it.Link, Snippet: it.Snippet})
	}
	return Normalize(raw, n), nil
}
