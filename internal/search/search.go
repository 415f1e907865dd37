// Package search queries web search APIs and normalizes their results for
// the research and strategy agents.
package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/soyeahso/tubecrew/internal/config"
	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/upstream"
)

// Kind selects the result vertical.
type Kind string

const (
	KindWeb  Kind = "web"
	KindNews Kind = "news"
)

// DefaultMonths is the recency window used when a query does not set one.
const DefaultMonths = 3

// Query is a single search request.
type Query struct {
	Text       string
	Count      int // results wanted; the provider may be asked for more
	MonthsBack int
	Kind       Kind
}

// Result is one normalized search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Provider is implemented by each search backend.
type Provider interface {
	Search(ctx context.Context, q Query) ([]Result, error)
	Name() string
}

// New builds the provider selected by cfg. A missing API key is a
// domain.ConfigError.
func New(cfg config.SearchConfig, client *http.Client) (Provider, error) {
	if client == nil {
		client = upstream.NewHTTPClient()
	}
	switch cfg.Provider {
	case "brave":
		if cfg.APIKey == "" {
			return nil, domain.MissingConfig("BRAVE_API_KEY")
		}
		return NewBrave(cfg.APIKey, cfg.BaseURL, client), nil
	case "", "serper":
		if cfg.APIKey == "" {
			return nil, domain.MissingConfig("SERPER_API_KEY")
		}
		return NewSerper(cfg.APIKey, cfg.BaseURL, client), nil
	default:
		return nil, &domain.ConfigError{Key: "search.provider", Message: fmt.Sprintf("unknown provider %q", cfg.Provider)}
	}
}

// Normalize drops entries with a blank title or link and keeps at most n.
// Title and link are trimmed; a non-positive n keeps nothing.
func Normalize(raw []Result, n int) []Result {
	out := make([]Result, 0, max(n, 0))
	for _, r := range raw {
		if len(out) >= n {
			break
		}
		title := strings.TrimSpace(r.Title)
		link := strings.TrimSpace(r.Link)
		if title == "" || link == "" {
			continue
		}
		out = append(out, Result{Title: title, Link: link, Snippet: strings.TrimSpace(r.Snippet)})
	}
	return out
}

// RecencyToken converts a months-back window into a search engine date
// range token.
func RecencyToken(months int) string {
	if months <= 0 {
		months = DefaultMonths
	}
	return fmt.Sprintf("qdr:m%d", months)
}

func (q Query) months() int {
	if q.MonthsBack <= 0 {
		return DefaultMonths
	}
	return q.MonthsBack
}

func (q Query) count() int {
	if q.Count <= 0 {
		return config.DefaultSearchResults
	}
	return q.Count
}

func (q Query) validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return domain.Invalid("query", "must not be empty")
	}
	return nil
}
