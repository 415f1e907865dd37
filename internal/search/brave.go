package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/soyeahso/tubecrew/internal/upstream"
)

const braveBaseURL = "https://api.search.brave.com"

// braveMaxCount is the largest page Brave returns.
const braveMaxCount = 20

// Brave queries the Brave Search API.
type Brave struct {
	apiKey  string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewBrave creates a Brave provider. An empty baseURL uses the public API.
func NewBrave(apiKey, baseURL string, client *http.Client) *Brave {
	if baseURL == "" {
		baseURL = braveBaseURL
	}
	return &Brave{apiKey: apiKey, baseURL: strings.TrimSuffix(baseURL, "/"), client: client, now: time.Now}
}

func (b *Brave) Name() string { return "brave" }

type braveItem struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type braveResponse struct {
	Web struct {
		Results []braveItem `json:"results"`
	} `json:"web"`
	News struct {
		Results []braveItem `json:"results"`
	} `json:"news"`
	// news/search returns results at the top level
	Results []braveItem `json:"results"`
}

// Search runs a web or news query with a freshness filter.
func (b *Brave) Search(ctx context.Context, q Query) ([]Result, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	n := q.count()

	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("count", strconv.Itoa(min(n*2, braveMaxCount)))
	params.Set("country", "us")
	params.Set("search_lang", "en")
	params.Set("freshness", b.freshness(q.months()))

	path := "/res/v1/web/search"
	if q.Kind == KindNews {
		path = "/res/v1/news/search"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Subscription-Token", b.apiKey)

	var resp braveResponse
	if err := upstream.DoJSON(b.client, req, "search", &resp); err != nil {
		return nil, err
	}

	var items []braveItem
	switch {
	case len(resp.Results) > 0:
		items = resp.Results
	case q.Kind == KindNews && len(resp.News.Results) > 0:
		items = resp.News.Results
	default:
		items = resp.Web.Results
	}

	raw := make([]Result, 0, len(items))
	for _, it := range items {
		raw = append(raw, Result{Title: it.Title, Link: it.URL, Snippet: it.Description})
	}
	return Normalize(raw, n), nil
}

// freshness maps a months-back window onto Brave's filter: the named past
// month and past year windows where they fit, an explicit date range otherwise.
func (b *Brave) freshness(months int) string {
	switch months {
	case 1:
		return "pm"
	case 12:
		return "py"
	}
	now := b.now()
	from := now.AddDate(0, -months, 0)
	return from.Format("2006-01-02") + "to" + now.Format("2006-01-02")
}
