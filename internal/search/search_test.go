package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/soyeahso/tubecrew/internal/config"
	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Normalize tests ---

func TestNormalizeFiltersBlankEntries(t *testing.T) {
	raw := []Result{
		{Title: "A", Link: "https://a.example"},
		{Title: "  ", Link: "https://blank-title.example"},
		{Title: "No link", Link: ""},
		{Title: " B ", Link: " https://b.example ", Snippet: " s "},
	}

	got := Normalize(raw, 5)
	require.Len(t, got, 2)
	assert.Equal(t, Result{Title: "A", Link: "https://a.example"}, got[0])
	assert.Equal(t, Result{Title: "B", Link: "https://b.example", Snippet: "s"}, got[1])
}

func TestNormalizeCapsCount(t *testing.T) {
	var raw []Result
	for i := 0; i < 10; i++ {
		raw = append(raw, Result{Title: "t", Link: "l"})
	}

	for _, n := range []int{0, 1, 3, 5, 10, 20} {
		got := Normalize(raw, n)
		assert.LessOrEqual(t, len(got), n)
		for _, r := range got {
			assert.NotEmpty(t, r.Title)
			assert.NotEmpty(t, r.Link)
		}
	}
	assert.Empty(t, Normalize(raw, -1))
}

func TestRecencyToken(t *testing.T) {
	assert.Equal(t, "qdr:m3", RecencyToken(3))
	assert.Equal(t, "qdr:m12", RecencyToken(12))
	assert.Equal(t, "qdr:m3", RecencyToken(0))
}

// --- New tests ---

func TestNewRequiresKey(t *testing.T) {
	_, err := New(config.SearchConfig{Provider: "serper"}, nil)
	var ce *domain.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "SERPER_API_KEY", ce.Key)

	_, err = New(config.SearchConfig{Provider: "brave"}, nil)
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "BRAVE_API_KEY", ce.Key)

	_, err = New(config.SearchConfig{Provider: "bing", APIKey: "k"}, nil)
	assert.True(t, domain.IsClientError(err))
}

func TestNewSelectsProvider(t *testing.T) {
	p, err := New(config.SearchConfig{APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "serper", p.Name())

	p, err = New(config.SearchConfig{Provider: "brave", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "brave", p.Name())
}

// --- Serper tests ---

func TestSerperSearch(t *testing.T) {
	var got serperRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "serper-key", r.Header.Get("X-API-KEY"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"organic":[
			{"title":"EV tariffs explained","link":"https://news.example/1","snippet":"Tariffs rise"},
			{"title":"","link":"https://news.example/2"},
			{"title":"Chip policy","link":"https://news.example/3","snippet":"Export controls"},
			{"title":"Third","link":"https://news.example/4"}
		]}`))
	}))
	defer srv.Close()

	s := NewSerper("serper-key", srv.URL, srv.Client())
	results, err := s.Search(context.Background(), Query{Text: "EV tariffs", Count: 2, MonthsBack: 12})
	require.NoError(t, err)

	assert.Equal(t, "EV tariffs", got.Q)
	assert.Equal(t, 4, got.Num)
	assert.Equal(t, "us", got.GL)
	assert.Equal(t, "en", got.HL)
	assert.Equal(t, "qdr:m12", got.TBS)

	require.Len(t, results, 2)
	assert.Equal(t, "EV tariffs explained", results[0].Title)
	assert.Equal(t, "Chip policy", results[1].Title)
}

func TestSerperNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/news", r.URL.Path)
		_, _ = w.Write([]byte(`{"news":[{"title":"Headline","link":"https://n.example","snippet":"s"}]}`))
	}))
	defer srv.Close()

	s := NewSerper("k", srv.URL, srv.Client())
	results, err := s.Search(context.Background(), Query{Text: "x", Kind: KindNews})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Headline", results[0].Title)
}

func TestSerperUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthorized."}`))
	}))
	defer srv.Close()

	s := NewSerper("bad", srv.URL, srv.Client())
	_, err := s.Search(context.Background(), Query{Text: "x"})

	var ue *domain.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusUnauthorized, ue.Status)
	assert.Contains(t, ue.Body, "Unauthorized")
}

func TestSerperEmptyQuery(t *testing.T) {
	s := NewSerper("k", "http://unused.invalid", http.DefaultClient)
	_, err := s.Search(context.Background(), Query{Text: "  "})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
}

// --- Brave tests ---

func TestBraveSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/res/v1/web/search", r.URL.Path)
		assert.Equal(t, "brave-key", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "battery supply chain", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("count"))
		assert.Equal(t, "py", r.URL.Query().Get("freshness"))
		_, _ = w.Write([]byte(`{"web":{"results":[
			{"title":"Battery makers expand","url":"https://b.example/1","description":"Plants abroad"},
			{"title":"Missing url","url":""}
		]}}`))
	}))
	defer srv.Close()

	b := NewBrave("brave-key", srv.URL, srv.Client())
	results, err := b.Search(context.Background(), Query{Text: "battery supply chain", MonthsBack: 12})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, Result{Title: "Battery makers expand", Link: "https://b.example/1", Snippet: "Plants abroad"}, results[0])
}

func TestBraveNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/res/v1/news/search", r.URL.Path)
		_, _ = w.Write([]byte(`{"type":"news","results":[{"title":"N","url":"https://n.example","description":"d"}]}`))
	}))
	defer srv.Close()

	b := NewBrave("k", srv.URL, srv.Client())
	results, err := b.Search(context.Background(), Query{Text: "x", Kind: KindNews})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "N", results[0].Title)
}

func TestBraveFreshness(t *testing.T) {
	b := NewBrave("k", "", http.DefaultClient)
	b.now = func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }

	assert.Equal(t, "pm", b.freshness(1))
	assert.Equal(t, "py", b.freshness(12))
	assert.Equal(t, "2025-03-15to2025-06-15", b.freshness(3))
	assert.Equal(t, "2023-06-15to2025-06-15", b.freshness(24))
	assert.Equal(t, "2024-12-15to2025-06-15", b.freshness(6))
}

func TestBraveCountCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20", r.URL.Query().Get("count"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	b := NewBrave("k", srv.URL, srv.Client())
	results, err := b.Search(context.Background(), Query{Text: "x", Count: 15})
	require.NoError(t, err)
	assert.Empty(t, results)
}
