package agents

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/llm"
	"github.com/soyeahso/tubecrew/internal/logging"
	"github.com/soyeahso/tubecrew/internal/search"
	"github.com/soyeahso/tubecrew/internal/stock"
	"github.com/soyeahso/tubecrew/internal/youtube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// --- fakes ---

type fakeSearch struct {
	results []search.Result
	err     error

	mu      sync.Mutex
	queries []search.Query
}

func (f *fakeSearch) Name() string { return "fake" }

func (f *fakeSearch) Search(ctx context.Context, q search.Query) ([]search.Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	return f.results, f.err
}

type fakeStock struct {
	videos      map[string][]stock.Video
	searchErr   map[string]error
	downloadErr error

	mu       sync.Mutex
	searched []string
}

func (f *fakeStock) SearchVideos(ctx context.Context, query string, perPage int) ([]stock.Video, error) {
	f.mu.Lock()
	f.searched = append(f.searched, query)
	f.mu.Unlock()
	if err := f.searchErr[query]; err != nil {
		return nil, err
	}
	return f.videos[query], nil
}

func (f *fakeStock) DownloadPreview(ctx context.Context, v stock.Video, dir string) (string, error) {
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	if v.ID == 0 || v.Image == "" {
		return "", nil
	}
	return filepath.Join(dir, stock.PreviewFilename(v.ID)), nil
}

type fakeYouTube struct {
	stats     *youtube.Stats
	statsErr  error
	trending  []string
	trendErr  error
	uploadRes *youtube.UploadResult
	uploadErr error
	appendErr error

	uploads  []youtube.UploadRequest
	appended map[string]string
}

func (f *fakeYouTube) VideoStatistics(ctx context.Context, id string) (*youtube.Stats, error) {
	return f.stats, f.statsErr
}

func (f *fakeYouTube) TrendingTitles(ctx context.Context, region, category string, maxResults int64) ([]string, error) {
	return f.trending, f.trendErr
}

func (f *fakeYouTube) Upload(ctx context.Context, req youtube.UploadRequest) (*youtube.UploadResult, error) {
	f.uploads = append(f.uploads, req)
	return f.uploadRes, f.uploadErr
}

func (f *fakeYouTube) AppendDescription(ctx context.Context, id, text string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	if f.appended == nil {
		f.appended = map[string]string{}
	}
	f.appended[id] = text
	return nil
}

func testToolkit(t *testing.T) Toolkit {
	t.Helper()
	return Toolkit{
		AssetsDir: t.TempDir(),
		Now:       func() time.Time { return fixedNow },
		Log:       logging.New(nil, "silent"),
	}
}

func mockLLM(replies ...string) *llm.MockClient {
	return &llm.MockClient{ProviderName: "mock", CompleteFunc: llm.Replies(replies...)}
}

// --- Toolkit tests ---

func TestToolkitRequire(t *testing.T) {
	tk := testToolkit(t)
	err := tk.require(DepLLM)
	var ce *domain.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "completion", ce.Key)

	tk.LLM = mockLLM("x")
	assert.NoError(t, tk.require(DepLLM))
}

func TestToolkitRequireUsesRecordedReason(t *testing.T) {
	tk := testToolkit(t)
	tk.Unavailable = map[Dependency]error{DepSearch: domain.MissingConfig("SERPER_API_KEY")}

	err := tk.require(DepSearch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERPER_API_KEY")
	assert.True(t, domain.IsClientError(err))
}

func TestConstructorsFailWithoutCompletionClient(t *testing.T) {
	tk := testToolkit(t)
	tk.Search = &fakeSearch{}
	tk.Unavailable = map[Dependency]error{DepLLM: domain.MissingConfig("OPENROUTER_API_KEY", "OPENROUTER_MODEL")}

	constructors := map[string]func(Toolkit) error{
		"strategy":     func(tk Toolkit) error { _, err := NewStrategy(tk); return err },
		"research":     func(tk Toolkit) error { _, err := NewResearch(tk); return err },
		"scriptwriter": func(tk Toolkit) error { _, err := NewScriptwriter(tk); return err },
		"reviewer":     func(tk Toolkit) error { _, err := NewReviewer(tk); return err },
		"thumbnail":    func(tk Toolkit) error { _, err := NewThumbnail(tk); return err },
	}
	for name, build := range constructors {
		t.Run(name, func(t *testing.T) {
			err := build(tk)
			require.Error(t, err)
			assert.True(t, domain.IsClientError(err))
			assert.Contains(t, err.Error(), "OPENROUTER_API_KEY")
		})
	}
}

func TestResearchRequiresSearch(t *testing.T) {
	tk := testToolkit(t)
	tk.LLM = mockLLM("x")
	_, err := NewResearch(tk)
	assert.True(t, domain.IsClientError(err))
}

func TestGenerateWrapsErrors(t *testing.T) {
	c := &llm.MockClient{CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
		return nil, &domain.UpstreamError{Service: "completion", Status: 502, Body: "bad gateway"}
	}}
	_, err := generate(context.Background(), c, logging.New(nil, "silent"), "script", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script: completion API error (502): bad gateway")

	var ue *domain.UpstreamError
	assert.True(t, errors.As(err, &ue))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "宁德", truncateRunes("宁德时代", 2))
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		in     string
		want   TimeRange
		months int
		label  string
	}{
		{"", Months3, 3, "近3个月"},
		{"MONTHS_3", Months3, 3, "近3个月"},
		{"YEAR_1", Year1, 12, "近1年"},
		{"YEARS_2", Years2, 24, "近2年"},
	}
	for _, tt := range tests {
		got, err := ParseTimeRange(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.months, got.Months())
		assert.Equal(t, tt.label, got.Label())
	}

	_, err := ParseTimeRange("WEEK_1")
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestDateRange(t *testing.T) {
	start, end := dateRange(fixedNow, 3)
	assert.Equal(t, "2025-03-17", start)
	assert.Equal(t, "2025-06-15", end)
}

func TestParseObject(t *testing.T) {
	assert.Equal(t, map[string]any{"a": "b"}, parseObject(`{"a":"b"}`))
	assert.Equal(t, map[string]any{"a": float64(1)}, parseObject("```json\n{\"a\": 1}\n```"))
	assert.Equal(t, map[string]any{"raw": "not json"}, parseObject("not json"))
	assert.Equal(t, map[string]any{"raw": "[1,2]"}, parseObject("[1,2]"))
}
