package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyValidate(t *testing.T) {
	tests := []struct {
		name  string
		req   StrategyRequest
		field string
	}{
		{"empty topic", StrategyRequest{Source: SourceNews}, "topic"},
		{"bad source", StrategyRequest{Topic: "t", Source: "rss"}, "source"},
		{"bad range", StrategyRequest{Topic: "t", Source: SourceNews, TimeRange: "DECADE"}, "time_range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	req := StrategyRequest{Topic: "t", Source: SourceYouTube}
	require.NoError(t, req.Validate())
	assert.Equal(t, Months3, req.TimeRange)
	assert.Equal(t, "US", req.Region)
}

func TestStrategyNewsWithArticles(t *testing.T) {
	tk := testToolkit(t)
	mock := mockLLM("1. 选题A")
	fs := &fakeSearch{results: []search.Result{
		{Title: "宁德时代香港上市", Link: "https://example.com/a"},
		{Title: "芯片短缺", Link: "https://example.com/b"},
	}}
	tk.LLM, tk.Search = mock, fs

	s, err := NewStrategy(tk)
	require.NoError(t, err)

	out, err := s.Recommend(context.Background(), StrategyRequest{
		Topic:     "电池",
		Source:    SourceNews,
		Query:     "宁德时代",
		TimeRange: Year1,
	})
	require.NoError(t, err)
	assert.Equal(t, "1. 选题A", out)

	require.Len(t, fs.queries, 1)
	q := fs.queries[0]
	assert.Equal(t, "电池 宁德时代", q.Text)
	assert.Equal(t, 12, q.MonthsBack)
	assert.Equal(t, search.KindNews, q.Kind)

	prompt := mock.LastPrompt()
	assert.Contains(t, prompt, "- 宁德时代香港上市 (https://example.com/a)")
	assert.Contains(t, prompt, "近1年")
	assert.Contains(t, prompt, "2024-06-20至2025-06-15")
}

func TestStrategyNewsWithoutArticlesUsesTrendPrompt(t *testing.T) {
	tk := testToolkit(t)
	mock := mockLLM("建议")
	tk.LLM = mock
	tk.Search = &fakeSearch{err: errors.New("boom")}

	s, err := NewStrategy(tk)
	require.NoError(t, err)

	_, err = s.Recommend(context.Background(), StrategyRequest{Topic: "人工智能", Source: SourceNews})
	require.NoError(t, err)

	prompt := mock.LastPrompt()
	assert.Contains(t, prompt, "新闻热点")
	assert.Contains(t, prompt, "【主题方向】\n人工智能")
	assert.Contains(t, prompt, "【关键词】\n不限")
}

func TestStrategyNewsWithoutSearchClient(t *testing.T) {
	tk := testToolkit(t)
	mock := mockLLM("建议")
	tk.LLM = mock

	s, err := NewStrategy(tk)
	require.NoError(t, err)
	_, err = s.Recommend(context.Background(), StrategyRequest{Topic: "能源", Source: SourceNews, Query: "光伏"})
	require.NoError(t, err)
	assert.Contains(t, mock.LastPrompt(), "【关键词】\n光伏")
}

func TestStrategyYouTubeIncludesTrending(t *testing.T) {
	tk := testToolkit(t)
	mock := mockLLM("建议")
	tk.LLM = mock
	tk.YouTube = &fakeYouTube{trending: []string{"Trending One", "Trending Two"}}

	s, err := NewStrategy(tk)
	require.NoError(t, err)
	_, err = s.Recommend(context.Background(), StrategyRequest{Topic: "AI", Source: SourceYouTube, Region: "GB", CategoryID: "25"})
	require.NoError(t, err)

	prompt := mock.LastPrompt()
	assert.Contains(t, prompt, "【目标地区】\nGB")
	assert.Contains(t, prompt, "【内容分类】\n25")
	assert.Contains(t, prompt, "- Trending One")
}

func TestStrategyYouTubeDegradesWithoutTrending(t *testing.T) {
	tk := testToolkit(t)
	mock := mockLLM("建议")
	tk.LLM = mock
	tk.YouTube = &fakeYouTube{trendErr: &domain.UpstreamError{Service: "youtube", Status: 403, Body: "quota"}}

	s, err := NewStrategy(tk)
	require.NoError(t, err)
	_, err = s.Recommend(context.Background(), StrategyRequest{Topic: "AI", Source: SourceYouTube})
	require.NoError(t, err)

	prompt := mock.LastPrompt()
	assert.Contains(t, prompt, "【目标地区】\nUS")
	assert.NotContains(t, prompt, "当前热门视频")
}

func TestStrategyEmptyCompletion(t *testing.T) {
	tk := testToolkit(t)
	tk.LLM = mockLLM("   ")

	s, err := NewStrategy(tk)
	require.NoError(t, err)
	_, err = s.Recommend(context.Background(), StrategyRequest{Topic: "AI", Source: SourceYouTube})

	var ue *domain.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, err.Error(), "未能生成选题建议")
}
