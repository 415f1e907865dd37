package agents

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"time"

	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/logging"
)

// MockMetrics is the performance payload returned when live statistics are
// unavailable.
func MockMetrics() map[string]any {
	return map[string]any{
		"views":               10000,
		"watch_time":          50000,
		"avg_view_duration":   300,
		"likes":               500,
		"comments":            100,
		"shares":              50,
		"subscribers_gained":  20,
		"impressions":         20000,
		"ctr":                 0.05,
		"avg_view_percentage": 0.65,
	}
}

// MockAudience is the audience payload returned until audience analytics
// are integrated.
func MockAudience() map[string]any {
	return map[string]any{
		"demographics": map[string]any{
			"age_groups": map[string]any{"18-24": 0.3, "25-34": 0.4, "35-44": 0.2},
			"genders":    map[string]any{"male": 0.6, "female": 0.4},
			"locations":  map[string]any{"US": 0.4, "GB": 0.2, "IN": 0.1},
		},
		"viewer_behavior": map[string]any{
			"traffic_sources": map[string]any{"suggested": 0.4, "browse": 0.3, "search": 0.2},
			"devices":         map[string]any{"mobile": 0.6, "desktop": 0.3, "tablet": 0.1},
		},
		"engagement": map[string]any{
			"peak_times": []any{"14:00", "20:00"},
			"retention_drops": []any{
				map[string]any{"time": "0:30", "percentage": 0.2},
				map[string]any{"time": "2:45", "percentage": 0.3},
			},
		},
	}
}

// PerformanceRequest asks for a video's metrics.
type PerformanceRequest struct {
	VideoID   string `json:"video_id"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Metrics   string `json:"metrics,omitempty"` // comma-separated names to keep
}

// OptimizeRequest carries the data optimization advice is based on.
type OptimizeRequest struct {
	VideoID       string         `json:"video_id"`
	Metrics       map[string]any `json:"metrics"`
	AudienceData  map[string]any `json:"audience_data"`
	VideoMetadata map[string]any `json:"video_metadata"`
}

// KeywordRequest asks how keywords perform for a video.
type KeywordRequest struct {
	VideoID  string   `json:"video_id"`
	Keywords []string `json:"keywords"`
}

// ABTestRequest asks for experiments to run on a video.
type ABTestRequest struct {
	VideoID        string         `json:"video_id"`
	CurrentMetrics map[string]any `json:"current_metrics"`
}

// Analytics reports video performance and suggests improvements.
type Analytics struct {
	tk  Toolkit
	log *logging.Logger
}

// NewAnalytics builds the agent. Only Optimize needs the completion API.
func NewAnalytics(tk Toolkit) (*Analytics, error) {
	return &Analytics{tk: tk, log: tk.logger(domain.AgentAnalytics)}, nil
}

func requireVideoID(id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.Invalid("video_id", "must not be empty")
	}
	return nil
}

func checkDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		return domain.Invalid(field, "must be YYYY-MM-DD, got %q", value)
	}
	return nil
}

// Performance returns live public statistics for the video. Any failure of
// the live call yields MockMetrics tagged with the reason.
func (a *Analytics) Performance(ctx context.Context, req PerformanceRequest) (domain.Sourced[map[string]any], error) {
	var zero domain.Sourced[map[string]any]
	if err := requireVideoID(req.VideoID); err != nil {
		return zero, err
	}
	if err := checkDate("start_date", req.StartDate); err != nil {
		return zero, err
	}
	if err := checkDate("end_date", req.EndDate); err != nil {
		return zero, err
	}

	result := a.performance(ctx, req.VideoID)
	result.Value = selectMetrics(result.Value, req.Metrics)
	return result, nil
}

func (a *Analytics) performance(ctx context.Context, videoID string) domain.Sourced[map[string]any] {
	if err := a.tk.require(DepYouTube); err != nil {
		a.log.Warn().Err(err).Msg("youtube unavailable, returning mock metrics")
		return domain.Mock(MockMetrics(), a.tk.unavailableReason(DepYouTube))
	}

	stats, err := a.tk.YouTube.VideoStatistics(ctx, videoID)
	if err != nil {
		a.log.Warn().Err(err).Str("videoId", videoID).Msg("live statistics failed, returning mock metrics")
		return domain.Mock(MockMetrics(), err.Error())
	}

	return domain.Live(map[string]any{
		"title":    stats.Title,
		"views":    stats.ViewCount,
		"likes":    stats.LikeCount,
		"comments": stats.CommentCount,
	})
}

// selectMetrics keeps only the comma-separated names in filter. An empty
// filter keeps everything.
func selectMetrics(m map[string]any, filter string) map[string]any {
	if strings.TrimSpace(filter) == "" {
		return m
	}
	out := map[string]any{}
	for _, name := range strings.Split(filter, ",") {
		name = strings.TrimSpace(name)
		if v, ok := m[name]; ok {
			out[name] = v
		}
	}
	return out
}

// Audience returns audience insights. The payload is a placeholder.
func (a *Analytics) Audience(ctx context.Context, videoID string) (domain.Sourced[map[string]any], error) {
	if err := requireVideoID(videoID); err != nil {
		return domain.Sourced[map[string]any]{}, err
	}
	return domain.Mock(MockAudience(), "audience analytics not integrated"), nil
}

// Optimize asks the completion API for advice from the supplied data.
func (a *Analytics) Optimize(ctx context.Context, req OptimizeRequest) (string, error) {
	if err := a.tk.require(DepLLM); err != nil {
		return "", err
	}
	return generate(ctx, a.tk.LLM, a.log, "optimize", optimizePrompt(req.Metrics, req.AudienceData, req.VideoMetadata))
}

// KeywordPerformance scores each keyword between 0.1 and 0.95. Scores are
// derived from a hash of the video and keyword, so they are stable but
// carry no information; the result is tagged as mock.
func (a *Analytics) KeywordPerformance(req KeywordRequest) (domain.Sourced[map[string]float64], error) {
	if err := requireVideoID(req.VideoID); err != nil {
		return domain.Sourced[map[string]float64]{}, err
	}
	out := make(map[string]float64, len(req.Keywords))
	for _, kw := range req.Keywords {
		out[kw] = keywordScore(req.VideoID, kw)
	}
	return domain.Mock(out, "keyword analytics not integrated"), nil
}

func keywordScore(videoID, keyword string) float64 {
	h := fnv.New32a()
	h.Write([]byte(videoID))
	h.Write([]byte{0})
	h.Write([]byte(keyword))
	frac := float64(h.Sum32()%1000) / 999
	return math.Round((0.1+0.85*frac)*100) / 100
}

// ABTestSuggestions proposes experiments ordered by priority, using the
// click-through and retention figures when present.
func (a *Analytics) ABTestSuggestions(req ABTestRequest) (domain.Sourced[[]map[string]string], error) {
	if err := requireVideoID(req.VideoID); err != nil {
		return domain.Sourced[[]map[string]string]{}, err
	}

	ctr, hasCTR := number(req.CurrentMetrics, "ctr")
	retention, hasRetention := number(req.CurrentMetrics, "avg_view_percentage")

	thumbPriority := "medium"
	if hasCTR && ctr < 0.05 {
		thumbPriority = "high"
	}

	out := []map[string]string{
		{
			"element":   "thumbnail",
			"variant_a": "当前缩略图",
			"variant_b": "人物特写加大号标题文字",
			"metric":    "ctr",
			"priority":  thumbPriority,
		},
		{
			"element":   "title",
			"variant_a": "当前标题",
			"variant_b": "以问题开头并包含核心关键词的标题",
			"metric":    "ctr",
			"priority":  "medium",
		},
	}
	if hasRetention && retention < 0.5 {
		out = append(out, map[string]string{
			"element":   "intro",
			"variant_a": "当前开场",
			"variant_b": "前15秒直接抛出核心结论",
			"metric":    "avg_view_percentage",
			"priority":  "high",
		})
	}
	return domain.Mock(out, "experiment planning not integrated"), nil
}

func number(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
