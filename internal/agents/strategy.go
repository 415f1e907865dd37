package agents

import (
	"context"
	"strings"
	"time"

	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/logging"
	"github.com/soyeahso/tubecrew/internal/search"
)

// Topic sources.
const (
	SourceNews    = "news"
	SourceYouTube = "youtube"
)

const (
	defaultRegion     = "US"
	strategyArticles  = 5
	strategyTrending  = 10
	noSuggestionsText = "未能生成选题建议"
)

// StrategyRequest asks for video topic suggestions.
type StrategyRequest struct {
	Topic      string    `json:"topic"`
	Source     string    `json:"source"`
	CategoryID string    `json:"category_id,omitempty"`
	Query      string    `json:"query,omitempty"`
	Region     string    `json:"region,omitempty"`
	TimeRange  TimeRange `json:"time_range,omitempty"`
}

// Validate checks the request and fills defaults.
func (r *StrategyRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return domain.Invalid("topic", "must not be empty")
	}
	if r.Source != SourceNews && r.Source != SourceYouTube {
		return domain.Invalid("source", "must be news or youtube, got %q", r.Source)
	}
	tr, err := ParseTimeRange(string(r.TimeRange))
	if err != nil {
		return err
	}
	r.TimeRange = tr
	if r.Region == "" {
		r.Region = defaultRegion
	}
	return nil
}

// Strategy proposes video topics from recent news or platform trends.
type Strategy struct {
	tk  Toolkit
	log *logging.Logger
}

// NewStrategy requires a completion client. Search and YouTube are optional
// enrichment.
func NewStrategy(tk Toolkit) (*Strategy, error) {
	if err := tk.require(DepLLM); err != nil {
		return nil, err
	}
	return &Strategy{tk: tk, log: tk.logger(domain.AgentStrategy)}, nil
}

// Recommend returns topic suggestions for the request.
func (s *Strategy) Recommend(ctx context.Context, req StrategyRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	start := time.Now()
	from, to := dateRange(s.tk.now(), req.TimeRange.Months())

	var prompt string
	switch req.Source {
	case SourceNews:
		articles := s.articles(ctx, req)
		if len(articles) > 0 {
			prompt = articlesPrompt(articles, req.TimeRange, from, to)
		} else {
			prompt = newsTrendPrompt(req.Topic, req.CategoryID, req.Query, from, to)
		}
	case SourceYouTube:
		prompt = youtubeTrendPrompt(req.Topic, req.CategoryID, req.Region, from, to, s.trending(ctx, req))
	}

	text, err := generate(ctx, s.tk.LLM, s.log, "strategy", prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", &domain.UpstreamError{Service: "completion", Body: noSuggestionsText}
	}

	s.log.Info().
		Str("source", req.Source).
		Str("timeRange", string(req.TimeRange)).
		Dur("duration", time.Since(start)).
		Msg("topic suggestions generated")

	return text, nil
}

// articles searches recent news for the topic. Failures fall back to the
// trend prompt.
func (s *Strategy) articles(ctx context.Context, req StrategyRequest) []search.Result {
	if err := s.tk.require(DepSearch); err != nil {
		s.log.Debug().Err(err).Msg("search unavailable, using news trend prompt")
		return nil
	}

	text := strings.TrimSpace(req.Topic + " " + req.Query)
	results, err := s.tk.Search.Search(ctx, search.Query{
		Text:       text,
		Count:      strategyArticles,
		MonthsBack: req.TimeRange.Months(),
		Kind:       search.KindNews,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("query", text).Msg("news search failed")
		return nil
	}
	return results
}

// trending lists popular video titles in the region. Failures yield none.
func (s *Strategy) trending(ctx context.Context, req StrategyRequest) []string {
	if err := s.tk.require(DepYouTube); err != nil {
		s.log.Debug().Err(err).Msg("youtube unavailable, skipping trending titles")
		return nil
	}

	titles, err := s.tk.YouTube.TrendingTitles(ctx, req.Region, req.CategoryID, strategyTrending)
	if err != nil {
		s.log.Warn().Err(err).Str("region", req.Region).Msg("trending lookup failed")
		return nil
	}
	return titles
}
