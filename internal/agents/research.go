package agents

import (
	"context"
	"strings"
	"time"

	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/logging"
	"github.com/soyeahso/tubecrew/internal/search"
)

// NoResultsMessage is returned instead of a report when the search finds
// nothing usable.
const NoResultsMessage = "未找到相关内容。请尝试修改搜索关键词或放宽时间限制。"

// ResearchRequest asks for a report on a topic.
type ResearchRequest struct {
	Topic     string `json:"topic"`
	Source    string `json:"source,omitempty"`
	TimeRange int    `json:"time_range,omitempty"` // months back
	Count     int    `json:"-"`
}

// Validate checks the request and fills defaults.
func (r *ResearchRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return domain.Invalid("topic", "must not be empty")
	}
	if r.TimeRange < 0 {
		return domain.Invalid("time_range", "must not be negative")
	}
	if r.TimeRange == 0 {
		r.TimeRange = search.DefaultMonths
	}
	return nil
}

// Research summarizes search results into a structured report.
type Research struct {
	tk  Toolkit
	log *logging.Logger
}

// NewResearch requires completion and search clients.
func NewResearch(tk Toolkit) (*Research, error) {
	if err := tk.require(DepLLM, DepSearch); err != nil {
		return nil, err
	}
	return &Research{tk: tk, log: tk.logger(domain.AgentResearch)}, nil
}

// Report searches the topic and writes a report from the hits. With no
// hits it returns NoResultsMessage without calling the completion API.
func (r *Research) Report(ctx context.Context, req ResearchRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	start := time.Now()
	kind := search.KindWeb
	if req.Source == SourceNews {
		kind = search.KindNews
	}

	articles, err := r.tk.Search.Search(ctx, search.Query{
		Text:       req.Topic,
		Count:      req.Count,
		MonthsBack: req.TimeRange,
		Kind:       kind,
	})
	if err != nil {
		return "", err
	}
	if len(articles) == 0 {
		r.log.Info().Str("topic", req.Topic).Msg("no search results")
		return NoResultsMessage, nil
	}

	report, err := generate(ctx, r.tk.LLM, r.log, "research", researchPrompt(req.Topic, articles))
	if err != nil {
		return "", err
	}

	r.log.Info().
		Int("articles", len(articles)).
		Int("months", req.TimeRange).
		Dur("duration", time.Since(start)).
		Msg("research report generated")

	return report, nil
}
