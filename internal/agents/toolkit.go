// Package agents implements the content agents behind the HTTP façade.
//
// Agents are stateless: each is built from a Toolkit holding the clients it
// may call, performs its outbound calls synchronously, and keeps nothing
// between requests.
package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/llm"
	"github.com/soyeahso/tubecrew/internal/logging"
	"github.com/soyeahso/tubecrew/internal/search"
	"github.com/soyeahso/tubecrew/internal/stock"
	"github.com/soyeahso/tubecrew/internal/youtube"
)

// StockLibrary is the stock footage API used by the editor.
type StockLibrary interface {
	SearchVideos(ctx context.Context, query string, perPage int) ([]stock.Video, error)
	DownloadPreview(ctx context.Context, v stock.Video, dir string) (string, error)
}

// VideoPlatform is the video platform API used by publishing, analytics and
// strategy.
type VideoPlatform interface {
	VideoStatistics(ctx context.Context, videoID string) (*youtube.Stats, error)
	TrendingTitles(ctx context.Context, region, category string, maxResults int64) ([]string, error)
	Upload(ctx context.Context, req youtube.UploadRequest) (*youtube.UploadResult, error)
	AppendDescription(ctx context.Context, videoID, text string) error
}

// Dependency names an outbound client.
type Dependency string

const (
	DepLLM     Dependency = "completion"
	DepSearch  Dependency = "search"
	DepStock   Dependency = "stock"
	DepYouTube Dependency = "youtube"
)

// Toolkit carries the clients available to agents. A nil client means the
// dependency is unavailable; Unavailable records why.
type Toolkit struct {
	LLM       llm.Client
	Search    search.Provider
	Stock     StockLibrary
	YouTube   VideoPlatform
	AssetsDir string
	Now       func() time.Time
	Log       *logging.Logger

	Unavailable map[Dependency]error
}

func (tk Toolkit) has(d Dependency) bool {
	switch d {
	case DepLLM:
		return tk.LLM != nil
	case DepSearch:
		return tk.Search != nil
	case DepStock:
		return tk.Stock != nil
	case DepYouTube:
		return tk.YouTube != nil
	}
	return false
}

// require fails with a configuration error for the first missing dependency.
func (tk Toolkit) require(deps ...Dependency) error {
	for _, d := range deps {
		if tk.has(d) {
			continue
		}
		if err := tk.Unavailable[d]; err != nil {
			return err
		}
		return &domain.ConfigError{Key: string(d), Message: "client not configured"}
	}
	return nil
}

// unavailableReason explains a missing dependency for mock fallbacks.
func (tk Toolkit) unavailableReason(d Dependency) string {
	if err := tk.Unavailable[d]; err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%s client not configured", d)
}

func (tk Toolkit) now() time.Time {
	if tk.Now != nil {
		return tk.Now()
	}
	return time.Now()
}

func (tk Toolkit) logger(agent string) *logging.Logger {
	if tk.Log == nil {
		return logging.New(nil, "silent").Sub("agent." + agent)
	}
	return tk.Log.Sub("agent." + agent)
}

// generate sends one prompt and returns the completion text.
func generate(ctx context.Context, c llm.Client, log *logging.Logger, op, prompt string) (string, error) {
	start := time.Now()
	log.Debug().Str("op", op).Int("promptLen", len(prompt)).Msg("calling completion")

	text, err := llm.Generate(ctx, c, prompt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Debug().Str("op", op).Dur("duration", time.Since(start)).Msg("completion done")
	return text, nil
}

// truncateRunes keeps the first n characters of s.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
