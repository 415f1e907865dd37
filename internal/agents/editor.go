package agents

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/export"
	"github.com/soyeahso/tubecrew/internal/logging"
	"github.com/soyeahso/tubecrew/internal/stock"
)

// HintWords is the vocabulary keywords are extracted from.
var HintWords = []string{
	"中国", "企业", "工厂", "香港", "投资", "全球化", "制裁", "政策", "议员", "电动车", "芯片", "能源", "会议",
}

const (
	previewSubdir      = "pexels"
	maxPreviewFetches  = 4
	aiPromptPrefixLen  = 50
	defaultCSVFilename = "fcp_labels.csv"
)

// AssetHit is one stock video matched to a keyword.
type AssetHit struct {
	Keyword   string `json:"keyword"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

// EditorResult is the asset recommendation for a script segment.
type EditorResult struct {
	Keywords      []string          `json:"keywords"`
	PexelsResults []AssetHit        `json:"pexels_results"`
	AIImagePrompt map[string]string `json:"ai_image_prompt"`
}

// ExportRequest asks for an editor result written as timeline labels.
type ExportRequest struct {
	Assets          EditorResult `json:"assets"`
	CSVPath         string       `json:"csv_path,omitempty"`
	SegmentDuration int          `json:"segment_duration,omitempty"`
}

// Editor recommends stock footage and image prompts for script segments.
type Editor struct {
	tk  Toolkit
	log *logging.Logger
}

// NewEditor never needs the completion API. Recommend requires the stock
// library.
func NewEditor(tk Toolkit) (*Editor, error) {
	return &Editor{tk: tk, log: tk.logger(domain.AgentEditor)}, nil
}

// ExtractKeywords returns the hint words that occur literally in text, in
// vocabulary order.
func ExtractKeywords(text string) []string {
	out := []string{}
	for _, w := range HintWords {
		if strings.Contains(text, w) {
			out = append(out, w)
		}
	}
	return out
}

// AIImagePrompt builds an image generation prompt from the first 50
// characters of text.
func AIImagePrompt(text string) map[string]string {
	return map[string]string{
		"prompt":          fmt.Sprintf("realistic political economic scene: %s...", truncateRunes(text, aiPromptPrefixLen)),
		"style":           "realism",
		"negative_prompt": "blurry, watermark, distorted, ugly, cartoon, sketch",
	}
}

// PreviewDir is where preview images are stored.
func (e *Editor) PreviewDir() string {
	return filepath.Join(e.tk.AssetsDir, previewSubdir)
}

// Recommend extracts keywords from the segment, searches stock footage for
// each and downloads the previews.
func (e *Editor) Recommend(ctx context.Context, segment string) (*EditorResult, error) {
	if strings.TrimSpace(segment) == "" {
		return nil, domain.Invalid("script_segment", "must not be empty")
	}
	if err := e.tk.require(DepStock); err != nil {
		return nil, err
	}

	keywords := ExtractKeywords(segment)

	type match struct {
		keyword string
		video   stock.Video
	}
	var matches []match
	for _, kw := range keywords {
		videos, err := e.tk.Stock.SearchVideos(ctx, kw, 0)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.log.Warn().Err(err).Str("keyword", kw).Msg("stock search failed, skipping keyword")
			continue
		}
		for _, v := range videos {
			matches = append(matches, match{keyword: kw, video: v})
		}
	}

	hits := make([]AssetHit, len(matches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxPreviewFetches)
	dir := e.PreviewDir()
	for i, m := range matches {
		hits[i] = AssetHit{Keyword: m.keyword, Title: m.video.URL}
		g.Go(func() error {
			path, err := e.tk.Stock.DownloadPreview(gctx, m.video, dir)
			if err != nil {
				e.log.Warn().Err(err).Int64("videoId", m.video.ID).Msg("preview download failed")
				return nil
			}
			hits[i].Thumbnail = path
			return nil
		})
	}
	_ = g.Wait()

	e.log.Info().Strs("keywords", keywords).Int("assets", len(hits)).Msg("assets recommended")

	return &EditorResult{
		Keywords:      keywords,
		PexelsResults: hits,
		AIImagePrompt: AIImagePrompt(segment),
	}, nil
}

// ExportCSV writes the recommendation as timeline labels and returns the
// confirmation message. Relative paths resolve under the assets directory.
func (e *Editor) ExportCSV(req ExportRequest) (string, error) {
	name := req.CSVPath
	if name == "" {
		name = defaultCSVFilename
	}
	if !filepath.IsLocal(name) {
		return "", domain.Invalid("csv_path", "must be a relative path inside the assets directory, got %q", name)
	}
	path := filepath.Join(e.tk.AssetsDir, name)

	labels := make([]export.Label, 0, len(req.Assets.PexelsResults))
	for _, h := range req.Assets.PexelsResults {
		labels = append(labels, export.Label{Keyword: h.Keyword, Title: h.Title, Thumbnail: h.Thumbnail})
	}

	if err := export.WriteFCPLabelsFile(path, labels, req.SegmentDuration); err != nil {
		return "", fmt.Errorf("exporting labels: %w", err)
	}

	e.log.Info().Str("path", path).Int("rows", len(labels)).Msg("labels exported")
	return fmt.Sprintf("CSV exported successfully to %s", name), nil
}
