package agents

import (
	"context"
	"strings"

	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/logging"
)

const defaultThumbnailStyle = "modern"

// ThumbnailRequest asks for a thumbnail design.
type ThumbnailRequest struct {
	Title         string `json:"title"`
	ScriptExcerpt string `json:"script_excerpt"`
	Style         string `json:"style,omitempty"`
}

// placeholderAssets stands in for asset suggestions until an image library
// is integrated.
var placeholderAssets = []string{
	"高对比度人物特写照片",
	"相关新闻截图或数据图表",
	"国旗或企业标识元素",
	"简洁的纯色或渐变背景",
}

// Thumbnail designs video thumbnails.
type Thumbnail struct {
	tk  Toolkit
	log *logging.Logger
}

func NewThumbnail(tk Toolkit) (*Thumbnail, error) {
	if err := tk.require(DepLLM); err != nil {
		return nil, err
	}
	return &Thumbnail{tk: tk, log: tk.logger(domain.AgentThumbnail)}, nil
}

// Design returns the design plan decoded from the completion, or
// {"raw": text} when the reply is not a JSON object.
func (t *Thumbnail) Design(ctx context.Context, req ThumbnailRequest) (map[string]any, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, domain.Invalid("title", "must not be empty")
	}
	style := req.Style
	if style == "" {
		style = defaultThumbnailStyle
	}

	text, err := generate(ctx, t.tk.LLM, t.log, "thumbnail", thumbnailPrompt(req.Title, req.ScriptExcerpt, style))
	if err != nil {
		return nil, err
	}
	return parseObject(text), nil
}

// AssetSuggestions lists image assets for a design. The list is a fixed
// placeholder and is tagged as mock.
func (t *Thumbnail) AssetSuggestions(design map[string]any) domain.Sourced[[]string] {
	out := make([]string, len(placeholderAssets))
	copy(out, placeholderAssets)
	return domain.Mock(out, "asset library not integrated")
}
