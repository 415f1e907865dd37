package agents

import (
	"context"
	"strings"

	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/logging"
)

const defaultScriptStyle = "理性分析"

var durationRanges = map[string]string{
	"short":  "不超过10分钟",
	"medium": "10~15分钟",
	"long":   "15分钟以上",
}

// DurationRange maps a duration name to the spoken length used in prompts.
// Unknown names are treated as medium.
func DurationRange(duration string) string {
	if r, ok := durationRanges[duration]; ok {
		return r
	}
	return durationRanges["medium"]
}

// ScriptRequest asks for a narration script.
type ScriptRequest struct {
	TopicTitle      string `json:"topic_title"`
	ResearchSummary string `json:"research_summary"`
	Style           string `json:"style,omitempty"`
	Duration        string `json:"duration,omitempty"`
}

// Scriptwriter drafts narration scripts.
type Scriptwriter struct {
	tk  Toolkit
	log *logging.Logger
}

func NewScriptwriter(tk Toolkit) (*Scriptwriter, error) {
	if err := tk.require(DepLLM); err != nil {
		return nil, err
	}
	return &Scriptwriter{tk: tk, log: tk.logger(domain.AgentScriptwriter)}, nil
}

// Write drafts a script for the topic from the research summary.
func (s *Scriptwriter) Write(ctx context.Context, req ScriptRequest) (string, error) {
	if strings.TrimSpace(req.TopicTitle) == "" {
		return "", domain.Invalid("topic_title", "must not be empty")
	}
	style := req.Style
	if style == "" {
		style = defaultScriptStyle
	}

	prompt := scriptPrompt(req.TopicTitle, req.ResearchSummary, style, DurationRange(req.Duration))
	text, err := generate(ctx, s.tk.LLM, s.log, "script", prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
