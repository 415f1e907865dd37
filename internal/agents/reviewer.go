package agents

import (
	"context"
	"strings"

	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/logging"
)

const defaultReviewStyle = "政经理性"

// ReviewRequest asks for a reviewed rewrite of a script.
type ReviewRequest struct {
	ScriptText string `json:"script_text"`
	Style      string `json:"style,omitempty"`
}

// Reviewer critiques a script and rewrites it from the critique.
type Reviewer struct {
	tk  Toolkit
	log *logging.Logger
}

func NewReviewer(tk Toolkit) (*Reviewer, error) {
	if err := tk.require(DepLLM); err != nil {
		return nil, err
	}
	return &Reviewer{tk: tk, log: tk.logger(domain.AgentReviewer)}, nil
}

// Review returns the critique of a script.
func (r *Reviewer) Review(ctx context.Context, script, style string) (string, error) {
	text, err := generate(ctx, r.tk.LLM, r.log, "review", reviewPrompt(script, style))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Rewrite applies a critique to a script.
func (r *Reviewer) Rewrite(ctx context.Context, script, review, style string) (string, error) {
	text, err := generate(ctx, r.tk.LLM, r.log, "rewrite", rewritePrompt(script, review, style))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Revise reviews then rewrites the script.
func (r *Reviewer) Revise(ctx context.Context, req ReviewRequest) (string, error) {
	if strings.TrimSpace(req.ScriptText) == "" {
		return "", domain.Invalid("script_text", "must not be empty")
	}
	style := req.Style
	if style == "" {
		style = defaultReviewStyle
	}

	review, err := r.Review(ctx, req.ScriptText, style)
	if err != nil {
		return "", err
	}
	r.log.Debug().Int("reviewLen", len(review)).Msg("review done, rewriting")

	return r.Rewrite(ctx, req.ScriptText, review, style)
}
