package gateway

import (
	"context"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/soyeahso/tubecrew/internal/agents"
	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/hooks"
)

// agentCall runs one agent operation. The bool reports whether the body
// carries placeholder data.
type agentCall[T any] func(ctx context.Context, tk agents.Toolkit, req T) (any, bool, error)

// boundCall is an agentCall with its request already decoded.
type boundCall func(ctx context.Context, tk agents.Toolkit) (any, bool, error)

// Operation is one agent endpoint: POST Path runs Agent's Name operation.
type Operation struct {
	Agent string
	Name  string
	Path  string
	bind  func(body io.Reader) (boundCall, error)
}

func operation[T any](agent, name, path string, call agentCall[T]) Operation {
	return Operation{
		Agent: agent,
		Name:  name,
		Path:  path,
		bind: func(body io.Reader) (boundCall, error) {
			var req T
			if body != nil {
				if err := decodeJSON(body, &req); err != nil {
					return nil, err
				}
			}
			return func(ctx context.Context, tk agents.Toolkit) (any, bool, error) {
				return call(ctx, tk, req)
			}, nil
		},
	}
}

var operations = []Operation{
	operation(domain.AgentStrategy, "recommend", "/strategy", strategyCall),
	operation(domain.AgentResearch, "report", "/research", researchCall),
	operation(domain.AgentScriptwriter, "write", "/script", scriptCall),
	operation(domain.AgentReviewer, "revise", "/review", reviewCall),
	operation(domain.AgentEditor, "recommend", "/editor", editorCall),
	operation(domain.AgentEditor, "export_csv", "/editor/export-csv", exportCall),
	operation(domain.AgentThumbnail, "design", "/thumbnail", thumbnailCall),
	operation(domain.AgentPublishing, "seo", "/publish/seo", seoCall),
	operation(domain.AgentPublishing, "schedule", "/publish/schedule", scheduleCall),
	operation(domain.AgentPublishing, "optimal_time", "/publish/optimal-time", optimalTimeCall),
	operation(domain.AgentPublishing, "cards_endscreen", "/publish/cards-endscreen", cardsCall),
	operation(domain.AgentAnalytics, "performance", "/analytics/performance", performanceCall),
	operation(domain.AgentAnalytics, "audience", "/analytics/audience", audienceCall),
	operation(domain.AgentAnalytics, "optimize", "/analytics/optimize", optimizeCall),
	operation(domain.AgentAnalytics, "keywords", "/analytics/keywords", keywordsCall),
	operation(domain.AgentAnalytics, "ab_test", "/analytics/ab-test", abTestCall),
}

// Operations lists every agent endpoint in route order.
func Operations() []Operation {
	return slices.Clone(operations)
}

// FindOperation looks up an operation by agent and name. An empty name
// matches the agent's first operation.
func FindOperation(agent, name string) (Operation, bool) {
	for _, op := range operations {
		if op.Agent == agent && (name == "" || op.Name == name) {
			return op, true
		}
	}
	return Operation{}, false
}

func (s *Server) registerAgentRoutes(mux *http.ServeMux) {
	for _, op := range operations {
		mux.HandleFunc("POST "+op.Path, func(w http.ResponseWriter, r *http.Request) {
			body, err := s.Invoke(r.Context(), op, r.Body)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, body)
		})
	}
}

// Invoke decodes a JSON request from body and runs op under the lock
// check, the request deadline and run recording. Decode failures and
// locked calls are not recorded.
func (s *Server) Invoke(ctx context.Context, op Operation, body io.Reader) (any, error) {
	if s.cfg.Lock.Enforce && s.lock.Locked() {
		return nil, domain.ErrLocked
	}
	call, err := op.bind(body)
	if err != nil {
		return nil, err
	}
	return s.runAgent(ctx, op.Agent, op.Name, func(ctx context.Context) (any, bool, error) {
		return call(ctx, s.toolkits.Toolkit(ctx))
	})
}

// runAgent records a run around fn and announces its start and end.
func (s *Server) runAgent(ctx context.Context, agent, op string, fn func(ctx context.Context) (any, bool, error)) (any, error) {
	if d := s.cfg.Gateway.Timeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	run := domain.Run{
		Agent:     agent,
		Operation: op,
		StartedAt: time.Now().UTC(),
		RequestID: RequestID(ctx),
	}
	log := s.log.With("agent", agent).With("op", op)

	s.emit(ctx, hooks.EventAgentRunStart, map[string]any{
		"agent":     agent,
		"operation": op,
		"requestId": run.RequestID,
	})

	body, mock, err := fn(ctx)

	run.DurationMs = time.Since(run.StartedAt).Milliseconds()
	run.Mock = mock
	run.Status = domain.RunOK
	if err != nil {
		run.Status = domain.RunError
		run.Error = err.Error()
	}

	if s.history != nil {
		saved, herr := s.history.Record(context.WithoutCancel(ctx), run)
		if herr != nil {
			log.Warn().Err(herr).Msg("failed to record run")
		} else {
			run = saved
		}
	}

	if err != nil {
		ev := log.Error()
		if domain.IsClientError(err) {
			ev = log.Info()
		}
		ev.Err(err).Int64("durationMs", run.DurationMs).Msg("agent call failed")
	} else {
		log.Debug().Int64("durationMs", run.DurationMs).Bool("mock", mock).Msg("agent call finished")
	}

	s.emit(ctx, hooks.EventAgentRunEnd, map[string]any{
		"runId":      run.ID,
		"agent":      agent,
		"operation":  op,
		"status":     run.Status,
		"error":      run.Error,
		"mock":       run.Mock,
		"durationMs": run.DurationMs,
		"requestId":  run.RequestID,
	})

	return body, err
}

func strategyCall(ctx context.Context, tk agents.Toolkit, req agents.StrategyRequest) (any, bool, error) {
	a, err := agents.NewStrategy(tk)
	if err != nil {
		return nil, false, err
	}
	text, err := a.Recommend(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return map[string]string{"recommendation": text}, false, nil
}

func researchCall(ctx context.Context, tk agents.Toolkit, req agents.ResearchRequest) (any, bool, error) {
	a, err := agents.NewResearch(tk)
	if err != nil {
		return nil, false, err
	}
	report, err := a.Report(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return map[string]string{"report": report}, false, nil
}

func scriptCall(ctx context.Context, tk agents.Toolkit, req agents.ScriptRequest) (any, bool, error) {
	a, err := agents.NewScriptwriter(tk)
	if err != nil {
		return nil, false, err
	}
	script, err := a.Write(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return map[string]string{"script": script}, false, nil
}

func reviewCall(ctx context.Context, tk agents.Toolkit, req agents.ReviewRequest) (any, bool, error) {
	a, err := agents.NewReviewer(tk)
	if err != nil {
		return nil, false, err
	}
	revised, err := a.Revise(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return map[string]string{"revised_script": revised}, false, nil
}

type editorBody struct {
	ScriptSegment string `json:"script_segment"`
}

func editorCall(ctx context.Context, tk agents.Toolkit, req editorBody) (any, bool, error) {
	a, err := agents.NewEditor(tk)
	if err != nil {
		return nil, false, err
	}
	res, err := a.Recommend(ctx, req.ScriptSegment)
	if err != nil {
		return nil, false, err
	}
	return res, false, nil
}

func exportCall(ctx context.Context, tk agents.Toolkit, req agents.ExportRequest) (any, bool, error) {
	a, err := agents.NewEditor(tk)
	if err != nil {
		return nil, false, err
	}
	msg, err := a.ExportCSV(req)
	if err != nil {
		return nil, false, err
	}
	return map[string]string{"message": msg}, false, nil
}

func thumbnailCall(ctx context.Context, tk agents.Toolkit, req agents.ThumbnailRequest) (any, bool, error) {
	a, err := agents.NewThumbnail(tk)
	if err != nil {
		return nil, false, err
	}
	design, err := a.Design(ctx, req)
	if err != nil {
		return nil, false, err
	}
	assets := a.AssetSuggestions(design)
	return map[string]any{
		"design":            design,
		"asset_suggestions": assets.Value,
		"assets_source":     assets.Source,
		"assets_reason":     assets.Reason,
	}, assets.IsMock(), nil
}

func seoCall(ctx context.Context, tk agents.Toolkit, req agents.SEORequest) (any, bool, error) {
	a, err := agents.NewPublishing(tk)
	if err != nil {
		return nil, false, err
	}
	meta, err := a.SEOMetadata(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return map[string]any{"metadata": meta}, false, nil
}

func scheduleCall(ctx context.Context, tk agents.Toolkit, req agents.ScheduleRequest) (any, bool, error) {
	a, err := agents.NewPublishing(tk)
	if err != nil {
		return nil, false, err
	}
	res, err := a.ScheduleUpload(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return res, false, nil
}

func optimalTimeCall(ctx context.Context, tk agents.Toolkit, req agents.OptimalTimeRequest) (any, bool, error) {
	a, err := agents.NewPublishing(tk)
	if err != nil {
		return nil, false, err
	}
	t := a.OptimalPublishTime(req)
	return map[string]any{
		"optimal_time": t.Value,
		"source":       t.Source,
		"reason":       t.Reason,
	}, t.IsMock(), nil
}

func cardsCall(ctx context.Context, tk agents.Toolkit, req agents.CardsRequest) (any, bool, error) {
	a, err := agents.NewPublishing(tk)
	if err != nil {
		return nil, false, err
	}
	res, err := a.SetupCardsAndEndscreen(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return res, false, nil
}

func performanceCall(ctx context.Context, tk agents.Toolkit, req agents.PerformanceRequest) (any, bool, error) {
	a, err := agents.NewAnalytics(tk)
	if err != nil {
		return nil, false, err
	}
	m, err := a.Performance(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return map[string]any{
		"metrics": m.Value,
		"source":  m.Source,
		"reason":  m.Reason,
	}, m.IsMock(), nil
}

type audienceBody struct {
	VideoID string `json:"video_id"`
}

func audienceCall(ctx context.Context, tk agents.Toolkit, req audienceBody) (any, bool, error) {
	a, err := agents.NewAnalytics(tk)
	if err != nil {
		return nil, false, err
	}
	insights, err := a.Audience(ctx, req.VideoID)
	if err != nil {
		return nil, false, err
	}
	return map[string]any{
		"insights": insights.Value,
		"source":   insights.Source,
		"reason":   insights.Reason,
	}, insights.IsMock(), nil
}

func optimizeCall(ctx context.Context, tk agents.Toolkit, req agents.OptimizeRequest) (any, bool, error) {
	a, err := agents.NewAnalytics(tk)
	if err != nil {
		return nil, false, err
	}
	text, err := a.Optimize(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return map[string]string{"suggestions": text}, false, nil
}

func keywordsCall(ctx context.Context, tk agents.Toolkit, req agents.KeywordRequest) (any, bool, error) {
	a, err := agents.NewAnalytics(tk)
	if err != nil {
		return nil, false, err
	}
	perf, err := a.KeywordPerformance(req)
	if err != nil {
		return nil, false, err
	}
	return map[string]any{
		"performance": perf.Value,
		"source":      perf.Source,
		"reason":      perf.Reason,
	}, perf.IsMock(), nil
}

func abTestCall(ctx context.Context, tk agents.Toolkit, req agents.ABTestRequest) (any, bool, error) {
	a, err := agents.NewAnalytics(tk)
	if err != nil {
		return nil, false, err
	}
	tests, err := a.ABTestSuggestions(req)
	if err != nil {
		return nil, false, err
	}
	return map[string]any{
		"suggestions": tests.Value,
		"source":      tests.Source,
		"reason":      tests.Reason,
	}, tests.IsMock(), nil
}
