package gateway

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/soyeahso/tubecrew/internal/config"
	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/hooks"
	"github.com/soyeahso/tubecrew/internal/store"
)

// APIVersion is the version reported by the root endpoint.
const APIVersion = "1.0.0"

// endpointIndex is the route summary served at GET /.
var endpointIndex = []string{
	"/strategy - 生成内容策略",
	"/research - 生成研究报告",
	"/script - 生成视频脚本",
	"/review - 审查和改写脚本",
	"/editor - 剪辑助手",
	"/config - 系统配置",
	"/thumbnail - 生成缩略图设计",
	"/publish - 视频发布管理",
	"/analytics - 数据分析与优化",
}

// registerHTTPRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerHTTPRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	mux.HandleFunc("GET /config/lock-status", s.handleLockStatus)
	mux.HandleFunc("POST /config/toggle-lock", s.handleToggleLock)

	s.registerAgentRoutes(mux)

	mux.HandleFunc("/", handleNotFound)
}

// RootResponse describes the service and its configuration health.
type RootResponse struct {
	Message      string                `json:"message"`
	Version      string                `json:"version"`
	ConfigStatus config.SettingsReport `json:"config_status"`
	Endpoints    []string              `json:"endpoints"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message:      "YouTube Multi-Agent System API is running",
		Version:      APIVersion,
		ConfigStatus: config.VerifySettings(s.cfg, s.paths),
		Endpoints:    endpointIndex,
	})
}

func (s *Server) handleLockStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, lockStatus(s.lock.Locked()))
}

func (s *Server) handleToggleLock(w http.ResponseWriter, r *http.Request) {
	locked := s.lock.Toggle()
	s.log.Info().Bool("locked", locked).Str("requestId", RequestID(r.Context())).Msg("API lock toggled")
	s.emit(r.Context(), hooks.EventLockToggled, map[string]any{"locked": locked})
	writeJSON(w, http.StatusOK, toggledStatus(locked))
}

// HistoryResponse lists recorded agent runs, newest first.
type HistoryResponse struct {
	Runs []domain.Run `json:"runs"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	agent := r.URL.Query().Get("agent")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, domain.Invalid("limit", "must be a non-negative integer"))
			return
		}
		limit = n
	}

	runs, err := s.recentRuns(r.Context(), agent, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Runs: runs})
}

func (s *Server) recentRuns(ctx context.Context, agent string, limit int) ([]domain.Run, error) {
	if s.history == nil {
		return []domain.Run{}, nil
	}
	runs, err := s.history.Recent(ctx, strings.TrimSpace(agent), limit)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []domain.Run{}
	}
	return runs, nil
}

// registerRPCHandlers sets up the methods available on the events feed.
func (s *Server) registerRPCHandlers() {
	s.Handle("health", s.rpcHealth)
	s.Handle("lock.status", s.rpcLockStatus)
	s.Handle("history.recent", s.rpcHistoryRecent)
}

func (s *Server) rpcHealth(rc *RequestContext) {
	rc.Respond(HealthResponse{
		Status:  "ok",
		Version: s.version,
		Clients: s.clients.Count(),
		Locked:  s.lock.Locked(),
	})
}

func (s *Server) rpcLockStatus(rc *RequestContext) {
	rc.Respond(lockStatus(s.lock.Locked()))
}

type historyParams struct {
	Agent string `json:"agent,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

func (s *Server) rpcHistoryRecent(rc *RequestContext) {
	var p historyParams
	if err := rc.Params(&p); err != nil {
		rc.RespondError("invalid_params", err.Error())
		return
	}
	if p.Limit <= 0 {
		p.Limit = store.DefaultLimit
	}

	runs, err := s.recentRuns(context.Background(), p.Agent, p.Limit)
	if err != nil {
		rc.RespondError("history_error", err.Error())
		return
	}
	rc.Respond(HistoryResponse{Runs: runs})
}
