package domain

import "time"

// Agent names as recorded in run history and events.
const (
	AgentStrategy     = "strategy"
	AgentResearch     = "research"
	AgentScriptwriter = "scriptwriter"
	AgentReviewer     = "reviewer"
	AgentEditor       = "editor"
	AgentThumbnail    = "thumbnail"
	AgentPublishing   = "publishing"
	AgentAnalytics    = "analytics"
)

// Run statuses.
const (
	RunOK    = "ok"
	RunError = "error"
)

// Run records a single agent invocation.
type Run struct {
	ID         string    `json:"id"`
	Agent      string    `json:"agent"`
	Operation  string    `json:"operation"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Mock       bool      `json:"mock,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMs int64     `json:"durationMs"`
	RequestID  string    `json:"requestId,omitempty"`
}
