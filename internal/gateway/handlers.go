package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/soyeahso/tubecrew/internal/domain"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 4 * 1024 * 1024

// HealthResponse is returned by health endpoints. The public HTTP endpoint
// only populates Status; the authenticated RPC handler populates all fields.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Clients int    `json:"clients,omitempty"`
	Locked  bool   `json:"locked,omitempty"`
}

// errorBody is the error envelope returned by every HTTP route.
type errorBody struct {
	Detail string `json:"detail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleNotFound returns a 404 for unknown routes.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{Detail: "Not Found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps an agent error onto an HTTP status and detail message.
// Configuration and validation problems are the caller's fault; anything
// else is reported as an internal error carrying the upstream text.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrLocked):
		return http.StatusLocked, err.Error()
	case domain.IsClientError(err):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error: " + err.Error()
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, detail := statusFor(err)
	writeJSON(w, status, errorBody{Detail: detail})
}

// decodeJSON reads a JSON object into target. An empty body leaves target
// untouched so required-field checks report the missing fields.
func decodeJSON(body io.Reader, target any) error {
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return domain.Invalid("body", "malformed JSON: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return domain.Invalid("body", "malformed JSON: unexpected data after the request object")
	}
	return nil
}

// RequestHandler processes an incoming RPC request frame from a client.
type RequestHandler func(ctx *RequestContext)

// RequestContext carries everything a handler needs.
type RequestContext struct {
	Client *Client
	Frame  Frame
	Server *Server
}

// Respond sends a success response.
func (rc *RequestContext) Respond(payload any) {
	if err := rc.Client.Respond(rc.Frame.ID, payload); err != nil {
		rc.Server.log.Warn().Err(err).Str("method", rc.Frame.Method).Msg("failed to send response")
	}
}

// RespondError sends an error response.
func (rc *RequestContext) RespondError(code, message string) {
	rc.Client.RespondError(rc.Frame.ID, ErrorShape{
		Code:    code,
		Message: message,
	})
}

// Params unmarshals the request params into the given target.
func (rc *RequestContext) Params(target any) error {
	if rc.Frame.Params == nil {
		return nil
	}
	return json.Unmarshal(rc.Frame.Params, target)
}
