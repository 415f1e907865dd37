package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/soyeahso/tubecrew/internal/agents"
	"github.com/soyeahso/tubecrew/internal/config"
	"github.com/soyeahso/tubecrew/internal/hooks"
	"github.com/soyeahso/tubecrew/internal/logging"
	"github.com/soyeahso/tubecrew/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token-123"

// staticToolkits hands every request the same toolkit.
type staticToolkits struct {
	tk agents.Toolkit
}

func (s staticToolkits) Toolkit(context.Context) agents.Toolkit { return s.tk }

type testEnv struct {
	srv     *Server
	ts      *httptest.Server
	history *store.MemoryHistory
}

func newTestEnv(t *testing.T, tk agents.Toolkit, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := config.Defaults()
	cfg.Gateway.Auth.Mode = "token"
	cfg.Gateway.Auth.Token = testToken
	for _, m := range mutate {
		m(&cfg)
	}

	log := logging.New(nil, "silent")
	if tk.Log == nil {
		tk.Log = log
	}
	history := store.NewMemoryHistory(0)
	srv := New(cfg, log,
		WithToolkits(staticToolkits{tk: tk}),
		WithHistory(history),
		WithPaths(config.Paths{Assets: t.TempDir(), Credentials: t.TempDir()}),
	)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{srv: srv, ts: ts, history: history}
}

func (e *testEnv) post(t *testing.T, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(e.ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp, decodeMap(t, resp)
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(e.ts.URL + path)
	require.NoError(t, err)
	return resp, decodeMap(t, resp)
}

func decodeMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *testEnv) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(e.ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func connect(t *testing.T, conn *websocket.Conn, token string) Frame {
	t.Helper()
	var challenge Frame
	require.NoError(t, conn.ReadJSON(&challenge))
	assert.Equal(t, FrameTypeEvent, challenge.Type)
	assert.Equal(t, EventChallenge, challenge.Event)

	req, err := NewRequest("req-1", "connect", ConnectParams{
		MinProtocol: 1,
		MaxProtocol: 1,
		Client:      ClientInfo{ID: "test-client", Version: "1.0.0"},
		Auth:        &ConnectAuth{Token: token},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(req))

	var resp Frame
	require.NoError(t, conn.ReadJSON(&resp))
	return resp
}

// subscribe opens an authenticated feed connection and waits until the
// server has registered it.
func (e *testEnv) subscribe(t *testing.T) *websocket.Conn {
	t.Helper()
	conn := e.dial(t)
	resp := connect(t, conn, testToken)
	require.NotNil(t, resp.OK)
	require.True(t, *resp.OK)
	require.Eventually(t, func() bool { return e.srv.clients.Count() == 1 }, time.Second, 5*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn, event string) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var f Frame
		require.NoError(t, conn.ReadJSON(&f))
		if f.Type != FrameTypeEvent || f.Event != event {
			continue
		}
		assert.Positive(t, f.Seq)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(f.Payload, &payload))
		return payload
	}
}

// --- plain HTTP endpoints ---

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t, agents.Toolkit{})

	resp, body := env.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotContains(t, body, "version", "public health exposes status only")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestNotFoundEndpoint(t *testing.T) {
	env := newTestEnv(t, agents.Toolkit{})

	resp, body := env.get(t, "/nonexistent")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not Found", body["detail"])
}

func TestRootEndpoint(t *testing.T) {
	env := newTestEnv(t, agents.Toolkit{})

	resp, body := env.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "YouTube Multi-Agent System API is running", body["message"])
	assert.Equal(t, "1.0.0", body["version"])

	status, ok := body["config_status"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, status["is_valid"])
	assert.Contains(t, status["missing_keys"], "OPENROUTER_API_KEY")
	assert.Equal(t, true, status["assets_dir_exists"])

	endpoints, ok := body["endpoints"].([]any)
	require.True(t, ok)
	assert.Len(t, endpoints, len(endpointIndex))
	assert.Equal(t, "/strategy - 生成内容策略", endpoints[0])
}

func TestLockToggleSequence(t *testing.T) {
	env := newTestEnv(t, agents.Toolkit{})

	_, body := env.get(t, "/config/lock-status")
	assert.Equal(t, false, body["locked"])
	assert.Equal(t, "API is unlocked", body["message"])

	_, body = env.post(t, "/config/toggle-lock", "")
	assert.Equal(t, true, body["locked"])
	assert.Equal(t, "API is now locked", body["message"])

	_, body = env.get(t, "/config/lock-status")
	assert.Equal(t, true, body["locked"])
	assert.Equal(t, "API is locked", body["message"])

	_, body = env.post(t, "/config/toggle-lock", "")
	assert.Equal(t, false, body["locked"])
	assert.Equal(t, "API is now unlocked", body["message"])
}

func TestLockToggleWrongMethod(t *testing.T) {
	env := newTestEnv(t, agents.Toolkit{})

	resp, err := http.Get(env.ts.URL + "/config/toggle-lock")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.srv.Lock().Locked())
}

func TestHistoryInvalidLimit(t *testing.T) {
	env := newTestEnv(t, agents.Toolkit{})

	resp, body := env.get(t, "/history?limit=abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["detail"], "limit")
}

func TestHistoryWithoutStore(t *testing.T) {
	cfg := config.Defaults()
	srv := New(cfg, logging.New(nil, "silent"), WithToolkits(staticToolkits{}))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/history")
	require.NoError(t, err)
	body := decodeMap(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{}, body["runs"])
}

func TestCORSAllowsAnyOriginByDefault(t *testing.T) {
	env := newTestEnv(t, agents.Toolkit{})

	req, _ := http.NewRequest(http.MethodOptions, env.ts.URL+"/strategy", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

// --- events feed ---

func TestWebSocketHandshakeSuccess(t *testing.T) {
	env := newTestEnv(t, agents.Toolkit{})
	conn := env.dial(t)

	resp := connect(t, conn, testToken)
	assert.Equal(t, FrameTypeResponse, resp.Type)
	assert.Equal(t, "req-1", resp.ID)
	require.NotNil(t, resp.OK)
	assert.True(t, *resp.OK)

	var hello HelloOK
	require.NoError(t, json.Unmarshal(resp.Payload, &hello))
	assert.Equal(t, ProtocolVersion, hello.Protocol)
	assert.NotEmpty(t, hello.Server.ConnID)
	assert.Equal(t, []string{"health", "history.recent", "lock.status"}, hello.Features.Methods)
	assert.Contains(t, hello.Features.Events, hooks.EventAgentRunEnd)
	assert.Equal(t, maxFramePayload, hello.Policy.MaxPayload)
}

func TestWebSocketHandshakeWrongToken(t *testing.T) {
	env := newTestEnv(t, agents.Toolkit{})
	conn := env.dial(t)

	resp := connect(t, conn, "wrong-token")
	assert.Equal(t, FrameTypeResponse, resp.Type)
	require.NotNil(t, resp.OK)
	assert.False(t, *resp.OK)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "unauthorized", resp.Error.Code)
	assert.Equal(t, "token_mismatch", resp.Error.Message)
}

func TestWebSocketRateLimited(t *testing.T) {
	env := newTestEnv(t, agents.Toolkit{})
	for range authRateMaxFails {
		env.srv.authLimiter.recordFailure("127.0.0.1:1")
	}

	wsURL := "ws" + strings.TrimPrefix(env.ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestWebSocketRPC(t *testing.T) {
	env := newTestEnv(t, agents.Toolkit{})
	conn := env.subscribe(t)

	tests := []struct {
		method string
		check  func(t *testing.T, payload json.RawMessage)
	}{
		{"health", func(t *testing.T, payload json.RawMessage) {
			var h HealthResponse
			require.NoError(t, json.Unmarshal(payload, &h))
			assert.Equal(t, "ok", h.Status)
			assert.Equal(t, 1, h.Clients)
		}},
		{"lock.status", func(t *testing.T, payload json.RawMessage) {
			var ls LockStatus
			require.NoError(t, json.Unmarshal(payload, &ls))
			assert.False(t, ls.Locked)
			assert.Equal(t, "API is unlocked", ls.Message)
		}},
		{"history.recent", func(t *testing.T, payload json.RawMessage) {
			var hr HistoryResponse
			require.NoError(t, json.Unmarshal(payload, &hr))
			assert.Empty(t, hr.Runs)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req, _ := NewRequest("req-"+tt.method, tt.method, nil)
			require.NoError(t, conn.WriteJSON(req))

			var resp Frame
			require.NoError(t, conn.ReadJSON(&resp))
			assert.Equal(t, "req-"+tt.method, resp.ID)
			require.NotNil(t, resp.OK)
			require.True(t, *resp.OK)
			tt.check(t, resp.Payload)
		})
	}
}

func TestWebSocketUnknownMethod(t *testing.T) {
	env := newTestEnv(t, agents.Toolkit{})
	conn := env.subscribe(t)

	req, _ := NewRequest("req-x", "chat.send", nil)
	require.NoError(t, conn.WriteJSON(req))

	var resp Frame
	require.NoError(t, conn.ReadJSON(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "method_not_found", resp.Error.Code)
}

func TestLockToggleBroadcast(t *testing.T) {
	env := newTestEnv(t, agents.Toolkit{})
	conn := env.subscribe(t)

	env.post(t, "/config/toggle-lock", "")

	payload := readEvent(t, conn, hooks.EventLockToggled)
	assert.Equal(t, true, payload["locked"])
}

func TestServerStartStopsOnCancel(t *testing.T) {
	cfg := config.Defaults()
	cfg.Gateway.Port = 0
	srv := New(cfg, logging.New(nil, "silent"), WithToolkits(staticToolkits{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
