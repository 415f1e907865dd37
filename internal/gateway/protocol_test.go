package gateway

import (
	"encoding/json"
	"testing"

	"github.com/soyeahso/tubecrew/internal/hooks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameTypeConstants(t *testing.T) {
	assert.Equal(t, "req", FrameTypeRequest)
	assert.Equal(t, "res", FrameTypeResponse)
	assert.Equal(t, "event", FrameTypeEvent)
	assert.Equal(t, 1, ProtocolVersion)
}

func TestNewRequest(t *testing.T) {
	frame, err := NewRequest("req-2", "history.recent", historyParams{Agent: "strategy", Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, FrameTypeRequest, frame.Type)
	assert.Equal(t, "req-2", frame.ID)
	assert.Equal(t, "history.recent", frame.Method)

	var decoded historyParams
	require.NoError(t, json.Unmarshal(frame.Params, &decoded))
	assert.Equal(t, "strategy", decoded.Agent)
	assert.Equal(t, 5, decoded.Limit)
}

func TestNewRequest_Unmarshalable(t *testing.T) {
	_, err := NewRequest("req-1", "health", make(chan int))
	assert.Error(t, err)
}

func TestNewResponse(t *testing.T) {
	frame, err := NewResponse("req-1", lockStatus(true))
	require.NoError(t, err)

	assert.Equal(t, FrameTypeResponse, frame.Type)
	assert.Equal(t, "req-1", frame.ID)
	require.NotNil(t, frame.OK)
	assert.True(t, *frame.OK)
	assert.Nil(t, frame.Error)
	assert.JSONEq(t, `{"locked":true,"message":"API is locked"}`, string(frame.Payload))
}

func TestNewErrorResponse(t *testing.T) {
	frame := NewErrorResponse("req-1", ErrorShape{Code: "unknown_method", Message: "unknown method: chat.send"})

	data, err := json.Marshal(frame)
	require.NoError(t, err)

	var decoded Frame
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.OK)
	assert.False(t, *decoded.OK)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, "unknown_method", decoded.Error.Code)
	assert.NotContains(t, string(data), "details")
}

func TestNewEvent(t *testing.T) {
	frame, err := NewEvent(hooks.EventLockToggled, map[string]any{"locked": true}, 42)
	require.NoError(t, err)

	assert.Equal(t, FrameTypeEvent, frame.Type)
	assert.Equal(t, "lock_toggled", frame.Event)
	assert.Equal(t, int64(42), frame.Seq)
	assert.JSONEq(t, `{"locked":true}`, string(frame.Payload))
}

func TestConnectParams_OmitsNilAuth(t *testing.T) {
	params := ConnectParams{
		MinProtocol: 1,
		MaxProtocol: 1,
		Client:      ClientInfo{ID: "dashboard", Version: "1.0.0"},
	}

	data, err := json.Marshal(params)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"auth"`)
	assert.NotContains(t, string(data), `"displayName"`)
}

func TestFeedEvents(t *testing.T) {
	events := feedEvents()
	require.NotEmpty(t, events)
	assert.Equal(t, EventChallenge, events[0])
	assert.Contains(t, events, hooks.EventAgentRunEnd)
	assert.Contains(t, events, hooks.EventLockToggled)
	assert.Len(t, events, len(hooks.AllEvents)+1)
}

func TestHelloOK_Marshal(t *testing.T) {
	hello := HelloOK{
		Protocol: ProtocolVersion,
		Server:   ServerInfo{Version: "1.0.0", ConnID: "conn-1"},
		Features: Features{Methods: []string{"health"}, Events: feedEvents()},
		Policy:   ServerPolicy{MaxPayload: maxFramePayload},
	}

	data, err := json.Marshal(hello)
	require.NoError(t, err)

	var decoded HelloOK
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "conn-1", decoded.Server.ConnID)
	assert.Equal(t, maxFramePayload, decoded.Policy.MaxPayload)
	assert.NotContains(t, string(data), `"commit"`)
}
