package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mationai/spe/internal/hub"
	"github.com/mationai/spe/internal/net/proto"
	"github.com/mationai/spe/internal/scene"
	"github.com/mationai/spe/internal/sim"
)

func newTestHub(t *testing.T) *hub.Hub {
	t.Helper()
	h, err := hub.New(hub.DefaultConfig(), nil, scene.Default())
	if err != nil {
		t.Fatalf("failed to construct hub: %v", err)
	}
	return h
}

func dial(t *testing.T, h *hub.Hub) *websocket.Conn {
	t.Helper()
	handler := NewHandler(h, HandlerConfig{})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)

	conn, resp, err := websocket.DefaultDialer.Dial(websocketURL(t, srv.URL), nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, out any) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		t.Fatalf("failed to decode %s: %v", payload, err)
	}
}

func TestHandleSendsInitialState(t *testing.T) {
	h := newTestHub(t)
	conn := dial(t, h)

	var state proto.StateMessage
	readJSON(t, conn, &state)
	if state.Type != proto.TypeState {
		t.Fatalf("expected state message, got %q", state.Type)
	}
	if len(state.Bodies) != len(h.Snapshot().Bodies) {
		t.Fatalf("expected %d bodies, got %d", len(h.Snapshot().Bodies), len(state.Bodies))
	}
}

func TestHandleAnswersHeartbeat(t *testing.T) {
	h := newTestHub(t)
	conn := dial(t, h)

	var state proto.StateMessage
	readJSON(t, conn, &state)

	if err := conn.WriteJSON(proto.ClientMessage{Type: proto.TypeHeartbeat, SentAt: 42}); err != nil {
		t.Fatalf("failed to send heartbeat: %v", err)
	}
	var ack proto.HeartbeatMessage
	readJSON(t, conn, &ack)
	if ack.Type != proto.TypeHeartbeat || ack.ClientTime != 42 {
		t.Fatalf("unexpected heartbeat ack %+v", ack)
	}
}

func TestHandleStreamsTicksAndSnapshots(t *testing.T) {
	h := newTestHub(t)
	conn := dial(t, h)

	var initial proto.StateMessage
	readJSON(t, conn, &initial)

	if err := conn.WriteJSON(proto.ClientMessage{Type: proto.TypeSnapshotRequest}); err != nil {
		t.Fatalf("failed to request snapshot: %v", err)
	}
	var requested proto.StateMessage
	readJSON(t, conn, &requested)
	if requested.Tick != 0 {
		t.Fatalf("expected snapshot at tick 0, got %d", requested.Tick)
	}

	if err := h.Advance(sim.LoopTickContext{Tick: 1, Delta: 1.0 / 60}); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	var next proto.StateMessage
	readJSON(t, conn, &next)
	if next.Tick != 1 {
		t.Fatalf("expected tick 1, got %d", next.Tick)
	}
}

func TestHandleRejectsUnknownMessages(t *testing.T) {
	h := newTestHub(t)
	conn := dial(t, h)

	var initial proto.StateMessage
	readJSON(t, conn, &initial)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"teleport"}`)); err != nil {
		t.Fatalf("failed to send: %v", err)
	}
	var reject proto.ErrorMessage
	readJSON(t, conn, &reject)
	if reject.Type != proto.TypeError {
		t.Fatalf("expected error message, got %+v", reject)
	}
}

func websocketURL(t *testing.T, raw string) string {
	t.Helper()
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse server URL: %v", err)
	}
	parsed.Scheme = "ws"
	return parsed.String()
}
