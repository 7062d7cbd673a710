package ws

import (
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mationai/spe/internal/hub"
	"github.com/mationai/spe/internal/net/proto"
	"github.com/mationai/spe/internal/telemetry"
)

type HandlerConfig struct {
	Logger telemetry.Logger
}

// Handler upgrades requests to websocket subscriptions. Each subscriber gets
// the current state immediately and then one state message per tick.
type Handler struct {
	hub      *hub.Hub
	logger   telemetry.Logger
	upgrader websocket.Upgrader
}

func NewHandler(h *hub.Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		hub:      h,
		logger:   logger,
		upgrader: upgrader,
	}
}

func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	sub, snapshot := h.hub.Subscribe(conn)
	if err := h.hub.SendSnapshot(sub, snapshot); err != nil {
		h.logger.Printf("failed to send initial state to %s: %v", sub.ID(), err)
		h.hub.Unsubscribe(sub, "initial write failed")
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.hub.Unsubscribe(sub, "read closed")
			return
		}

		msg, err := proto.DecodeClient(payload)
		if err != nil {
			h.logger.Printf("discarding malformed message from %s: %v", sub.ID(), err)
			continue
		}

		switch msg.Type {
		case proto.TypeHeartbeat:
			ack := proto.HeartbeatMessage{
				Ver:        proto.Version,
				Type:       proto.TypeHeartbeat,
				ServerTime: time.Now().UnixMilli(),
				ClientTime: msg.SentAt,
				Tick:       h.hub.Tick(),
			}
			if err := h.hub.SendJSON(sub, ack); err != nil {
				h.hub.Unsubscribe(sub, "write failed")
				return
			}
		case proto.TypeSnapshotRequest:
			if err := h.hub.SendSnapshot(sub, h.hub.Snapshot()); err != nil {
				h.hub.Unsubscribe(sub, "write failed")
				return
			}
		default:
			h.logger.Printf("unknown message type %q from %s", msg.Type, sub.ID())
			reject := proto.ErrorMessage{Ver: proto.Version, Type: proto.TypeError, Message: "unknown message type"}
			if err := h.hub.SendJSON(sub, reject); err != nil {
				h.hub.Unsubscribe(sub, "write failed")
				return
			}
		}
	}
}
