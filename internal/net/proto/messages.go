package proto

import (
	"encoding/json"
	"time"

	"github.com/mationai/spe/internal/world"
)

// Version tracks the wire-protocol revision expected by clients.
const Version = 1

// Outbound message types.
const (
	TypeState     = "state"
	TypeHeartbeat = "heartbeat"
	TypeError     = "error"
)

// Client message types.
const (
	TypeSnapshotRequest = "snapshot"
)

// StateMessage carries every body after a tick.
type StateMessage struct {
	Ver        int                  `json:"ver"`
	Type       string               `json:"type"`
	Tick       uint64               `json:"tick"`
	Bodies     []world.BodySnapshot `json:"bodies"`
	ServerTime int64                `json:"serverTime"`
}

// ClientMessage is the envelope for everything a subscriber may send.
type ClientMessage struct {
	Ver    int    `json:"ver,omitempty"`
	Type   string `json:"type"`
	SentAt int64  `json:"sentAt,omitempty"`
}

// HeartbeatMessage answers a client heartbeat.
type HeartbeatMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
	Tick       uint64 `json:"tick"`
}

// ErrorMessage reports a rejected client message.
type ErrorMessage struct {
	Ver     int    `json:"ver"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// EncodeState renders a snapshot as a state message. A nil body list is
// sent as an empty array.
func EncodeState(snapshot world.Snapshot, now time.Time) ([]byte, error) {
	bodies := snapshot.Bodies
	if bodies == nil {
		bodies = []world.BodySnapshot{}
	}
	return json.Marshal(StateMessage{
		Ver:        Version,
		Type:       TypeState,
		Tick:       snapshot.Tick,
		Bodies:     bodies,
		ServerTime: now.UnixMilli(),
	})
}

// DecodeClient parses a client envelope.
func DecodeClient(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, err
	}
	return msg, nil
}
