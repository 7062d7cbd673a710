package proto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mationai/spe/internal/world"
)

func TestEncodeStateUsesEmptyBodyArray(t *testing.T) {
	data, err := EncodeState(world.Snapshot{Tick: 4}, time.UnixMilli(1234))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["type"] != TypeState || decoded["tick"].(float64) != 4 || decoded["serverTime"].(float64) != 1234 {
		t.Fatalf("unexpected payload %s", data)
	}
	bodies, ok := decoded["bodies"].([]any)
	if !ok || len(bodies) != 0 {
		t.Fatalf("expected empty bodies array, got %v", decoded["bodies"])
	}
}

func TestEncodeStateCarriesBodies(t *testing.T) {
	snapshot := world.Snapshot{Tick: 1, Bodies: []world.BodySnapshot{{ID: "ball", Kind: "circle", X: 1, Y: 2, Radius: 3}}}
	data, err := EncodeState(snapshot, time.Now())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var msg StateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(msg.Bodies) != 1 || msg.Bodies[0] != snapshot.Bodies[0] {
		t.Fatalf("unexpected bodies %+v", msg.Bodies)
	}
}

func TestDecodeClientRejectsGarbage(t *testing.T) {
	if _, err := DecodeClient([]byte("{")); err == nil {
		t.Fatalf("expected malformed payload to fail")
	}
	msg, err := DecodeClient([]byte(`{"type":"heartbeat","sentAt":9}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != TypeHeartbeat || msg.SentAt != 9 {
		t.Fatalf("unexpected message %+v", msg)
	}
}
