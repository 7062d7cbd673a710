package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mationai/spe/logging"
)

func TestJSONWritesOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSON(&buf, 0)

	event := logging.Event{
		Type:     "simulation.collision_resolved",
		Tick:     3,
		Time:     time.Unix(0, 0).UTC(),
		Severity: logging.SeverityWarn,
		Actor:    logging.EntityRef{ID: "ball", Kind: logging.EntityKindBody},
		Payload:  map[string]any{"bounce": "left"},
	}
	if err := sink.Write(event); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := sink.Close(context.Background()); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded["severity"] != "warn" {
		t.Fatalf("expected severity name, got %v", decoded["severity"])
	}
	if decoded["tick"].(float64) != 3 {
		t.Fatalf("expected tick 3, got %v", decoded["tick"])
	}
	if _, ok := decoded["traceId"]; ok {
		t.Fatalf("expected empty trace id to be omitted")
	}
}

func TestConsoleFormatsActorAndTargets(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, logging.ConsoleConfig{})
	err := sink.Write(logging.Event{
		Type:     "simulation.collision_resolved",
		Tick:     9,
		Severity: logging.SeverityDebug,
		Actor:    logging.EntityRef{ID: "ball", Kind: logging.EntityKindBody},
		Targets:  []logging.EntityRef{{ID: "wall", Kind: logging.EntityKindBody}},
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"tick=9", "actor=body:ball", "severity=debug", "targets=body:wall"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestMemorySinkIsolatesStoredEvents(t *testing.T) {
	sink := NewMemorySink()
	extra := map[string]any{"k": 1}
	_ = sink.Write(logging.Event{Type: "x", Extra: extra})
	extra["k"] = 2

	events := sink.Events()
	if events[0].Extra["k"] != 1 {
		t.Fatalf("expected stored extra to be a copy")
	}
	sink.Reset()
	if len(sink.Events()) != 0 {
		t.Fatalf("expected reset to clear events")
	}
}

func TestBoundedMemorySinkDropsOldest(t *testing.T) {
	sink := NewBoundedMemorySink(2)
	for tick := uint64(1); tick <= 3; tick++ {
		_ = sink.Write(logging.Event{Type: "simulation.collision", Tick: tick})
	}
	_ = sink.Write(logging.Event{Type: "lifecycle.scene_loaded", Tick: 4})

	events := sink.Events()
	if len(events) != 2 || events[0].Tick != 3 || events[1].Tick != 4 {
		t.Fatalf("unexpected retained events %+v", events)
	}
	if sink.Dropped() != 2 {
		t.Fatalf("expected 2 dropped events, got %d", sink.Dropped())
	}
	if got := sink.OfType("simulation.collision"); len(got) != 1 || got[0].Tick != 3 {
		t.Fatalf("unexpected collision events %+v", got)
	}
}
