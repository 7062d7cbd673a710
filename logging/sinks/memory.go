package sinks

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/mationai/spe/logging"
)

// MemorySink retains published events in memory, oldest first. A bounded
// sink drops its oldest event once the limit is reached.
type MemorySink struct {
	mu      sync.RWMutex
	limit   int
	dropped uint64
	events  []logging.Event
}

// NewMemorySink keeps every event.
func NewMemorySink() *MemorySink {
	return NewBoundedMemorySink(0)
}

// NewBoundedMemorySink keeps at most limit events. Zero or less means no limit.
func NewBoundedMemorySink(limit int) *MemorySink {
	return &MemorySink{limit: max(limit, 0)}
}

func (s *MemorySink) Write(event logging.Event) error {
	event.Targets = slices.Clone(event.Targets)
	event.Extra = maps.Clone(event.Extra)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit > 0 && len(s.events) == s.limit {
		s.events = slices.Delete(s.events, 0, 1)
		s.dropped++
	}
	s.events = append(s.events, event)
	return nil
}

func (s *MemorySink) Events() []logging.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}

// OfType returns the retained events of one type.
func (s *MemorySink) OfType(kind logging.EventType) []logging.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []logging.Event
	for _, event := range s.events {
		if event.Type == kind {
			out = append(out, event)
		}
	}
	return out
}

// Dropped counts events discarded to honour the limit.
func (s *MemorySink) Dropped() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dropped
}

func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.dropped = 0
}

func (s *MemorySink) Close(context.Context) error {
	return nil
}
