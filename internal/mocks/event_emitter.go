package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/uranai-api/internal/events"
)

// MockEventEmitter implements events.EventEmitter and records emitted events.
type MockEventEmitter struct {
	// EmitFn allows test cases to mock the EmitEvent behavior
	EmitFn func(ctx context.Context, event *events.Event) error

	// Err is returned when EmitFn is nil
	Err error

	mu      sync.Mutex
	emitted []*events.Event
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

// EmitEvent implements events.EventEmitter
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	m.mu.Lock()
	m.emitted = append(m.emitted, event)
	m.mu.Unlock()

	if m.EmitFn != nil {
		return m.EmitFn(ctx, event)
	}
	return m.Err
}

// Events returns a copy of the emitted events in order.
func (m *MockEventEmitter) Events() []*events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.Event(nil), m.emitted...)
}

// EventsOfType returns the emitted events with the given type.
func (m *MockEventEmitter) EventsOfType(eventType string) []*events.Event {
	var out []*events.Event
	for _, e := range m.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
