package events

import (
	"context"
	"log/slog"
	"sync"
)

// MockPublisher records published events in memory for tests.
type MockPublisher struct {
	mu     sync.Mutex
	events []Event
	logger *slog.Logger
}

func NewMockPublisher(logger *slog.Logger) *MockPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockPublisher{logger: logger}
}

func (p *MockPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.logger.Debug("mock event recorded", "type", event.Type)
	return nil
}

func (p *MockPublisher) Close() error { return nil }

// GetPublishedEvents returns a copy of everything published so far.
func (p *MockPublisher) GetPublishedEvents() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

func (p *MockPublisher) ClearEvents() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
