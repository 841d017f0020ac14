package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/nantech/inventory/internal/domain/shared"
)

// RecordingPublisher is a shared.EventPublisher that keeps every event.
type RecordingPublisher struct {
	mu        sync.Mutex
	published []shared.DomainEvent
	err       error
}

// NewRecordingPublisher creates an empty recording publisher.
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish records the events and returns the configured error.
// Events are recorded even when an error is returned.
func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, events...)
	return p.err
}

// Published returns a copy of the recorded events.
func (p *RecordingPublisher) Published() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.DomainEvent, len(p.published))
	copy(out, p.published)
	return out
}

// Types returns the recorded event types in publish order.
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.published))
	for _, e := range p.published {
		out = append(out, e.EventType())
	}
	return out
}

// Count returns the number of recorded events.
func (p *RecordingPublisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

// SetError sets the error to return from Publish.
func (p *RecordingPublisher) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Reset clears recorded events and the configured error.
func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = nil
	p.err = nil
}

// WaitForEventCount waits until the publisher has recorded at least n events.
func WaitForEventCount(p *RecordingPublisher, n int, timeout time.Duration) bool {
	return WaitForCondition(func() bool { return p.Count() >= n }, timeout, 10*time.Millisecond)
}

// TestEvent is a minimal domain event for tests.
type TestEvent struct {
	shared.BaseDomainEvent
	Data string
}

// NewTestEvent creates a test event for the given aggregate id.
func NewTestEvent(eventType string, aggregateID int64) *TestEvent {
	return &TestEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", aggregateID),
		Data:            "test-data",
	}
}
