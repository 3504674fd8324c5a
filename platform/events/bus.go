// Package events is the in-process publish/subscribe bus the lead service
// uses to report analyses to observers such as the metrics recorder.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lead_analyzer_backend/platform/logger"
)

// Event is anything published on the bus. Handlers subscribe by EventName.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the publication timestamp. Embed it in concrete events.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps an event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler reacts to one published event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus is what publishers and subscribers depend on.
//
// Publish never blocks on handlers and never reports their errors to the
// publisher: each handler runs on its own goroutine with a context that keeps
// the publisher's values but not its cancellation, so an observer still sees
// an analysis whose HTTP request has already returned.
type Bus interface {
	Publish(ctx context.Context, event Event)
	Subscribe(eventName string, handler Handler)
}

// InMemoryBus dispatches events to handlers in the same process. Handler
// errors and panics are logged, not propagated. Call Wait before shutdown to
// drain handlers still in flight.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	inflight sync.WaitGroup
	log      *logger.Logger
}

// NewInMemoryBus creates an empty bus. log may be nil.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers handler for eventName. Subscriptions made after a
// Publish call do not see that event.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish starts one goroutine per handler subscribed to event and returns
// immediately.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	detached := context.WithoutCancel(ctx)
	for _, h := range b.snapshot(event.EventName()) {
		b.inflight.Add(1)
		go func(h Handler) {
			defer b.inflight.Done()
			if err := b.dispatch(detached, h, event); err != nil && b.log != nil {
				b.log.WithContext(ctx).Error("event handler failed", "event", event.EventName(), "error", err)
			}
		}(h)
	}
}

// Wait blocks until every handler started by Publish has returned.
func (b *InMemoryBus) Wait() {
	b.inflight.Wait()
}

func (b *InMemoryBus) snapshot(eventName string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Handler(nil), b.handlers[eventName]...)
}

func (b *InMemoryBus) dispatch(ctx context.Context, h Handler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic for %s: %v", event.EventName(), r)
		}
	}()
	return h.Handle(ctx, event)
}

var _ Bus = (*InMemoryBus)(nil)
