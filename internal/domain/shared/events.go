package shared

import (
	"sync"
	"time"
)

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// EventDispatcher dispatches domain events to handlers
type EventDispatcher interface {
	Dispatch(event DomainEvent) error
	Register(eventName string, handler EventHandler)
}

// EventHandler handles domain events
type EventHandler func(event DomainEvent) error

// InProcessDispatcher calls registered handlers synchronously, in
// registration order. The first handler error stops dispatch.
type InProcessDispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

// NewInProcessDispatcher creates an empty dispatcher
func NewInProcessDispatcher() *InProcessDispatcher {
	return &InProcessDispatcher{handlers: make(map[string][]EventHandler)}
}

// Register adds a handler for an event name
func (d *InProcessDispatcher) Register(eventName string, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventName] = append(d.handlers[eventName], handler)
}

// Dispatch delivers the event to its handlers
func (d *InProcessDispatcher) Dispatch(event DomainEvent) error {
	d.mu.RLock()
	handlers := append([]EventHandler(nil), d.handlers[event.EventName()]...)
	d.mu.RUnlock()

	for _, h := range handlers {
		if err := h(event); err != nil {
			return err
		}
	}
	return nil
}
