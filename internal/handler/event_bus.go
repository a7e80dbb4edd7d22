// internal/handler/event_bus.go
package handler

import (
	"sync"

	"go.uber.org/zap"

	"scanner-service/internal/model"
)

// EventBus fans scanner events out to subscribers. It implements
// service.EventPublisher; the WebSocket handler is the main consumer.
type EventBus struct {
	subscribers map[string]chan *model.ScannerEvent
	events      chan *model.ScannerEvent
	mutex       sync.RWMutex
	logger      *zap.Logger
}

// NewEventBus creates a new event bus
func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		subscribers: make(map[string]chan *model.ScannerEvent),
		events:      make(chan *model.ScannerEvent, 1000),
		logger:      logger,
	}
}

// Start runs the distribution loop until Stop is called.
func (eb *EventBus) Start() {
	for event := range eb.events {
		eb.distributeEvent(event)
	}
}

// Stop closes the event channel, ending the distribution loop.
func (eb *EventBus) Stop() {
	close(eb.events)
}

// Publish enqueues an event without blocking. Events are dropped when
// the bus is full rather than stalling a programming session.
func (eb *EventBus) Publish(event *model.ScannerEvent) {
	select {
	case eb.events <- event:
	default:
		if eb.logger != nil {
			eb.logger.Warn("Event bus full, dropping event",
				zap.String("event_type", string(event.EventType)),
			)
		}
	}
}

// Subscribe registers a subscriber and returns its event channel.
func (eb *EventBus) Subscribe(id string) <-chan *model.ScannerEvent {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	subscriber := make(chan *model.ScannerEvent, 100)
	eb.subscribers[id] = subscriber
	return subscriber
}

// Unsubscribe removes a subscriber and closes its channel.
func (eb *EventBus) Unsubscribe(id string) {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	if subscriber, exists := eb.subscribers[id]; exists {
		delete(eb.subscribers, id)
		close(subscriber)
	}
}

// distributeEvent delivers an event to every subscriber. Slow
// subscribers are skipped, not waited for.
func (eb *EventBus) distributeEvent(event *model.ScannerEvent) {
	eb.mutex.RLock()
	defer eb.mutex.RUnlock()

	for _, subscriber := range eb.subscribers {
		select {
		case subscriber <- event:
		default:
		}
	}
}
