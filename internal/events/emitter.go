package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// InMemoryEventEmitter dispatches events synchronously to the handlers
// registered for their type.
type InMemoryEventEmitter struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	logger   *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter creates a new instance of InMemoryEventEmitter.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		handlers: make(map[string][]EventHandler),
		logger:   logger.With("component", "in_memory_event_emitter"),
	}
}

// RegisterHandler subscribes handler to events of eventType.
func (e *InMemoryEventEmitter) RegisterHandler(eventType string, handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.handlers[eventType] = append(e.handlers[eventType], handler)
	e.logger.Debug("registered event handler",
		"event_type", eventType,
		"handler_count", len(e.handlers[eventType]))
}

// EmitEvent publishes the event to all handlers of its type.
// Every handler runs even if an earlier one fails; the first error is returned.
// A panicking handler is reported as an error.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	e.mu.RLock()
	handlers := make([]EventHandler, len(e.handlers[event.Type]))
	copy(handlers, e.handlers[event.Type])
	e.mu.RUnlock()

	if len(handlers) == 0 {
		e.logger.Debug("no handlers registered for event",
			"event_id", event.ID,
			"event_type", event.Type)
		return nil
	}

	var firstErr error
	for i, handler := range handlers {
		if err := safeHandle(ctx, handler, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func safeHandle(ctx context.Context, handler EventHandler, event *Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("event handler panicked: %v", p)
		}
	}()
	return handler.HandleEvent(ctx, event)
}
