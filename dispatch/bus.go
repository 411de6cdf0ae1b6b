// Package dispatch routes decided turns to the external collaborators that
// act on them.
//
// Exactly one handler owns each directive kind (tool router for dispatches,
// confirmation UI for confirms, speech/text layer for responds and
// clarifies); observers additionally see every delivered turn for journaling
// and audit. The bus performs delivery only - it never reorders, retries, or
// rewrites a response.
package dispatch

import (
	"context"
	"sync"

	"github.com/voxhall-labs/voicecore/decisioncore/directive"
	"github.com/voxhall-labs/voicecore/decisioncore/observability"
	"github.com/voxhall-labs/voicecore/decisioncore/turn"
)

// Handler consumes a decided turn for one directive kind.
type Handler func(ctx context.Context, resp *turn.Response) error

// Observer sees every delivered turn. Observer errors are logged, never
// propagated; audit must not block delivery.
type Observer func(ctx context.Context, resp *turn.Response)

// Bus is an in-memory directive delivery bus.
//
// Thread-safe; delivery of a single response is synchronous for the owning
// handler and concurrent for observers.
//
// Usage:
//
//	bus := NewBus(logger)
//	bus.RegisterHandler(directive.KindDispatch, toolRouterHandler)
//	bus.RegisterHandler(directive.KindConfirm, confirmUIHandler)
//	bus.Observe(journalObserver)
//
//	err := bus.Deliver(ctx, resp)
type Bus struct {
	handlers  map[directive.Kind]Handler
	observers []Observer
	logger    observability.Logger
	mu        sync.RWMutex
}

// NewBus creates an empty Bus.
func NewBus(logger observability.Logger) *Bus {
	return &Bus{
		handlers: make(map[directive.Kind]Handler),
		logger:   logger,
	}
}

// =============================================================================
// REGISTRATION
// =============================================================================

// RegisterHandler registers the handler owning a directive kind.
// Only one handler per kind is allowed.
func (b *Bus) RegisterHandler(kind directive.Kind, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.handlers[kind]; exists {
		return NewHandlerAlreadyRegisteredError(string(kind))
	}
	b.handlers[kind] = handler
	return nil
}

// Observe adds an observer that sees every delivered turn.
// Returns a removal function for cleanup.
func (b *Bus) Observe(observer Observer) func() {
	b.mu.Lock()
	b.observers = append(b.observers, observer)
	idx := len(b.observers) - 1
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if idx < len(b.observers) {
			b.observers[idx] = nil
		}
	}
}

// =============================================================================
// DELIVERY
// =============================================================================

// Deliver routes a decided turn to the handler owning its directive kind and
// fans it out to observers.
//
// Wait directives are delivered only when they carry a speech-cancel signal;
// a plain wait means "do nothing this turn" and has no collaborator.
func (b *Bus) Deliver(ctx context.Context, resp *turn.Response) error {
	kind := resp.Directive.Kind

	if kind == directive.KindWait && !resp.CancelSpeech {
		b.notifyObservers(ctx, resp)
		return nil
	}

	b.mu.RLock()
	handler, exists := b.handlers[kind]
	b.mu.RUnlock()

	if !exists {
		if b.logger != nil {
			b.logger.Error("no_handler_for_directive",
				"kind", string(kind),
				"idempotency_key", resp.IdempotencyKey,
			)
		}
		return NewNoHandlerError(string(kind))
	}

	err := handler(ctx, resp)
	if err != nil && b.logger != nil {
		b.logger.Error("delivery_failed",
			"kind", string(kind),
			"idempotency_key", resp.IdempotencyKey,
			"error", err.Error(),
		)
	}

	b.notifyObservers(ctx, resp)
	return err
}

// notifyObservers fans the response out to observers concurrently.
func (b *Bus) notifyObservers(ctx context.Context, resp *turn.Response) {
	b.mu.RLock()
	observers := make([]Observer, len(b.observers))
	copy(observers, b.observers)
	b.mu.RUnlock()

	var wg sync.WaitGroup
	for _, obs := range observers {
		if obs == nil {
			continue
		}
		wg.Add(1)
		go func(o Observer) {
			defer wg.Done()
			o(ctx, resp)
		}(obs)
	}
	wg.Wait()
}

// =============================================================================
// INTROSPECTION
// =============================================================================

// HasHandler checks if a handler is registered for a directive kind.
func (b *Bus) HasHandler(kind directive.Kind) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, exists := b.handlers[kind]
	return exists
}

// RegisteredKinds returns all directive kinds with a registered handler.
func (b *Bus) RegisteredKinds() []directive.Kind {
	b.mu.RLock()
	defer b.mu.RUnlock()

	kinds := make([]directive.Kind, 0, len(b.handlers))
	for k := range b.handlers {
		kinds = append(kinds, k)
	}
	return kinds
}

// Clear removes all handlers and observers. Useful for testing.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[directive.Kind]Handler)
	b.observers = nil
}
