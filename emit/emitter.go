package emit

import "context"

// Emitter receives and processes observability events from the navigator.
//
// Emitters enable pluggable observability backends: logging, distributed
// tracing, metrics, analytics. Implementations should be non-blocking,
// thread-safe (Emit may be called concurrently by independent navigation
// calls against different task files), and resilient — a misbehaving
// Emitter must never fail or slow down a navigation call.
type Emitter interface {
	// Emit sends a single observability event to the configured backend.
	// Emit should not block the caller and should not panic.
	Emit(event Event)

	// EmitBatch sends multiple events in one operation. Returns error only
	// on catastrophic failures (e.g. a misconfigured backend); individual
	// event failures should be logged internally, not returned.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush ensures all buffered events are sent to the backend. Safe to
	// call multiple times.
	Flush(ctx context.Context) error
}
