package emit

import "context"

// NullEmitter discards every event. It is the default when a Navigator is
// constructed without an explicit Emitter: observability is additive, so
// its absence must never change navigation behavior.
type NullEmitter struct{}

// NewNullEmitter creates a NullEmitter.
func NewNullEmitter() *NullEmitter { return &NullEmitter{} }

func (n *NullEmitter) Emit(Event) {}

func (n *NullEmitter) EmitBatch(context.Context, []Event) error { return nil }

func (n *NullEmitter) Flush(context.Context) error { return nil }
