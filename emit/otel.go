package emit

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter implements Emitter by creating an OpenTelemetry span per
// event. Each event becomes an instantaneous span (start and end
// back-to-back): navigation events mark points in time, not durations —
// navigator.go's own span wrapping (see workflow.Navigator) covers the
// duration of an operation; this emitter gives a second, event-level trace
// of what happened during it.
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter creates an OTelEmitter from an OpenTelemetry tracer, e.g.
// otel.Tracer("navigator").
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

func (o *OTelEmitter) Emit(event Event) {
	_, span := o.tracer.Start(context.Background(), event.Msg)
	defer span.End()

	span.SetAttributes(
		attribute.String("task.id", event.TaskID),
		attribute.String("workflow.type", event.WorkflowType),
		attribute.String("task.current_step", event.CurrentStep),
	)
	if event.Terminal != "" {
		span.SetAttributes(attribute.String("task.terminal", event.Terminal))
	}
	for k, v := range event.Meta {
		span.SetAttributes(attribute.String("meta."+k, fmt.Sprintf("%v", v)))
	}
	if errVal, ok := event.Meta["error"]; ok {
		span.SetStatus(codes.Error, fmt.Sprintf("%v", errVal))
	}
}

// EmitBatch starts and ends one span per event, in order.
func (o *OTelEmitter) EmitBatch(_ context.Context, events []Event) error {
	for _, event := range events {
		o.Emit(event)
	}
	return nil
}

// Flush is a no-op: spans are ended synchronously by Emit. Flushing the
// underlying span processor/exporter is the SDK provider's responsibility
// (e.g. sdktrace.TracerProvider.ForceFlush), not this emitter's.
func (o *OTelEmitter) Flush(context.Context) error { return nil }
