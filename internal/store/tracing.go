package store

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("vapt-store")

// TracedBackend wraps a Backend with a span per call
type TracedBackend struct {
	Backend
	name string
}

// NewTracedBackend wraps backend; name identifies the medium in span attributes
func NewTracedBackend(backend Backend, name string) *TracedBackend {
	return &TracedBackend{Backend: backend, name: name}
}

func (t *TracedBackend) start(ctx context.Context, op, key string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "store."+op,
		trace.WithAttributes(
			attribute.String("store.backend", t.name),
			attribute.String("store.collection", key),
		),
	)
}

func (t *TracedBackend) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := t.start(ctx, "Get", key)
	defer span.End()

	v, err := t.Backend.Get(ctx, key)
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.Bool("store.hit", err == nil),
		attribute.Int("store.bytes", len(v)),
	)
	return v, err
}

func (t *TracedBackend) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := t.start(ctx, "Set", key)
	defer span.End()

	span.SetAttributes(attribute.Int("store.bytes", len(value)))
	if err := t.Backend.Set(ctx, key, value); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (t *TracedBackend) SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	ctx, span := t.start(ctx, "SetIfAbsent", key)
	defer span.End()

	created, err := t.Backend.SetIfAbsent(ctx, key, value)
	if err != nil {
		recordError(span, err)
		return false, err
	}
	span.SetAttributes(attribute.Bool("store.created", created))
	return created, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
