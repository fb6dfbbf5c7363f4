// Package tracing wires OpenTelemetry spans around external tool runs.
// Spans can be exported to a JSONL file, stdout or an OTLP collector.
package tracing

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const invocationIDKey contextKey = "invocation_id"

// NewInvocationID returns a fresh random id for one tool run.
func NewInvocationID() string {
	return uuid.NewString()
}

// ContextWithInvocationID stores id on ctx. An empty id returns ctx unchanged.
func ContextWithInvocationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, invocationIDKey, id)
}

// InvocationIDFromContext returns the id stored by ContextWithInvocationID, or "".
func InvocationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(invocationIDKey).(string)
	return id
}
