package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanToolRun is the span covering one external tool process.
const SpanToolRun = "tool.run"

// Span attribute keys.
const (
	AttrToolName     = "tool.name"
	AttrToolPath     = "tool.path"
	AttrToolArgc     = "tool.argc"
	AttrInvocationID = "invocation.id"
	AttrExitCode     = "process.exit_code"
	AttrStdoutLines  = "output.stdout_lines"
	AttrStderrLines  = "output.stderr_lines"
	AttrWarnings     = "output.warnings"
	AttrErrors       = "output.errors"
	AttrLineText     = "line.text"
)

// Event names for classified stderr lines.
const (
	EventToolWarning = "tool.warning"
	EventToolError   = "tool.error"
)

// RecordLine attaches a warning or error line to span.
func RecordLine(span trace.Span, event, text string) {
	span.AddEvent(event, trace.WithAttributes(attribute.String(AttrLineText, text)))
}

// RecordFailure marks span as failed.
func RecordFailure(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
