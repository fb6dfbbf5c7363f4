package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.False(t, cfg.Enabled)
	require.Equal(t, ExporterFile, cfg.Exporter)
	require.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	require.Equal(t, 1.0, cfg.SampleRate)
	require.Equal(t, "niftyregw", cfg.ServiceName)
}

func TestValidExporter(t *testing.T) {
	for _, name := range []string{"", "none", "file", "stdout", "otlp"} {
		require.True(t, ValidExporter(name), name)
	}
	require.False(t, ValidExporter("jaeger"))
}

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(Config{})
	require.NoError(t, err)
	require.False(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), SpanToolRun)
	require.False(t, span.SpanContext().IsValid(), "noop spans carry no context")
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_FileExporterRequiresPath(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: ExporterFile})
	require.ErrorContains(t, err, "file_path required")
}

func TestNewProvider_UnknownExporter(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "zipkin"})
	require.ErrorContains(t, err, "unsupported exporter type: zipkin")
}

func TestNewProvider_NoneExporterStillCreatesSpans(t *testing.T) {
	p, err := NewProvider(Config{Enabled: true, Exporter: ExporterNone})
	require.NoError(t, err)
	require.True(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), SpanToolRun)
	require.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_FileExporterWritesSpans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "spans.jsonl")

	p, err := NewProvider(Config{
		Enabled:    true,
		Exporter:   ExporterFile,
		FilePath:   path,
		SampleRate: 1.0,
	})
	require.NoError(t, err)

	_, span := p.Tracer().Start(context.Background(), SpanToolRun)
	span.SetAttributes(attribute.String(AttrToolName, "reg_aladin"))
	RecordLine(span, EventToolWarning, "[NiftyReg WARNING] low overlap")
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())

	var rec SpanRecord
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
	require.Equal(t, SpanToolRun, rec.Name)
	require.Equal(t, "reg_aladin", rec.Attributes[AttrToolName])
	require.Len(t, rec.Events, 1)
	require.Equal(t, EventToolWarning, rec.Events[0].Name)
	require.Equal(t, "[NiftyReg WARNING] low overlap", rec.Events[0].Attributes[AttrLineText])
}

func TestRecordFailure(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	_, span := tp.Tracer("test").Start(context.Background(), SpanToolRun)
	RecordFailure(span, errors.New("spawn failed"))
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)

	r := NewSpanRecord(spans[0])
	require.Equal(t, "ERROR", r.Status)
	require.Equal(t, "spawn failed", r.StatusMsg)
	require.Len(t, r.Events, 1, "RecordError adds an exception event")
}

func TestInvocationIDContext(t *testing.T) {
	ctx := context.Background()
	require.Empty(t, InvocationIDFromContext(ctx))
	require.Equal(t, ctx, ContextWithInvocationID(ctx, ""))

	id := NewInvocationID()
	require.Len(t, id, 36)
	require.NotEqual(t, id, NewInvocationID())

	ctx = ContextWithInvocationID(ctx, id)
	require.Equal(t, id, InvocationIDFromContext(ctx))
}
