// Package runner spawns external tools and streams their output.
//
// Stdout and stderr are drained by two goroutines so neither pipe can fill
// while the other is being read. Every line is classified, realigned when it
// looks like a matrix row, and forwarded to a log.Sink as soon as it arrives.
// The runner reports the exit code but never treats it as a failure; that
// policy belongs to the caller.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/niftyregw/internal/log"
	"github.com/zjrosen/niftyregw/internal/tracing"
)

// maxLineSize bounds a single output line (64KB initial, 1MB max).
const maxLineSize = 1024 * 1024

// CommandFactoryFunc creates an exec.Cmd. Tests override it to run fixtures.
type CommandFactoryFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// SpawnError is returned when the process could not be started at all.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Result summarizes a finished process.
type Result struct {
	ExitCode    int
	Duration    time.Duration
	StdoutLines int
	StderrLines int
	Warnings    int
	Errors      int
}

// Success reports whether the process exited with status 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Option configures a Runner.
type Option func(*Runner)

// WithCommandFactory replaces exec.CommandContext.
func WithCommandFactory(fn CommandFactoryFunc) Option {
	return func(r *Runner) {
		r.commandFactory = fn
	}
}

// WithTracer records a span per invocation.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) {
		r.tracer = t
	}
}

// WithFallbackWriter sets where lines go when Run is given a nil sink.
// Defaults to os.Stdout.
func WithFallbackWriter(w io.Writer) Option {
	return func(r *Runner) {
		r.fallback = w
	}
}

// Runner executes tools. A single Runner may be shared across goroutines;
// each Run owns its own process and pipes.
type Runner struct {
	commandFactory CommandFactoryFunc
	tracer         trace.Tracer
	fallback       io.Writer
	fallbackMu     sync.Mutex
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		commandFactory: exec.CommandContext,
		tracer:         noop.NewTracerProvider().Tracer("runner"),
		fallback:       os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts path with the sanitized args and blocks until both output
// streams are closed and the process has exited.
//
// Lines go to sink when it is non-nil, otherwise to the fallback writer.
// A non-zero exit is reported in Result.ExitCode with a nil error. Errors
// are returned only when the process could not be started (*SpawnError),
// when output could not be read, or when ctx ended the process.
func (r *Runner) Run(ctx context.Context, path string, args []string, sink log.Sink) (Result, error) {
	argv := SanitizeArgs(args)

	ctx, span := r.tracer.Start(ctx, tracing.SpanToolRun, trace.WithAttributes(
		attribute.String(tracing.AttrToolName, filepath.Base(path)),
		attribute.String(tracing.AttrToolPath, path),
		attribute.Int(tracing.AttrToolArgc, len(argv)),
	))
	defer span.End()
	if id := tracing.InvocationIDFromContext(ctx); id != "" {
		span.SetAttributes(attribute.String(tracing.AttrInvocationID, id))
	}

	cmd := r.commandFactory(ctx, path, argv...)
	killProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return r.spawnFailed(span, path, fmt.Errorf("stdout pipe: %w", err))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return r.spawnFailed(span, path, fmt.Errorf("stderr pipe: %w", err))
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return r.spawnFailed(span, path, err)
	}

	var (
		wg       sync.WaitGroup
		outStats streamStats
		errStats streamStats
		outErr   error
		errErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		outStats, outErr = r.drain(stdout, Stdout, sink, span)
	}()
	go func() {
		defer wg.Done()
		errStats, errErr = r.drain(stderr, Stderr, sink, span)
	}()
	// Wait closes the pipes, so both readers must finish first.
	wg.Wait()
	waitErr := cmd.Wait()

	res := Result{
		Duration:    time.Since(start),
		StdoutLines: outStats.lines,
		StderrLines: errStats.lines,
		Warnings:    errStats.warnings,
		Errors:      errStats.errors,
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	span.SetAttributes(
		attribute.Int(tracing.AttrExitCode, res.ExitCode),
		attribute.Int(tracing.AttrStdoutLines, res.StdoutLines),
		attribute.Int(tracing.AttrStderrLines, res.StderrLines),
		attribute.Int(tracing.AttrWarnings, res.Warnings),
		attribute.Int(tracing.AttrErrors, res.Errors),
	)

	if ctxErr := ctx.Err(); ctxErr != nil {
		err := fmt.Errorf("%s interrupted: %w", path, ctxErr)
		tracing.RecordFailure(span, err)
		return res, err
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		err := fmt.Errorf("wait for %s: %w", path, waitErr)
		tracing.RecordFailure(span, err)
		return res, err
	}

	if err := errors.Join(outErr, errErr); err != nil {
		tracing.RecordFailure(span, err)
		return res, err
	}

	return res, nil
}

func (r *Runner) spawnFailed(span trace.Span, path string, err error) (Result, error) {
	spawnErr := &SpawnError{Path: path, Err: err}
	tracing.RecordFailure(span, spawnErr)
	return Result{ExitCode: -1}, spawnErr
}

type streamStats struct {
	lines    int
	warnings int
	errors   int
}

// drain reads src line by line until EOF. After a read error the rest of
// the stream is discarded so the child never blocks on a full pipe.
func (r *Runner) drain(src io.Reader, origin Origin, sink log.Sink, span trace.Span) (streamStats, error) {
	var stats streamStats

	scanner := bufio.NewScanner(src)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	for scanner.Scan() {
		line := Classify(origin, scanner.Text())
		stats.lines++
		switch line.Level {
		case log.LevelWarn:
			stats.warnings++
			tracing.RecordLine(span, tracing.EventToolWarning, line.Raw)
		case log.LevelError:
			stats.errors++
			tracing.RecordLine(span, tracing.EventToolError, line.Raw)
		}
		r.emit(sink, line)
	}

	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, src)
		return stats, fmt.Errorf("read %s: %w", origin, err)
	}
	return stats, nil
}

func (r *Runner) emit(sink log.Sink, line OutputLine) {
	if sink != nil {
		sink.Log(line.Level, line.Text)
		return
	}
	r.fallbackMu.Lock()
	defer r.fallbackMu.Unlock()
	_, _ = fmt.Fprintln(r.fallback, line.Text)
}
