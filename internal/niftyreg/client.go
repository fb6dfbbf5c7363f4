// Package niftyreg is the programmatic API for the NiftyReg command line tools.
//
// A Client resolves a tool, logs the command it is about to run, streams the
// tool's output through a log.Sink labelled with the tool name and records
// the run in history. Typed option structs render each tool's native flags;
// unset options are omitted so the tool's own defaults apply.
package niftyreg

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/zjrosen/niftyregw/internal/history"
	"github.com/zjrosen/niftyregw/internal/log"
	"github.com/zjrosen/niftyregw/internal/runner"
	"github.com/zjrosen/niftyregw/internal/tracing"
)

// WrapperLabel attributes log lines written by niftyregw itself.
const WrapperLabel = "niftyregw"

// Tool names.
const (
	ToolAladin    = "reg_aladin"
	ToolAverage   = "reg_average"
	ToolF3D       = "reg_f3d"
	ToolJacobian  = "reg_jacobian"
	ToolMeasure   = "reg_measure"
	ToolResample  = "reg_resample"
	ToolTools     = "reg_tools"
	ToolTransform = "reg_transform"
)

// Locator resolves a tool name to an executable path.
type Locator interface {
	Find(tool string) (string, error)
}

// Runner executes a resolved tool.
type Runner interface {
	Run(ctx context.Context, path string, args []string, sink log.Sink) (runner.Result, error)
}

// HistoryRecorder persists completed runs.
type HistoryRecorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Option configures a Client.
type Option func(*Client)

// WithHistory records every run that got as far as spawning.
func WithHistory(h HistoryRecorder) Option {
	return func(c *Client) {
		c.history = h
	}
}

// WithClock overrides the start-time source used for history.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Client runs NiftyReg tools.
type Client struct {
	locator Locator
	runner  Runner
	logger  *log.Logger
	history HistoryRecorder
	now     func() time.Time
}

// New creates a Client. A nil logger discards all output.
func New(locator Locator, r Runner, logger *log.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = log.New(io.Discard, log.WithColor(false))
	}
	c := &Client{
		locator: locator,
		runner:  r,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run invokes tool with raw arguments. A non-zero exit is returned as
// *ToolFailedError along with the result.
func (c *Client) Run(ctx context.Context, tool string, args ...string) (runner.Result, error) {
	res, err := c.invoke(ctx, tool, args, c.logger.For(tool))
	if err != nil {
		return res, err
	}
	if !res.Success() {
		return res, &ToolFailedError{Tool: tool, ExitCode: res.ExitCode}
	}
	return res, nil
}

// Help prints the tool's native help (tool -h) straight to stdout.
// The exit status is not checked, several tools exit non-zero after help.
func (c *Client) Help(ctx context.Context, tool string) (runner.Result, error) {
	return c.invoke(ctx, tool, []string{"-h"}, nil)
}

// Version prints the tool's native version (tool --version) straight to stdout.
func (c *Client) Version(ctx context.Context, tool string) (runner.Result, error) {
	return c.invoke(ctx, tool, []string{"--version"}, nil)
}

func (c *Client) invoke(ctx context.Context, tool string, args []string, sink log.Sink) (runner.Result, error) {
	path, err := c.locator.Find(tool)
	if err != nil {
		return runner.Result{ExitCode: -1}, err
	}

	argv := runner.SanitizeArgs(args)
	w := c.logger.For(WrapperLabel)
	w.Debug("The following command will be run:")
	w.Debug(FormatCommand(path, argv))

	id := tracing.NewInvocationID()
	ctx = tracing.ContextWithInvocationID(ctx, id)
	started := c.now()

	res, err := c.runner.Run(ctx, path, argv, sink)

	var spawnErr *runner.SpawnError
	if !errors.As(err, &spawnErr) {
		c.record(ctx, w, history.Entry{
			ID:        id,
			Tool:      tool,
			Args:      argv,
			Path:      path,
			ExitCode:  res.ExitCode,
			StartedAt: started,
			Duration:  res.Duration,
		})
	}
	return res, err
}

func (c *Client) record(ctx context.Context, w log.ToolSink, e history.Entry) {
	if c.history == nil {
		return
	}
	// a cancelled run is still worth recording
	if err := c.history.Record(context.WithoutCancel(ctx), e); err != nil {
		w.Warn("could not record run history", "tool", e.Tool, "error", err)
	}
}
