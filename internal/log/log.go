// Package log provides leveled logging for niftyregw.
// Every line is attributed to the executable that produced it, so wrapper
// diagnostics and external tool output can share one stream and still be
// told apart. There is no package-level logger: callers build a Logger and
// hand it (or a ToolSink derived from it) to whatever needs to log.
package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name (case-insensitive) into a Level.
// Both "warn" and "warning" are accepted.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelDebug, fmt.Errorf("unknown log level %q (want debug, info, warning or error)", name)
	}
}

// Sink consumes classified output lines.
// Implementations decide where the text ends up; the process runner only
// guarantees that each line is delivered once, in per-stream order.
type Sink interface {
	Log(level Level, text string)
}

// Option configures a Logger.
type Option func(*Logger)

// WithMinLevel drops entries below level.
func WithMinLevel(level Level) Option {
	return func(l *Logger) {
		l.minLevel = level
	}
}

// WithColor toggles lipgloss styling. Styling is also suppressed
// automatically when the writer is not a terminal.
func WithColor(enabled bool) Option {
	return func(l *Logger) {
		l.color = enabled
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.now = now
	}
}

// Logger writes attributed, leveled lines to a writer. Safe for concurrent use.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	minLevel Level
	color    bool
	now      func() time.Time
	styles   styles
}

type styles struct {
	timestamp  lipgloss.Style
	executable lipgloss.Style
	levels     map[Level]lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		timestamp:  r.NewStyle().Foreground(lipgloss.Color("2")),
		executable: r.NewStyle().Foreground(lipgloss.Color("6")),
		levels: map[Level]lipgloss.Style{
			LevelDebug: r.NewStyle().Foreground(lipgloss.Color("4")),
			LevelInfo:  r.NewStyle().Bold(true),
			LevelWarn:  r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
			LevelError: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

// New creates a Logger writing to w. The default minimum level is DEBUG.
func New(w io.Writer, opts ...Option) *Logger {
	l := &Logger{
		writer:   w,
		minLevel: LevelDebug,
		color:    true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.styles = newStyles(w)
	return l
}

// Enabled reports whether entries at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && level >= l.minLevel
}

// Write emits one entry attributed to executable.
// Format: 2006-01-02 15:04:05 | reg_aladin | INFO     | message key=value
func (l *Logger) Write(executable string, level Level, msg string, fields ...any) {
	if !l.Enabled(level) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now().Format("2006-01-02 15:04:05")
	label := fmt.Sprintf("%-8s", level)
	if l.color {
		ts = l.styles.timestamp.Render(ts)
		executable = l.styles.executable.Render(executable)
		if style, ok := l.styles.levels[level]; ok {
			label = style.Render(label)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s | %s | %s", ts, executable, label, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')

	_, _ = io.WriteString(l.writer, b.String())
}

// For returns a sink whose entries are attributed to executable.
func (l *Logger) For(executable string) ToolSink {
	return ToolSink{logger: l, executable: executable}
}

// ToolSink is a Logger bound to a fixed executable label.
// The zero value discards everything.
type ToolSink struct {
	logger     *Logger
	executable string
}

// Executable returns the label attached to every entry.
func (s ToolSink) Executable() string {
	return s.executable
}

// Log implements Sink.
func (s ToolSink) Log(level Level, text string) {
	if s.logger == nil {
		return
	}
	s.logger.Write(s.executable, level, text)
}

// Debug logs at debug level.
func (s ToolSink) Debug(msg string, fields ...any) {
	s.write(LevelDebug, msg, fields...)
}

// Info logs at info level.
func (s ToolSink) Info(msg string, fields ...any) {
	s.write(LevelInfo, msg, fields...)
}

// Warn logs at warning level.
func (s ToolSink) Warn(msg string, fields ...any) {
	s.write(LevelWarn, msg, fields...)
}

// Error logs at error level.
func (s ToolSink) Error(msg string, fields ...any) {
	s.write(LevelError, msg, fields...)
}

// ErrorErr logs an error with the error value.
func (s ToolSink) ErrorErr(msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	s.write(LevelError, msg, fields...)
}

func (s ToolSink) write(level Level, msg string, fields ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Write(s.executable, level, msg, fields...)
}
