package log

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
}

func newTestLogger(buf *bytes.Buffer, opts ...Option) *Logger {
	opts = append([]Option{WithColor(false), WithClock(fixedClock)}, opts...)
	return New(buf, opts...)
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "INFO", LevelInfo.String())
	require.Equal(t, "WARNING", LevelWarn.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"Warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"trace", LevelDebug, true},
		{"", LevelDebug, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_WriteFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Write("reg_aladin", LevelInfo, "hello")

	require.Equal(t, "2025-03-14 09:26:53 | reg_aladin | INFO     | hello\n", buf.String())
}

func TestLogger_WriteFields(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Write("niftyregw", LevelDebug, "resolved", "tool", "reg_f3d", "orphan")

	require.Equal(t,
		"2025-03-14 09:26:53 | niftyregw | DEBUG    | resolved tool=reg_f3d orphan=<missing>\n",
		buf.String())
}

func TestLogger_MinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, WithMinLevel(LevelWarn))

	l.Write("x", LevelDebug, "dropped")
	l.Write("x", LevelInfo, "dropped")
	l.Write("x", LevelWarn, "kept")
	l.Write("x", LevelError, "kept too")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "WARNING  | kept")
	require.Contains(t, lines[1], "ERROR    | kept too")
}

func TestLogger_ColorOnNonTerminalIsPlain(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WithClock(fixedClock))

	l.Write("reg_tools", LevelError, "boom")

	require.NotContains(t, buf.String(), "\x1b[", "bytes.Buffer is not a terminal, no escapes expected")
	require.Contains(t, buf.String(), "reg_tools | ERROR    | boom")
}

func TestToolSink_BindsExecutable(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	sink := l.For("reg_resample")
	require.Equal(t, "reg_resample", sink.Executable())

	sink.Log(LevelWarn, "[NiftyReg WARNING] low overlap")
	sink.Info("done", "exit_code", 0)

	out := buf.String()
	require.Contains(t, out, "| reg_resample | WARNING  | [NiftyReg WARNING] low overlap\n")
	require.Contains(t, out, "| reg_resample | INFO     | done exit_code=0\n")
}

func TestToolSink_ErrorErr(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.For("niftyregw").ErrorErr("cleanup failed", nil)

	require.Contains(t, buf.String(), "cleanup failed error=<nil>")
}

func TestToolSink_ZeroValueDiscards(t *testing.T) {
	var sink ToolSink
	require.NotPanics(t, func() {
		sink.Log(LevelError, "nobody listens")
		sink.Debug("still nobody")
	})
}

func TestLogger_ConcurrentWritesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink := l.For("worker")
			for j := 0; j < 50; j++ {
				sink.Info("line")
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 400)
	for _, line := range lines {
		require.Equal(t, "2025-03-14 09:26:53 | worker | INFO     | line", line)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Log(LevelInfo, "a")
	r.Log(LevelWarn, "b")
	r.Log(LevelInfo, "c")

	require.Equal(t, []Entry{{LevelInfo, "a"}, {LevelWarn, "b"}, {LevelInfo, "c"}}, r.Entries())
	require.Equal(t, []string{"a", "c"}, r.Texts(LevelInfo))
	require.Nil(t, r.Texts(LevelError))
}
