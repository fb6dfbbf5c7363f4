package runner

import (
	"strings"

	"github.com/zjrosen/niftyregw/internal/log"
	"github.com/zjrosen/niftyregw/internal/matrix"
)

// Stderr prefixes NiftyReg uses for non-informational messages.
const (
	WarningPrefix = "[NiftyReg WARNING]"
	ErrorPrefix   = "[NiftyReg ERROR]"
)

// Origin identifies the stream a line was read from.
type Origin int

const (
	Stdout Origin = iota
	Stderr
)

func (o Origin) String() string {
	if o == Stderr {
		return "stderr"
	}
	return "stdout"
}

// OutputLine is one classified line of tool output.
type OutputLine struct {
	Origin Origin
	Raw    string
	Level  log.Level
	// Text is Raw after matrix-row realignment.
	Text string
}

// Classify assigns a level to raw and formats it for display.
// Stdout is always INFO. Stderr is WARNING or ERROR when it carries the
// matching NiftyReg prefix and INFO otherwise. The level is decided on the
// raw text, before formatting.
func Classify(origin Origin, raw string) OutputLine {
	level := log.LevelInfo
	if origin == Stderr {
		switch {
		case strings.HasPrefix(raw, WarningPrefix):
			level = log.LevelWarn
		case strings.HasPrefix(raw, ErrorPrefix):
			level = log.LevelError
		}
	}
	return OutputLine{
		Origin: origin,
		Raw:    raw,
		Level:  level,
		Text:   matrix.FormatLine(raw),
	}
}

// SanitizeArgs strips trailing backslash-newline continuation markers from
// each argument and drops arguments left empty. Idempotent.
func SanitizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimRight(arg, "\\\n")
		if arg == "" {
			continue
		}
		out = append(out, arg)
	}
	return out
}
