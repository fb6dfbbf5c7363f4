package history

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const maxArgsWidth = 60

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	failStyle   = cellStyle.Foreground(lipgloss.Color("1"))
)

// Table renders entries as a bordered table.
func Table(entries []Entry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("STARTED", "TOOL", "EXIT", "DURATION", "ARGS")

	for _, e := range entries {
		t.Row(
			e.StartedAt.Local().Format("2006-01-02 15:04:05"),
			e.Tool,
			strconv.Itoa(e.ExitCode),
			e.Duration.Round(time.Millisecond).String(),
			truncate(strings.Join(e.Args, " "), maxArgsWidth),
		)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if col == 2 && row >= 0 && row < len(entries) && entries[row].ExitCode != 0 {
			return failStyle
		}
		return cellStyle
	})

	return t.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
