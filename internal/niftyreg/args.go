package niftyreg

import (
	"strconv"
	"strings"
)

// Int returns a pointer to v, for optional integer options.
func Int(v int) *int { return &v }

// Float returns a pointer to v, for optional float options.
func Float(v float64) *float64 { return &v }

// Triplet is a three-component value such as a voxel size or kernel width.
type Triplet []float64

// FormatFloat renders v in the shortest form that parses back exactly.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// argv accumulates tool arguments, skipping unset options.
type argv []string

func (a *argv) add(tokens ...string) {
	*a = append(*a, tokens...)
}

func (a *argv) path(flag, v string) {
	if v != "" {
		a.add(flag, v)
	}
}

func (a *argv) str(flag, v string) {
	if v != "" {
		a.add(flag, v)
	}
}

func (a *argv) integer(flag string, v *int) {
	if v != nil {
		a.add(flag, strconv.Itoa(*v))
	}
}

func (a *argv) number(flag string, v *float64) {
	if v != nil {
		a.add(flag, FormatFloat(*v))
	}
}

func (a *argv) flag(name string, on bool) {
	if on {
		a.add(name)
	}
}

func (a *argv) triplet(flag string, v Triplet) {
	if v != nil {
		a.add(flag, FormatFloat(v[0]), FormatFloat(v[1]), FormatFloat(v[2]))
	}
}

// checkTriplet accepts nil (unset) or exactly three values.
func checkTriplet(field string, v Triplet) error {
	if v != nil && len(v) != 3 {
		return invalid(field, "needs exactly 3 values, got %d", len(v))
	}
	return nil
}

// FormatCommand renders a command the way a person would type it over
// several lines: one flag and its values per continuation line.
func FormatCommand(path string, args []string) string {
	var b strings.Builder
	b.WriteString(path)
	for i, arg := range args {
		if i == 0 || isFlag(arg) {
			b.WriteString(" \\\n  ")
		} else {
			b.WriteByte(' ')
		}
		b.WriteString(arg)
	}
	return b.String()
}

func isFlag(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' {
		return false
	}
	// negative numbers are values, not flags
	_, err := strconv.ParseFloat(arg, 64)
	return err != nil
}
