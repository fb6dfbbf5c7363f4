package matrix

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "affine row",
			in:   "0.953207  0.0293464       0.0196046       3.7271",
			want: " 0.953  0.029  0.020  3.727",
		},
		{
			name: "homogeneous row",
			in:   "0 0       0       1",
			want: " 0  0  0  1",
		},
		{
			name: "negative values keep sign",
			in:   "-0.5 -12.34567 7 -1",
			want: " -0.500  -12.346  7  -1",
		},
		{
			name: "signed zero drops sign",
			in:   "-0.0 0.0 +0 -0",
			want: " 0  0  0  0",
		},
		{
			name: "tiny negative rounds to zero",
			in:   "-0.0001 1 1 1",
			want: " 0  1  1  1",
		},
		{
			name: "leading and trailing dots",
			in:   ".5 5. 1.25 -.125",
			want: " 0.500  5  1.250  -0.125",
		},
		{
			name: "non numeric token",
			in:   "1 2 three 4",
			want: "1 2 three 4",
		},
		{
			name: "three tokens",
			in:   "1 2 3",
			want: "1 2 3",
		},
		{
			name: "five tokens",
			in:   "1 2 3 4 5",
			want: "1 2 3 4 5",
		},
		{
			name: "scientific notation is not decimal",
			in:   "1e3 2 3 4",
			want: "1e3 2 3 4",
		},
		{
			name: "nan is not decimal",
			in:   "NaN 2 3 4",
			want: "NaN 2 3 4",
		},
		{
			name: "value overflowing the rounding scale",
			in:   "1" + strings.Repeat("0", 306) + " 1 2 3",
			want: "1" + strings.Repeat("0", 306) + " 1 2 3",
		},
		{
			name: "integer beyond float precision",
			in:   "12345678901234567890 0 0 1",
			want: "12345678901234567890 0 0 1",
		},
		{
			name: "largest roundable magnitude",
			in:   "9007199254739 -9007199254739 0.0005 1",
			want: " 9007199254739  -9007199254739  0.001  1",
		},
		{
			name: "first unroundable magnitude",
			in:   "9007199254740 0 0 1",
			want: "9007199254740 0 0 1",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "log text",
			in:   "[NiftyReg WARNING] low overlap",
			want: "[NiftyReg WARNING] low overlap",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FormatLine(tt.in))
		})
	}
}

func TestParseRow(t *testing.T) {
	values, ok := parseRow("  -1.0\t2\t3\t.4  ")
	require.True(t, ok)
	require.Equal(t, []float64{-1, 2, 3, 0.4}, values)

	for _, line := range []string{"1 2 3", "a b c d", "1 2 3 1e999", "9007199254740 1 2 3"} {
		_, ok := parseRow(line)
		require.False(t, ok, line)
	}
}

func TestFormatLine_Rapid_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vals := rapid.SliceOfN(rapid.Float64Range(-1e6, 1e6), Columns, Columns).Draw(t, "vals")
		toks := make([]string, len(vals))
		for i, v := range vals {
			toks[i] = fmt.Sprintf("%.6f", v)
		}
		once := FormatLine(strings.Join(toks, "\t"))
		if _, ok := parseRow(once); !ok {
			t.Fatalf("formatted line %q is not a row", once)
		}
		if twice := FormatLine(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q", once, twice)
		}
	})
}

func TestFormatLine_Rapid_Shape(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vals := rapid.SliceOfN(rapid.IntRange(-100000, 100000), Columns, Columns).Draw(t, "vals")
		toks := make([]string, len(vals))
		for i, v := range vals {
			toks[i] = fmt.Sprintf("%d.%03d", v/1000, abs(v%1000))
		}
		out := FormatLine(strings.Join(toks, " "))
		if !strings.HasPrefix(out, " ") || strings.HasPrefix(out, "  ") {
			t.Fatalf("expected exactly one leading space: %q", out)
		}
		fields := strings.Split(out[1:], "  ")
		if len(fields) != Columns {
			t.Fatalf("expected %d fields separated by two spaces, got %q", Columns, out)
		}
		for _, f := range fields {
			if i := strings.IndexByte(f, '.'); i >= 0 && len(f)-i-1 != 3 {
				t.Fatalf("field %q does not have three decimals", f)
			}
		}
	})
}

func TestFormatLine_Rapid_NonRowsUnchanged(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		line := rapid.StringMatching(`[a-z \t]{0,40}`).Draw(t, "line")
		if got := FormatLine(line); got != line {
			t.Fatalf("non-row %q rewritten to %q", line, got)
		}
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
