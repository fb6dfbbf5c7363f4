// Package matrix realigns the 4-column numeric rows that NiftyReg prints
// when it dumps affine matrices to the console.
package matrix

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Columns is the number of tokens a line must have to be treated as a matrix row.
const Columns = 4

var decimal = regexp.MustCompile(`^[-+]?(?:\d+(?:\.\d*)?|\.\d+)$`)

// maxScaled bounds the magnitudes that can be rounded to three places:
// beyond it v*1000 no longer has integer precision.
const maxScaled = (1 << 53) / 1000

// FormatLine rewrites a matrix row with fixed precision.
// Lines that are not exactly four decimal numbers are returned unchanged,
// as are rows holding a value too large to round at three places.
// Values that round to a whole number at three places render as bare
// integers; everything else gets exactly three decimals.
func FormatLine(line string) string {
	values, ok := parseRow(line)
	if !ok {
		return line
	}

	fields := make([]string, 0, Columns)
	for _, v := range values {
		fields = append(fields, formatValue(v))
	}
	return " " + strings.Join(fields, "  ")
}

// parseRow returns the values of a line FormatLine can rewrite.
func parseRow(line string) ([]float64, bool) {
	tokens := strings.Fields(line)
	if len(tokens) != Columns {
		return nil, false
	}
	values := make([]float64, 0, Columns)
	for _, tok := range tokens {
		if !decimal.MatchString(tok) {
			return nil, false
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || math.Abs(v) >= maxScaled {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

func formatValue(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == math.Trunc(r) {
		if r == 0 {
			// covers -0
			return "0"
		}
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
	return fmt.Sprintf("%.3f", r)
}
