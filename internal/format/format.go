// Package format renders large game numbers.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var suffixes = []string{"", "K", "M", "B", "T", "Qa", "Qi", "Sx", "Sp", "Oc", "No", "Dc"}

// Compact renders n with a thousands suffix, keeping at most two decimals:
// 999 → "999", 1500 → "1.5K", 1e9 → "1B"
func Compact(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	tier := 0
	for n >= 1000 && tier < len(suffixes)-1 {
		n /= 1000
		tier++
	}

	// Rounding can carry into the next tier (999.999K → 1M)
	rounded := math.Round(n*100) / 100
	if rounded >= 1000 && tier < len(suffixes)-1 {
		rounded /= 1000
		tier++
	}

	text := strconv.FormatFloat(rounded, 'f', 2, 64)
	text = strings.TrimRight(strings.TrimRight(text, "0"), ".")
	return sign + text + suffixes[tier]
}

// Int renders n with comma grouping: 1234567 → "1,234,567"
func Int(n int64) string {
	return humanize.Comma(n)
}

// Float renders n with comma grouping and at most two decimals
func Float(n float64) string {
	return humanize.CommafWithDigits(n, 2)
}
