// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatLevel formats a character level. Zero is shown as "-".
func FormatLevel(level int) string {
	if level <= 0 {
		return "-"
	}
	return strconv.Itoa(level)
}

// FormatAverage formats a mean with one decimal.
func FormatAverage(f float64) string {
	return humanize.FormatFloat("#,###.#", f)
}

// FormatPercent formats a bonus that is already a percentage, e.g. 22 -> "22%".
func FormatPercent(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64) + "%"
}

// FormatBytes formats a file size, e.g. 82854982 -> "83 MB".
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// FormatAge formats a timestamp relative to now, e.g. "3 minutes ago".
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// FormatRatio formats "n/total" with the share in parentheses.
func FormatRatio(n, total int) string {
	if total <= 0 {
		return fmt.Sprintf("%d/0", n)
	}
	return fmt.Sprintf("%d/%d (%.0f%%)", n, total, float64(n)/float64(total)*100)
}
