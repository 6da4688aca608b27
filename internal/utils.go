package internal

import (
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// FormatBytes renders a byte count the way the progress and log lines show it.
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// Preview shortens s to at most max runes for status lines.
func Preview(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
