// Package batch reads texts to translate from a file and writes the
// translations back out.
package batch

import (
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/babel/internal/translation"
)

// Entry is one text to translate
type Entry struct {
	Line int    // 1-based line number in the batch file
	Text string // English source text
	// Target is the language named at the start of the line, empty when
	// the default target applies
	Target string
}

// ReadBatchFile reads texts from a file and returns the entries in order.
// Supports formats:
// - Text only: "Good morning" (translated to the default target)
// - With target: "Spanish = Good morning" or "es_XX = Good morning"
// Lines starting with '#' are comments. A prefix before '=' that is not a
// supported language is kept as part of the text.
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return Parse(string(content)), nil
}

// Parse parses batch file content.
func Parse(content string) []Entry {
	var entries []Entry

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry := Entry{Line: i + 1, Text: line}
		if prefix, text, ok := strings.Cut(line, "="); ok {
			prefix = strings.TrimSpace(prefix)
			if lang, err := translation.LookupLanguage(prefix); err == nil {
				entry.Target = lang.Name
				entry.Text = strings.TrimSpace(text)
			}
		}

		// "French =" with nothing to translate
		if entry.Text == "" {
			continue
		}
		entries = append(entries, entry)
	}

	return entries
}
