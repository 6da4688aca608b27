package batch

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Result is the outcome of translating one entry
type Result struct {
	Entry
	Language    string // resolved target language name
	Translation string
	Err         error
}

// WriteResults writes one tab-separated row per result: line, language,
// source text, translation and error. Failed rows have an empty
// translation.
func WriteResults(w io.Writer, results []Result) error {
	tw := csv.NewWriter(w)
	tw.Comma = '\t'

	if err := tw.Write([]string{"line", "language", "text", "translation", "error"}); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	for _, r := range results {
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		row := []string{fmt.Sprint(r.Line), r.Language, r.Text, r.Translation, errText}
		if err := tw.Write(row); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// Failed counts the results with an error
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
