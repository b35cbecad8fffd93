// Package adf converts the platform's rich-document post bodies into
// plain-text previews.
package adf

import (
	"encoding/json"
	"strings"
)

type document struct {
	Content []block `json:"content"`
}

type block struct {
	Type    string `json:"type"`
	Content []run  `json:"content"`
}

type run struct {
	Text string `json:"text"`
}

// PlainText renders the top-level paragraphs of a rich document as
// plain text, one line per non-empty paragraph. Non-text runs and
// nested structure are ignored. Malformed input yields an empty
// string; callers fall back to the raw content field.
func PlainText(raw string) string {
	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return ""
	}

	var b strings.Builder
	for _, blk := range doc.Content {
		if blk.Type != "paragraph" {
			continue
		}
		var line strings.Builder
		for _, r := range blk.Content {
			line.WriteString(r.Text)
		}
		if line.Len() > 0 {
			b.WriteString(line.String())
			b.WriteString("\n")
		}
	}
	return b.String()
}

const marker = "…"

// Truncate trims surrounding whitespace and shortens the text to at
// most max runes, replacing the cut tail with an ellipsis. The result
// never exceeds max runes.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max < 1 {
		return ""
	}
	return string(r[:max-1]) + marker
}
