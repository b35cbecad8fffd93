package adf

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "single paragraph",
			raw:  `{"content":[{"type":"paragraph","content":[{"text":"Hi"}]}]}`,
			want: "Hi\n",
		},
		{
			name: "multiple paragraphs",
			raw:  `{"content":[{"type":"paragraph","content":[{"text":"first"}]},{"type":"paragraph","content":[{"text":"second"}]}]}`,
			want: "first\nsecond\n",
		},
		{
			name: "text runs concatenated",
			raw:  `{"content":[{"type":"paragraph","content":[{"text":"Hello "},{"type":"image"},{"text":"world"}]}]}`,
			want: "Hello world\n",
		},
		{
			name: "non-paragraph blocks skipped",
			raw:  `{"content":[{"type":"code_block","content":[{"text":"x := 1"}]},{"type":"paragraph","content":[{"text":"ok"}]}]}`,
			want: "ok\n",
		},
		{
			name: "empty paragraph adds no newline",
			raw:  `{"content":[{"type":"paragraph","content":[]},{"type":"paragraph","content":[{"text":"tail"}]}]}`,
			want: "tail\n",
		},
		{
			name: "not json",
			raw:  "not json",
			want: "",
		},
		{
			name: "empty document",
			raw:  `{"content":[]}`,
			want: "",
		},
		{
			name: "empty string",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlainText(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PlainText() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{
			name: "short text unchanged",
			in:   "hello",
			max:  10,
			want: "hello",
		},
		{
			name: "exact length unchanged",
			in:   "hello",
			max:  5,
			want: "hello",
		},
		{
			name: "whitespace trimmed first",
			in:   "  hello  ",
			max:  5,
			want: "hello",
		},
		{
			name: "long text cut with ellipsis",
			in:   "hello world",
			max:  8,
			want: "hello w…",
		},
		{
			name: "trim can avoid the cut",
			in:   "   abc   ",
			max:  3,
			want: "abc",
		},
		{
			name: "multibyte runes counted as one",
			in:   "ααααα",
			max:  4,
			want: "ααα…",
		},
		{
			name: "max of one keeps only the marker",
			in:   "hello",
			max:  1,
			want: "…",
		},
		{
			name: "empty input",
			in:   "",
			max:  5,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.max)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Truncate() mismatch (-want +got):\n%s", diff)
			}
			if n := utf8.RuneCountInString(got); n > tt.max {
				t.Errorf("result has %d runes, max is %d", n, tt.max)
			}
		})
	}
}

func TestTruncateNeverExceedsMax(t *testing.T) {
	inputs := []string{
		"",
		"a",
		strings.Repeat("x", 600),
		strings.Repeat("日本語", 200),
		"  padded with spaces  ",
	}
	for _, in := range inputs {
		for _, max := range []int{1, 2, 10, 256, 500} {
			got := Truncate(in, max)
			if n := utf8.RuneCountInString(got); n > max {
				t.Errorf("Truncate(%q, %d) has %d runes", in, max, n)
			}
			trimmed := strings.TrimSpace(in)
			if utf8.RuneCountInString(trimmed) <= max {
				if diff := cmp.Diff(trimmed, got); diff != "" {
					t.Errorf("short input must be returned trimmed (-want +got):\n%s", diff)
				}
			}
		}
	}
}
