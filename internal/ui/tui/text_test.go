package tui

import (
	"strings"
	"testing"
)

func TestTruncateCell(t *testing.T) {
	tests := map[string]struct {
		text  string
		width int
		want  string
	}{
		"fits": {
			text:  "short",
			width: 10,
			want:  "short",
		},
		"exact width": {
			text:  "exactly10!",
			width: 10,
			want:  "exactly10!",
		},
		"truncated with ellipsis": {
			text:  "a rather long description",
			width: 10,
			want:  "a rathe...",
		},
		"tiny width": {
			text:  "abcdef",
			width: 2,
			want:  "ab",
		},
		"zero width": {
			text:  "abc",
			width: 0,
			want:  "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := truncateCell(tt.text, tt.width); got != tt.want {
				t.Errorf("truncateCell(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four five", 9)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 9 {
			t.Errorf("line %q exceeds width 9", line)
		}
	}
	if strings.ReplaceAll(got, "\n", " ") != "one two three four five" {
		t.Errorf("wrapText lost words: %q", got)
	}
}

func TestWrapTextPreservesBlankLines(t *testing.T) {
	in := "# Heading\n\nparagraph text here"
	got := wrapText(in, 80)
	if got != in {
		t.Errorf("wrapText(%q) = %q, want unchanged", in, got)
	}
}

func TestWrapTextZeroWidth(t *testing.T) {
	if got := wrapText("anything", 0); got != "anything" {
		t.Errorf("wrapText with zero width = %q, want input unchanged", got)
	}
}
