package diff

import (
	"fmt"
	"strings"
)

// LineOrigin classifies a single line within a hunk
type LineOrigin int

const (
	LineContext LineOrigin = iota // line present in both files
	LineAdded                     // line present only in the new file
	LineDeleted                   // line present only in the old file
)

func (o LineOrigin) String() string {
	switch o {
	case LineContext:
		return " "
	case LineAdded:
		return "+"
	case LineDeleted:
		return "-"
	default:
		return "?"
	}
}

// Line is one line of a hunk. Text retains its terminating newline; the
// final line of a file may lack one, which keeps reconstruction byte-exact.
type Line struct {
	Origin LineOrigin
	Text   string
}

// Span locates a hunk in one side of the diff. Start is 1-based. A zero
// length span follows the unified diff convention: Start names the line
// before the gap (0 at the top of the file).
type Span struct {
	Start int
	Lines int
}

// End returns the 1-based line number just past the span.
func (s Span) End() int {
	if s.Lines == 0 {
		return s.Start + 1
	}
	return s.Start + s.Lines
}

// Hunk is one contiguous region of difference plus surrounding context.
// Lines at the hunk boundaries are context lines identical in both files
// (fewer than the configured context only at file edges).
type Hunk struct {
	OldSpan Span
	NewSpan Span
	Lines   []Line
}

// Header renders the unified diff hunk header, e.g. "@@ -2,3 +2,4 @@".
func (h *Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldSpan.Start, h.OldSpan.Lines, h.NewSpan.Start, h.NewSpan.Lines)
}

// OldLines returns the hunk's slice of the old file (context + deleted).
func (h *Hunk) OldLines() []string {
	out := make([]string, 0, h.OldSpan.Lines)
	for _, ln := range h.Lines {
		if ln.Origin != LineAdded {
			out = append(out, ln.Text)
		}
	}
	return out
}

// NewLines returns the hunk's slice of the new file (context + added).
func (h *Hunk) NewLines() []string {
	out := make([]string, 0, h.NewSpan.Lines)
	for _, ln := range h.Lines {
		if ln.Origin != LineDeleted {
			out = append(out, ln.Text)
		}
	}
	return out
}

// SplitLines splits text into lines that keep their terminating newline.
// The last line is returned without one when the text does not end in a
// newline. Empty text yields no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
