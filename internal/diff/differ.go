// Package diff turns pairs of text files into line-level edit scripts and
// groups those into hunks with configurable context.
package diff

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of an edit-script run.
type Op int

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
)

// Edit is one run of the edit script: a maximal sequence of lines that are
// all equal, all inserted, or all deleted.
type Edit struct {
	Op    Op
	Lines []string
}

// Lines computes a line-level edit script transforming oldText into newText.
// It runs diff-match-patch in line mode: each distinct line is mapped to a
// single rune so the character diff operates on whole lines, then the runs
// are mapped back. The result is deterministic for identical input.
func Lines(oldText, newText string) []Edit {
	if oldText == newText {
		if oldText == "" {
			return nil
		}
		return []Edit{{Op: OpEqual, Lines: SplitLines(oldText)}}
	}

	dmp := diffmatchpatch.New()
	oldChars, newChars, lineIndex := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(oldChars, newChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineIndex)

	edits := make([]Edit, 0, len(diffs))
	for _, d := range diffs {
		lines := SplitLines(d.Text)
		if len(lines) == 0 {
			continue
		}
		var op Op
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			op = OpEqual
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		}
		// The hunk builder assumes runs of one type never repeat back to back.
		if n := len(edits); n > 0 && edits[n-1].Op == op {
			edits[n-1].Lines = append(edits[n-1].Lines, lines...)
			continue
		}
		edits = append(edits, Edit{Op: op, Lines: lines})
	}
	return edits
}
