package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/diffpatch/diffpatch/internal/diff"
	"github.com/diffpatch/diffpatch/internal/tree"
	"github.com/diffpatch/diffpatch/internal/util"
)

var (
	headerColor  = color.New(color.FgWhite, color.Bold)
	hunkColor    = color.New(color.FgCyan)
	addedColor   = color.New(color.FgGreen)
	removedColor = color.New(color.FgRed)
	promptColor  = color.New(color.FgBlue, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// WriteFileHeader writes the --- / +++ header for a change.
func WriteFileHeader(w io.Writer, change *tree.FileChange) {
	switch change.Kind {
	case tree.ChangeAdded:
		headerColor.Fprintf(w, "--- /dev/null\n")
		headerColor.Fprintf(w, "+++ %s\n", change.Path)
	case tree.ChangeRemoved:
		headerColor.Fprintf(w, "--- %s\n", change.Path)
		headerColor.Fprintf(w, "+++ /dev/null\n")
	default:
		headerColor.Fprintf(w, "--- %s\n", change.Path)
		headerColor.Fprintf(w, "+++ %s\n", change.Path)
	}
}

// WriteHunk writes one colorized hunk, header line included.
func WriteHunk(w io.Writer, h *diff.Hunk) {
	hunkColor.Fprintf(w, "%s\n", h.Header())
	for _, ln := range h.Lines {
		writeDiffLine(w, ln.Origin, ln.Text)
	}
}

// WriteWholeFile writes the body shown for whole-file decisions: the full
// content as added or removed lines, or a binary notice.
func WriteWholeFile(w io.Writer, change *tree.FileChange) {
	if change.Binary {
		fmt.Fprintf(w, "Binary files differ (before %s, after %s)\n",
			util.FormatSize(int64(len(change.OldContent))),
			util.FormatSize(int64(len(change.NewContent))))
		return
	}
	switch change.Kind {
	case tree.ChangeAdded:
		for _, text := range diff.SplitLines(change.NewContent) {
			writeDiffLine(w, diff.LineAdded, text)
		}
	case tree.ChangeRemoved:
		for _, text := range diff.SplitLines(change.OldContent) {
			writeDiffLine(w, diff.LineDeleted, text)
		}
	}
}

func writeDiffLine(w io.Writer, origin diff.LineOrigin, text string) {
	c := color.New()
	switch origin {
	case diff.LineAdded:
		c = addedColor
	case diff.LineDeleted:
		c = removedColor
	}
	c.Fprintf(w, "%s%s\n", origin.String(), strings.TrimSuffix(text, "\n"))
}
