// Package present implements the three terminal rendering disciplines for
// hunk review: direct scrolling output, a full-screen alternate buffer, and
// scrolling output that erases each hunk once it is decided.
package present

import (
	"io"
	"os"

	"github.com/diffpatch/diffpatch/internal/diff"
	"github.com/diffpatch/diffpatch/internal/session"
	"github.com/diffpatch/diffpatch/internal/tree"
)

// Direct writes each hunk and prompt as normal scrolling output and leaves
// them on screen, like a classic sequential patch-review transcript. It
// never touches terminal modes except momentarily for immediate input.
type Direct struct {
	out    io.Writer
	reader *commandReader
}

// NewDirect creates the direct presenter reading from in and writing to out.
func NewDirect(in, out *os.File, immediate bool) *Direct {
	guard := newTermGuard(in, out)
	return &Direct{
		out:    out,
		reader: newCommandReader(in, out, guard, immediate, false),
	}
}

func (d *Direct) Begin() error { return nil }

func (d *Direct) Render(change *tree.FileChange, hunk *diff.Hunk, pos session.Position, showHeader bool) error {
	if showHeader {
		WriteFileHeader(d.out, change)
	}
	if hunk != nil {
		WriteHunk(d.out, hunk)
	} else {
		WriteWholeFile(d.out, change)
	}
	return nil
}

func (d *Direct) ReadCommand(prompt string) (session.Command, error) {
	return d.reader.Read(prompt)
}

func (d *Direct) AfterDecision(clearHeader bool) error { return nil }

func (d *Direct) ClearScreen() error {
	_, err := io.WriteString(d.out, clearScreen)
	return err
}

func (d *Direct) Notify(msg string) error {
	_, err := errorColor.Fprintln(d.out, msg)
	return err
}

func (d *Direct) Close() error { return nil }

var _ session.Presenter = (*Direct)(nil)
