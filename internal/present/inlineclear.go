package present

import (
	"fmt"
	"io"
	"os"

	"github.com/diffpatch/diffpatch/internal/diff"
	"github.com/diffpatch/diffpatch/internal/session"
	"github.com/diffpatch/diffpatch/internal/tree"
)

// InlineClear behaves like Direct, but once a hunk is decided the rows just
// printed for it are erased before the next hunk appears, leaving a clean
// scroll history. The file header stays until the session moves to another
// file. Cursor math is best effort; rows belonging to earlier hunks are
// never touched because only this presenter's own row counts are erased.
type InlineClear struct {
	rawOut *os.File
	out    *lineCountWriter
	reader *commandReader

	unclearedHeader int
	unclearedHunk   int
	pendingNotice   string
}

// NewInlineClear creates the inline-clear presenter.
func NewInlineClear(in, out *os.File, immediate bool) *InlineClear {
	guard := newTermGuard(in, out)
	cw := newLineCountWriter(out, terminalWidth(out))
	return &InlineClear{
		rawOut: out,
		out:    cw,
		reader: newCommandReader(in, cw, guard, immediate, false),
	}
}

func (p *InlineClear) Begin() error { return nil }

func (p *InlineClear) Render(change *tree.FileChange, hunk *diff.Hunk, pos session.Position, showHeader bool) error {
	p.out.SetWidth(terminalWidth(p.rawOut))
	if showHeader {
		p.out.TakeLines()
		WriteFileHeader(p.out, change)
		p.unclearedHeader += p.out.TakeLines()
	}
	p.out.TakeLines()
	if hunk != nil {
		WriteHunk(p.out, hunk)
	} else {
		WriteWholeFile(p.out, change)
	}
	if p.pendingNotice != "" {
		errorColor.Fprintln(p.out, p.pendingNotice)
		p.pendingNotice = ""
	}
	p.unclearedHunk += p.out.TakeLines()
	return nil
}

func (p *InlineClear) ReadCommand(prompt string) (session.Command, error) {
	p.out.TakeLines()
	cmd, err := p.reader.Read(prompt)
	// The prompt and echoed newline occupy rows of their own. In immediate
	// mode the newline is written through the counter; in buffered mode it
	// is the terminal's echo of Enter, one uncounted row per answered
	// prompt, collected from the reader.
	p.unclearedHunk += p.out.TakeLines() + p.reader.takePromptRows()
	return cmd, err
}

// AfterDecision erases the rows printed for the decided hunk and its
// prompt, plus the file header when the session is leaving the file.
func (p *InlineClear) AfterDecision(clearHeader bool) error {
	erase := p.unclearedHunk
	p.unclearedHunk = 0
	if clearHeader {
		erase += p.unclearedHeader
		p.unclearedHeader = 0
	}
	if erase == 0 {
		return nil
	}
	_, err := fmt.Fprintf(p.rawOut, "\r\x1b[%dA%s", erase, clearBelow)
	return err
}

func (p *InlineClear) ClearScreen() error {
	p.unclearedHeader = 0
	p.unclearedHunk = 0
	p.out.TakeLines()
	_, err := io.WriteString(p.rawOut, clearScreen)
	return err
}

// Notify defers the message to the next Render so the erase that follows a
// failed edit does not immediately wipe it.
func (p *InlineClear) Notify(msg string) error {
	p.pendingNotice = msg
	return nil
}

func (p *InlineClear) Close() error { return nil }

var _ session.Presenter = (*InlineClear)(nil)
