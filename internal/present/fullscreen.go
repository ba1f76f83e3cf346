package present

import (
	"io"
	"os"

	"github.com/diffpatch/diffpatch/internal/diff"
	"github.com/diffpatch/diffpatch/internal/session"
	"github.com/diffpatch/diffpatch/internal/tree"
)

// Fullscreen renders each hunk on the terminal's alternate screen buffer
// with raw input for the whole session. The prior screen and mode are
// restored on every exit path; Close is idempotent and the guard also fires
// from the signal handler.
type Fullscreen struct {
	out    io.Writer
	guard  *termGuard
	reader *commandReader
	notice string
}

// NewFullscreen creates the full-screen presenter. Input is always
// immediate: the session owns raw mode from Begin to Close.
func NewFullscreen(in, out *os.File) *Fullscreen {
	guard := newTermGuard(in, out)
	crlf := &crlfWriter{w: out}
	return &Fullscreen{
		out:    crlf,
		guard:  guard,
		reader: newCommandReader(in, crlf, guard, true, true),
	}
}

func (p *Fullscreen) Begin() error {
	return p.guard.Acquire(true)
}

// Render fully redraws the screen for every hunk.
func (p *Fullscreen) Render(change *tree.FileChange, hunk *diff.Hunk, pos session.Position, showHeader bool) error {
	if _, err := io.WriteString(p.out, clearScreen); err != nil {
		return err
	}
	WriteFileHeader(p.out, change)
	if hunk != nil {
		WriteHunk(p.out, hunk)
	} else {
		WriteWholeFile(p.out, change)
	}
	if p.notice != "" {
		errorColor.Fprintln(p.out, p.notice)
		p.notice = ""
	}
	_, err := io.WriteString(p.out, "\n")
	return err
}

func (p *Fullscreen) ReadCommand(prompt string) (session.Command, error) {
	return p.reader.Read(prompt)
}

func (p *Fullscreen) AfterDecision(clearHeader bool) error { return nil }

func (p *Fullscreen) ClearScreen() error {
	_, err := io.WriteString(p.out, clearScreen)
	return err
}

// Notify shows the message with the next redraw.
func (p *Fullscreen) Notify(msg string) error {
	p.notice = msg
	return nil
}

func (p *Fullscreen) Close() error {
	return p.guard.Restore()
}

var _ session.Presenter = (*Fullscreen)(nil)

// crlfWriter translates bare line feeds to CR/LF pairs, which raw mode
// requires for the cursor to return to column one.
type crlfWriter struct {
	w io.Writer
}

func (cw *crlfWriter) Write(p []byte) (int, error) {
	written := 0
	start := 0
	for i, b := range p {
		if b != '\n' {
			continue
		}
		if _, err := cw.w.Write(p[start:i]); err != nil {
			return written, err
		}
		if _, err := cw.w.Write([]byte("\r\n")); err != nil {
			return written, err
		}
		written = i + 1
		start = i + 1
	}
	if start < len(p) {
		if _, err := cw.w.Write(p[start:]); err != nil {
			return written, err
		}
	}
	return len(p), nil
}
