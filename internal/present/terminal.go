package present

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"
)

const (
	cursorHome     = "\x1b[H"
	clearScreen    = "\x1b[2J" + cursorHome
	altScreenEnter = "\x1b[?1049h" + cursorHome
	altScreenExit  = "\x1b[?1049l"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
	clearBelow     = "\x1b[0J"
)

// TerminalError wraps a failure to enter or restore a terminal mode. It is
// fatal, but best-effort restoration always runs before it propagates.
type TerminalError struct {
	Op  string
	Err error
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("terminal %s failed: %v", e.Op, e.Err)
}

func (e *TerminalError) Unwrap() error {
	return e.Err
}

// termGuard owns raw mode and the alternate screen buffer. Restore is
// idempotent and runs on every exit path, including signals: leaving the
// terminal in raw or alternate-screen mode corrupts the user's shell.
type termGuard struct {
	in  *os.File
	out io.Writer

	mu        sync.Mutex
	state     *term.State
	altScreen bool
	sigCh     chan os.Signal
}

func newTermGuard(in *os.File, out io.Writer) *termGuard {
	return &termGuard{in: in, out: out}
}

// Acquire enters raw mode and optionally the alternate screen buffer, and
// installs a signal handler that restores the terminal before dying.
func (g *termGuard) Acquire(altScreen bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != nil {
		return nil
	}

	fd := int(g.in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return &TerminalError{Op: "raw mode", Err: err}
	}
	g.state = state

	if altScreen {
		if err := g.writeString(altScreenEnter + clearScreen + hideCursor); err != nil {
			g.state = nil
			_ = term.Restore(fd, state)
			return &TerminalError{Op: "alternate screen", Err: err}
		}
		g.altScreen = true
	}

	g.sigCh = make(chan os.Signal, 1)
	signal.Notify(g.sigCh, os.Interrupt, syscall.SIGTERM)
	go func(ch chan os.Signal) {
		if _, ok := <-ch; ok {
			_ = g.Restore()
			os.Exit(1)
		}
	}(g.sigCh)

	return nil
}

// Restore undoes Acquire. Safe to call any number of times.
func (g *termGuard) Restore() error {
	g.mu.Lock()
	state := g.state
	altScreen := g.altScreen
	sigCh := g.sigCh
	g.state = nil
	g.altScreen = false
	g.sigCh = nil
	g.mu.Unlock()

	if state == nil {
		return nil
	}
	if sigCh != nil {
		signal.Stop(sigCh)
		close(sigCh)
	}

	var firstErr error
	if err := term.Restore(int(g.in.Fd()), state); err != nil {
		firstErr = err
	}
	if altScreen {
		if err := g.writeString(showCursor + altScreenExit); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return &TerminalError{Op: "restore", Err: firstErr}
	}
	return nil
}

// WithRaw runs fn with the terminal in raw mode, restoring the previous
// mode when fn returns. Used for single-keypress reads outside the
// fullscreen variant.
func (g *termGuard) WithRaw(fn func() error) error {
	fd := int(g.in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return &TerminalError{Op: "raw mode", Err: err}
	}
	defer func() {
		_ = term.Restore(fd, state)
	}()
	return fn()
}

func (g *termGuard) writeString(s string) error {
	_, err := io.WriteString(g.out, s)
	return err
}

// terminalWidth returns the column count of the terminal behind f, or a
// very large fallback when it cannot be determined.
func terminalWidth(f *os.File) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return 1 << 16
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
