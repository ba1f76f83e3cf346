// Package session implements the interactive hunk-selection state machine.
// The controller walks the ordered change list, asks a Presenter to show
// each hunk and read a command, and records decisions into a Ledger.
package session

import (
	"errors"
	"fmt"

	"github.com/diffpatch/diffpatch/internal/diff"
	"github.com/diffpatch/diffpatch/internal/editor"
	"github.com/diffpatch/diffpatch/internal/tree"
	"github.com/diffpatch/diffpatch/internal/util"
)

// ErrInterrupted is returned when the operator aborts the session without
// materializing (ctrl-c). The caller exits non-zero.
var ErrInterrupted = errors.New("session interrupted")

// Position locates the current hunk within its file for the prompt.
type Position struct {
	HunkIndex int // zero based
	HunkCount int // logical hunks in the file, at least 1
}

// Presenter renders hunks and reads operator commands. Implementations own
// all terminal state; Close must restore the terminal on every exit path.
type Presenter interface {
	// Begin acquires whatever terminal state the variant needs.
	Begin() error
	// Render shows the hunk (nil for whole-file decisions) and, when
	// showHeader is set, the file header above it.
	Render(change *tree.FileChange, hunk *diff.Hunk, pos Position, showHeader bool) error
	// ReadCommand prompts and blocks until a recognized command is entered.
	ReadCommand(prompt string) (Command, error)
	// AfterDecision runs once a command was handled; the inline-clear
	// variant erases the lines it printed for the decided hunk here.
	AfterDecision(clearHeader bool) error
	// ClearScreen wipes the display before a full re-render.
	ClearScreen() error
	// Notify shows a transient error message, e.g. a failed hunk edit.
	Notify(msg string) error
	// Close restores the terminal. It must be safe to call more than once.
	Close() error
}

// HunkEditor is the external-editor round trip for a single hunk. A nil
// replacement with a nil error means the edit was aborted.
type HunkEditor interface {
	EditHunk(path string, h *diff.Hunk) (*diff.Hunk, error)
}

// Controller drives one interactive session over a change list.
type Controller struct {
	changes   []*tree.FileChange
	presenter Presenter
	editor    HunkEditor
	ledger    *Ledger
	state     State
}

// NewController creates a session over the given changes. The editor may be
// nil, in which case the edit command reports an error and re-presents.
func NewController(changes []*tree.FileChange, presenter Presenter, editor HunkEditor) *Controller {
	return &Controller{
		changes:   changes,
		presenter: presenter,
		editor:    editor,
		ledger:    NewLedger(changes),
	}
}

// State returns a copy of the current session position.
func (c *Controller) State() State {
	return c.state
}

// Run executes the interactive loop and returns the finalized ledger. Every
// hunk left Pending when the loop ends (quit, accept-all, reject-all, or
// normal completion) is resolved according to the session contract: an
// unanswered hunk is never accepted.
func (c *Controller) Run() (*Ledger, error) {
	if len(c.changes) == 0 {
		return c.ledger, nil
	}
	if err := c.presenter.Begin(); err != nil {
		return nil, err
	}

	showHeader := true
	for {
		change := c.changes[c.state.FileIndex]
		count := change.LogicalHunks()
		var hunk *diff.Hunk
		if len(change.Hunks) > 0 {
			hunk = change.Hunks[c.state.HunkIndex]
		}
		pos := Position{HunkIndex: c.state.HunkIndex, HunkCount: count}

		if err := c.presenter.Render(change, hunk, pos, showHeader); err != nil {
			return nil, err
		}
		cmd, err := c.presenter.ReadCommand(c.prompt(change, pos))
		if err != nil {
			return nil, err
		}
		util.Debug("command", "file", change.Path, "hunk", c.state.HunkIndex, "cmd", int(cmd))

		finish := false
		advanced := false
		switch cmd {
		case CommandAccept:
			c.ledger.Set(c.state.FileIndex, c.state.HunkIndex, Accepted)
			advanced = true
		case CommandReject:
			c.ledger.Set(c.state.FileIndex, c.state.HunkIndex, Rejected)
			advanced = true
		case CommandAcceptAll:
			c.state.Global = GlobalAcceptAll
			c.ledger.ResolveAllPending(Accepted)
			finish = true
		case CommandRejectAll:
			c.state.Global = GlobalRejectAll
			c.ledger.ResolveAllPending(Rejected)
			finish = true
		case CommandQuit:
			c.state.QuitRequested = true
			finish = true
		case CommandEdit:
			advanced, err = c.editCurrent(change, hunk)
			if err != nil {
				return nil, err
			}
			if !advanced {
				if err := c.presenter.AfterDecision(false); err != nil {
					return nil, err
				}
				showHeader = false
				continue
			}
		case CommandClear:
			if err := c.presenter.ClearScreen(); err != nil {
				return nil, err
			}
			showHeader = true
			continue
		case CommandExit:
			return nil, ErrInterrupted
		}

		nextFile, nextHunk := c.state.FileIndex, c.state.HunkIndex
		if advanced {
			nextHunk++
			if nextHunk >= count {
				nextHunk = 0
				nextFile++
			}
		}
		if finish || nextFile >= len(c.changes) {
			if err := c.presenter.AfterDecision(true); err != nil {
				return nil, err
			}
			break
		}

		showHeader = nextFile != c.state.FileIndex
		if err := c.presenter.AfterDecision(showHeader); err != nil {
			return nil, err
		}
		c.state.FileIndex, c.state.HunkIndex = nextFile, nextHunk
	}

	// Quit and the global commands leave the rest of the session untouched;
	// an unanswered hunk defaults to its old-side content.
	c.ledger.ResolveAllPending(Rejected)
	return c.ledger, nil
}

// editCurrent round-trips the current hunk through the external editor.
// Validation failures keep the hunk Pending; the caller re-presents it.
func (c *Controller) editCurrent(change *tree.FileChange, hunk *diff.Hunk) (bool, error) {
	if hunk == nil || c.editor == nil {
		if err := c.presenter.Notify("Sorry, cannot edit this hunk"); err != nil {
			return false, err
		}
		return false, nil
	}

	replacement, err := c.editor.EditHunk(change.Path, hunk)
	if err != nil {
		var verr editor.ValidationError
		if errors.As(err, &verr) {
			if nerr := c.presenter.Notify(fmt.Sprintf("Edited hunk does not apply: %v", verr)); nerr != nil {
				return false, nerr
			}
			return false, nil
		}
		return false, err
	}
	if replacement == nil {
		// Every hunk line was removed; the edit is aborted and the hunk is
		// left unchanged.
		if err := c.presenter.Notify("Empty edit, hunk left unchanged"); err != nil {
			return false, err
		}
		return false, nil
	}

	c.ledger.SetEdited(c.state.FileIndex, c.state.HunkIndex, replacement)
	return true, nil
}

// prompt renders the decision prompt for the current position.
func (c *Controller) prompt(change *tree.FileChange, pos Position) string {
	noun := "this hunk"
	keys := "y,n,q,a,d,e"
	switch {
	case change.Kind == tree.ChangeRemoved:
		noun = "deletion"
		keys = "y,n,q,a,d"
	case change.Kind == tree.ChangeAdded:
		noun = "addition"
		keys = "y,n,q,a,d"
	case change.Binary:
		noun = "binary change"
		keys = "y,n,q,a,d"
	}
	return fmt.Sprintf("(%d/%d) Stage %s [%s]? ", pos.HunkIndex+1, pos.HunkCount, noun, keys)
}
