package session

import (
	"github.com/diffpatch/diffpatch/internal/diff"
	"github.com/diffpatch/diffpatch/internal/tree"
)

// DecisionState is the per-hunk decision lifecycle. A hunk starts Pending
// and reaches exactly one terminal state before materialization.
type DecisionState int

const (
	Pending DecisionState = iota
	Accepted
	Rejected
	Edited
)

func (s DecisionState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Edited:
		return "edited"
	default:
		return "unknown"
	}
}

// Resolution is the decision for one hunk. Replacement carries the
// user-authored hunk when State is Edited.
type Resolution struct {
	State       DecisionState
	Replacement *diff.Hunk
}

// GlobalDecision short-circuits per-hunk prompting for the rest of the
// session.
type GlobalDecision int

const (
	GlobalNone GlobalDecision = iota
	GlobalAcceptAll
	GlobalRejectAll
)

// State is the mutable session position. It is owned exclusively by the
// Controller for the session's duration.
type State struct {
	FileIndex     int
	HunkIndex     int
	Global        GlobalDecision
	QuitRequested bool
}

// Ledger tracks one Resolution per logical hunk of every file change.
// Changes without hunks (added, removed, binary) occupy a single whole-file
// slot.
type Ledger struct {
	changes     []*tree.FileChange
	resolutions [][]Resolution
}

// NewLedger creates a ledger with every hunk Pending.
func NewLedger(changes []*tree.FileChange) *Ledger {
	resolutions := make([][]Resolution, len(changes))
	for i, c := range changes {
		resolutions[i] = make([]Resolution, c.LogicalHunks())
	}
	return &Ledger{changes: changes, resolutions: resolutions}
}

// Resolution returns the decision for the given file and hunk index.
func (l *Ledger) Resolution(file, hunk int) Resolution {
	return l.resolutions[file][hunk]
}

// FileResolutions returns the decisions for every logical hunk of one file.
func (l *Ledger) FileResolutions(file int) []Resolution {
	return l.resolutions[file]
}

// Set records a terminal state for one hunk.
func (l *Ledger) Set(file, hunk int, state DecisionState) {
	l.resolutions[file][hunk] = Resolution{State: state}
}

// SetEdited records an edited replacement for one hunk.
func (l *Ledger) SetEdited(file, hunk int, replacement *diff.Hunk) {
	l.resolutions[file][hunk] = Resolution{State: Edited, Replacement: replacement}
}

// ResolveAllPending moves every still-Pending hunk in the whole session to
// the given terminal state.
func (l *Ledger) ResolveAllPending(state DecisionState) {
	for _, file := range l.resolutions {
		for i := range file {
			if file[i].State == Pending {
				file[i] = Resolution{State: state}
			}
		}
	}
}

// PendingCount returns the number of hunks still awaiting a decision.
func (l *Ledger) PendingCount() int {
	n := 0
	for _, file := range l.resolutions {
		for _, r := range file {
			if r.State == Pending {
				n++
			}
		}
	}
	return n
}

// AcceptedCount returns the number of hunks accepted or edited.
func (l *Ledger) AcceptedCount() int {
	n := 0
	for _, file := range l.resolutions {
		for _, r := range file {
			if r.State == Accepted || r.State == Edited {
				n++
			}
		}
	}
	return n
}
