package tree

import (
	"github.com/diffpatch/diffpatch/internal/diff"
)

// ChangeKind represents how a path differs between the two trees
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // present in both trees with differing content
	ChangeAdded                      // present only in the after tree
	ChangeRemoved                    // present only in the before tree
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeModified:
		return "MODIFIED"
	case ChangeAdded:
		return "ADDED"
	case ChangeRemoved:
		return "REMOVED"
	default:
		return "UNKNOWN"
	}
}

// FileChange is one differing path plus everything the interactive session
// needs to decide about it. Contents are loaded once, up front; the before
// tree is never touched again after enumeration.
type FileChange struct {
	Path       string // relative to both roots, slash separated
	Kind       ChangeKind
	OldContent string // empty for ChangeAdded
	NewContent string // empty for ChangeRemoved
	Binary     bool   // no hunks; decided as a whole file
	Hunks      []*diff.Hunk
}

// LogicalHunks is the number of decisions this change requires. Added,
// removed and binary files carry a single whole-file decision.
func (c *FileChange) LogicalHunks() int {
	if len(c.Hunks) == 0 {
		return 1
	}
	return len(c.Hunks)
}

// Summary contains statistics about the enumeration. Unchanged paths are
// visited and counted even though they are filtered from the change list.
type Summary struct {
	TotalFiles     int
	UnchangedFiles int
	ModifiedFiles  int
	AddedFiles     int
	RemovedFiles   int
	BinaryFiles    int
	TotalHunks     int
}

// WalkOptions controls enumeration and hunk construction.
type WalkOptions struct {
	ContextLen int // context lines per hunk
	Workers    int // parallel file readers (0 = GOMAXPROCS)
}
