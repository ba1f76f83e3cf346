// Package materialize commits the finalized hunk decisions into the after
// tree. The before tree is never written to.
package materialize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/diffpatch/diffpatch/internal/diff"
	"github.com/diffpatch/diffpatch/internal/session"
	"github.com/diffpatch/diffpatch/internal/tree"
	"github.com/diffpatch/diffpatch/internal/util"
)

// Apply writes the selected intermediate state into afterRoot. Writes are
// per-file and independent: a failure on one file is returned immediately
// and files already written stay written.
func Apply(afterRoot string, changes []*tree.FileChange, ledger *session.Ledger) error {
	for i, change := range changes {
		if err := applyChange(afterRoot, change, ledger.FileResolutions(i)); err != nil {
			return err
		}
	}
	return nil
}

func applyChange(afterRoot string, change *tree.FileChange, resolutions []session.Resolution) error {
	target := filepath.Join(afterRoot, filepath.FromSlash(change.Path))

	switch change.Kind {
	case tree.ChangeAdded:
		// The after tree already holds the added file; rejecting the
		// addition removes it.
		if accepted(resolutions[0]) {
			return nil
		}
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("error applying file addition for %s: %w", change.Path, err)
		}
		util.Debug("rejected addition", "path", change.Path)
		return nil

	case tree.ChangeRemoved:
		// The file is already gone from the after tree; rejecting the
		// removal restores the before content.
		if accepted(resolutions[0]) {
			return nil
		}
		if err := writeFile(target, change.OldContent); err != nil {
			return fmt.Errorf("error applying file removal for %s: %w", change.Path, err)
		}
		util.Debug("rejected removal", "path", change.Path)
		return nil

	case tree.ChangeModified:
		var content string
		if change.Binary {
			if accepted(resolutions[0]) {
				return nil
			}
			content = change.OldContent
		} else {
			content = Reconstruct(change.OldContent, change.Hunks, resolutions)
		}
		if err := writeFile(target, content); err != nil {
			return fmt.Errorf("error applying file modification for %s: %w", change.Path, err)
		}
		return nil
	}
	return nil
}

// Reconstruct builds the final file content from the old content plus the
// accepted hunks: rejected hunks keep the old-side lines, accepted and
// edited hunks take the new-side lines, and the regions between hunks are
// copied from the old file verbatim.
func Reconstruct(oldContent string, hunks []*diff.Hunk, resolutions []session.Resolution) string {
	oldLines := diff.SplitLines(oldContent)
	var sb strings.Builder
	pos := 1 // 1-based index of the next old line to copy

	for i, h := range hunks {
		r := resolutions[i]
		use := h
		switch r.State {
		case session.Edited:
			use = r.Replacement
		case session.Accepted:
		default:
			// Rejected (or never answered): the old lines stay and are
			// copied as part of the untouched region.
			continue
		}

		start := use.OldSpan.Start
		if use.OldSpan.Lines == 0 {
			// A zero-length old span names the line before the insertion.
			start = use.OldSpan.Start + 1
		}
		for pos < start {
			sb.WriteString(oldLines[pos-1])
			pos++
		}
		for _, ln := range use.NewLines() {
			sb.WriteString(ln)
		}
		pos += use.OldSpan.Lines
	}

	for pos <= len(oldLines) {
		sb.WriteString(oldLines[pos-1])
		pos++
	}
	return sb.String()
}

func accepted(r session.Resolution) bool {
	return r.State == session.Accepted || r.State == session.Edited
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
