// Package tree enumerates the differing paths between two directory trees
// and prepares the ordered hunk list the interactive session works through.
package tree

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/diffpatch/diffpatch/internal/diff"
	"github.com/diffpatch/diffpatch/internal/util"
)

// DiffTrees compares the before and after trees and returns the changed
// files in lexicographic path order, with hunks attached for modified text
// files. The contract is all-or-nothing: any unreadable path fails the whole
// enumeration so the interactive phase never sees an I/O error.
func DiffTrees(beforeRoot, afterRoot string, opts WalkOptions) ([]*FileChange, *Summary, error) {
	beforePaths, err := collectPaths(beforeRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan before tree: %w", err)
	}
	afterPaths, err := collectPaths(afterRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan after tree: %w", err)
	}
	util.Debug("scanned trees", "before", len(beforePaths), "after", len(afterPaths))

	union := make(map[string]bool, len(beforePaths)+len(afterPaths))
	for p := range beforePaths {
		union[p] = true
	}
	for p := range afterPaths {
		union[p] = true
	}
	paths := make([]string, 0, len(union))
	for p := range union {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// One slot per path keeps the output order deterministic regardless of
	// worker scheduling. A nil slot is an unchanged file.
	changes := make([]*FileChange, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i, p := range paths {
		wg.Add(1)
		go func(i int, relPath string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			change, err := comparePath(relPath, beforeRoot, afterRoot,
				beforePaths[relPath], afterPaths[relPath], opts.ContextLen)
			changes[i], errs[i] = change, err
		}(i, p)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, nil, fmt.Errorf("error comparing %s: %w", paths[i], err)
		}
	}

	summary := &Summary{TotalFiles: len(paths)}
	out := make([]*FileChange, 0, len(paths))
	for _, c := range changes {
		if c == nil {
			summary.UnchangedFiles++
			continue
		}
		switch c.Kind {
		case ChangeModified:
			summary.ModifiedFiles++
		case ChangeAdded:
			summary.AddedFiles++
		case ChangeRemoved:
			summary.RemovedFiles++
		}
		if c.Binary {
			summary.BinaryFiles++
		}
		summary.TotalHunks += len(c.Hunks)
		out = append(out, c)
	}
	util.Debug("tree diff complete", "changes", len(out), "hunks", summary.TotalHunks)

	return out, summary, nil
}

// collectPaths recursively gathers every non-directory entry under root,
// keyed by slash-separated relative path.
func collectPaths(root string) (map[string]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entries[filepath.ToSlash(rel)] = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// comparePath classifies one relative path. It returns nil for unchanged
// files.
func comparePath(relPath, beforeRoot, afterRoot string, beforeEntry, afterEntry fs.DirEntry, contextLen int) (*FileChange, error) {
	var oldContent, newContent string
	var oldBinary, newBinary bool
	var err error

	if beforeEntry != nil {
		oldContent, oldBinary, err = readEntry(filepath.Join(beforeRoot, filepath.FromSlash(relPath)), beforeEntry)
		if err != nil {
			return nil, err
		}
	}
	if afterEntry != nil {
		newContent, newBinary, err = readEntry(filepath.Join(afterRoot, filepath.FromSlash(relPath)), afterEntry)
		if err != nil {
			return nil, err
		}
	}
	binary := oldBinary || newBinary

	switch {
	case beforeEntry == nil:
		return &FileChange{Path: relPath, Kind: ChangeAdded, NewContent: newContent, Binary: binary}, nil
	case afterEntry == nil:
		return &FileChange{Path: relPath, Kind: ChangeRemoved, OldContent: oldContent, Binary: binary}, nil
	case oldContent == newContent:
		return nil, nil
	}

	change := &FileChange{
		Path:       relPath,
		Kind:       ChangeModified,
		OldContent: oldContent,
		NewContent: newContent,
		Binary:     binary,
	}
	if !binary {
		edits := diff.Lines(oldContent, newContent)
		change.Hunks = diff.BuildHunks(edits, contextLen)
	}
	return change, nil
}

// readEntry loads an entry's content. Symlinks and special files are
// surfaced as opaque binary content so the pair can still be decided as a
// whole file.
func readEntry(path string, entry fs.DirEntry) (content string, binary bool, err error) {
	mode := entry.Type()
	switch {
	case mode&fs.ModeSymlink != 0:
		target, err := os.Readlink(path)
		if err != nil {
			return "", false, fmt.Errorf("failed to read symlink: %w", err)
		}
		return "symlink:" + target, true, nil
	case !mode.IsRegular():
		return "special:" + mode.String(), true, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), isBinary(string(data)), nil
}

// isBinary reports whether content looks like binary data: any NUL byte, or
// more than 30% non-printable characters.
func isBinary(content string) bool {
	if strings.ContainsRune(content, 0) {
		return true
	}
	nonPrintable := 0
	for _, r := range content {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			nonPrintable++
		}
	}
	return len(content) > 0 && float64(nonPrintable)/float64(len(content)) > 0.3
}
