package tree_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffpatch/diffpatch/internal/tree"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestDiffTrees(t *testing.T) {
	t.Parallel()

	t.Run("identical trees yield no changes", func(t *testing.T) {
		t.Parallel()
		before, after := t.TempDir(), t.TempDir()
		files := map[string]string{"a.txt": "hello\n", "sub/b.txt": "world\n"}
		writeTree(t, before, files)
		writeTree(t, after, files)

		changes, summary, err := tree.DiffTrees(before, after, tree.WalkOptions{ContextLen: 3})

		require.NoError(t, err)
		assert.Empty(t, changes)
		assert.Equal(t, 2, summary.TotalFiles)
		assert.Equal(t, 2, summary.UnchangedFiles)
	})

	t.Run("classifies added, removed and modified", func(t *testing.T) {
		t.Parallel()
		before, after := t.TempDir(), t.TempDir()
		writeTree(t, before, map[string]string{
			"gone.txt":    "old\n",
			"changed.txt": "1\n2\n3\n",
			"same.txt":    "stable\n",
		})
		writeTree(t, after, map[string]string{
			"new.txt":     "fresh\n",
			"changed.txt": "1\nX\n3\n",
			"same.txt":    "stable\n",
		})

		changes, summary, err := tree.DiffTrees(before, after, tree.WalkOptions{ContextLen: 3})

		require.NoError(t, err)
		require.Len(t, changes, 3)
		// Lexicographic path order.
		assert.Equal(t, "changed.txt", changes[0].Path)
		assert.Equal(t, "gone.txt", changes[1].Path)
		assert.Equal(t, "new.txt", changes[2].Path)

		assert.Equal(t, tree.ChangeModified, changes[0].Kind)
		require.Len(t, changes[0].Hunks, 1)
		assert.Equal(t, tree.ChangeRemoved, changes[1].Kind)
		assert.Equal(t, "old\n", changes[1].OldContent)
		assert.Equal(t, tree.ChangeAdded, changes[2].Kind)
		assert.Equal(t, "fresh\n", changes[2].NewContent)

		assert.Equal(t, 1, summary.ModifiedFiles)
		assert.Equal(t, 1, summary.AddedFiles)
		assert.Equal(t, 1, summary.RemovedFiles)
		assert.Equal(t, 1, summary.UnchangedFiles)
		assert.Equal(t, 1, summary.TotalHunks)
	})

	t.Run("binary files carry no hunks", func(t *testing.T) {
		t.Parallel()
		before, after := t.TempDir(), t.TempDir()
		writeTree(t, before, map[string]string{"blob.bin": "a\x00b"})
		writeTree(t, after, map[string]string{"blob.bin": "a\x00c"})

		changes, summary, err := tree.DiffTrees(before, after, tree.WalkOptions{ContextLen: 3})

		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.True(t, changes[0].Binary)
		assert.Empty(t, changes[0].Hunks)
		assert.Equal(t, 1, changes[0].LogicalHunks())
		assert.Equal(t, 1, summary.BinaryFiles)
	})

	t.Run("nested paths use slash separators", func(t *testing.T) {
		t.Parallel()
		before, after := t.TempDir(), t.TempDir()
		writeTree(t, after, map[string]string{"deep/nested/file.txt": "x\n"})

		changes, _, err := tree.DiffTrees(before, after, tree.WalkOptions{ContextLen: 3})

		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, "deep/nested/file.txt", changes[0].Path)
	})

	t.Run("missing root fails the enumeration", func(t *testing.T) {
		t.Parallel()
		_, _, err := tree.DiffTrees(filepath.Join(t.TempDir(), "absent"), t.TempDir(), tree.WalkOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "before tree")
	})

	t.Run("symlink change is an opaque whole-file decision", func(t *testing.T) {
		t.Parallel()
		before, after := t.TempDir(), t.TempDir()
		require.NoError(t, os.Symlink("one", filepath.Join(before, "link")))
		require.NoError(t, os.Symlink("two", filepath.Join(after, "link")))

		changes, _, err := tree.DiffTrees(before, after, tree.WalkOptions{ContextLen: 3})

		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.True(t, changes[0].Binary)
		assert.Equal(t, "symlink:one", changes[0].OldContent)
		assert.Equal(t, "symlink:two", changes[0].NewContent)
	})

	t.Run("deterministic across worker counts", func(t *testing.T) {
		t.Parallel()
		before, after := t.TempDir(), t.TempDir()
		files := map[string]string{}
		for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
			files[name+".txt"] = name + "\n"
		}
		writeTree(t, before, files)
		for name := range files {
			files[name] = "changed\n"
		}
		writeTree(t, after, files)

		one, _, err := tree.DiffTrees(before, after, tree.WalkOptions{ContextLen: 3, Workers: 1})
		require.NoError(t, err)
		many, _, err := tree.DiffTrees(before, after, tree.WalkOptions{ContextLen: 3, Workers: 8})
		require.NoError(t, err)

		require.Len(t, many, len(one))
		for i := range one {
			assert.Equal(t, one[i].Path, many[i].Path)
		}
	})
}

func TestLogicalHunks(t *testing.T) {
	t.Parallel()

	added := &tree.FileChange{Kind: tree.ChangeAdded, NewContent: "x\n"}
	assert.Equal(t, 1, added.LogicalHunks())

	modified := &tree.FileChange{Kind: tree.ChangeModified, Hunks: nil, Binary: true}
	assert.Equal(t, 1, modified.LogicalHunks())
}
