package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffpatch/diffpatch/internal/diff"
	"github.com/diffpatch/diffpatch/internal/session"
	"github.com/diffpatch/diffpatch/internal/tree"
)

func testChanges() []*tree.FileChange {
	hunk := func(start int) *diff.Hunk {
		return &diff.Hunk{
			OldSpan: diff.Span{Start: start, Lines: 1},
			NewSpan: diff.Span{Start: start, Lines: 1},
			Lines: []diff.Line{
				{Origin: diff.LineDeleted, Text: "old\n"},
				{Origin: diff.LineAdded, Text: "new\n"},
			},
		}
	}
	return []*tree.FileChange{
		{Path: "a.txt", Kind: tree.ChangeModified, Hunks: []*diff.Hunk{hunk(1), hunk(10)}},
		{Path: "b.txt", Kind: tree.ChangeAdded, NewContent: "x\n"},
	}
}

func testModel() Model {
	changes := testChanges()
	summary := &tree.Summary{ModifiedFiles: 1, AddedFiles: 1, TotalHunks: 2}
	return NewApp(changes, summary, "/before", "/after").model
}

func press(m Model, keys ...string) Model {
	for _, key := range keys {
		var msg tea.KeyMsg
		switch key {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModelNavigation(t *testing.T) {
	t.Parallel()

	m := testModel()
	assert.Equal(t, 0, m.cursor)

	m = press(m, "j")
	assert.Equal(t, 1, m.cursor)

	// Cursor clamps at the list edges.
	m = press(m, "j", "j")
	assert.Equal(t, 1, m.cursor)
	m = press(m, "k", "k", "k")
	assert.Equal(t, 0, m.cursor)
}

func TestModelDecisions(t *testing.T) {
	t.Parallel()

	t.Run("accept in diff view advances to the next hunk", func(t *testing.T) {
		t.Parallel()
		m := press(testModel(), "enter")
		require.True(t, m.showingDiff)

		m = press(m, "y")
		assert.Equal(t, session.Accepted, m.ledger.Resolution(0, 0).State)
		assert.Equal(t, 1, m.currentHunk)

		m = press(m, "n")
		assert.Equal(t, session.Rejected, m.ledger.Resolution(0, 1).State)
	})

	t.Run("file list keys act on the first pending hunk", func(t *testing.T) {
		t.Parallel()
		m := press(testModel(), "y", "y")
		assert.Equal(t, session.Accepted, m.ledger.Resolution(0, 0).State)
		assert.Equal(t, session.Accepted, m.ledger.Resolution(0, 1).State)
	})

	t.Run("whole-file accept and reject", func(t *testing.T) {
		t.Parallel()
		m := press(testModel(), "a")
		assert.Equal(t, session.Accepted, m.ledger.Resolution(0, 0).State)
		assert.Equal(t, session.Accepted, m.ledger.Resolution(0, 1).State)

		m = press(m, "j", "d")
		assert.Equal(t, session.Rejected, m.ledger.Resolution(1, 0).State)
	})

	t.Run("w requests the write", func(t *testing.T) {
		t.Parallel()
		m := press(testModel(), "w")
		assert.True(t, m.writeRequested)
	})

	t.Run("esc leaves the diff view", func(t *testing.T) {
		t.Parallel()
		m := press(testModel(), "enter")
		require.True(t, m.showingDiff)
		m = press(m, "esc")
		assert.False(t, m.showingDiff)
	})
}

func TestModelView(t *testing.T) {
	t.Parallel()

	t.Run("file list shows paths and summary", func(t *testing.T) {
		t.Parallel()
		view := testModel().View()
		assert.Contains(t, view, "a.txt")
		assert.Contains(t, view, "b.txt")
		assert.Contains(t, view, "/before")
		assert.Contains(t, view, "/after")
		assert.Contains(t, view, "undecided")
	})

	t.Run("diff view shows the hunk and decision", func(t *testing.T) {
		t.Parallel()
		m := press(testModel(), "enter")
		view := m.View()
		assert.Contains(t, view, "a.txt")
		assert.Contains(t, view, "hunk 1/2")
		assert.Contains(t, view, "@@ -1,1 +1,1 @@")
		assert.Contains(t, view, "decision: pending")
	})

	t.Run("whole-file diff view lists content lines", func(t *testing.T) {
		t.Parallel()
		m := press(testModel(), "j", "enter")
		view := m.View()
		assert.Contains(t, view, "hunk 1/1")
		// The added file's single line appears as an addition.
		assert.Contains(t, view, "+x")
	})
}
