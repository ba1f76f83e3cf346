package diff_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffpatch/diffpatch/internal/diff"
)

func TestSplitLines(t *testing.T) {
	t.Parallel()

	t.Run("keeps terminating newlines", func(t *testing.T) {
		t.Parallel()
		lines := diff.SplitLines("a\nb\nc\n")
		assert.Equal(t, []string{"a\n", "b\n", "c\n"}, lines)
	})

	t.Run("last line without newline", func(t *testing.T) {
		t.Parallel()
		lines := diff.SplitLines("a\nb")
		assert.Equal(t, []string{"a\n", "b"}, lines)
	})

	t.Run("empty text yields no lines", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, diff.SplitLines(""))
	})

	t.Run("concatenation round-trips", func(t *testing.T) {
		t.Parallel()
		for _, text := range []string{"a\n", "a", "\n", "a\n\nb\n", "a\nb"} {
			assert.Equal(t, text, strings.Join(diff.SplitLines(text), ""))
		}
	})
}

func TestLines(t *testing.T) {
	t.Parallel()

	t.Run("identical inputs yield one equal run", func(t *testing.T) {
		t.Parallel()
		edits := diff.Lines("a\nb\n", "a\nb\n")
		require.Len(t, edits, 1)
		assert.Equal(t, diff.OpEqual, edits[0].Op)
		assert.Equal(t, []string{"a\n", "b\n"}, edits[0].Lines)
	})

	t.Run("both empty yields no edits", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, diff.Lines("", ""))
	})

	t.Run("single line replacement", func(t *testing.T) {
		t.Parallel()
		edits := diff.Lines("1\n2\n3\n", "1\nX\n3\n")

		require.NotEmpty(t, edits)
		var old, new strings.Builder
		for _, e := range edits {
			for _, line := range e.Lines {
				if e.Op != diff.OpInsert {
					old.WriteString(line)
				}
				if e.Op != diff.OpDelete {
					new.WriteString(line)
				}
			}
		}
		assert.Equal(t, "1\n2\n3\n", old.String())
		assert.Equal(t, "1\nX\n3\n", new.String())
	})

	t.Run("pure addition", func(t *testing.T) {
		t.Parallel()
		edits := diff.Lines("", "a\nb\n")
		require.Len(t, edits, 1)
		assert.Equal(t, diff.OpInsert, edits[0].Op)
		assert.Equal(t, []string{"a\n", "b\n"}, edits[0].Lines)
	})

	t.Run("pure removal", func(t *testing.T) {
		t.Parallel()
		edits := diff.Lines("a\nb\n", "")
		require.Len(t, edits, 1)
		assert.Equal(t, diff.OpDelete, edits[0].Op)
	})

	t.Run("no adjacent runs share an op", func(t *testing.T) {
		t.Parallel()
		edits := diff.Lines("a\nb\nc\nd\ne\n", "a\nB\nc\nD\ne\n")
		for i := 1; i < len(edits); i++ {
			assert.NotEqual(t, edits[i-1].Op, edits[i].Op,
				"runs %d and %d have the same op", i-1, i)
		}
	})

	t.Run("missing trailing newline is preserved", func(t *testing.T) {
		t.Parallel()
		edits := diff.Lines("a\nend", "a\nEND")
		var got string
		for _, e := range edits {
			if e.Op != diff.OpDelete {
				got += strings.Join(e.Lines, "")
			}
		}
		assert.Equal(t, "a\nEND", got)
	})
}

func TestBuildHunks(t *testing.T) {
	t.Parallel()

	t.Run("single change with default context", func(t *testing.T) {
		t.Parallel()
		edits := diff.Lines(
			"1\n2\n3\n4\n5\n6\n7\n8\n9\n",
			"1\n2\n3\n4\nX\n6\n7\n8\n9\n",
		)
		hunks := diff.BuildHunks(edits, 3)

		require.Len(t, hunks, 1)
		h := hunks[0]
		assert.Equal(t, diff.Span{Start: 2, Lines: 7}, h.OldSpan)
		assert.Equal(t, diff.Span{Start: 2, Lines: 7}, h.NewSpan)
		assert.Equal(t, "@@ -2,7 +2,7 @@", h.Header())
		assert.Equal(t, []string{"2\n", "3\n", "4\n", "5\n", "6\n", "7\n", "8\n"}, h.OldLines())
		assert.Equal(t, []string{"2\n", "3\n", "4\n", "X\n", "6\n", "7\n", "8\n"}, h.NewLines())
	})

	t.Run("context zero keeps only changed lines", func(t *testing.T) {
		t.Parallel()
		edits := diff.Lines("1\n2\n3\n", "1\nX\n3\n")
		hunks := diff.BuildHunks(edits, 0)

		require.Len(t, hunks, 1)
		h := hunks[0]
		assert.Equal(t, diff.Span{Start: 2, Lines: 1}, h.OldSpan)
		assert.Equal(t, diff.Span{Start: 2, Lines: 1}, h.NewSpan)
		for _, line := range h.Lines {
			assert.NotEqual(t, diff.LineContext, line.Origin)
		}
	})

	t.Run("context truncated at file edges", func(t *testing.T) {
		t.Parallel()
		edits := diff.Lines("1\n2\n", "X\n2\n")
		hunks := diff.BuildHunks(edits, 3)

		require.Len(t, hunks, 1)
		h := hunks[0]
		assert.Equal(t, 1, h.OldSpan.Start)
		assert.Equal(t, 2, h.OldSpan.Lines)
	})

	t.Run("distant changes become separate hunks", func(t *testing.T) {
		t.Parallel()
		before := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n13\n14\n15\n"
		after := "X\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n13\n14\nY\n"
		edits := diff.Lines(before, after)
		hunks := diff.BuildHunks(edits, 3)

		require.Len(t, hunks, 2)
		assert.Equal(t, 1, hunks[0].OldSpan.Start)
		assert.Equal(t, 12, hunks[1].OldSpan.Start)
	})

	t.Run("nearby changes merge into one hunk", func(t *testing.T) {
		t.Parallel()
		before := "1\n2\n3\n4\n5\n6\n7\n"
		after := "X\n2\n3\n4\n5\n6\nY\n"
		edits := diff.Lines(before, after)
		hunks := diff.BuildHunks(edits, 3)

		// The equal run between the changes has 5 lines, shorter than 2*3,
		// so the changes share a hunk with the run as internal context.
		require.Len(t, hunks, 1)
		assert.Equal(t, diff.Span{Start: 1, Lines: 7}, hunks[0].OldSpan)
	})

	t.Run("insertion at top of file", func(t *testing.T) {
		t.Parallel()
		edits := diff.Lines("a\n", "new\na\n")
		hunks := diff.BuildHunks(edits, 0)

		require.Len(t, hunks, 1)
		h := hunks[0]
		assert.Equal(t, diff.Span{Start: 0, Lines: 0}, h.OldSpan)
		assert.Equal(t, diff.Span{Start: 1, Lines: 1}, h.NewSpan)
		assert.Equal(t, "@@ -0,0 +1,1 @@", h.Header())
	})

	t.Run("deletion leaves empty new span", func(t *testing.T) {
		t.Parallel()
		edits := diff.Lines("a\nb\nc\n", "a\nc\n")
		hunks := diff.BuildHunks(edits, 0)

		require.Len(t, hunks, 1)
		h := hunks[0]
		assert.Equal(t, diff.Span{Start: 2, Lines: 1}, h.OldSpan)
		assert.Equal(t, 0, h.NewSpan.Lines)
	})

	t.Run("rebuilding a hunk from its own text preserves boundaries", func(t *testing.T) {
		t.Parallel()
		before := "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\n"
		after := "a\nB\nc\nd\ne\nF\nG\nh\ni\nj\nk\n"
		for _, contextLen := range []int{0, 1, 3} {
			for _, h := range diff.BuildHunks(diff.Lines(before, after), contextLen) {
				oldText := strings.Join(h.OldLines(), "")
				newText := strings.Join(h.NewLines(), "")
				rebuilt := diff.BuildHunks(diff.Lines(oldText, newText), contextLen)

				require.Len(t, rebuilt, 1, "context %d hunk %s", contextLen, h.Header())
				assert.Equal(t, h.OldLines(), rebuilt[0].OldLines())
				assert.Equal(t, h.NewLines(), rebuilt[0].NewLines())
				assert.Equal(t, h.OldSpan.Lines, rebuilt[0].OldSpan.Lines)
				assert.Equal(t, h.NewSpan.Lines, rebuilt[0].NewSpan.Lines)
			}
		}
	})

	t.Run("span line counts match line slices", func(t *testing.T) {
		t.Parallel()
		edits := diff.Lines(
			"a\nb\nc\nd\ne\nf\ng\nh\ni\nj\n",
			"a\nB\nc\nd\ne\nF\nG\nh\ni\nj\nk\n",
		)
		for _, contextLen := range []int{0, 1, 3} {
			for _, h := range diff.BuildHunks(edits, contextLen) {
				assert.Len(t, h.OldLines(), h.OldSpan.Lines)
				assert.Len(t, h.NewLines(), h.NewSpan.Lines)
			}
		}
	})
}

func TestHunkAccessors(t *testing.T) {
	t.Parallel()

	h := &diff.Hunk{
		OldSpan: diff.Span{Start: 2, Lines: 2},
		NewSpan: diff.Span{Start: 2, Lines: 2},
		Lines: []diff.Line{
			{Origin: diff.LineContext, Text: "a\n"},
			{Origin: diff.LineDeleted, Text: "b\n"},
			{Origin: diff.LineAdded, Text: "B\n"},
		},
	}
	assert.Equal(t, []string{"a\n", "b\n"}, h.OldLines())
	assert.Equal(t, []string{"a\n", "B\n"}, h.NewLines())
	assert.Equal(t, 4, h.OldSpan.End())
}
