// Package editor implements the manual hunk-edit round trip: a hunk is
// serialized to a patch fragment in a temporary file, an external editor is
// invoked on it, and the buffer is parsed back and validated.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/diffpatch/diffpatch/internal/diff"
	"github.com/diffpatch/diffpatch/internal/util"
)

const editHeader = "# Manual hunk edit mode -- see bottom for a quick guide.\n"

const editTrailer = `# ---
# To remove '-' lines, make them ' ' lines (context).
# To remove '+' lines, delete them.
# Lines starting with # will be removed.
# If the patch applies cleanly, the edited hunk will immediately be marked
# for staging. If it does not apply cleanly, you will be given an
# opportunity to edit again. If all lines of the hunk are removed, then the
# edit is aborted and the hunk is left unchanged.
`

// ValidationError reports an edited hunk that cannot replace the original:
// it failed to parse, or its old-side lines no longer match the content the
// hunk applies to.
type ValidationError struct {
	Reason string
	Err    error
}

func (e ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// Invoker runs the external editor on a file path and blocks until the
// operator closes it. It is a narrow interface so tests can substitute a
// fake collaborator.
type Invoker interface {
	Edit(path string) error
}

// CommandInvoker spawns an editor command attached to the terminal.
type CommandInvoker struct {
	Command string
}

func (ci CommandInvoker) Edit(path string) error {
	cmd := exec.Command(ci.Command, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("error running external editor %q: %w", ci.Command, err)
	}
	return nil
}

// DefaultCommand picks the editor command from DIFFPATCH_EDITOR, then
// EDITOR, falling back to vi.
func DefaultCommand() string {
	if cmd := os.Getenv("DIFFPATCH_EDITOR"); cmd != "" {
		return cmd
	}
	if cmd := os.Getenv("EDITOR"); cmd != "" {
		return cmd
	}
	return "vi"
}

// Bridge serializes hunks to editable patch fragments and back.
type Bridge struct {
	invoker Invoker
}

// NewBridge creates a bridge around the given editor invoker.
func NewBridge(invoker Invoker) *Bridge {
	return &Bridge{invoker: invoker}
}

// EditHunk writes the hunk to a temporary patch file, invokes the editor,
// and parses the result back. It returns (nil, nil) when the operator
// deleted every hunk line, which aborts the edit. The temporary file is
// removed regardless of the editor's exit status.
func (b *Bridge) EditHunk(path string, h *diff.Hunk) (*diff.Hunk, error) {
	tmp, err := os.CreateTemp("", "diffpatch-hunk-edit-*.diff")
	if err != nil {
		return nil, fmt.Errorf("failed to create hunk edit file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, werr := tmp.WriteString(editHeader + FormatHunk(h) + editTrailer)
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return nil, fmt.Errorf("failed to write hunk edit file: %w", werr)
	}

	if err := b.invoker.Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited hunk: %w", err)
	}
	util.Debug("hunk edited", "path", path, "bytes", len(edited))

	return ReplaceHunk(h, string(edited))
}

// FormatHunk renders a hunk as plain unified diff text, header included.
func FormatHunk(h *diff.Hunk) string {
	var sb strings.Builder
	sb.WriteString(h.Header())
	sb.WriteString("\n")
	for _, ln := range h.Lines {
		sb.WriteString(ln.Origin.String())
		sb.WriteString(ln.Text)
		if !strings.HasSuffix(ln.Text, "\n") {
			sb.WriteString("\n\\ No newline at end of file\n")
		}
	}
	return sb.String()
}

// ReplaceHunk parses an edited buffer back into a hunk standing in for the
// original. Comment lines are stripped, the hunk header is recounted from
// the body, and the edited old side must match the original old side
// exactly; otherwise a ValidationError is returned and the original hunk
// stays pending.
func ReplaceHunk(original *diff.Hunk, edited string) (*diff.Hunk, error) {
	body := stripComments(edited)
	if strings.TrimSpace(stripHunkHeaders(body)) == "" {
		return nil, nil
	}

	frag, err := parseFragment(body, original)
	if err != nil {
		return nil, ValidationError{Reason: "edited hunk does not parse", Err: err}
	}

	replacement := &diff.Hunk{}
	for _, ln := range frag.Lines {
		var origin diff.LineOrigin
		switch ln.Op {
		case gitdiff.OpContext:
			origin = diff.LineContext
		case gitdiff.OpAdd:
			origin = diff.LineAdded
		case gitdiff.OpDelete:
			origin = diff.LineDeleted
		default:
			return nil, ValidationError{Reason: fmt.Sprintf("unsupported line op %v", ln.Op)}
		}
		replacement.Lines = append(replacement.Lines, diff.Line{Origin: origin, Text: ln.Line})
	}

	oldLines := replacement.OldLines()
	newLines := replacement.NewLines()
	replacement.OldSpan = original.OldSpan
	replacement.NewSpan = diff.Span{Start: original.NewSpan.Start, Lines: len(newLines)}

	if !equalLines(oldLines, original.OldLines()) {
		return nil, ValidationError{Reason: "old-side lines (context and removals) were modified"}
	}
	return replacement, nil
}

// parseFragment runs the edited body through the patch parser by wrapping
// it in minimal file headers. The @@ header is rewritten first so operator
// edits to the body never have to keep the line counts in sync by hand.
func parseFragment(body string, original *diff.Hunk) (*gitdiff.TextFragment, error) {
	recounted, err := recountHeader(body, original)
	if err != nil {
		return nil, err
	}
	patch := "--- a/x\n+++ b/x\n" + recounted
	files, _, err := gitdiff.Parse(strings.NewReader(patch))
	if err != nil {
		return nil, err
	}
	if len(files) != 1 || len(files[0].TextFragments) != 1 {
		return nil, fmt.Errorf("expected exactly one hunk, got %d", totalFragments(files))
	}
	return files[0].TextFragments[0], nil
}

func totalFragments(files []*gitdiff.File) int {
	n := 0
	for _, f := range files {
		n += len(f.TextFragments)
	}
	return n
}

// recountHeader replaces the @@ header with one whose counts match the
// edited body and whose start positions are the original hunk's.
func recountHeader(body string, original *diff.Hunk) (string, error) {
	lines := diff.SplitLines(body)
	oldCount, newCount := 0, 0
	var content []string
	seenHeader := false
	for _, ln := range lines {
		switch {
		case strings.HasPrefix(ln, "@@"):
			if seenHeader {
				return "", fmt.Errorf("more than one @@ header")
			}
			seenHeader = true
			continue
		case strings.HasPrefix(ln, "\\"):
			content = append(content, ln)
			continue
		case strings.TrimRight(ln, "\n") == "":
			// An empty line in the buffer stands for an empty context line.
			content = append(content, " \n")
			oldCount++
			newCount++
			continue
		}
		switch ln[0] {
		case ' ':
			oldCount++
			newCount++
		case '-':
			oldCount++
		case '+':
			newCount++
		default:
			return "", fmt.Errorf("unexpected line prefix %q", ln[0])
		}
		content = append(content, ln)
	}

	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@\n", original.OldSpan.Start, oldCount, original.NewSpan.Start, newCount)
	return header + strings.Join(content, ""), nil
}

func stripComments(text string) string {
	var sb strings.Builder
	for _, ln := range diff.SplitLines(text) {
		if strings.HasPrefix(ln, "#") {
			continue
		}
		sb.WriteString(ln)
	}
	return sb.String()
}

func stripHunkHeaders(text string) string {
	var sb strings.Builder
	for _, ln := range diff.SplitLines(text) {
		if strings.HasPrefix(ln, "@@") || strings.HasPrefix(ln, "\\") {
			continue
		}
		sb.WriteString(ln)
	}
	return sb.String()
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
