package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diffpatch/diffpatch/internal/diff"
	"github.com/diffpatch/diffpatch/internal/materialize"
	"github.com/diffpatch/diffpatch/internal/session"
	"github.com/diffpatch/diffpatch/internal/tree"
)

// App is the full-screen review browser. Unlike the prompt-driven session
// it lets you jump between files freely; decisions land in the same ledger
// and are materialized when you press w.
type App struct {
	model    Model
	afterDir string
	changes  []*tree.FileChange
}

// NewApp creates a review browser over the detected changes.
func NewApp(changes []*tree.FileChange, summary *tree.Summary, beforeDir, afterDir string) *App {
	model := Model{
		changes:      changes,
		ledger:       session.NewLedger(changes),
		summary:      summary,
		beforeDir:    beforeDir,
		afterDir:     afterDir,
		windowWidth:  80,
		windowHeight: 24,
	}
	return &App{model: model, afterDir: afterDir, changes: changes}
}

// Run starts the browser and, if the session ended with w, materializes the
// accepted hunks into the after directory.
func (a *App) Run() error {
	p := tea.NewProgram(a.model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	m, ok := final.(Model)
	if !ok || !m.writeRequested {
		return nil
	}
	m.ledger.ResolveAllPending(session.Rejected)
	return materialize.Apply(a.afterDir, a.changes, m.ledger)
}

// Model holds the browser state.
type Model struct {
	changes   []*tree.FileChange
	ledger    *session.Ledger
	summary   *tree.Summary
	beforeDir string
	afterDir  string

	cursor       int // selected file index
	showingDiff  bool
	currentHunk  int // selected hunk within the shown file
	diffTop      int // first visible diff line
	windowWidth  int
	windowHeight int

	writeRequested bool
}

// Init is required by bubbletea; there is nothing to kick off.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "q", "esc":
		if m.showingDiff {
			m.showingDiff = false
			return m, nil
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}

	case "w":
		m.writeRequested = true
		return m, tea.Quit

	case "up", "k":
		if m.showingDiff {
			if m.currentHunk > 0 {
				m.currentHunk--
				m.diffTop = 0
			}
		} else if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.showingDiff {
			if m.currentHunk < m.currentChange().LogicalHunks()-1 {
				m.currentHunk++
				m.diffTop = 0
			}
		} else if m.cursor < len(m.changes)-1 {
			m.cursor++
		}

	case "pgup":
		if m.showingDiff && m.diffTop > 0 {
			m.diffTop -= m.diffViewLines()
			if m.diffTop < 0 {
				m.diffTop = 0
			}
		}

	case "pgdown":
		if m.showingDiff {
			m.diffTop += m.diffViewLines()
		}

	case "enter", " ":
		if !m.showingDiff && len(m.changes) > 0 {
			m.showingDiff = true
			m.currentHunk = 0
			m.diffTop = 0
		}

	case "y":
		return m.decide(session.Accepted), nil

	case "n":
		return m.decide(session.Rejected), nil

	case "a":
		m = m.decideFile(session.Accepted)
	case "d":
		m = m.decideFile(session.Rejected)
	}

	return m, nil
}

// decide records a resolution for the selected hunk. In the file list view
// the keys act on the file's first pending hunk, which makes single-hunk
// files quick to work through without opening them.
func (m Model) decide(state session.DecisionState) Model {
	if len(m.changes) == 0 {
		return m
	}
	hunk := m.currentHunk
	if !m.showingDiff {
		hunk = m.firstPendingHunk(m.cursor)
	}
	m.ledger.Set(m.cursor, hunk, state)
	if m.showingDiff && m.currentHunk < m.currentChange().LogicalHunks()-1 {
		m.currentHunk++
		m.diffTop = 0
	}
	return m
}

// decideFile resolves every hunk of the selected file at once.
func (m Model) decideFile(state session.DecisionState) Model {
	if len(m.changes) == 0 {
		return m
	}
	change := m.changes[m.cursor]
	for i := 0; i < change.LogicalHunks(); i++ {
		m.ledger.Set(m.cursor, i, state)
	}
	return m
}

func (m Model) firstPendingHunk(fileIdx int) int {
	change := m.changes[fileIdx]
	for i := 0; i < change.LogicalHunks(); i++ {
		if m.ledger.Resolution(fileIdx, i).State == session.Pending {
			return i
		}
	}
	return 0
}

func (m Model) currentChange() *tree.FileChange {
	return m.changes[m.cursor]
}

// View renders either the file list or the diff of the selected file.
func (m Model) View() string {
	if m.showingDiff {
		return m.viewDiff()
	}
	return m.viewFileList()
}

// getVisibleFileListLines calculates how many file lines fit in the viewport.
func (m Model) getVisibleFileListLines() int {
	// Header(2) + Dirs(3) + Summary(2) + Footer(3) = 10 lines reserved
	headerLines := 10
	if m.windowHeight <= headerLines {
		return 1
	}
	return m.windowHeight - headerLines
}

func (m Model) diffViewLines() int {
	reserved := 6 // header + footer
	if m.windowHeight <= reserved {
		return 1
	}
	return m.windowHeight - reserved
}

func (m Model) viewFileList() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	b.WriteString(headerStyle.Render("Diffpatch Hunk Review"))
	b.WriteString("\n\n")

	infoStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	b.WriteString(infoStyle.Render(fmt.Sprintf("Before: %s", m.beforeDir)))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("After:  %s", m.afterDir)))
	b.WriteString("\n\n")

	if m.summary != nil {
		b.WriteString(infoStyle.Render(fmt.Sprintf("Files: %d changed (%d added, %d removed, %d modified), %d hunks",
			len(m.changes), m.summary.AddedFiles, m.summary.RemovedFiles,
			m.summary.ModifiedFiles, m.summary.TotalHunks)))
		b.WriteString("\n\n")
	}

	if len(m.changes) == 0 {
		b.WriteString(infoStyle.Render("No differences found."))
	} else {
		visibleLines := m.getVisibleFileListLines()
		top := 0
		if m.cursor >= visibleLines {
			top = m.cursor - visibleLines + 1
		}
		end := top + visibleLines
		if end > len(m.changes) {
			end = len(m.changes)
		}

		for i := top; i < end; i++ {
			change := m.changes[i]
			line := fmt.Sprintf("  [%s] %s %-40s %s",
				m.progressCell(i), kindLetter(change.Kind), change.Path, hunkNote(change))
			if i == m.cursor {
				selectedStyle := lipgloss.NewStyle().Background(lipgloss.Color("8")).Foreground(lipgloss.Color("15"))
				line = selectedStyle.Render("▶" + line[1:])
			} else {
				kindStyle := lipgloss.NewStyle().Foreground(kindColor(change.Kind))
				line = kindStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	b.WriteString(helpStyle.Render("↑/↓: navigate  Enter: hunks  y/n: first pending hunk  a/d: whole file  w: write+quit  q: quit"))
	if pending := m.ledger.PendingCount(); pending > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render(
			fmt.Sprintf("● %d hunks undecided (rejected on write)", pending)))
	}
	return b.String()
}

func (m Model) viewDiff() string {
	var b strings.Builder
	change := m.currentChange()

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s  (hunk %d/%d)", change.Path, m.currentHunk+1, change.LogicalHunks())))
	b.WriteString("\n\n")

	lines := m.diffLines(change)
	view := m.diffViewLines()
	top := m.diffTop
	if top >= len(lines) {
		top = 0
	}
	end := top + view
	if end > len(lines) {
		end = len(lines)
	}
	for _, line := range lines[top:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	b.WriteString(helpStyle.Render("↑/↓: hunk  pgup/pgdn: scroll  y: accept  n: reject  a/d: whole file  esc: back  w: write+quit"))
	return b.String()
}

// diffLines renders the selected hunk (or the whole file for additions and
// removals) with per-line coloring and the recorded decision.
func (m Model) diffLines(change *tree.FileChange) []string {
	addStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	delStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hunkStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	var out []string
	res := m.ledger.Resolution(m.cursor, m.currentHunk)
	out = append(out, hunkStyle.Render(fmt.Sprintf("decision: %s", res.State.String())))
	out = append(out, "")

	if change.Binary {
		out = append(out, "binary file, no text diff")
		return out
	}
	if change.Kind != tree.ChangeModified {
		content := change.NewContent
		prefix, style := "+", addStyle
		if change.Kind == tree.ChangeRemoved {
			content = change.OldContent
			prefix, style = "-", delStyle
		}
		for _, line := range diff.SplitLines(content) {
			out = append(out, style.Render(prefix+strings.TrimSuffix(line, "\n")))
		}
		return out
	}

	h := change.Hunks[m.currentHunk]
	if res.State == session.Edited && res.Replacement != nil {
		h = res.Replacement
	}
	out = append(out, hunkStyle.Render(h.Header()))
	for _, line := range h.Lines {
		text := line.Origin.String() + strings.TrimSuffix(line.Text, "\n")
		switch line.Origin {
		case diff.LineAdded:
			out = append(out, addStyle.Render(text))
		case diff.LineDeleted:
			out = append(out, delStyle.Render(text))
		default:
			out = append(out, text)
		}
	}
	return out
}

// progressCell summarizes a file's decisions, e.g. "2/3" accepted.
func (m Model) progressCell(fileIdx int) string {
	change := m.changes[fileIdx]
	accepted, decided := 0, 0
	for i := 0; i < change.LogicalHunks(); i++ {
		switch m.ledger.Resolution(fileIdx, i).State {
		case session.Accepted, session.Edited:
			accepted++
			decided++
		case session.Rejected:
			decided++
		}
	}
	if decided == 0 {
		return " - "
	}
	return fmt.Sprintf("%d/%d", accepted, change.LogicalHunks())
}

func kindLetter(kind tree.ChangeKind) string {
	switch kind {
	case tree.ChangeAdded:
		return "A"
	case tree.ChangeRemoved:
		return "D"
	default:
		return "M"
	}
}

func kindColor(kind tree.ChangeKind) lipgloss.Color {
	switch kind {
	case tree.ChangeAdded:
		return lipgloss.Color("10")
	case tree.ChangeRemoved:
		return lipgloss.Color("9")
	default:
		return lipgloss.Color("11")
	}
}

func hunkNote(change *tree.FileChange) string {
	if change.Binary {
		return "binary"
	}
	if change.Kind != tree.ChangeModified {
		return "whole file"
	}
	return fmt.Sprintf("%d hunks", len(change.Hunks))
}
