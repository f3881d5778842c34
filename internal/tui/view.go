package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/irex/internal/core/styles"
	"github.com/colonyops/irex/internal/explore"
	"github.com/colonyops/irex/internal/ir"
)

// View renders the two-panel explorer with a one-line status bar.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	panelHeight := max(h-1, 3)
	leftWidth := w / 2
	rightWidth := w - leftWidth

	block := m.engine.Current()

	left := m.renderInstructionPanel(block, leftWidth, panelHeight)
	right := m.renderSourcePanel(block, rightWidth, panelHeight)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		m.renderStatusBar(w),
	)

	if m.state == stateInspecting && m.inspector != nil {
		content = m.inspector.Overlay(content, w, h)
	}

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

// renderInstructionPanel renders the instruction listing with the selection
// kept inside a scroll window around the cursor.
func (m Model) renderInstructionPanel(block *ir.Block, width, height int) string {
	innerWidth := max(width-2, 10)
	innerHeight := max(height-2, 1)

	title := fmt.Sprintf("block %d", block.ID)
	if depth := m.engine.Depth(); depth > 1 {
		title = fmt.Sprintf("block %d · depth %d", block.ID, depth)
	}

	lines := make([]string, 0, innerHeight)
	lines = append(lines, styles.PanelTitleStyle.Render(ansi.Truncate(title, innerWidth, "…")))

	visible := innerHeight - 1
	start := scrollStart(block.Cursor, block.Len(), visible)

	for i := start; i < block.Len() && i < start+visible; i++ {
		lines = append(lines, m.renderInstructionLine(block, i, innerWidth))
	}
	if block.Len() == 0 {
		lines = append(lines, styles.TextMutedStyle.Render("(empty block)"))
	}

	return styles.PanelFocusedStyle.
		Width(innerWidth).
		Height(innerHeight).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderInstructionLine(block *ir.Block, index, width int) string {
	inst := block.Instructions[index]

	if index == block.Cursor {
		line := fmt.Sprintf("%4d: %s", index, inst.Formatted)
		if inst.Comment != "" {
			line += " # " + inst.Comment
		}
		return styles.InstSelectedStyle.Render(ansi.Truncate(line, width, "…"))
	}

	line := styles.IndexStyle.Render(fmt.Sprintf("%4d: ", index)) +
		instructionStyle(inst).Render(inst.Formatted)
	if inst.Comment != "" {
		line += styles.InstCommentStyle.Render(" # " + inst.Comment)
	}
	return ansi.Truncate(line, width, "…")
}

func instructionStyle(inst ir.Instruction) lipgloss.Style {
	switch {
	case inst.Kind == ir.KindCall:
		return styles.InstCallStyle
	case inst.Kind == ir.KindLoadLiteral:
		return styles.InstLiteralStyle
	case inst.BranchTarget != nil:
		return styles.InstBranchStyle
	default:
		return lipgloss.NewStyle()
	}
}

// renderSourcePanel renders the block source with the selected instruction's
// span highlighted.
func (m Model) renderSourcePanel(block *ir.Block, width, height int) string {
	innerWidth := max(width-2, 10)
	innerHeight := max(height-2, 1)

	var target ir.Span
	if inst, ok := block.Selected(); ok {
		target = inst.Span
	}
	highlighted := explore.HighlightSpan(block.Source, block.Span, target)

	lines := make([]string, 0, innerHeight)
	lines = append(lines, styles.PanelTitleStyle.Render("source"))

	// Keep the first highlighted line in view.
	focus := 0
	for i, line := range highlighted {
		if lineHasHighlight(line) {
			focus = i
			break
		}
	}
	visible := innerHeight - 1
	start := scrollStart(focus, len(highlighted), visible)

	for i := start; i < len(highlighted) && i < start+visible; i++ {
		lines = append(lines, ansi.Truncate(renderSourceLine(highlighted[i]), innerWidth, "…"))
	}

	return styles.PanelStyle.
		Width(innerWidth).
		Height(innerHeight).
		Render(strings.Join(lines, "\n"))
}

func renderSourceLine(line explore.Line) string {
	var b strings.Builder
	for _, seg := range line.Segments {
		if seg.Highlight {
			b.WriteString(styles.SourceHighlightStyle.Render(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func lineHasHighlight(line explore.Line) bool {
	for _, seg := range line.Segments {
		if seg.Highlight {
			return true
		}
	}
	return false
}

// scrollStart positions a window of the given size so the focus index stays
// visible, clamped to the list bounds.
func scrollStart(focus, total, window int) int {
	if window <= 0 || total <= window {
		return 0
	}
	start := focus - window/2
	if start < 0 {
		start = 0
	}
	if start > total-window {
		start = total - window
	}
	return start
}

// renderStatusBar renders the bottom line: an error beats the goto prompt,
// which beats the key legend.
func (m Model) renderStatusBar(width int) string {
	switch {
	case m.errMsg != "":
		bar := styles.StatusErrorLabelStyle.Render("ERROR: ") +
			styles.StatusErrorStyle.Render(m.errMsg)
		return ansi.Truncate(bar, width, "…")

	case m.state == stateGoto:
		bar := styles.StatusPromptStyle.Render("Go to instruction: ") + m.gotoInput.View()
		return ansi.Truncate(bar, width, "…")

	default:
		return ansi.Truncate(m.renderLegend(), width, "…")
	}
}

func (m Model) renderLegend() string {
	keys := m.cfg.Keys
	entries := []struct {
		key  string
		desc string
	}{
		{keys.Quit, "quit"},
		{keys.Inspect, "inspect"},
		{keys.Goto, "goto"},
		{keys.Back, "back"},
		{keyEnter, "follow"},
		{keys.Up + "/" + keys.Down, "move"},
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts,
			styles.StatusKeyStyle.Render(keyLabel(e.key))+" "+styles.StatusDescStyle.Render(e.desc))
	}
	return strings.Join(parts, "  ")
}

// keyLabel renders a keymap entry for display, naming the space key.
func keyLabel(key string) string {
	if key == " " {
		return "space"
	}
	return key
}
