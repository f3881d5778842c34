// Package components provides reusable TUI components.
package components

import (
	"bytes"
	"encoding/json"
	"fmt"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/irex/internal/core/styles"
	"github.com/colonyops/irex/internal/ir"
)

const (
	inspectorMaxHeight = 20
	inspectorMaxWidth  = 70
	inspectorMargin    = 4
	inspectorChrome    = 5 // title + dividers + help + spacing
)

// Inspector is a centered modal showing the full debug form of one
// instruction: its formatted rendering plus the raw IR payload.
type Inspector struct {
	index    int
	inst     ir.Instruction
	viewport viewport.Model
}

// NewInspector creates an inspector for the instruction at the given index.
func NewInspector(index int, inst ir.Instruction, width, height int) *Inspector {
	modalWidth := min(inspectorMaxWidth, max(width-inspectorMargin, 20))
	modalHeight := min(inspectorMaxHeight, max(height-inspectorMargin, 8))

	vp := viewport.New(
		viewport.WithWidth(modalWidth-4),
		viewport.WithHeight(modalHeight-inspectorChrome),
	)

	d := &Inspector{index: index, inst: inst, viewport: vp}
	d.viewport.SetContent(debugForm(inst))
	return d
}

// debugForm renders the raw instruction JSON indented, falling back to the
// kind name for instructions without a captured payload.
func debugForm(inst ir.Instruction) string {
	if len(inst.Raw) == 0 {
		return inst.Kind.String()
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, inst.Raw, "", "  "); err != nil {
		return string(inst.Raw)
	}
	return buf.String()
}

// ScrollUp scrolls the payload view up.
func (d *Inspector) ScrollUp() {
	d.viewport.ScrollUp(1)
}

// ScrollDown scrolls the payload view down.
func (d *Inspector) ScrollDown() {
	d.viewport.ScrollDown(1)
}

// Overlay renders the inspector centered over the provided background.
func (d *Inspector) Overlay(background string, width, height int) string {
	header := fmt.Sprintf(
		"%s %s",
		styles.IndexStyle.Render(fmt.Sprintf("%4d:", d.index)),
		d.inst.Formatted,
	)
	if d.inst.Comment != "" {
		header += styles.InstCommentStyle.Render(" # " + d.inst.Comment)
	}

	modalContent := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render("Inspect instruction"),
		header,
		"",
		d.viewport.View(),
		styles.ModalHelpStyle.Render("<esc> close  <j/k> scroll"),
	)

	modal := styles.ModalStyle.Render(modalContent)

	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	modalW := lipgloss.Width(modal)
	modalH := lipgloss.Height(modal)
	modalLayer.X(max((width-modalW)/2, 0)).Y(max((height-modalH)/2, 0)).Z(1)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}
