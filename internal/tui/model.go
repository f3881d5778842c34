// Package tui implements the interactive IR explorer session.
package tui

import (
	"context"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/irex/internal/core/config"
	"github.com/colonyops/irex/internal/explore"
	"github.com/colonyops/irex/internal/tui/components"
)

// UIState represents the current input mode of the explorer.
type UIState int

const (
	stateNormal UIState = iota
	stateGoto
	stateInspecting
)

// Key constants for event handling.
const (
	keyEnter     = "enter"
	keyEscape    = "esc"
	keyBackspace = "backspace"
	keyCtrlC     = "ctrl+c"
	keyUp        = "up"
	keyDown      = "down"
)

// redrawInterval bounds how stale the screen can get without input.
const redrawInterval = 500 * time.Millisecond

// redrawTickMsg triggers a periodic repaint.
type redrawTickMsg time.Time

func scheduleRedrawTick() tea.Cmd {
	return tea.Tick(redrawInterval, func(t time.Time) tea.Msg {
		return redrawTickMsg(t)
	})
}

// Model is the main Bubble Tea model for the explorer.
type Model struct {
	cfg    *config.Config
	engine *explore.Engine

	state     UIState
	gotoInput textinput.Model
	inspector *components.Inspector
	errMsg    string

	width    int
	height   int
	quitting bool
}

// New creates an explorer model over an initialized engine.
func New(cfg *config.Config, engine *explore.Engine) Model {
	input := textinput.New()
	input.Placeholder = "instruction index"
	input.Prompt = ""
	input.SetWidth(12)
	input.SetStyles(textinput.DefaultStyles(true))

	return Model{
		cfg:       cfg,
		engine:    engine,
		state:     stateNormal,
		gotoInput: input,
	}
}

// Init starts the redraw ticker.
func (m Model) Init() tea.Cmd {
	return scheduleRedrawTick()
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case redrawTickMsg:
		return m, scheduleRedrawTick()

	case tea.KeyMsg:
		// Any key press clears a previously reported error.
		m.errMsg = ""
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateGoto:
		return m.handleGotoKey(msg)
	case stateInspecting:
		return m.handleInspectKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

// normalizeKey maps a key message to the single-character form the keymap
// uses, so a configured " " binding matches the space key.
func normalizeKey(msg tea.KeyMsg) string {
	key := msg.String()
	if key == "space" {
		return " "
	}
	return key
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := normalizeKey(msg)
	keys := m.cfg.Keys

	switch key {
	case keyCtrlC, keys.Quit:
		m.quitting = true
		return m, tea.Quit

	case keys.Inspect:
		block := m.engine.Current()
		inst, ok := block.Selected()
		if !ok {
			m.errMsg = "no instruction selected to inspect"
			return m, nil
		}
		m.inspector = components.NewInspector(block.Cursor, inst, m.width, m.height)
		m.state = stateInspecting
		return m, nil

	case keys.Goto:
		m.gotoInput.Reset()
		m.state = stateGoto
		return m, m.gotoInput.Focus()

	case keyUp, keys.Up:
		m.engine.MoveSelection(-1)
		return m, nil

	case keyDown, keys.Down:
		m.engine.MoveSelection(1)
		return m, nil

	case keyEnter, keys.Forward:
		if err := m.engine.JumpForward(context.Background()); err != nil {
			m.errMsg = err.Error()
		}
		return m, nil

	case keyBackspace, keys.Back:
		if err := m.engine.JumpBackward(); err != nil {
			m.errMsg = err.Error()
		}
		return m, nil

	case keyEscape:
		// Escape only closes overlays; idle in normal mode.
		return m, nil
	}

	log.Debug().Str("key", key).Msg("unbound key ignored")
	return m, nil
}

func (m Model) handleGotoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		text := m.gotoInput.Value()
		m.state = stateNormal
		m.gotoInput.Blur()
		if err := m.engine.GotoText(text); err != nil {
			m.errMsg = err.Error()
		}
		return m, nil

	case keyEscape, keyCtrlC:
		m.state = stateNormal
		m.gotoInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return m, cmd
}

func (m Model) handleInspectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := normalizeKey(msg)
	keys := m.cfg.Keys

	switch key {
	case keyCtrlC, keys.Quit:
		m.quitting = true
		return m, tea.Quit

	case keyEscape, keys.Inspect:
		m.inspector = nil
		m.state = stateNormal
		return m, nil

	case keyUp, keys.Up:
		m.inspector.ScrollUp()
		return m, nil

	case keyDown, keys.Down:
		m.inspector.ScrollDown()
		return m, nil
	}

	return m, nil
}
