package tui

import (
	"context"
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/irex/internal/core/config"
	"github.com/colonyops/irex/internal/core/styles"
	"github.com/colonyops/irex/internal/explore"
	"github.com/colonyops/irex/internal/ir"
	"github.com/colonyops/irex/pkg/tuitest"
)

type stubResolver struct {
	blocks map[ir.Ref]*ir.Block
	calls  int
}

func (s *stubResolver) Resolve(_ context.Context, ref ir.Ref) (*ir.Block, error) {
	s.calls++
	b, ok := s.blocks[ref]
	if !ok {
		return nil, fmt.Errorf("unknown ref %s", ref)
	}
	return b, nil
}

func intPtr(n int) *int { return &n }

func entryBlock() *ir.Block {
	return &ir.Block{
		ID:     1,
		Span:   ir.Span{Start: 0, End: 28},
		Source: "let x = 3\nincr $x\nif $x { }",
		Instructions: []ir.Instruction{
			{Kind: ir.KindOther, Formatted: "load-variable %1, $x", Span: ir.Span{Start: 4, End: 5}},
			{Kind: ir.KindCall, DeclID: 7, Formatted: "call decl 7 \"incr\"", Span: ir.Span{Start: 10, End: 17}},
			{Kind: ir.KindBranch, BranchTarget: intPtr(0), Formatted: "branch-if %2, 0", Span: ir.Span{Start: 18, End: 27}},
		},
	}
}

func calleeBlock() *ir.Block {
	return &ir.Block{
		ID:     2,
		Span:   ir.Span{Start: 0, End: 11},
		Source: "$in + 1",
		Instructions: []ir.Instruction{
			{Kind: ir.KindOther, Formatted: "load-variable %1, $in", Span: ir.Span{Start: 0, End: 3}},
		},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()

	resolver := &stubResolver{blocks: map[ir.Ref]*ir.Block{
		ir.DeclRef(7): calleeBlock(),
	}}
	engine := explore.New(resolver, entryBlock())

	cfg := config.DefaultConfig()
	m := New(&cfg, engine)

	next, _ := m.Update(tuitest.WindowSize(80, 24))
	return next.(Model)
}

func apply(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()

	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)

	m, cmd := apply(t, m, tuitest.KeyPress('q'))

	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
}

func TestMoveFollowAndBack(t *testing.T) {
	m := newTestModel(t)

	m, _ = apply(t, m, tuitest.KeyDown(), tuitest.KeyEnter())

	assert.Equal(t, 2, m.engine.Depth())
	assert.Equal(t, ir.BlockID(2), m.engine.Current().ID)
	assert.Empty(t, m.errMsg)

	m, _ = apply(t, m, tuitest.KeyPress('b'))

	assert.Equal(t, 1, m.engine.Depth())
	assert.Equal(t, ir.BlockID(1), m.engine.Current().ID)
	assert.Equal(t, 1, m.engine.Current().Cursor, "selection survives the round trip")
}

func TestBackWithoutHistoryReportsError(t *testing.T) {
	m := newTestModel(t)

	m, _ = apply(t, m, tuitest.KeyPress('b'))

	assert.NotEmpty(t, m.errMsg)
	assert.Equal(t, 1, m.engine.Depth())
}

func TestEscapeIdleInNormalMode(t *testing.T) {
	m := newTestModel(t)

	m, _ = apply(t, m, tuitest.KeyEsc())

	assert.Empty(t, m.errMsg, "escape with nothing to close is a no-op")
	assert.Equal(t, 1, m.engine.Depth())
	assert.Equal(t, 0, m.engine.HistoryLen())
}

func TestFollowWithoutTargetReportsError(t *testing.T) {
	m := newTestModel(t)

	// Selection starts on a plain instruction with no jump target.
	m, _ = apply(t, m, tuitest.KeyEnter())

	assert.NotEmpty(t, m.errMsg)
	assert.Equal(t, 1, m.engine.Depth())
}

func TestErrorClearedOnNextKey(t *testing.T) {
	m := newTestModel(t)

	m, _ = apply(t, m, tuitest.KeyEnter())
	require.NotEmpty(t, m.errMsg)

	m, _ = apply(t, m, tuitest.KeyDown())

	assert.Empty(t, m.errMsg)
	assert.Equal(t, 1, m.engine.Current().Cursor)
}

func TestGotoPromptJumps(t *testing.T) {
	m := newTestModel(t)

	m, _ = apply(t, m, tuitest.KeyPress('g'))
	require.Equal(t, stateGoto, m.state)

	m, _ = apply(t, m, tuitest.TypeString("2")...)
	m, _ = apply(t, m, tuitest.KeyEnter())

	assert.Equal(t, stateNormal, m.state)
	assert.Empty(t, m.errMsg)
	assert.Equal(t, 2, m.engine.Current().Cursor)
}

func TestGotoPromptCancel(t *testing.T) {
	m := newTestModel(t)

	m, _ = apply(t, m, tuitest.KeyPress('g'))
	m, _ = apply(t, m, tuitest.TypeString("2")...)
	m, _ = apply(t, m, tuitest.KeyEsc())

	assert.Equal(t, stateNormal, m.state)
	assert.Equal(t, 0, m.engine.Current().Cursor, "cancel does not jump")
}

func TestGotoPromptRejectsBadInput(t *testing.T) {
	m := newTestModel(t)

	m, _ = apply(t, m, tuitest.KeyPress('g'))
	m, _ = apply(t, m, tuitest.TypeString("zz")...)
	m, _ = apply(t, m, tuitest.KeyEnter())

	assert.Equal(t, stateNormal, m.state)
	assert.NotEmpty(t, m.errMsg)
	assert.Equal(t, 0, m.engine.Current().Cursor)
}

func TestGotoPromptRejectsOutOfRange(t *testing.T) {
	m := newTestModel(t)

	m, _ = apply(t, m, tuitest.KeyPress('g'))
	m, _ = apply(t, m, tuitest.TypeString("99")...)
	m, _ = apply(t, m, tuitest.KeyEnter())

	assert.NotEmpty(t, m.errMsg)
	assert.Equal(t, 0, m.engine.Current().Cursor)
}

func TestInspectorOpensAndCloses(t *testing.T) {
	m := newTestModel(t)

	m, _ = apply(t, m, tuitest.KeySpace())

	require.Equal(t, stateInspecting, m.state)
	require.NotNil(t, m.inspector)

	m, _ = apply(t, m, tuitest.KeyEsc())

	assert.Equal(t, stateNormal, m.state)
	assert.Nil(t, m.inspector)
}

func TestInspectorOnEmptyBlockReportsError(t *testing.T) {
	resolver := &stubResolver{blocks: map[ir.Ref]*ir.Block{}}
	engine := explore.New(resolver, &ir.Block{ID: 9, Source: ""})
	cfg := config.DefaultConfig()
	m := New(&cfg, engine)

	m, _ = apply(t, m, tuitest.KeySpace())

	assert.Equal(t, stateNormal, m.state)
	assert.NotEmpty(t, m.errMsg)
}

func TestInstructionPanelShowsSelection(t *testing.T) {
	m := newTestModel(t)
	m, _ = apply(t, m, tuitest.KeyDown())

	panel := tuitest.StripANSI(m.renderInstructionPanel(m.engine.Current(), 40, 20))

	assert.Contains(t, panel, "block 1")
	assert.Contains(t, panel, `1: call decl 7 "incr"`)
	assert.Contains(t, panel, "branch-if %2, 0")
}

func TestSourcePanelHighlightPreservesText(t *testing.T) {
	m := newTestModel(t)
	m, _ = apply(t, m, tuitest.KeyDown())

	panel := tuitest.StripANSI(m.renderSourcePanel(m.engine.Current(), 40, 20))

	assert.Contains(t, panel, "incr $x")
	assert.Contains(t, panel, "let x = 3")
}

func TestSourcePanelHighlightsAbsoluteSpans(t *testing.T) {
	block := &ir.Block{
		ID:     4,
		Span:   ir.Span{Start: 100, End: 127},
		Source: "let x = 3\nincr $x\nif $x { }",
		Instructions: []ir.Instruction{
			{Kind: ir.KindCall, DeclID: 7, Formatted: "call decl 7", Span: ir.Span{Start: 110, End: 117}},
		},
	}
	engine := explore.New(&stubResolver{}, block)
	cfg := config.DefaultConfig()
	m := New(&cfg, engine)

	panel := m.renderSourcePanel(block, 40, 20)

	// The instruction span is absolute; offset against the block span it
	// must land exactly on the middle source line.
	assert.Contains(t, panel, styles.SourceHighlightStyle.Render("incr $x"))
	assert.Contains(t, tuitest.StripANSI(panel), "let x = 3")
}

func TestStatusBarPrecedence(t *testing.T) {
	m := newTestModel(t)

	bar := tuitest.StripANSI(m.renderStatusBar(120))
	assert.Contains(t, bar, "quit")
	assert.Contains(t, bar, "space inspect")

	m, _ = apply(t, m, tuitest.KeyPress('g'))
	bar = tuitest.StripANSI(m.renderStatusBar(120))
	assert.Contains(t, bar, "Go to instruction")

	m, _ = apply(t, m, tuitest.KeyEsc())
	m, _ = apply(t, m, tuitest.KeyEnter())
	bar = tuitest.StripANSI(m.renderStatusBar(120))
	assert.Contains(t, bar, "ERROR:")
}

func TestRedrawTickReschedules(t *testing.T) {
	m := newTestModel(t)

	_, cmd := apply(t, m, redrawTickMsg{})
	assert.NotNil(t, cmd)
}
