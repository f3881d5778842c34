// Package explore implements the navigation core of irex: the block stack,
// the jump history, and the span highlight compositor.
package explore

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/irex/internal/ir"
)

// Resolver materializes a block from a reference. Implementations live in
// internal/ir/resolve; the engine only consumes the interface.
type Resolver interface {
	Resolve(ctx context.Context, ref ir.Ref) (*ir.Block, error)
}

// recordKind tags a jump record variant.
type recordKind int

const (
	// recordEnteredBlock undoes by popping the block stack.
	recordEnteredBlock recordKind = iota
	// recordLocalGoto undoes by restoring the previous selection index.
	recordLocalGoto
)

// jumpRecord is one reversible navigation action. Plain cursor movement is
// deliberately not recorded (see MoveSelection).
type jumpRecord struct {
	kind      recordKind
	prevIndex int
}

// Engine owns the block stack and jump history. All operations either fully
// apply or fully fail; failures are *NavError and leave state unchanged,
// with the single documented exception that an at-root backward jump still
// consumes its history record.
type Engine struct {
	resolver Resolver
	stack    []*ir.Block
	history  []jumpRecord

	// blocks caches resolved blocks by reference so re-entering one restores
	// its persisted cursor instead of resetting to the first instruction.
	blocks map[ir.Ref]*ir.Block
}

// New creates an engine rooted at the entry block. The stack is never empty
// for the lifetime of the session.
func New(resolver Resolver, entry *ir.Block) *Engine {
	return &Engine{
		resolver: resolver,
		stack:    []*ir.Block{entry},
		blocks:   make(map[ir.Ref]*ir.Block),
	}
}

// Current returns the top of the block stack: the block being viewed.
func (e *Engine) Current() *ir.Block {
	return e.stack[len(e.stack)-1]
}

// Depth returns the number of blocks on the stack.
func (e *Engine) Depth() int {
	return len(e.stack)
}

// HistoryLen returns the number of recorded jumps.
func (e *Engine) HistoryLen() int {
	return len(e.history)
}

// Enter pushes a block onto the stack, making it the render/input target.
func (e *Engine) Enter(b *ir.Block) {
	e.stack = append(e.stack, b)
}

// resolve fetches a block through the cache, so a block visited twice keeps
// its cursor position.
func (e *Engine) resolve(ctx context.Context, ref ir.Ref) (*ir.Block, error) {
	if b, ok := e.blocks[ref]; ok {
		return b, nil
	}
	b, err := e.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	e.blocks[ref] = b
	return b, nil
}

// JumpForward follows the selected instruction: into the callee block for
// calls, into the nested block for block-like literals, or to the local
// branch target for branch-capable instructions.
func (e *Engine) JumpForward(ctx context.Context) error {
	cur := e.Current()
	inst, ok := cur.Selected()
	if !ok {
		return navErr(ErrNothingSelected)
	}

	var ref ir.Ref
	switch {
	case inst.EntersBlock():
		if inst.Kind == ir.KindCall {
			ref = ir.DeclRef(inst.DeclID)
		} else {
			ref = ir.BlockRef(inst.BlockID)
		}
	case inst.BranchTarget != nil:
		e.history = append(e.history, jumpRecord{kind: recordLocalGoto, prevIndex: cur.Cursor})
		cur.Cursor = *inst.BranchTarget
		return nil
	default:
		return navErr(ErrNoTarget)
	}

	block, err := e.resolve(ctx, ref)
	if err != nil {
		log.Debug().Err(err).Stringer("ref", ref).Msg("block resolution failed")
		return navErrf(ErrResolutionFailed, "%s: %s", ref, err)
	}

	e.history = append(e.history, jumpRecord{kind: recordEnteredBlock})
	e.Enter(block)
	return nil
}

// JumpBackward undoes the most recent recorded jump. An entered-block record
// at the bottom of the stack fails with AtRoot; the record is still consumed,
// matching the upstream behavior (see DESIGN.md).
func (e *Engine) JumpBackward() error {
	if len(e.history) == 0 {
		return navErr(ErrNoHistory)
	}

	rec := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]

	switch rec.kind {
	case recordEnteredBlock:
		if len(e.stack) <= 1 {
			return navErr(ErrAtRoot)
		}
		e.stack = e.stack[:len(e.stack)-1]
	case recordLocalGoto:
		e.Current().Cursor = rec.prevIndex
	}
	return nil
}

// Goto jumps the selection to an arbitrary instruction index in the current
// block, recording the previous selection so it is undoable.
func (e *Engine) Goto(index int) error {
	cur := e.Current()
	if index < 0 || index >= cur.Len() {
		return navErr(ErrIndexOutOfRange)
	}
	if _, ok := cur.Selected(); ok {
		e.history = append(e.history, jumpRecord{kind: recordLocalGoto, prevIndex: cur.Cursor})
	}
	cur.Cursor = index
	return nil
}

// GotoText parses goto-prompt input as a non-negative integer and jumps to it.
func (e *Engine) GotoText(text string) error {
	index, err := strconv.Atoi(text)
	if err != nil || index < 0 {
		return navErrf(ErrInvalidGotoInput, "%q is not a non-negative integer", text)
	}
	return e.Goto(index)
}

// MoveSelection moves the selection by delta, saturating at both ends. This
// is plain cursor movement, not a jump: it is never recorded in history.
func (e *Engine) MoveSelection(delta int) {
	cur := e.Current()
	if cur.Len() == 0 {
		return
	}
	next := cur.Cursor + delta
	if next < 0 {
		next = 0
	}
	if next > cur.Len()-1 {
		next = cur.Len() - 1
	}
	cur.Cursor = next
}
