// Package ir defines the compiled-block data model produced by `view ir`.
package ir

import (
	"encoding/json"
	"fmt"
)

// BlockID identifies a compiled block in the host engine.
type BlockID int

// DeclID identifies a declaration (custom command) in the host engine.
type DeclID int

// Span is a byte range into the original source, in absolute coordinates
// shared across the whole source file.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// IsZero reports whether the span is the zero value (no source correspondence).
func (s Span) IsZero() bool {
	return s.Start == 0 && s.End == 0
}

// Contains reports whether other lies fully within s.
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Kind discriminates instruction behavior for navigation and coloring.
type Kind int

const (
	// KindOther is an instruction with no jump behavior.
	KindOther Kind = iota
	// KindCall calls a declaration; jumping forward enters its block.
	KindCall
	// KindLoadLiteral loads a literal value, possibly a nested block.
	KindLoadLiteral
	// KindBranch carries a local branch target within the same block.
	KindBranch
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindLoadLiteral:
		return "load-literal"
	case KindBranch:
		return "branch"
	default:
		return "other"
	}
}

// LiteralKind discriminates the literal payload of a load-literal instruction.
type LiteralKind int

const (
	// LitPlain is any literal that is not a nested block.
	LitPlain LiteralKind = iota
	// LitBlock is a nested anonymous block literal.
	LitBlock
	// LitClosure is a nested closure literal.
	LitClosure
	// LitRowCondition is a nested row-condition literal.
	LitRowCondition
)

// String returns the lowercase name of the literal kind.
func (k LiteralKind) String() string {
	switch k {
	case LitBlock:
		return "block"
	case LitClosure:
		return "closure"
	case LitRowCondition:
		return "row-condition"
	default:
		return "plain"
	}
}

// Instruction is one step of a compiled block. Instructions are immutable
// once fetched and identified by their index within the owning block.
type Instruction struct {
	Kind         Kind
	Literal      LiteralKind
	DeclID       DeclID  // valid when Kind == KindCall
	BlockID      BlockID // valid when Kind == KindLoadLiteral and Literal != LitPlain
	BranchTarget *int    // valid when Kind == KindBranch
	Formatted    string
	Comment      string
	Span         Span
	Raw          json.RawMessage // original JSON, shown by the inspector
}

// EntersBlock reports whether jumping forward on this instruction opens a
// nested block (a call, or a literal load of a block-like literal).
func (in Instruction) EntersBlock() bool {
	if in.Kind == KindCall {
		return true
	}
	return in.Kind == KindLoadLiteral && in.Literal != LitPlain
}

// Block is one compiled unit: a declaration body or an anonymous block,
// together with the source text it was extracted from. A Block owns its
// source and instruction list exclusively.
type Block struct {
	ID           BlockID
	Span         Span
	Source       string
	Instructions []Instruction

	// Cursor is the currently selected instruction index. It is persisted on
	// the block so re-entering restores where the operator left off.
	Cursor int
}

// NewBlock assembles a block from the parallel arrays the resolver returns,
// enforcing that every instruction has exactly one span, formatted rendering,
// and comment.
func NewBlock(id BlockID, span Span, source string, insts []Instruction, spans []Span, formatted, comments []string) (*Block, error) {
	n := len(insts)
	if len(spans) != n || len(formatted) != n || len(comments) != n {
		return nil, fmt.Errorf(
			"block %d: mismatched instruction arrays: %d instructions, %d spans, %d formatted, %d comments",
			id, n, len(spans), len(formatted), len(comments),
		)
	}

	out := make([]Instruction, n)
	for i := range insts {
		out[i] = insts[i]
		out[i].Span = spans[i]
		out[i].Formatted = formatted[i]
		out[i].Comment = comments[i]
	}

	return &Block{
		ID:           id,
		Span:         span,
		Source:       source,
		Instructions: out,
	}, nil
}

// Len returns the number of instructions in the block.
func (b *Block) Len() int {
	return len(b.Instructions)
}

// Selected returns the instruction under the cursor, or false when the block
// is empty or the cursor is out of range.
func (b *Block) Selected() (Instruction, bool) {
	if b.Cursor < 0 || b.Cursor >= len(b.Instructions) {
		return Instruction{}, false
	}
	return b.Instructions[b.Cursor], true
}
