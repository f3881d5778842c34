package ir

import (
	"encoding/json"
	"fmt"
)

// ViewIROutput mirrors the JSON emitted by `view ir --json`: the block
// identity, its overall span, the IR block payload, and the human-readable
// rendering of each instruction.
type ViewIROutput struct {
	BlockID   BlockID    `json:"block_id"`
	Span      Span       `json:"span"`
	IRBlock   rawIRBlock `json:"ir_block"`
	Formatted []string   `json:"formatted_instructions"`
}

// rawIRBlock carries the parallel arrays of the serialized IR block. Fields
// not needed for exploration (register count, data buffer, AST) are ignored.
type rawIRBlock struct {
	Instructions []json.RawMessage `json:"instructions"`
	Spans        []Span            `json:"spans"`
	Comments     []string          `json:"comments"`
}

// DecodeViewIR parses the output of `view ir --json`.
func DecodeViewIR(data []byte) (*ViewIROutput, error) {
	var out ViewIROutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse view ir output: %w", err)
	}
	return &out, nil
}

// Block assembles a Block from the decoded output and the block's source
// text, classifying every instruction for navigation.
func (v *ViewIROutput) Block(source string) (*Block, error) {
	insts := make([]Instruction, len(v.IRBlock.Instructions))
	for i, raw := range v.IRBlock.Instructions {
		inst, err := decodeInstruction(raw)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		insts[i] = inst
	}
	return NewBlock(v.BlockID, v.Span, source, insts, v.IRBlock.Spans, v.Formatted, v.IRBlock.Comments)
}

// instructionFields probes the payload of an externally-tagged instruction
// variant for the fields that determine jump behavior.
type instructionFields struct {
	DeclID   *int             `json:"decl_id"`
	Lit      *json.RawMessage `json:"lit"`
	Index    *int             `json:"index"`
	EndIndex *int             `json:"end_index"`
}

// decodeInstruction classifies one serialized instruction. The serialization
// is an externally tagged enum: either a bare string for unit variants
// ("Drain") or a single-key object ({"Call": {"decl_id": 5, ...}}).
func decodeInstruction(raw json.RawMessage) (Instruction, error) {
	inst := Instruction{Kind: KindOther, Raw: raw}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		// Unit variant: nothing to jump to.
		return inst, nil
	}

	var variant map[string]json.RawMessage
	if err := json.Unmarshal(raw, &variant); err != nil {
		return Instruction{}, fmt.Errorf("unrecognized instruction encoding: %w", err)
	}
	if len(variant) != 1 {
		return Instruction{}, fmt.Errorf("expected single-variant instruction object, got %d keys", len(variant))
	}

	var payload json.RawMessage
	for _, v := range variant {
		payload = v
	}

	var fields instructionFields
	// Payloads that are not objects (e.g. a bare register number) carry none
	// of the fields we care about.
	if err := json.Unmarshal(payload, &fields); err != nil {
		return inst, nil
	}

	switch {
	case fields.DeclID != nil:
		inst.Kind = KindCall
		inst.DeclID = DeclID(*fields.DeclID)
	case fields.Lit != nil:
		inst.Kind = KindLoadLiteral
		inst.Literal, inst.BlockID = decodeLiteral(*fields.Lit)
	case fields.Index != nil:
		inst.Kind = KindBranch
		inst.BranchTarget = fields.Index
	case fields.EndIndex != nil:
		inst.Kind = KindBranch
		inst.BranchTarget = fields.EndIndex
	}
	return inst, nil
}

// decodeLiteral inspects a literal payload and returns its kind plus the
// nested block id for block-like literals.
func decodeLiteral(raw json.RawMessage) (LiteralKind, BlockID) {
	var variant map[string]json.RawMessage
	if err := json.Unmarshal(raw, &variant); err != nil || len(variant) != 1 {
		// Bare string literals ("Nothing") and anything unrecognized are plain.
		return LitPlain, 0
	}

	for name, payload := range variant {
		var kind LiteralKind
		switch name {
		case "Block":
			kind = LitBlock
		case "Closure":
			kind = LitClosure
		case "RowCondition":
			kind = LitRowCondition
		default:
			return LitPlain, 0
		}

		var id int
		if err := json.Unmarshal(payload, &id); err != nil {
			return LitPlain, 0
		}
		return kind, BlockID(id)
	}
	return LitPlain, 0
}
