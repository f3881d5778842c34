package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInstruction(t *testing.T) {
	intPtr := func(i int) *int { return &i }

	tests := []struct {
		name string
		json string
		want Instruction
	}{
		{
			name: "unit variant is other",
			json: `"Drain"`,
			want: Instruction{Kind: KindOther},
		},
		{
			name: "call carries decl id",
			json: `{"Call": {"decl_id": 42, "src_dst": 0}}`,
			want: Instruction{Kind: KindCall, DeclID: 42},
		},
		{
			name: "load literal block",
			json: `{"LoadLiteral": {"dst": 1, "lit": {"Block": 7}}}`,
			want: Instruction{Kind: KindLoadLiteral, Literal: LitBlock, BlockID: 7},
		},
		{
			name: "load literal closure",
			json: `{"LoadLiteral": {"dst": 1, "lit": {"Closure": 9}}}`,
			want: Instruction{Kind: KindLoadLiteral, Literal: LitClosure, BlockID: 9},
		},
		{
			name: "load literal row condition",
			json: `{"LoadLiteral": {"dst": 0, "lit": {"RowCondition": 3}}}`,
			want: Instruction{Kind: KindLoadLiteral, Literal: LitRowCondition, BlockID: 3},
		},
		{
			name: "load literal int is plain",
			json: `{"LoadLiteral": {"dst": 0, "lit": {"Int": 3}}}`,
			want: Instruction{Kind: KindLoadLiteral, Literal: LitPlain},
		},
		{
			name: "load literal nothing is plain",
			json: `{"LoadLiteral": {"dst": 0, "lit": "Nothing"}}`,
			want: Instruction{Kind: KindLoadLiteral, Literal: LitPlain},
		},
		{
			name: "jump carries branch target",
			json: `{"Jump": {"index": 10}}`,
			want: Instruction{Kind: KindBranch, BranchTarget: intPtr(10)},
		},
		{
			name: "branch-if carries branch target",
			json: `{"BranchIf": {"cond": 1, "index": 5}}`,
			want: Instruction{Kind: KindBranch, BranchTarget: intPtr(5)},
		},
		{
			name: "iterate uses end index",
			json: `{"Iterate": {"dst": 0, "stream": 1, "end_index": 9}}`,
			want: Instruction{Kind: KindBranch, BranchTarget: intPtr(9)},
		},
		{
			name: "plain instruction",
			json: `{"Collect": {"src_dst": 0}}`,
			want: Instruction{Kind: KindOther},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeInstruction(json.RawMessage(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.Equal(t, tt.want.Literal, got.Literal)
			assert.Equal(t, tt.want.DeclID, got.DeclID)
			assert.Equal(t, tt.want.BlockID, got.BlockID)
			if tt.want.BranchTarget == nil {
				assert.Nil(t, got.BranchTarget)
			} else {
				require.NotNil(t, got.BranchTarget)
				assert.Equal(t, *tt.want.BranchTarget, *got.BranchTarget)
			}
		})
	}
}

func TestDecodeInstructionRejectsMultiKeyObject(t *testing.T) {
	_, err := decodeInstruction(json.RawMessage(`{"A": {}, "B": {}}`))
	assert.Error(t, err)
}

func TestDecodeViewIR(t *testing.T) {
	payload := `{
		"block_id": 12,
		"span": {"start": 100, "end": 140},
		"ir_block": {
			"instructions": [
				{"LoadLiteral": {"dst": 0, "lit": {"Int": 1}}},
				{"Call": {"decl_id": 5, "src_dst": 0}},
				{"Return": {"src": 0}}
			],
			"spans": [
				{"start": 100, "end": 105},
				{"start": 106, "end": 120},
				{"start": 100, "end": 140}
			],
			"comments": ["", "call out", ""],
			"register_count": 2,
			"file_count": 1
		},
		"formatted_instructions": ["load-literal %0, int 1", "call decl 5, %0", "return %0"]
	}`

	out, err := DecodeViewIR([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, BlockID(12), out.BlockID)
	assert.Equal(t, Span{Start: 100, End: 140}, out.Span)

	block, err := out.Block("some source")
	require.NoError(t, err)
	assert.Equal(t, 3, block.Len())
	assert.Equal(t, "some source", block.Source)
	assert.Equal(t, KindCall, block.Instructions[1].Kind)
	assert.Equal(t, DeclID(5), block.Instructions[1].DeclID)
	assert.Equal(t, "call out", block.Instructions[1].Comment)
	assert.Equal(t, Span{Start: 106, End: 120}, block.Instructions[1].Span)
	assert.Equal(t, "return %0", block.Instructions[2].Formatted)
}

func TestNewBlockRejectsMismatchedArrays(t *testing.T) {
	insts := []Instruction{{Kind: KindOther}, {Kind: KindOther}}
	spans := []Span{{Start: 0, End: 1}}

	_, err := NewBlock(1, Span{}, "", insts, spans, []string{"a", "b"}, []string{"", ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatched instruction arrays")
}

func TestInstructionEntersBlock(t *testing.T) {
	tests := []struct {
		name string
		inst Instruction
		want bool
	}{
		{"call", Instruction{Kind: KindCall, DeclID: 7}, true},
		{"block literal", Instruction{Kind: KindLoadLiteral, Literal: LitBlock, BlockID: 2}, true},
		{"closure literal", Instruction{Kind: KindLoadLiteral, Literal: LitClosure, BlockID: 2}, true},
		{"row-condition literal", Instruction{Kind: KindLoadLiteral, Literal: LitRowCondition, BlockID: 2}, true},
		{"plain literal", Instruction{Kind: KindLoadLiteral, Literal: LitPlain}, false},
		{"branch", Instruction{Kind: KindBranch}, false},
		{"other", Instruction{Kind: KindOther}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.inst.EntersBlock())
		})
	}
}

func TestBlockSelected(t *testing.T) {
	b := &Block{Instructions: []Instruction{{Formatted: "a"}, {Formatted: "b"}}}

	inst, ok := b.Selected()
	assert.True(t, ok)
	assert.Equal(t, "a", inst.Formatted)

	b.Cursor = 5
	_, ok = b.Selected()
	assert.False(t, ok)

	b.Instructions = nil
	b.Cursor = 0
	_, ok = b.Selected()
	assert.False(t, ok)
}
