package asm

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Opcode metadata tests
// ---------------------------------------------------------------------------

func TestOpcodeInfo(t *testing.T) {
	tests := []struct {
		op           Opcode
		name         string
		operandBytes int
		stackEffect  int
	}{
		{OpSTOP, "STOP", 0, 0},
		{OpPOP, "POP", 0, -1},
		{OpDUPN, "DUPN", 1, 1},
		{OpSWAPN, "SWAPN", 1, 0},
		{OpADD, "ADD", 0, -1},
		{OpSUB, "SUB", 0, -1},
		{OpNOT, "NOT", 0, 0},
		{OpISZERO, "ISZERO", 0, 0},
		{OpLT, "LT", 0, -1},
		{OpEQ, "EQ", 0, -1},
		{OpPUSH1, "PUSH1", 1, 1},
		{OpPUSH2, "PUSH2", 2, 1},
		{OpPUSH4, "PUSH4", 4, 1},
		{OpPUSH8, "PUSH8", 8, 1},
		{OpSLOAD, "SLOAD", 0, 0},
		{OpSSTORE, "SSTORE", 0, -2},
		{OpCALLER, "CALLER", 0, 1},
		{OpCODESIZE, "CODESIZE", 0, 1},
		{OpCODECOPY, "CODECOPY", 0, -3},
		{OpJUMP, "JUMP", 0, -1},
		{OpJUMPI, "JUMPI", 0, -2},
		{OpJUMPDEST, "JUMPDEST", 0, 0},
		{OpRETURN, "RETURN", 0, -2},
	}

	for _, tt := range tests {
		info := tt.op.Info()
		if info.Name != tt.name {
			t.Errorf("%s: Name = %q, want %q", tt.op, info.Name, tt.name)
		}
		if info.OperandBytes != tt.operandBytes {
			t.Errorf("%s: OperandBytes = %d, want %d", tt.op, info.OperandBytes, tt.operandBytes)
		}
		if info.StackEffect != tt.stackEffect {
			t.Errorf("%s: StackEffect = %d, want %d", tt.op, info.StackEffect, tt.stackEffect)
		}
	}
}

func TestUnknownOpcode(t *testing.T) {
	op := Opcode(0xFF)
	if !strings.HasPrefix(op.Name(), "UNKNOWN_") {
		t.Errorf("unknown opcode should have UNKNOWN_ prefix, got %q", op.Name())
	}
	if op.StackEffect() != 0 {
		t.Errorf("unknown opcode StackEffect = %d, want 0", op.StackEffect())
	}
}

func TestPushWidth(t *testing.T) {
	tests := []struct {
		v     uint64
		width int
	}{
		{0, 1},
		{0xFF, 1},
		{0x100, 2},
		{0xFFFF, 2},
		{0x10000, 4},
		{0xFFFFFFFF, 4},
		{0x100000000, 8},
	}
	for _, tt := range tests {
		if w := pushWidth(tt.v); w != tt.width {
			t.Errorf("pushWidth(%#x) = %d, want %d", tt.v, w, tt.width)
		}
	}
}
