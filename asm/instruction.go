package asm

import "fmt"

// ---------------------------------------------------------------------------
// Opcode definitions
// ---------------------------------------------------------------------------

// Opcode represents a single SVM instruction.
type Opcode byte

// Stack Operations
const (
	OpSTOP  Opcode = 0x00 // halt execution
	OpPOP   Opcode = 0x01 // discard top of stack
	OpDUPN  Opcode = 0x02 // duplicate N-th slot from top (8-bit index, 0 = top)
	OpSWAPN Opcode = 0x03 // swap top with N-th slot from top (8-bit index)
)

// Arithmetic and Logic
const (
	OpADD    Opcode = 0x10 // pop a, b; push a+b
	OpSUB    Opcode = 0x11 // pop a, b; push b-a
	OpMUL    Opcode = 0x12 // pop a, b; push a*b
	OpDIV    Opcode = 0x13 // pop a, b; push b/a
	OpMOD    Opcode = 0x14 // pop a, b; push b%a
	OpNOT    Opcode = 0x15 // pop a; push ~a
	OpAND    Opcode = 0x16 // pop a, b; push a&b
	OpOR     Opcode = 0x17 // pop a, b; push a|b
	OpXOR    Opcode = 0x18 // pop a, b; push a^b
	OpISZERO Opcode = 0x19 // pop a; push a == 0
)

// Comparison
const (
	OpLT Opcode = 0x20 // pop a, b; push b < a
	OpGT Opcode = 0x21 // pop a, b; push b > a
	OpEQ Opcode = 0x22 // pop a, b; push a == b
)

// Immediate Pushes
const (
	OpPUSH1 Opcode = 0x30 // push 8-bit immediate
	OpPUSH2 Opcode = 0x31 // push 16-bit immediate
	OpPUSH4 Opcode = 0x32 // push 32-bit immediate
	OpPUSH8 Opcode = 0x33 // push 64-bit immediate
)

// Storage and Memory
const (
	OpSLOAD  Opcode = 0x40 // pop slot; push persistent storage value
	OpSSTORE Opcode = 0x41 // pop slot, value; write persistent storage
	OpMLOAD  Opcode = 0x42 // pop address; push memory word
	OpMSTORE Opcode = 0x43 // pop address, value; write memory word
)

// Environment and Code
const (
	OpCALLER    Opcode = 0x50 // push calling account
	OpCALLVALUE Opcode = 0x51 // push transferred value
	OpTIMESTAMP Opcode = 0x52 // push block timestamp
	OpCODESIZE  Opcode = 0x53 // push size of executing program
	OpCODECOPY  Opcode = 0x54 // pop dest, offset, size; copy code to memory
)

// Control Flow
const (
	OpJUMP     Opcode = 0x60 // pop target; jump
	OpJUMPI    Opcode = 0x61 // pop target, condition; jump if condition nonzero
	OpJUMPDEST Opcode = 0x62 // valid jump target marker
	OpRETURN   Opcode = 0x63 // pop offset, size; return memory range
	OpREVERT   Opcode = 0x64 // pop offset, size; revert with memory range
)

// ---------------------------------------------------------------------------
// Opcode metadata
// ---------------------------------------------------------------------------

// OpcodeInfo holds metadata about an opcode.
type OpcodeInfo struct {
	Name         string // human-readable name
	OperandBytes int    // number of immediate bytes following the opcode
	StackEffect  int    // net effect on operand-stack height
}

// opcodeTable maps opcodes to their metadata.
var opcodeTable = map[Opcode]OpcodeInfo{
	// Stack operations
	OpSTOP:  {"STOP", 0, 0},
	OpPOP:   {"POP", 0, -1},
	OpDUPN:  {"DUPN", 1, 1},
	OpSWAPN: {"SWAPN", 1, 0},

	// Arithmetic and logic
	OpADD:    {"ADD", 0, -1},
	OpSUB:    {"SUB", 0, -1},
	OpMUL:    {"MUL", 0, -1},
	OpDIV:    {"DIV", 0, -1},
	OpMOD:    {"MOD", 0, -1},
	OpNOT:    {"NOT", 0, 0},
	OpAND:    {"AND", 0, -1},
	OpOR:     {"OR", 0, -1},
	OpXOR:    {"XOR", 0, -1},
	OpISZERO: {"ISZERO", 0, 0},

	// Comparison
	OpLT: {"LT", 0, -1},
	OpGT: {"GT", 0, -1},
	OpEQ: {"EQ", 0, -1},

	// Immediate pushes
	OpPUSH1: {"PUSH1", 1, 1},
	OpPUSH2: {"PUSH2", 2, 1},
	OpPUSH4: {"PUSH4", 4, 1},
	OpPUSH8: {"PUSH8", 8, 1},

	// Storage and memory
	OpSLOAD:  {"SLOAD", 0, 0},
	OpSSTORE: {"SSTORE", 0, -2},
	OpMLOAD:  {"MLOAD", 0, 0},
	OpMSTORE: {"MSTORE", 0, -2},

	// Environment and code
	OpCALLER:    {"CALLER", 0, 1},
	OpCALLVALUE: {"CALLVALUE", 0, 1},
	OpTIMESTAMP: {"TIMESTAMP", 0, 1},
	OpCODESIZE:  {"CODESIZE", 0, 1},
	OpCODECOPY:  {"CODECOPY", 0, -3},

	// Control flow
	OpJUMP:     {"JUMP", 0, -1},
	OpJUMPI:    {"JUMPI", 0, -2},
	OpJUMPDEST: {"JUMPDEST", 0, 0},
	OpRETURN:   {"RETURN", 0, -2},
	OpREVERT:   {"REVERT", 0, -2},
}

// Info returns the metadata for an opcode.
func (op Opcode) Info() OpcodeInfo {
	if info, ok := opcodeTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN_%02X", byte(op)), OperandBytes: 0, StackEffect: 0}
}

// Name returns the human-readable name for an opcode.
func (op Opcode) Name() string {
	return op.Info().Name
}

// OperandBytes returns the number of immediate bytes for an opcode.
func (op Opcode) OperandBytes() int {
	return op.Info().OperandBytes
}

// StackEffect returns the net operand-stack height change for an opcode.
func (op Opcode) StackEffect() int {
	return op.Info().StackEffect
}

// String implements the Stringer interface.
func (op Opcode) String() string {
	return op.Name()
}
