package asm

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Bytecode reader
// ---------------------------------------------------------------------------

// Reader decodes assembled SVM bytecode for inspection.
type Reader struct {
	bytes []byte
	pos   int
}

// NewReader creates a reader over assembled bytecode.
func NewReader(bc []byte) *Reader {
	return &Reader{bytes: bc}
}

// Position returns the current read position.
func (r *Reader) Position() int {
	return r.pos
}

// HasMore returns true if there are more bytes to read.
func (r *Reader) HasMore() bool {
	return r.pos < len(r.bytes)
}

// ReadOpcode reads and returns the next opcode.
func (r *Reader) ReadOpcode() Opcode {
	if r.pos >= len(r.bytes) {
		fail("bytecode underflow at %d", r.pos)
	}
	op := Opcode(r.bytes[r.pos])
	r.pos++
	return op
}

// ReadImmediate reads a little-endian immediate of the given width.
func (r *Reader) ReadImmediate(width int) uint64 {
	if r.pos+width > len(r.bytes) {
		fail("bytecode underflow at %d", r.pos)
	}
	var v uint64
	for j := 0; j < width; j++ {
		v |= uint64(r.bytes[r.pos+j]) << (8 * j)
	}
	r.pos += width
	return v
}

// Instruction is one decoded instruction.
type Instruction struct {
	Position  int
	Op        Opcode
	Immediate uint64
}

// ReadInstruction decodes the instruction at the current position.
func (r *Reader) ReadInstruction() Instruction {
	pos := r.pos
	op := r.ReadOpcode()
	var imm uint64
	if nb := op.OperandBytes(); nb > 0 {
		imm = r.ReadImmediate(nb)
	}
	return Instruction{Position: pos, Op: op, Immediate: imm}
}

// String renders the instruction in listing form.
func (in Instruction) String() string {
	if in.Op.OperandBytes() > 0 {
		return fmt.Sprintf("%04d  %s %d", in.Position, in.Op, in.Immediate)
	}
	return fmt.Sprintf("%04d  %s", in.Position, in.Op)
}

// ---------------------------------------------------------------------------
// Disassembly
// ---------------------------------------------------------------------------

// Decode decodes a full byte sequence into instructions. Data-section bytes
// decode as whatever opcodes they happen to look like, so callers normally
// pass the code section only.
func Decode(bc []byte) []Instruction {
	r := NewReader(bc)
	var out []Instruction
	for r.HasMore() {
		out = append(out, r.ReadInstruction())
	}
	return out
}

// Disassemble returns a textual listing of assembled bytecode.
func Disassemble(bc []byte) string {
	var b strings.Builder
	for i, in := range Decode(bc) {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(in.String())
	}
	return b.String()
}
