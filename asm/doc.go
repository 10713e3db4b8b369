// Package asm builds bytecode for the Sigil stack VM.
//
// This package contains:
//   - SVM opcode definitions with per-instruction stack effects
//   - The Assembly item stream with symbolic tags and a data section
//   - Final encoding with tag resolution
//   - An optional behavior-preserving peephole optimizer
//   - A bytecode reader and disassembler
package asm
