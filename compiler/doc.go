// Package compiler implements the code-generation context for the Sigil
// contract compiler.
//
// A Context is created per program unit and consulted by every
// code-generation visitor to resolve a declaration handle to its runtime
// location: a persistent storage slot, an operand-stack offset, or a function
// entry tag. It owns the unit's assembly and tracks the operand-stack height
// through everything emitted, which is what makes local-variable references
// resolve to the right slot no matter how much code ran since the binding.
package compiler
