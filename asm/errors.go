package asm

import "fmt"

// InternalError reports an internal-consistency violation in the assembler:
// an unplaced tag at assembly time, a tag placed twice, or a program that
// exceeds the address space. These indicate a defect in the code generator
// driving the assembly, never a condition of the compiled source, so they are
// raised as panics and must not be handled below the unit boundary.
type InternalError struct {
	msg string
}

func (e *InternalError) Error() string {
	return "asm: internal error: " + e.msg
}

// fail panics with an InternalError.
func fail(format string, args ...any) {
	panic(&InternalError{msg: fmt.Sprintf(format, args...)})
}
