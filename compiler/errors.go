package compiler

import "fmt"

// InternalError reports an internal-consistency violation in the
// code-generation context: a declaration registered twice, a lookup for a
// category a declaration does not have, a local used outside its frame, or a
// missing cross-unit bytecode. Every one of these means an upstream phase
// broke an invariant, so they are raised as panics and surface to the driving
// pipeline as internal-compiler-error diagnostics, never as source errors.
type InternalError struct {
	msg string
}

func (e *InternalError) Error() string {
	return "compiler: internal error: " + e.msg
}

// ice panics with an InternalError.
func ice(format string, args ...any) {
	panic(&InternalError{msg: fmt.Sprintf(format, args...)})
}
