package compiler

// BaseOffset is the operand-stack height of a local variable's slot at the
// moment it was bound, relative to the enclosing frame's baseline. It stays
// valid while the frame is live; converting it to a distance from the current
// top requires the assembly's deposit at the moment of use.
type BaseOffset int

// Frame holds the local-variable bindings of one function body under
// generation, together with the deposit baseline captured when the frame
// began. Conversion from a base offset to a distance from the top is a pure
// function of (binding, current deposit); nothing ambient is consulted.
type Frame struct {
	baseline int
	bindings map[DeclID]BaseOffset
}

// NewFrame creates an empty frame whose baseline is the given deposit.
func NewFrame(deposit int) *Frame {
	return &Frame{
		baseline: deposit,
		bindings: make(map[DeclID]BaseOffset),
	}
}

// Bind records a binding for decl at the given deposit. The variable's value
// must already be on top of the stack. Binding a declaration twice in one
// frame is fatal.
func (f *Frame) Bind(decl DeclID, deposit int) {
	if _, ok := f.bindings[decl]; ok {
		ice("local %d already bound in this frame", decl)
	}
	f.bindings[decl] = BaseOffset(deposit - f.baseline)
}

// IsBound reports whether decl has a binding in this frame.
func (f *Frame) IsBound(decl DeclID) bool {
	_, ok := f.bindings[decl]
	return ok
}

// BaseOffset returns the recorded binding for decl. An unbound declaration is
// fatal: it means code generation referenced a local before binding it or
// after its frame ended.
func (f *Frame) BaseOffset(decl DeclID) BaseOffset {
	off, ok := f.bindings[decl]
	if !ok {
		ice("local %d is not bound in the current frame", decl)
	}
	return off
}

// FromTop converts a base offset to the variable's distance from the current
// top of the stack, 0 meaning the top slot. This is the operand DUPN and
// SWAPN expect. A negative distance means the slot was popped past by
// intervening emission and is fatal.
func (f *Frame) FromTop(base BaseOffset, deposit int) int {
	d := (deposit - f.baseline) - int(base)
	if d < 0 {
		ice("stack offset %d from top: slot no longer on the stack", d)
	}
	return d
}
