package compiler

import (
	"github.com/tliron/commonlog"

	"github.com/chazu/sigil/asm"
)

var log = commonlog.GetLogger("sigil.compiler")

// UnitID is a stable handle for one program unit (one contract), issued by
// the declaration phase alongside DeclIDs.
type UnitID uint32

// Context is shared by everything that generates code for one program unit.
// It owns the growing assembly, knows what every declaration handle stands
// for, and resolves declarations to runtime locations: a storage slot, a
// stack offset, or a function entry tag.
//
// A Context is single-threaded. One is created per unit, lives for the whole
// of its generation, and is discarded once AssembledBytecode has run.
type Context struct {
	asm     *asm.Assembly
	decls   registry
	storage storageAllocator
	frame   *Frame

	functionTags  map[DeclID]asm.Tag
	compiledUnits map[UnitID][]byte
}

// NewContext creates a context with an empty assembly and an empty frame.
func NewContext() *Context {
	a := asm.New()
	return &Context{
		asm:          a,
		decls:        newRegistry(),
		storage:      newStorageAllocator(),
		frame:        NewFrame(a.Deposit()),
		functionTags: make(map[DeclID]asm.Tag),
	}
}

// Assembly returns the context's assembly for direct emission.
func (c *Context) Assembly() *asm.Assembly {
	return c.asm
}

// ---------------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------------

// AddMagicGlobal registers a built-in identifier available without
// declaration.
func (c *Context) AddMagicGlobal(decl DeclID) {
	c.decls.register(decl, CategoryMagic)
}

// AddStateVariable registers a state variable and assigns it the next run of
// sizeInSlots persistent storage slots.
func (c *Context) AddStateVariable(decl DeclID, sizeInSlots uint64) {
	c.decls.register(decl, CategoryStateVariable)
	c.storage.allocate(decl, sizeInSlots)
}

// AddLocalVariable binds a local variable in the current frame. The
// variable's initial value must already be on top of the stack.
func (c *Context) AddLocalVariable(decl DeclID) {
	c.decls.ensure(decl, CategoryLocalVariable)
	c.frame.Bind(decl, c.asm.Deposit())
}

// AddInitializedLocal pushes a zero value and binds decl to it.
func (c *Context) AddInitializedLocal(decl DeclID) {
	c.asm.AppendPush(0)
	c.AddLocalVariable(decl)
}

// AddFunction registers a function declaration and mints its entry tag.
func (c *Context) AddFunction(decl DeclID) {
	c.decls.register(decl, CategoryFunction)
	c.FunctionEntryTag(decl)
}

// StartFunction discards all frame bindings and starts a fresh frame whose
// baseline is the assembly's current deposit. Called once per function,
// before its first instruction is generated.
func (c *Context) StartFunction() {
	c.frame = NewFrame(c.asm.Deposit())
}

// Category returns what a declaration currently resolves to. Local variables
// are frame-scoped: once their frame has ended they no longer resolve.
func (c *Context) Category(decl DeclID) Category {
	cat := c.decls.categoryOf(decl)
	if cat == CategoryLocalVariable && !c.frame.IsBound(decl) {
		return CategoryNone
	}
	return cat
}

// IsMagicGlobal reports whether decl is a registered built-in.
func (c *Context) IsMagicGlobal(decl DeclID) bool {
	return c.decls.is(decl, CategoryMagic)
}

// IsStateVariable reports whether decl is a registered state variable.
func (c *Context) IsStateVariable(decl DeclID) bool {
	return c.decls.is(decl, CategoryStateVariable)
}

// IsLocalVariable reports whether decl is bound in the current frame.
func (c *Context) IsLocalVariable(decl DeclID) bool {
	return c.frame.IsBound(decl)
}

// IsFunction reports whether decl is a registered function.
func (c *Context) IsFunction(decl DeclID) bool {
	return c.decls.is(decl, CategoryFunction)
}

// ---------------------------------------------------------------------------
// Resolution
// ---------------------------------------------------------------------------

// FunctionEntryTag returns the entry tag for a function declaration, minting
// it on first reference. Repeated calls return the identical tag, so forward
// references and mutual recursion resolve to the address eventually placed at
// the function's body.
func (c *Context) FunctionEntryTag(decl DeclID) asm.Tag {
	if t, ok := c.functionTags[decl]; ok {
		return t
	}
	t := c.asm.NewTag()
	c.functionTags[decl] = t
	return t
}

// BaseStackOffset returns the recorded binding of a local variable, valid for
// the rest of its frame.
func (c *Context) BaseStackOffset(decl DeclID) BaseOffset {
	return c.frame.BaseOffset(decl)
}

// StackOffsetFromTop converts a value returned by BaseStackOffset into the
// variable's current distance from the top of the stack (0 = top), the
// operand DUPN and SWAPN expect.
func (c *Context) StackOffsetFromTop(base BaseOffset) int {
	return c.frame.FromTop(base, c.asm.Deposit())
}

// StorageSlot returns the persistent storage slot of a state variable.
func (c *Context) StorageSlot(decl DeclID) uint64 {
	return c.storage.slotOf(decl)
}

// StorageSize returns the total number of storage slots allocated so far.
func (c *Context) StorageSize() uint64 {
	return c.storage.totalSize()
}

// ---------------------------------------------------------------------------
// Cross-unit linkage
// ---------------------------------------------------------------------------

// SetCompiledUnits installs the snapshot of already-compiled units. The
// mapping is read-only from here on; it is normally set once, by the build
// step, before generation of any instruction that references another unit.
func (c *Context) SetCompiledUnits(units map[UnitID][]byte) {
	c.compiledUnits = units
}

// CompiledUnit returns the finished bytecode of another unit. A unit absent
// from the snapshot is fatal: the build pipeline compiled units out of
// dependency order.
func (c *Context) CompiledUnit(unit UnitID) []byte {
	code, ok := c.compiledUnits[unit]
	if !ok {
		ice("no compiled bytecode for unit %d", unit)
	}
	return code
}

// ---------------------------------------------------------------------------
// Emission facade
// ---------------------------------------------------------------------------

// NewTag mints a fresh unplaced tag.
func (c *Context) NewTag() asm.Tag {
	return c.asm.NewTag()
}

// AppendJumpTo emits an unconditional jump to tag.
func (c *Context) AppendJumpTo(tag asm.Tag) {
	c.asm.AppendJumpTo(tag)
}

// AppendJumpToNew emits an unconditional jump to a new tag and returns it.
func (c *Context) AppendJumpToNew() asm.Tag {
	return c.asm.AppendJump()
}

// AppendConditionalJumpTo emits a jump to tag taken when the value on top of
// the stack is nonzero. The condition is consumed.
func (c *Context) AppendConditionalJumpTo(tag asm.Tag) {
	c.asm.AppendJumpITo(tag)
}

// AppendConditionalJump emits a conditional jump to a new tag and returns it.
func (c *Context) AppendConditionalJump() asm.Tag {
	return c.asm.AppendJumpI()
}

// PushNewTag pushes the address of a new tag as a value and returns the tag.
// Used for indirect calls through function values.
func (c *Context) PushNewTag() asm.Tag {
	return c.asm.NewPushTag()
}

// AddSubroutine embeds a complete sub-assembly in the data section, pushes
// its size and returns a reference to its offset.
func (c *Context) AddSubroutine(sub *asm.Assembly) asm.SubRef {
	return c.asm.AppendSub(sub)
}

// AppendProgramSize pushes the final program's own total size.
func (c *Context) AppendProgramSize() {
	c.asm.AppendProgramSize()
}

// AppendData adds a blob to the data section and pushes a reference to it.
func (c *Context) AppendData(data []byte) asm.DataRef {
	return c.asm.AppendData(data)
}

// AdjustStackOffset records a stack-height change established out of band,
// without emitting anything.
func (c *Context) AdjustStackOffset(adjustment int) {
	c.asm.AdjustDeposit(adjustment)
}

// AssembledBytecode resolves the assembly into the final byte sequence,
// running the peephole optimizer first when optimize is set.
func (c *Context) AssembledBytecode(optimize bool) []byte {
	var opt asm.Optimizer
	if optimize {
		opt = asm.Peephole{}
	}
	code := c.asm.Assemble(opt)
	log.Debugf("unit assembled: %d bytes, %d storage slots", len(code), c.storage.totalSize())
	return code
}
