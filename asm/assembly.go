package asm

import (
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("sigil.asm")

// ---------------------------------------------------------------------------
// Assembly: item stream, tags and final encoding
// ---------------------------------------------------------------------------

// Assembly accumulates the instruction/data stream for one program unit.
// It tracks the net operand-stack height change ("deposit") of everything
// appended so far, mints symbolic tags for forward references, and embeds
// sub-assemblies and raw blobs in a data section following the code.
type Assembly struct {
	items   []Item
	subs    []*Assembly
	data    [][]byte
	deposit int
	numTags uint32
}

// New creates an empty assembly.
func New() *Assembly {
	return &Assembly{
		items: make([]Item, 0, 64),
	}
}

// Append adds one item to the stream and applies its stack effect to the
// deposit.
func (a *Assembly) Append(it Item) {
	a.items = append(a.items, it)
	a.deposit += it.deposit()
}

// AppendOp appends a plain instruction.
func (a *Assembly) AppendOp(op Opcode) {
	a.Append(Item{Kind: Operation, Op: op})
}

// AppendPush appends a literal value push.
func (a *Assembly) AppendPush(v uint64) {
	a.Append(Item{Kind: Push, Value: v})
}

// AppendDup appends a DUPN copying the n-th slot from the top (0 = top).
func (a *Assembly) AppendDup(n int) {
	if n < 0 || n > 0xFF {
		fail("DUPN index %d out of range", n)
	}
	a.Append(Item{Kind: Operation, Op: OpDUPN, Value: uint64(n)})
}

// AppendSwap appends a SWAPN exchanging the top with the n-th slot from the
// top.
func (a *Assembly) AppendSwap(n int) {
	if n < 1 || n > 0xFF {
		fail("SWAPN index %d out of range", n)
	}
	a.Append(Item{Kind: Operation, Op: OpSWAPN, Value: uint64(n)})
}

// ---------------------------------------------------------------------------
// Tags
// ---------------------------------------------------------------------------

// NewTag mints a fresh unplaced tag without emitting anything.
func (a *Assembly) NewTag() Tag {
	t := Tag{id: a.numTags}
	a.numTags++
	return t
}

// Place binds a tag to the current stream position. The tag assembles to a
// JUMPDEST at that position. Placing the same tag twice is fatal.
func (a *Assembly) Place(t Tag) {
	a.Append(Item{Kind: TagDef, Value: uint64(t.id)})
}

// AppendPushTag pushes the tag's resolved address as a value.
func (a *Assembly) AppendPushTag(t Tag) {
	a.Append(Item{Kind: PushTag, Value: uint64(t.id)})
}

// NewPushTag mints a tag, pushes its address and returns the tag.
func (a *Assembly) NewPushTag() Tag {
	t := a.NewTag()
	a.AppendPushTag(t)
	return t
}

// AppendJumpTo emits an unconditional jump to an existing tag.
func (a *Assembly) AppendJumpTo(t Tag) {
	a.AppendPushTag(t)
	a.AppendOp(OpJUMP)
}

// AppendJump emits an unconditional jump to a freshly minted tag and returns
// the tag.
func (a *Assembly) AppendJump() Tag {
	t := a.NewTag()
	a.AppendJumpTo(t)
	return t
}

// AppendJumpITo emits a conditional jump to an existing tag. The condition is
// consumed from the top of the operand stack.
func (a *Assembly) AppendJumpITo(t Tag) {
	a.AppendPushTag(t)
	a.AppendOp(OpJUMPI)
}

// AppendJumpI emits a conditional jump to a freshly minted tag and returns
// the tag.
func (a *Assembly) AppendJumpI() Tag {
	t := a.NewTag()
	a.AppendJumpITo(t)
	return t
}

// ---------------------------------------------------------------------------
// Data section
// ---------------------------------------------------------------------------

// AppendSub embeds a complete sub-assembly in the data section, pushes its
// byte size and returns a reference usable with AppendSubOffset.
func (a *Assembly) AppendSub(sub *Assembly) SubRef {
	ref := SubRef{index: len(a.subs)}
	a.subs = append(a.subs, sub)
	a.Append(Item{Kind: PushSubSize, Value: uint64(ref.index)})
	return ref
}

// AppendSubOffset pushes the data-section offset of a previously embedded
// sub-assembly.
func (a *Assembly) AppendSubOffset(ref SubRef) {
	if ref.index < 0 || ref.index >= len(a.subs) {
		fail("sub reference %d out of range", ref.index)
	}
	a.Append(Item{Kind: PushSub, Value: uint64(ref.index)})
}

// AppendData adds a raw blob to the data section and pushes its offset.
func (a *Assembly) AppendData(blob []byte) DataRef {
	ref := DataRef{index: len(a.data)}
	a.data = append(a.data, blob)
	a.Append(Item{Kind: PushData, Value: uint64(ref.index)})
	return ref
}

// AppendProgramSize pushes the total size of the final program.
func (a *Assembly) AppendProgramSize() {
	a.Append(Item{Kind: PushProgramSize})
}

// ---------------------------------------------------------------------------
// Deposit
// ---------------------------------------------------------------------------

// Deposit returns the net operand-stack height change of everything appended
// since creation or the last SetDeposit.
func (a *Assembly) Deposit() int {
	return a.deposit
}

// AdjustDeposit applies a stack-height change established out of band,
// without emitting anything.
func (a *Assembly) AdjustDeposit(n int) {
	a.deposit += n
}

// SetDeposit resets the deposit counter.
func (a *Assembly) SetDeposit(n int) {
	a.deposit = n
}

// Items returns the current item stream. The slice is live; callers must not
// mutate it.
func (a *Assembly) Items() []Item {
	return a.items
}

// Len returns the number of items appended so far.
func (a *Assembly) Len() int {
	return len(a.items)
}

// ---------------------------------------------------------------------------
// Final encoding
// ---------------------------------------------------------------------------

// maxProgramSize bounds the address space reachable by 16-bit tag and data
// references.
const maxProgramSize = 0xFFFF

// Assemble resolves every tag and data reference to a concrete address and
// returns the final byte sequence: code first, then embedded sub-assemblies,
// then raw blobs. A non-nil optimizer is applied to the item stream (and,
// recursively, to every sub-assembly) before layout. An unplaced tag that is
// still referenced is fatal.
func (a *Assembly) Assemble(opt Optimizer) []byte {
	out := a.assemble(opt)
	log.Debugf("assembled %d items to %d bytes (%d subs, %d blobs)",
		len(a.items), len(out), len(a.subs), len(a.data))
	return out
}

func (a *Assembly) assemble(opt Optimizer) []byte {
	items := a.items
	if opt != nil {
		items = opt.Optimize(items)
	}

	subCode := make([][]byte, len(a.subs))
	for i, sub := range a.subs {
		subCode[i] = sub.assemble(opt)
	}

	codeSize := 0
	for _, it := range items {
		codeSize += it.encodedSize()
	}

	subOffsets := make([]int, len(a.subs))
	off := codeSize
	for i := range subCode {
		subOffsets[i] = off
		off += len(subCode[i])
	}
	dataOffsets := make([]int, len(a.data))
	for i := range a.data {
		dataOffsets[i] = off
		off += len(a.data[i])
	}
	total := off
	if total > maxProgramSize {
		fail("program size %d exceeds %d bytes", total, maxProgramSize)
	}

	tagPos := make(map[uint32]int)
	pc := 0
	for _, it := range items {
		if it.Kind == TagDef {
			id := uint32(it.Value)
			if _, dup := tagPos[id]; dup {
				fail("tag %d placed twice", id)
			}
			tagPos[id] = pc
		}
		pc += it.encodedSize()
	}

	out := make([]byte, 0, total)
	appendImm := func(v uint64, width int) {
		for j := 0; j < width; j++ {
			out = append(out, byte(v>>(8*j)))
		}
	}
	push2 := func(v int) {
		out = append(out, byte(OpPUSH2))
		appendImm(uint64(v), 2)
	}

	for _, it := range items {
		switch it.Kind {
		case Operation:
			out = append(out, byte(it.Op))
			appendImm(it.Value, it.Op.OperandBytes())
		case Push:
			width := pushWidth(it.Value)
			out = append(out, byte(pushOpForWidth(width)))
			appendImm(it.Value, width)
		case PushTag:
			pos, ok := tagPos[uint32(it.Value)]
			if !ok {
				fail("unresolved tag %d at assembly time", it.Value)
			}
			push2(pos)
		case TagDef:
			out = append(out, byte(OpJUMPDEST))
		case PushSub:
			push2(subOffsets[it.Value])
		case PushSubSize:
			push2(len(subCode[it.Value]))
		case PushProgramSize:
			push2(total)
		case PushData:
			push2(dataOffsets[it.Value])
		default:
			fail("unknown item kind %d", it.Kind)
		}
	}
	for _, code := range subCode {
		out = append(out, code...)
	}
	for _, blob := range a.data {
		out = append(out, blob...)
	}
	return out
}

// pushOpForWidth returns the push opcode carrying an immediate of the given
// width.
func pushOpForWidth(width int) Opcode {
	switch width {
	case 1:
		return OpPUSH1
	case 2:
		return OpPUSH2
	case 4:
		return OpPUSH4
	case 8:
		return OpPUSH8
	default:
		fail("no push opcode for width %d", width)
		return OpSTOP
	}
}
