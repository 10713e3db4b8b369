package asm

import "fmt"

// ---------------------------------------------------------------------------
// Assembly items
// ---------------------------------------------------------------------------

// ItemKind distinguishes the entries of an assembly's item stream.
type ItemKind byte

const (
	// Operation is a plain instruction, with an optional 8-bit immediate
	// (DUPN, SWAPN) carried in Value.
	Operation ItemKind = iota
	// Push is a literal value push; the encoded width is the smallest
	// immediate that fits the value.
	Push
	// PushTag pushes the resolved address of a tag.
	PushTag
	// TagDef marks a tag's position; it assembles to a JUMPDEST.
	TagDef
	// PushSub pushes the data-section offset of an embedded sub-assembly.
	PushSub
	// PushSubSize pushes the byte size of an embedded sub-assembly.
	PushSubSize
	// PushProgramSize pushes the total size of the assembled program.
	PushProgramSize
	// PushData pushes the data-section offset of a raw blob.
	PushData
)

// Item is one entry of the assembly stream.
type Item struct {
	Kind  ItemKind
	Op    Opcode // valid for Operation
	Value uint64 // immediate, literal, tag id, sub index, or data index
}

// Tag is a symbolic, as-yet-unresolved code address. Tags are minted by an
// Assembly, placed at most once, and resolved to concrete addresses when the
// assembly is finalized.
type Tag struct {
	id uint32
}

// SubRef identifies an embedded sub-assembly within its parent.
type SubRef struct {
	index int
}

// DataRef identifies a raw blob appended to the data section.
type DataRef struct {
	index int
}

// deposit returns the item's net effect on operand-stack height.
func (it Item) deposit() int {
	switch it.Kind {
	case Operation:
		return it.Op.StackEffect()
	case Push, PushTag, PushSub, PushSubSize, PushProgramSize, PushData:
		return 1
	case TagDef:
		return 0
	default:
		fail("unknown item kind %d", it.Kind)
		return 0
	}
}

// encodedSize returns the number of bytes the item occupies in the final
// program. All address-like pushes are fixed-width so layout does not depend
// on resolved values.
func (it Item) encodedSize() int {
	switch it.Kind {
	case Operation:
		return 1 + it.Op.OperandBytes()
	case Push:
		return 1 + pushWidth(it.Value)
	case PushTag, PushSub, PushSubSize, PushProgramSize, PushData:
		return 1 + 2 // PUSH2
	case TagDef:
		return 1 // JUMPDEST
	default:
		fail("unknown item kind %d", it.Kind)
		return 0
	}
}

// pushWidth returns the smallest immediate width (1, 2, 4 or 8 bytes) that
// holds v.
func pushWidth(v uint64) int {
	switch {
	case v <= 0xFF:
		return 1
	case v <= 0xFFFF:
		return 2
	case v <= 0xFFFFFFFF:
		return 4
	default:
		return 8
	}
}

// String renders the item for disassembly-style listings.
func (it Item) String() string {
	switch it.Kind {
	case Operation:
		if it.Op.OperandBytes() > 0 {
			return fmt.Sprintf("%s %d", it.Op, it.Value)
		}
		return it.Op.String()
	case Push:
		return fmt.Sprintf("PUSH %d", it.Value)
	case PushTag:
		return fmt.Sprintf("PUSH tag%d", it.Value)
	case TagDef:
		return fmt.Sprintf("tag%d:", it.Value)
	case PushSub:
		return fmt.Sprintf("PUSH sub%d.offset", it.Value)
	case PushSubSize:
		return fmt.Sprintf("PUSH sub%d.size", it.Value)
	case PushProgramSize:
		return "PUSH programsize"
	case PushData:
		return fmt.Sprintf("PUSH data%d.offset", it.Value)
	default:
		return fmt.Sprintf("UNKNOWN_ITEM_%d", it.Kind)
	}
}
