package asm

// Optimizer rewrites an item stream before final layout. Implementations must
// preserve program behavior: only encoding size and shape may change. Tag
// placements must survive so that every referenced tag still resolves.
type Optimizer interface {
	Optimize(items []Item) []Item
}

// Peephole is a small behavior-preserving optimizer. It runs local rewrites
// to a fixed point:
//   - a pure push immediately followed by POP is dropped
//   - an unconditional jump to the tag placed immediately after it is dropped
type Peephole struct{}

// Optimize implements Optimizer.
func (Peephole) Optimize(items []Item) []Item {
	out := items
	for {
		next, changed := peepholePass(out)
		if !changed {
			return next
		}
		out = next
	}
}

func peepholePass(items []Item) ([]Item, bool) {
	out := make([]Item, 0, len(items))
	changed := false
	for i := 0; i < len(items); i++ {
		it := items[i]

		// push ; POP → nothing. Safe because no jump can land between the
		// two: only a TagDef assembles to a valid jump target.
		if isPurePush(it) && i+1 < len(items) && isOp(items[i+1], OpPOP) {
			i++
			changed = true
			continue
		}

		// PUSH tag ; JUMP ; tag: → tag:
		if it.Kind == PushTag && i+2 < len(items) &&
			isOp(items[i+1], OpJUMP) &&
			items[i+2].Kind == TagDef && items[i+2].Value == it.Value {
			out = append(out, items[i+2])
			i += 2
			changed = true
			continue
		}

		out = append(out, it)
	}
	return out, changed
}

// isPurePush reports whether the item pushes exactly one value with no other
// effect.
func isPurePush(it Item) bool {
	switch it.Kind {
	case Push, PushTag, PushSub, PushSubSize, PushProgramSize, PushData:
		return true
	case Operation:
		switch it.Op {
		case OpDUPN, OpCALLER, OpCALLVALUE, OpTIMESTAMP, OpCODESIZE:
			return true
		}
	}
	return false
}

func isOp(it Item, op Opcode) bool {
	return it.Kind == Operation && it.Op == op
}
