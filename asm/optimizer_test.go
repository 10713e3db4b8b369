package asm

import (
	"bytes"
	"testing"
)

func TestPeepholePushPop(t *testing.T) {
	a := New()
	a.AppendPush(42)
	a.AppendOp(OpPOP)
	a.AppendOp(OpSTOP)

	code := a.Assemble(Peephole{})
	want := []byte{byte(OpSTOP)}
	if !bytes.Equal(code, want) {
		t.Errorf("code = %v, want %v", code, want)
	}
}

func TestPeepholeJumpToNext(t *testing.T) {
	a := New()
	tag := a.NewTag()
	a.AppendJumpTo(tag)
	a.Place(tag)
	a.AppendOp(OpSTOP)

	code := a.Assemble(Peephole{})
	want := []byte{byte(OpJUMPDEST), byte(OpSTOP)}
	if !bytes.Equal(code, want) {
		t.Errorf("code = %v, want %v", code, want)
	}
}

func TestPeepholeKeepsOtherJumps(t *testing.T) {
	a := New()
	tag := a.NewTag()
	a.AppendJumpTo(tag)
	a.AppendOp(OpSTOP) // jump skips this, must survive
	a.Place(tag)

	code := a.Assemble(Peephole{})
	if !bytes.Equal(code, a.Assemble(nil)) {
		t.Errorf("optimizer changed a jump that skips code: %v", code)
	}
}

func TestPeepholeCascades(t *testing.T) {
	// PUSH DUPN POP POP: first pass removes DUPN+POP, the next removes
	// PUSH+POP.
	a := New()
	a.AppendPush(7)
	a.AppendDup(0)
	a.AppendOp(OpPOP)
	a.AppendOp(OpPOP)
	a.AppendOp(OpSTOP)

	code := a.Assemble(Peephole{})
	want := []byte{byte(OpSTOP)}
	if !bytes.Equal(code, want) {
		t.Errorf("code = %v, want %v", code, want)
	}
}

func TestOptimizedTagStillResolves(t *testing.T) {
	// The function-entry tag survives optimization and the call jump still
	// lands on its JUMPDEST.
	a := New()
	entry := a.NewTag()
	a.AppendPush(0)
	a.AppendOp(OpPOP) // removable pair before the call
	a.AppendJumpTo(entry)
	a.AppendOp(OpSTOP)
	a.Place(entry)
	a.AppendOp(OpRETURN)

	code := a.Assemble(Peephole{})
	ins := Decode(code)
	// PUSH2 entry, JUMP, STOP, JUMPDEST, RETURN
	if len(ins) != 5 {
		t.Fatalf("decoded %d instructions, want 5", len(ins))
	}
	target := int(ins[0].Immediate)
	if code[target] != byte(OpJUMPDEST) {
		t.Errorf("jump target %d is %s, want JUMPDEST", target, Opcode(code[target]))
	}
}

func TestOptimizerPreservesLiveSemantics(t *testing.T) {
	build := func() *Assembly {
		a := New()
		a.AppendPush(3)
		a.AppendPush(4)
		a.AppendOp(OpADD)
		a.AppendOp(OpSTOP)
		return a
	}
	plain := Decode(build().Assemble(nil))
	optimized := Decode(build().Assemble(Peephole{}))
	if len(plain) != len(optimized) {
		t.Fatalf("instruction counts differ: %d vs %d", len(plain), len(optimized))
	}
	for i := range plain {
		if plain[i].Op != optimized[i].Op || plain[i].Immediate != optimized[i].Immediate {
			t.Errorf("instruction %d differs: %v vs %v", i, plain[i], optimized[i])
		}
	}
}

func TestDepositsAreEncodingIndependent(t *testing.T) {
	// The optimizer cannot perturb deposit bookkeeping: deposits are fixed at
	// append time, and the removed patterns are height-neutral.
	a := New()
	a.AppendPush(1)
	a.AppendOp(OpPOP)
	before := a.Deposit()
	a.Assemble(Peephole{})
	if a.Deposit() != before {
		t.Errorf("deposit changed across assembly: %d -> %d", before, a.Deposit())
	}
}
