package ircode

import (
	"testing"

	"patitolang/internal/address"
	"patitolang/internal/types"
)

func TestEmitAssignsSequentialIndices(t *testing.T) {
	b := New()
	i0 := b.Emit(Add, Operand{}, Operand{}, Operand{})
	i1 := b.Emit(Sub, Operand{}, Operand{}, Operand{})
	if i0 != 0 || i1 != 1 {
		t.Fatalf("expected indices 0, 1, got %d, %d", i0, i1)
	}
	if b.NextQuad() != 2 {
		t.Fatalf("NextQuad() = %d, want 2", b.NextQuad())
	}
}

func TestBackpatchFillsResult(t *testing.T) {
	b := New()
	idx := b.Emit(Goto, Operand{}, Operand{}, Operand{})
	b.Backpatch(idx, 42)
	if b.Quads[idx].Result.Imm != 42 {
		t.Fatalf("expected backpatched target 42, got %d", b.Quads[idx].Result.Imm)
	}
}

func TestNewTempAllocatesFreshAddresses(t *testing.T) {
	b := New()
	t1, err := b.NewTemp(types.Integer)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	t2, err := b.NewTemp(types.Integer)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if t1 == t2 {
		t.Fatal("expected two distinct temporaries")
	}
	if seg, _ := address.SegmentOf(t1); seg != address.Temp {
		t.Errorf("expected a TEMP address, got segment %v", seg)
	}
}

func TestInternDedupesIdenticalConstants(t *testing.T) {
	b := New()
	a1, err := b.Intern(types.Integer, 7)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	a2, err := b.Intern(types.Integer, 7)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if a1 != a2 {
		t.Fatalf("expected interning the same (type, value) pair to reuse the address, got %d and %d", a1, a2)
	}
	if len(b.Consts()) != 1 {
		t.Fatalf("expected exactly one pooled constant, got %d", len(b.Consts()))
	}
}

func TestInternDistinguishesTypeAndValue(t *testing.T) {
	b := New()
	intAddr, _ := b.Intern(types.Integer, 1)
	floatAddr, _ := b.Intern(types.Float, 1.0)
	otherInt, _ := b.Intern(types.Integer, 2)

	if intAddr == floatAddr {
		t.Error("an integer 1 and a float 1.0 must not share a constant slot")
	}
	if intAddr == otherInt {
		t.Error("integer constants 1 and 2 must not share a constant slot")
	}
	if len(b.Consts()) != 3 {
		t.Fatalf("expected 3 pooled constants, got %d", len(b.Consts()))
	}
}

func TestQuadStringRendersOperands(t *testing.T) {
	q := Quad{Op: Add, Arg1: AddrOperand(10000), Arg2: AddrOperand(10001), Result: AddrOperand(30000)}
	got := q.String()
	want := "(+, 10000, 10001, 30000)"
	if got != want {
		t.Errorf("Quad.String() = %q, want %q", got, want)
	}
}
