package ircode

import (
	"patitolang/internal/address"
	"patitolang/internal/types"
)

// constKey identifies one (type, literal value) pair for interning.
type constKey struct {
	typ types.Type
	val interface{}
}

// Builder owns the quadruple list, the constant table, and the virtual
// memory allocator for one compilation. It is the "IR Builder" of
// spec.md §4.4, driven by the parser's semantic actions.
type Builder struct {
	Quads  []Quad
	Addr   *address.Allocator
	consts map[constKey]*Const
	order  []*Const
}

// New returns a Builder ready to emit code for a fresh compilation.
func New() *Builder {
	return &Builder{
		Addr:   address.New(),
		consts: make(map[constKey]*Const),
	}
}

// NextQuad returns the index the next emitted quadruple will receive.
func (b *Builder) NextQuad() int {
	return len(b.Quads)
}

// Emit appends a quadruple and returns its index.
func (b *Builder) Emit(op Opcode, a1, a2, res Operand) int {
	idx := len(b.Quads)
	b.Quads = append(b.Quads, Quad{Op: op, Arg1: a1, Arg2: a2, Result: res})
	return idx
}

// Backpatch fills the Result field of the quadruple at idx with a jump
// target, the mechanism spec.md §4.4 uses for if/else/while/the program
// skeleton.
func (b *Builder) Backpatch(idx int, target int) {
	b.Quads[idx].Result = ImmOperand(target)
}

// NewTemp allocates a fresh temporary address of type t.
func (b *Builder) NewTemp(t types.Type) (address.Address, error) {
	return b.Addr.Allocate(address.Temp, t)
}

// FreeTemp returns a temporary to its type's free-list for reuse. Only
// call this with a temporary that is provably dead (spec.md §4.1).
func (b *Builder) FreeTemp(t types.Type, a address.Address) {
	b.Addr.FreeTemp(t, a)
}

// Intern returns the CONST address for (t, value), allocating and
// recording a fresh one the first time this exact pair is requested.
func (b *Builder) Intern(t types.Type, value interface{}) (address.Address, error) {
	key := constKey{typ: t, val: value}
	if c, ok := b.consts[key]; ok {
		return c.Addr, nil
	}
	addr, err := b.Addr.Allocate(address.Const, t)
	if err != nil {
		return 0, err
	}
	c := &Const{Type: t, Value: value, Addr: addr}
	b.consts[key] = c
	b.order = append(b.order, c)
	return addr, nil
}

// Consts returns every interned constant in allocation order.
func (b *Builder) Consts() []*Const {
	return b.order
}
