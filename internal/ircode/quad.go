// Package ircode implements the intermediate-code generator described
// in spec.md §4.4: the quadruple list, constant interning, temporary
// allocation, and Backpatch for jump targets. The operand and operator
// work stacks live in internal/parser, and pending jump indices are
// held in the parser's local variables. Grounded on intermediate.py's
// quad-list shape.
package ircode

import (
	"fmt"

	"patitolang/internal/address"
	"patitolang/internal/types"
)

// Opcode identifies a quadruple's operation.
type Opcode int

const (
	Add Opcode = iota
	Sub
	Mul
	Div
	Lt
	Gt
	Eq
	Neq
	Uminus
	Assign
	Print
	Goto
	GotoF
	Era
	Param
	Gosub
	Ret
	FetchRet
	Endfunc
	End
)

var opNames = [...]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/",
	Lt: "<", Gt: ">", Eq: "==", Neq: "!=",
	Uminus: "UMINUS", Assign: "=", Print: "PRINT",
	Goto: "GOTO", GotoF: "GOTOF", Era: "ERA", Param: "PARAM",
	Gosub: "GOSUB", Ret: "RET", FetchRet: "FETCH_RET",
	Endfunc: "ENDFUNC", End: "END",
}

func (o Opcode) String() string {
	if int(o) < 0 || int(o) >= len(opNames) {
		return "?"
	}
	return opNames[o]
}

// OperandKind tags what a Quad field holds, the Go expression of the
// Python VM's dynamically-typed operand (None / int / str) seen in
// VM_Patito.py's _get_val.
type OperandKind int

const (
	None OperandKind = iota
	Addr
	Immediate
	FuncName
)

// Operand is one field of a Quad.
type Operand struct {
	Kind OperandKind
	Addr address.Address
	Imm  int
	Name string
}

// AddrOperand returns an Operand holding a virtual address.
func AddrOperand(a address.Address) Operand { return Operand{Kind: Addr, Addr: a} }

// ImmOperand returns an Operand holding an immediate integer (jump target or
// activation size).
func ImmOperand(i int) Operand { return Operand{Kind: Immediate, Imm: i} }

// NameOperand returns an Operand holding a function name.
func NameOperand(n string) Operand { return Operand{Kind: FuncName, Name: n} }

func (o Operand) String() string {
	switch o.Kind {
	case Addr:
		return fmt.Sprintf("%d", o.Addr)
	case Immediate:
		return fmt.Sprintf("%d", o.Imm)
	case FuncName:
		return o.Name
	default:
		return "-"
	}
}

// Quad is one three-address instruction (op, arg1, arg2, result).
type Quad struct {
	Op     Opcode
	Arg1   Operand
	Arg2   Operand
	Result Operand
}

func (q Quad) String() string {
	return fmt.Sprintf("(%s, %s, %s, %s)", q.Op, q.Arg1, q.Arg2, q.Result)
}

// Const is a pooled constant value, addressed in the CONST segment.
type Const struct {
	Type  types.Type
	Value interface{}
	Addr  address.Address
}
