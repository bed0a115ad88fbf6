// Package vm implements the stack-machine interpreter described in
// spec.md §4.5: an instruction pointer over the quadruple list, an
// activation-frame stack, a call stack of (return_ip, func_name) pairs,
// a pending-parameter buffer, and a per-function last-return-value
// table. Grounded on VM_Patito.py's VirtualMachine.run dispatch loop,
// with error handling idioms (sentinel errors wrapped with call-site
// context) taken from db47h-ngaro's vm/core.go.
package vm

import (
	"github.com/pkg/errors"

	"patitolang/internal/address"
	"patitolang/internal/ircode"
	"patitolang/internal/symtab"
	"patitolang/internal/types"
	"patitolang/internal/util"
)

// ErrDivisionByZero is returned when a DIV quadruple's divisor is zero.
var ErrDivisionByZero = errors.New("division-by-zero")

// ErrUnknownOpcode is returned when a quadruple carries an opcode the
// dispatch loop does not recognize.
var ErrUnknownOpcode = errors.New("unknown-opcode")

type callRecord struct {
	returnIP int
	funcName string
}

// Machine executes one compiled program to completion.
type Machine struct {
	Quads []ircode.Quad
	Funcs *symtab.Directory
	Out   *util.Writer

	global  frame
	consts  frame
	frames  []frame
	calls   []callRecord
	pending []Value
	returns map[string]Value
	ip      int
}

// New returns a Machine ready to run quads, with consts preloaded into
// the read-only CONST segment and a base activation frame for the
// program's top level.
func New(quads []ircode.Quad, consts []*ircode.Const, funcs *symtab.Directory, out *util.Writer) *Machine {
	m := &Machine{
		Quads:   quads,
		Funcs:   funcs,
		Out:     out,
		global:  make(frame),
		consts:  make(frame),
		frames:  []frame{make(frame)},
		returns: make(map[string]Value),
	}
	for _, c := range consts {
		m.consts[c.Addr] = constValue(c)
	}
	return m
}

func constValue(c *ircode.Const) Value {
	switch c.Type {
	case types.Integer:
		return IntVal(int64(c.Value.(int)))
	case types.Float:
		return FloatVal(c.Value.(float64))
	case types.Bool:
		return BoolVal(c.Value.(bool))
	default:
		return StringVal(c.Value.(string))
	}
}

// Run dispatches quadruples from the beginning until an END opcode, a
// fall-off the end of the list, or an error.
func (m *Machine) Run() error {
	m.ip = 0
	for m.ip < len(m.Quads) {
		q := m.Quads[m.ip]
		var err error
		jumps := false // true when the handler already advanced m.ip itself.

		switch q.Op {
		case ircode.Add, ircode.Sub, ircode.Mul, ircode.Div:
			err = m.stepArith(q)
		case ircode.Lt, ircode.Gt, ircode.Eq, ircode.Neq:
			err = m.stepCompare(q)
		case ircode.Uminus:
			err = m.stepUminus(q)
		case ircode.Assign:
			err = m.stepAssign(q)
		case ircode.Print:
			err = m.stepPrint(q)
		case ircode.Goto:
			m.ip = q.Result.Imm
			jumps = true
		case ircode.GotoF:
			err = m.stepGotoF(q)
			jumps = true
		case ircode.Era:
			m.pending = m.pending[:0]
		case ircode.Param:
			err = m.stepParam(q)
		case ircode.Gosub:
			err = m.stepGosub(q)
			jumps = true
		case ircode.Ret:
			err = m.stepRet(q)
			jumps = true
		case ircode.FetchRet:
			err = m.stepFetchRet(q)
		case ircode.Endfunc:
			err = m.stepEndfunc()
			jumps = true
		case ircode.End:
			return nil
		default:
			return errors.Wrapf(ErrUnknownOpcode, "quad %d", m.ip)
		}

		if err != nil {
			return errors.Wrapf(err, "quad %d", m.ip)
		}
		if !jumps {
			m.ip++
		}
	}
	return nil
}

func (m *Machine) stepArith(q ircode.Quad) error {
	v1, err := m.read(q.Arg1.Addr)
	if err != nil {
		return err
	}
	v2, err := m.read(q.Arg2.Addr)
	if err != nil {
		return err
	}

	resType, _ := address.TypeOf(q.Result.Addr)
	var out Value
	if resType == types.Integer {
		a, b := v1.I, v2.I
		switch q.Op {
		case ircode.Add:
			out = IntVal(a + b)
		case ircode.Sub:
			out = IntVal(a - b)
		case ircode.Mul:
			out = IntVal(a * b)
		case ircode.Div:
			if b == 0 {
				return ErrDivisionByZero
			}
			out = IntVal(a / b)
		}
	} else {
		a, b := v1.Float(), v2.Float()
		switch q.Op {
		case ircode.Add:
			out = FloatVal(a + b)
		case ircode.Sub:
			out = FloatVal(a - b)
		case ircode.Mul:
			out = FloatVal(a * b)
		case ircode.Div:
			if b == 0 {
				return ErrDivisionByZero
			}
			out = FloatVal(a / b)
		}
	}
	return m.write(q.Result.Addr, out)
}

func (m *Machine) stepCompare(q ircode.Quad) error {
	v1, err := m.read(q.Arg1.Addr)
	if err != nil {
		return err
	}
	v2, err := m.read(q.Arg2.Addr)
	if err != nil {
		return err
	}

	var b bool
	switch q.Op {
	case ircode.Lt:
		b = v1.Float() < v2.Float()
	case ircode.Gt:
		b = v1.Float() > v2.Float()
	case ircode.Eq:
		b = v1.Equal(v2)
	case ircode.Neq:
		b = !v1.Equal(v2)
	}
	return m.write(q.Result.Addr, BoolVal(b))
}

func (m *Machine) stepUminus(q ircode.Quad) error {
	v, err := m.read(q.Arg1.Addr)
	if err != nil {
		return err
	}
	if v.Type == types.Integer {
		return m.write(q.Result.Addr, IntVal(-v.I))
	}
	return m.write(q.Result.Addr, FloatVal(-v.F))
}

func (m *Machine) stepAssign(q ircode.Quad) error {
	v, err := m.read(q.Arg1.Addr)
	if err != nil {
		return err
	}
	return m.write(q.Result.Addr, v)
}

func (m *Machine) stepPrint(q ircode.Quad) error {
	v, err := m.read(q.Arg1.Addr)
	if err != nil {
		return err
	}
	m.Out.Write("%s\n", v.String())
	return nil
}

func (m *Machine) stepGotoF(q ircode.Quad) error {
	v, err := m.read(q.Arg1.Addr)
	if err != nil {
		return errors.Wrapf(err, "quad %d", m.ip)
	}
	if v.Truthy() {
		m.ip++
	} else {
		m.ip = q.Result.Imm
	}
	return nil
}

func (m *Machine) stepParam(q ircode.Quad) error {
	v, err := m.read(q.Arg1.Addr)
	if err != nil {
		return err
	}
	m.pending = append(m.pending, v)
	return nil
}

// stepGosub binds the pending-parameter buffer into a fresh activation
// frame, pushes the call stack, and jumps to the callee's entry quad.
func (m *Machine) stepGosub(q ircode.Quad) error {
	name := q.Arg1.Name
	fn, ok := m.Funcs.Get(name)
	if !ok {
		return errors.Wrapf(errors.Errorf("call to undefined function %q", name), "quad %d", m.ip)
	}

	next := make(frame)
	for i, p := range fn.Parameters {
		if i < len(m.pending) {
			next[p.Address] = m.pending[i]
		}
	}
	m.pending = m.pending[:0]
	m.frames = append(m.frames, next)
	m.calls = append(m.calls, callRecord{returnIP: m.ip + 1, funcName: name})
	m.ip = q.Result.Imm
	return nil
}

// stepRet records the return value, if any, against the current
// function's name, then forward-scans to that function's ENDFUNC
// quadruple rather than jumping to the caller directly: ENDFUNC owns
// the frame/call-stack teardown, matching VM_Patito.py's RET handler.
func (m *Machine) stepRet(q ircode.Quad) error {
	if len(m.calls) == 0 {
		return errors.Wrapf(errors.New("return outside of any call"), "quad %d", m.ip)
	}
	cur := m.calls[len(m.calls)-1]

	if q.Arg1.Kind == ircode.Addr {
		v, err := m.read(q.Arg1.Addr)
		if err != nil {
			return errors.Wrapf(err, "quad %d", m.ip)
		}
		m.returns[cur.funcName] = v
	}

	m.ip = m.nextEndfunc(m.ip + 1)
	return nil
}

func (m *Machine) nextEndfunc(from int) int {
	for i := from; i < len(m.Quads); i++ {
		if m.Quads[i].Op == ircode.Endfunc {
			return i
		}
	}
	return len(m.Quads)
}

func (m *Machine) stepFetchRet(q ircode.Quad) error {
	name := q.Arg1.Name
	v, ok := m.returns[name]
	if !ok {
		t, _ := address.TypeOf(q.Result.Addr)
		v = Zero(t)
	}
	return m.write(q.Result.Addr, v)
}

// stepEndfunc tears down the activation the matching GOSUB opened and
// resumes at the recorded return site. A function body reached by
// straight-line fall-through rather than a call (never GOSUB'd into)
// has no call-stack entry to pop; the program skeleton's initial GOTO
// to main ensures this never happens for a well-formed program, so this
// is a defensive no-op rather than a spec-defined runtime error.
func (m *Machine) stepEndfunc() error {
	if len(m.calls) == 0 {
		m.ip++
		return nil
	}
	cur := m.calls[len(m.calls)-1]
	m.calls = m.calls[:len(m.calls)-1]
	m.frames = m.frames[:len(m.frames)-1]
	m.ip = cur.returnIP
	return nil
}
