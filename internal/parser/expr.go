package parser

import (
	"strconv"

	"github.com/pkg/errors"

	"patitolang/internal/ircode"
	"patitolang/internal/token"
	"patitolang/internal/types"
)

// reduceBinary implements the expression emission rule of spec.md §4.4:
// push both operands and the pending operator onto the synchronized
// work stacks, then reduce immediately: consult the TCM, allocate a
// fresh temp of the result type, emit the quadruple, and push the
// result back. Only one operator is ever pending at a time in this
// grammar (each precedence level is parsed left-to-right with no
// deferred operators), so the stacks never grow past a handful of
// entries, but the protocol is the one spec.md describes.
func (p *Parser) reduceBinary(left ircode.Value, op types.Operator, right ircode.Value) (ircode.Value, error) {
	p.operands.Push(left)
	p.operators.Push(op)
	p.operands.Push(right)

	gotOp, _ := p.operators.Pop()
	r, _ := p.operands.Pop()
	l, _ := p.operands.Pop()

	resultType, ok := types.Result(l.Type, gotOp, r.Type)
	if !ok {
		return ircode.Value{}, errors.Wrapf(ErrTypeMismatch, "incompatible operand types %s and %s", l.Type, r.Type)
	}
	temp, err := p.Builder.NewTemp(resultType)
	if err != nil {
		return ircode.Value{}, err
	}
	p.Builder.Emit(opcodeFor(gotOp), ircode.AddrOperand(l.Addr), ircode.AddrOperand(r.Addr), ircode.AddrOperand(temp))

	result := ircode.Value{Addr: temp, Type: resultType}
	p.operands.Push(result)
	v, _ := p.operands.Pop()
	return v, nil
}

func opcodeFor(op types.Operator) ircode.Opcode {
	switch op {
	case types.Add:
		return ircode.Add
	case types.Sub:
		return ircode.Sub
	case types.Mul:
		return ircode.Mul
	case types.Div:
		return ircode.Div
	case types.Lt:
		return ircode.Lt
	case types.Gt:
		return ircode.Gt
	case types.Eq:
		return ircode.Eq
	default:
		return ircode.Neq
	}
}

// parseExpr is the comparison level: a single optional relational or
// equality application over two additions (spec.md's grammar has no
// chained comparisons, matching its "nonassoc" precedence for these
// operators).
func (p *Parser) parseExpr() (ircode.Value, error) {
	left, err := p.parseAddition()
	if err != nil {
		return ircode.Value{}, err
	}

	var op types.Operator
	switch p.cur.Kind {
	case token.Lt:
		op = types.Lt
	case token.Gt:
		op = types.Gt
	case token.Eq:
		op = types.Eq
	case token.Neq:
		op = types.Neq
	default:
		return left, nil
	}
	p.advance()

	right, err := p.parseAddition()
	if err != nil {
		return ircode.Value{}, err
	}
	return p.reduceBinary(left, op, right)
}

func (p *Parser) parseAddition() (ircode.Value, error) {
	left, err := p.parseTerm()
	if err != nil {
		return ircode.Value{}, err
	}
	for p.cur.Kind == token.Plus || p.cur.Kind == token.Minus {
		op := types.Add
		if p.cur.Kind == token.Minus {
			op = types.Sub
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return ircode.Value{}, err
		}
		left, err = p.reduceBinary(left, op, right)
		if err != nil {
			return ircode.Value{}, err
		}
	}
	return left, nil
}

func (p *Parser) parseTerm() (ircode.Value, error) {
	left, err := p.parseFactor()
	if err != nil {
		return ircode.Value{}, err
	}
	for p.cur.Kind == token.Star || p.cur.Kind == token.Slash {
		op := types.Mul
		if p.cur.Kind == token.Slash {
			op = types.Div
		}
		p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return ircode.Value{}, err
		}
		left, err = p.reduceBinary(left, op, right)
		if err != nil {
			return ircode.Value{}, err
		}
	}
	return left, nil
}

// parseFactor handles unary sign, parenthesized sub-expressions,
// identifiers (variable reference or call), and literals. Unary minus
// is its own construct, as spec.md §4.4 specifies, emitting UMINUS
// directly rather than going through reduceBinary.
func (p *Parser) parseFactor() (ircode.Value, error) {
	switch p.cur.Kind {
	case token.Minus, token.Plus:
		neg := p.cur.Kind == token.Minus
		signTok := p.cur
		p.advance()
		v, err := p.parseFactor()
		if err != nil {
			return ircode.Value{}, err
		}
		if !types.IsNumeric(v.Type) {
			return ircode.Value{}, errors.Wrapf(ErrUnarySignOnNonNumeric, "at line %d", signTok.Line)
		}
		if !neg {
			return v, nil
		}
		temp, err := p.Builder.NewTemp(v.Type)
		if err != nil {
			return ircode.Value{}, err
		}
		p.Builder.Emit(ircode.Uminus, ircode.AddrOperand(v.Addr), ircode.Operand{}, ircode.AddrOperand(temp))
		return ircode.Value{Addr: temp, Type: v.Type}, nil

	case token.LParen:
		p.advance()
		v, err := p.parseExpr()
		if err != nil {
			return ircode.Value{}, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return ircode.Value{}, err
		}
		return v, nil

	case token.Identifier:
		nameTok := p.cur
		p.advance()
		if p.cur.Kind == token.LParen {
			v, err := p.parseCallExpr(nameTok)
			if err != nil {
				return ircode.Value{}, err
			}
			if v.Type == types.Void {
				return ircode.Value{}, errors.Wrapf(ErrVoidCallInExpression, "call to %q at line %d", nameTok.Lit, nameTok.Line)
			}
			return v, nil
		}
		v, err := p.scopeFor().Lookup(nameTok.Lit)
		if err != nil {
			return ircode.Value{}, errors.Wrapf(err, "at line %d", nameTok.Line)
		}
		return ircode.Value{Addr: v.Address, Type: v.Type}, nil

	case token.Integer:
		lit := p.cur.Lit
		line := p.cur.Line
		p.advance()
		n, convErr := strconv.Atoi(lit)
		if convErr != nil {
			return ircode.Value{}, errors.Wrapf(ErrUnexpectedToken, "malformed integer literal %q at line %d", lit, line)
		}
		addr, err := p.Builder.Intern(types.Integer, n)
		if err != nil {
			return ircode.Value{}, err
		}
		return ircode.Value{Addr: addr, Type: types.Integer}, nil

	case token.Float:
		lit := p.cur.Lit
		line := p.cur.Line
		p.advance()
		f, convErr := strconv.ParseFloat(lit, 64)
		if convErr != nil {
			return ircode.Value{}, errors.Wrapf(ErrUnexpectedToken, "malformed float literal %q at line %d", lit, line)
		}
		addr, err := p.Builder.Intern(types.Float, f)
		if err != nil {
			return ircode.Value{}, err
		}
		return ircode.Value{Addr: addr, Type: types.Float}, nil

	default:
		return ircode.Value{}, errors.Wrapf(ErrUnexpectedToken, "unexpected %s at line %d", p.cur.Kind, p.cur.Line)
	}
}

// parseCallExpr implements the call-site semantic action of spec.md
// §4.4: ERA with the callee's recorded activation size, one PARAM per
// argument, GOSUB to the entry quad, and, for non-void callees, a
// FETCH_RET into a fresh temp. nameTok has already been consumed by the
// caller; the current token is the call's opening `(`.
func (p *Parser) parseCallExpr(nameTok token.Token) (ircode.Value, error) {
	fn, ok := p.Funcs.Get(nameTok.Lit)
	if !ok {
		return ircode.Value{}, errors.Wrapf(ErrUndeclaredFunction, "%q at line %d", nameTok.Lit, nameTok.Line)
	}

	if _, err := p.expect(token.LParen); err != nil {
		return ircode.Value{}, err
	}
	var args []ircode.Value
	if p.cur.Kind != token.RParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return ircode.Value{}, err
			}
			args = append(args, arg)
			if p.cur.Kind != token.Comma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return ircode.Value{}, err
	}

	if len(args) != len(fn.Parameters) {
		return ircode.Value{}, errors.Wrapf(ErrArityMismatch, "%q at line %d expects %d argument(s), got %d", nameTok.Lit, nameTok.Line, len(fn.Parameters), len(args))
	}
	for i, arg := range args {
		if _, ok := types.Result(fn.Parameters[i].Type, types.Assign, arg.Type); !ok {
			return ircode.Value{}, errors.Wrapf(ErrParameterTypeMismatch, "%q parameter %d at line %d: %s does not accept %s", nameTok.Lit, i+1, nameTok.Line, fn.Parameters[i].Type, arg.Type)
		}
	}

	size := 0
	for _, n := range fn.LocalsSizeByType {
		size += n
	}
	for _, n := range fn.TempsSizeByType {
		size += n
	}

	p.Builder.Emit(ircode.Era, ircode.ImmOperand(size), ircode.Operand{}, ircode.NameOperand(fn.Name))
	for i, arg := range args {
		p.Builder.Emit(ircode.Param, ircode.AddrOperand(arg.Addr), ircode.Operand{}, ircode.ImmOperand(i+1))
	}
	p.Builder.Emit(ircode.Gosub, ircode.NameOperand(fn.Name), ircode.Operand{}, ircode.ImmOperand(fn.EntryQuad))

	if fn.ReturnType == types.Void {
		return ircode.Value{Type: types.Void}, nil
	}
	temp, err := p.Builder.NewTemp(fn.ReturnType)
	if err != nil {
		return ircode.Value{}, err
	}
	p.Builder.Emit(ircode.FetchRet, ircode.NameOperand(fn.Name), ircode.Operand{}, ircode.AddrOperand(temp))
	return ircode.Value{Addr: temp, Type: fn.ReturnType}, nil
}
