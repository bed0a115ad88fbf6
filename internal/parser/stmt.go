package parser

import (
	"github.com/pkg/errors"

	"patitolang/internal/ircode"
	"patitolang/internal/token"
	"patitolang/internal/types"
)

// startsStmt reports whether k can begin a statement; used to know when
// a statement list has ended.
func startsStmt(k token.Kind) bool {
	switch k {
	case token.Identifier, token.If, token.While, token.Write, token.Return:
		return true
	default:
		return false
	}
}

func (p *Parser) parseStmtList() error {
	for startsStmt(p.cur.Kind) {
		if err := p.parseStmt(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseBlock() error {
	if _, err := p.expect(token.LBrace); err != nil {
		return err
	}
	if err := p.parseStmtList(); err != nil {
		return err
	}
	_, err := p.expect(token.RBrace)
	return err
}

func (p *Parser) parseStmt() error {
	switch p.cur.Kind {
	case token.Identifier:
		return p.parseAssignOrCallStmt()
	case token.If:
		return p.parseIfStmt()
	case token.While:
		return p.parseWhileStmt()
	case token.Write:
		return p.parseWriteStmt()
	case token.Return:
		return p.parseReturnStmt()
	default:
		return errors.Wrapf(ErrUnexpectedToken, "unexpected %s at line %d", p.cur.Kind, p.cur.Line)
	}
}

// parseAssignOrCallStmt disambiguates `id = expr ;` from `id ( args ) ;`
// on the single token following the identifier.
func (p *Parser) parseAssignOrCallStmt() error {
	nameTok, err := p.expect(token.Identifier)
	if err != nil {
		return err
	}

	if p.cur.Kind == token.LParen {
		if _, err := p.parseCallExpr(nameTok); err != nil {
			return err
		}
		_, err := p.expect(token.Semicolon)
		return err
	}

	if _, err := p.expect(token.Assign); err != nil {
		return err
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return err
	}
	dst, err := p.scopeFor().Lookup(nameTok.Lit)
	if err != nil {
		return errors.Wrapf(err, "at line %d", nameTok.Line)
	}
	if _, ok := types.Result(dst.Type, types.Assign, rhs.Type); !ok {
		return errors.Wrapf(ErrTypeMismatch, "cannot assign %s to %s %q at line %d", rhs.Type, dst.Type, dst.Name, nameTok.Line)
	}
	p.Builder.Emit(ircode.Assign, ircode.AddrOperand(rhs.Addr), ircode.Operand{}, ircode.AddrOperand(dst.Address))
	_, err = p.expect(token.Semicolon)
	return err
}

// parseIfStmt implements the if/if-else backpatching protocol of
// spec.md §4.4.
func (p *Parser) parseIfStmt() error {
	ifTok, err := p.expect(token.If)
	if err != nil {
		return err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}
	if cond.Type != types.Bool {
		return errors.Wrapf(ErrNonBooleanCondition, "if condition at line %d is %s, not bool", ifTok.Line, cond.Type)
	}

	gotof := p.Builder.Emit(ircode.GotoF, ircode.AddrOperand(cond.Addr), ircode.Operand{}, ircode.Operand{})
	if err := p.parseBlock(); err != nil {
		return err
	}

	if p.cur.Kind == token.Else {
		gotoEnd := p.Builder.Emit(ircode.Goto, ircode.Operand{}, ircode.Operand{}, ircode.Operand{})
		p.Builder.Backpatch(gotof, p.Builder.NextQuad())
		p.advance()
		if err := p.parseBlock(); err != nil {
			return err
		}
		p.Builder.Backpatch(gotoEnd, p.Builder.NextQuad())
	} else {
		p.Builder.Backpatch(gotof, p.Builder.NextQuad())
	}

	_, err = p.expect(token.Semicolon)
	return err
}

// parseWhileStmt implements the while backpatching protocol of
// spec.md §4.4.
func (p *Parser) parseWhileStmt() error {
	start := p.Builder.NextQuad()
	whileTok, err := p.expect(token.While)
	if err != nil {
		return err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}
	if cond.Type != types.Bool {
		return errors.Wrapf(ErrNonBooleanCondition, "while condition at line %d is %s, not bool", whileTok.Line, cond.Type)
	}
	if _, err := p.expect(token.Do); err != nil {
		return err
	}

	gotof := p.Builder.Emit(ircode.GotoF, ircode.AddrOperand(cond.Addr), ircode.Operand{}, ircode.Operand{})
	if err := p.parseBlock(); err != nil {
		return err
	}
	p.Builder.Emit(ircode.Goto, ircode.Operand{}, ircode.Operand{}, ircode.ImmOperand(start))
	p.Builder.Backpatch(gotof, p.Builder.NextQuad())

	_, err = p.expect(token.Semicolon)
	return err
}

func (p *Parser) parseWriteStmt() error {
	if _, err := p.expect(token.Write); err != nil {
		return err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	for {
		if p.cur.Kind == token.String {
			addr, err := p.Builder.Intern(types.String, p.cur.Lit)
			if err != nil {
				return err
			}
			p.advance()
			p.Builder.Emit(ircode.Print, ircode.AddrOperand(addr), ircode.Operand{}, ircode.Operand{})
		} else {
			v, err := p.parseExpr()
			if err != nil {
				return err
			}
			p.Builder.Emit(ircode.Print, ircode.AddrOperand(v.Addr), ircode.Operand{}, ircode.Operand{})
		}
		if p.cur.Kind != token.Comma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}
	_, err := p.expect(token.Semicolon)
	return err
}

// parseReturnStmt implements spec.md §4.4's return rules: bare `return`
// in a void function, `return expr` in a non-void function requiring an
// exact (non-widened) type match.
func (p *Parser) parseReturnStmt() error {
	retTok, err := p.expect(token.Return)
	if err != nil {
		return err
	}
	if p.curFn == nil {
		return errors.Wrapf(ErrReturnOutsideFunction, "at line %d", retTok.Line)
	}

	if p.curFn.ReturnType == types.Void {
		if p.cur.Kind != token.Semicolon {
			return errors.Wrapf(ErrReturnValueInVoid, "function %q at line %d", p.curFn.Name, retTok.Line)
		}
		p.Builder.Emit(ircode.Ret, ircode.Operand{}, ircode.Operand{}, ircode.Operand{})
	} else {
		if p.cur.Kind == token.Semicolon {
			return errors.Wrapf(ErrMissingReturnValue, "function %q at line %d", p.curFn.Name, retTok.Line)
		}
		v, err := p.parseExpr()
		if err != nil {
			return err
		}
		if v.Type != p.curFn.ReturnType {
			return errors.Wrapf(ErrWrongReturnType, "function %q at line %d returns %s, got %s", p.curFn.Name, retTok.Line, p.curFn.ReturnType, v.Type)
		}
		p.Builder.Emit(ircode.Ret, ircode.AddrOperand(v.Addr), ircode.Operand{}, ircode.Operand{})
	}

	_, err = p.expect(token.Semicolon)
	return err
}
