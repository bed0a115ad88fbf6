package parser

import (
	"github.com/pkg/errors"

	"patitolang/internal/address"
	"patitolang/internal/ircode"
	"patitolang/internal/token"
	"patitolang/internal/types"
)

// parseFuncDef implements the function-definition semantic action of
// spec.md §4.4: reset local/temp counters, insert into the directory,
// record entry_quad, register parameters, process the body, record
// usage at close, and emit ENDFUNC. The body grammar nests a second
// brace, `{ vars? { stmts } }`, matching the original source's
// function bodies (an optional locals declaration followed by a
// bracketed statement list).
func (p *Parser) parseFuncDef() error {
	var retType types.Type
	if p.cur.Kind == token.Void {
		p.advance()
		retType = types.Void
	} else {
		t, err := p.parseType()
		if err != nil {
			return err
		}
		retType = t
	}

	nameTok, err := p.expect(token.Identifier)
	if err != nil {
		return err
	}

	fn, err := p.Funcs.Add(nameTok.Lit, retType)
	if err != nil {
		return errors.Wrapf(err, "at line %d", nameTok.Line)
	}

	p.Builder.Addr.ResetLocals()
	p.Builder.Addr.ResetTemps()
	fn.EntryQuad = p.Builder.NextQuad()

	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	if p.cur.Kind != token.RParen {
		for {
			pname, err := p.expect(token.Identifier)
			if err != nil {
				return err
			}
			if _, err := p.expect(token.Colon); err != nil {
				return err
			}
			ptype, err := p.parseType()
			if err != nil {
				return err
			}
			addr, err := p.Builder.Addr.Allocate(address.Local, ptype)
			if err != nil {
				return err
			}
			if err := fn.Locals.Add(pname.Lit, ptype, addr, true); err != nil {
				return errors.Wrapf(err, "at line %d", pname.Line)
			}
			v, _ := fn.Locals.Lookup(pname.Lit)
			fn.Parameters = append(fn.Parameters, v)

			if p.cur.Kind != token.Comma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}

	if _, err := p.expect(token.LBrace); err != nil {
		return err
	}

	prevFn := p.curFn
	p.curFn = fn

	if p.cur.Kind == token.Vars {
		if err := p.parseVarsSection(address.Local, fn.Locals); err != nil {
			p.curFn = prevFn
			return err
		}
	}

	if _, err := p.expect(token.LBrace); err != nil {
		p.curFn = prevFn
		return err
	}
	if err := p.parseStmtList(); err != nil {
		p.curFn = prevFn
		return err
	}
	if _, err := p.expect(token.RBrace); err != nil {
		p.curFn = prevFn
		return err
	}
	if _, err := p.expect(token.RBrace); err != nil {
		p.curFn = prevFn
		return err
	}

	fn.LocalsSizeByType = p.Builder.Addr.Usage(address.Local)
	fn.TempsSizeByType = p.Builder.Addr.Usage(address.Temp)
	p.Builder.Emit(ircode.Endfunc, ircode.Operand{}, ircode.Operand{}, ircode.Operand{})

	p.curFn = prevFn
	_, err = p.expect(token.Semicolon)
	return err
}
