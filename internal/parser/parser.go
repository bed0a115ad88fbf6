// Package parser implements the hand-written recursive-descent parser
// that drives Patito's semantic-action layer (spec.md §4.4, §6). Each
// grammar rule's function both recognizes its slice of the surface
// grammar and performs the mid-rule semantic actions directly. The
// concrete surface grammar is our own, since spec.md §1 puts grammar
// tables out of scope, drawn from the six end-to-end programs of
// spec.md §8 and the original source's own test fixtures.
package parser

import (
	"github.com/pkg/errors"

	"patitolang/internal/address"
	"patitolang/internal/ircode"
	"patitolang/internal/lexer"
	"patitolang/internal/symtab"
	"patitolang/internal/token"
	"patitolang/internal/types"
	"patitolang/internal/util"
)

// Parser holds the single-token lookahead scanner interface, the IR
// Builder under construction, and the symbol tables being populated as
// parsing proceeds. It is used once per compilation and discarded.
type Parser struct {
	lex *lexer.Lexer
	cur token.Token

	Builder *ircode.Builder
	Funcs   *symtab.Directory
	Global  *symtab.VarTable

	curFn *symtab.Function // nil while parsing at program (main) scope.

	operands  util.Stack[ircode.Value]
	operators util.Stack[types.Operator]
}

// New returns a Parser ready to consume src.
func New(src string) *Parser {
	p := &Parser{
		lex:     lexer.New(src),
		Builder: ircode.New(),
		Funcs:   symtab.NewDirectory(),
		Global:  symtab.NewVarTable(),
	}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.lex.Next()
}

// expect consumes the current token if it has kind k, else fails with
// ErrUnexpectedToken (or ErrUnexpectedEOF at end of input).
func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur.Kind == token.EOF && k != token.EOF {
		return token.Token{}, errors.Wrapf(ErrUnexpectedEOF, "expected %s", k)
	}
	if p.cur.Kind == token.Error {
		return token.Token{}, errors.Wrapf(ErrUnexpectedToken, "%s", p.cur.Lit)
	}
	if p.cur.Kind != k {
		return token.Token{}, errors.Wrapf(ErrUnexpectedToken, "expected %s, found %s at line %d", k, p.cur.Kind, p.cur.Line)
	}
	t := p.cur
	p.advance()
	return t, nil
}

func (p *Parser) scopeFor() symtab.Scope {
	if p.curFn != nil {
		return symtab.Scope{Local: p.curFn.Locals, Global: p.Global}
	}
	return symtab.Scope{Global: p.Global}
}

// Parse consumes the whole program and returns the populated Builder
// and Funcs/Global tables, or the first error encountered (compilation
// fails fast, per spec.md §4.4).
func Parse(src string) (*Parser, error) {
	p := New(src)
	if err := p.parseProgram(); err != nil {
		return nil, err
	}
	return p, nil
}

// parseProgram implements the program skeleton of spec.md §4.4: an
// initial GOTO is emitted before any function body and backpatched to
// main's first quad once `begin` is reached, guaranteeing execution
// enters main even though function bodies are emitted first.
func (p *Parser) parseProgram() error {
	if _, err := p.expect(token.Program); err != nil {
		return err
	}
	if _, err := p.expect(token.Identifier); err != nil {
		return err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return err
	}

	skeletonGoto := p.Builder.Emit(ircode.Goto, ircode.Operand{}, ircode.Operand{}, ircode.Operand{})

	if p.cur.Kind == token.Vars {
		if err := p.parseVarsSection(address.Global, p.Global); err != nil {
			return err
		}
	}

	for p.cur.Kind == token.KwInteger || p.cur.Kind == token.KwFloat || p.cur.Kind == token.Void {
		if err := p.parseFuncDef(); err != nil {
			return err
		}
	}

	if _, err := p.expect(token.Begin); err != nil {
		return err
	}
	p.Builder.Backpatch(skeletonGoto, p.Builder.NextQuad())

	if err := p.parseStmtList(); err != nil {
		return err
	}

	if _, err := p.expect(token.End); err != nil {
		return err
	}
	p.Builder.Emit(ircode.End, ircode.Operand{}, ircode.Operand{}, ircode.Operand{})
	return nil
}

// parseType recognizes the two declarable scalar types. void is handled
// by callers directly since it is only legal as a function return type.
func (p *Parser) parseType() (types.Type, error) {
	switch p.cur.Kind {
	case token.KwInteger:
		p.advance()
		return types.Integer, nil
	case token.KwFloat:
		p.advance()
		return types.Float, nil
	default:
		return types.Error, errors.Wrapf(ErrUnexpectedToken, "expected a type, found %s at line %d", p.cur.Kind, p.cur.Line)
	}
}

// parseVarsSection handles a single `vars name, name : type ;`
// declaration group, allocating a fresh address of seg for every name
// (spec.md §4.2's add(name, type, address, is_param) action). Exactly
// one vars section is permitted per scope; the grammar never accepts
// a second `vars` keyword, matching the original source's CFG (a
// second `vars` block is a documented parse failure there).
func (p *Parser) parseVarsSection(seg address.Segment, table *symtab.VarTable) error {
	if _, err := p.expect(token.Vars); err != nil {
		return err
	}
	names := []string{}
	name, err := p.expect(token.Identifier)
	if err != nil {
		return err
	}
	names = append(names, name.Lit)
	for p.cur.Kind == token.Comma {
		p.advance()
		nxt, err := p.expect(token.Identifier)
		if err != nil {
			return err
		}
		names = append(names, nxt.Lit)
	}
	if _, err := p.expect(token.Colon); err != nil {
		return err
	}
	typ, err := p.parseType()
	if err != nil {
		return err
	}
	for _, n := range names {
		addr, err := p.Builder.Addr.Allocate(seg, typ)
		if err != nil {
			return err
		}
		if err := table.Add(n, typ, addr, false); err != nil {
			return errors.Wrapf(err, "at line %d", name.Line)
		}
	}
	_, err = p.expect(token.Semicolon)
	return err
}
