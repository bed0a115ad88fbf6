// Package compiler wires the lexer, parser, and intermediate-code
// generator into a single Compile entry point, and bundles the
// resulting artifacts into a Program that the VM can execute. Grounded
// on main.py's compile_and_execute/print_symbols staged pipeline.
package compiler

import (
	"patitolang/internal/ircode"
	"patitolang/internal/parser"
	"patitolang/internal/symtab"
	"patitolang/internal/util"
	"patitolang/internal/vm"
)

// Program bundles everything one compilation produces: the quadruple
// list, the interned constant table, the function directory, and the
// global variable table.
type Program struct {
	Quads  []ircode.Quad
	Consts []*ircode.Const
	Funcs  *symtab.Directory
	Global *symtab.VarTable
}

// Compile runs source through the lexer/parser/IR-builder pipeline and
// returns the compiled Program, or the first compile error encountered.
func Compile(src string) (*Program, error) {
	p, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return &Program{
		Quads:  p.Builder.Quads,
		Consts: p.Builder.Consts(),
		Funcs:  p.Funcs,
		Global: p.Global,
	}, nil
}

// Run executes the Program on a fresh VM instance, writing PRINT output
// through out.
func (pr *Program) Run(out *util.Writer) error {
	m := vm.New(pr.Quads, pr.Consts, pr.Funcs, out)
	return m.Run()
}
