package compiler

import (
	"fmt"
	"strings"
)

// DumpQuads renders the quadruple list in index order, the debug view
// described in spec.md §6's "Persisted state" paragraph and grounded on
// main.py's compile_and_execute quad-dump branch.
func (pr *Program) DumpQuads() string {
	if len(pr.Quads) == 0 {
		return "(no quadruples)\n"
	}
	var b strings.Builder
	for i, q := range pr.Quads {
		fmt.Fprintf(&b, "%4d: %s\n", i, q)
	}
	return b.String()
}

// DumpConsts renders the constant table in allocation order, grounded on
// main.py's "(valor -> direccion)" debug branch.
func (pr *Program) DumpConsts() string {
	if len(pr.Consts) == 0 {
		return "(no constants)\n"
	}
	var b strings.Builder
	for _, c := range pr.Consts {
		fmt.Fprintf(&b, "  %-8s %v @ %d\n", c.Type, c.Value, c.Addr)
	}
	return b.String()
}

// DumpSymbols renders the global variable table and the function
// directory (return type, parameters, locals), grounded on main.py's
// print_symbols.
func (pr *Program) DumpSymbols() string {
	var b strings.Builder

	fmt.Fprintln(&b, "=== globals ===")
	gvars := pr.Global.All()
	if len(gvars) == 0 {
		fmt.Fprintln(&b, "  (none)")
	}
	for _, v := range gvars {
		fmt.Fprintf(&b, "  %s : %s @ %d\n", v.Name, v.Type, v.Address)
	}

	fmt.Fprintln(&b, "\n=== functions ===")
	funcs := pr.Funcs.All()
	if len(funcs) == 0 {
		fmt.Fprintln(&b, "  (none)")
	}
	for _, fn := range funcs {
		fmt.Fprintf(&b, "\n%s : %s, entry quad %d\n", fn.Name, fn.ReturnType, fn.EntryQuad)
		if len(fn.Parameters) == 0 {
			fmt.Fprintln(&b, "  parameters: (none)")
		} else {
			fmt.Fprintln(&b, "  parameters:")
			for _, p := range fn.Parameters {
				fmt.Fprintf(&b, "    %s : %s @ %d\n", p.Name, p.Type, p.Address)
			}
		}
		locals := fn.Locals.All()
		if len(locals) == 0 {
			fmt.Fprintln(&b, "  locals: (none)")
		} else {
			fmt.Fprintln(&b, "  locals:")
			for _, v := range locals {
				role := "local"
				if v.IsParam {
					role = "parameter"
				}
				fmt.Fprintf(&b, "    %s : %s (%s) @ %d\n", v.Name, v.Type, role, v.Address)
			}
		}
	}

	return b.String()
}
