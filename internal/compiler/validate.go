package compiler

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"patitolang/internal/ircode"
	"patitolang/internal/symtab"
	"patitolang/internal/util"
)

// ListErrors re-validates every function's compiled body independently
// and in parallel, collecting every failure instead of stopping at the
// first one, for the CLI's `-list-errors` mode. This is the one
// sanctioned concurrent stage of the pipeline (spec.md §5, SPEC_FULL.md
// §4.6): ordinary compilation still fails fast in the parser.
//
// Each function is checked against the testable property of spec.md §8:
// "entry_quad points to a real quad and the sequence from there
// contains a reachable ENDFUNC."
func (pr *Program) ListErrors(ctx context.Context) []error {
	collector := util.NewErrorCollector(len(pr.Funcs.All()))

	g, _ := errgroup.WithContext(ctx)
	for _, fn := range pr.Funcs.All() {
		fn := fn
		g.Go(func() error {
			collector.Append(validateFunction(fn, pr.Quads))
			return nil
		})
	}
	_ = g.Wait()

	return collector.Errors()
}

func validateFunction(fn *symtab.Function, quads []ircode.Quad) error {
	if fn.EntryQuad < 0 || fn.EntryQuad >= len(quads) {
		return errors.Errorf("function %q: entry_quad %d is out of range", fn.Name, fn.EntryQuad)
	}
	for i := fn.EntryQuad; i < len(quads); i++ {
		if quads[i].Op == ircode.Endfunc {
			return nil
		}
	}
	return errors.Errorf("function %q: no reachable ENDFUNC from entry_quad %d", fn.Name, fn.EntryQuad)
}
