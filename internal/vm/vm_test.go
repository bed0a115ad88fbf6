package vm

import (
	"os"
	"strings"
	"sync"
	"testing"

	"patitolang/internal/address"
	"patitolang/internal/ircode"
	"patitolang/internal/symtab"
	"patitolang/internal/types"
	"patitolang/internal/util"
)

// captureRun runs quads/consts/funcs on a fresh Machine and returns
// everything written through PRINT, using the same ListenWrite/Writer
// plumbing the CLI driver uses.
func captureRun(t *testing.T, quads []ircode.Quad, consts []*ircode.Const, funcs *symtab.Directory) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "vmtest")
	if err != nil {
		t.Fatalf("could not create temp file: %s", err)
	}
	defer f.Close()

	var wg sync.WaitGroup
	util.ListenWrite(f, &wg)
	defer util.Close()

	if funcs == nil {
		funcs = symtab.NewDirectory()
	}
	w := util.NewWriter()
	m := New(quads, consts, funcs, &w)
	if err := m.Run(); err != nil {
		w.Close()
		wg.Wait()
		t.Fatalf("unexpected runtime error: %s", err)
	}
	w.Close()
	wg.Wait()

	out, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("could not read captured output: %s", err)
	}
	return string(out)
}

func TestArithmeticIntegerAddition(t *testing.T) {
	a := address.New()
	c3, _ := a.Allocate(address.Const, types.Integer)
	c4, _ := a.Allocate(address.Const, types.Integer)
	tmp, _ := a.Allocate(address.Temp, types.Integer)

	quads := []ircode.Quad{
		{Op: ircode.Add, Arg1: ircode.AddrOperand(c3), Arg2: ircode.AddrOperand(c4), Result: ircode.AddrOperand(tmp)},
		{Op: ircode.Print, Arg1: ircode.AddrOperand(tmp)},
		{Op: ircode.End},
	}
	consts := []*ircode.Const{
		{Type: types.Integer, Value: 3, Addr: c3},
		{Type: types.Integer, Value: 4, Addr: c4},
	}

	got := captureRun(t, quads, consts, nil)
	if strings.TrimSpace(got) != "7" {
		t.Fatalf("expected 3+4 to print 7, got %q", got)
	}
}

func TestArithmeticMixedIntFloatPromotesToFloat(t *testing.T) {
	a := address.New()
	ci, _ := a.Allocate(address.Const, types.Integer)
	cf, _ := a.Allocate(address.Const, types.Float)
	tmp, _ := a.Allocate(address.Temp, types.Float)

	quads := []ircode.Quad{
		{Op: ircode.Add, Arg1: ircode.AddrOperand(ci), Arg2: ircode.AddrOperand(cf), Result: ircode.AddrOperand(tmp)},
		{Op: ircode.Print, Arg1: ircode.AddrOperand(tmp)},
		{Op: ircode.End},
	}
	consts := []*ircode.Const{
		{Type: types.Integer, Value: 2, Addr: ci},
		{Type: types.Float, Value: 0.5, Addr: cf},
	}

	got := captureRun(t, quads, consts, nil)
	if strings.TrimSpace(got) != "2.5" {
		t.Fatalf("expected 2 + 0.5 to print 2.5, got %q", got)
	}
}

func TestDivisionByZero(t *testing.T) {
	a := address.New()
	c0, _ := a.Allocate(address.Const, types.Integer)
	c1, _ := a.Allocate(address.Const, types.Integer)
	tmp, _ := a.Allocate(address.Temp, types.Integer)

	quads := []ircode.Quad{
		{Op: ircode.Div, Arg1: ircode.AddrOperand(c1), Arg2: ircode.AddrOperand(c0), Result: ircode.AddrOperand(tmp)},
		{Op: ircode.End},
	}
	consts := []*ircode.Const{
		{Type: types.Integer, Value: 1, Addr: c1},
		{Type: types.Integer, Value: 0, Addr: c0},
	}

	m := New(quads, consts, symtab.NewDirectory(), nil)
	err := m.Run()
	if err == nil {
		t.Fatal("expected division by zero to return an error")
	}
	if !strings.Contains(err.Error(), ErrDivisionByZero.Error()) {
		t.Errorf("expected error to wrap ErrDivisionByZero, got %s", err)
	}
}

func TestReadUninitializedAddressReturnsZeroValue(t *testing.T) {
	a := address.New()
	g, _ := a.Allocate(address.Global, types.Integer)

	m := New(nil, nil, symtab.NewDirectory(), nil)
	v, err := m.read(g)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if v.Type != types.Integer || v.I != 0 {
		t.Fatalf("expected the zero value for an untouched global, got %+v", v)
	}
}

func TestWriteToConstIsRejected(t *testing.T) {
	a := address.New()
	c, _ := a.Allocate(address.Const, types.Integer)

	m := New(nil, nil, symtab.NewDirectory(), nil)
	if err := m.write(c, IntVal(1)); err == nil {
		t.Fatal("expected writing to a CONST address to fail")
	}
}

func TestGotoFJumpsOnFalse(t *testing.T) {
	a := address.New()
	cFalse, _ := a.Allocate(address.Const, types.Bool)
	cTrueLabel, _ := a.Allocate(address.Const, types.Integer)
	cSkipped, _ := a.Allocate(address.Const, types.Integer)
	tmp, _ := a.Allocate(address.Temp, types.Integer)

	// if false: skip the PRINT of cSkipped and jump straight to printing cTrueLabel.
	quads := []ircode.Quad{
		{Op: ircode.GotoF, Arg1: ircode.AddrOperand(cFalse), Result: ircode.ImmOperand(3)},
		{Op: ircode.Assign, Arg1: ircode.AddrOperand(cSkipped), Result: ircode.AddrOperand(tmp)},
		{Op: ircode.Print, Arg1: ircode.AddrOperand(tmp)},
		{Op: ircode.Assign, Arg1: ircode.AddrOperand(cTrueLabel), Result: ircode.AddrOperand(tmp)},
		{Op: ircode.Print, Arg1: ircode.AddrOperand(tmp)},
		{Op: ircode.End},
	}
	consts := []*ircode.Const{
		{Type: types.Bool, Value: false, Addr: cFalse},
		{Type: types.Integer, Value: 99, Addr: cTrueLabel},
		{Type: types.Integer, Value: -1, Addr: cSkipped},
	}

	got := captureRun(t, quads, consts, nil)
	if strings.TrimSpace(got) != "99" {
		t.Fatalf("expected the GOTOF-false path to print only 99, got %q", got)
	}
}

func TestCallAndReturnWithParameter(t *testing.T) {
	a := address.New()

	// integer inc(x: integer) { { return x + 1; } }, body emitted before
	// the call site, the order the parser's program skeleton produces:
	// an initial GOTO carries the main thread past every function body.
	a.ResetLocals()
	a.ResetTemps()
	paramAddr, _ := a.Allocate(address.Local, types.Integer)
	entryQuad := 1

	c5, _ := a.Allocate(address.Const, types.Integer)
	c1, _ := a.Allocate(address.Const, types.Integer)
	sumTmp, _ := a.Allocate(address.Temp, types.Integer)
	resultTmp, _ := a.Allocate(address.Temp, types.Integer)

	funcs := symtab.NewDirectory()
	fn, err := funcs.Add("inc", types.Integer)
	if err != nil {
		t.Fatal(err)
	}
	fn.EntryQuad = entryQuad
	fn.Locals.Add("x", types.Integer, paramAddr, true)
	v, _ := fn.Locals.Lookup("x")
	fn.Parameters = []*symtab.Variable{v}

	quads := []ircode.Quad{
		0: {Op: ircode.Goto, Result: ircode.ImmOperand(4)},
		1: {Op: ircode.Add, Arg1: ircode.AddrOperand(paramAddr), Arg2: ircode.AddrOperand(c1), Result: ircode.AddrOperand(sumTmp)}, // entry quad
		2: {Op: ircode.Ret, Arg1: ircode.AddrOperand(sumTmp)},
		3: {Op: ircode.Endfunc},
		4: {Op: ircode.Era, Result: ircode.NameOperand("inc")},
		5: {Op: ircode.Param, Arg1: ircode.AddrOperand(c5), Result: ircode.ImmOperand(1)},
		6: {Op: ircode.Gosub, Arg1: ircode.NameOperand("inc"), Result: ircode.ImmOperand(entryQuad)},
		7: {Op: ircode.FetchRet, Arg1: ircode.NameOperand("inc"), Result: ircode.AddrOperand(resultTmp)},
		8: {Op: ircode.Print, Arg1: ircode.AddrOperand(resultTmp)},
		9: {Op: ircode.End},
	}
	consts := []*ircode.Const{
		{Type: types.Integer, Value: 5, Addr: c5},
		{Type: types.Integer, Value: 1, Addr: c1},
	}

	got := captureRun(t, quads, consts, funcs)
	if strings.TrimSpace(got) != "6" {
		t.Fatalf("expected inc(5) to print 6, got %q", got)
	}
}

func TestVoidFunctionCallRunsBodyAndResumes(t *testing.T) {
	a := address.New()
	a.ResetLocals()
	a.ResetTemps()
	entryQuad := 3

	funcs := symtab.NewDirectory()
	fn, err := funcs.Add("greet", types.Void)
	if err != nil {
		t.Fatal(err)
	}
	fn.EntryQuad = entryQuad

	cHello, _ := a.Allocate(address.Const, types.String)

	quads := []ircode.Quad{
		0: {Op: ircode.Era, Result: ircode.NameOperand("greet")},
		1: {Op: ircode.Gosub, Arg1: ircode.NameOperand("greet"), Result: ircode.ImmOperand(entryQuad)},
		2: {Op: ircode.End}, // resumed here once greet's ENDFUNC returns control
		3: {Op: ircode.Print, Arg1: ircode.AddrOperand(cHello)},
		4: {Op: ircode.Ret},
		5: {Op: ircode.Endfunc},
		6: {Op: ircode.End},
	}
	consts := []*ircode.Const{{Type: types.String, Value: "hi", Addr: cHello}}

	got := captureRun(t, quads, consts, funcs)
	if strings.TrimSpace(got) != "hi" {
		t.Fatalf("expected the call to greet() to print hi, got %q", got)
	}
}
