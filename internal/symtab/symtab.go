// Package symtab implements the scoped variable tables and function
// directory described in spec.md §4.2, grounded on tabla_symbolos.py's
// dataclass-style records, using an insertion-ordered, map-backed
// Get(name) convention.
package symtab

import (
	"fmt"

	"patitolang/internal/address"
	"patitolang/internal/types"
)

// Variable is an immutable record of one declared variable or parameter.
type Variable struct {
	Name    string
	Type    types.Type
	Address address.Address
	IsParam bool
}

// VarTable is an insertion-ordered mapping from name to Variable, scoped
// to either the global program or exactly one function.
type VarTable struct {
	byName map[string]*Variable
	order  []*Variable
}

// NewVarTable returns an empty variable table.
func NewVarTable() *VarTable {
	return &VarTable{byName: make(map[string]*Variable)}
}

// ErrDuplicateDeclaration is returned by Add when name already exists in
// the table.
var ErrDuplicateDeclaration = fmt.Errorf("duplicate-declaration")

// Add inserts a new variable record. It fails with
// ErrDuplicateDeclaration if name is already present.
func (t *VarTable) Add(name string, typ types.Type, addr address.Address, isParam bool) error {
	if _, ok := t.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateDeclaration, name)
	}
	v := &Variable{Name: name, Type: typ, Address: addr, IsParam: isParam}
	t.byName[name] = v
	t.order = append(t.order, v)
	return nil
}

// Lookup returns the variable record for name in this table only (no
// scope chaining), or nil, false if not present.
func (t *VarTable) Lookup(name string) (*Variable, bool) {
	v, ok := t.byName[name]
	return v, ok
}

// All returns every variable in insertion order.
func (t *VarTable) All() []*Variable {
	return t.order
}

// Function is the record of one defined function.
type Function struct {
	Name             string
	ReturnType       types.Type // types.Void for procedures.
	Parameters       []*Variable
	Locals           *VarTable
	EntryQuad        int
	LocalsSizeByType map[types.Type]int
	TempsSizeByType  map[types.Type]int
}

// ErrDuplicateFunction is returned by Directory.Add when name already
// exists.
var ErrDuplicateFunction = fmt.Errorf("duplicate-function")

// Directory is an insertion-ordered mapping from function name to
// Function record. Function and variable namespaces are disjoint
// (spec.md §3): a Directory never consults a VarTable and vice versa.
type Directory struct {
	byName map[string]*Function
	order  []*Function
}

// NewDirectory returns an empty function directory.
func NewDirectory() *Directory {
	return &Directory{byName: make(map[string]*Function)}
}

// Add registers a new function with the given name and return type. It
// fails with ErrDuplicateFunction if name is already present.
func (d *Directory) Add(name string, returnType types.Type) (*Function, error) {
	if _, ok := d.byName[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateFunction, name)
	}
	f := &Function{Name: name, ReturnType: returnType, Locals: NewVarTable()}
	d.byName[name] = f
	d.order = append(d.order, f)
	return f, nil
}

// Get returns the function record for name, or nil, false if absent.
func (d *Directory) Get(name string) (*Function, bool) {
	f, ok := d.byName[name]
	return f, ok
}

// All returns every function in insertion order.
func (d *Directory) All() []*Function {
	return d.order
}

// ErrUndeclaredVariable is returned by Scope.Lookup when no enclosing
// scope declares the name.
var ErrUndeclaredVariable = fmt.Errorf("undeclared-variable")

// Scope chains a function's local table to the global table: current
// function table first, then global.
type Scope struct {
	Local  *VarTable // nil when compiling at global scope (outside any function).
	Global *VarTable
}

// Lookup resolves name against the local table first, then the global
// table.
func (s Scope) Lookup(name string) (*Variable, error) {
	if s.Local != nil {
		if v, ok := s.Local.Lookup(name); ok {
			return v, nil
		}
	}
	if v, ok := s.Global.Lookup(name); ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUndeclaredVariable, name)
}
