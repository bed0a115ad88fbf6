package vm

import (
	"fmt"

	"patitolang/internal/types"
)

// Value is a runtime Patito scalar. Only the field matching Type is
// meaningful; the others hold their Go zero values.
type Value struct {
	Type types.Type
	I    int64
	F    float64
	B    bool
	S    string
}

// IntVal returns an integer Value.
func IntVal(i int64) Value { return Value{Type: types.Integer, I: i} }

// FloatVal returns a float Value.
func FloatVal(f float64) Value { return Value{Type: types.Float, F: f} }

// BoolVal returns a bool Value.
func BoolVal(b bool) Value { return Value{Type: types.Bool, B: b} }

// StringVal returns a string Value.
func StringVal(s string) Value { return Value{Type: types.String, S: s} }

// Zero returns the zero value for t: integer 0, float 0.0, bool false,
// or an empty string. Reading an address that was never written returns
// this value (spec.md §4.5's "deliberate tolerance", see DESIGN.md
// Open Question decisions).
func Zero(t types.Type) Value {
	switch t {
	case types.Integer:
		return IntVal(0)
	case types.Float:
		return FloatVal(0)
	case types.Bool:
		return BoolVal(false)
	case types.String:
		return StringVal("")
	default:
		return Value{Type: t}
	}
}

// Truthy reports whether v is truthy. Per spec.md §4.5's GOTOF rule,
// bool false and numeric zero are falsy.
func (v Value) Truthy() bool {
	switch v.Type {
	case types.Bool:
		return v.B
	case types.Integer:
		return v.I != 0
	case types.Float:
		return v.F != 0
	default:
		return true
	}
}

// Float returns v's value widened to float64, for mixed-type arithmetic.
func (v Value) Float() float64 {
	if v.Type == types.Integer {
		return float64(v.I)
	}
	return v.F
}

// String renders v the way PRINT writes it to the output sink.
func (v Value) String() string {
	switch v.Type {
	case types.Integer:
		return fmt.Sprintf("%d", v.I)
	case types.Float:
		return fmt.Sprintf("%g", v.F)
	case types.Bool:
		if v.B {
			return "true"
		}
		return "false"
	case types.String:
		return v.S
	default:
		return ""
	}
}

// Equal reports whether v and o compare equal under Patito's == operator.
func (v Value) Equal(o Value) bool {
	if types.IsNumeric(v.Type) && types.IsNumeric(o.Type) {
		return v.Float() == o.Float()
	}
	switch v.Type {
	case types.Bool:
		return v.B == o.B
	case types.String:
		return v.S == o.S
	default:
		return false
	}
}
