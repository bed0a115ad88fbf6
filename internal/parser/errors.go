package parser

import "github.com/pkg/errors"

// Sentinel errors for the semantic and syntactic taxonomy of spec.md §7.
// Each is wrapped with context at the point it is raised (usually the
// source line; operator type mismatches and unexpected end of input
// carry none), so callers can still recover the kind with errors.Is.
var (
	ErrUnexpectedToken       = errors.New("unexpected-token")
	ErrUnexpectedEOF         = errors.New("unexpected-end-of-input")
	ErrUndeclaredFunction    = errors.New("undeclared-function")
	ErrTypeMismatch          = errors.New("type-mismatch")
	ErrNonBooleanCondition   = errors.New("non-boolean-condition")
	ErrArityMismatch         = errors.New("arity-mismatch")
	ErrParameterTypeMismatch = errors.New("parameter-type-mismatch")
	ErrVoidCallInExpression  = errors.New("void-call-in-expression")
	ErrReturnOutsideFunction = errors.New("return-outside-function")
	ErrReturnValueInVoid     = errors.New("return-value-in-void")
	ErrMissingReturnValue    = errors.New("missing-return-value")
	ErrWrongReturnType       = errors.New("wrong-return-type")
	ErrUnarySignOnNonNumeric = errors.New("unary-sign-on-non-numeric")
)
