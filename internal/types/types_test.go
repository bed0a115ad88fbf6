package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultArithmeticPromotion(t *testing.T) {
	cases := []struct {
		left, right Type
		op          Operator
		want        Type
		ok          bool
	}{
		{Integer, Integer, Add, Integer, true},
		{Integer, Float, Add, Float, true},
		{Float, Integer, Add, Float, true},
		{Float, Float, Mul, Float, true},
		{Bool, Bool, Add, Error, false},
		{String, String, Sub, Error, false},
	}
	for _, c := range cases {
		got, ok := Result(c.left, c.op, c.right)
		require.Equalf(t, c.ok, ok, "Result(%s, %v, %s)", c.left, c.op, c.right)
		require.Equalf(t, c.want, got, "Result(%s, %v, %s)", c.left, c.op, c.right)
	}
}

func TestResultComparisons(t *testing.T) {
	got, ok := Result(Integer, Lt, Float)
	require.True(t, ok)
	require.Equal(t, Bool, got)

	got, ok = Result(Bool, Eq, Bool)
	require.True(t, ok)
	require.Equal(t, Bool, got)

	got, ok = Result(String, Eq, String)
	require.True(t, ok)
	require.Equal(t, Bool, got)

	_, ok = Result(Bool, Lt, Bool)
	require.False(t, ok, "bool < bool should be rejected, the TCM has no ordering for bool")
}

func TestResultAssignment(t *testing.T) {
	got, ok := Result(Float, Assign, Integer)
	require.True(t, ok, "float <- integer should widen")
	require.Equal(t, Float, got)

	_, ok = Result(Integer, Assign, Float)
	require.False(t, ok, "integer <- float should be rejected: narrowing assignment is not allowed")

	got, ok = Result(String, Assign, String)
	require.True(t, ok)
	require.Equal(t, String, got)

	_, ok = Result(Bool, Assign, Integer)
	require.False(t, ok, "bool <- integer should be rejected")
}

func TestResultRejectsVoidAndError(t *testing.T) {
	_, ok := Result(Void, Add, Integer)
	require.False(t, ok, "void must never participate in the TCM")

	_, ok = Result(Error, Add, Integer)
	require.False(t, ok, "error must never participate in the TCM")
}

func TestIsNumeric(t *testing.T) {
	for _, typ := range []Type{Integer, Float} {
		require.Truef(t, IsNumeric(typ), "expected %s to be numeric", typ)
	}
	for _, typ := range []Type{Bool, String, Void, Error} {
		require.Falsef(t, IsNumeric(typ), "expected %s not to be numeric", typ)
	}
}
