package operators

import (
	"math"
	"testing"

	"github.com/inoxlang/treewalk/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogResolve(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		op     core.Operator
		left   core.Value
		right  core.Value
		result core.Value
		impl   string
	}{
		{"int addition", core.Add, core.Int(1), core.Int(2), core.Int(3), "int+int"},
		{"int subtraction", core.Sub, core.Int(1), core.Int(2), core.Int(-1), "int-int"},
		{"subtraction of the smallest int", core.Sub, core.Int(-1), core.Int(math.MinInt64), core.Int(math.MaxInt64), "int-int"},
		{"int division", core.Div, core.Int(7), core.Int(2), core.Int(3), "int/int"},
		{"int modulo", core.Mod, core.Int(7), core.Int(2), core.Int(1), "int%int"},
		{"float multiplication", core.Mul, core.Float(1.5), core.Float(2), core.Float(3), "float*float"},
		{"int promoted to float (left)", core.Add, core.Int(1), core.Float(0.5), core.Float(1.5), "int+float"},
		{"int promoted to float (right)", core.Sub, core.Float(1.5), core.Int(1), core.Float(0.5), "float-int"},
		{"string concatenation", core.Add, core.Str("a"), core.Str("b"), core.Str("ab"), "str+str"},
		{"string repetition", core.Mul, core.Str("ab"), core.Int(3), core.Str("ababab"), "str*int"},
		{"int comparison", core.Less, core.Int(1), core.Int(2), core.True, "int<int"},
		{"string comparison", core.GreaterOrEqual, core.Str("a"), core.Str("b"), core.False, "str>=str"},
		{"bool equality", core.Equal, core.True, core.True, core.True, "bool==bool"},
		{"mixed equality", core.Equal, core.Int(1), core.Float(1), core.True, "int==float"},
		{"unrelated equality", core.Equal, core.Int(1), core.Str("1"), core.False, "int == str"},
		{"unrelated inequality", core.NotEqual, core.Int(1), core.Str("1"), core.True, "int != str"},
		{"nil equality", core.Equal, core.Nil, core.Nil, core.True, "nil == nil"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			catalog := NewCatalog()
			impl, result, err := catalog.Resolve(testCase.op, testCase.left, testCase.right)
			require.NoError(t, err)

			assert.Equal(t, testCase.result, result)
			assert.Equal(t, testCase.impl, impl.Name)
			assert.Equal(t, testCase.op, impl.Operator)
		})
	}
}

func TestCatalogErrors(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()

	t.Run("no implementation", func(t *testing.T) {
		_, _, err := catalog.Resolve(core.Sub, core.Str("a"), core.Int(1))
		assert.ErrorIs(t, err, core.ErrNoOperatorImpl)
	})

	t.Run("integer division by zero", func(t *testing.T) {
		_, _, err := catalog.Resolve(core.Div, core.Int(1), core.Int(0))
		assert.ErrorIs(t, err, ErrIntDivisionByZero)
	})

	t.Run("integer overflow", func(t *testing.T) {
		_, _, err := catalog.Resolve(core.Add, core.Int(math.MaxInt64), core.Int(1))
		assert.ErrorIs(t, err, ErrIntOverflow)

		_, _, err = catalog.Resolve(core.Mul, core.Int(math.MaxInt64), core.Int(2))
		assert.ErrorIs(t, err, ErrIntOverflow)

		_, _, err = catalog.Resolve(core.Sub, core.Int(math.MinInt64), core.Int(1))
		assert.ErrorIs(t, err, ErrIntOverflow)

		_, _, err = catalog.Resolve(core.Sub, core.Int(0), core.Int(math.MinInt64))
		assert.ErrorIs(t, err, ErrIntOverflow)
	})

	t.Run("infinite float", func(t *testing.T) {
		_, _, err := catalog.Resolve(core.Div, core.Float(1), core.Float(0))
		assert.ErrorIs(t, err, ErrNaNinfinityResult)
	})

	t.Run("negative repeat count", func(t *testing.T) {
		_, _, err := catalog.Resolve(core.Mul, core.Str("a"), core.Int(-1))
		assert.ErrorIs(t, err, ErrNegativeRepeatCount)
	})
}

func TestImplementationsRejectOtherTypes(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()

	impl, _, err := catalog.Resolve(core.Add, core.Int(1), core.Int(1))
	require.NoError(t, err)

	_, err = impl.Apply(core.Float(1), core.Float(1))
	assert.ErrorIs(t, err, core.ErrOperandMismatch)

	promoted, _, err := catalog.Resolve(core.Add, core.Int(1), core.Float(1))
	require.NoError(t, err)

	_, err = promoted.Apply(core.Int(1), core.Int(1))
	assert.ErrorIs(t, err, core.ErrOperandMismatch)

	equality, _, err := catalog.Resolve(core.Equal, core.Int(1), core.Str("a"))
	require.NoError(t, err)

	_, err = equality.Apply(core.Str("a"), core.Int(1))
	assert.ErrorIs(t, err, core.ErrOperandMismatch)
}

func TestPromotionsAreMemoized(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()

	first, _, err := catalog.Resolve(core.Add, core.Int(1), core.Float(1))
	require.NoError(t, err)

	second, _, err := catalog.Resolve(core.Add, core.Int(2), core.Float(2))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 2, catalog.Resolutions())

	//missing implementations are memoized too
	_, _, err = catalog.Resolve(core.Sub, core.Str("a"), core.Int(1))
	assert.Error(t, err)
	_, _, err = catalog.Resolve(core.Sub, core.Str("a"), core.Int(1))
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	catalog := NewEmptyCatalog()
	_, _, err := catalog.Resolve(core.Add, core.Int(1), core.Int(1))
	assert.ErrorIs(t, err, core.ErrNoOperatorImpl)

	catalog.Register(INT_TYPE, INT_TYPE, &core.OperatorImpl{
		Name:     "always-zero",
		Operator: core.Add,
		Apply: func(left, right core.Value) (core.Value, error) {
			return core.Int(0), nil
		},
	})

	_, result, err := catalog.Resolve(core.Add, core.Int(1), core.Int(1))
	require.NoError(t, err)
	assert.Equal(t, core.Int(0), result)
}
