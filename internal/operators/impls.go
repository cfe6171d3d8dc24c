package operators

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/inoxlang/treewalk/internal/core"
	"github.com/inoxlang/treewalk/internal/utils"
)

const (
	INT_TYPE   = "int"
	FLOAT_TYPE = "float"
	STR_TYPE   = "str"
	BOOL_TYPE  = "bool"
	NIL_TYPE   = "nil"

	MAX_REPEATED_STRING_LEN = 1 << 24
)

var (
	ErrIntOverflow          = errors.New("integer overflow")
	ErrIntDivisionByZero    = errors.New("integer division by zero")
	ErrNaNinfinityResult    = errors.New("result of floating point operation is NaN or (+|-)infinity")
	ErrRepeatedStringTooBig = errors.New("repeated string is too big")
	ErrNegativeRepeatCount  = errors.New("negative repeat count")
)

func intImpl(op core.Operator, name string, fn func(a, b core.Int) (core.Value, error)) *core.OperatorImpl {
	return &core.OperatorImpl{
		Name:     name,
		Operator: op,
		Apply: func(left, right core.Value) (core.Value, error) {
			a, ok1 := left.(core.Int)
			b, ok2 := right.(core.Int)
			if !ok1 || !ok2 {
				return nil, core.ErrOperandMismatch
			}
			return fn(a, b)
		},
	}
}

func floatImpl(op core.Operator, name string, fn func(a, b core.Float) (core.Value, error)) *core.OperatorImpl {
	return &core.OperatorImpl{
		Name:     name,
		Operator: op,
		Apply: func(left, right core.Value) (core.Value, error) {
			a, ok1 := left.(core.Float)
			b, ok2 := right.(core.Float)
			if !ok1 || !ok2 {
				return nil, core.ErrOperandMismatch
			}
			return fn(a, b)
		},
	}
}

func strImpl(op core.Operator, name string, fn func(a, b core.Str) (core.Value, error)) *core.OperatorImpl {
	return &core.OperatorImpl{
		Name:     name,
		Operator: op,
		Apply: func(left, right core.Value) (core.Value, error) {
			a, ok1 := left.(core.Str)
			b, ok2 := right.(core.Str)
			if !ok1 || !ok2 {
				return nil, core.ErrOperandMismatch
			}
			return fn(a, b)
		},
	}
}

func checkFloat(f core.Float) (core.Value, error) {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return nil, ErrNaNinfinityResult
	}
	return f, nil
}

func registerArithmetic(c *Catalog) {
	c.Register(INT_TYPE, INT_TYPE, intImpl(core.Add, "int+int", func(a, b core.Int) (core.Value, error) {
		if utils.AddOverflows(a, b) {
			return nil, ErrIntOverflow
		}
		return a + b, nil
	}))
	c.Register(INT_TYPE, INT_TYPE, intImpl(core.Sub, "int-int", func(a, b core.Int) (core.Value, error) {
		if b == math.MinInt64 {
			//-b is not representable: a - b only fits when a is negative
			if a >= 0 {
				return nil, ErrIntOverflow
			}
			return a - b, nil
		}
		if utils.AddOverflows(a, -b) {
			return nil, ErrIntOverflow
		}
		return a - b, nil
	}))
	c.Register(INT_TYPE, INT_TYPE, intImpl(core.Mul, "int*int", func(a, b core.Int) (core.Value, error) {
		if a != 0 && b != 0 {
			product := a * b
			if product/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
				return nil, ErrIntOverflow
			}
			return product, nil
		}
		return core.Int(0), nil
	}))
	c.Register(INT_TYPE, INT_TYPE, intImpl(core.Div, "int/int", func(a, b core.Int) (core.Value, error) {
		if b == 0 {
			return nil, ErrIntDivisionByZero
		}
		if a == math.MinInt64 && b == -1 {
			return nil, ErrIntOverflow
		}
		return a / b, nil
	}))
	c.Register(INT_TYPE, INT_TYPE, intImpl(core.Mod, "int%int", func(a, b core.Int) (core.Value, error) {
		if b == 0 {
			return nil, ErrIntDivisionByZero
		}
		if b == -1 {
			return core.Int(0), nil
		}
		return a % b, nil
	}))

	c.Register(FLOAT_TYPE, FLOAT_TYPE, floatImpl(core.Add, "float+float", func(a, b core.Float) (core.Value, error) {
		return checkFloat(a + b)
	}))
	c.Register(FLOAT_TYPE, FLOAT_TYPE, floatImpl(core.Sub, "float-float", func(a, b core.Float) (core.Value, error) {
		return checkFloat(a - b)
	}))
	c.Register(FLOAT_TYPE, FLOAT_TYPE, floatImpl(core.Mul, "float*float", func(a, b core.Float) (core.Value, error) {
		return checkFloat(a * b)
	}))
	c.Register(FLOAT_TYPE, FLOAT_TYPE, floatImpl(core.Div, "float/float", func(a, b core.Float) (core.Value, error) {
		return checkFloat(a / b)
	}))
	c.Register(FLOAT_TYPE, FLOAT_TYPE, floatImpl(core.Mod, "float%float", func(a, b core.Float) (core.Value, error) {
		return checkFloat(core.Float(math.Mod(float64(a), float64(b))))
	}))
}

func registerComparisons(c *Catalog) {
	type cmp struct {
		op   core.Operator
		test func(c int) bool
	}
	comparisons := []cmp{
		{core.Equal, func(c int) bool { return c == 0 }},
		{core.NotEqual, func(c int) bool { return c != 0 }},
		{core.Less, func(c int) bool { return c < 0 }},
		{core.LessOrEqual, func(c int) bool { return c <= 0 }},
		{core.Greater, func(c int) bool { return c > 0 }},
		{core.GreaterOrEqual, func(c int) bool { return c >= 0 }},
	}

	for _, comparison := range comparisons {
		test := comparison.test
		op := comparison.op

		c.Register(INT_TYPE, INT_TYPE, intImpl(op, "int"+op.String()+"int", func(a, b core.Int) (core.Value, error) {
			return core.Bool(test(compare(a, b))), nil
		}))
		c.Register(FLOAT_TYPE, FLOAT_TYPE, floatImpl(op, "float"+op.String()+"float", func(a, b core.Float) (core.Value, error) {
			return core.Bool(test(compare(a, b))), nil
		}))
		c.Register(STR_TYPE, STR_TYPE, strImpl(op, "str"+op.String()+"str", func(a, b core.Str) (core.Value, error) {
			return core.Bool(test(strings.Compare(string(a), string(b)))), nil
		}))
	}

	for _, op := range []core.Operator{core.Equal, core.NotEqual} {
		negate := op == core.NotEqual
		c.Register(BOOL_TYPE, BOOL_TYPE, &core.OperatorImpl{
			Name:     "bool" + op.String() + "bool",
			Operator: op,
			Apply: func(left, right core.Value) (core.Value, error) {
				a, ok1 := left.(core.Bool)
				b, ok2 := right.(core.Bool)
				if !ok1 || !ok2 {
					return nil, core.ErrOperandMismatch
				}
				return core.Bool((a == b) != negate), nil
			},
		})
	}
}

func registerStringOperators(c *Catalog) {
	c.Register(STR_TYPE, STR_TYPE, strImpl(core.Add, "str+str", func(a, b core.Str) (core.Value, error) {
		return a + b, nil
	}))
	c.Register(STR_TYPE, INT_TYPE, &core.OperatorImpl{
		Name:     "str*int",
		Operator: core.Mul,
		Apply: func(left, right core.Value) (core.Value, error) {
			s, ok1 := left.(core.Str)
			count, ok2 := right.(core.Int)
			if !ok1 || !ok2 {
				return nil, core.ErrOperandMismatch
			}
			if count < 0 {
				return nil, ErrNegativeRepeatCount
			}
			if count > 0 && int64(len(s))*int64(count) > MAX_REPEATED_STRING_LEN {
				return nil, ErrRepeatedStringTooBig
			}
			return core.Str(strings.Repeat(string(s), int(count))), nil
		},
	})
}

func compare[T core.Int | core.Float](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func promoteLeftToFloat(impl *core.OperatorImpl) *core.OperatorImpl {
	return &core.OperatorImpl{
		Name:     "int" + impl.Operator.String() + "float",
		Operator: impl.Operator,
		Apply: func(left, right core.Value) (core.Value, error) {
			a, ok1 := left.(core.Int)
			b, ok2 := right.(core.Float)
			if !ok1 || !ok2 {
				return nil, core.ErrOperandMismatch
			}
			return impl.Apply(core.Float(a), b)
		},
	}
}

func promoteRightToFloat(impl *core.OperatorImpl) *core.OperatorImpl {
	return &core.OperatorImpl{
		Name:     "float" + impl.Operator.String() + "int",
		Operator: impl.Operator,
		Apply: func(left, right core.Value) (core.Value, error) {
			a, ok1 := left.(core.Float)
			b, ok2 := right.(core.Int)
			if !ok1 || !ok2 {
				return nil, core.ErrOperandMismatch
			}
			return impl.Apply(a, core.Float(b))
		},
	}
}

// unrelatedEquality compares values of types without a registered equality: values
// of different types are never equal, values of the same comparable type are compared with ==.
func unrelatedEquality(key implKey, negate bool) *core.OperatorImpl {
	return &core.OperatorImpl{
		Name:     key.String(),
		Operator: key.op,
		Apply: func(left, right core.Value) (core.Value, error) {
			if core.TypeName(left) != key.left || core.TypeName(right) != key.right {
				return nil, core.ErrOperandMismatch
			}
			equal := false
			if key.left == key.right && left != nil && right != nil && reflect.TypeOf(left).Comparable() {
				equal = left == right
			} else if left == nil || right == nil {
				equal = key.left == NIL_TYPE && key.right == NIL_TYPE
			}
			return core.Bool(equal != negate), nil
		},
	}
}
