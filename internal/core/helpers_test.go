package core

import (
	"errors"
	"fmt"

	"github.com/inoxlang/treewalk/internal/sourcecode"
)

var noPos sourcecode.PositionRange

func posAt(line int32) sourcecode.PositionRange {
	return sourcecode.PositionRange{SourceName: "test", StartLine: line, StartColumn: 1}
}

func lit(v Value) Node {
	return NewLiteral(noPos, v)
}

func read(name string) *Name {
	return NewName(noPos, name, UseRead)
}

func write(name string) *Name {
	return NewName(noPos, name, UseWrite)
}

func set(name string, value Node) *Assignment {
	return NewAssignment(noPos, write(name), value)
}

func call(target string, args ...Node) *Call {
	return NewCall(noPos, NewName(noPos, target, UseCallTarget), args...)
}

func binop(op Operator, left, right Node) *BinaryOp {
	return NewBinaryOp(noPos, op, left, right)
}

func fn(params []string, statements ...Node) *FunctionLiteral {
	var paramList *ParamList
	if len(params) > 0 {
		nodes := make([]*Param, len(params))
		for i, name := range params {
			nodes[i] = NewParam(noPos, name, nil)
		}
		paramList = NewParamList(noPos, nodes...)
	}
	return NewFunctionLiteral(noPos, paramList, NewSequence(noPos, statements...))
}

func def(name string, params []string, statements ...Node) *FunctionDef {
	return NewFunctionDef(noPos, write(name), fn(params, statements...))
}

func module(lang LanguageOptions, statements ...Node) *Module {
	return NewModule(noPos, "test", lang, NewSequence(noPos, statements...))
}

// testIf is a minimal conditional special form: if(condition, consequent, alternate).
var testIf = &SpecialForm{
	Name: "if",
	TailArgs: func(index, argCount int) bool {
		return index >= 1
	},
	Fn: func(ctx *Context, call *Call, args []Node) (Value, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("%w: if expects 3 arguments", ErrInvalidArgCount)
		}
		condition, err := args[0].Eval(ctx)
		if err != nil {
			return nil, err
		}
		if IsTruthy(condition) {
			return args[1].Eval(ctx)
		}
		return args[2].Eval(ctx)
	},
}

// testCatalog supports the integer operators and float addition, it counts the full dispatches.
type testCatalog struct {
	resolutions int
}

func (c *testCatalog) Resolve(op Operator, left, right Value) (*OperatorImpl, Value, error) {
	c.resolutions++

	var impl *OperatorImpl
	switch {
	case TypeName(left) == "int" && TypeName(right) == "int":
		impl = intImpls[op]
	case TypeName(left) == "float" && TypeName(right) == "float" && op == Add:
		impl = floatAdd
	case TypeName(left) == "str" && TypeName(right) == "str" && op == Add:
		impl = strConcat
	}

	if impl == nil {
		return nil, nil, fmt.Errorf("%w %s %s %s", ErrNoOperatorImpl, TypeName(left), op, TypeName(right))
	}
	result, err := impl.Apply(left, right)
	if err != nil {
		return nil, nil, err
	}
	return impl, result, nil
}

var (
	errTestDivisionByZero = errors.New("division by zero")

	intImpls = map[Operator]*OperatorImpl{
		Add:   intImpl(Add, func(a, b Int) (Value, error) { return a + b, nil }),
		Sub:   intImpl(Sub, func(a, b Int) (Value, error) { return a - b, nil }),
		Mul:   intImpl(Mul, func(a, b Int) (Value, error) { return a * b, nil }),
		Equal: intImpl(Equal, func(a, b Int) (Value, error) { return Bool(a == b), nil }),
		Less:  intImpl(Less, func(a, b Int) (Value, error) { return Bool(a < b), nil }),
		Div: intImpl(Div, func(a, b Int) (Value, error) {
			if b == 0 {
				return nil, errTestDivisionByZero
			}
			return a / b, nil
		}),
	}

	floatAdd = &OperatorImpl{
		Name:     "float+float",
		Operator: Add,
		Apply: func(left, right Value) (Value, error) {
			a, ok1 := left.(Float)
			b, ok2 := right.(Float)
			if !ok1 || !ok2 {
				return nil, ErrOperandMismatch
			}
			return a + b, nil
		},
	}

	strConcat = &OperatorImpl{
		Name:     "str+str",
		Operator: Add,
		Apply: func(left, right Value) (Value, error) {
			a, ok1 := left.(Str)
			b, ok2 := right.(Str)
			if !ok1 || !ok2 {
				return nil, ErrOperandMismatch
			}
			return a + b, nil
		},
	}
)

func intImpl(op Operator, fn func(a, b Int) (Value, error)) *OperatorImpl {
	return &OperatorImpl{
		Name:     "int" + op.String() + "int",
		Operator: op,
		Apply: func(left, right Value) (Value, error) {
			a, ok1 := left.(Int)
			b, ok2 := right.(Int)
			if !ok1 || !ok2 {
				return nil, ErrOperandMismatch
			}
			return fn(a, b)
		},
	}
}

func newTestContext(catalog OperatorCatalog) *Context {
	if catalog == nil {
		catalog = &testCatalog{}
	}
	return NewContext(ContextConfig{
		Globals: NewGlobals(map[string]Value{"if": testIf}),
		Catalog: catalog,
	})
}
