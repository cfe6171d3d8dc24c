package globals

import (
	"fmt"

	"github.com/inoxlang/treewalk/internal/core"
	"github.com/inoxlang/treewalk/internal/globals/globalnames"
)

var (
	// if(condition, consequent [, alternate])
	IF = &core.SpecialForm{
		Name: globalnames.IF_FORM,
		TailArgs: func(index, argCount int) bool {
			return index >= 1
		},
		Fn: _if,
	}

	// and(operands...) returns the first falsy operand or the last operand.
	AND = &core.SpecialForm{
		Name:     globalnames.AND_FORM,
		TailArgs: core.LastArgInTail,
		Fn:       _and,
	}

	// or(operands...) returns the first truthy operand or the last operand.
	OR = &core.SpecialForm{
		Name:     globalnames.OR_FORM,
		TailArgs: core.LastArgInTail,
		Fn:       _or,
	}

	// while(condition, body...) returns the value of the last evaluated body statement.
	WHILE = &core.SpecialForm{
		Name: globalnames.WHILE_FORM,
		Fn:   _while,
	}

	NOT = &core.SpecialForm{
		Name: globalnames.NOT_FORM,
		Fn:   _not,
	}
)

func _if(ctx *core.Context, call *core.Call, args []core.Node) (core.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, fmt.Errorf("%w: %s expects 2 or 3 arguments but got %d", core.ErrInvalidArgCount, globalnames.IF_FORM, len(args))
	}

	condition, err := evalArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}

	if core.IsTruthy(condition) {
		return evalArg(ctx, args, 1)
	}
	if len(args) == 3 {
		return evalArg(ctx, args, 2)
	}
	return core.Nil, nil
}

func _and(ctx *core.Context, call *core.Call, args []core.Node) (core.Value, error) {
	var result core.Value = core.True

	for i := range args {
		value, err := evalArg(ctx, args, i)
		if err != nil {
			return nil, err
		}
		if i < len(args)-1 && !core.IsTruthy(value) {
			return value, nil
		}
		result = value
	}
	return result, nil
}

func _or(ctx *core.Context, call *core.Call, args []core.Node) (core.Value, error) {
	var result core.Value = core.False

	for i := range args {
		value, err := evalArg(ctx, args, i)
		if err != nil {
			return nil, err
		}
		if i < len(args)-1 && core.IsTruthy(value) {
			return value, nil
		}
		result = value
	}
	return result, nil
}

func _while(ctx *core.Context, call *core.Call, args []core.Node) (core.Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("%w: %s expects at least a condition", core.ErrInvalidArgCount, globalnames.WHILE_FORM)
	}

	var result core.Value = core.Nil

	for {
		condition, err := evalArg(ctx, args, 0)
		if err != nil {
			return nil, err
		}
		if !core.IsTruthy(condition) {
			return result, nil
		}

		for i := 1; i < len(args); i++ {
			result, err = evalArg(ctx, args, i)
			if err != nil {
				return nil, err
			}
		}
	}
}

func _not(ctx *core.Context, call *core.Call, args []core.Node) (core.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: %s expects a single argument but got %d", core.ErrInvalidArgCount, globalnames.NOT_FORM, len(args))
	}

	value, err := evalArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	return core.Bool(!core.IsTruthy(value)), nil
}

func evalArg(ctx *core.Context, args []core.Node, index int) (core.Value, error) {
	arg := args[index]
	if arg == nil {
		return nil, fmt.Errorf("%w: missing argument node at index %d", core.ErrMissingNode, index)
	}
	return arg.Eval(ctx)
}
