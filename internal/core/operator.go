package core

import (
	"errors"
	"fmt"
)

const (
	// MaxOperatorCacheFailures is the number of cache misses an operator site tolerates,
	// the site switches to full dispatch when the count exceeds it.
	MaxOperatorCacheFailures = 3
)

type Operator uint8

const (
	Add Operator = iota + 1
	Sub
	Mul
	Div
	Mod
	Equal
	NotEqual
	Less
	LessOrEqual
	Greater
	GreaterOrEqual
)

var operatorSymbols = [...]string{
	Add:            "+",
	Sub:            "-",
	Mul:            "*",
	Div:            "/",
	Mod:            "%",
	Equal:          "==",
	NotEqual:       "!=",
	Less:           "<",
	LessOrEqual:    "<=",
	Greater:        ">",
	GreaterOrEqual: ">=",
}

func (op Operator) String() string {
	if int(op) < len(operatorSymbols) && operatorSymbols[op] != "" {
		return operatorSymbols[op]
	}
	return fmt.Sprintf("operator(%d)", op)
}

func ParseOperator(symbol string) (Operator, bool) {
	for op, s := range operatorSymbols {
		if s != "" && s == symbol {
			return Operator(op), true
		}
	}
	return 0, false
}

// An OperatorImpl is an implementation of an operator for specific operand types.
// Apply should return ErrOperandMismatch if the operands do not have these types.
type OperatorImpl struct {
	Name     string
	Operator Operator
	Apply    func(left, right Value) (Value, error)
}

// An OperatorCatalog selects the implementation of an operator that applies to the runtime
// types of the operands and returns it alongside the result.
type OperatorCatalog interface {
	Resolve(op Operator, left, right Value) (*OperatorImpl, Value, error)
}

// operatorCache is the inline cache of an operator site: the implementation selected by
// the first dispatch is applied directly until it fails too often.
type operatorCache struct {
	impl     *OperatorImpl
	failures int
}

func (c *operatorCache) reset() {
	c.impl = nil
	c.failures = 0
}

func (ctx *Context) dispatchOperator(op Operator, left, right Value) (*OperatorImpl, Value, error) {
	if ctx.catalog == nil {
		return nil, nil, ctx.newError(UnsupportedConstruct, "no operator catalog is available to evaluate %s", op)
	}
	impl, result, err := ctx.catalog.Resolve(op, left, right)
	if err != nil {
		return nil, nil, newEvalError(OperatorDispatch, ctx.current, err, "%s %s %s: %s", TypeName(left), op, TypeName(right), err.Error())
	}
	return impl, result, nil
}

// applyOperator evaluates left <op> right for the node owning the cache.
func (base *NodeBase) applyOperator(ctx *Context, cache *operatorCache, op Operator, left, right Value) (Value, error) {
	switch base.Strategy() {
	case StrategyCachedOperator:
		result, err := cache.impl.Apply(left, right)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, ErrOperandMismatch) {
			return nil, newEvalError(OperatorDispatch, ctx.current, err, "%s: %s", cache.impl.Name, err.Error())
		}

		//the types of the operands changed: full dispatch for this evaluation
		cache.failures++
		_, result, err = ctx.dispatchOperator(op, left, right)

		if cache.failures > MaxOperatorCacheFailures && base.respecialize(ctx, StrategyCachedOperator, StrategyFullDispatch) {
			cache.impl = nil
		}
		return result, err
	case StrategyFullDispatch:
		_, result, err := ctx.dispatchOperator(op, left, right)
		return result, err
	default:
		impl, result, err := ctx.dispatchOperator(op, left, right)
		if err != nil {
			return nil, err
		}
		if impl != nil {
			base.specialize(ctx, func() (Strategy, error) {
				cache.impl = impl
				return StrategyCachedOperator, nil
			})
		}
		return result, nil
	}
}
