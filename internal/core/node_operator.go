package core

import "github.com/inoxlang/treewalk/internal/sourcecode"

// A BinaryOp evaluates its left operand then its right operand and applies the operator
// through the context's operator catalog.
type BinaryOp struct {
	NodeBase
	op    Operator
	cache operatorCache
}

func NewBinaryOp(pos sourcecode.PositionRange, op Operator, left, right Node) *BinaryOp {
	n := &BinaryOp{op: op}
	n.init(n, pos, left, right)
	return n
}

func (n *BinaryOp) Kind() string {
	return "binary-op"
}

func (n *BinaryOp) Operator() Operator {
	return n.op
}

func (n *BinaryOp) Eval(ctx *Context) (result Value, finalErr error) {
	ctx.enter(n)
	defer ctx.exit(n, &finalErr)

	left, right := n.Child(0), n.Child(1)
	if left == nil || right == nil {
		return nil, ctx.newError(MissingNode, "operation %s is missing an operand", n.op)
	}

	leftValue, err := left.Eval(ctx)
	if err != nil {
		return nil, err
	}
	rightValue, err := right.Eval(ctx)
	if err != nil {
		return nil, err
	}

	return n.applyOperator(ctx, &n.cache, n.op, leftValue, rightValue)
}

func (n *BinaryOp) Reset() {
	n.cache.reset()
	n.NodeBase.Reset()
}

// A CompoundAssign (e.g. x += e) reads its target, evaluates its value, applies the operator
// and assigns the result to the target. The implementation of the operator is cached:
// operand types are usually stable at a given site.
type CompoundAssign struct {
	NodeBase
	op    Operator
	cache operatorCache
}

func NewCompoundAssign(pos sourcecode.PositionRange, op Operator, target, value Node) *CompoundAssign {
	n := &CompoundAssign{op: op}
	n.init(n, pos, target, value)
	return n
}

func (n *CompoundAssign) Kind() string {
	return "compound-assignment"
}

func (n *CompoundAssign) Operator() Operator {
	return n.op
}

func (n *CompoundAssign) Target() Node {
	return n.Child(0)
}

func (n *CompoundAssign) Value() Node {
	return n.Child(1)
}

// CacheFailures returns the number of times the cached implementation did not apply.
func (n *CompoundAssign) CacheFailures() int {
	return n.cache.failures
}

func (n *CompoundAssign) Eval(ctx *Context) (result Value, finalErr error) {
	ctx.enter(n)
	defer ctx.exit(n, &finalErr)

	target, valueNode := n.Target(), n.Value()
	if target == nil || valueNode == nil {
		return nil, ctx.newError(MissingNode, "compound assignment is missing its target or its value")
	}

	current, err := target.Eval(ctx)
	if err != nil {
		return nil, err
	}
	operand, err := valueNode.Eval(ctx)
	if err != nil {
		return nil, err
	}

	result, err = n.applyOperator(ctx, &n.cache, n.op, current, operand)
	if err != nil {
		return nil, err
	}

	if err := target.Assign(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (n *CompoundAssign) Reset() {
	n.cache.reset()
	n.NodeBase.Reset()
}
