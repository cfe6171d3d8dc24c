package core

import (
	"sync/atomic"

	"github.com/inoxlang/treewalk/internal/sourcecode"
)

// A Name is a reference to a variable, a function or a global. It resolves its binding
// during its first evaluation (or assignment) and uses it directly afterwards.
type Name struct {
	NodeBase
	name string
	use  Use

	binding     *Binding
	resolutions atomic.Int64
}

func NewName(pos sourcecode.PositionRange, name string, use Use) *Name {
	n := &Name{name: name, use: use}
	n.init(n, pos)
	return n
}

func (n *Name) Kind() string {
	return "name"
}

func (n *Name) Name() string {
	return n.name
}

func (n *Name) Use() Use {
	return n.use
}

// Binding returns the resolved binding, it is nil if the name has not been resolved yet.
func (n *Name) Binding() *Binding {
	if n.Strategy() != StrategyBinding {
		return nil
	}
	return n.binding
}

// Resolutions returns how many times the name has been resolved. The count is not reset by Reset.
func (n *Name) Resolutions() int64 {
	return n.resolutions.Load()
}

func (n *Name) bind(ctx *Context) (*Binding, error) {
	if n.Strategy() == StrategyBinding {
		return n.binding, nil
	}

	_, err := n.specialize(ctx, func() (Strategy, error) {
		n.resolutions.Add(1)
		binding, err := ctx.resolve(n.name, n.use)
		if err != nil {
			return StrategyGeneric, err
		}
		n.binding = binding
		return StrategyBinding, nil
	})
	if err != nil {
		return nil, err
	}
	return n.binding, nil
}

func (n *Name) Eval(ctx *Context) (result Value, finalErr error) {
	ctx.enter(n)
	defer ctx.exit(n, &finalErr)

	binding, err := n.bind(ctx)
	if err != nil {
		return nil, err
	}
	return binding.Get(ctx)
}

func (n *Name) Assign(ctx *Context, value Value) (finalErr error) {
	ctx.enter(n)
	defer ctx.exit(n, &finalErr)

	binding, err := n.bind(ctx)
	if err != nil {
		return err
	}
	return binding.Set(ctx, value)
}

func (n *Name) Reset() {
	n.binding = nil
	n.NodeBase.Reset()
}

// An Assignment assigns the value of its right side to its target and returns the value.
type Assignment struct {
	NodeBase
}

func NewAssignment(pos sourcecode.PositionRange, target, value Node) *Assignment {
	n := &Assignment{}
	n.init(n, pos, target, value)
	return n
}

func (n *Assignment) Kind() string {
	return "assignment"
}

func (n *Assignment) Target() Node {
	return n.Child(0)
}

func (n *Assignment) Value() Node {
	return n.Child(1)
}

func (n *Assignment) Eval(ctx *Context) (result Value, finalErr error) {
	ctx.enter(n)
	defer ctx.exit(n, &finalErr)

	target, valueNode := n.Target(), n.Value()
	if target == nil || valueNode == nil {
		return nil, ctx.newError(MissingNode, "assignment is missing its target or its value")
	}

	value, err := valueNode.Eval(ctx)
	if err != nil {
		return nil, err
	}
	if err := target.Assign(ctx, value); err != nil {
		return nil, err
	}
	return value, nil
}
