package core

import "github.com/inoxlang/treewalk/internal/sourcecode"

// A Call is a call site: its first child is the target, the other children are the arguments.
// The kind of the target is determined during the first evaluation and the call site
// specializes itself accordingly, the decision is never revisited.
type Call struct {
	NodeBase
	special *SpecialForm
}

func NewCall(pos sourcecode.PositionRange, target Node, args ...Node) *Call {
	n := &Call{}
	n.init(n, pos, append([]Node{target}, args...)...)
	return n
}

func (n *Call) Kind() string {
	return "call"
}

func (n *Call) Target() Node {
	return n.Child(0)
}

// Args returns the argument nodes, the result should not be modified.
func (n *Call) Args() []Node {
	return n.children[1:]
}

func (n *Call) Eval(ctx *Context) (result Value, finalErr error) {
	ctx.enter(n)
	defer ctx.exit(n, &finalErr)

	strategy := n.Strategy()
	if strategy == StrategySpecialForm {
		return n.special.Fn(ctx, n, n.Args())
	}

	target := n.Target()
	if target == nil {
		return nil, ctx.newError(MissingNode, "call has no target")
	}

	callee, err := target.Eval(ctx)
	if err != nil {
		return nil, err
	}

	if strategy == StrategyGeneric {
		strategy, err = n.specialize(ctx, func() (Strategy, error) {
			return n.decideStrategy(ctx, callee), nil
		})
		if err != nil {
			return nil, err
		}
		if strategy == StrategySpecialForm {
			return n.special.Fn(ctx, n, n.Args())
		}
	}

	args, err := n.evalArgs(ctx)
	if err != nil {
		return nil, err
	}

	switch strategy {
	case StrategyTailDeferringCall:
		ctx.deferTailCall(callee, args)
		return TailCallPlaceholder, nil
	case StrategyTailCheckingCall:
		return ctx.callAndDrain(callee, args)
	default:
		return ctx.invoke(callee, args)
	}
}

func (n *Call) decideStrategy(ctx *Context, callee Value) Strategy {
	if form, ok := callee.(*SpecialForm); ok {
		n.special = form

		if n.IsTail() && form.TailArgs != nil {
			args := n.Args()
			for i, arg := range args {
				if arg != nil && form.TailArgs(i, len(args)) {
					arg.MarkTail()
				}
			}
		}
		return StrategySpecialForm
	}

	switch {
	case !n.language(ctx).TailCalls:
		return StrategyPlainCall
	case n.IsTail():
		return StrategyTailDeferringCall
	default:
		return StrategyTailCheckingCall
	}
}

func (n *Call) evalArgs(ctx *Context) ([]Value, error) {
	argNodes := n.Args()
	if len(argNodes) == 0 {
		return nil, nil
	}

	args := make([]Value, len(argNodes))
	for i, argNode := range argNodes {
		if argNode == nil {
			return nil, ctx.newError(MissingNode, "missing argument node at index %d", i)
		}
		arg, err := argNode.Eval(ctx)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	return args, nil
}

func (n *Call) Reset() {
	n.special = nil
	n.NodeBase.Reset()
}
