package core

import (
	"sync"

	"github.com/inoxlang/treewalk/internal/sourcecode"
)

// A FunctionLiteral evaluates to a closure capturing the current scope. Its ScopeInfo is
// built during the first evaluation by evaluating the parameter list in a temporary scope.
type FunctionLiteral struct {
	NodeBase

	infoLock sync.Mutex
	info     *ScopeInfo
}

// NewFunctionLiteral creates a function literal, params can be nil for functions without parameters.
func NewFunctionLiteral(pos sourcecode.PositionRange, params *ParamList, body Node) *FunctionLiteral {
	n := &FunctionLiteral{}
	if params == nil {
		n.init(n, pos, nil, body)
	} else {
		n.init(n, pos, params, body)
	}
	return n
}

func (n *FunctionLiteral) Kind() string {
	return "function"
}

func (n *FunctionLiteral) Params() *ParamList {
	params, _ := n.Child(0).(*ParamList)
	return params
}

func (n *FunctionLiteral) Body() Node {
	return n.Child(1)
}

// ScopeInfo returns the scope information of the function, it is nil before the first evaluation.
func (n *FunctionLiteral) ScopeInfo() *ScopeInfo {
	n.infoLock.Lock()
	defer n.infoLock.Unlock()
	return n.info
}

func (n *FunctionLiteral) ensureScopeInfo(ctx *Context, parent *Scope) (*ScopeInfo, error) {
	n.infoLock.Lock()
	defer n.infoLock.Unlock()

	if n.info != nil {
		return n.info, nil
	}

	info := NewScopeInfo(n.language(ctx).CaseInsensitive)

	if params := n.Params(); params != nil {
		prevScope := ctx.scope
		prevNode := ctx.current
		ctx.scope = NewScope(info, parent)
		ctx.handOffArgs(nil, false)

		_, err := params.Eval(ctx)

		ctx.scope = prevScope
		ctx.current = prevNode
		if err != nil {
			return nil, err
		}
	}

	//the tail flag does not cross function boundaries: the body is always the start of a propagation.
	if body := n.Body(); body != nil {
		body.MarkTail()
	}

	n.info = info
	return info, nil
}

func (n *FunctionLiteral) Eval(ctx *Context) (result Value, finalErr error) {
	ctx.enter(n)
	defer ctx.exit(n, &finalErr)

	if _, err := n.ensureScopeInfo(ctx, ctx.scope); err != nil {
		return nil, err
	}
	return &Closure{fn: n, captured: ctx.scope}, nil
}

func (n *FunctionLiteral) Reset() {
	n.infoLock.Lock()
	n.info = nil
	n.infoLock.Unlock()
	n.NodeBase.Reset()
}

// A ParamList declares the parameters of a function. When evaluated while the
// ScopeInfo of the function is built it only declares the parameter slots, when
// evaluated at the start of a call it binds the arguments to the parameters.
type ParamList struct {
	NodeBase
}

func NewParamList(pos sourcecode.PositionRange, params ...*Param) *ParamList {
	n := &ParamList{}
	nodes := make([]Node, len(params))
	for i, p := range params {
		if p != nil {
			nodes[i] = p
		}
	}
	n.init(n, pos, nodes...)
	return n
}

func (n *ParamList) Kind() string {
	return "parameters"
}

func (n *ParamList) Eval(ctx *Context) (result Value, finalErr error) {
	ctx.enter(n)
	defer ctx.exit(n, &finalErr)

	args, bind := ctx.takeArgs()

	if bind && len(args) > len(n.children) {
		return nil, ctx.newError(InvalidArgCount, "%s", fmtTooManyArgs(len(args), len(n.children)))
	}

	for i, child := range n.children {
		param, ok := child.(*Param)
		if !ok {
			if child == nil {
				return nil, ctx.newError(MissingNode, "missing parameter at index %d", i)
			}
			return nil, ctx.newError(UnsupportedConstruct, "a %s cannot be used as a parameter", child.Kind())
		}

		if !bind {
			if _, err := param.Eval(ctx); err != nil {
				return nil, err
			}
			continue
		}

		var arg Value
		if i < len(args) {
			arg = args[i]
		} else if defaultNode := param.Default(); defaultNode != nil {
			//default values are evaluated in the scope of the call, after the previous parameters are bound.
			value, err := defaultNode.Eval(ctx)
			if err != nil {
				return nil, err
			}
			arg = value
		} else {
			return nil, ctx.newError(InvalidArgCount, "%s", fmtMissingArg(param.Name()))
		}

		if err := param.Assign(ctx, arg); err != nil {
			return nil, err
		}
	}
	return Nil, nil
}

// A Param is a parameter declaration with an optional default value.
type Param struct {
	NodeBase
	name string
	slot int
}

// NewParam creates a parameter, defaultValue can be nil.
func NewParam(pos sourcecode.PositionRange, name string, defaultValue Node) *Param {
	n := &Param{name: name}
	if defaultValue == nil {
		n.init(n, pos)
	} else {
		n.init(n, pos, defaultValue)
	}
	return n
}

func (n *Param) Kind() string {
	return "parameter"
}

func (n *Param) Name() string {
	return n.name
}

func (n *Param) Default() Node {
	return n.Child(0)
}

// declare declares the parameter in the current scope, the slot is cached: all the scopes of
// a function share the same ScopeInfo.
func (n *Param) declare(ctx *Context) (int, error) {
	if n.Strategy() == StrategyBinding {
		return n.slot, nil
	}
	if ctx.scope == nil {
		return 0, ctx.newError(UnsupportedConstruct, "parameter %q declared outside of a function", n.name)
	}
	_, err := n.specialize(ctx, func() (Strategy, error) {
		n.slot = ctx.scope.info.Declare(n.name)
		return StrategyBinding, nil
	})
	return n.slot, err
}

// Eval declares the parameter, the default value is not evaluated.
func (n *Param) Eval(ctx *Context) (result Value, finalErr error) {
	ctx.enter(n)
	defer ctx.exit(n, &finalErr)

	if _, err := n.declare(ctx); err != nil {
		return nil, err
	}
	return Nil, nil
}

// Assign binds value to the parameter in the current scope.
func (n *Param) Assign(ctx *Context, value Value) (finalErr error) {
	ctx.enter(n)
	defer ctx.exit(n, &finalErr)

	slot, err := n.declare(ctx)
	if err != nil {
		return err
	}
	ctx.scope.set(slot, value)
	return nil
}

func (n *Param) Reset() {
	n.slot = 0
	n.NodeBase.Reset()
}

// A FunctionDef binds the closure created by its literal to its name in the current scope
// before the closure can be invoked, so the function can refer to itself.
type FunctionDef struct {
	NodeBase
}

func NewFunctionDef(pos sourcecode.PositionRange, name *Name, literal *FunctionLiteral) *FunctionDef {
	n := &FunctionDef{}
	var nameNode, literalNode Node
	if name != nil {
		nameNode = name
	}
	if literal != nil {
		literalNode = literal
	}
	n.init(n, pos, nameNode, literalNode)
	return n
}

func (n *FunctionDef) Kind() string {
	return "function-definition"
}

func (n *FunctionDef) NameNode() *Name {
	name, _ := n.Child(0).(*Name)
	return name
}

func (n *FunctionDef) Literal() *FunctionLiteral {
	literal, _ := n.Child(1).(*FunctionLiteral)
	return literal
}

func (n *FunctionDef) Eval(ctx *Context) (result Value, finalErr error) {
	ctx.enter(n)
	defer ctx.exit(n, &finalErr)

	name, literal := n.NameNode(), n.Literal()
	if name == nil || literal == nil {
		return nil, ctx.newError(MissingNode, "function definition is missing its name or its function")
	}

	//the function is always bound in the scope of the definition, even if an enclosing
	//scope has a variable with the same name.
	if ctx.scope != nil && name.Strategy() == StrategyGeneric {
		ctx.scope.info.Declare(name.Name())
	}

	closure, err := literal.Eval(ctx)
	if err != nil {
		return nil, err
	}
	if err := name.Assign(ctx, closure); err != nil {
		return nil, err
	}
	return closure, nil
}
