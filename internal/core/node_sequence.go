package core

import "github.com/inoxlang/treewalk/internal/sourcecode"

type Literal struct {
	NodeBase
	value Value
}

func NewLiteral(pos sourcecode.PositionRange, value Value) *Literal {
	n := &Literal{value: value}
	n.init(n, pos)
	return n
}

func (n *Literal) Kind() string {
	return "literal"
}

func (n *Literal) Value() Value {
	return n.value
}

func (n *Literal) Eval(ctx *Context) (Value, error) {
	ctx.enter(n)
	defer ctx.exit(n, nil)
	return n.value, nil
}

// A Sequence evaluates its statements in order and returns the value of the last one,
// an empty sequence returns Nil.
type Sequence struct {
	NodeBase
}

func NewSequence(pos sourcecode.PositionRange, statements ...Node) *Sequence {
	n := &Sequence{}
	n.init(n, pos, statements...)
	return n
}

func (n *Sequence) Kind() string {
	return "sequence"
}

func (n *Sequence) Eval(ctx *Context) (result Value, finalErr error) {
	ctx.enter(n)
	defer ctx.exit(n, &finalErr)

	strategy := n.Strategy()
	if strategy == StrategyGeneric {
		strategy, _ = n.specialize(ctx, func() (Strategy, error) {
			switch len(n.children) {
			case 0:
				return StrategyNoop, nil
			case 1:
				return StrategyDelegate, nil
			default:
				return StrategySequence, nil
			}
		})
	}

	switch strategy {
	case StrategyNoop:
		return Nil, nil
	case StrategyDelegate:
		stmt := n.children[0]
		if stmt == nil {
			return nil, ctx.newError(MissingNode, "missing statement in sequence")
		}
		return stmt.Eval(ctx)
	default:
		result = Nil
		for _, stmt := range n.children {
			if stmt == nil {
				return nil, ctx.newError(MissingNode, "missing statement in sequence")
			}
			var err error
			result, err = stmt.Eval(ctx)
			if err != nil {
				return nil, err
			}
		}
		return result, nil
	}
}

// MarkTail only propagates the flag to the last statement.
func (n *Sequence) MarkTail() {
	n.NodeBase.MarkTail()
	if len(n.children) > 0 && n.children[len(n.children)-1] != nil {
		n.children[len(n.children)-1].MarkTail()
	}
}

// A Module is the root of a program, it evaluates its body in a fresh module scope
// on each evaluation. Its language options apply to all its descendants.
type Module struct {
	NodeBase
	Name     string
	Language LanguageOptions

	info      *ScopeInfo
	lastScope *Scope
}

func NewModule(pos sourcecode.PositionRange, name string, lang LanguageOptions, body Node) *Module {
	n := &Module{Name: name, Language: lang}
	n.init(n, pos, body)
	return n
}

func (n *Module) Kind() string {
	return "module"
}

func (n *Module) Body() Node {
	return n.Child(0)
}

// ScopeInfo returns the scope information of the module, it is nil before the first evaluation.
func (n *Module) ScopeInfo() *ScopeInfo {
	return n.info
}

// LastScope returns the scope of the last evaluation, hosts use it to read module-level variables.
func (n *Module) LastScope() *Scope {
	return n.lastScope
}

func (n *Module) Eval(ctx *Context) (result Value, finalErr error) {
	ctx.enter(n)
	defer ctx.exit(n, &finalErr)

	body := n.Body()
	if body == nil {
		return nil, ctx.newError(MissingNode, "module has no body")
	}

	n.lock.Lock()
	if n.info == nil {
		n.info = NewScopeInfo(n.Language.CaseInsensitive)
	}
	info := n.info
	n.lock.Unlock()

	prevScope := ctx.scope
	scope := NewScope(info, prevScope)
	ctx.scope = scope
	n.lastScope = scope
	defer func() {
		ctx.scope = prevScope
	}()

	return body.Eval(ctx)
}

func (n *Module) Reset() {
	n.info = nil
	n.lastScope = nil
	n.NodeBase.Reset()
}
