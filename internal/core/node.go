package core

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/inoxlang/treewalk/internal/sourcecode"
)

var (
	ErrNodeAlreadyAdopted = errors.New("node already has a parent")
)

// A Node is an element of an executable tree. Trees are built once by a
// tree-builder, nodes then specialize themselves during their first evaluations.
//
// Eval and Assign set the current node of the context to the node on entry and to
// the parent of the node on exit, error paths included.
type Node interface {
	Base() *NodeBase

	// Kind returns a short name of the node's kind (e.g. "call"), it is used in logs and dumps.
	Kind() string

	Eval(ctx *Context) (Value, error)

	// Assign stores value in the location denoted by the node. Nodes that are not
	// assignment targets ignore the value unless the language is configured with strict assignment.
	Assign(ctx *Context, value Value) error

	// Reset restores the node and its subtree to the unspecialized state, static structure is kept.
	Reset()

	// MarkTail marks the node as being in tail position, the flag is propagated to the
	// children that are in tail position for the node's construct.
	MarkTail()
}

type NodeFlags uint8

const (
	TailPositionFlag NodeFlags = 1 << iota
)

// NodeBase implements the parts of the Node interface that are common to all node kinds.
type NodeBase struct {
	Position sourcecode.PositionRange

	self     Node
	parent   Node
	children []Node
	flags    NodeFlags

	strategy atomic.Uint32

	module         *Module
	moduleComputed bool

	//held during specialization only
	lock sync.Mutex
}

// init sets the node the base belongs to and adopts the children, nil children are kept
// in place: they are reported as missing nodes during evaluation.
func (base *NodeBase) init(self Node, pos sourcecode.PositionRange, children ...Node) {
	base.self = self
	base.Position = pos
	base.children = make([]Node, 0, len(children))
	for _, child := range children {
		base.adopt(child)
	}
}

func (base *NodeBase) adopt(child Node) {
	if child != nil {
		childBase := child.Base()
		if childBase.parent != nil {
			panic(ErrNodeAlreadyAdopted)
		}
		childBase.parent = base.self
	}
	base.children = append(base.children, child)
}

func (base *NodeBase) Base() *NodeBase {
	return base
}

// Parent returns the parent node, the result is nil for the root.
func (base *NodeBase) Parent() Node {
	return base.parent
}

// Children returns the child nodes, the result should not be modified.
func (base *NodeBase) Children() []Node {
	return base.children
}

// Child returns the child at index i or nil if there is no such child.
func (base *NodeBase) Child(i int) Node {
	if i < 0 || i >= len(base.children) {
		return nil
	}
	return base.children[i]
}

func (base *NodeBase) Strategy() Strategy {
	return Strategy(base.strategy.Load())
}

func (base *NodeBase) IsTail() bool {
	return base.flags&TailPositionFlag != 0
}

// MarkTail only flags the node itself, nodes that have children in tail position override it.
func (base *NodeBase) MarkTail() {
	base.flags |= TailPositionFlag
}

// Module returns the nearest *Module ancestor (or the node itself if it is a module),
// the result is nil if the tree has no module root.
func (base *NodeBase) Module() *Module {
	if base.moduleComputed {
		return base.module
	}

	var current Node = base.self
	for current != nil {
		if mod, ok := current.(*Module); ok {
			base.module = mod
			break
		}
		current = current.Base().parent
	}
	base.moduleComputed = true
	return base.module
}

func (base *NodeBase) language(ctx *Context) LanguageOptions {
	if mod := base.Module(); mod != nil {
		return mod.Language
	}
	return ctx.defaultLanguage
}

// Assign is the default assignment: it does nothing, or fails if the language requires
// assignment targets to be valid lvalues.
func (base *NodeBase) Assign(ctx *Context, value Value) (finalErr error) {
	ctx.enter(base.self)
	defer ctx.exit(base.self, &finalErr)

	if base.language(ctx).StrictAssignment {
		return ctx.newError(UnsupportedConstruct, "a %s cannot be assigned", base.self.Kind())
	}
	return nil
}

// Reset restores the generic strategy, clears the derived flags and resets the children.
func (base *NodeBase) Reset() {
	base.strategy.Store(uint32(StrategyGeneric))
	base.flags = 0
	base.module = nil
	base.moduleComputed = false

	for _, child := range base.children {
		if child != nil {
			child.Reset()
		}
	}
}

// specialize installs the strategy returned by decide if the node is still generic, decide
// is called at most once per successful specialization and should not evaluate nodes.
// The current strategy is returned.
func (base *NodeBase) specialize(ctx *Context, decide func() (Strategy, error)) (Strategy, error) {
	base.lock.Lock()
	defer base.lock.Unlock()

	if current := Strategy(base.strategy.Load()); current != StrategyGeneric {
		return current, nil
	}

	strategy, err := decide()
	if err != nil || strategy == StrategyGeneric {
		return StrategyGeneric, err
	}

	base.strategy.Store(uint32(strategy))
	ctx.logSpecialization(base.self, StrategyGeneric, strategy)
	return strategy, nil
}

// respecialize replaces a specialized strategy by another one, it is used by nodes that
// degrade after the optimistic strategy turned out to be wrong too often.
func (base *NodeBase) respecialize(ctx *Context, from, to Strategy) bool {
	base.lock.Lock()
	defer base.lock.Unlock()

	if !base.strategy.CompareAndSwap(uint32(from), uint32(to)) {
		return false
	}
	ctx.logSpecialization(base.self, from, to)
	return true
}

// Walk calls fn for node and all its descendants (depth first, pre-order), nil children are skipped.
// Walk stops descending into a node if fn returns false.
func Walk(node Node, fn func(node Node, depth int) bool) {
	walk(node, 0, fn)
}

func walk(node Node, depth int, fn func(node Node, depth int) bool) {
	if node == nil {
		return
	}
	if !fn(node, depth) {
		return
	}
	for _, child := range node.Base().children {
		walk(child, depth+1, fn)
	}
}
