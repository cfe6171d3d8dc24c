package core

import "strings"

// Use is the declared use of a name reference, it is set by the tree-builder.
type Use uint8

const (
	UseRead Use = iota
	UseWrite
	UseReadWrite
	UseCallTarget
)

var useNames = [...]string{
	UseRead:       "read",
	UseWrite:      "write",
	UseReadWrite:  "read-write",
	UseCallTarget: "call-target",
}

func (u Use) String() string {
	if int(u) < len(useNames) {
		return useNames[u]
	}
	return "unknown"
}

type BindingKind uint8

const (
	// LocalBinding: slot of a scope located Hops levels above the scope of the reference.
	LocalBinding BindingKind = iota

	// GlobalBinding: entry of the context's globals.
	GlobalBinding
)

// A Binding is the resolved accessor of a name reference. It only depends on the
// shape of the scope chain at the reference site, so it is resolved once and cached by
// the reference node until the tree is reset.
type Binding struct {
	Name string
	Kind BindingKind
	Hops int
	Slot int
}

func (b *Binding) Get(ctx *Context) (Value, error) {
	switch b.Kind {
	case LocalBinding:
		scope := ctx.scope.ancestor(b.Hops)
		if scope == nil {
			return nil, ctx.newError(Internal, "binding of %q does not match the scope chain", b.Name)
		}
		value, ok := scope.get(b.Slot)
		if !ok {
			return nil, ctx.newError(UnboundName, "%s", fmtNotAssignedYet(b.Name))
		}
		return value, nil
	default:
		value, ok := ctx.globals.Get(b.Name)
		if !ok {
			return nil, ctx.newError(UnboundName, "%s", fmtUnboundName(b.Name))
		}
		return value, nil
	}
}

func (b *Binding) Set(ctx *Context, value Value) error {
	switch b.Kind {
	case LocalBinding:
		scope := ctx.scope.ancestor(b.Hops)
		if scope == nil {
			return ctx.newError(Internal, "binding of %q does not match the scope chain", b.Name)
		}
		scope.set(b.Slot, value)
		return nil
	default:
		ctx.globals.Set(b.Name, value)
		return nil
	}
}

// resolve resolves name against the current scope chain then the globals.
// When use is UseWrite a name that is not declared in the scope chain is declared
// in the current scope.
func (ctx *Context) resolve(name string, use Use) (*Binding, error) {
	hops := 0
	for scope := ctx.scope; scope != nil; scope = scope.parent {
		if slot, ok := scope.info.Lookup(name); ok {
			return &Binding{Name: name, Kind: LocalBinding, Hops: hops, Slot: slot}, nil
		}
		hops++
	}

	if use == UseWrite && ctx.scope != nil {
		slot := ctx.scope.info.Declare(name)
		return &Binding{Name: name, Kind: LocalBinding, Slot: slot}, nil
	}

	globalName := name
	if ctx.scope != nil && ctx.scope.info.caseInsensitive {
		globalName = strings.ToLower(name)
	}

	if use == UseWrite || ctx.globals.Has(globalName) {
		return &Binding{Name: globalName, Kind: GlobalBinding}, nil
	}

	return nil, ctx.newError(UnboundName, "%s", fmtUnboundName(name))
}
