package core

// A Closure pairs a function literal with the scope that was current when the literal
// was evaluated. Closures are immutable.
type Closure struct {
	fn       *FunctionLiteral
	captured *Scope
}

func (c *Closure) Function() *FunctionLiteral {
	return c.fn
}

// Captured returns the scope free variables are resolved against.
func (c *Closure) Captured() *Scope {
	return c.captured
}

// call invokes the closure: the arguments are bound by evaluating the parameter list
// in a new scope whose parent is the captured scope, then the body is evaluated.
func (c *Closure) call(ctx *Context, args []Value) (Value, error) {
	fn := c.fn

	info, err := fn.ensureScopeInfo(ctx, c.captured)
	if err != nil {
		return nil, err
	}

	body := fn.Body()
	if body == nil {
		return nil, ctx.newError(MissingNode, "function has no body")
	}

	if ctx.callDepth >= ctx.maxCallDepth {
		return nil, ctx.newError(StackOverflow, "maximum call depth (%d) reached", ctx.maxCallDepth)
	}

	prevScope := ctx.scope
	prevNode := ctx.current
	ctx.scope = NewScope(info, c.captured)
	ctx.callDepth++

	defer func() {
		ctx.scope = prevScope
		ctx.current = prevNode
		ctx.callDepth--
	}()

	if params := fn.Params(); params != nil {
		ctx.handOffArgs(args, true)
		if _, err := params.Eval(ctx); err != nil {
			return nil, err
		}
	} else if len(args) != 0 {
		return nil, ctx.newError(InvalidArgCount, "%s", fmtTooManyArgs(len(args), 0))
	}

	return body.Eval(ctx)
}

// A GoFunction is a host function, it receives evaluated arguments.
type GoFunction struct {
	Name string
	Fn   func(ctx *Context, args []Value) (Value, error)
}

// A SpecialForm is a call-like construct receiving the unevaluated argument nodes.
type SpecialForm struct {
	Name string

	// TailArgs reports whether the argument at index is in tail position when the call is,
	// nil means no argument is in tail position.
	TailArgs func(index, argCount int) bool

	Fn func(ctx *Context, call *Call, args []Node) (Value, error)
}

// LastArgInTail can be used as SpecialForm.TailArgs for forms returning the value of their last argument.
func LastArgInTail(index, argCount int) bool {
	return index == argCount-1
}

// invoke calls callee without draining the pending tail call.
func (ctx *Context) invoke(callee Value, args []Value) (Value, error) {
	ctx.stats.Invocations++

	switch f := callee.(type) {
	case *Closure:
		return f.call(ctx, args)
	case *GoFunction:
		return f.Fn(ctx, args)
	case *SpecialForm:
		return nil, ctx.newError(NotCallable, "special form %s cannot be called with evaluated arguments", f.Name)
	default:
		return nil, ctx.newError(NotCallable, "a value of type %s is not callable", TypeName(callee))
	}
}

// Call calls callee with args, it is intended for host functions and special forms that call
// guest functions. Tail calls performed by callee are completed before Call returns.
func (ctx *Context) Call(callee Value, args ...Value) (Value, error) {
	return ctx.callAndDrain(callee, args)
}
