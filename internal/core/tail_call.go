package core

// Tail calls are trampolined: a call site in tail position does not perform its call,
// it stores the target and the arguments in the context and returns TailCallPlaceholder.
// The placeholder travels up to the nearest call site that is not in tail position, that
// call site then performs the deferred calls in a loop until a call returns without
// deferring another one. Nested tail calls therefore use a constant number of host frames.

func (ctx *Context) deferTailCall(target Value, args []Value) {
	ctx.tailTarget = target
	ctx.tailArgs = args
	ctx.hasPendingTail = true
}

func (ctx *Context) takeTailCall() (target Value, args []Value, ok bool) {
	target, args, ok = ctx.tailTarget, ctx.tailArgs, ctx.hasPendingTail
	ctx.clearTailCall()
	return
}

func (ctx *Context) clearTailCall() {
	ctx.tailTarget = nil
	ctx.tailArgs = nil
	ctx.hasPendingTail = false
}

// callAndDrain invokes callee then performs the deferred tail calls.
func (ctx *Context) callAndDrain(callee Value, args []Value) (Value, error) {
	result, err := ctx.invoke(callee, args)
	if err != nil {
		ctx.clearTailCall()
		return nil, err
	}
	return ctx.drainTailCalls(result)
}

func (ctx *Context) drainTailCalls(result Value) (Value, error) {
	for ctx.hasPendingTail {
		target, args, _ := ctx.takeTailCall()
		ctx.stats.TailCalls++

		var err error
		result, err = ctx.invoke(target, args)
		if err != nil {
			ctx.clearTailCall()
			return nil, err
		}
	}
	return result, nil
}
