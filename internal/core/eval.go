package core

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/inoxlang/treewalk/internal/utils"
)

// Eval evaluates a tree (usually rooted at a *Module), panics are always recovered so this
// function should not panic. The tree should not be evaluated by several executions at the
// same time.
func Eval(node Node, ctx *Context) (result Value, finalErr error) {
	defer func() {
		if e := recover(); e != nil {
			err := utils.ConvertPanicValueToError(e)
			finalErr = newEvalError(Internal, ctx.current, err, "core: %s %s", err.Error(), debug.Stack())
			result = nil
		}

		if finalErr != nil {
			ctx.logger.Debug().Err(finalErr).Msg("evaluation failed")
		}
	}()

	if node == nil {
		return nil, newEvalError(MissingNode, nil, nil, "nothing to evaluate")
	}

	//a previous execution may have failed in the middle of a call
	ctx.clearTailCall()
	ctx.current = nil

	result, err := node.Eval(ctx)
	if err != nil {
		return nil, err
	}

	if ctx.hasPendingTail {
		result, err = ctx.drainTailCalls(result)
		if err != nil {
			return nil, err
		}
	}

	if result == TailCallPlaceholder {
		return nil, newEvalError(Internal, node, nil, "a tail call escaped its trampoline")
	}
	return result, nil
}

// Reset restores node and its subtree to the unspecialized state, this should be done before
// evaluating the tree under a different binding context (e.g. different globals).
func Reset(node Node) {
	if node != nil {
		node.Reset()
	}
}

// EvalFresh resets node before evaluating it.
func EvalFresh(node Node, ctx *Context) (Value, error) {
	Reset(node)
	return Eval(node, ctx)
}

// IsEvalError reports whether err is (or wraps) an *EvalError of the given kind.
func IsEvalError(err error, kind ErrorKind) bool {
	var evalErr *EvalError
	return errors.As(err, &evalErr) && evalErr.Kind == kind
}

func FormatError(err error) string {
	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		return fmt.Sprintf("%s %s: %s", evalErr.Location, evalErr.Kind, evalErr.Message)
	}
	return err.Error()
}
