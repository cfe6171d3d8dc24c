package core

import (
	"errors"
	"fmt"

	"github.com/inoxlang/treewalk/internal/sourcecode"
)

var (
	ErrUnboundName          = errors.New("unbound name")
	ErrNotCallable          = errors.New("not callable")
	ErrMissingNode          = errors.New("missing node")
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	ErrOperatorDispatch     = errors.New("operator dispatch failure")
	ErrInvalidArgCount      = errors.New("invalid number of arguments")
	ErrStackOverflow        = errors.New("stack overflow")
	ErrExternal             = errors.New("external error")
	ErrInternal             = errors.New("internal error")

	// ErrOperandMismatch should be returned by operator implementations when the types of
	// the operands are not the types the implementation has been selected for.
	ErrOperandMismatch = errors.New("operand types do not match the operator implementation")

	// ErrNoOperatorImpl should be returned by operator catalogs that have no implementation
	// for an operator and a pair of operand types.
	ErrNoOperatorImpl = errors.New("no implementation for operator")
)

type ErrorKind uint8

const (
	UnboundName ErrorKind = iota + 1
	NotCallable
	MissingNode
	UnsupportedConstruct
	OperatorDispatch
	InvalidArgCount
	StackOverflow
	External
	Internal
)

var errorKindSentinels = [...]error{
	UnboundName:          ErrUnboundName,
	NotCallable:          ErrNotCallable,
	MissingNode:          ErrMissingNode,
	UnsupportedConstruct: ErrUnsupportedConstruct,
	OperatorDispatch:     ErrOperatorDispatch,
	InvalidArgCount:      ErrInvalidArgCount,
	StackOverflow:        ErrStackOverflow,
	External:             ErrExternal,
	Internal:             ErrInternal,
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindSentinels) && errorKindSentinels[k] != nil {
		return errorKindSentinels[k].Error()
	}
	return "unknown error"
}

// An EvalError is an error located at the node that was current when it was raised.
// errors.Is(err, ErrUnboundName) (and the other kind sentinels) can be used to check the kind.
type EvalError struct {
	Kind     ErrorKind
	Message  string
	Location sourcecode.PositionRange
	cause    error
}

func (err *EvalError) Error() string {
	return err.Location.String() + " " + err.Message
}

func (err *EvalError) MessageWithoutLocation() string {
	return err.Message
}

func (err *EvalError) Position() sourcecode.PositionRange {
	return err.Location
}

func (err *EvalError) Is(target error) bool {
	return int(err.Kind) < len(errorKindSentinels) && errorKindSentinels[err.Kind] == target
}

func (err *EvalError) Unwrap() error {
	return err.cause
}

var _ = sourcecode.LocatedError((*EvalError)(nil))

func newEvalError(kind ErrorKind, node Node, cause error, format string, args ...any) *EvalError {
	var pos sourcecode.PositionRange
	if node != nil {
		pos = node.Base().Position
	}
	return &EvalError{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Location: pos,
		cause:    cause,
	}
}

// locateError wraps err in an *EvalError located at node if it is not already located.
func locateError(node Node, err error) error {
	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		return err
	}
	return newEvalError(classifyError(err), node, err, "%s", err.Error())
}

// classifyError returns the kind of an error that is not an *EvalError, host code can
// select a kind by wrapping one of the kind sentinels.
func classifyError(err error) ErrorKind {
	if errors.Is(err, ErrOperandMismatch) || errors.Is(err, ErrNoOperatorImpl) {
		return OperatorDispatch
	}
	for kind, sentinel := range errorKindSentinels {
		if sentinel != nil && errors.Is(err, sentinel) {
			return ErrorKind(kind)
		}
	}
	return External
}

func fmtUnboundName(name string) string {
	return fmt.Sprintf("name %q is not bound", name)
}

func fmtNotAssignedYet(name string) string {
	return fmt.Sprintf("name %q is not assigned yet", name)
}

func fmtTooManyArgs(argCount, paramCount int) string {
	return fmt.Sprintf("too many arguments were provided (%d), at most %d arguments are expected", argCount, paramCount)
}

func fmtMissingArg(name string) string {
	return fmt.Sprintf("missing value for parameter %q", name)
}
