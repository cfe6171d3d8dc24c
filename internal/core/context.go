package core

import (
	"io"
	"os"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

const (
	DEFAULT_MAX_CALL_DEPTH = 50_000
)

// LanguageOptions are the guest language properties the core depends on.
// They are set on *Module nodes, nodes outside of a module use the defaults of the context.
type LanguageOptions struct {
	// TailCalls enables tail-call elimination: calls in tail position are trampolined.
	TailCalls bool

	CaseInsensitive bool

	// StrictAssignment makes assignments through nodes that are not assignment targets fail
	// instead of being ignored.
	StrictAssignment bool
}

type ContextConfig struct {
	Globals *Globals        //if nil an empty set of globals is created
	Catalog OperatorCatalog //required to evaluate operators
	Logger  *zerolog.Logger //if nil logs are disabled
	Out     io.Writer       //defaults to os.Stdout

	// DefaultLanguage is used by nodes that have no *Module ancestor.
	DefaultLanguage LanguageOptions

	// MaxCallDepth is the maximum number of nested non-tail calls, defaults to DEFAULT_MAX_CALL_DEPTH.
	MaxCallDepth int
}

// A Context is the state of a single execution: it tracks the current node, the
// current scope and the pending tail call. A Context should not be used by several
// goroutines at the same time.
type Context struct {
	id              ulid.ULID
	globals         *Globals
	catalog         OperatorCatalog
	logger          zerolog.Logger
	out             io.Writer
	defaultLanguage LanguageOptions
	maxCallDepth    int

	current   Node
	scope     *Scope
	callDepth int

	//pending tail call
	tailTarget     Value
	tailArgs       []Value
	hasPendingTail bool

	//argument handoff between a call and the parameter list of the callee
	paramArgs []Value
	paramBind bool

	stats ExecutionStats
}

type ExecutionStats struct {
	Invocations int64 `json:"invocations"` //calls of functions (closures and host functions)
	TailCalls   int64 `json:"tailCalls"`   //calls performed by trampolines
}

func NewContext(config ContextConfig) *Context {
	ctx := &Context{
		id:              ulid.Make(),
		globals:         config.Globals,
		catalog:         config.Catalog,
		out:             config.Out,
		defaultLanguage: config.DefaultLanguage,
		maxCallDepth:    config.MaxCallDepth,
	}

	if ctx.globals == nil {
		ctx.globals = NewGlobals(nil)
	}
	if ctx.out == nil {
		ctx.out = os.Stdout
	}
	if ctx.maxCallDepth <= 0 {
		ctx.maxCallDepth = DEFAULT_MAX_CALL_DEPTH
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}
	ctx.logger = ChildLoggerForSource(logger, CORE_LOG_SRC).With().
		Str(EXECUTION_ID_LOG_FIELD_NAME, ctx.id.String()).
		Logger()

	return ctx
}

func (ctx *Context) ID() ulid.ULID {
	return ctx.id
}

func (ctx *Context) Logger() *zerolog.Logger {
	return &ctx.logger
}

func (ctx *Context) Globals() *Globals {
	return ctx.globals
}

func (ctx *Context) Catalog() OperatorCatalog {
	return ctx.catalog
}

func (ctx *Context) Out() io.Writer {
	return ctx.out
}

// CurrentNode returns the node being evaluated, it is nil outside of any evaluation.
func (ctx *Context) CurrentNode() Node {
	return ctx.current
}

// Scope returns the current scope, it is nil outside of any module or function.
func (ctx *Context) Scope() *Scope {
	return ctx.scope
}

// PendingTailCall returns the target and the arguments of the tail call waiting to be
// performed by the nearest non-tail call site, ok is false if there is none.
func (ctx *Context) PendingTailCall() (target Value, args []Value, ok bool) {
	return ctx.tailTarget, ctx.tailArgs, ctx.hasPendingTail
}

func (ctx *Context) Stats() ExecutionStats {
	return ctx.stats
}

func (ctx *Context) enter(node Node) {
	ctx.current = node
}

// exit restores the parent of node as the current node, if *errPtr is not nil
// and not located yet it is located at node.
func (ctx *Context) exit(node Node, errPtr *error) {
	if errPtr != nil && *errPtr != nil {
		*errPtr = locateError(node, *errPtr)
	}
	ctx.current = node.Base().parent
}

// newError creates an error located at the current node.
func (ctx *Context) newError(kind ErrorKind, format string, args ...any) *EvalError {
	return newEvalError(kind, ctx.current, nil, format, args...)
}

func (ctx *Context) handOffArgs(args []Value, bind bool) {
	ctx.paramArgs = args
	ctx.paramBind = bind
}

func (ctx *Context) takeArgs() (args []Value, bind bool) {
	args, bind = ctx.paramArgs, ctx.paramBind
	ctx.paramArgs = nil
	ctx.paramBind = false
	return
}
