package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/inoxlang/treewalk/internal/config"
	"github.com/inoxlang/treewalk/internal/core"
	"github.com/inoxlang/treewalk/internal/globals"
	"github.com/inoxlang/treewalk/internal/sourcecode"
	"github.com/inoxlang/treewalk/internal/treebuild"
	"github.com/rs/zerolog"
)

const (
	MAX_GLOBALS_FILE_SIZE = 1_000_000
)

// A runner evaluates the module built from a description, it is reused by the
// watch loop to re-run the same tree.
type runner struct {
	descriptionPath string
	globalsPath     string
	outW, errW      io.Writer
	logger          zerolog.Logger

	jsonOutput   bool
	dump         bool
	maxCallDepth int
}

type runOutput struct {
	ExecutionID string              `json:"executionId"`
	Result      any                 `json:"result,omitempty"`
	ResultType  string              `json:"resultType,omitempty"`
	Error       *errorOutput        `json:"error,omitempty"`
	Stats       core.ExecutionStats `json:"stats"`
}

type errorOutput struct {
	Kind     string                   `json:"kind"`
	Message  string                   `json:"message"`
	Location sourcecode.PositionRange `json:"location"`
}

func RunDescription(mainSubCommand string, mainSubCommandArgs []string, outW, errW io.Writer) (exitCode int) {
	flags := flag.NewFlagSet(mainSubCommand, flag.ContinueOnError)
	flags.SetOutput(errW)

	r := &runner{outW: outW, errW: errW}
	var watch bool

	flags.StringVar(&r.globalsPath, "globals", "", "YAML file containing host variables (default: "+config.GLOBALS_FILE_RELPATH+" in the XDG config directories)")
	flags.BoolVar(&watch, "watch", false, "re-run the description when it changes or when the globals file changes")
	flags.BoolVar(&r.jsonOutput, "json", false, "print the result as JSON")
	flags.BoolVar(&r.dump, "dump", false, "print the specialized tree after the evaluation")
	flags.IntVar(&r.maxCallDepth, "max-call-depth", core.DEFAULT_MAX_CALL_DEPTH, "maximum number of nested non-tail calls")

	if showHelp(flags, mainSubCommandArgs, outW) {
		return
	}

	path, err := parseFlagsAndPath(flags, mainSubCommandArgs)
	if err != nil {
		printError(errW, err)
		return ERROR_STATUS_CODE
	}
	r.descriptionPath = path

	if r.globalsPath == "" {
		if globalsPath, ok := config.GetGlobalsFilePath(); ok {
			r.globalsPath = globalsPath
		}
	}

	r.logger = newLogger(errW)

	if watch {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return r.watch(ctx)
	}

	mod, err := treebuild.FromFile(path)
	if err != nil {
		printError(errW, err)
		return ERROR_STATUS_CODE
	}

	return r.run(mod)
}

func (r *runner) loadGlobals() (*core.Globals, error) {
	g := globals.NewDefaultGlobals()
	if r.globalsPath == "" {
		return g, nil
	}

	info, err := os.Stat(r.globalsPath)
	if err != nil {
		return nil, err
	}
	if info.Size() > MAX_GLOBALS_FILE_SIZE {
		return nil, fmt.Errorf("%s: globals file is too large", r.globalsPath)
	}

	data, err := os.ReadFile(r.globalsPath)
	if err != nil {
		return nil, err
	}

	variables, err := treebuild.GlobalsFromYAML(r.globalsPath, data)
	if err != nil {
		return nil, err
	}

	for _, name := range globals.AddHostVariables(g, variables) {
		r.logger.Warn().Str("name", name).Msg("host variable ignored, the name is used by a special form or a host function")
	}
	return g, nil
}

// run evaluates mod and prints the result, mod should have been reset if it has already been evaluated.
func (r *runner) run(mod *core.Module) (exitCode int) {
	g, err := r.loadGlobals()
	if err != nil {
		printError(r.errW, err)
		return ERROR_STATUS_CODE
	}

	ctx := globals.NewDefaultContext(globals.DefaultContextConfig{
		Globals:      g,
		Logger:       &r.logger,
		Out:          r.outW,
		Language:     mod.Language,
		MaxCallDepth: r.maxCallDepth,
	})

	result, evalErr := core.Eval(mod, ctx)

	stats := ctx.Stats()
	ctx.Logger().Debug().
		Int64("invocations", stats.Invocations).
		Int64("tail-calls", stats.TailCalls).
		Msg("evaluation finished")

	if evalErr != nil {
		exitCode = ERROR_STATUS_CODE
	}

	if r.jsonOutput {
		output := runOutput{
			ExecutionID: ctx.ID().String(),
			Stats:       stats,
		}
		if evalErr != nil {
			output.Error = newErrorOutput(evalErr)
		} else {
			output.Result = jsonValue(result)
			output.ResultType = core.TypeName(result)
		}

		data, err := json.Marshal(output)
		if err != nil {
			printError(r.errW, err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintf(r.outW, "%s\n", data)
	} else if evalErr != nil {
		printError(r.errW, evalErr)
	} else if result != core.Nil {
		fmt.Fprintln(r.outW, config.Colorize(core.Stringify(result), config.RESULT_COLOR))
	}

	if r.dump {
		if err := core.DumpTree(r.outW, mod); err != nil {
			printError(r.errW, err)
			return ERROR_STATUS_CODE
		}
	}
	return exitCode
}

func newErrorOutput(err error) *errorOutput {
	var evalErr *core.EvalError
	if errors.As(err, &evalErr) {
		return &errorOutput{
			Kind:     evalErr.Kind.String(),
			Message:  evalErr.Message,
			Location: evalErr.Location,
		}
	}
	return &errorOutput{Kind: core.External.String(), Message: err.Error()}
}

// jsonValue converts a value to a value that can be marshaled, values without a JSON
// representation are converted to their string representation.
func jsonValue(v core.Value) any {
	switch val := v.(type) {
	case core.NilT:
		return nil
	case core.Int:
		return int64(val)
	case core.Float:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return core.Stringify(val)
		}
		return float64(val)
	case core.Str:
		return string(val)
	case core.Bool:
		return bool(val)
	default:
		return core.Stringify(v)
	}
}
