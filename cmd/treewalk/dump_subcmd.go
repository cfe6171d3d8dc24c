package main

import (
	"flag"
	"io"

	"github.com/inoxlang/treewalk/internal/config"
	"github.com/inoxlang/treewalk/internal/core"
	"github.com/inoxlang/treewalk/internal/treebuild"
)

// DumpDescription prints the tree built from a description, with -run the tree is evaluated
// first so the strategies selected during the evaluation are shown.
func DumpDescription(mainSubCommand string, mainSubCommandArgs []string, outW, errW io.Writer) (exitCode int) {
	flags := flag.NewFlagSet(mainSubCommand, flag.ContinueOnError)
	flags.SetOutput(errW)

	r := &runner{outW: outW, errW: errW, maxCallDepth: core.DEFAULT_MAX_CALL_DEPTH}
	var run bool

	flags.BoolVar(&run, "run", false, "evaluate the tree before printing it")
	flags.StringVar(&r.globalsPath, "globals", "", "YAML file containing host variables, only used with -run")

	if showHelp(flags, mainSubCommandArgs, outW) {
		return
	}

	path, err := parseFlagsAndPath(flags, mainSubCommandArgs)
	if err != nil {
		printError(errW, err)
		return ERROR_STATUS_CODE
	}
	r.descriptionPath = path

	mod, err := treebuild.FromFile(path)
	if err != nil {
		printError(errW, err)
		return ERROR_STATUS_CODE
	}

	if !run {
		if err := core.DumpTree(outW, mod); err != nil {
			printError(errW, err)
			return ERROR_STATUS_CODE
		}
		return 0
	}

	if r.globalsPath == "" {
		if globalsPath, ok := config.GetGlobalsFilePath(); ok {
			r.globalsPath = globalsPath
		}
	}

	r.logger = newLogger(errW)
	r.dump = true
	return r.run(mod)
}
