package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/inoxlang/treewalk/internal/sourcecode"
	"github.com/inoxlang/treewalk/internal/treebuild"
	"github.com/inoxlang/treewalk/internal/utils"
)

type checkOutput struct {
	Path   string                  `json:"path"`
	Errors []sourcecode.BuildError `json:"errors"`
}

// CheckDescription builds the tree of a description without evaluating it and prints the
// errors as JSON, the exit code is not zero if the description is invalid.
func CheckDescription(mainSubCommand string, mainSubCommandArgs []string, outW, errW io.Writer) (exitCode int) {
	flags := flag.NewFlagSet(mainSubCommand, flag.ContinueOnError)
	flags.SetOutput(errW)

	if showHelp(flags, mainSubCommandArgs, outW) {
		return
	}

	path, err := parseFlagsAndPath(flags, mainSubCommandArgs)
	if err != nil {
		printError(errW, err)
		return ERROR_STATUS_CODE
	}

	output := checkOutput{Path: path, Errors: []sourcecode.BuildError{}}

	_, err = treebuild.FromFile(path)
	if err != nil {
		exitCode = ERROR_STATUS_CODE

		var descriptionErr *treebuild.DescriptionError
		if errors.As(err, &descriptionErr) {
			output.Errors = descriptionErr.Errors
		} else {
			output.Errors = append(output.Errors, sourcecode.BuildError{
				Message:  err.Error(),
				Location: sourcecode.PositionRange{SourceName: path},
			})
		}
	}

	fmt.Fprintf(outW, "%s\n", utils.Must(json.Marshal(output)))
	return exitCode
}
