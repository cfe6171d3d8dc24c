package main

import (
	// ====================== TREEWALK IMPORTS ============================
	"github.com/inoxlang/treewalk/internal/config"
	"github.com/inoxlang/treewalk/internal/utils"

	// ====================== STDLIB ============================
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"unicode"

	// ====================== THIRD PARTY ============================
	"github.com/posener/complete/v2/install"
	"github.com/rs/zerolog"
)

const (
	ERROR_STATUS_CODE = 1

	COMMAND_NAME = "treewalk"
)

func main() {
	//handle completions
	cmd.Complete(COMMAND_NAME)

	statusCode := _main(os.Args, os.Stdout, os.Stderr)
	if statusCode != 0 {
		os.Exit(statusCode)
	}
}

func _main(args []string, outW io.Writer, errW io.Writer) (statusCode int) {
	mainSubCommand := ""
	var mainSubCommandArgs []string

	if len(args) == 1 { //no subcommand specified
		mainSubCommand = HELP_SUBCMD
	} else {
		mainSubCommand = args[1]
		mainSubCommandArgs = args[2:]
	}

	//if the command has the shape help <subcommand> ... we modify the arguments to ask the subcommand to print its help message.
	if mainSubCommand == HELP_SUBCMD && len(mainSubCommandArgs) > 0 && mainSubCommandArgs[0] != "" && unicode.IsLetter(rune(mainSubCommandArgs[0][0])) {
		mainSubCommand = mainSubCommandArgs[0]
		mainSubCommandArgs = []string{"-h"}
	}

	if slices.Contains(HELP_SUBCMD_EQUIVALENTS, mainSubCommand) {
		mainSubCommand = HELP_SUBCMD
	}

	//unknown command
	if !slices.Contains(SUBCOMMANDS, mainSubCommand) {
		fmt.Fprintf(errW, "unknown command '%s'", mainSubCommand)

		closest, _, ok := utils.FindClosestString(context.Background(), SUBCOMMANDS, mainSubCommand, 2)
		if ok {
			fmt.Fprintf(errW, ", did you mean '%s' ?\n", closest)
		} else {
			fmt.Fprint(errW, "\n"+TREEWALK_CMD_HELP)
		}
		return ERROR_STATUS_CODE
	}

	if config.INVALID_LOG_LEVEL != "" {
		fmt.Fprintf(errW, "invalid log level %q in %s, the default level (%s) is used\n",
			config.INVALID_LOG_LEVEL, config.LOG_LEVEL_ENV_VARNAME, config.DEFAULT_LOG_LEVEL)
	}

	switch mainSubCommand {
	case HELP_SUBCMD:
		fmt.Fprint(outW, TREEWALK_CMD_HELP)
		return
	case INSTALL_COMPLETIONS_SUBCMD:
		err := install.Install(COMMAND_NAME)
		if err != nil {
			fmt.Fprintln(errW, err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintln(outW, "installed")
		return
	case UNINSTALL_COMPLETIONS_SUBCMD:
		err := install.Uninstall(COMMAND_NAME)
		if err != nil {
			fmt.Fprintln(errW, err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintln(outW, "uninstalled")
		return
	case RUN_SUBCMD:
		return RunDescription(mainSubCommand, mainSubCommandArgs, outW, errW)
	case CHECK_SUBCMD:
		return CheckDescription(mainSubCommand, mainSubCommandArgs, outW, errW)
	case DUMP_SUBCMD:
		return DumpDescription(mainSubCommand, mainSubCommandArgs, outW, errW)
	default:
		panic(fmt.Errorf("unhandled command %q", mainSubCommand))
	}
}

func newLogger(errW io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:     errW,
		NoColor: !config.SHOULD_COLORIZE,
	}).Level(config.LOG_LEVEL).With().Timestamp().Logger()
}

func printError(errW io.Writer, err error) {
	fmt.Fprintln(errW, config.Colorize(err.Error(), config.ERROR_COLOR))
}
