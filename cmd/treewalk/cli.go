package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

const (
	RUN_SUBCMD                   = "run"
	CHECK_SUBCMD                 = "check"
	DUMP_SUBCMD                  = "dump"
	INSTALL_COMPLETIONS_SUBCMD   = "install-completions"
	UNINSTALL_COMPLETIONS_SUBCMD = "uninstall-completions"
	HELP_SUBCMD                  = "help"
)

var (
	SUBCOMMANDS = []string{
		RUN_SUBCMD, CHECK_SUBCMD, DUMP_SUBCMD, HELP_SUBCMD,
		INSTALL_COMPLETIONS_SUBCMD, UNINSTALL_COMPLETIONS_SUBCMD,
	}

	HELP_SUBCMD_EQUIVALENTS = []string{"--help", "-help", "-h"}

	CLI_SUBCOMMAND_DESCRIPTIONS = [][2]string{
		{RUN_SUBCMD, "evaluate a tree description"},
		{CHECK_SUBCMD, "check a tree description and print the errors as JSON"},
		{DUMP_SUBCMD, "print the tree built from a description (kinds, strategies, positions)"},

		{INSTALL_COMPLETIONS_SUBCMD, "install CLI completions by addding the completion command to the detected rc file (supported shells are bash, zsh and fish)"},
		{UNINSTALL_COMPLETIONS_SUBCMD, "uninstall CLI completions by removing the completion command from the detected rc file"},
		{HELP_SUBCMD, "show the general help or command-specific help"},
	}

	CLI_SUBCOMMAND_DESCRIPTION_MAP = map[string]string{}

	TREEWALK_CMD_HELP = "commands:\n"

	descriptionFiles = predict.Or(predict.Files("*.yaml"), predict.Files("*.yml"), predict.Files("*.json"))

	cmd = &complete.Command{
		Sub: map[string]*complete.Command{
			RUN_SUBCMD: {
				Flags: map[string]complete.Predictor{
					"globals":        predict.Files("*.yaml"),
					"watch":          predict.Nothing,
					"json":           predict.Nothing,
					"dump":           predict.Nothing,
					"max-call-depth": predict.Nothing,
				},
				Args: descriptionFiles,
			},
			CHECK_SUBCMD: {
				Args: descriptionFiles,
			},
			DUMP_SUBCMD: {
				Flags: map[string]complete.Predictor{
					"run":     predict.Nothing,
					"globals": predict.Files("*.yaml"),
				},
				Args: descriptionFiles,
			},
			HELP_SUBCMD: {
				Args: predict.Set(SUBCOMMANDS),
			},
			INSTALL_COMPLETIONS_SUBCMD:   {},
			UNINSTALL_COMPLETIONS_SUBCMD: {},
		},
	}
)

func init() {
	for _, entry := range CLI_SUBCOMMAND_DESCRIPTIONS {
		cmd, desc := entry[0], entry[1]
		CLI_SUBCOMMAND_DESCRIPTION_MAP[cmd] = desc
		TREEWALK_CMD_HELP += "\t" + cmd + " - " + desc + "\n"
	}
	TREEWALK_CMD_HELP += "\nType `treewalk help <command>` to get command-specific help.\n"
}

// parseFlagsAndPath parses the flags of a subcommand taking a single path, the flags can be
// placed before or after the path.
func parseFlagsAndPath(flags *flag.FlagSet, args []string) (path string, err error) {
	if err := flags.Parse(args); err != nil {
		return "", err
	}
	if flags.NArg() == 0 {
		return "", errors.New("missing description path")
	}
	path = flags.Arg(0)

	if err := flags.Parse(flags.Args()[1:]); err != nil {
		return "", err
	}
	if flags.NArg() != 0 {
		return "", fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}
	return path, nil
}

func showHelp(flags *flag.FlagSet, args []string, out io.Writer) bool {
	//only show help
	if slices.Contains(args, "-h") || slices.Contains(args, "--help") {

		cmd := flags.Name()
		if desc, ok := CLI_SUBCOMMAND_DESCRIPTION_MAP[cmd]; ok {
			fmt.Fprintln(out, desc)
		}

		flags.SetOutput(out)
		fmt.Fprint(out, "\noptions:\n")
		flags.PrintDefaults()

		return true
	}

	return false
}
