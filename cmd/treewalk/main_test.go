package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/inoxlang/treewalk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const factDescription = `
version: "1.0"
body:
  - def: fact
    params: [n]
    body:
      - call: if
        args:
          - {binop: "==", left: {name: n}, right: 0}
          - 1
          - binop: "*"
            left: {name: n}
            right: {call: fact, args: [{binop: "-", left: {name: n}, right: 1}]}
  - call: fact
    args: [{name: input}]
`

func TestMain(m *testing.M) {
	config.SHOULD_COLORIZE = false
	os.Exit(m.Run())
}

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runMain(args ...string) (exitCode int, out string, errOut string) {
	outW := &bytes.Buffer{}
	errW := &bytes.Buffer{}
	exitCode = _main(append([]string{COMMAND_NAME}, args...), outW, errW)
	return exitCode, outW.String(), errW.String()
}

func TestHelp(t *testing.T) {
	exitCode, out, _ := runMain()
	assert.Zero(t, exitCode)
	assert.Contains(t, out, "commands:")
	assert.Contains(t, out, RUN_SUBCMD+" - ")

	exitCode, out, _ = runMain(HELP_SUBCMD, RUN_SUBCMD)
	assert.Zero(t, exitCode)
	assert.Contains(t, out, "-watch")
}

func TestUnknownCommand(t *testing.T) {
	exitCode, _, errOut := runMain("rnu")
	assert.Equal(t, ERROR_STATUS_CODE, exitCode)
	assert.Contains(t, errOut, "did you mean 'run' ?")
}

func TestRunSubcommand(t *testing.T) {
	dir := t.TempDir()
	descriptionPath := writeFile(t, dir, "fact.yaml", factDescription)
	globalsPath := writeFile(t, dir, "globals.yaml", "input: 5\n")

	t.Run("text output", func(t *testing.T) {
		exitCode, out, errOut := runMain(RUN_SUBCMD, "-globals", globalsPath, descriptionPath)
		assert.Zero(t, exitCode, errOut)
		assert.Equal(t, "120\n", out)
	})

	t.Run("flags after the path", func(t *testing.T) {
		exitCode, out, errOut := runMain(RUN_SUBCMD, descriptionPath, "-globals", globalsPath)
		assert.Zero(t, exitCode, errOut)
		assert.Equal(t, "120\n", out)
	})

	t.Run("JSON output", func(t *testing.T) {
		exitCode, out, errOut := runMain(RUN_SUBCMD, "-json", "-globals", globalsPath, descriptionPath)
		assert.Zero(t, exitCode, errOut)

		var output struct {
			ExecutionID string `json:"executionId"`
			Result      int64  `json:"result"`
			ResultType  string `json:"resultType"`
			Stats       struct {
				Invocations int64 `json:"invocations"`
			} `json:"stats"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &output))

		assert.EqualValues(t, 120, output.Result)
		assert.Equal(t, "int", output.ResultType)
		assert.NotEmpty(t, output.ExecutionID)
		assert.EqualValues(t, 6, output.Stats.Invocations)
	})

	t.Run("unbound name", func(t *testing.T) {
		exitCode, _, errOut := runMain(RUN_SUBCMD, "-globals", writeFile(t, dir, "empty.yaml", "other: 1\n"), descriptionPath)
		assert.Equal(t, ERROR_STATUS_CODE, exitCode)
		assert.Contains(t, errOut, `name "input" is not bound`)
	})

	t.Run("JSON error", func(t *testing.T) {
		exitCode, out, _ := runMain(RUN_SUBCMD, "-json", "-globals", writeFile(t, dir, "empty.yaml", "other: 1\n"), descriptionPath)
		assert.Equal(t, ERROR_STATUS_CODE, exitCode)

		var output struct {
			Error struct {
				Kind     string `json:"kind"`
				Location struct {
					Line int `json:"line"`
				} `json:"location"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &output))
		assert.Equal(t, "unbound name", output.Error.Kind)
		assert.Equal(t, 15, output.Error.Location.Line)
	})

	t.Run("missing path", func(t *testing.T) {
		exitCode, _, errOut := runMain(RUN_SUBCMD)
		assert.Equal(t, ERROR_STATUS_CODE, exitCode)
		assert.Contains(t, errOut, "missing description path")
	})

	t.Run("stack overflow", func(t *testing.T) {
		exitCode, _, errOut := runMain(RUN_SUBCMD, "-max-call-depth", "3", "-globals", globalsPath, descriptionPath)
		assert.Equal(t, ERROR_STATUS_CODE, exitCode)
		assert.Contains(t, errOut, "maximum call depth (3) reached")
	})
}

func TestCheckSubcommand(t *testing.T) {
	dir := t.TempDir()

	exitCode, out, _ := runMain(CHECK_SUBCMD, writeFile(t, dir, "fact.yaml", factDescription))
	assert.Zero(t, exitCode)
	assert.Contains(t, out, `"errors":[]`)

	exitCode, out, _ = runMain(CHECK_SUBCMD, writeFile(t, dir, "invalid.yaml", "version: \"1.0\"\nbody:\n  - {binop: \"^\", left: 1, right: 2}\n"))
	assert.Equal(t, ERROR_STATUS_CODE, exitCode)

	var output checkOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	require.Len(t, output.Errors, 1)
	assert.Contains(t, output.Errors[0].Message, "unknown operator")
	assert.EqualValues(t, 3, output.Errors[0].Location.StartLine)
}

func TestDumpSubcommand(t *testing.T) {
	dir := t.TempDir()
	descriptionPath := writeFile(t, dir, "fact.yaml", factDescription)
	globalsPath := writeFile(t, dir, "globals.yaml", "input: 5\n")

	exitCode, out, errOut := runMain(DUMP_SUBCMD, descriptionPath)
	assert.Zero(t, exitCode, errOut)
	assert.Contains(t, out, "module [generic]")
	assert.NotContains(t, out, "tail-deferring-call")

	exitCode, out, errOut = runMain(DUMP_SUBCMD, "-run", "-globals", globalsPath, descriptionPath)
	assert.Zero(t, exitCode, errOut)
	assert.Contains(t, out, "120\n")
	assert.Contains(t, out, "call [special-form]")
	assert.Contains(t, out, "call [tail-checking-call]")
	assert.Contains(t, out, "slots: n")
}
