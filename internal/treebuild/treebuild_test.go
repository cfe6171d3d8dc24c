package treebuild

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/inoxlang/treewalk/internal/core"
	"github.com/inoxlang/treewalk/internal/globals"
	"github.com/inoxlang/treewalk/internal/testconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, mod *core.Module) core.Value {
	ctx := globals.NewDefaultContext(globals.DefaultContextConfig{})
	result, err := core.Eval(mod, ctx)
	require.NoError(t, err)
	return result
}

func descriptionErrors(t *testing.T, err error) *DescriptionError {
	var descriptionErr *DescriptionError
	require.True(t, errors.As(err, &descriptionErr), "unexpected error: %v", err)
	return descriptionErr
}

func TestFromFile(t *testing.T) {
	testconfig.AllowParallelization(t)

	t.Run("YAML", func(t *testing.T) {
		testconfig.AllowParallelization(t)

		mod, err := FromFile(filepath.Join("testdata", "fact.yaml"))
		require.NoError(t, err)

		assert.Equal(t, "fact", mod.Name)
		assert.True(t, mod.Language.TailCalls)
		assert.False(t, mod.Language.CaseInsensitive)
		assert.Equal(t, core.Int(120), eval(t, mod))
	})

	t.Run("JSON", func(t *testing.T) {
		testconfig.AllowParallelization(t)

		mod, err := FromFile(filepath.Join("testdata", "sum.json"))
		require.NoError(t, err)

		assert.Equal(t, filepath.Join("testdata", "sum.json"), mod.Name)
		assert.Equal(t, core.Int(500000500000), eval(t, mod))
	})

	t.Run("unknown extension", func(t *testing.T) {
		testconfig.AllowParallelization(t)

		_, err := FromFile(filepath.Join("testdata", "fact.txt"))
		assert.Error(t, err)
	})
}

func TestFromYAML(t *testing.T) {
	testconfig.AllowParallelization(t)

	t.Run("declared uses", func(t *testing.T) {
		testconfig.AllowParallelization(t)

		mod, err := FromYAML("test.yaml", []byte(`
version: "1.0"
body:
  - set: x
    value: 1
  - update: x
    op: "+"
    value: 2
  - call: print
    args: [{name: x}]
`))
		require.NoError(t, err)

		var uses []core.Use
		core.Walk(mod, func(node core.Node, depth int) bool {
			if name, ok := node.(*core.Name); ok {
				uses = append(uses, name.Use())
			}
			return true
		})

		assert.Equal(t, []core.Use{core.UseWrite, core.UseReadWrite, core.UseCallTarget, core.UseRead}, uses)
	})

	t.Run("positions", func(t *testing.T) {
		testconfig.AllowParallelization(t)

		mod, err := FromYAML("test.yaml", []byte("version: \"1.0\"\nbody:\n  - set: x\n    value: 1\n  - {name: x}\n"))
		require.NoError(t, err)

		statements := mod.Body().Base().Children()
		require.Len(t, statements, 2)

		pos := statements[0].Base().Position
		assert.Equal(t, "test.yaml", pos.SourceName)
		assert.EqualValues(t, 3, pos.StartLine)

		assert.EqualValues(t, 5, statements[1].Base().Position.StartLine)
	})

	t.Run("functions and default parameters", func(t *testing.T) {
		testconfig.AllowParallelization(t)

		mod, err := FromYAML("test.yaml", []byte(`
version: "1.2.0"
body:
  - set: add
    value:
      fn: [a, {name: b, default: 10}]
      body: {binop: "+", left: {name: a}, right: {name: b}}
  - binop: "+"
    left: {call: add, args: [1]}
    right: {call: add, args: [1, 2]}
`))
		require.NoError(t, err)
		assert.Equal(t, core.Int(14), eval(t, mod))
	})

	t.Run("call target expression", func(t *testing.T) {
		testconfig.AllowParallelization(t)

		mod, err := FromYAML("test.yaml", []byte(`
version: "1"
body:
  - call: {fn: [x], body: [{binop: "*", left: {name: x}, right: 2}]}
    args: [21]
`))
		require.NoError(t, err)
		assert.Equal(t, core.Int(42), eval(t, mod))
	})

	t.Run("case-insensitive language", func(t *testing.T) {
		testconfig.AllowParallelization(t)

		mod, err := FromYAML("test.yaml", []byte(`
version: "1.0"
language: {case-sensitive: false, tail-calls: false, strict-assignment: true}
body:
  - {set: X, value: 3}
  - {name: x}
`))
		require.NoError(t, err)
		assert.Equal(t, core.LanguageOptions{CaseInsensitive: true, StrictAssignment: true}, mod.Language)
		assert.Equal(t, core.Int(3), eval(t, mod))
	})
}

func TestInvalidDescriptions(t *testing.T) {
	testconfig.AllowParallelization(t)

	testCases := []struct {
		name    string
		input   string
		message string
		line    int32
	}{
		{"empty", "", "empty description", 0},
		{"not a mapping", "[1]", "should be a mapping", 1},
		{"missing version", "body: []", `missing "version"`, 1},
		{"unsupported version", "version: \"2.0\"\nbody: []", "unsupported version", 1},
		{"invalid version", "version: abc\nbody: []", "invalid version", 1},
		{"missing body", "version: \"1.0\"", `missing "body"`, 1},
		{"no kind", "version: \"1.0\"\nbody:\n  - unknown: 1\n", "node has no kind", 3},
		{"several kinds", "version: \"1.0\"\nbody:\n  - {name: a, lit: 1}\n", "several kinds", 3},
		{"unexpected key", "version: \"1.0\"\nbody:\n  - name: a\n    args: []\n", `unexpected key "args"`, 4},
		{"unknown operator", "version: \"1.0\"\nbody:\n  - {binop: \"^\", left: 1, right: 2}\n", `unknown operator "^"`, 3},
		{"duplicate parameter", "version: \"1.0\"\nbody:\n  - def: f\n    params: [a, a]\n    body: []\n", `duplicate parameter "a"`, 4},
		{"invalid name", "version: \"1.0\"\nbody: [{name: 5}]\n", "a name should be a non-empty string", 2},
		{"empty name operand", "version: \"1.0\"\nbody:\n  - {binop: \"+\", left: {name: \"\"}, right: 1}\n", "a name should be a non-empty string", 3},
		{"invalid definition name", "version: \"1.0\"\nbody:\n  - def: [f]\n    body: []\n", "a name should be a non-empty string", 3},
		{"invalid assignment target", "version: \"1.0\"\nbody:\n  - {set: 1, value: 2}\n", "a name should be a non-empty string", 3},
		{"list expression", "version: \"1.0\"\nbody:\n  - set: x\n    value: [1]\n", "a list is not an expression", 4},
		{"unknown language option", "version: \"1.0\"\nlanguage: {lazy: true}\nbody: []\n", `unknown language option "lazy"`, 2},
		{"several documents", "version: \"1.0\"\nbody: []\n---\nversion: \"1.0\"\nbody: []\n", "single YAML document", 0},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			testconfig.AllowParallelization(t)

			mod, err := FromYAML("test.yaml", []byte(testCase.input))
			assert.Nil(t, mod)

			descriptionErr := descriptionErrors(t, err)
			require.NotEmpty(t, descriptionErr.Errors)
			assert.ErrorContains(t, err, testCase.message)

			if testCase.line > 0 {
				found := false
				for _, e := range descriptionErr.Errors {
					if e.Location.StartLine == testCase.line {
						found = true
					}
				}
				assert.True(t, found, "no error located at line %d: %v", testCase.line, err)
			}
		})
	}
}

func TestFromJSON(t *testing.T) {
	testconfig.AllowParallelization(t)

	t.Run("floats and integers", func(t *testing.T) {
		testconfig.AllowParallelization(t)

		mod, err := FromJSON("test.json", []byte(`{"version": "1.0", "body": [{"binop": "+", "left": 1, "right": 0.5}]}`))
		require.NoError(t, err)
		assert.Equal(t, core.Float(1.5), eval(t, mod))
	})

	t.Run("invalid name", func(t *testing.T) {
		testconfig.AllowParallelization(t)

		mod, err := FromJSON("test.json", []byte(`{"version": "1.0", "body": [{"name": 5}]}`))
		assert.Nil(t, mod)

		descriptionErr := descriptionErrors(t, err)
		require.Len(t, descriptionErr.Errors, 1)
		assert.Contains(t, descriptionErr.Errors[0].Message, "a name should be a non-empty string")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		testconfig.AllowParallelization(t)

		_, err := FromJSON("test.json", []byte(`{"version": `))
		assert.ErrorContains(t, err, "invalid JSON")
	})
}

func TestGlobalsFromYAML(t *testing.T) {
	testconfig.AllowParallelization(t)

	values, err := GlobalsFromYAML("globals.yaml", []byte("limit: 10\nratio: 0.5\ngreeting: hello\nverbose: true\n"))
	require.NoError(t, err)

	assert.Equal(t, map[string]core.Value{
		"limit":    core.Int(10),
		"ratio":    core.Float(0.5),
		"greeting": core.Str("hello"),
		"verbose":  core.True,
	}, values)

	_, err = GlobalsFromYAML("globals.yaml", []byte("list: [1]\n"))
	assert.ErrorContains(t, err, "not a literal value")
}
