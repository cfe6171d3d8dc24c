package globals

import (
	"io"
	"strings"

	"github.com/inoxlang/treewalk/internal/core"
	"github.com/inoxlang/treewalk/internal/globals/globalnames"
	"github.com/inoxlang/treewalk/internal/operators"
	"github.com/rs/zerolog"
)

type DefaultContextConfig struct {
	Globals *core.Globals //if nil the default globals are used
	Catalog core.OperatorCatalog
	Logger  *zerolog.Logger
	Out     io.Writer

	Language     core.LanguageOptions
	MaxCallDepth int
}

// DefaultGlobalEntries returns the special forms and the host functions, the names are
// lowercase: case-insensitive modules look up globals with lowercased names.
func DefaultGlobalEntries() map[string]core.Value {
	return map[string]core.Value{
		globalnames.IF_FORM:    IF,
		globalnames.AND_FORM:   AND,
		globalnames.OR_FORM:    OR,
		globalnames.WHILE_FORM: WHILE,
		globalnames.NOT_FORM:   NOT,

		globalnames.PRINT_FN: PRINT,
		globalnames.STR_FN:   STR,
		globalnames.LEN_FN:   LEN,
	}
}

func NewDefaultGlobals() *core.Globals {
	return core.NewGlobals(DefaultGlobalEntries())
}

// AddHostVariables adds host variables to globals, the variables cannot override the
// special forms or the host functions.
func AddHostVariables(globals *core.Globals, variables map[string]core.Value) []string {
	var ignored []string
	defaults := DefaultGlobalEntries()

	for name, value := range variables {
		if _, ok := defaults[strings.ToLower(name)]; ok {
			ignored = append(ignored, name)
			continue
		}
		globals.Set(name, value)
	}
	return ignored
}

// NewDefaultContext creates a context with the default globals and the default operator catalog.
func NewDefaultContext(config DefaultContextConfig) *core.Context {
	globals := config.Globals
	if globals == nil {
		globals = NewDefaultGlobals()
	}

	catalog := config.Catalog
	if catalog == nil {
		catalog = operators.NewCatalog()
	}

	return core.NewContext(core.ContextConfig{
		Globals:         globals,
		Catalog:         catalog,
		Logger:          config.Logger,
		Out:             config.Out,
		DefaultLanguage: config.Language,
		MaxCallDepth:    config.MaxCallDepth,
	})
}
