package globals

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/inoxlang/treewalk/internal/core"
	"github.com/inoxlang/treewalk/internal/globals/globalnames"
)

var (
	PRINT = &core.GoFunction{Name: globalnames.PRINT_FN, Fn: _print}
	STR   = &core.GoFunction{Name: globalnames.STR_FN, Fn: _str}
	LEN   = &core.GoFunction{Name: globalnames.LEN_FN, Fn: _len}
)

// _print writes the string representations of its arguments separated by a space.
func _print(ctx *core.Context, args []core.Value) (core.Value, error) {
	buf := &strings.Builder{}

	for i, arg := range args {
		if i != 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(core.Stringify(arg))
	}
	buf.WriteByte('\n')

	if _, err := fmt.Fprint(ctx.Out(), buf.String()); err != nil {
		return nil, err
	}
	return core.Nil, nil
}

func _str(ctx *core.Context, args []core.Value) (core.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: %s expects a single argument but got %d", core.ErrInvalidArgCount, globalnames.STR_FN, len(args))
	}
	return core.Str(core.Stringify(args[0])), nil
}

// _len returns the number of runes of a string.
func _len(ctx *core.Context, args []core.Value) (core.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: %s expects a single argument but got %d", core.ErrInvalidArgCount, globalnames.LEN_FN, len(args))
	}

	s, ok := args[0].(core.Str)
	if !ok {
		return nil, fmt.Errorf("%s: a value of type %s has no length", globalnames.LEN_FN, core.TypeName(args[0]))
	}
	return core.Int(utf8.RuneCountInString(string(s))), nil
}
