package core

import (
	"fmt"
	"strconv"
)

// A Value is any value manipulated by guest programs. The core only inspects the
// value kinds it needs to dispatch calls (closures, host functions, special forms),
// every other kind is opaque and handled by the operator catalog and host functions.
type Value interface{}

type Int int64

type Float float64

type Str string

type Bool bool

type NilT struct{}

var (
	Nil   = NilT{}
	True  = Bool(true)
	False = Bool(false)
)

type tailCallPlaceholder struct{}

// TailCallPlaceholder is returned by call sites that defer their call to the nearest
// non-tail call site. It never escapes a trampoline.
var TailCallPlaceholder Value = tailCallPlaceholder{}

// TypeName returns the name of the runtime type of a value, it is used in error
// messages and by operator catalogs to select implementations.
func TypeName(v Value) string {
	switch v.(type) {
	case nil, NilT:
		return "nil"
	case Int:
		return "int"
	case Float:
		return "float"
	case Str:
		return "str"
	case Bool:
		return "bool"
	case *Closure:
		return "function"
	case *GoFunction:
		return "host-function"
	case *SpecialForm:
		return "special-form"
	case tailCallPlaceholder:
		return "tail-call"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Stringify returns a human readable representation of v.
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil, NilT:
		return "nil"
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Str:
		return string(val)
	case Bool:
		return strconv.FormatBool(bool(val))
	case *Closure:
		return "<function " + val.fn.Position.String() + ">"
	case *GoFunction:
		return "<host-function " + val.Name + ">"
	case *SpecialForm:
		return "<special-form " + val.Name + ">"
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// IsTruthy returns false for nil, false, 0, 0.0 and the empty string.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case nil, NilT:
		return false
	case Bool:
		return bool(val)
	case Int:
		return val != 0
	case Float:
		return val != 0
	case Str:
		return val != ""
	default:
		return true
	}
}
