package treebuild

import (
	"fmt"
	"slices"
	"strings"

	"github.com/inoxlang/treewalk/internal/core"
	"github.com/inoxlang/treewalk/internal/sourcecode"
)

// node kinds, a node is a mapping containing exactly one of these keys.
const (
	LITERAL_KIND      = "lit"
	NAME_KIND         = "name"
	SET_KIND          = "set"
	UPDATE_KIND       = "update"
	BINARY_OP_KIND    = "binop"
	CALL_KIND         = "call"
	FUNCTION_KIND     = "fn"
	FUNCTION_DEF_KIND = "def"
	SEQUENCE_KIND     = "seq"
	DEFAULT_PARAM_KEY = "default"
	PARAM_NAME_KEY    = "name"
	VALUE_KEY         = "value"
	OPERATOR_KEY      = "op"
	LEFT_KEY          = "left"
	RIGHT_KEY         = "right"
	ARGS_KEY          = "args"
	PARAMS_KEY        = "params"
	BODY_KEY          = "body"
)

var (
	NODE_KINDS = []string{
		LITERAL_KIND, NAME_KIND, SET_KIND, UPDATE_KIND, BINARY_OP_KIND,
		CALL_KIND, FUNCTION_KIND, FUNCTION_DEF_KIND, SEQUENCE_KIND,
	}

	//keys allowed alongside the kind key
	kindKeys = map[string][]string{
		LITERAL_KIND:      nil,
		NAME_KIND:         nil,
		SET_KIND:          {VALUE_KEY},
		UPDATE_KIND:       {OPERATOR_KEY, VALUE_KEY},
		BINARY_OP_KIND:    {LEFT_KEY, RIGHT_KEY},
		CALL_KIND:         {ARGS_KEY},
		FUNCTION_KIND:     {BODY_KEY},
		FUNCTION_DEF_KIND: {PARAMS_KEY, BODY_KEY},
		SEQUENCE_KIND:     nil,
	}
)

type builder struct {
	sourceName string
	errors     []sourcecode.BuildError
}

func (b *builder) fail(pos sourcecode.PositionRange, format string, args ...any) {
	b.errors = append(b.errors, sourcecode.BuildError{
		Message:  fmt.Sprintf(format, args...),
		Location: pos,
	})
}

// expr builds an expression, scalars are shorthands for literals.
func (b *builder) expr(it *item, parentPos sourcecode.PositionRange) core.Node {
	if it == nil {
		b.fail(parentPos, "missing expression")
		return nil
	}

	switch v := it.value.(type) {
	case []*item:
		b.fail(it.pos, "a list is not an expression, use a %q node", SEQUENCE_KIND)
		return nil
	case *mapping:
		return b.kindNode(it, v)
	default:
		value, ok := b.literalValue(it)
		if !ok {
			return nil
		}
		return core.NewLiteral(it.pos, value)
	}
}

func (b *builder) literalValue(it *item) (core.Value, bool) {
	switch v := it.value.(type) {
	case nil:
		return core.Nil, true
	case bool:
		return core.Bool(v), true
	case int64:
		return core.Int(v), true
	case float64:
		return core.Float(v), true
	case string:
		return core.Str(v), true
	default:
		b.fail(it.pos, "%s is not a literal value", describeItem(it))
		return nil, false
	}
}

func (b *builder) kindOf(it *item, m *mapping) (string, bool) {
	var kinds []string
	for _, key := range m.keys {
		if _, ok := kindKeys[key]; ok {
			kinds = append(kinds, key)
		}
	}

	switch len(kinds) {
	case 0:
		b.fail(it.pos, "node has no kind, a node should have one of the following keys: %s", strings.Join(NODE_KINDS, ", "))
		return "", false
	case 1:
	default:
		b.fail(it.pos, "node has several kinds: %s", strings.Join(kinds, ", "))
		return "", false
	}

	kind := kinds[0]
	allowed := kindKeys[kind]
	ok := true

	for _, key := range m.keys {
		if key != kind && !slices.Contains(allowed, key) {
			b.fail(m.keyPos[key], "unexpected key %q in %q node", key, kind)
			ok = false
		}
	}
	return kind, ok
}

func (b *builder) kindNode(it *item, m *mapping) core.Node {
	kind, ok := b.kindOf(it, m)
	if !ok {
		return nil
	}
	pos := it.pos
	kindValue, _ := m.get(kind)

	switch kind {
	case LITERAL_KIND:
		if kindValue == nil {
			return core.NewLiteral(pos, core.Nil)
		}
		value, ok := b.literalValue(kindValue)
		if !ok {
			return nil
		}
		return core.NewLiteral(pos, value)
	case NAME_KIND:
		return nodeOrNil(b.name(kindValue, pos, core.UseRead))
	case SET_KIND:
		target := b.name(kindValue, pos, core.UseWrite)
		value := b.requiredExpr(m, VALUE_KEY, pos)
		return core.NewAssignment(pos, nodeOrNil(target), value)
	case UPDATE_KIND:
		target := b.name(kindValue, pos, core.UseReadWrite)
		op, _ := b.operator(m, OPERATOR_KEY, pos)
		value := b.requiredExpr(m, VALUE_KEY, pos)
		return core.NewCompoundAssign(pos, op, nodeOrNil(target), value)
	case BINARY_OP_KIND:
		op, _ := b.operator(m, BINARY_OP_KIND, pos)
		left := b.requiredExpr(m, LEFT_KEY, pos)
		right := b.requiredExpr(m, RIGHT_KEY, pos)
		return core.NewBinaryOp(pos, op, left, right)
	case CALL_KIND:
		target := b.callTarget(kindValue, pos)
		args := b.list(m, ARGS_KEY, pos)
		return core.NewCall(pos, target, args...)
	case FUNCTION_KIND:
		params := b.params(kindValue, pos)
		body := b.body(m, pos)
		return core.NewFunctionLiteral(pos, params, body)
	case FUNCTION_DEF_KIND:
		name := b.name(kindValue, pos, core.UseWrite)
		paramsItem, _ := m.get(PARAMS_KEY)
		params := b.params(paramsItem, pos)
		body := b.body(m, pos)
		return core.NewFunctionDef(pos, name, core.NewFunctionLiteral(pos, params, body))
	case SEQUENCE_KIND:
		return b.sequence(kindValue, pos)
	default:
		panic(fmt.Errorf("unhandled node kind %q", kind))
	}
}

func (b *builder) name(it *item, pos sourcecode.PositionRange, use core.Use) *core.Name {
	if it == nil {
		b.fail(pos, "missing name")
		return nil
	}
	name, ok := it.value.(string)
	if !ok || name == "" {
		b.fail(it.pos, "a name should be a non-empty string, not %s", describeItem(it))
		return nil
	}
	return core.NewName(it.pos, name, use)
}

// callTarget builds the target of a call: a string is the name of the callee.
func (b *builder) callTarget(it *item, pos sourcecode.PositionRange) core.Node {
	if it != nil {
		if _, ok := it.value.(string); ok {
			return nodeOrNil(b.name(it, pos, core.UseCallTarget))
		}
		if m, ok := it.value.(*mapping); ok {
			if nameItem, ok := m.get(NAME_KIND); ok && len(m.keys) == 1 {
				return nodeOrNil(b.name(nameItem, it.pos, core.UseCallTarget))
			}
		}
	}
	return b.expr(it, pos)
}

func (b *builder) operator(m *mapping, key string, pos sourcecode.PositionRange) (core.Operator, bool) {
	it, ok := m.get(key)
	if !ok || it == nil {
		b.fail(pos, "missing operator (%q)", key)
		return 0, false
	}
	symbol, ok := it.value.(string)
	if !ok {
		b.fail(it.pos, "an operator should be a string, not %s", describeItem(it))
		return 0, false
	}
	op, ok := core.ParseOperator(symbol)
	if !ok {
		b.fail(it.pos, "unknown operator %q", symbol)
		return 0, false
	}
	return op, true
}

func (b *builder) requiredExpr(m *mapping, key string, pos sourcecode.PositionRange) core.Node {
	it, ok := m.get(key)
	if !ok {
		b.fail(pos, "missing %q", key)
		return nil
	}
	return b.expr(it, pos)
}

func (b *builder) list(m *mapping, key string, pos sourcecode.PositionRange) []core.Node {
	it, ok := m.get(key)
	if !ok || it == nil || it.value == nil {
		return nil
	}
	elements, ok := it.value.([]*item)
	if !ok {
		b.fail(it.pos, "%q should be a list, not %s", key, describeItem(it))
		return nil
	}

	nodes := make([]core.Node, 0, len(elements))
	for _, elem := range elements {
		nodes = append(nodes, b.expr(elem, it.pos))
	}
	return nodes
}

func (b *builder) sequence(it *item, pos sourcecode.PositionRange) *core.Sequence {
	if it == nil || it.value == nil {
		return core.NewSequence(pos)
	}
	elements, ok := it.value.([]*item)
	if !ok {
		//single statement
		return core.NewSequence(it.pos, b.expr(it, pos))
	}

	statements := make([]core.Node, 0, len(elements))
	for _, elem := range elements {
		statements = append(statements, b.expr(elem, it.pos))
	}
	return core.NewSequence(it.pos, statements...)
}

func (b *builder) body(m *mapping, pos sourcecode.PositionRange) core.Node {
	it, ok := m.get(BODY_KEY)
	if !ok {
		b.fail(pos, "missing %q", BODY_KEY)
		return nil
	}
	return b.sequence(it, pos)
}

// params builds a parameter list, a parameter is a name or a mapping with a name and a default value.
func (b *builder) params(it *item, pos sourcecode.PositionRange) *core.ParamList {
	if it == nil || it.value == nil {
		return nil
	}
	elements, ok := it.value.([]*item)
	if !ok {
		b.fail(it.pos, "parameters should be a list, not %s", describeItem(it))
		return nil
	}
	if len(elements) == 0 {
		return nil
	}

	params := make([]*core.Param, 0, len(elements))
	names := map[string]bool{}

	for _, elem := range elements {
		param := b.param(elem, it.pos)
		if param == nil {
			continue
		}
		if names[param.Name()] {
			b.fail(param.Base().Position, "duplicate parameter %q", param.Name())
			continue
		}
		names[param.Name()] = true
		params = append(params, param)
	}
	return core.NewParamList(it.pos, params...)
}

func (b *builder) param(it *item, pos sourcecode.PositionRange) *core.Param {
	if it == nil {
		b.fail(pos, "missing parameter")
		return nil
	}

	switch v := it.value.(type) {
	case string:
		if v == "" {
			b.fail(it.pos, "empty parameter name")
			return nil
		}
		return core.NewParam(it.pos, v, nil)
	case *mapping:
		nameItem, ok := v.get(PARAM_NAME_KEY)
		if !ok || nameItem == nil {
			b.fail(it.pos, "parameter has no %q", PARAM_NAME_KEY)
			return nil
		}
		name, ok := nameItem.value.(string)
		if !ok || name == "" {
			b.fail(nameItem.pos, "a parameter name should be a non-empty string, not %s", describeItem(nameItem))
			return nil
		}

		for _, key := range v.keys {
			if key != PARAM_NAME_KEY && key != DEFAULT_PARAM_KEY {
				b.fail(v.keyPos[key], "unexpected key %q in parameter", key)
			}
		}

		var defaultValue core.Node
		if defaultItem, ok := v.get(DEFAULT_PARAM_KEY); ok {
			defaultValue = b.expr(defaultItem, it.pos)
		}
		return core.NewParam(it.pos, name, defaultValue)
	default:
		b.fail(it.pos, "a parameter should be a name or a mapping, not %s", describeItem(it))
		return nil
	}
}

// nodeOrNil avoids storing a typed nil pointer in a core.Node.
func nodeOrNil(name *core.Name) core.Node {
	if name == nil {
		return nil
	}
	return name
}
