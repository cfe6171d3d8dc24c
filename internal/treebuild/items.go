package treebuild

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/goccy/go-json"
	yaml "github.com/goccy/go-yaml/ast"
	yamlLex "github.com/goccy/go-yaml/lexer"
	yamlParse "github.com/goccy/go-yaml/parser"
	"github.com/inoxlang/treewalk/internal/sourcecode"
)

var (
	ErrUnsupportedYamlNodeType = errors.New("unsupported YAML node type")
	ErrEmptyDescription        = errors.New("empty description")
	ErrSeveralDocuments        = errors.New("a description should contain a single YAML document")
)

// An item is a value of a parsed description: nil, bool, int64, float64, string,
// []*item or *mapping.
type item struct {
	value any
	pos   sourcecode.PositionRange
}

type mapping struct {
	keys    []string
	entries map[string]*item
	keyPos  map[string]sourcecode.PositionRange
}

func newMapping() *mapping {
	return &mapping{
		entries: map[string]*item{},
		keyPos:  map[string]sourcecode.PositionRange{},
	}
}

func (m *mapping) add(key string, keyPos sourcecode.PositionRange, value *item) error {
	if _, ok := m.entries[key]; ok {
		return fmt.Errorf("duplicate key %q", key)
	}
	m.keys = append(m.keys, key)
	m.entries[key] = value
	m.keyPos[key] = keyPos
	return nil
}

func (m *mapping) get(key string) (*item, bool) {
	it, ok := m.entries[key]
	return it, ok
}

func describeItem(it *item) string {
	if it == nil {
		return "nothing"
	}
	switch it.value.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case int64:
		return "an integer"
	case float64:
		return "a float"
	case string:
		return "a string"
	case []*item:
		return "a list"
	case *mapping:
		return "a mapping"
	default:
		return fmt.Sprintf("%T", it.value)
	}
}

// parseYAML parses a YAML description, the items are located using the positions of the YAML tokens.
func parseYAML(sourceName string, data []byte) (*item, []sourcecode.BuildError) {
	tokens := yamlLex.Tokenize(string(data))
	file, err := yamlParse.Parse(tokens, 0)
	if err != nil {
		return nil, []sourcecode.BuildError{{
			Message:  "invalid YAML: " + err.Error(),
			Location: sourcecode.PositionRange{SourceName: sourceName},
		}}
	}

	var docs []*yaml.DocumentNode
	for _, doc := range file.Docs {
		if doc != nil && doc.Body != nil {
			docs = append(docs, doc)
		}
	}

	switch len(docs) {
	case 0:
		return nil, []sourcecode.BuildError{{Message: ErrEmptyDescription.Error(), Location: sourcecode.PositionRange{SourceName: sourceName}}}
	case 1:
	default:
		return nil, []sourcecode.BuildError{{Message: ErrSeveralDocuments.Error(), Location: yamlPosition(sourceName, docs[1].Body)}}
	}

	converter := &yamlConverter{sourceName: sourceName}
	root := converter.convert(docs[0].Body)
	return root, converter.errors
}

type yamlConverter struct {
	sourceName string
	errors     []sourcecode.BuildError
}

func (c *yamlConverter) fail(n yaml.Node, format string, args ...any) {
	c.errors = append(c.errors, sourcecode.BuildError{
		Message:  fmt.Sprintf(format, args...),
		Location: yamlPosition(c.sourceName, n),
	})
}

func (c *yamlConverter) convert(n yaml.Node) *item {
	pos := yamlPosition(c.sourceName, n)

	switch node := n.(type) {
	case *yaml.NullNode:
		return &item{value: nil, pos: pos}
	case *yaml.BoolNode:
		return &item{value: node.Value, pos: pos}
	case *yaml.IntegerNode:
		switch integer := node.Value.(type) {
		case uint64:
			if integer > math.MaxInt64 {
				c.fail(n, "integer value is a large uint64, it is not supported")
				return nil
			}
			return &item{value: int64(integer), pos: pos}
		case int64:
			return &item{value: integer, pos: pos}
		default:
			c.fail(n, "unexpected integer representation %T", node.Value)
			return nil
		}
	case *yaml.FloatNode:
		return &item{value: node.Value, pos: pos}
	case *yaml.InfinityNode:
		return &item{value: node.Value, pos: pos}
	case *yaml.NanNode:
		return &item{value: math.NaN(), pos: pos}
	case *yaml.StringNode:
		return &item{value: node.Value, pos: pos}
	case *yaml.LiteralNode:
		return &item{value: node.Value.Value, pos: pos}
	case *yaml.SequenceNode:
		values := make([]*item, 0, len(node.Values))
		for _, elem := range node.Values {
			values = append(values, c.convert(elem))
		}
		return &item{value: values, pos: pos}
	case *yaml.MappingNode:
		m := newMapping()
		for _, entry := range node.Values {
			c.addEntry(m, entry)
		}
		if len(node.Values) > 0 {
			pos = yamlPosition(c.sourceName, node.Values[0].Key)
		}
		return &item{value: m, pos: pos}
	case *yaml.MappingValueNode:
		m := newMapping()
		c.addEntry(m, node)
		return &item{value: m, pos: yamlPosition(c.sourceName, node.Key)}
	default:
		c.fail(n, "%s: %T", ErrUnsupportedYamlNodeType, n)
		return nil
	}
}

func (c *yamlConverter) addEntry(m *mapping, entry *yaml.MappingValueNode) {
	var key string
	switch k := entry.Key.(type) {
	case *yaml.StringNode:
		key = k.Value
	default:
		key = entry.Key.String()
	}

	if err := m.add(key, yamlPosition(c.sourceName, entry.Key), c.convert(entry.Value)); err != nil {
		c.fail(entry.Key, "%s", err.Error())
	}
}

func yamlPosition(sourceName string, n yaml.Node) sourcecode.PositionRange {
	pos := sourcecode.PositionRange{SourceName: sourceName}
	if n == nil {
		return pos
	}
	tok := n.GetToken()
	if tok == nil || tok.Position == nil {
		return pos
	}

	pos.StartLine = int32(tok.Position.Line)
	pos.StartColumn = int32(tok.Position.Column)
	pos.Span = sourcecode.NodeSpan{
		Start: int32(tok.Position.Offset),
		End:   int32(tok.Position.Offset + len(tok.Value)),
	}
	return pos
}

// parseJSON parses a JSON description, JSON values have no known position.
func parseJSON(sourceName string, data []byte) (*item, []sourcecode.BuildError) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, []sourcecode.BuildError{{
			Message:  "invalid JSON: " + err.Error(),
			Location: sourcecode.PositionRange{SourceName: sourceName},
		}}
	}

	converter := &jsonConverter{pos: sourcecode.PositionRange{SourceName: sourceName}}
	root := converter.convert(value)
	return root, converter.errors
}

type jsonConverter struct {
	pos    sourcecode.PositionRange
	errors []sourcecode.BuildError
}

func (c *jsonConverter) convert(v any) *item {
	switch val := v.(type) {
	case nil, bool, string:
		return &item{value: val, pos: c.pos}
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return &item{value: i, pos: c.pos}
		}
		f, err := val.Float64()
		if err != nil {
			c.errors = append(c.errors, sourcecode.BuildError{Message: "invalid number " + val.String(), Location: c.pos})
			return nil
		}
		return &item{value: f, pos: c.pos}
	case []any:
		values := make([]*item, 0, len(val))
		for _, elem := range val {
			values = append(values, c.convert(elem))
		}
		return &item{value: values, pos: c.pos}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for key := range val {
			keys = append(keys, key)
		}
		slices.Sort(keys)

		m := newMapping()
		for _, key := range keys {
			m.add(key, c.pos, c.convert(val[key]))
		}
		return &item{value: m, pos: c.pos}
	default:
		c.errors = append(c.errors, sourcecode.BuildError{Message: fmt.Sprintf("unexpected JSON value of type %T", v), Location: c.pos})
		return nil
	}
}
