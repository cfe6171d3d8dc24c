package treebuild

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/inoxlang/treewalk/internal/core"
	"github.com/inoxlang/treewalk/internal/sourcecode"
	"github.com/inoxlang/treewalk/internal/utils"
)

const (
	VERSION_CONSTRAINT = "~1"

	VERSION_KEY  = "version"
	NAME_KEY     = "name"
	LANGUAGE_KEY = "language"

	TAIL_CALLS_OPTION        = "tail-calls"
	CASE_SENSITIVE_OPTION    = "case-sensitive"
	STRICT_ASSIGNMENT_OPTION = "strict-assignment"

	MAX_DESCRIPTION_SIZE = 10_000_000
)

var (
	ErrUnknownDescriptionFormat = errors.New("unknown description format, supported extensions are .yaml, .yml and .json")
	ErrDescriptionTooLarge      = errors.New("description is too large")

	versionConstraint = utils.Must(semver.NewConstraint(VERSION_CONSTRAINT))

	DEFAULT_LANGUAGE = core.LanguageOptions{
		TailCalls: true,
	}
)

// A DescriptionError is returned when a tree description is invalid, it contains all the errors found.
type DescriptionError struct {
	SourceName string
	Errors     []sourcecode.BuildError
}

func (err *DescriptionError) Error() string {
	errs := make([]error, len(err.Errors))
	for i, e := range err.Errors {
		errs[i] = e
	}
	return utils.CombineErrors(errs...).Error()
}

// FromYAML builds a module from a YAML tree description.
func FromYAML(sourceName string, data []byte) (*core.Module, error) {
	root, errs := parseYAML(sourceName, data)
	return buildModule(sourceName, root, errs)
}

// FromJSON builds a module from a JSON tree description, the nodes of the module have no known position.
func FromJSON(sourceName string, data []byte) (*core.Module, error) {
	root, errs := parseJSON(sourceName, data)
	return buildModule(sourceName, root, errs)
}

// FromFile reads a tree description, the format is determined by the extension of the file.
func FromFile(path string) (*core.Module, error) {
	data, err := readDescription(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FromYAML(path, data)
	case ".json":
		return FromJSON(path, data)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownDescriptionFormat)
	}
}

func readDescription(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MAX_DESCRIPTION_SIZE {
		return nil, fmt.Errorf("%s: %w", path, ErrDescriptionTooLarge)
	}
	return os.ReadFile(path)
}

func buildModule(sourceName string, root *item, parseErrors []sourcecode.BuildError) (*core.Module, error) {
	b := &builder{sourceName: sourceName, errors: parseErrors}

	if root == nil {
		if len(b.errors) == 0 {
			b.fail(sourcecode.PositionRange{SourceName: sourceName}, "%s", ErrEmptyDescription)
		}
		return nil, &DescriptionError{SourceName: sourceName, Errors: b.errors}
	}

	top, ok := root.value.(*mapping)
	if !ok {
		b.fail(root.pos, "a description should be a mapping, not %s", describeItem(root))
		return nil, &DescriptionError{SourceName: sourceName, Errors: b.errors}
	}

	for _, key := range top.keys {
		switch key {
		case VERSION_KEY, NAME_KEY, LANGUAGE_KEY, BODY_KEY:
		default:
			b.fail(top.keyPos[key], "unexpected key %q in description", key)
		}
	}

	b.checkVersion(top, root.pos)
	lang := b.language(top)

	moduleName := sourceName
	if nameItem, ok := top.get(NAME_KEY); ok && nameItem != nil {
		if name, ok := nameItem.value.(string); ok {
			moduleName = name
		} else {
			b.fail(nameItem.pos, "the module name should be a string, not %s", describeItem(nameItem))
		}
	}

	body := b.body(top, root.pos)

	if len(b.errors) != 0 {
		return nil, &DescriptionError{SourceName: sourceName, Errors: b.errors}
	}
	return core.NewModule(root.pos, moduleName, lang, body), nil
}

func (b *builder) checkVersion(top *mapping, pos sourcecode.PositionRange) {
	it, ok := top.get(VERSION_KEY)
	if !ok || it == nil {
		b.fail(pos, "missing %q", VERSION_KEY)
		return
	}

	var s string
	switch v := it.value.(type) {
	case string:
		s = v
	case int64:
		s = strconv.FormatInt(v, 10)
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		b.fail(it.pos, "the version should be a string, not %s", describeItem(it))
		return
	}

	version, err := semver.NewVersion(s)
	if err != nil {
		b.fail(it.pos, "invalid version %q: %s", s, err.Error())
		return
	}
	if !versionConstraint.Check(version) {
		b.fail(it.pos, "unsupported version %s, the version should satisfy %s", version, VERSION_CONSTRAINT)
	}
}

func (b *builder) language(top *mapping) core.LanguageOptions {
	lang := DEFAULT_LANGUAGE

	it, ok := top.get(LANGUAGE_KEY)
	if !ok || it == nil || it.value == nil {
		return lang
	}
	options, ok := it.value.(*mapping)
	if !ok {
		b.fail(it.pos, "%q should be a mapping, not %s", LANGUAGE_KEY, describeItem(it))
		return lang
	}

	for _, key := range options.keys {
		optionItem, _ := options.get(key)
		if optionItem == nil {
			continue
		}
		enabled, ok := optionItem.value.(bool)
		if !ok {
			b.fail(optionItem.pos, "option %q should be a boolean, not %s", key, describeItem(optionItem))
			continue
		}

		switch key {
		case TAIL_CALLS_OPTION:
			lang.TailCalls = enabled
		case CASE_SENSITIVE_OPTION:
			lang.CaseInsensitive = !enabled
		case STRICT_ASSIGNMENT_OPTION:
			lang.StrictAssignment = enabled
		default:
			b.fail(options.keyPos[key], "unknown language option %q", key)
		}
	}
	return lang
}

// GlobalsFromYAML reads host variables from a YAML mapping of names to scalar values.
func GlobalsFromYAML(sourceName string, data []byte) (map[string]core.Value, error) {
	root, errs := parseYAML(sourceName, data)
	b := &builder{sourceName: sourceName, errors: errs}

	if root == nil {
		return nil, &DescriptionError{SourceName: sourceName, Errors: b.errors}
	}

	m, ok := root.value.(*mapping)
	if !ok {
		b.fail(root.pos, "globals should be a mapping, not %s", describeItem(root))
		return nil, &DescriptionError{SourceName: sourceName, Errors: b.errors}
	}

	globals := make(map[string]core.Value, len(m.keys))
	for _, key := range m.keys {
		it, _ := m.get(key)
		if it == nil {
			continue
		}
		value, ok := b.literalValue(it)
		if ok {
			globals[key] = value
		}
	}

	if len(b.errors) != 0 {
		return nil, &DescriptionError{SourceName: sourceName, Errors: b.errors}
	}
	return globals, nil
}
