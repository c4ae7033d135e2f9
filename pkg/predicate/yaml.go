package predicate

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/authzed/normalizer/pkg/normerrors"
)

var comparators = map[string]Comparator{
	"eq": EQ,
	"lt": LT,
	"gt": GT,
	"le": LE,
	"ge": GE,
}

// DecodeYAML decodes a predicate document. Each predicate is either a boolean
// scalar or a mapping with exactly one of the keys
// and, or, not, atom, eq, lt, gt, le, ge, in:
//
//	and:
//	  - eq: {field: status, value: open}
//	  - not:
//	      gt: {field: priority, value: 3}
//	  - in: {field: kind, values: [bug, task]}
//	  - atom: archived
//
// Errors carry the position of the offending node as a
// normerrors.WithSourceError.
func DecodeYAML(source []byte) (Predicate, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return nil, fmt.Errorf("error parsing predicate document: %w", err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, errors.New("predicate document is empty")
	}

	d := decoder{source: string(source)}
	return d.decode(doc.Content[0])
}

type decoder struct {
	source string
}

func (d decoder) errorf(node *yaml.Node, format string, args ...any) error {
	return normerrors.NewWithSourceError(
		fmt.Errorf(format, args...),
		d.source,
		uint64(max(node.Line, 0)),
		uint64(max(node.Column, 0)),
	)
}

func (d decoder) decode(node *yaml.Node) (Predicate, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return d.decode(node.Alias)

	case yaml.ScalarNode:
		var b bool
		if node.Tag != "!!bool" || node.Decode(&b) != nil {
			return nil, d.errorf(node, "expected a boolean constant, found `%s`", node.Value)
		}
		return Constant(b), nil

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return nil, d.errorf(node, "expected a mapping with a single key, found %d keys", len(node.Content)/2)
		}
		return d.decodeKeyed(node.Content[0], node.Content[1])

	default:
		return nil, d.errorf(node, "expected a predicate mapping or boolean")
	}
}

func (d decoder) decodeKeyed(key *yaml.Node, value *yaml.Node) (Predicate, error) {
	switch key.Value {
	case "and", "or":
		if value.Kind != yaml.SequenceNode {
			return nil, d.errorf(value, "`%s` expects a list of predicates", key.Value)
		}

		children := make([]Predicate, 0, len(value.Content))
		for _, child := range value.Content {
			decoded, err := d.decode(child)
			if err != nil {
				return nil, err
			}
			children = append(children, decoded)
		}

		if key.Value == "and" {
			return And(children...), nil
		}
		return Or(children...), nil

	case "not":
		child, err := d.decode(value)
		if err != nil {
			return nil, err
		}
		return Negate(child), nil

	case "atom":
		if value.Kind != yaml.ScalarNode || value.Value == "" {
			return nil, d.errorf(value, "`atom` expects a non-empty name")
		}
		return NewAtom(value.Value), nil

	case "in":
		var in struct {
			Field  string   `yaml:"field"`
			Values []string `yaml:"values"`
		}
		if err := value.Decode(&in); err != nil {
			return nil, d.errorf(value, "invalid `in` predicate: %w", err)
		}
		if in.Field == "" {
			return nil, d.errorf(value, "`in` requires a field")
		}

		values := make([]Value, 0, len(in.Values))
		for _, v := range in.Values {
			values = append(values, Value(v))
		}
		return NewIn(Field(in.Field), values...), nil

	default:
		comparator, ok := comparators[key.Value]
		if !ok {
			return nil, d.errorf(key, "unknown predicate `%s`", key.Value)
		}

		var cmp struct {
			Field string `yaml:"field"`
			Value string `yaml:"value"`
		}
		if err := value.Decode(&cmp); err != nil {
			return nil, d.errorf(value, "invalid `%s` predicate: %w", key.Value, err)
		}
		if cmp.Field == "" {
			return nil, d.errorf(value, "`%s` requires a field", key.Value)
		}
		return Compare(Field(cmp.Field), comparator, Value(cmp.Value)), nil
	}
}
