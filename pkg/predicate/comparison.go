package predicate

import (
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Field is the identity of an attribute of an item, as known to the
// underlying store.
type Field string

// Value is a constant an attribute is compared against.
type Value string

func (v Value) String() string {
	if _, err := decimal.NewFromString(string(v)); err == nil {
		return string(v)
	}
	return strconv.Quote(string(v))
}

// CompareValues orders two values. Values that both parse as decimals are
// compared numerically, so that "10" sorts after "9"; numeric values sort
// before non-numeric ones, and non-numeric values compare lexically.
func CompareValues(a, b Value) int {
	da, aerr := decimal.NewFromString(string(a))
	db, berr := decimal.NewFromString(string(b))
	switch {
	case aerr == nil && berr == nil:
		if c := da.Cmp(db); c != 0 {
			return c
		}
		return strings.Compare(string(a), string(b))
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	default:
		return strings.Compare(string(a), string(b))
	}
}

// Comparator is the operator of a field comparison.
type Comparator uint8

const (
	EQ Comparator = iota
	LT
	GT
	LE
	GE
)

func (c Comparator) String() string {
	switch c {
	case EQ:
		return "="
	case LT:
		return "<"
	case GT:
		return ">"
	case LE:
		return "<="
	case GE:
		return ">="
	default:
		return "?"
	}
}

func (c Comparator) keyName() string {
	switch c {
	case EQ:
		return "eq"
	case LT:
		return "lt"
	case GT:
		return "gt"
	case LE:
		return "le"
	case GE:
		return "ge"
	default:
		return "unknown"
	}
}

// Field names and values are quoted so that no two distinct predicates share
// a key, whatever characters they contain.
func comparisonKey(f Field, c Comparator, v Value) string {
	return c.keyName() + "(" + strconv.Quote(string(f)) + "," + strconv.Quote(string(v)) + ")"
}

func comparisonString(f Field, c Comparator, v Value) string {
	return string(f) + " " + c.String() + " " + v.String()
}

// Equals tests "field = value".
type Equals struct {
	Field Field
	Value Value
}

func (p Equals) Key() string    { return comparisonKey(p.Field, EQ, p.Value) }
func (p Equals) String() string { return comparisonString(p.Field, EQ, p.Value) }

// Less tests "field < value".
type Less struct {
	Field Field
	Value Value
}

func (p Less) Key() string    { return comparisonKey(p.Field, LT, p.Value) }
func (p Less) String() string { return comparisonString(p.Field, LT, p.Value) }

// Greater tests "field > value".
type Greater struct {
	Field Field
	Value Value
}

func (p Greater) Key() string    { return comparisonKey(p.Field, GT, p.Value) }
func (p Greater) String() string { return comparisonString(p.Field, GT, p.Value) }

// LessOrEqual tests "field <= value".
type LessOrEqual struct {
	Field Field
	Value Value
}

func (p LessOrEqual) Key() string    { return comparisonKey(p.Field, LE, p.Value) }
func (p LessOrEqual) String() string { return comparisonString(p.Field, LE, p.Value) }

// GreaterOrEqual tests "field >= value".
type GreaterOrEqual struct {
	Field Field
	Value Value
}

func (p GreaterOrEqual) Key() string    { return comparisonKey(p.Field, GE, p.Value) }
func (p GreaterOrEqual) String() string { return comparisonString(p.Field, GE, p.Value) }

// Compare builds the comparison predicate for the given operator.
func Compare(f Field, c Comparator, v Value) Predicate {
	switch c {
	case EQ:
		return Equals{f, v}
	case LT:
		return Less{f, v}
	case GT:
		return Greater{f, v}
	case LE:
		return LessOrEqual{f, v}
	case GE:
		return GreaterOrEqual{f, v}
	default:
		return nil
	}
}

// In tests "field ∈ {values}". Values is kept sorted by CompareValues and free
// of duplicates; use NewIn to construct one.
type In struct {
	Field  Field
	Values []Value
}

// NewIn returns a membership predicate over the given values.
func NewIn(f Field, values ...Value) In {
	return In{Field: f, Values: normalizeValues(values)}
}

func normalizeValues(values []Value) []Value {
	sorted := slices.Clone(values)
	slices.SortFunc(sorted, CompareValues)
	return slices.Compact(sorted)
}

// Union returns the membership predicate holding the values of both sets.
// Both predicates must test the same field.
func (p In) Union(other In) In {
	return NewIn(p.Field, append(slices.Clone(p.Values), other.Values...)...)
}

// Intersect returns the membership predicate holding the values present in
// both sets. Both predicates must test the same field.
func (p In) Intersect(other In) In {
	values := make([]Value, 0, min(len(p.Values), len(other.Values)))
	for _, v := range p.Values {
		if slices.Contains(other.Values, v) {
			values = append(values, v)
		}
	}
	return NewIn(p.Field, values...)
}

// Contains returns true if the value is in the set.
func (p In) Contains(v Value) bool {
	_, found := slices.BinarySearchFunc(p.Values, v, CompareValues)
	return found
}

func (p In) Key() string {
	var sb strings.Builder
	sb.WriteString("in(")
	sb.WriteString(strconv.Quote(string(p.Field)))
	for _, v := range p.Values {
		sb.WriteByte(',')
		sb.WriteString(strconv.Quote(string(v)))
	}
	sb.WriteByte(')')
	return sb.String()
}

func (p In) String() string {
	parts := make([]string, 0, len(p.Values))
	for _, v := range p.Values {
		parts = append(parts, v.String())
	}
	return string(p.Field) + " IN {" + strings.Join(parts, ", ") + "}"
}
