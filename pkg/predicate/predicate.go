package predicate

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Predicate is a boolean test over an item. Predicates are values: two predicates
// are equal if and only if their keys are equal.
type Predicate interface {
	// Key returns the canonical identity of the predicate.
	Key() string

	// String returns a human readable, infix form of the predicate.
	String() string
}

// Hash returns the hash of the predicate's key.
func Hash(p Predicate) uint64 {
	return xxhash.Sum64String(p.Key())
}

// Equal returns true if both predicates have the same identity.
func Equal(a, b Predicate) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Key() == b.Key()
}

// Op is the operation of a composite predicate.
type Op uint8

const (
	// OpUnknown is the zero value and never a valid operation.
	OpUnknown Op = iota
	OpAnd
	OpOr
)

func (op Op) String() string {
	switch op {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	default:
		return "UNKNOWN"
	}
}

// Composite combines child predicates with an operation.
type Composite struct {
	Op       Op
	Children []Predicate
}

// And returns the conjunction of the given predicates.
func And(children ...Predicate) Composite {
	return Composite{Op: OpAnd, Children: children}
}

// Or returns the disjunction of the given predicates.
func Or(children ...Predicate) Composite {
	return Composite{Op: OpOr, Children: children}
}

func (c Composite) Key() string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(c.Op.String()))
	sb.WriteByte('(')
	for i, child := range c.Children {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(child.Key())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (c Composite) String() string {
	if len(c.Children) == 0 {
		return c.Op.String() + "()"
	}

	parts := make([]string, 0, len(c.Children))
	for _, child := range c.Children {
		parts = append(parts, child.String())
	}
	return "(" + strings.Join(parts, " "+c.Op.String()+" ") + ")"
}

// Not negates its child.
type Not struct {
	Child Predicate
}

// Negate wraps the predicate in a Not.
func Negate(p Predicate) Not {
	return Not{Child: p}
}

func (n Not) Key() string    { return "not(" + n.Child.Key() + ")" }
func (n Not) String() string { return "NOT " + n.Child.String() }

// Constant is a predicate that is always true or always false.
type Constant bool

const (
	True  Constant = true
	False Constant = false
)

func (c Constant) Key() string {
	if c {
		return "true"
	}
	return "false"
}

func (c Constant) String() string {
	if c {
		return "TRUE"
	}
	return "FALSE"
}

// Atom is an opaque, named boolean test.
type Atom struct {
	Name string
}

// NewAtom returns an atom with the given name.
func NewAtom(name string) Atom {
	return Atom{Name: name}
}

func (a Atom) Key() string    { return "atom(" + strconv.Quote(a.Name) + ")" }
func (a Atom) String() string { return a.Name }
