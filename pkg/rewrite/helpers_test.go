package rewrite

import (
	"fmt"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/authzed/normalizer/pkg/predicate"
)

func atom(name string) *Leaf { return NewLeaf(predicate.NewAtom(name)) }

func eq(field string, value string) *Leaf {
	return NewLeaf(predicate.Equals{Field: predicate.Field(field), Value: predicate.Value(value)})
}

func in(field string, values ...string) *Leaf {
	converted := make([]predicate.Value, 0, len(values))
	for _, v := range values {
		converted = append(converted, predicate.Value(v))
	}
	return NewLeaf(predicate.NewIn(predicate.Field(field), converted...))
}

func and(children ...Element) *Node { return NewNode(And, children...) }

func or(children ...Element) *Node { return NewNode(Or, children...) }

func not[T Element](e T) T {
	e.ToggleNegated()
	return e
}

// item is an assignment of values to fields and truth values to atoms.
type item struct {
	fields map[predicate.Field]predicate.Value
	atoms  map[string]bool
}

func evaluate(p predicate.Predicate, it item) bool {
	switch typed := p.(type) {
	case predicate.Constant:
		return bool(typed)
	case predicate.Atom:
		return it.atoms[typed.Name]
	case predicate.Not:
		return !evaluate(typed.Child, it)
	case *predicate.Not:
		return !evaluate(typed.Child, it)
	case predicate.Composite:
		if len(typed.Children) == 0 {
			return true
		}
		result := typed.Op == predicate.OpAnd
		for _, child := range typed.Children {
			if typed.Op == predicate.OpAnd {
				result = result && evaluate(child, it)
			} else {
				result = result || evaluate(child, it)
			}
		}
		return result
	case predicate.Equals:
		return predicate.CompareValues(it.fields[typed.Field], typed.Value) == 0
	case predicate.Less:
		return predicate.CompareValues(it.fields[typed.Field], typed.Value) < 0
	case predicate.Greater:
		return predicate.CompareValues(it.fields[typed.Field], typed.Value) > 0
	case predicate.LessOrEqual:
		return predicate.CompareValues(it.fields[typed.Field], typed.Value) <= 0
	case predicate.GreaterOrEqual:
		return predicate.CompareValues(it.fields[typed.Field], typed.Value) >= 0
	case predicate.In:
		return typed.Contains(it.fields[typed.Field])
	default:
		panic(fmt.Sprintf("cannot evaluate %T", p))
	}
}

var (
	testAtoms  = []string{"a", "b", "c", "d"}
	testFields = []predicate.Field{"x", "y"}
	testValues = []predicate.Value{"0", "1", "2", "3"}
)

// allItems enumerates every assignment over the test atoms a and b and the
// test fields, with field values covering both sides of every test value.
func allItems() []item {
	domain := append([]predicate.Value{"-1"}, testValues...)
	domain = append(domain, "4")

	var items []item
	for _, x := range domain {
		for _, y := range domain {
			for mask := 0; mask < 4; mask++ {
				items = append(items, item{
					fields: map[predicate.Field]predicate.Value{"x": x, "y": y},
					atoms:  map[string]bool{"a": mask&1 != 0, "b": mask&2 != 0},
				})
			}
		}
	}
	return items
}

// requireSameTruthTable checks that both predicates agree on every item.
func requireSameTruthTable(t require.TestingT, expected, actual predicate.Predicate) {
	for _, it := range allItems() {
		require.Equal(t, evaluate(expected, it), evaluate(actual, it), "%s and %s differ on %v", expected, actual, it)
	}
}

func requireEquivalent(t require.TestingT, expected, actual Element) {
	equivalent, err := Equivalent(expected, actual)
	require.NoError(t, err)
	require.True(t, equivalent, "%s is not equivalent to %s", expected, actual)
}

// drawAtomPredicate draws a predicate tree over the test atoms.
func drawAtomPredicate(t *rapid.T, depth int, label string) predicate.Predicate {
	return drawPredicate(t, depth, label, func(t *rapid.T, label string) predicate.Predicate {
		return predicate.NewAtom(rapid.SampledFrom(testAtoms).Draw(t, label+"::atom"))
	})
}

// drawFieldPredicate draws a predicate tree mixing atoms a and b with field
// comparisons and membership tests.
func drawFieldPredicate(t *rapid.T, depth int, label string) predicate.Predicate {
	return drawPredicate(t, depth, label, func(t *rapid.T, label string) predicate.Predicate {
		field := rapid.SampledFrom(testFields).Draw(t, label+"::field")
		value := rapid.SampledFrom(testValues).Draw(t, label+"::value")
		switch rapid.IntRange(0, 6).Draw(t, label+"::kind") {
		case 0:
			return predicate.NewAtom(rapid.SampledFrom(testAtoms[:2]).Draw(t, label+"::atom"))
		case 1:
			return predicate.Compare(field, predicate.LT, value)
		case 2:
			return predicate.Compare(field, predicate.GT, value)
		case 3:
			return predicate.Compare(field, predicate.LE, value)
		case 4:
			return predicate.Compare(field, predicate.GE, value)
		case 5:
			values := rapid.SliceOfN(rapid.SampledFrom(testValues), 0, 3).Draw(t, label+"::values")
			return predicate.NewIn(field, values...)
		default:
			return predicate.Compare(field, predicate.EQ, value)
		}
	})
}

func drawPredicate(t *rapid.T, depth int, label string, drawLeaf func(*rapid.T, string) predicate.Predicate) predicate.Predicate {
	var p predicate.Predicate
	if depth == 0 || rapid.Bool().Draw(t, label+"::leaf") {
		p = drawLeaf(t, label)
	} else {
		width := rapid.IntRange(0, 2).Draw(t, label+"::width")
		children := make([]predicate.Predicate, 0, width)
		for i := range width {
			children = append(children, drawPredicate(t, depth-1, fmt.Sprintf("%s.%d", label, i), drawLeaf))
		}

		if rapid.Bool().Draw(t, label+"::and") {
			p = predicate.And(children...)
		} else {
			p = predicate.Or(children...)
		}
	}

	if rapid.Bool().Draw(t, label+"::negated") {
		p = predicate.Negate(p)
	}
	return p
}

// requireNormalForm checks the tree is a leaf, a clause of the inner kind, or
// a non-negated node of the outer kind whose children are leaves or clauses.
func requireNormalForm(t require.TestingT, e Element, outer Kind) {

	isClause := func(e Element) bool {
		switch typed := e.(type) {
		case *Leaf:
			return true
		case *Node:
			if typed.kind != outer.Dual() || typed.negated {
				return false
			}
			for _, child := range typed.children {
				if _, ok := child.(*Leaf); !ok {
					return false
				}
			}
			return true
		}
		return false
	}

	if isClause(e) {
		return
	}

	node, ok := e.(*Node)
	require.True(t, ok)
	require.Equal(t, outer, node.kind, "unexpected root kind in %s", e)
	require.False(t, node.negated, "negated root in %s", e)
	for _, child := range node.children {
		require.True(t, isClause(child), "child %s of %s is not a clause", child, e)
	}
}

// requireOwnership checks every parent link in the tree points at the node
// holding the element, and that no node holds an element twice.
func requireOwnership(t require.TestingT, root Element) {
	require.Nil(t, root.Parent(), "root %s is attached", root)

	var check func(n *Node)
	check = func(n *Node) {
		seen := map[Element]struct{}{}
		for _, child := range n.children {
			_, dup := seen[child]
			require.False(t, dup, "%s is held twice", child)
			seen[child] = struct{}{}

			require.Same(t, n, child.Parent())
			if childNode, ok := child.(*Node); ok {
				check(childNode)
			}
		}
	}

	if node, ok := root.(*Node); ok {
		check(node)
	}
}
