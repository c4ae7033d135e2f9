package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/authzed/normalizer/pkg/predicate"
)

func TestKindDual(t *testing.T) {
	t.Parallel()

	require.Equal(t, Or, And.Dual())
	require.Equal(t, And, Or.Dual())
	require.Panics(t, func() { KindUnknown.Dual() })
}

func TestCreateTree(t *testing.T) {
	t.Parallel()

	a := predicate.NewAtom("a")
	b := predicate.NewAtom("b")

	tcs := []struct {
		name     string
		input    predicate.Predicate
		expected string
	}{
		{"leaf", a, "a"},
		{"negated leaf", predicate.Negate(a), "NOT a"},
		{"double negation", predicate.Negate(predicate.Negate(a)), "a"},
		{"triple negation", predicate.Negate(predicate.Negate(predicate.Negate(a))), "NOT a"},
		{"pointer negation", &predicate.Not{Child: a}, "NOT a"},
		{"composite", predicate.And(a, predicate.Or(b, predicate.Negate(a))), "(a AND (b OR NOT a))"},
		{"negated composite", predicate.Negate(predicate.Or(a, b)), "NOT (a OR b)"},
		{"empty composite", predicate.And(), "AND()"},
		{"constant", predicate.False, "FALSE"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tree := CreateTree(tc.input)
			require.Equal(t, tc.expected, tree.String())
			requireOwnership(t, tree)
			requireSameTruthTable(t, tc.input, tree.Constraint())
		})
	}
}

func TestCreateTreeNil(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { CreateTree(nil) })
	require.Panics(t, func() { CreateTree(predicate.And(predicate.Negate(nil))) })
}

func TestCreateTreeDeep(t *testing.T) {
	t.Parallel()

	var p predicate.Predicate = predicate.NewAtom("a")
	for range 5000 {
		p = predicate.And(predicate.NewAtom("b"), p)
	}

	tree := CreateTree(p)
	requireOwnership(t, tree)

	depth := 0
	for node, ok := tree.(*Node); ok; node, ok = node.Child(1).(*Node) {
		depth++
	}
	require.Equal(t, 5000, depth)
}

func TestNodeChildOwnership(t *testing.T) {
	t.Parallel()

	a, b, c := atom("a"), atom("b"), atom("c")
	first := and(a, b)
	second := or(c)

	second.AddChild(a)
	require.Same(t, second, a.Parent())
	require.Equal(t, "(b)", first.String())
	require.Equal(t, "(c OR a)", second.String())

	require.True(t, second.RemoveChild(c))
	require.Nil(t, c.Parent())
	require.False(t, second.RemoveChild(c))

	root := and(first, second)
	requireOwnership(t, root)

	require.Panics(t, func() { first.AddChild(root) })
	require.Panics(t, func() { root.AddChild(root) })
	require.Panics(t, func() { root.AddChild(nil) })
}

func TestNodeInsertChild(t *testing.T) {
	t.Parallel()

	a, b, c := atom("a"), atom("b"), atom("c")
	n := or(a, b, c)

	n.InsertChild(0, c)
	require.Equal(t, "(c OR a OR b)", n.String())

	n.InsertChild(3, c)
	require.Equal(t, "(a OR b OR c)", n.String())

	n.InsertChild(2, a)
	require.Equal(t, "(b OR a OR c)", n.String())

	n.AddChild(b)
	require.Equal(t, "(a OR c OR b)", n.String())

	n.AddChild(b)
	require.Equal(t, "(a OR c OR b)", n.String())
	require.Equal(t, 3, n.Len())
	requireOwnership(t, n)
}

func TestNodeReplaceChildAt(t *testing.T) {
	t.Parallel()

	t.Run("foreign replacement", func(t *testing.T) {
		t.Parallel()

		a, b, c := atom("a"), atom("b"), atom("c")
		n := and(a, b)
		other := or(c)

		require.Equal(t, 1, n.ReplaceChildAt(1, c))
		require.Equal(t, "(a AND c)", n.String())
		require.Nil(t, b.Parent())
		require.Equal(t, 0, other.Len())
		requireOwnership(t, n)
	})

	t.Run("earlier sibling", func(t *testing.T) {
		t.Parallel()

		a, b, c := atom("a"), atom("b"), atom("c")
		n := and(a, b, c)

		require.Equal(t, 1, n.ReplaceChildAt(2, a))
		require.Equal(t, "(b AND a)", n.String())
		require.Nil(t, c.Parent())
		requireOwnership(t, n)
	})

	t.Run("later sibling", func(t *testing.T) {
		t.Parallel()

		a, b, c := atom("a"), atom("b"), atom("c")
		n := and(a, b, c)

		require.Equal(t, 0, n.ReplaceChildAt(0, c))
		require.Equal(t, "(c AND b)", n.String())
		require.Nil(t, a.Parent())
		requireOwnership(t, n)
	})

	t.Run("same element", func(t *testing.T) {
		t.Parallel()

		a, b := atom("a"), atom("b")
		n := and(a, b)

		require.Equal(t, 1, n.ReplaceChildAt(1, b))
		require.Equal(t, "(a AND b)", n.String())
		requireOwnership(t, n)
	})

	t.Run("ancestor", func(t *testing.T) {
		t.Parallel()

		inner := or(atom("a"))
		root := and(inner)
		require.Panics(t, func() { inner.ReplaceChildAt(0, root) })
	})
}

func TestChildrenSnapshot(t *testing.T) {
	t.Parallel()

	n := and(atom("a"), atom("b"))
	children := n.Children()
	children[0] = atom("c")
	require.Equal(t, "(a AND b)", n.String())
}

func TestCopy(t *testing.T) {
	t.Parallel()

	original := not(and(atom("a"), not(or(atom("b"), eq("x", "1")))))
	attached := and(original)

	cp := original.Copy()
	require.Nil(t, cp.Parent())
	require.Equal(t, original.String(), cp.String())
	requireOwnership(t, cp)

	// Mutating the copy leaves the original untouched.
	cpNode := cp.(*Node)
	cpNode.Child(0).ToggleNegated()
	cpNode.Child(1).(*Node).AddChild(atom("c"))
	cpNode.SetKind(Or)

	require.Equal(t, "NOT (a AND NOT (b OR x = 1))", original.String())
	require.Equal(t, "NOT (NOT a OR NOT (b OR x = 1 OR c))", cp.String())
	require.Same(t, attached, original.Parent())
}

func TestConstraint(t *testing.T) {
	t.Parallel()

	tree := not(or(atom("a"), and(), not(NewConstant(false))))
	require.Equal(t, "NOT (a OR AND() OR NOT FALSE)", tree.String())
	require.Equal(t, `not(or(atom("a"),and(),not(false)))`, tree.Constraint().Key())
}

func TestLeafConstantValue(t *testing.T) {
	t.Parallel()

	value, ok := NewConstant(true).ConstantValue()
	require.True(t, ok)
	require.True(t, value)

	value, ok = not(NewConstant(true)).ConstantValue()
	require.True(t, ok)
	require.False(t, value)

	value, ok = NewNegatedLeaf(predicate.False, true).ConstantValue()
	require.True(t, ok)
	require.True(t, value)

	_, ok = atom("a").ConstantValue()
	require.False(t, ok)
}

func TestLeafSetPredicate(t *testing.T) {
	t.Parallel()

	leaf := not(atom("a"))
	leaf.SetPredicate(predicate.NewAtom("b"))
	require.Equal(t, "NOT b", leaf.String())
	require.Panics(t, func() { leaf.SetPredicate(nil) })
	require.Panics(t, func() { NewLeaf(nil) })
}

func TestChildrenIterator(t *testing.T) {
	t.Parallel()

	a, b, c, d := atom("a"), atom("b"), atom("c"), atom("d")
	n := or(a, b, c, d)

	var visited []string
	it := n.Iterate()
	for it.Next() {
		visited = append(visited, it.Current().String())
		switch it.Current() {
		case b:
			it.Remove()
		case c:
			it.Replace(not(atom("e")))
		}
	}

	require.Equal(t, []string{"a", "b", "c", "d"}, visited)
	require.Equal(t, "(a OR NOT e OR d)", n.String())
	require.Nil(t, b.Parent())
	require.Nil(t, c.Parent())
	requireOwnership(t, n)
}

func TestChildrenIteratorReplaceWithSibling(t *testing.T) {
	t.Parallel()

	a, b, c := atom("a"), atom("b"), atom("c")
	n := or(a, b, c)

	var visited []string
	it := n.Iterate()
	for it.Next() {
		visited = append(visited, it.Current().String())
		if it.Current() == b {
			it.Replace(a)
		}
	}

	require.Equal(t, []string{"a", "b", "c"}, visited)
	require.Equal(t, "(a OR c)", n.String())
	requireOwnership(t, n)
}
