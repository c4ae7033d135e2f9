package rewrite

import (
	"github.com/authzed/normalizer/pkg/predicate"
)

// NewLeafRule returns a rule that applies only to leaves whose predicate is of
// type T. The function receives the predicate and the negation of the leaf.
func NewLeafRule[T predicate.Predicate](name string, fn func(p T, negated bool) (Element, bool)) Rule {
	return WrapRule(name, func(l *Leaf) (Element, bool) {
		p, ok := l.predicate.(T)
		if !ok {
			return l, false
		}

		replacement, ok := fn(p, l.negated)
		if !ok {
			return l, false
		}
		return replacement, true
	})
}

// NegatedStrictInequality rewrites a negated strict inequality into the
// disjunction of its complements, as there is no non-strict leaf downstream:
//
//	NOT x > v => OR(x = v, x < v)
//	NOT x < v => OR(x = v, x > v)
var NegatedStrictInequality = AnyOf("negated-strict-inequality",
	NewLeafRule("negated-greater", func(p predicate.Greater, negated bool) (Element, bool) {
		if !negated {
			return nil, false
		}
		return NewNode(Or,
			NewLeaf(predicate.Equals{Field: p.Field, Value: p.Value}),
			NewLeaf(predicate.Less{Field: p.Field, Value: p.Value}),
		), true
	}),
	NewLeafRule("negated-less", func(p predicate.Less, negated bool) (Element, bool) {
		if !negated {
			return nil, false
		}
		return NewNode(Or,
			NewLeaf(predicate.Equals{Field: p.Field, Value: p.Value}),
			NewLeaf(predicate.Greater{Field: p.Field, Value: p.Value}),
		), true
	}),
)

// NonStrictInequality rewrites non-strict inequalities into negated strict ones
// so that only =, < and > remain:
//
//	x >= v => NOT x < v
//	x <= v => NOT x > v
var NonStrictInequality = AnyOf("non-strict-inequality",
	NewLeafRule("greater-or-equal", func(p predicate.GreaterOrEqual, negated bool) (Element, bool) {
		return NewNegatedLeaf(predicate.Less{Field: p.Field, Value: p.Value}, !negated), true
	}),
	NewLeafRule("less-or-equal", func(p predicate.LessOrEqual, negated bool) (Element, bool) {
		return NewNegatedLeaf(predicate.Greater{Field: p.Field, Value: p.Value}, !negated), true
	}),
)
