package rewrite

import (
	"github.com/authzed/normalizer/pkg/genutil/mapz"
	"github.com/authzed/normalizer/pkg/predicate"
)

// GroupCollector is a rule template that scans the leaf children of a group,
// collecting into an accumulator, and then commits the collected effect back
// onto the group.
//
// Visit is called for every leaf child, in order. It may remove or replace the
// leaf through the iterator, and calls acc to obtain the accumulator, which is
// only created on first use. Commit is only called if the accumulator was
// created. The rule fires if either hook reports a change.
type GroupCollector[A any] struct {
	// RuleName is the name reported by the rule.
	RuleName string

	// Kind selects the groups the rule applies to; KindUnknown selects every node.
	Kind Kind

	NewAccumulator func(group *Node) A
	Visit          func(it *ChildrenIterator, leaf *Leaf, acc func() A) bool
	Commit         func(group *Node, acc A) bool
}

var _ Rule = &GroupCollector[any]{}

func (g *GroupCollector[A]) Name() string { return g.RuleName }

func (g *GroupCollector[A]) Process(e Element) (Element, bool) {
	group, ok := e.(*Node)
	if !ok || (g.Kind != KindUnknown && group.kind != g.Kind) {
		return e, false
	}

	var accumulator A
	created := false
	acc := func() A {
		if !created {
			accumulator = g.NewAccumulator(group)
			created = true
		}
		return accumulator
	}

	changed := false
	it := group.Iterate()
	for it.Next() {
		leaf, ok := it.Current().(*Leaf)
		if !ok {
			continue
		}
		if g.Visit(it, leaf, acc) {
			changed = true
		}
	}

	if created && g.Commit != nil && g.Commit(group, accumulator) {
		changed = true
	}

	return group, changed
}

// fieldKey groups leaves testing the same field with the same negation.
type fieldKey struct {
	field   predicate.Field
	negated bool
}

// unites reports whether sibling membership tests on the same field combine by
// union under the given group: the OR of positive tests, or by De Morgan the
// AND of negated ones. Otherwise they combine by intersection.
func unites(group *Node, negated bool) bool {
	return (group.kind == Or) != negated
}

type equalsAccumulator struct {
	values    *mapz.MultiMap[fieldKey, predicate.Value]
	positions map[fieldKey]int
}

// Collect2 turns "field = value" leaves into "field IN {values}" leaves.
// Sibling equalities on the same field and negation that combine by union are
// gathered and replaced by a single membership test at the position of the
// first of them:
//
//	OR(x = 1, y = 2, x = 3) => OR(x IN {1, 3}, y IN {2})
//
// Any other equality is replaced immediately by a singleton membership test,
// leaving intersections to UniteEnums.
var Collect2 Rule = &GroupCollector[*equalsAccumulator]{
	RuleName: "collect-equalities",
	NewAccumulator: func(*Node) *equalsAccumulator {
		return &equalsAccumulator{
			values:    mapz.NewMultiMap[fieldKey, predicate.Value](),
			positions: map[fieldKey]int{},
		}
	},
	Visit: func(it *ChildrenIterator, leaf *Leaf, acc func() *equalsAccumulator) bool {
		equals, ok := leaf.predicate.(predicate.Equals)
		if !ok {
			return false
		}

		if !unites(it.Node(), leaf.negated) {
			it.Replace(NewNegatedLeaf(predicate.NewIn(equals.Field, equals.Value), leaf.negated))
			return true
		}

		key := fieldKey{equals.Field, leaf.negated}
		collected := acc()
		if !collected.values.Has(key) {
			collected.positions[key] = it.Index()
		}
		collected.values.Add(key, equals.Value)
		it.Remove()
		return true
	},
	Commit: func(group *Node, collected *equalsAccumulator) bool {
		// Keys are ordered by first position, so each insertion only shifts
		// the positions of the keys after it.
		for inserted, key := range collected.values.Keys() {
			values, _ := collected.values.Get(key)
			group.InsertChild(collected.positions[key]+inserted, NewNegatedLeaf(predicate.NewIn(key.field, values...), key.negated))
		}
		return collected.values.Len() > 0
	},
}

type enumAccumulator struct {
	first map[fieldKey]*Leaf
	order []*Leaf
}

// UniteEnums merges sibling "field IN {values}" leaves sharing a field and
// negation into the first of them, by union or intersection following
// De Morgan:
//
//	OR(x IN {1, 2}, x IN {2, 3})  => OR(x IN {1, 2, 3})
//	AND(x IN {1, 2}, x IN {2, 3}) => AND(x IN {2})
//
// A membership test left with no values is replaced by FALSE, keeping its
// negation.
var UniteEnums Rule = &GroupCollector[*enumAccumulator]{
	RuleName: "unite-enums",
	NewAccumulator: func(*Node) *enumAccumulator {
		return &enumAccumulator{first: map[fieldKey]*Leaf{}}
	},
	Visit: func(it *ChildrenIterator, leaf *Leaf, acc func() *enumAccumulator) bool {
		in, ok := leaf.predicate.(predicate.In)
		if !ok {
			return false
		}

		collected := acc()
		key := fieldKey{in.Field, leaf.negated}
		first, ok := collected.first[key]
		if !ok {
			collected.first[key] = leaf
			collected.order = append(collected.order, leaf)
			return false
		}

		merged := first.predicate.(predicate.In)
		if unites(it.Node(), leaf.negated) {
			first.predicate = merged.Union(in)
		} else {
			first.predicate = merged.Intersect(in)
		}
		it.Remove()
		return true
	},
	Commit: func(group *Node, collected *enumAccumulator) bool {
		changed := false
		for _, leaf := range collected.order {
			if len(leaf.predicate.(predicate.In).Values) > 0 {
				continue
			}
			group.ReplaceChild(leaf, NewNegatedLeaf(predicate.False, leaf.negated))
			changed = true
		}
		return changed
	},
}
