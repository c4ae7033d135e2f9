package rewrite

import (
	"github.com/authzed/normalizer/pkg/predicate"
)

// RemoveDummyNodes removes composites that carry no structure and folds
// constants:
//   - a node without children becomes TRUE, keeping the node's negation
//   - a node with a single child becomes that child, negations combined
//   - repeated leaves are dropped; a predicate appearing both negated and not
//     turns an AND into FALSE and an OR into TRUE
//   - children with zero or one children of their own are simplified first
//   - TRUE is dropped from an AND and FALSE turns it into FALSE; OR is dual.
//     An AND left with no children after dropping TRUE is TRUE, an OR left
//     with no children after dropping FALSE is FALSE
var RemoveDummyNodes Rule = WrapRule("remove-dummy-nodes", removeDummyNodes)

func removeDummyNodes(n *Node) (Element, bool) {
	switch len(n.children) {
	case 0:
		return NewNegatedLeaf(predicate.True, n.negated), true

	case 1:
		child := n.RemoveChildAt(0)
		if n.negated {
			child.ToggleNegated()
		}
		return child, true
	}

	changed := false

	collapsed, deduped := removeDuplicateLeaves(n)
	if collapsed {
		return absorbingConstant(n), true
	}
	changed = changed || deduped

	for i, child := range n.children {
		childNode, ok := child.(*Node)
		if !ok || len(childNode.children) > 1 {
			continue
		}

		replacement, _ := removeDummyNodes(childNode)
		n.ReplaceChildAt(i, replacement)
		changed = true
	}

	collapsed, folded := foldConstants(n)
	if collapsed {
		return absorbingConstant(n), true
	}
	changed = changed || folded

	// Only identity constants were dropped, so the node was one itself.
	if len(n.children) == 0 {
		return NewNegatedLeaf(predicate.Constant(n.kind == And), n.negated), true
	}

	return n, changed
}

// absorbingConstant returns the constant that absorbs the node entirely: FALSE
// for an AND and TRUE for an OR, carrying the node's negation.
func absorbingConstant(n *Node) *Leaf {
	return NewNegatedLeaf(predicate.Constant(n.kind == Or), n.negated)
}

// removeDuplicateLeaves drops leaves that repeat an earlier sibling. It reports
// whether the node should collapse because a predicate occurs with both
// negations, and whether any leaf was removed.
func removeDuplicateLeaves(n *Node) (collapse bool, changed bool) {
	seen := make(map[uint64][]*Leaf, len(n.children))

	it := n.Iterate()
	for it.Next() {
		leaf, ok := it.Current().(*Leaf)
		if !ok {
			continue
		}

		hash := predicate.Hash(leaf.predicate)
		duplicate := false
		for _, earlier := range seen[hash] {
			if !predicate.Equal(earlier.predicate, leaf.predicate) {
				continue
			}
			if earlier.negated != leaf.negated {
				return true, changed
			}
			duplicate = true
			break
		}

		if duplicate {
			it.Remove()
			changed = true
			continue
		}
		seen[hash] = append(seen[hash], leaf)
	}

	return false, changed
}

// foldConstants removes identity constants from the node and reports whether an
// absorbing constant collapses it.
func foldConstants(n *Node) (collapse bool, changed bool) {
	identity := n.kind == And

	it := n.Iterate()
	for it.Next() {
		leaf, ok := it.Current().(*Leaf)
		if !ok {
			continue
		}

		value, isConstant := leaf.ConstantValue()
		if !isConstant {
			continue
		}

		if value != identity {
			return true, changed
		}
		it.Remove()
		changed = true
	}

	return false, changed
}
