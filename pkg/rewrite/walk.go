package rewrite

import (
	"github.com/emirpasic/gods/stacks/arraystack"
)

type leafActionKind uint8

const (
	keepLeaf leafActionKind = iota
	deleteLeaf
	replaceLeaf
)

// LeafAction is the outcome of visiting a leaf in WalkLeaves.
type LeafAction struct {
	kind        leafActionKind
	replacement Element
}

var (
	// KeepLeaf leaves the visited leaf in place.
	KeepLeaf = LeafAction{kind: keepLeaf}

	// DeleteLeaf removes the visited leaf from its parent.
	DeleteLeaf = LeafAction{kind: deleteLeaf}
)

// ReplaceLeaf replaces the visited leaf with the given element. The replacement
// is not walked.
func ReplaceLeaf(replacement Element) LeafAction {
	return LeafAction{kind: replaceLeaf, replacement: replacement}
}

// LeafVisit describes a leaf and its position in the tree.
type LeafVisit struct {
	leaf      *Leaf
	ancestors []*Node
}

// Leaf returns the visited leaf.
func (v LeafVisit) Leaf() *Leaf { return v.leaf }

// Depth returns the number of nodes above the leaf.
func (v LeafVisit) Depth() int { return len(v.ancestors) }

// IsDescendantOf returns true if any node above the leaf is of the given kind.
func (v LeafVisit) IsDescendantOf(kind Kind) bool {
	for _, ancestor := range v.ancestors {
		if ancestor.kind == kind {
			return true
		}
	}
	return false
}

// NegationParity returns true if an odd number of negations apply to the leaf,
// counting the leaf itself and every node up to the root.
func (v LeafVisit) NegationParity() bool {
	parity := v.leaf.negated
	for _, ancestor := range v.ancestors {
		parity = parity != ancestor.negated
	}
	return parity
}

// WalkLeaves visits every leaf of the tree in order, applying the action the
// visitor returns. Unlike a Rule it is not applied by Reduce; it is meant for
// one-shot, position-dependent leaf rewrites.
//
// It returns the root, which only differs from the given one if the root was a
// leaf that got replaced, and whether anything changed. Deleting a root leaf
// leaves TRUE in its place.
func WalkLeaves(root Element, visit func(LeafVisit) LeafAction) (Element, bool) {
	if leaf, ok := root.(*Leaf); ok {
		switch action := visit(LeafVisit{leaf: leaf}); action.kind {
		case deleteLeaf:
			return NewConstant(true), true
		case replaceLeaf:
			detach(action.replacement)
			return action.replacement, true
		default:
			return root, false
		}
	}

	changed := false
	ancestors := []*Node{root.(*Node)}
	stack := arraystack.New()
	stack.Push(root.(*Node).Iterate())
	for !stack.Empty() {
		top, _ := stack.Peek()
		it := top.(*ChildrenIterator)
		if !it.Next() {
			stack.Pop()
			ancestors = ancestors[:len(ancestors)-1]
			continue
		}

		switch current := it.Current().(type) {
		case *Node:
			ancestors = append(ancestors, current)
			stack.Push(current.Iterate())

		case *Leaf:
			action := visit(LeafVisit{leaf: current, ancestors: ancestors})
			switch action.kind {
			case deleteLeaf:
				it.Remove()
				changed = true
			case replaceLeaf:
				it.Replace(action.replacement)
				changed = true
			}
		}
	}

	return root, changed
}
