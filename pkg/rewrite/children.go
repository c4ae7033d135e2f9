package rewrite

// ChildrenIterator walks the children of a node while allowing the current
// child to be removed or replaced in place.
//
//	it := node.Iterate()
//	for it.Next() {
//		if shouldDrop(it.Current()) {
//			it.Remove()
//		}
//	}
type ChildrenIterator struct {
	node  *Node
	index int
}

// Iterate returns an iterator positioned before the first child.
func (n *Node) Iterate() *ChildrenIterator {
	return &ChildrenIterator{node: n, index: -1}
}

// Next advances to the next child and reports whether there is one.
func (it *ChildrenIterator) Next() bool {
	it.index++
	return it.index < len(it.node.children)
}

// Current returns the child at the current position.
func (it *ChildrenIterator) Current() Element {
	return it.node.children[it.index]
}

// Index returns the current position.
func (it *ChildrenIterator) Index() int {
	return it.index
}

// Node returns the node being iterated.
func (it *ChildrenIterator) Node() *Node {
	return it.node
}

// Remove detaches and returns the current child. The following Next moves to
// the child that came after it.
func (it *ChildrenIterator) Remove() Element {
	removed := it.node.RemoveChildAt(it.index)
	it.index--
	return removed
}

// Replace puts the replacement at the current position. The replacement is not
// visited by the iterator.
func (it *ChildrenIterator) Replace(replacement Element) {
	it.index = it.node.ReplaceChildAt(it.index, replacement)
}
