package rewrite

// Distribution returns a rule that distributes a non-negated node of the given
// kind over its first non-negated child of the dual kind that has more than one
// child:
//
//	OR(a, AND(b, c)) => AND(OR(a, b), OR(a, c))
//
// Applied with Or it moves conjunctions upwards (towards CNF); with And it
// moves disjunctions upwards (towards DNF). The other children are deep
// copied into every distributed term.
func Distribution(kind Kind) Rule {
	var rule Rule
	rule = WrapRule("distribution-"+kind.String(), func(n *Node) (Element, bool) {
		if n.kind != kind || n.negated {
			return n, false
		}

		dual := kind.Dual()
		index := -1
		for i, child := range n.children {
			if childNode, ok := child.(*Node); ok && childNode.kind == dual && !childNode.negated && len(childNode.children) > 1 {
				index = i
				break
			}
		}
		if index < 0 {
			return n, false
		}

		distributed := n.RemoveChildAt(index).(*Node)
		result := NewNode(dual)
		for _, term := range distributed.children {
			part := NewNode(kind)
			for _, sibling := range n.children {
				part.AddChild(sibling.Copy())
			}
			part.AddChild(term.Copy())
			result.AddChild(part)
		}

		// Other siblings of the dual kind are distributed within each new term.
		ApplyToChildren(result, rule)
		return result, true
	})
	return rule
}
