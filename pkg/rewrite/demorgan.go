package rewrite

// DeMorgan returns a rule that pushes the negation of a node of the given kind
// down onto its children, switching the node to the dual kind.
//
//	NOT AND(a, b) => OR(NOT a, NOT b)
//
// Empty nodes are left for RemoveDummyNodes, as an empty node is TRUE
// whatever its kind.
func DeMorgan(kind Kind) Rule {
	return WrapRule("demorgan-"+kind.String(), func(n *Node) (Element, bool) {
		if n.kind != kind || !n.negated || len(n.children) == 0 {
			return n, false
		}

		n.kind = kind.Dual()
		n.negated = false
		for _, child := range n.children {
			child.ToggleNegated()
		}
		return n, true
	})
}
