package rewrite

// FlattenSame returns a rule that applies associativity to nodes of the given
// kind: each non-negated child of the same kind is replaced, in place, by its
// own children.
//
//	AND(a, AND(b, c)) => AND(a, b, c)
//
// Negated children are left for DeMorgan to push their negation down first,
// and empty children for RemoveDummyNodes to turn into constants.
func FlattenSame(kind Kind) Rule {
	return WrapRule("flatten-"+kind.String(), func(n *Node) (Element, bool) {
		if n.kind != kind {
			return n, false
		}

		changed := false
		for i := 0; i < len(n.children); i++ {
			child, ok := n.children[i].(*Node)
			if !ok || child.kind != kind || child.negated || len(child.children) == 0 {
				continue
			}

			n.RemoveChildAt(i)
			grandchildren := child.Children()
			for offset, grandchild := range grandchildren {
				n.InsertChild(i+offset, grandchild)
			}

			// Revisit the spliced children, which may be nested nodes of the
			// same kind themselves.
			i--
			changed = true
		}

		return n, changed
	})
}
