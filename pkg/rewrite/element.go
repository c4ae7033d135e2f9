package rewrite

import (
	"slices"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/authzed/normalizer/pkg/normerrors"
	"github.com/authzed/normalizer/pkg/predicate"
)

// Kind is the kind of a composite Node. Only And and Or are interpreted by the
// rewrite rules.
type Kind uint8

const (
	// KindUnknown is the zero value and is never a valid node kind.
	KindUnknown Kind = iota
	And
	Or
)

// Dual returns the complementary kind: Or for And, And for Or.
func (k Kind) Dual() Kind {
	switch k {
	case And:
		return Or
	case Or:
		return And
	default:
		normerrors.MustPanic("no dual for composite kind %d", k)
		return KindUnknown
	}
}

func (k Kind) String() string {
	switch k {
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return "unknown"
	}
}

func (k Kind) op() predicate.Op {
	switch k {
	case And:
		return predicate.OpAnd
	case Or:
		return predicate.OpOr
	default:
		normerrors.MustPanic("unknown composite kind %d", k)
		return predicate.OpUnknown
	}
}

func kindOf(op predicate.Op) Kind {
	switch op {
	case predicate.OpAnd:
		return And
	case predicate.OpOr:
		return Or
	default:
		normerrors.MustPanic("unsupported composite operation %s", op)
		return KindUnknown
	}
}

// Element is a node in a mutable predicate tree: either a *Leaf or a *Node.
//
// An attached element is owned by exactly one *Node, returned by Parent.
// Ownership is only ever changed through the *Node child methods, which
// detach an element from its previous owner before attaching it.
type Element interface {
	// Negated returns whether the element is negated.
	Negated() bool

	// SetNegated sets the negation of the element.
	SetNegated(negated bool)

	// ToggleNegated flips the negation of the element.
	ToggleNegated()

	// Parent returns the owning node, or nil if the element is detached.
	Parent() *Node

	// Constraint folds the element back into its predicate form, applying any
	// negation with a predicate.Not.
	Constraint() predicate.Predicate

	// Copy returns a detached deep copy of the element, negation included.
	Copy() Element

	String() string

	setParent(parent *Node)
}

type base struct {
	negated bool
	parent  *Node
}

func (b *base) Negated() bool           { return b.negated }
func (b *base) SetNegated(negated bool) { b.negated = negated }
func (b *base) ToggleNegated()          { b.negated = !b.negated }
func (b *base) Parent() *Node           { return b.parent }
func (b *base) setParent(parent *Node)  { b.parent = parent }

func negateIf(p predicate.Predicate, negated bool) predicate.Predicate {
	if negated {
		return predicate.Negate(p)
	}
	return p
}

// Leaf wraps a single atomic predicate.
type Leaf struct {
	base
	predicate predicate.Predicate
}

var _ Element = &Leaf{}

// NewLeaf returns a detached, non-negated leaf for the predicate.
func NewLeaf(p predicate.Predicate) *Leaf {
	if p == nil {
		normerrors.MustPanic("nil predicate given to NewLeaf")
	}
	return &Leaf{predicate: p}
}

// NewNegatedLeaf returns a detached leaf for the predicate with the given negation.
func NewNegatedLeaf(p predicate.Predicate, negated bool) *Leaf {
	l := NewLeaf(p)
	l.negated = negated
	return l
}

// NewConstant returns a leaf for the TRUE or FALSE constant.
func NewConstant(value bool) *Leaf {
	return NewLeaf(predicate.Constant(value))
}

// Predicate returns the wrapped predicate.
func (l *Leaf) Predicate() predicate.Predicate { return l.predicate }

// SetPredicate replaces the wrapped predicate, keeping the negation.
func (l *Leaf) SetPredicate(p predicate.Predicate) {
	if p == nil {
		normerrors.MustPanic("nil predicate given to SetPredicate")
	}
	l.predicate = p
}

// ConstantValue returns the effective value of a constant leaf, negation
// applied, and whether the leaf is a constant at all.
func (l *Leaf) ConstantValue() (value bool, ok bool) {
	c, ok := l.predicate.(predicate.Constant)
	if !ok {
		return false, false
	}
	return bool(c) != l.negated, true
}

func (l *Leaf) Constraint() predicate.Predicate {
	return negateIf(l.predicate, l.negated)
}

func (l *Leaf) Copy() Element {
	return &Leaf{base: base{negated: l.negated}, predicate: l.predicate}
}

func (l *Leaf) String() string { return l.Constraint().String() }

// Node is a composite element of kind And or Or, exclusively owning an
// ordered list of children.
type Node struct {
	base
	kind     Kind
	children []Element
}

var _ Element = &Node{}

// NewNode returns a detached, non-negated node of the given kind, taking
// ownership of the given children.
func NewNode(kind Kind, children ...Element) *Node {
	n := &Node{kind: kind, children: make([]Element, 0, len(children))}
	for _, child := range children {
		n.AddChild(child)
	}
	return n
}

// Kind returns the kind of the node.
func (n *Node) Kind() Kind { return n.kind }

// SetKind changes the kind of the node.
func (n *Node) SetKind(kind Kind) { n.kind = kind }

// Len returns the number of children.
func (n *Node) Len() int { return len(n.children) }

// Child returns the child at the given index.
func (n *Node) Child(index int) Element { return n.children[index] }

// Children returns a snapshot of the children. Mutating the returned slice
// does not change the node.
func (n *Node) Children() []Element { return slices.Clone(n.children) }

// IndexOf returns the position of the given element among the children,
// compared by identity, or -1.
func (n *Node) IndexOf(e Element) int {
	for i, child := range n.children {
		if child == e {
			return i
		}
	}
	return -1
}

func (n *Node) checkAttachable(e Element) {
	if e == nil {
		normerrors.MustPanic("cannot attach a nil element")
	}
	if en, ok := e.(*Node); ok {
		for ancestor := n; ancestor != nil; ancestor = ancestor.parent {
			if ancestor == en {
				normerrors.MustPanic("cannot attach a node beneath itself")
			}
		}
	}
}

// AddChild appends the element, detaching it from its current owner first. A
// child of this node is moved to the end.
func (n *Node) AddChild(e Element) {
	n.InsertChild(len(n.children), e)
}

// InsertChild inserts the element before the child currently at the given
// position, or at the end when index equals Len, detaching it from its current
// owner first. A child of this node is moved.
func (n *Node) InsertChild(index int, e Element) {
	n.checkAttachable(e)
	if e.Parent() == n {
		if at := n.IndexOf(e); at < index {
			index--
		}
	}
	detach(e)
	n.children = slices.Insert(n.children, index, e)
	e.setParent(n)
}

// RemoveChild removes the given element, compared by identity, and reports
// whether it was found.
func (n *Node) RemoveChild(e Element) bool {
	index := n.IndexOf(e)
	if index < 0 {
		return false
	}
	n.RemoveChildAt(index)
	return true
}

// RemoveChildAt removes and returns the child at the given position. The
// returned element is detached.
func (n *Node) RemoveChildAt(index int) Element {
	removed := n.children[index]
	n.children = slices.Delete(n.children, index, index+1)
	removed.setParent(nil)
	return removed
}

// ReplaceChild replaces the given child, compared by identity, and reports
// whether it was found.
func (n *Node) ReplaceChild(old Element, replacement Element) bool {
	index := n.IndexOf(old)
	if index < 0 {
		return false
	}
	n.ReplaceChildAt(index, replacement)
	return true
}

// ReplaceChildAt replaces the child at the given position. The replacement is
// detached from its current owner first and the replaced child is left
// detached. It returns the position the replacement ended up at, which only
// differs from index when the replacement was an earlier sibling.
func (n *Node) ReplaceChildAt(index int, replacement Element) int {
	old := n.children[index]
	if old == replacement {
		return index
	}

	n.checkAttachable(replacement)
	if replacement.Parent() == n {
		if at := n.IndexOf(replacement); at < index {
			index--
		}
	}
	detach(replacement)

	old.setParent(nil)
	n.children[index] = replacement
	replacement.setParent(n)
	return index
}

func (n *Node) Constraint() predicate.Predicate {
	children := make([]predicate.Predicate, 0, len(n.children))
	for _, child := range n.children {
		children = append(children, child.Constraint())
	}
	return negateIf(predicate.Composite{Op: n.kind.op(), Children: children}, n.negated)
}

func (n *Node) Copy() Element {
	cp := &Node{base: base{negated: n.negated}, kind: n.kind, children: make([]Element, 0, len(n.children))}
	for _, child := range n.children {
		childCopy := child.Copy()
		childCopy.setParent(cp)
		cp.children = append(cp.children, childCopy)
	}
	return cp
}

func (n *Node) String() string { return n.Constraint().String() }

// detach removes the element from its owner, if any.
func detach(e Element) {
	if parent := e.Parent(); parent != nil {
		parent.RemoveChildAt(parent.IndexOf(e))
	}
}

type pendingPredicate struct {
	p      predicate.Predicate
	parent *Node
}

// CreateTree builds a detached tree from the predicate. Chains of
// predicate.Not are folded into the negation flag of the element they wrap,
// by parity.
func CreateTree(p predicate.Predicate) Element {
	var root Element

	stack := arraystack.New()
	stack.Push(pendingPredicate{p: p})
	for !stack.Empty() {
		popped, _ := stack.Pop()
		pending := popped.(pendingPredicate)

		current, negated := unwrapNegations(pending.p)

		var created Element
		if composite, ok := current.(predicate.Composite); ok {
			node := &Node{kind: kindOf(composite.Op), children: make([]Element, 0, len(composite.Children))}
			for i := len(composite.Children) - 1; i >= 0; i-- {
				stack.Push(pendingPredicate{p: composite.Children[i], parent: node})
			}
			created = node
		} else {
			created = NewLeaf(current)
		}
		created.SetNegated(negated)

		if pending.parent == nil {
			root = created
		} else {
			pending.parent.AddChild(created)
		}
	}

	return root
}

func unwrapNegations(p predicate.Predicate) (predicate.Predicate, bool) {
	negated := false
	for {
		switch typed := p.(type) {
		case nil:
			normerrors.MustPanic("nil predicate given to CreateTree")
			return nil, negated
		case predicate.Not:
			negated = !negated
			p = typed.Child
		case *predicate.Not:
			negated = !negated
			p = typed.Child
		default:
			return p, negated
		}
	}
}
