package rewrite

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/emirpasic/gods/stacks/arraystack"

	log "github.com/authzed/normalizer/internal/logging"
	"github.com/authzed/normalizer/pkg/normerrors"
)

// Rule rewrites a single element of a tree.
//
// Process returns false if the rule does not apply, in which case the element
// is left untouched. Otherwise it returns the replacement for the element,
// which may be the element itself (mutated in place) or a different element;
// callers must handle both.
type Rule interface {
	Name() string
	Process(e Element) (Element, bool)
}

type typedRule[T Element] struct {
	name string
	fn   func(e T) (Element, bool)
}

// WrapRule wraps a typed rewrite into a Rule that only applies to elements of
// type T, typically *Node or *Leaf.
func WrapRule[T Element](name string, fn func(e T) (Element, bool)) Rule {
	return typedRule[T]{name: name, fn: fn}
}

func (r typedRule[T]) Name() string { return r.name }

func (r typedRule[T]) Process(e Element) (Element, bool) {
	if v, ok := e.(T); ok {
		return r.fn(v)
	}
	return e, false
}

type anyOfRule struct {
	name  string
	rules []Rule
}

// AnyOf combines rules into one that applies the first of them that fires.
func AnyOf(name string, rules ...Rule) Rule {
	return anyOfRule{name: name, rules: rules}
}

func (r anyOfRule) Name() string { return r.name }

func (r anyOfRule) Process(e Element) (Element, bool) {
	for _, rule := range r.rules {
		if replacement, ok := rule.Process(e); ok {
			return replacement, true
		}
	}
	return e, false
}

// ApplyToChildren applies the rule once to each immediate child of the node,
// replacing those it fires on. It reports whether any child changed.
func ApplyToChildren(n *Node, rule Rule) bool {
	changed := false
	for i := 0; i < len(n.children); i++ {
		child := n.children[i]
		replacement, ok := rule.Process(child)
		if !ok {
			continue
		}

		changed = true
		if replacement != child {
			i = n.ReplaceChildAt(i, replacement)
		}
	}
	return changed
}

type pendingChild struct {
	parent *Node
	index  int
}

func pushChildren(stack *arraystack.Stack, n *Node) {
	for i := len(n.children) - 1; i >= 0; i-- {
		stack.Push(pendingChild{parent: n, index: i})
	}
}

// ApplyRecursive applies the rule top-down. The rule is tried on the element
// first; if it fires, its replacement is returned without descending into it.
// Otherwise the rule is applied recursively to each child, in order, replacing
// the children it fires on.
//
// It returns the resulting root and whether anything in the tree changed.
// A replaced root is returned detached.
func ApplyRecursive(e Element, rule Rule) (Element, bool) {
	if replacement, ok := rule.Process(e); ok {
		if replacement != e && replacement != nil {
			detach(replacement)
		}
		return replacement, true
	}

	root, ok := e.(*Node)
	if !ok {
		return e, false
	}

	// Rules only ever rewrite the subtree they are given, so the positions of
	// pending siblings stay valid while a subtree is processed.
	changed := false
	stack := arraystack.New()
	pushChildren(stack, root)
	for !stack.Empty() {
		popped, _ := stack.Pop()
		pending := popped.(pendingChild)
		normerrors.DebugAssertf(func() bool { return pending.index < len(pending.parent.children) },
			"pending child %d is out of range for %s", pending.index, pending.parent)

		child := pending.parent.children[pending.index]
		if replacement, ok := rule.Process(child); ok {
			changed = true
			if replacement != child {
				pending.parent.ReplaceChildAt(pending.index, replacement)
			}
			continue
		}

		if node, ok := child.(*Node); ok {
			pushChildren(stack, node)
		}
	}

	return e, changed
}

var (
	// ErrIterationLimit is returned when a reduction exceeds its iteration cap.
	ErrIterationLimit = errors.New("rewrite iteration limit reached")

	// ErrRewriteCycle is returned when a reduction returns to a tree it has
	// already produced.
	ErrRewriteCycle = errors.New("rewrite cycle detected")
)

// Reduce rewrites the tree to a fixpoint of the given rules, which are listed
// in priority order.
//
// Starting with the first rule, each rule is applied recursively to the whole
// tree. Whenever a rule changes the tree, the reduction restarts from the
// first rule; when a rule does not apply, the next one is tried. The
// reduction ends once no rule applies.
//
// The tree is mutated in place; the returned element is the new root. An error
// is only returned when a rule still applies after MaxIterations rewrites or,
// with cycle detection enabled, when a tree recurs. The shipped rule lists
// never trigger either.
func Reduce(e Element, rules []Rule, opts ...ReduceOptionsOption) (Element, error) {
	options := NewReduceOptionsWithOptionsAndDefaults(opts...)

	var seen map[uint64]struct{}
	if options.DetectCycles {
		seen = map[uint64]struct{}{treeHash(e): {}}
	}

	iterations := uint32(0)
	defer func() {
		if options.RecordMetrics {
			reduceIterationsHistogram.Observe(float64(iterations))
		}
	}()

	for index := 0; index < len(rules); {
		rule := rules[index]
		replacement, changed := ApplyRecursive(e, rule)
		if !changed {
			index++
			continue
		}
		if replacement == nil {
			return e, normerrors.MustBugf("rule %s replaced the root with nil", rule.Name())
		}

		e = replacement
		index = 0

		// A reduction converging in exactly MaxIterations rewrites succeeds.
		if options.MaxIterations > 0 && iterations >= options.MaxIterations {
			logger := log.ForRule(rule.Name())
			logger.Warn().Uint32("iterations", iterations).Msg("aborting reduction at iteration limit")
			return e, fmt.Errorf("%w after %d rewrites", ErrIterationLimit, iterations)
		}
		iterations++

		if options.RecordMetrics {
			ruleApplicationsCounter.WithLabelValues(rule.Name()).Inc()
		}
		log.Trace().Str("rule", rule.Name()).Uint32("iteration", iterations).Stringer("tree", e).Msg("rewrite rule applied")

		if seen != nil {
			hash := treeHash(e)
			if _, ok := seen[hash]; ok {
				logger := log.ForRule(rule.Name())
				logger.Warn().Uint32("iteration", iterations).Msg("aborting reduction on rewrite cycle")
				return e, fmt.Errorf("%w: rule %s reproduced an earlier tree", ErrRewriteCycle, rule.Name())
			}
			seen[hash] = struct{}{}
		}
	}

	return e, nil
}

func treeHash(e Element) uint64 {
	return xxhash.Sum64String(e.Constraint().Key())
}
