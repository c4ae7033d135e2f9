package rewrite

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/dalzilio/rudd"

	"github.com/authzed/normalizer/pkg/predicate"
)

// Equivalent returns true if both trees denote the same boolean function when
// every distinct atomic predicate is treated as an independent variable.
//
// The check is propositional: trees that are only equivalent given the meaning
// of their predicates, such as x >= 1 and NOT x < 1, are not reported as
// equivalent.
func Equivalent(a, b Element) (bool, error) {
	builder, err := newBDDBuilder(a, b)
	if err != nil {
		return false, err
	}

	aCubes, err := builder.cubes(builder.build(a))
	if err != nil {
		return false, err
	}

	bCubes, err := builder.cubes(builder.build(b))
	if err != nil {
		return false, err
	}

	return slices.Equal(aCubes, bCubes), nil
}

// CanonicalKey returns a key for the boolean function denoted by the tree, with
// every distinct atomic predicate treated as an independent variable. Trees
// that are propositionally equivalent over the same predicates share a key.
func CanonicalKey(e Element) (string, error) {
	builder, err := newBDDBuilder(e)
	if err != nil {
		return "", err
	}

	cubes, err := builder.cubes(builder.build(e))
	if err != nil {
		return "", err
	}

	hasher := xxhash.New()
	for _, cube := range cubes {
		_, _ = hasher.WriteString(cube)
		_, _ = hasher.WriteString("\n")
	}
	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

type bddBuilder struct {
	bdd  *rudd.BDD
	keys []string
	vars map[string]int
}

// newBDDBuilder allocates one variable per distinct non-constant predicate found
// in the trees, ordered by predicate key.
func newBDDBuilder(roots ...Element) (*bddBuilder, error) {
	keySet := map[string]struct{}{}
	for _, root := range roots {
		collectPredicateKeys(root, keySet)
	}

	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	vars := make(map[string]int, len(keys))
	for i, key := range keys {
		vars[key] = i
	}

	bdd, err := rudd.New(max(len(keys), 1))
	if err != nil {
		return nil, err
	}

	return &bddBuilder{bdd: bdd, keys: keys, vars: vars}, nil
}

func collectPredicateKeys(e Element, into map[string]struct{}) {
	switch typed := e.(type) {
	case *Leaf:
		if _, ok := typed.predicate.(predicate.Constant); !ok {
			into[typed.predicate.Key()] = struct{}{}
		}
	case *Node:
		for _, child := range typed.children {
			collectPredicateKeys(child, into)
		}
	}
}

func (b *bddBuilder) build(e Element) rudd.Node {
	var result rudd.Node
	switch typed := e.(type) {
	case *Leaf:
		if c, ok := typed.predicate.(predicate.Constant); ok {
			result = b.constant(bool(c))
		} else {
			result = b.bdd.Ithvar(b.vars[typed.predicate.Key()])
		}

	case *Node:
		// An empty group places no constraint, whatever its kind.
		result = b.bdd.True()
		if len(typed.children) > 0 {
			result = b.build(typed.children[0])
			for _, child := range typed.children[1:] {
				if typed.kind == And {
					result = b.bdd.And(result, b.build(child))
				} else {
					result = b.bdd.Or(result, b.build(child))
				}
			}
		}
	}

	if e.Negated() {
		return b.bdd.Not(result)
	}
	return result
}

func (b *bddBuilder) constant(value bool) rudd.Node {
	if value {
		return b.bdd.True()
	}
	return b.bdd.False()
}

// cubes enumerates the satisfying assignments of the node as sorted strings,
// which for a reduced, ordered BDD identifies the function. Unconstrained
// variables are left out.
func (b *bddBuilder) cubes(n rudd.Node) ([]string, error) {
	var cubes []string
	err := b.bdd.Allsat(func(assignment []int) error {
		var sb strings.Builder
		for index, value := range assignment {
			if value < 0 || index >= len(b.keys) {
				continue
			}
			if value == 0 {
				sb.WriteByte('!')
			}
			sb.WriteString(b.keys[index])
			sb.WriteByte(';')
		}
		cubes = append(cubes, sb.String())
		return nil
	}, n)
	if err != nil {
		return nil, err
	}

	slices.Sort(cubes)
	return cubes, nil
}
