// Package rewrite normalizes boolean predicate trees by term rewriting.
//
// A predicate.Predicate is turned into a mutable tree of Elements with
// CreateTree: *Node for AND/OR composites and *Leaf for atomic predicates, each
// carrying its own negation flag. Rules rewrite single elements in place;
// Reduce applies a priority-ordered list of rules until none of them fires,
// restarting from the first rule after every successful rewrite so that cheap,
// canonicalizing rules always run before expensive ones such as Distribution.
//
// The shipped rule lists (SimplifyRules, CNFRules, DNFRules, ComparisonRules,
// EnumRules) always converge. Constraint folds a tree back into a predicate.
//
// Trees are not safe for concurrent use.
package rewrite
