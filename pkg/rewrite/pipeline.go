package rewrite

var structuralRules = []Rule{
	RemoveDummyNodes,
	FlattenSame(And),
	FlattenSame(Or),
}

// SimplifyRules removes dummy nodes and flattens nested nodes of the same kind.
var SimplifyRules = withStructural()

// NormalFormRules returns the rules reducing a tree to a normal form whose root
// is of the given kind: And for CNF, Or for DNF. Negations are pushed down to
// the leaves before the dual kind is distributed, which only happens once no
// cheaper rule applies.
func NormalFormRules(kind Kind) []Rule {
	return withStructural(
		DeMorgan(kind),
		DeMorgan(kind.Dual()),
		Distribution(kind.Dual()),
	)
}

var (
	// CNFRules reduce a tree to conjunctive normal form.
	CNFRules = NormalFormRules(And)

	// DNFRules reduce a tree to disjunctive normal form.
	DNFRules = NormalFormRules(Or)

	// ComparisonRules leave only =, < and > comparisons, none of them a
	// negated strict inequality.
	ComparisonRules = withStructural(NonStrictInequality, NegatedStrictInequality)

	// EnumRules gather equalities into membership tests and merge membership
	// tests on the same field.
	EnumRules = withStructural(Collect2, UniteEnums)
)

func withStructural(rules ...Rule) []Rule {
	combined := make([]Rule, 0, len(structuralRules)+len(rules))
	combined = append(combined, structuralRules...)
	return append(combined, rules...)
}

// Simplify reduces the tree with SimplifyRules.
func Simplify(e Element, opts ...ReduceOptionsOption) (Element, error) {
	return Reduce(e, SimplifyRules, opts...)
}

// ToCNF reduces the tree to conjunctive normal form: a leaf, an OR of leaves, or
// an AND of leaves and ORs of leaves.
func ToCNF(e Element, opts ...ReduceOptionsOption) (Element, error) {
	return Reduce(e, CNFRules, opts...)
}

// ToDNF reduces the tree to disjunctive normal form: a leaf, an AND of leaves,
// or an OR of leaves and ANDs of leaves.
func ToDNF(e Element, opts ...ReduceOptionsOption) (Element, error) {
	return Reduce(e, DNFRules, opts...)
}

// NormalizeComparisons reduces the tree with ComparisonRules.
func NormalizeComparisons(e Element, opts ...ReduceOptionsOption) (Element, error) {
	return Reduce(e, ComparisonRules, opts...)
}

// CollectEnums reduces the tree with EnumRules.
func CollectEnums(e Element, opts ...ReduceOptionsOption) (Element, error) {
	return Reduce(e, EnumRules, opts...)
}
