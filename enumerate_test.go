package linguist

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerate_SingleTree(t *testing.T) {
	p := mustParser(t, mustGrammar(t, "S",
		NewProduction("S", T('a'), NT("S")),
		NewProduction("S", T('b')),
	))
	f := p.Parse("aaaab")
	require.Equal(t, 1, f.Count())
	assert.Equal(t,
		[]string{"[S,a,[S,a,[S,a,[S,a,[S,b]]]]]"},
		treeStrings(f))
}

func TestEnumerate_CatalanCount(t *testing.T) {
	// S -> S S | 'a' over aⁿ yields the Catalan numbers
	p := mustParser(t, mustGrammar(t, "S",
		NewProduction("S", NT("S"), NT("S")),
		NewProduction("S", T('a')),
	))
	catalan := map[int]int{1: 1, 2: 1, 3: 2, 4: 5, 5: 14}
	for n, expected := range catalan {
		input := ""
		for i := 0; i < n; i++ {
			input += "a"
		}
		f := p.Parse(input)
		assert.Equal(t, expected, f.Count(), "count over %q", input)
		assert.Len(t, treeStrings(f), expected, "enumeration over %q", input)
	}
}

func TestEnumerate_EachTreeExactlyOnce(t *testing.T) {
	p := mustParser(t, mustGrammar(t, "S",
		NewProduction("S", NT("S"), NT("S")),
		NewProduction("S", T('a')),
	))
	f := p.Parse("aaaa")

	seen := map[string]bool{}
	for _, s := range treeStrings(f) {
		assert.False(t, seen[s], "tree %s produced twice", s)
		seen[s] = true
	}
	assert.Len(t, seen, 5)
}

func TestEnumerate_TreeLegality(t *testing.T) {
	p := mustParser(t, mustGrammar(t, "S",
		NewProduction("S", NT("S"), NT("S")),
		NewProduction("S", T('a')),
	))
	input := "aaaa"
	seq := p.Parse(input).Trees()
	for {
		tree, ok := seq.Next()
		if !ok {
			break
		}
		root := tree.(*RuleNode)
		assert.Equal(t, "S", root.Prod.Lhs)
		assert.Equal(t, NewRange(0, len(input)), root.Range())

		root.Walk(func(n *RuleNode) {
			assert.Equal(t, input[n.Range().Start:n.Range().End], n.Text())
		})
	}
}

func TestEnumerate_IndependentOrNodesMultiply(t *testing.T) {
	// Two OR-nodes living in disjoint subtrees: every combination
	// of their branches must be visited.
	g := mustGrammar(t, "S",
		NewProduction("S", NT("X"), NT("X")),
		NewProduction("X", NT("A"), NT("A")),
		NewProduction("A", T('a')),
		NewProduction("A"),
	)
	f := mustParser(t, g).Parse("aa")

	// splits (0,0)+(0,2), (0,1)+(1,2) with 2x2 branches, (0,2)+(2,2)
	trees := treeStrings(f)
	assert.Equal(t, 6, f.Count())
	assert.Len(t, trees, 6)

	seen := map[string]bool{}
	for _, s := range trees {
		seen[s] = true
	}
	assert.Len(t, seen, 6)
	assert.True(t, seen["[S,[X,[A,a],[A]],[X,[A],[A,a]]]"], "cartesian combination missing")
	assert.True(t, seen["[S,[X,[A],[A,a]],[X,[A,a],[A]]]"], "cartesian combination missing")
}

func TestEnumerate_IsDeterministic(t *testing.T) {
	p := mustParser(t, mustGrammar(t, "S",
		NewProduction("S", NT("S"), NT("S")),
		NewProduction("S", T('a')),
	))
	f := p.Parse("aaaa")
	first := treeStrings(f)
	second := treeStrings(f)
	assert.Equal(t, first, second)
}

func TestEnumerate_ForestIsReentrant(t *testing.T) {
	// Two enumerations of the same forest interleaved: cursor state
	// lives in the sequences, never in the forest.
	p := mustParser(t, mustGrammar(t, "S",
		NewProduction("S", NT("S"), NT("S")),
		NewProduction("S", T('a')),
	))
	f := p.Parse("aaa")

	a, b := f.Trees(), f.Trees()
	ta1, _ := a.Next()
	tb1, _ := b.Next()
	ta2, _ := a.Next()
	tb2, _ := b.Next()

	assert.Equal(t, ta1.String(), tb1.String())
	assert.Equal(t, ta2.String(), tb2.String())
	assert.NotEqual(t, ta1.String(), ta2.String())
}

func TestEnumerate_NextAfterExhaustion(t *testing.T) {
	p := mustParser(t, mustGrammar(t, "S",
		NewProduction("S", T('a')),
	))
	seq := p.Parse("a").Trees()

	_, ok := seq.Next()
	require.True(t, ok)
	for i := 0; i < 3; i++ {
		_, ok = seq.Next()
		assert.False(t, ok)
	}
}

func TestEnumerate_Collect(t *testing.T) {
	p := mustParser(t, mustGrammar(t, "S",
		NewProduction("S", NT("S"), NT("S")),
		NewProduction("S", T('a')),
	))
	f := p.Parse("aaaa")

	assert.Len(t, f.Trees().Collect(2), 2)
	assert.Len(t, f.Trees().Collect(0), 5)
	assert.Len(t, f.Trees().Collect(100), 5)
}

func TestEnumerate_TreeValues(t *testing.T) {
	p := mustParser(t, mustGrammar(t, "S",
		NewProduction("S", T('a'), NT("S")),
		NewProduction("S", T('b')),
	))
	tree, ok := p.Parse("ab").Trees().Next()
	require.True(t, ok)

	root := tree.(*RuleNode)
	expected := NewRuleNode(
		root.Prod,
		[]Tree{
			NewTokenNode('a', NewRange(0, 1)),
			NewRuleNode(root.Children[1].(*RuleNode).Prod, []Tree{
				NewTokenNode('b', NewRange(1, 2)),
			}, NewRange(1, 2)),
		},
		NewRange(0, 2),
	)
	if diff := cmp.Diff(expected.String(), root.String()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "ab", root.Text())
}

func TestCount_DoesNotMaterialize(t *testing.T) {
	// Dense ambiguity: the count is cheap even where enumeration
	// would be expensive.
	p := mustParser(t, mustGrammar(t, "S",
		NewProduction("S", NT("S"), NT("S")),
		NewProduction("S", T('a')),
	))
	input := ""
	for i := 0; i < 12; i++ {
		input += "a"
	}
	f := p.Parse(input)
	// Catalan(11)
	assert.Equal(t, 58786, f.Count())
}
