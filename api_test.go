package linguist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_RecognizeAndParseAgree(t *testing.T) {
	p := notationParser(t, `
		S -> S S | 'a' ;
	`)
	for _, input := range []string{"", "a", "aa", "ab", "aaaa", "b"} {
		recognized := p.Recognize(input)
		count := p.Parse(input).Count()
		assert.Equal(t, recognized, count > 0, "input %q", input)
	}
}

func TestNewParser_RequiresGrammar(t *testing.T) {
	_, err := NewParser(nil)
	require.Error(t, err)
	assert.IsType(t, GrammarError{}, err)
}

func TestParser_SharedAcrossInputs(t *testing.T) {
	p := notationParser(t, `S -> 'a' S | 'b' ;`)

	assert.Equal(t, 1, p.Parse("ab").Count())
	assert.Equal(t, 0, p.Parse("nope").Count())
	assert.Equal(t, 1, p.Parse("aaab").Count())
}

func TestUniqueAnnotated(t *testing.T) {
	p := notationParser(t, `S -> 'a' S | 'b' ;`)
	f := p.Parse("aab")
	require.Equal(t, 1, f.Count())

	root, err := f.UniqueAnnotated(func(n *RuleNode) {
		n.Sem = n.Prod.String()
	})
	require.NoError(t, err)

	visited := 0
	root.Walk(func(n *RuleNode) {
		visited++
		assert.Equal(t, n.Prod.String(), n.Sem)
	})
	assert.Equal(t, 3, visited)
}

func TestUniqueAnnotated_RefusesAmbiguity(t *testing.T) {
	p := notationParser(t, `S -> S S | 'a' ;`)

	f := p.Parse("aaa")
	require.Equal(t, 2, f.Count())
	_, err := f.UniqueAnnotated(nil)
	assert.Error(t, err)

	f = p.Parse("b")
	_, err = f.UniqueAnnotated(nil)
	assert.Error(t, err)
}

func TestUniqueAnnotated_Evaluation(t *testing.T) {
	// the annotation hook carries enough to build an evaluator on
	// top of the unique disambiguated tree
	p := notationParser(t, `
		E -> E '+' E | E '*' E | N ;
		N -> [0-9] ;
		%left E/0 ;
		%left E/1 ;
		%priority E/1 > E/0 ;
	`)

	var eval func(Tree) int
	eval = func(tree Tree) int {
		n, ok := tree.(*RuleNode)
		if !ok {
			return int(tree.(*TokenNode).Token - '0')
		}
		if op, ok := n.Sem.(rune); ok {
			l, r := eval(n.Children[0]), eval(n.Children[2])
			if op == '*' {
				return l * r
			}
			return l + r
		}
		return eval(n.Children[0])
	}

	f := p.Parse("1+2*3+4")
	root, err := f.UniqueAnnotated(func(n *RuleNode) {
		if len(n.Children) == 3 {
			n.Sem = n.Children[1].(*TokenNode).Token
		}
	})
	require.NoError(t, err)
	assert.Equal(t, 11, eval(root))
}

func TestWildcard_MatchesAnySingleToken(t *testing.T) {
	p := notationParser(t, `S -> . ;`)
	for _, input := range []string{"a", "z", "+", " ", "."} {
		assert.True(t, p.Recognize(input), "input %q", input)
		assert.Equal(t, 1, p.Parse(input).Count())
	}
	assert.False(t, p.Recognize(""))
	assert.False(t, p.Recognize("ab"))
}

func TestTreePrinter(t *testing.T) {
	p := notationParser(t, `S -> 'a' S | 'b' ;`)
	tree, ok := p.Parse("ab").Trees().Next()
	require.True(t, ok)

	expected := `S (0..2)
├── "a" (0..1)
└── S (1..2)
    └── "b" (1..2)`
	assert.Equal(t, expected, tree.Format(nil))
}
