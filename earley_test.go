package linguist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGrammar(t *testing.T, start string, prods ...*Production) *Grammar {
	t.Helper()
	g, err := NewGrammar(start, prods)
	require.NoError(t, err)
	return g
}

func mustParser(t *testing.T, g *Grammar) *Parser {
	t.Helper()
	p, err := NewParser(g)
	require.NoError(t, err)
	return p
}

func TestRecognize(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		prods  []*Production
		accept []string
		deny   []string
	}{
		{
			name:  "right recursive list",
			start: "S",
			prods: []*Production{
				NewProduction("S", T('a'), NT("S")),
				NewProduction("S", T('b')),
			},
			accept: []string{"b", "ab", "aaaab"},
			deny:   []string{"", "a", "ba", "abb"},
		},
		{
			name:  "ambiguous doubling",
			start: "S",
			prods: []*Production{
				NewProduction("S", NT("S"), NT("S")),
				NewProduction("S", T('a')),
			},
			accept: []string{"a", "aa", "aaaa"},
			deny:   []string{"", "b", "ab"},
		},
		{
			name:  "nullable start",
			start: "S",
			prods: []*Production{
				NewProduction("S"),
				NewProduction("S", T('a'), NT("S")),
			},
			accept: []string{"", "a", "aaaaa"},
			deny:   []string{"b", "ab"},
		},
		{
			name:  "nullable in the middle",
			start: "S",
			prods: []*Production{
				NewProduction("S", T('a'), NT("A"), T('b')),
				NewProduction("A"),
				NewProduction("A", T('x')),
			},
			accept: []string{"ab", "axb"},
			deny:   []string{"a", "b", "axxb"},
		},
		{
			name:  "wildcard matches any one token",
			start: "S",
			prods: []*Production{
				NewProduction("S", T('<'), Dot(), T('>')),
			},
			accept: []string{"<a>", "<+>", "<<>"},
			deny:   []string{"<>", "<ab>"},
		},
		{
			name:  "left recursion",
			start: "E",
			prods: []*Production{
				NewProduction("E", NT("E"), T('+'), NT("E")),
				NewProduction("E", T('1')),
			},
			accept: []string{"1", "1+1", "1+1+1"},
			deny:   []string{"+", "1+", "+1"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := mustParser(t, mustGrammar(t, test.start, test.prods...))
			for _, input := range test.accept {
				assert.True(t, p.Recognize(input), "should recognize %q", input)
			}
			for _, input := range test.deny {
				assert.False(t, p.Recognize(input), "should not recognize %q", input)
			}
		})
	}
}

func TestChart_ItemsAreDeduplicated(t *testing.T) {
	g := mustGrammar(t, "S",
		NewProduction("S", NT("A"), NT("A")),
		NewProduction("A", T('a')),
	)
	c := buildChart(g, []rune("aa"))

	for i, set := range c.sets {
		seen := map[item]bool{}
		for _, it := range set.items {
			assert.False(t, seen[it], "duplicate item %s in S[%d]", it, i)
			seen[it] = true
		}
	}
}

func TestChart_FinalSetIsClosed(t *testing.T) {
	// The completion of A at the last position must still trigger
	// the completion of S there.
	g := mustGrammar(t, "S",
		NewProduction("S", NT("A")),
		NewProduction("A", T('a')),
	)
	c := buildChart(g, []rune("a"))
	assert.True(t, c.accepted(g))
}

func TestChartEntries(t *testing.T) {
	p := mustParser(t, mustGrammar(t, "S",
		NewProduction("S", T('a')),
	))
	entries := p.ChartEntries("a")
	require.NotEmpty(t, entries)

	assert.Equal(t, 0, entries[0].Set)
	assert.Equal(t, "[S -> • 'a', 0]", entries[0].Item)

	last := entries[len(entries)-1]
	assert.Equal(t, 1, last.Set)
	assert.True(t, last.Complete)
	assert.Equal(t, "[S -> 'a' •, 0]", last.Item)
}

func TestItem_String(t *testing.T) {
	prod := NewProduction("S", T('a'), NT("S"))
	assert.Equal(t, "[S -> • 'a' S, 0]", item{prod: prod}.String())
	assert.Equal(t, "[S -> 'a' • S, 2]", item{prod: prod, dot: 1, origin: 2}.String())
	assert.Equal(t, "[S -> 'a' S •, 0]", item{prod: prod, dot: 2}.String())
}
