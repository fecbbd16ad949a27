package linguist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notationParser(t *testing.T, src string) *Parser {
	t.Helper()
	g, err := ParseNotation(src)
	require.NoError(t, err)
	return mustParser(t, g)
}

func TestNotation_Rules(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		accept []string
		deny   []string
	}{
		{
			name:   "plain alternatives",
			src:    `S -> 'a' S | 'b' ;`,
			accept: []string{"b", "aab"},
			deny:   []string{"", "a"},
		},
		{
			name: "comments and multi rune literals",
			src: `# greeting
			S -> 'hi' | 'bye' ;`,
			accept: []string{"hi", "bye"},
			deny:   []string{"h", "hibye"},
		},
		{
			name:   "quantifiers",
			src:    `S -> 'a'* 'b'+ 'c'? ;`,
			accept: []string{"b", "ab", "aabbc"},
			deny:   []string{"", "a", "cc"},
		},
		{
			name:   "groups",
			src:    `S -> ('a' | 'b') 'x' ;`,
			accept: []string{"ax", "bx"},
			deny:   []string{"x", "abx"},
		},
		{
			name:   "classes",
			src:    `H -> '0x' [0-9a-f_]+ ;`,
			accept: []string{"0x0", "0xff", "0xa_1"},
			deny:   []string{"0x", "0xg"},
		},
		{
			name:   "wildcard",
			src:    `S -> '<' . '>' ;`,
			accept: []string{"<a>", "<.>"},
			deny:   []string{"<>", "<ab>"},
		},
		{
			name:   "escapes in literals",
			src:    `S -> '\'' . '\'' ;`,
			accept: []string{"'a'"},
			deny:   []string{"''"},
		},
		{
			name:   "epsilon alternative",
			src:    `S -> 'a' S | ;`,
			accept: []string{"", "aaa"},
			deny:   []string{"b"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := notationParser(t, test.src)
			for _, input := range test.accept {
				assert.True(t, p.Recognize(input), "should recognize %q", input)
			}
			for _, input := range test.deny {
				assert.False(t, p.Recognize(input), "should not recognize %q", input)
			}
		})
	}
}

func TestNotation_StartIsFirstRule(t *testing.T) {
	g, err := ParseNotation(`
		A -> B ;
		B -> 'b' ;
	`)
	require.NoError(t, err)
	assert.Equal(t, "A", g.Start())
}

func TestNotation_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "empty notation", src: "  # nothing here\n"},
		{name: "missing semicolon", src: `S -> 'a'`},
		{name: "missing arrow", src: `S 'a' ;`},
		{name: "unterminated literal", src: `S -> 'a ;`},
		{name: "unterminated class", src: `S -> [a-z ;`},
		{name: "bad regex", src: "S -> 'a' ;\n%reject S /)/ ;"},
		{name: "alternative index out of range", src: "S -> 'a' ;\n%left S/3 ;"},
		{name: "unterminated directive", src: "S -> 'a' ;\n%left S/0"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseNotation(test.src)
			require.Error(t, err)
		})
	}
}

func TestNotation_RejectDirectives(t *testing.T) {
	p := notationParser(t, `
		ID -> CHAR+ ;
		CHAR -> 'a' | 'b' | 'c' ;
		%reject ID 'aaa' ;
		%reject ID /c+/ ;
	`)

	for _, input := range []string{"aaa", "c", "cc", "ccc"} {
		assert.Equal(t, 0, p.Parse(input).Count(), "input %q", input)
	}
	assert.Equal(t, 1, p.Parse("abc").Count())
}

func TestNotation_FollowDirective(t *testing.T) {
	p := notationParser(t, `
		S -> A 'b' | A 'c' ;
		A -> 'a' ;
		%follow A /b/ ;
	`)
	assert.Equal(t, 0, p.Parse("ab").Count())
	assert.Equal(t, 1, p.Parse("ac").Count())
}

func TestNotation_FollowDirective_LiteralYield(t *testing.T) {
	p := notationParser(t, `
		S -> A 'b' | A 'c' ;
		A -> 'a' | 'x' ;
		%follow 'a' /b/ ;
	`)
	assert.Equal(t, 0, p.Parse("ab").Count())
	assert.Equal(t, 1, p.Parse("xb").Count())
}

func TestNotation_PreferDirective(t *testing.T) {
	p := notationParser(t, `
		S -> 'i' C 't' S | 'i' C 't' S 'e' S | 'x' ;
		C -> 'c' ;
		%prefer S/0 ;
	`)
	f := p.Parse("ictictxex")
	require.Equal(t, 1, f.Count())
	assert.Equal(t,
		[]string{"[S,i,[C,c],t,[S,i,[C,c],t,[S,x],e,[S,x]]]"},
		treeStrings(f))
}

func TestNotation_AssociativityDirectives(t *testing.T) {
	p := notationParser(t, `
		S -> S '+' S | 'a' ;
		%left S/0 ;
	`)
	f := p.Parse("a+a+a")
	require.Equal(t, 1, f.Count())
	assert.Equal(t, []string{"[S,[S,[S,a],+,[S,a]],+,[S,a]]"}, treeStrings(f))
}

// infix renders expression trees back to fully parenthesized text
func infix(tree Tree) string {
	n, ok := tree.(*RuleNode)
	if !ok {
		return tree.Text()
	}
	switch len(n.Children) {
	case 1:
		return infix(n.Children[0])
	case 3:
		return "(" + infix(n.Children[0]) + infix(n.Children[1]) + infix(n.Children[2]) + ")"
	default:
		return n.Text()
	}
}

func TestNotation_Calculator(t *testing.T) {
	p := notationParser(t, `
		# four operations plus exponentiation
		E -> E '+' E | E '-' E | E '*' E | E '/' E | E '^' E | N ;
		N -> [0-9] ;

		%left E/0 E/1 ;
		%left E/2 E/3 ;
		%right E/4 ;
		%priority E/4 > E/2 > E/0 ;
		%priority E/4 > E/3 > E/1 ;
		%priority E/2 > E/1 ;
		%priority E/3 > E/0 ;
	`)

	tests := []struct {
		input    string
		expected string
	}{
		{"1-2*3^4+5", "((1-(2*(3^4)))+5)"},
		{"1+2*3", "(1+(2*3))"},
		{"1-2-3", "((1-2)-3)"},
		{"2^3^4", "(2^(3^4))"},
		{"8/4/2", "((8/4)/2)"},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			f := p.Parse(test.input)
			require.Equal(t, 1, f.Count(), "input %q", test.input)
			tree, _ := f.Trees().Next()
			assert.Equal(t, test.expected, infix(tree))
		})
	}
}
