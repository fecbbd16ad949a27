package linguist

import (
	"fmt"
	"strings"
)

// The surface grammar builder: regex-like combinators that compose
// into expressions, and a GrammarBuilder that lowers named
// definitions into a BNF-normalized Grammar.  Quantifiers and nested
// groups expand into fresh helper non-terminals (`name$1`, `name$2`,
// …); character ranges into one production per rune.

// Expr is a grammar expression prior to BNF normalization
type Expr interface {
	// Text is the representation of the expression in the grammar
	// notation, useful for stringifying a grammar again
	Text() string
}

// Expr Type: Literal

type LitExpr struct{ Value string }

func Lit(value string) *LitExpr { return &LitExpr{Value: value} }

func (e LitExpr) Text() string { return "'" + e.Value + "'" }

// Expr Type: Reference

type RefExpr struct{ Name string }

func Ref(name string) *RefExpr { return &RefExpr{Name: name} }

func (e RefExpr) Text() string { return e.Name }

// Expr Type: Any

type AnyExpr struct{}

func Any() *AnyExpr { return &AnyExpr{} }

func (e AnyExpr) Text() string { return "." }

// Expr Type: Range

type RngExpr struct{ Lo, Hi rune }

func Rng(lo, hi rune) *RngExpr { return &RngExpr{Lo: lo, Hi: hi} }

func (e RngExpr) Text() string { return fmt.Sprintf("[%c-%c]", e.Lo, e.Hi) }

// Expr Type: Sequence

type SeqExpr struct{ Items []Expr }

func Seq(items ...Expr) *SeqExpr { return &SeqExpr{Items: items} }

func (e SeqExpr) Text() string {
	parts := make([]string, len(e.Items))
	for i, item := range e.Items {
		parts[i] = item.Text()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Expr Type: Ordered alternatives

type AltExpr struct{ Items []Expr }

func Alt(items ...Expr) *AltExpr { return &AltExpr{Items: items} }

func (e AltExpr) Text() string {
	parts := make([]string, len(e.Items))
	for i, item := range e.Items {
		parts[i] = item.Text()
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

// Expr Type: Kleene star

type KleeneExpr struct{ Body Expr }

func Kleene(body Expr) *KleeneExpr { return &KleeneExpr{Body: body} }

func (e KleeneExpr) Text() string { return e.Body.Text() + "*" }

// Expr Type: One or more

type PlusExpr struct{ Body Expr }

func Plus(body Expr) *PlusExpr { return &PlusExpr{Body: body} }

func (e PlusExpr) Text() string { return e.Body.Text() + "+" }

// Expr Type: Optional

type OptExpr struct{ Body Expr }

func Optional(body Expr) *OptExpr { return &OptExpr{Body: body} }

func (e OptExpr) Text() string { return e.Body.Text() + "?" }

// Expr Type: Label

type LabelExpr struct {
	Name string
	Body Expr
}

// Label names a sub-expression: the body becomes an alternative of a
// real non-terminal called `name`, visible in the parse trees.
func Label(name string, body Expr) *LabelExpr { return &LabelExpr{Name: name, Body: body} }

func (e LabelExpr) Text() string { return e.Name + ":" + e.Body.Text() }

type definition struct {
	name string
	expr Expr
}

// GrammarBuilder accumulates named definitions and lowers them into
// a BNF-normalized grammar
type GrammarBuilder struct {
	defs  []definition
	prods []*Production
	fresh map[string]int
}

func NewGrammarBuilder() *GrammarBuilder {
	return &GrammarBuilder{fresh: map[string]int{}}
}

// Define adds the definition `name -> expr`.  Defining the same name
// twice appends alternatives.
func (b *GrammarBuilder) Define(name string, expr Expr) *GrammarBuilder {
	b.defs = append(b.defs, definition{name: name, expr: expr})
	return b
}

// Build lowers every definition into a grammar with `start` as the
// start symbol.  The grammar is frozen once a parser is built from it.
func (b *GrammarBuilder) Build(start string) (*Grammar, error) {
	b.prods = nil
	for _, def := range b.defs {
		if err := b.lowerDefinition(def.name, def.expr); err != nil {
			return nil, err
		}
	}
	return NewGrammar(start, b.prods)
}

func (b *GrammarBuilder) lowerDefinition(name string, expr Expr) error {
	for _, alt := range topAlternatives(expr) {
		syms, err := b.sequence(name, alt)
		if err != nil {
			return err
		}
		b.prods = append(b.prods, NewProduction(name, syms...))
	}
	return nil
}

// topAlternatives flattens a top-level Alt so each branch becomes
// its own production instead of a helper non-terminal
func topAlternatives(expr Expr) []Expr {
	if alt, ok := expr.(*AltExpr); ok {
		return alt.Items
	}
	return []Expr{expr}
}

// sequence lowers an expression into the flat symbol list of one
// production body, minting helper non-terminals along the way
func (b *GrammarBuilder) sequence(owner string, expr Expr) ([]Symbol, error) {
	switch e := expr.(type) {
	case *SeqExpr:
		var syms []Symbol
		for _, item := range e.Items {
			part, err := b.sequence(owner, item)
			if err != nil {
				return nil, err
			}
			syms = append(syms, part...)
		}
		return syms, nil

	case *LitExpr:
		if e.Value == "" {
			return nil, grammarErrorf("empty terminal literal in %q", owner)
		}
		var syms []Symbol
		for _, r := range e.Value {
			syms = append(syms, T(r))
		}
		return syms, nil

	case *RefExpr:
		return []Symbol{NT(e.Name)}, nil

	case *AnyExpr:
		return []Symbol{Dot()}, nil

	case *RngExpr:
		if e.Hi < e.Lo {
			return nil, grammarErrorf("malformed range [%c-%c] in %q", e.Lo, e.Hi, owner)
		}
		helper := b.mint(owner)
		for r := e.Lo; r <= e.Hi; r++ {
			b.prods = append(b.prods, NewProduction(helper, T(r)))
		}
		return []Symbol{NT(helper)}, nil

	case *AltExpr:
		helper := b.mint(owner)
		for _, item := range e.Items {
			syms, err := b.sequence(helper, item)
			if err != nil {
				return nil, err
			}
			b.prods = append(b.prods, NewProduction(helper, syms...))
		}
		return []Symbol{NT(helper)}, nil

	case *KleeneExpr:
		helper := b.mint(owner)
		body, err := b.sequence(helper, e.Body)
		if err != nil {
			return nil, err
		}
		b.prods = append(b.prods, NewProduction(helper))
		b.prods = append(b.prods, NewProduction(helper, append(body, NT(helper))...))
		return []Symbol{NT(helper)}, nil

	case *PlusExpr:
		helper := b.mint(owner)
		body, err := b.sequence(helper, e.Body)
		if err != nil {
			return nil, err
		}
		b.prods = append(b.prods, NewProduction(helper, body...))
		b.prods = append(b.prods, NewProduction(helper, append(append([]Symbol{}, body...), NT(helper))...))
		return []Symbol{NT(helper)}, nil

	case *OptExpr:
		helper := b.mint(owner)
		body, err := b.sequence(helper, e.Body)
		if err != nil {
			return nil, err
		}
		b.prods = append(b.prods, NewProduction(helper))
		b.prods = append(b.prods, NewProduction(helper, body...))
		return []Symbol{NT(helper)}, nil

	case *LabelExpr:
		if err := b.lowerDefinition(e.Name, e.Body); err != nil {
			return nil, err
		}
		return []Symbol{NT(e.Name)}, nil

	default:
		return nil, grammarErrorf("unknown expression %T in %q", expr, owner)
	}
}

// mint returns a fresh helper non-terminal name owned by `owner`.
// The `$` keeps helpers out of the notation's identifier space.
func (b *GrammarBuilder) mint(owner string) string {
	base := strings.SplitN(owner, "$", 2)[0]
	b.fresh[base]++
	return fmt.Sprintf("%s$%d", base, b.fresh[base])
}
