package linguist

import (
	"strings"
)

type FormatToken int

const (
	FormatToken_None FormatToken = iota
	FormatToken_Range
	FormatToken_Literal
	FormatToken_Error
)

// FormatFn lets hosts decorate printed tree fragments, e.g. with
// terminal colors
type FormatFn func(input string, token FormatToken) string

// Tree is a single parse tree drawn from the forest.  Rule nodes
// carry the production that derived them; token nodes are the input
// tokens consumed.
type Tree interface {
	Range() Range
	String() string
	Text() string
	Type() string
	Accept(TreeVisitor) error
	Format(FormatFn) string
}

type TreeVisitor interface {
	VisitToken(n *TokenNode) error
	VisitRule(n *RuleNode) error
}

// Token Tree

type TokenNode struct {
	rng   Range
	Token rune
}

func NewTokenNode(tok rune, rng Range) *TokenNode {
	return &TokenNode{Token: tok, rng: rng}
}

func (n TokenNode) Type() string               { return "token" }
func (n TokenNode) Range() Range               { return n.rng }
func (n TokenNode) String() string             { return string(n.Token) }
func (n TokenNode) Text() string               { return string(n.Token) }
func (n TokenNode) Accept(v TreeVisitor) error { return v.VisitToken(&n) }
func (n TokenNode) Format(fn FormatFn) string  { return formatTree(n, fn) }

// Rule Tree

type RuleNode struct {
	rng      Range
	Prod     *Production
	Children []Tree

	// Sem is the slot the annotation hook binds semantic behavior
	// to, keyed by the node's production.
	Sem any
}

func NewRuleNode(prod *Production, children []Tree, rng Range) *RuleNode {
	return &RuleNode{Prod: prod, Children: children, rng: rng}
}

func (n *RuleNode) Type() string               { return "rule" }
func (n *RuleNode) Range() Range               { return n.rng }
func (n *RuleNode) Accept(v TreeVisitor) error { return v.VisitRule(n) }
func (n *RuleNode) Format(fn FormatFn) string  { return formatTree(n, fn) }

func (n *RuleNode) Text() string {
	var s strings.Builder
	for _, child := range n.Children {
		s.WriteString(child.Text())
	}
	return s.String()
}

// String renders the compact bracketed form, `[S,a,[S,b]]`
func (n *RuleNode) String() string {
	var s strings.Builder
	s.WriteString("[")
	s.WriteString(n.Prod.Lhs)
	for _, child := range n.Children {
		s.WriteString(",")
		s.WriteString(child.String())
	}
	s.WriteString("]")
	return s.String()
}

// Walk calls fn on this node and then on every rule node below it,
// depth first, left to right
func (n *RuleNode) Walk(fn func(*RuleNode)) {
	fn(n)
	for _, child := range n.Children {
		if rule, ok := child.(*RuleNode); ok {
			rule.Walk(fn)
		}
	}
}

func formatTree(tree Tree, fn FormatFn) string {
	p := NewTreePrinter(fn)
	tree.Accept(p)
	return p.Output()
}
