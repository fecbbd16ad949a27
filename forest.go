package linguist

import (
	"fmt"
	"strings"
)

// ForestElem is a child slot inside a forest alternative: either
// another forest node, for non-terminal symbols, or a Leaf for
// terminal symbols.
type ForestElem interface {
	Range() Range
	forestElem()
}

// Leaf is a terminal occurrence in the forest, spanning exactly one
// input position.
type Leaf struct {
	Token rune
	Start int
}

func (l *Leaf) Range() Range   { return NewRange(l.Start, l.Start+1) }
func (l *Leaf) forestElem()    {}
func (l *Leaf) String() string { return fmt.Sprintf("'%c' @ %d", l.Token, l.Start) }

// ForestNode packs every derivation of one production over one input
// span.  Each alternative is an ordered list of children, one per
// right-hand side symbol.  A node with two or more alternatives is an
// OR-node.
type ForestNode struct {
	Prod  *Production
	Start int
	End   int
	Alts  [][]ForestElem
}

func (n *ForestNode) Range() Range { return NewRange(n.Start, n.End) }
func (n *ForestNode) forestElem()  {}

func (n *ForestNode) String() string {
	return fmt.Sprintf("(%s, %d, %d)", n.Prod, n.Start, n.End)
}

type nodeKey struct {
	prod  *Production
	start int
	end   int
}

type lhsAt struct {
	lhs string
	at  int
}

// Forest is the shared packed parse forest built from the
// recognizer's chart, already pruned by the grammar's disambiguation
// rules.  It is owned by a single parse; the DAG itself is immutable
// once built, so tree enumerations can run independently.
type Forest struct {
	input    []rune
	grammar  *Grammar
	rules    *ruleSet
	nodes    map[nodeKey]*ForestNode
	order    []*ForestNode
	byLhsAt  map[lhsAt][]*ForestNode
	roots    []*ForestNode
	warnings []string

	countMemo map[*ForestNode]int
}

// newForest mints one node per completed chart item, links the
// alternatives of every node, and prunes the result down to the
// derivations the validator accepts.
func newForest(g *Grammar, rules *ruleSet, input []rune, c *chart) *Forest {
	f := &Forest{
		input:   input,
		grammar: g,
		rules:   rules,
		nodes:   map[nodeKey]*ForestNode{},
		byLhsAt: map[lhsAt][]*ForestNode{},
	}

	// Repeated completions of the same production over the same span
	// coalesce into a single node.
	for j, set := range c.sets {
		for _, it := range set.items {
			if !it.complete() {
				continue
			}
			key := nodeKey{prod: it.prod, start: it.origin, end: j}
			if f.nodes[key] != nil {
				continue
			}
			nd := &ForestNode{Prod: it.prod, Start: it.origin, End: j}
			f.nodes[key] = nd
			f.order = append(f.order, nd)
			at := lhsAt{lhs: it.prod.Lhs, at: it.origin}
			f.byLhsAt[at] = append(f.byLhsAt[at], nd)
		}
	}

	n := len(input)
	for _, nd := range f.byLhsAt[lhsAt{lhs: g.Start(), at: 0}] {
		if nd.End == n {
			f.roots = append(f.roots, nd)
		}
	}
	if len(f.roots) == 0 {
		f.nodes = map[nodeKey]*ForestNode{}
		f.order = nil
		f.byLhsAt = map[lhsAt][]*ForestNode{}
		return f
	}

	for _, nd := range f.order {
		nd.Alts = f.buildAlts(nd)
	}
	f.gc()
	f.disambiguate()
	return f
}

// buildAlts enumerates every way the right-hand side symbols of the
// node's production can be spelled out by children across the node's
// span.  Partial child lists advance a cursor left to right; a
// partial survives a symbol only if a child starting at its cursor
// exists, and an alternative is accepted only if the cursor lands
// exactly on the node's end.
func (f *Forest) buildAlts(nd *ForestNode) [][]ForestElem {
	type partial struct {
		children []ForestElem
		at       int
	}
	parts := []partial{{at: nd.Start}}

	for _, sym := range nd.Prod.Rhs {
		var next []partial
		for _, pt := range parts {
			switch sym.Kind {
			case SymbolKind_Terminal, SymbolKind_Wildcard:
				if pt.at < nd.End && sym.Matches(f.input[pt.at]) {
					children := append(append([]ForestElem{}, pt.children...), &Leaf{Token: f.input[pt.at], Start: pt.at})
					next = append(next, partial{children: children, at: pt.at + 1})
				}
			case SymbolKind_NonTerminal:
				for _, child := range f.byLhsAt[lhsAt{lhs: sym.Name, at: pt.at}] {
					// Self-reference over the same span would make the
					// node its own descendant.
					if child == nd || child.End > nd.End {
						continue
					}
					children := append(append([]ForestElem{}, pt.children...), child)
					next = append(next, partial{children: children, at: child.End})
				}
			}
		}
		parts = next
	}

	var alts [][]ForestElem
	seen := map[string]bool{}
	for _, pt := range parts {
		if pt.at != nd.End {
			continue
		}
		sig := altSignature(pt.children)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		alts = append(alts, pt.children)
	}
	return alts
}

func altSignature(children []ForestElem) string {
	var s strings.Builder
	for _, c := range children {
		fmt.Fprintf(&s, "%p;", c)
	}
	return s.String()
}

// kill discards a node and every alternative it had
func (f *Forest) kill(nd *ForestNode) {
	nd.Alts = nil
}

// gc iteratively removes dead nodes (zero alternatives) and the
// alternatives that reference them, until a fixed point.  Root nodes
// that die are removed from the root set.
func (f *Forest) gc() {
	for changed := true; changed; {
		changed = false
		for _, nd := range f.order {
			if len(nd.Alts) == 0 {
				continue
			}
			kept := nd.Alts[:0]
			for _, alt := range nd.Alts {
				ok := true
				for _, child := range alt {
					if cn, isNode := child.(*ForestNode); isNode && len(cn.Alts) == 0 {
						ok = false
						break
					}
				}
				if ok {
					kept = append(kept, alt)
				}
			}
			if len(kept) != len(nd.Alts) {
				nd.Alts = kept
				changed = true
			}
		}
	}
	f.sweep()
}

// sweep rebuilds the node indexes, dropping every dead node and
// every node no root can reach anymore
func (f *Forest) sweep() {
	reachable := map[*ForestNode]bool{}
	var mark func(nd *ForestNode)
	mark = func(nd *ForestNode) {
		if reachable[nd] || len(nd.Alts) == 0 {
			return
		}
		reachable[nd] = true
		for _, alt := range nd.Alts {
			for _, child := range alt {
				if cn, ok := child.(*ForestNode); ok {
					mark(cn)
				}
			}
		}
	}
	for _, root := range f.roots {
		mark(root)
	}

	order := f.order[:0]
	nodes := map[nodeKey]*ForestNode{}
	byLhsAt := map[lhsAt][]*ForestNode{}
	for _, nd := range f.order {
		if !reachable[nd] {
			continue
		}
		order = append(order, nd)
		nodes[nodeKey{prod: nd.Prod, start: nd.Start, end: nd.End}] = nd
		at := lhsAt{lhs: nd.Prod.Lhs, at: nd.Start}
		byLhsAt[at] = append(byLhsAt[at], nd)
	}
	f.order = order
	f.nodes = nodes
	f.byLhsAt = byLhsAt

	roots := f.roots[:0]
	for _, nd := range f.roots {
		if len(nd.Alts) > 0 {
			roots = append(roots, nd)
		}
	}
	f.roots = roots
}

// yield returns the input slice spanned by the node
func (f *Forest) yield(nd *ForestNode) string {
	return NewRange(nd.Start, nd.End).Str(f.input)
}

// Input returns the input the forest was parsed from
func (f *Forest) Input() string { return string(f.input) }

// NodeCount returns the number of live forest nodes
func (f *Forest) NodeCount() int { return len(f.order) }

// Roots returns the surviving root nodes, in discovery order
func (f *Forest) Roots() []*ForestNode { return f.roots }

// Warnings returns parse-time diagnostics, such as a literal-yield
// follow restriction that was never consulted
func (f *Forest) Warnings() []string { return f.warnings }
