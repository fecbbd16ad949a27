package linguist

import (
	"fmt"
	"strings"
)

// item is an Earley item: a production, a dot position within its
// right-hand side, and the input position at which recognition of the
// production began.  Productions are interned, so the struct itself
// is the item's value identity.
type item struct {
	prod   *Production
	dot    int
	origin int
}

func (it item) complete() bool {
	return it.dot >= len(it.prod.Rhs)
}

// next returns the symbol right after the dot
func (it item) next() (Symbol, bool) {
	if it.complete() {
		return Symbol{}, false
	}
	return it.prod.Rhs[it.dot], true
}

func (it item) advance() item {
	return item{prod: it.prod, dot: it.dot + 1, origin: it.origin}
}

func (it item) String() string {
	var s strings.Builder
	s.WriteString(it.prod.Lhs)
	s.WriteString(" ->")
	for i, sym := range it.prod.Rhs {
		if i == it.dot {
			s.WriteString(" •")
		}
		s.WriteString(" ")
		s.WriteString(sym.String())
	}
	if it.complete() {
		s.WriteString(" •")
	}
	return fmt.Sprintf("[%s, %d]", s.String(), it.origin)
}

// itemSet is one entry of the chart: the set of items whose dot
// position is reached after consuming a given prefix of the input.
// Items are kept in insertion order so the classic worklist iteration
// can index each item exactly once as it is appended.
type itemSet struct {
	items []item
	index map[item]bool
}

func newItemSet() *itemSet {
	return &itemSet{index: map[item]bool{}}
}

// add appends the item unless an equal one is already present
func (s *itemSet) add(it item) bool {
	if s.index[it] {
		return false
	}
	s.index[it] = true
	s.items = append(s.items, it)
	return true
}

// chart is the indexed sequence S[0..n] of item sets filled by the
// recognizer
type chart struct {
	sets  []*itemSet
	input []rune
}

// buildChart runs the Aycock–Horspool flavor of the Earley
// recognizer over the input: the predictor folds in the "magical
// completion" for nullable non-terminals, so no separate epsilon
// closure pass is needed.
func buildChart(g *Grammar, input []rune) *chart {
	n := len(input)
	c := &chart{sets: make([]*itemSet, n+1), input: input}
	for i := range c.sets {
		c.sets[i] = newItemSet()
	}

	for _, prod := range g.Alternatives(g.Start()) {
		c.sets[0].add(item{prod: prod})
	}

	for i := 0; i <= n; i++ {
		set := c.sets[i]
		for j := 0; j < len(set.items); j++ {
			it := set.items[j]
			if it.complete() {
				c.completer(i, it)
				continue
			}
			sym, _ := it.next()
			switch sym.Kind {
			case SymbolKind_Terminal, SymbolKind_Wildcard:
				if i < n && sym.Matches(input[i]) {
					c.sets[i+1].add(it.advance())
				}
			case SymbolKind_NonTerminal:
				for _, alt := range g.Alternatives(sym.Name) {
					set.add(item{prod: alt, origin: i})
				}
				if g.Nullable(sym.Name) {
					set.add(it.advance())
				}
			}
		}
	}
	return c
}

// completer advances every item in S[origin] that was waiting on the
// completed item's non-terminal.  The origin set may still grow while
// we walk it (origin == i for empty spans), so it is indexed rather
// than ranged over.
func (c *chart) completer(i int, completed item) {
	origin := c.sets[completed.origin]
	for j := 0; j < len(origin.items); j++ {
		waiting := origin.items[j]
		sym, ok := waiting.next()
		if ok && sym.Kind == SymbolKind_NonTerminal && sym.Name == completed.prod.Lhs {
			c.sets[i].add(waiting.advance())
		}
	}
}

// accepted reports whether the final set holds a completed start
// production spanning the whole input
func (c *chart) accepted(g *Grammar) bool {
	for _, it := range c.sets[len(c.sets)-1].items {
		if it.complete() && it.origin == 0 && it.prod.Lhs == g.Start() {
			return true
		}
	}
	return false
}

// ChartEntry is one row of the recognizer's chart, exposed for
// debugging and for the CLI chart dump.
type ChartEntry struct {
	Set      int
	Item     string
	Origin   int
	Complete bool
}

func (c *chart) entries() []ChartEntry {
	var out []ChartEntry
	for i, set := range c.sets {
		for _, it := range set.items {
			out = append(out, ChartEntry{
				Set:      i,
				Item:     it.String(),
				Origin:   it.origin,
				Complete: it.complete(),
			})
		}
	}
	return out
}
