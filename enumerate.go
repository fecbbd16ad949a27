package linguist

// Tree enumeration walks the disambiguated DAG depth first, with
// full backtracking across OR-nodes.  Choice state lives entirely in
// per-enumeration cursors (a side table of the forest, never the
// forest itself), so independent enumerations of the same forest can
// run at the same time.

// crumb is the chain of forest nodes on the path from the root to
// the cursor being created.  Derivation cycles across unit
// productions over the same span would otherwise recurse forever;
// a back-edge contributes no finite tree and is cut here.
type crumb struct {
	node *ForestNode
	up   *crumb
}

func (c *crumb) contains(nd *ForestNode) bool {
	for at := c; at != nil; at = at.up {
		if at.node == nd {
			return true
		}
	}
	return false
}

// cursor produces, one at a time, every tree derivable from one
// forest element.  After next returns false the cursor is exhausted;
// reset rewinds it to the beginning.
type cursor interface {
	next() (Tree, bool)
	reset()
}

// leafCursor yields the single token tree of a leaf
type leafCursor struct {
	leaf *Leaf
	done bool
}

func (c *leafCursor) next() (Tree, bool) {
	if c.done {
		return nil, false
	}
	c.done = true
	return NewTokenNode(c.leaf.Token, c.leaf.Range()), true
}

func (c *leafCursor) reset() { c.done = false }

// deadCursor is the cursor of a cyclic back-edge: no finite trees
type deadCursor struct{}

func (c deadCursor) next() (Tree, bool) { return nil, false }
func (c deadCursor) reset()             {}

func newCursor(f *Forest, elem ForestElem, up *crumb) cursor {
	switch e := elem.(type) {
	case *Leaf:
		return &leafCursor{leaf: e}
	case *ForestNode:
		if up.contains(e) {
			return deadCursor{}
		}
		return &nodeCursor{f: f, node: e, path: &crumb{node: e, up: up}}
	default:
		return deadCursor{}
	}
}

// nodeCursor enumerates the trees of one forest node: for each
// alternative in order, the cartesian product of the children's
// trees, advancing the rightmost child first.  The resulting order
// is lexicographic in (alternative index, child choices left to
// right), which is what makes the whole enumeration deterministic.
type nodeCursor struct {
	f    *Forest
	node *ForestNode
	path *crumb

	alt       int
	kids      []cursor
	cur       []Tree
	started   bool
	exhausted bool
}

func (c *nodeCursor) next() (Tree, bool) {
	if c.exhausted {
		return nil, false
	}
	if !c.started {
		c.started = true
		c.alt = 0
		if !c.initAlt() && !c.advanceAlt() {
			return nil, false
		}
		return c.build(), true
	}

	// Odometer over the current alternative's children: advance the
	// rightmost child that still has trees, rewinding everything to
	// its right.
	for k := len(c.kids) - 1; k >= 0; k-- {
		t, ok := c.kids[k].next()
		if !ok {
			continue
		}
		c.cur[k] = t
		rewound := true
		for k2 := k + 1; k2 < len(c.kids); k2++ {
			c.kids[k2].reset()
			t2, ok2 := c.kids[k2].next()
			if !ok2 {
				rewound = false
				break
			}
			c.cur[k2] = t2
		}
		if rewound {
			return c.build(), true
		}
	}

	if !c.advanceAlt() {
		return nil, false
	}
	return c.build(), true
}

// initAlt points the cursor at the first tree of the current
// alternative.  It fails only when a child can produce no tree,
// which happens on cyclic back-edges.
func (c *nodeCursor) initAlt() bool {
	alt := c.node.Alts[c.alt]
	c.kids = make([]cursor, len(alt))
	c.cur = make([]Tree, len(alt))
	for i, elem := range alt {
		c.kids[i] = newCursor(c.f, elem, c.path)
	}
	for i := range c.kids {
		t, ok := c.kids[i].next()
		if !ok {
			return false
		}
		c.cur[i] = t
	}
	return true
}

func (c *nodeCursor) advanceAlt() bool {
	for {
		c.alt++
		if c.alt >= len(c.node.Alts) {
			c.exhausted = true
			return false
		}
		if c.initAlt() {
			return true
		}
	}
}

func (c *nodeCursor) build() Tree {
	children := make([]Tree, len(c.cur))
	copy(children, c.cur)
	return NewRuleNode(c.node.Prod, children, c.node.Range())
}

func (c *nodeCursor) reset() {
	c.alt = 0
	c.kids = nil
	c.cur = nil
	c.started = false
	c.exhausted = false
}

// TreeSeq is the lazy sequence of the forest's surviving parse
// trees.  Each distinct tree is produced exactly once; trees of the
// first root come first, then the second root's, and so on.
type TreeSeq struct {
	f       *Forest
	rootIdx int
	cur     cursor
}

// Trees starts a fresh enumeration of the forest
func (f *Forest) Trees() *TreeSeq {
	return &TreeSeq{f: f}
}

// Next returns the next parse tree, or false when the enumeration is
// finished.  It is safe to abandon the sequence at any point.
func (s *TreeSeq) Next() (Tree, bool) {
	for {
		if s.cur == nil {
			if s.rootIdx >= len(s.f.roots) {
				return nil, false
			}
			s.cur = newCursor(s.f, s.f.roots[s.rootIdx], nil)
		}
		if t, ok := s.cur.next(); ok {
			return t, true
		}
		s.cur = nil
		s.rootIdx++
	}
}

// Collect drains up to max trees from the sequence.  A max of zero
// or less drains everything, which on densely ambiguous grammars can
// be exponential in the input length.
func (s *TreeSeq) Collect(max int) []Tree {
	var out []Tree
	for {
		if max > 0 && len(out) >= max {
			return out
		}
		t, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, t)
	}
}

// Count returns the number of trees the enumeration would produce,
// without materializing any of them.
func (f *Forest) Count() int {
	if f.countMemo == nil {
		f.countMemo = map[*ForestNode]int{}
	}
	total := 0
	for _, root := range f.roots {
		n, _ := f.countNode(root, nil)
		total += n
	}
	return total
}

// countNode is the memoized product-sum over the DAG.  Results
// tainted by a cyclic back-edge are path dependent and therefore not
// memoized.
func (f *Forest) countNode(nd *ForestNode, path *crumb) (int, bool) {
	if path.contains(nd) {
		return 0, true
	}
	if n, ok := f.countMemo[nd]; ok {
		return n, false
	}
	here := &crumb{node: nd, up: path}
	total := 0
	tainted := false
	for _, alt := range nd.Alts {
		prod := 1
		for _, child := range alt {
			cn, isNode := child.(*ForestNode)
			if !isNode {
				continue
			}
			n, t := f.countNode(cn, here)
			prod *= n
			tainted = tainted || t
			if prod == 0 {
				break
			}
		}
		total += prod
	}
	if !tainted {
		f.countMemo[nd] = total
	}
	return total, tainted
}
