package linguist

// disambiguate applies the grammar's validator to the forest.  Node
// level rules run first (prefer/avoid, then reject, then follow
// restrictions), alternative level rules after (priority, then
// associativity), and a final garbage collection removes everything
// the rules disconnected.  Applying the same rule set twice leaves
// the forest unchanged.
func (f *Forest) disambiguate() {
	if f.rules == nil {
		return
	}
	f.applyPreferAvoid()
	f.applyReject()
	f.applyFollow()
	f.applyPriority()
	f.applyAssociativity()
	f.gc()
}

type lhsSpan struct {
	lhs   string
	start int
	end   int
}

// applyPreferAvoid partitions the nodes into groups of competing
// completions of the same non-terminal over the same span.  Avoided
// productions are dropped first, preferred ones selected second, and
// either step is skipped when it would empty the group.
func (f *Forest) applyPreferAvoid() {
	if len(f.rules.prefer) == 0 && len(f.rules.avoid) == 0 {
		return
	}

	groups := map[lhsSpan][]*ForestNode{}
	var spans []lhsSpan
	for _, nd := range f.order {
		key := lhsSpan{lhs: nd.Prod.Lhs, start: nd.Start, end: nd.End}
		if groups[key] == nil {
			spans = append(spans, key)
		}
		groups[key] = append(groups[key], nd)
	}

	for _, key := range spans {
		group := groups[key]

		if avoided := f.rules.avoid[key.lhs]; len(avoided) > 0 {
			var kept []*ForestNode
			for _, nd := range group {
				if !avoided[nd.Prod] {
					kept = append(kept, nd)
				}
			}
			if len(kept) > 0 {
				for _, nd := range group {
					if avoided[nd.Prod] {
						f.kill(nd)
					}
				}
				group = kept
			}
		}

		if preferred := f.rules.prefer[key.lhs]; len(preferred) > 0 {
			var kept []*ForestNode
			for _, nd := range group {
				if preferred[nd.Prod] {
					kept = append(kept, nd)
				}
			}
			if len(kept) > 0 {
				for _, nd := range group {
					if !preferred[nd.Prod] {
						f.kill(nd)
					}
				}
			}
		}
	}
}

// applyReject discards every node whose yield equals one of the
// literals, or is fully matched by one of the patterns, registered
// for the node's non-terminal.
func (f *Forest) applyReject() {
	if len(f.rules.reject) == 0 {
		return
	}
	for _, nd := range f.order {
		pats := f.rules.reject[nd.Prod.Lhs]
		if len(pats) == 0 {
			continue
		}
		yield := f.yield(nd)
		for _, pat := range pats {
			if pat.matches(yield) {
				f.kill(nd)
				break
			}
		}
	}
}

// applyFollow discards every node that is immediately followed in
// the input by a match of one of the restriction patterns registered
// for its non-terminal, or for its literal yield.
func (f *Forest) applyFollow() {
	if len(f.rules.follow) == 0 && len(f.rules.followLit) == 0 {
		return
	}
	litConsulted := false
	for _, nd := range f.order {
		if len(nd.Alts) == 0 {
			continue
		}
		rest := string(f.input[nd.End:])
		for _, pat := range f.rules.follow[nd.Prod.Lhs] {
			if loc := pat.FindStringIndex(rest); loc != nil && loc[0] == 0 {
				f.kill(nd)
				break
			}
		}
		if len(nd.Alts) == 0 || len(f.rules.followLit) == 0 {
			continue
		}
		if pats, ok := f.rules.followLit[f.yield(nd)]; ok {
			litConsulted = true
			for _, pat := range pats {
				if loc := pat.FindStringIndex(rest); loc != nil && loc[0] == 0 {
					f.kill(nd)
					break
				}
			}
		}
	}
	if len(f.rules.followLit) > 0 && !litConsulted {
		f.warnings = append(f.warnings, "literal-yield follow restriction was never consulted")
	}
}

// applyPriority drops every alternative in which a production
// reachable downward from the parent's production in the priority
// DAG appears as a direct child.
func (f *Forest) applyPriority() {
	if len(f.rules.lower) == 0 {
		return
	}
	for _, nd := range f.order {
		lower := f.rules.lower[nd.Prod]
		if len(lower) == 0 {
			continue
		}
		f.filterAlts(nd, func(alt []ForestElem) bool {
			for _, child := range alt {
				if cn, ok := child.(*ForestNode); ok && lower[cn.Prod] {
					return false
				}
			}
			return true
		})
	}
}

// applyAssociativity drops alternatives whose edge child repeats a
// production of the same associativity group: the rightmost child
// for left associativity, the leftmost for right associativity, any
// child for non-associativity.
func (f *Forest) applyAssociativity() {
	for _, rule := range f.rules.assoc {
		for _, nd := range f.order {
			if !rule.members[nd.Prod] {
				continue
			}
			f.filterAlts(nd, func(alt []ForestElem) bool {
				if len(alt) == 0 {
					return true
				}
				switch rule.dir {
				case Assoc_Left:
					return !rule.members[prodOf(alt[len(alt)-1])]
				case Assoc_Right:
					return !rule.members[prodOf(alt[0])]
				default:
					for _, child := range alt {
						if rule.members[prodOf(child)] {
							return false
						}
					}
					return true
				}
			})
		}
	}
}

// prodOf returns the production of a node child, or nil for leaves
func prodOf(elem ForestElem) *Production {
	if nd, ok := elem.(*ForestNode); ok {
		return nd.Prod
	}
	return nil
}

func (f *Forest) filterAlts(nd *ForestNode, valid func(alt []ForestElem) bool) {
	kept := nd.Alts[:0]
	for _, alt := range nd.Alts {
		if valid(alt) {
			kept = append(kept, alt)
		}
	}
	nd.Alts = kept
}
