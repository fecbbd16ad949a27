package linguist

import (
	"fmt"
	"regexp"
)

// Associativity of a production or of a group of equal-priority
// productions.
type Associativity int

const (
	Assoc_None Associativity = iota
	Assoc_Left
	Assoc_Right
)

func (a Associativity) String() string {
	switch a {
	case Assoc_Left:
		return "left"
	case Assoc_Right:
		return "right"
	default:
		return "none"
	}
}

type assocRule struct {
	dir   Associativity
	group []*Production
}

type rejectPattern struct {
	literal string
	pattern *regexp.Regexp
}

// matches reports whether the yield is the literal, or is fully
// matched by the pattern
func (rp rejectPattern) matches(yield string) bool {
	if rp.pattern == nil {
		return rp.literal == yield
	}
	full := regexp.MustCompile(`^(?:` + rp.pattern.String() + `)$`)
	return full.MatchString(yield)
}

// Validator is the bundle of declarative disambiguation rules that
// travels with a grammar into the parse forest.  Productions are
// referenced by value; they are resolved against the grammar's
// interned productions when a parser is built.  Rules naming
// productions unknown to the grammar become inactive and surface as
// construction warnings, not failures.
type Validator struct {
	priorities [][2]*Production
	assoc      []assocRule
	reject     map[string][]rejectPattern
	follow     map[string][]*regexp.Regexp
	followLit  map[string][]*regexp.Regexp
	prefer     map[string][]*Production
	avoid      map[string][]*Production
}

func NewValidator() *Validator {
	return &Validator{
		reject:    map[string][]rejectPattern{},
		follow:    map[string][]*regexp.Regexp{},
		followLit: map[string][]*regexp.Regexp{},
		prefer:    map[string][]*Production{},
		avoid:     map[string][]*Production{},
	}
}

// Priority records the edge `higher ▷ lower` in the priority DAG.
// The closure of the DAG invalidates any alternative in which a
// production reachable downward from the parent's production appears
// as a direct child.
func (v *Validator) Priority(higher, lower *Production) *Validator {
	v.priorities = append(v.priorities, [2]*Production{higher, lower})
	return v
}

// Left marks `p` left-associative: a derivation of `p` may not have
// `p` as its rightmost child.
func (v *Validator) Left(prods ...*Production) *Validator {
	v.assoc = append(v.assoc, assocRule{dir: Assoc_Left, group: prods})
	return v
}

// Right marks `p` right-associative: a derivation of `p` may not have
// `p` as its leftmost child.
func (v *Validator) Right(prods ...*Production) *Validator {
	v.assoc = append(v.assoc, assocRule{dir: Assoc_Right, group: prods})
	return v
}

// NonAssoc marks `p` non-associative: a derivation of `p` may not
// have `p` as any child.
func (v *Validator) NonAssoc(prods ...*Production) *Validator {
	v.assoc = append(v.assoc, assocRule{dir: Assoc_None, group: prods})
	return v
}

// Reject rejects every derivation of the non-terminal `lhs` whose
// yield equals the literal string
func (v *Validator) Reject(lhs, literal string) *Validator {
	v.reject[lhs] = append(v.reject[lhs], rejectPattern{literal: literal})
	return v
}

// RejectPattern rejects every derivation of the non-terminal `lhs`
// whose yield is fully matched by the pattern
func (v *Validator) RejectPattern(lhs string, pattern *regexp.Regexp) *Validator {
	v.reject[lhs] = append(v.reject[lhs], rejectPattern{pattern: pattern})
	return v
}

// Follow rejects every derivation of the non-terminal `lhs` that is
// immediately followed in the input by a match of the pattern
func (v *Validator) Follow(lhs string, pattern *regexp.Regexp) *Validator {
	v.follow[lhs] = append(v.follow[lhs], pattern)
	return v
}

// FollowLiteral is the literal-yield form of Follow: it rejects any
// node whose yield equals `literal` and is immediately followed by a
// match of the pattern.  The form is carried for completeness; a
// parse that never consults it reports that through Forest.Warnings.
func (v *Validator) FollowLiteral(literal string, pattern *regexp.Regexp) *Validator {
	v.followLit[literal] = append(v.followLit[literal], pattern)
	return v
}

// Prefer selects, among competing completions of the same
// non-terminal over the same span, the ones derived through `prods`,
// as long as at least one competitor qualifies
func (v *Validator) Prefer(prods ...*Production) *Validator {
	for _, p := range prods {
		v.prefer[p.Lhs] = append(v.prefer[p.Lhs], p)
	}
	return v
}

// Avoid drops, among competing completions of the same non-terminal
// over the same span, the ones derived through `prods`, as long as at
// least one competitor survives
func (v *Validator) Avoid(prods ...*Production) *Validator {
	for _, p := range prods {
		v.avoid[p.Lhs] = append(v.avoid[p.Lhs], p)
	}
	return v
}

// ruleSet is a validator resolved against a grammar's interned
// productions, with the priority DAG closed transitively.  This is
// what the forest pruning passes actually consult.
type ruleSet struct {
	lower     map[*Production]map[*Production]bool
	assoc     []resolvedAssoc
	reject    map[string][]rejectPattern
	follow    map[string][]*regexp.Regexp
	followLit map[string][]*regexp.Regexp
	prefer    map[string]map[*Production]bool
	avoid     map[string]map[*Production]bool
	warnings  []string
}

type resolvedAssoc struct {
	dir     Associativity
	members map[*Production]bool
}

// resolve maps every production the validator mentions to its
// interned counterpart in `g`.  Unknown productions degrade the rule
// to inactive and produce a warning.
func (v *Validator) resolve(g *Grammar) *ruleSet {
	rs := &ruleSet{
		lower:     map[*Production]map[*Production]bool{},
		reject:    v.reject,
		follow:    v.follow,
		followLit: v.followLit,
		prefer:    map[string]map[*Production]bool{},
		avoid:     map[string]map[*Production]bool{},
	}

	known := func(p *Production, rule string) (*Production, bool) {
		got, ok := g.lookup(p)
		if !ok {
			rs.warnings = append(rs.warnings, fmt.Sprintf("%s rule references unknown production %q, rule is inactive", rule, p))
		}
		return got, ok
	}

	edges := map[*Production][]*Production{}
	for _, pair := range v.priorities {
		hi, ok1 := known(pair[0], "priority")
		lo, ok2 := known(pair[1], "priority")
		if ok1 && ok2 {
			edges[hi] = append(edges[hi], lo)
		}
	}
	for hi := range edges {
		rs.lower[hi] = closure(edges, hi)
	}

	for _, rule := range v.assoc {
		members := map[*Production]bool{}
		for _, p := range rule.group {
			if got, ok := known(p, rule.dir.String()+"-associativity"); ok {
				members[got] = true
			}
		}
		if len(members) > 0 {
			rs.assoc = append(rs.assoc, resolvedAssoc{dir: rule.dir, members: members})
		}
	}

	for lhs, prods := range v.prefer {
		for _, p := range prods {
			if got, ok := known(p, "prefer"); ok {
				if rs.prefer[lhs] == nil {
					rs.prefer[lhs] = map[*Production]bool{}
				}
				rs.prefer[lhs][got] = true
			}
		}
	}
	for lhs, prods := range v.avoid {
		for _, p := range prods {
			if got, ok := known(p, "avoid"); ok {
				if rs.avoid[lhs] == nil {
					rs.avoid[lhs] = map[*Production]bool{}
				}
				rs.avoid[lhs][got] = true
			}
		}
	}

	for lhs := range v.reject {
		if len(g.Alternatives(lhs)) == 0 {
			rs.warnings = append(rs.warnings, fmt.Sprintf("reject rule references unknown non-terminal %q, rule is inactive", lhs))
		}
	}
	for lhs := range v.follow {
		if len(g.Alternatives(lhs)) == 0 {
			rs.warnings = append(rs.warnings, fmt.Sprintf("follow restriction references unknown non-terminal %q, rule is inactive", lhs))
		}
	}
	return rs
}

// closure collects every production reachable downward from `from`
// through the priority edges
func closure(edges map[*Production][]*Production, from *Production) map[*Production]bool {
	seen := map[*Production]bool{}
	stack := append([]*Production{}, edges[from]...)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[p] {
			continue
		}
		seen[p] = true
		stack = append(stack, edges[p]...)
	}
	return seen
}
