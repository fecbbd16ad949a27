package linguist

// Parser drives the Earley recognizer and the forest builder for one
// grammar.  Building it resolves the grammar's disambiguation rules;
// the parser itself holds no per-input state, so a single parser can
// serve concurrent Recognize and Parse calls.
type Parser struct {
	grammar  *Grammar
	rules    *ruleSet
	warnings []string
}

// NewParser freezes the grammar and builds a parser out of it.
// Disambiguation rules that reference productions unknown to the
// grammar become inactive and are reported through Warnings.
func NewParser(g *Grammar) (*Parser, error) {
	if g == nil {
		return nil, grammarErrorf("no grammar given")
	}
	g.frozen = true
	p := &Parser{grammar: g}
	if v := g.Validator(); v != nil {
		p.rules = v.resolve(g)
		p.warnings = p.rules.warnings
	}
	return p, nil
}

func (p *Parser) Grammar() *Grammar { return p.grammar }

// Warnings reports the disambiguation rules that were dropped while
// resolving the validator against the grammar
func (p *Parser) Warnings() []string { return p.warnings }

// Recognize reports whether the input is in the grammar's language.
// Non-membership is a plain false, never an error.
func (p *Parser) Recognize(input string) bool {
	runes := []rune(input)
	return buildChart(p.grammar, runes).accepted(p.grammar)
}

// Parse builds the disambiguated parse forest for the input.  When
// the input is not in the language the forest simply counts zero
// trees.
func (p *Parser) Parse(input string) *Forest {
	runes := []rune(input)
	c := buildChart(p.grammar, runes)
	return newForest(p.grammar, p.rules, runes, c)
}

// ChartEntries exposes the recognizer's chart for the given input,
// row by row.  Debugging surface, used by the CLI chart dump.
func (p *Parser) ChartEntries(input string) []ChartEntry {
	return buildChart(p.grammar, []rune(input)).entries()
}
