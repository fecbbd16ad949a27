package linguist

import (
	"regexp"
)

// NotationReader parses the text notation for grammars:
//
//	# ambiguous sequences of a's
//	S -> S S | 'a' ;
//	%left S/0 ;
//
// Rules are BNF with regex-ish sugar (quantifiers `? * +`, groups,
// character classes, the `.` wildcard), lowered through the
// GrammarBuilder.  `%` directives register disambiguation rules on
// the grammar's validator; productions are referenced as `Name/idx`,
// the zero-based alternative index of `Name` as written.
type NotationReader struct {
	scanner

	builder    *GrammarBuilder
	directives []directive
	start      string
}

func NewNotationReader(src string) *NotationReader {
	return &NotationReader{
		scanner: scanner{input: []rune(src)},
		builder: NewGrammarBuilder(),
	}
}

// ParseNotation reads a grammar, with its disambiguation directives
// attached, out of the text notation
func ParseNotation(src string) (*Grammar, error) {
	return NewNotationReader(src).Parse()
}

type prodRef struct {
	name string
	idx  int
	rg   Range
}

type directive struct {
	kind    string
	refs    []prodRef
	lhs     string
	lit     string
	isLit   bool
	pattern *regexp.Regexp
	rg      Range
}

// Parse reads the whole notation source and returns the grammar with
// the validator bundled.  The grammar is frozen once a parser is built
// from it.
func (p *NotationReader) Parse() (*Grammar, error) {
	p.parseSpacing()
	for {
		if p.peek() == eof {
			break
		}
		var err error
		if p.peek() == '%' {
			err = p.parseDirective()
		} else {
			err = p.parseRule()
		}
		if err != nil {
			return nil, notationError(err, p.pos())
		}
		p.parseSpacing()
	}
	if p.start == "" {
		return nil, NotationError{Message: "notation has no rules", Range: NewRange(0, 0)}
	}

	g, err := p.builder.Build(p.start)
	if err != nil {
		return nil, err
	}
	v, err := p.resolveDirectives(g)
	if err != nil {
		return nil, err
	}
	if v != nil {
		if err := g.SetValidator(v); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// GR: Rule <- Identifier "->" Alternation ";"
func (p *NotationReader) parseRule() error {
	name, err := p.parseIdentifier()
	if err != nil {
		return err
	}
	p.parseSpacing()
	if _, err := p.expectLiteral("->"); err != nil {
		return err
	}
	expr, err := p.parseAlternation()
	if err != nil {
		return err
	}
	p.parseSpacing()
	if _, err := p.expectRune(';'); err != nil {
		return err
	}
	if p.start == "" {
		p.start = name
	}
	p.builder.Define(name, expr)
	return nil
}

// GR: Alternation <- Sequence ("|" Sequence)*
func (p *NotationReader) parseAlternation() (Expr, error) {
	head, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	tail := zeroOrMore(&p.scanner, func() (Expr, error) {
		p.parseSpacing()
		if _, err := p.expectRune('|'); err != nil {
			return nil, err
		}
		return p.parseSequence()
	})
	if len(tail) == 0 {
		return head, nil
	}
	return Alt(append([]Expr{head}, tail...)...), nil
}

// GR: Sequence <- Term*
func (p *NotationReader) parseSequence() (Expr, error) {
	items := zeroOrMore(&p.scanner, func() (Expr, error) {
		return p.parseTerm()
	})
	if len(items) == 1 {
		return items[0], nil
	}
	return Seq(items...), nil
}

// GR: Term <- Factor ("?" / "*" / "+")?
func (p *NotationReader) parseTerm() (Expr, error) {
	p.parseSpacing()
	factor, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	q, ok := maybe(&p.scanner, func() (rune, error) {
		return choice(&p.scanner, []scanFn[rune]{
			func() (rune, error) { return p.expectRune('?') },
			func() (rune, error) { return p.expectRune('*') },
			func() (rune, error) { return p.expectRune('+') },
		})
	})
	if !ok {
		return factor, nil
	}
	switch q {
	case '?':
		return Optional(factor), nil
	case '*':
		return Kleene(factor), nil
	default:
		return Plus(factor), nil
	}
}

// GR: Factor <- Literal / Class / "." / "(" Alternation ")" / Identifier
func (p *NotationReader) parseFactor() (Expr, error) {
	return choice(&p.scanner, []scanFn[Expr]{
		func() (Expr, error) { return p.parseLiteral() },
		func() (Expr, error) { return p.parseClass() },
		func() (Expr, error) {
			if _, err := p.expectRune('.'); err != nil {
				return nil, err
			}
			return Any(), nil
		},
		func() (Expr, error) { return p.parseGroup() },
		func() (Expr, error) {
			name, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			return Ref(name), nil
		},
	})
}

// GR: Group <- "(" Alternation ")"
func (p *NotationReader) parseGroup() (Expr, error) {
	if _, err := p.expectRune('('); err != nil {
		return nil, err
	}
	expr, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	p.parseSpacing()
	if _, err := p.expectRune(')'); err != nil {
		return nil, err
	}
	return expr, nil
}

// GR: Literal <- "'" Char+ "'"
func (p *NotationReader) parseLiteral() (Expr, error) {
	if _, err := p.expectRune('\''); err != nil {
		return nil, err
	}
	var value []rune
	for {
		c := p.peek()
		if c == eof {
			return nil, p.newError("'", "unterminated literal", NewRange(p.pos(), p.pos()))
		}
		if c == '\'' {
			p.any()
			break
		}
		r, err := p.parseChar('\'')
		if err != nil {
			return nil, err
		}
		value = append(value, r)
	}
	return Lit(string(value)), nil
}

// GR: Class <- "[" (Char "-" Char / Char)+ "]"
func (p *NotationReader) parseClass() (Expr, error) {
	if _, err := p.expectRune('['); err != nil {
		return nil, err
	}
	var items []Expr
	for {
		c := p.peek()
		if c == eof {
			return nil, p.newError("]", "unterminated class", NewRange(p.pos(), p.pos()))
		}
		if c == ']' {
			p.any()
			break
		}
		lo, err := p.parseChar(']')
		if err != nil {
			return nil, err
		}
		if p.peek() == '-' && p.cursor+1 < len(p.input) && p.input[p.cursor+1] != ']' {
			p.any()
			hi, err := p.parseChar(']')
			if err != nil {
				return nil, err
			}
			items = append(items, Rng(lo, hi))
			continue
		}
		items = append(items, Lit(string(lo)))
	}
	if len(items) == 0 {
		return nil, p.newError("]", "empty class", NewRange(p.pos(), p.pos()))
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return Alt(items...), nil
}

// parseChar reads one possibly escaped character; `closer` is the
// delimiter that must be escaped to appear literally
func (p *NotationReader) parseChar(closer rune) (rune, error) {
	c, err := p.any()
	if err != nil {
		return 0, err
	}
	if c != '\\' {
		return c, nil
	}
	e, err := p.any()
	if err != nil {
		return 0, err
	}
	switch e {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '\\', '-', closer:
		return e, nil
	default:
		return e, nil
	}
}

// GR: Identifier <- [A-Za-z_] [A-Za-z0-9_]*
func (p *NotationReader) parseIdentifier() (string, error) {
	start := p.pos()
	head, err := choice(&p.scanner, []scanFn[rune]{
		func() (rune, error) { return p.expectRange('a', 'z') },
		func() (rune, error) { return p.expectRange('A', 'Z') },
		func() (rune, error) { return p.expectRune('_') },
	})
	if err != nil {
		return "", p.newError("identifier", "Expected identifier", NewRange(start, p.pos()))
	}
	name := []rune{head}
	for {
		c := p.peek()
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.any()
			name = append(name, c)
			continue
		}
		break
	}
	return string(name), nil
}

// GR: Spacing <- ([ \t\r\n] / "#" (!EOL .)*)*
func (p *NotationReader) parseSpacing() {
	for {
		switch p.peek() {
		case ' ', '\t', '\r', '\n':
			p.any()
		case '#':
			for p.peek() != '\n' && p.peek() != eof {
				p.any()
			}
		default:
			return
		}
	}
}

func notationError(err error, pos int) error {
	if berr, ok := err.(*backtrackingError); ok {
		return NotationError{Message: berr.Message, Range: berr.Range}
	}
	if _, ok := err.(NotationError); ok {
		return err
	}
	return NotationError{Message: err.Error(), Range: NewRange(pos, pos)}
}
