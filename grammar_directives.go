package linguist

import (
	"fmt"
	"regexp"
	"strconv"
)

// GR: Directive <- ("%left" / "%right" / "%nonassoc" / "%prefer" / "%avoid") ProdRef+ ";"
//
//	/ "%priority" ProdRef (">" ProdRef)+ ";"
//	/ "%reject" Identifier (Literal / Regex) ";"
//	/ "%follow" (Identifier / Literal) Regex ";"
func (p *NotationReader) parseDirective() error {
	start := p.pos()
	kw, err := choice(&p.scanner, []scanFn[string]{
		func() (string, error) { return p.expectLiteral("%priority") },
		func() (string, error) { return p.expectLiteral("%prefer") },
		func() (string, error) { return p.expectLiteral("%nonassoc") },
		func() (string, error) { return p.expectLiteral("%left") },
		func() (string, error) { return p.expectLiteral("%right") },
		func() (string, error) { return p.expectLiteral("%reject") },
		func() (string, error) { return p.expectLiteral("%follow") },
		func() (string, error) { return p.expectLiteral("%avoid") },
	})
	if err != nil {
		return err
	}

	d := directive{kind: kw[1:], rg: NewRange(start, p.pos())}
	switch d.kind {
	case "left", "right", "nonassoc", "prefer", "avoid":
		refs, err := oneOrMore(&p.scanner, func() (prodRef, error) {
			return p.parseProdRef()
		})
		if err != nil {
			return err
		}
		d.refs = refs

	case "priority":
		head, err := p.parseProdRef()
		if err != nil {
			return err
		}
		tail, err := oneOrMore(&p.scanner, func() (prodRef, error) {
			p.parseSpacing()
			if _, err := p.expectRune('>'); err != nil {
				return prodRef{}, err
			}
			return p.parseProdRef()
		})
		if err != nil {
			return err
		}
		d.refs = append([]prodRef{head}, tail...)

	case "reject":
		p.parseSpacing()
		lhs, err := p.parseIdentifier()
		if err != nil {
			return err
		}
		d.lhs = lhs
		p.parseSpacing()
		if p.peek() == '\'' {
			lit, err := p.parseLiteral()
			if err != nil {
				return err
			}
			d.isLit = true
			d.lit = lit.(*LitExpr).Value
		} else {
			pattern, err := p.parseRegex()
			if err != nil {
				return err
			}
			d.pattern = pattern
		}

	case "follow":
		p.parseSpacing()
		if p.peek() == '\'' {
			lit, err := p.parseLiteral()
			if err != nil {
				return err
			}
			d.isLit = true
			d.lit = lit.(*LitExpr).Value
		} else {
			lhs, err := p.parseIdentifier()
			if err != nil {
				return err
			}
			d.lhs = lhs
		}
		pattern, err := p.parseRegex()
		if err != nil {
			return err
		}
		d.pattern = pattern
	}

	p.parseSpacing()
	if _, err := p.expectRune(';'); err != nil {
		return err
	}
	d.rg = NewRange(start, p.pos())
	p.directives = append(p.directives, d)
	return nil
}

// GR: ProdRef <- Identifier "/" [0-9]+
func (p *NotationReader) parseProdRef() (prodRef, error) {
	p.parseSpacing()
	start := p.pos()
	name, err := p.parseIdentifier()
	if err != nil {
		return prodRef{}, err
	}
	if _, err := p.expectRune('/'); err != nil {
		return prodRef{}, err
	}
	digits, err := oneOrMore(&p.scanner, func() (rune, error) {
		return p.expectRange('0', '9')
	})
	if err != nil {
		return prodRef{}, err
	}
	idx, err := strconv.Atoi(string(digits))
	if err != nil {
		return prodRef{}, err
	}
	return prodRef{name: name, idx: idx, rg: NewRange(start, p.pos())}, nil
}

// GR: Regex <- "/" ("\/" / !"/" .)* "/"
func (p *NotationReader) parseRegex() (*regexp.Regexp, error) {
	p.parseSpacing()
	start := p.pos()
	if _, err := p.expectRune('/'); err != nil {
		return nil, err
	}
	var src []rune
	for {
		c := p.peek()
		if c == eof {
			return nil, p.newError("/", "unterminated regex", NewRange(start, p.pos()))
		}
		p.any()
		if c == '/' {
			break
		}
		if c == '\\' && p.peek() == '/' {
			p.any()
			src = append(src, '/')
			continue
		}
		src = append(src, c)
	}
	pattern, err := regexp.Compile(string(src))
	if err != nil {
		return nil, NotationError{
			Message: fmt.Sprintf("bad regex /%s/: %s", string(src), err),
			Range:   NewRange(start, p.pos()),
		}
	}
	return pattern, nil
}

// resolveDirectives maps every `Name/idx` reference to the idx-th
// alternative of `Name` as written in the notation and registers the
// rules on a fresh validator
func (p *NotationReader) resolveDirectives(g *Grammar) (*Validator, error) {
	if len(p.directives) == 0 {
		return nil, nil
	}
	v := NewValidator()
	for _, d := range p.directives {
		prods := make([]*Production, len(d.refs))
		for i, ref := range d.refs {
			alts := g.Alternatives(ref.name)
			if ref.idx >= len(alts) {
				return nil, NotationError{
					Message: fmt.Sprintf("%s/%d does not name an alternative, %s has %d", ref.name, ref.idx, ref.name, len(alts)),
					Range:   ref.rg,
				}
			}
			prods[i] = alts[ref.idx]
		}
		switch d.kind {
		case "left":
			v.Left(prods...)
		case "right":
			v.Right(prods...)
		case "nonassoc":
			v.NonAssoc(prods...)
		case "prefer":
			v.Prefer(prods...)
		case "avoid":
			v.Avoid(prods...)
		case "priority":
			for i := 0; i+1 < len(prods); i++ {
				v.Priority(prods[i], prods[i+1])
			}
		case "reject":
			if d.isLit {
				v.Reject(d.lhs, d.lit)
			} else {
				v.RejectPattern(d.lhs, d.pattern)
			}
		case "follow":
			if d.isLit {
				v.FollowLiteral(d.lit, d.pattern)
			} else {
				v.Follow(d.lhs, d.pattern)
			}
		}
	}
	return v, nil
}
