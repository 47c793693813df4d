package openinghours

import (
	"github.com/pkg/errors"
)

// ParseWeekDayRange parses exactly one range: "Mo", "Mo-Fr" or "Sa[1,3]".
// Spaces between tokens are ignored.
func ParseWeekDayRange(text string) (*WeekDayRange, error) {
	p := &selectorParser{input: text}
	r, err := p.parseRange()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if !p.eof() {
		return nil, p.fail(p.pos, errors.Wrapf(ErrSyntax, "unexpected %q", p.input[p.pos]))
	}
	return r, nil
}

// ParseSelector parses a comma separated list of ranges, e.g. "Mo-Fr,Sa[1,3]".
// Ranges are returned in input order without deduplication.
func ParseSelector(text string) ([]*WeekDayRange, error) {
	p := &selectorParser{input: text}
	var ranges []*WeekDayRange
	for {
		r, err := p.parseRange()
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)

		p.skipSpaces()
		if p.eof() {
			return ranges, nil
		}
		if p.peek() != ',' {
			return nil, p.fail(p.pos, errors.Wrapf(ErrSyntax, "expected ',' but found %q", p.peek()))
		}
		p.pos++
	}
}

type selectorParser struct {
	input string
	pos   int
}

func (p *selectorParser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *selectorParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *selectorParser) skipSpaces() {
	for !p.eof() && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *selectorParser) fail(offset int, err error) error {
	return &ParseError{Input: p.input, Offset: offset, Err: err}
}

// word consumes a run of ASCII letters
func (p *selectorParser) word() string {
	start := p.pos
	for !p.eof() {
		c := p.input[p.pos]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

// nthToken consumes digits and dashes; ParseNth decides if they form an ordinal
func (p *selectorParser) nthToken() string {
	start := p.pos
	for !p.eof() {
		c := p.input[p.pos]
		if c != '-' && (c < '0' || c > '9') {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *selectorParser) day() (string, int, error) {
	p.skipSpaces()
	offset := p.pos
	label := p.word()
	if label == "" {
		if p.eof() {
			return "", offset, p.fail(offset, errors.Wrap(ErrSyntax, "expected week day but reached end of input"))
		}
		return "", offset, p.fail(offset, errors.Wrapf(ErrSyntax, "expected week day but found %q", p.peek()))
	}
	return label, offset, nil
}

func (p *selectorParser) parseRange() (*WeekDayRange, error) {
	r := &WeekDayRange{}

	label, offset, err := p.day()
	if err != nil {
		return nil, err
	}
	if err := r.SetStartDayFromText(label); err != nil {
		return nil, p.fail(offset, err)
	}

	p.skipSpaces()
	switch p.peek() {
	case '-':
		p.pos++
		label, offset, err := p.day()
		if err != nil {
			return nil, err
		}
		if err := r.SetEndDayFromText(label); err != nil {
			return nil, p.fail(offset, err)
		}
	case '[':
		p.pos++
		nths, err := p.parseNths()
		if err != nil {
			return nil, err
		}
		r.SetNths(nths)
	}
	return r, nil
}

func (p *selectorParser) parseNths() ([]Nth, error) {
	var nths []Nth
	for {
		p.skipSpaces()
		offset := p.pos
		n, err := ParseNth(p.nthToken())
		if err != nil {
			return nil, p.fail(offset, err)
		}
		nths = append(nths, n)

		p.skipSpaces()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return nths, nil
		default:
			if p.eof() {
				return nil, p.fail(p.pos, errors.Wrap(ErrSyntax, "unterminated '['"))
			}
			return nil, p.fail(p.pos, errors.Wrapf(ErrSyntax, "expected ',' or ']' but found %q", p.peek()))
		}
	}
}
