package parser

import (
	"strings"
	"unicode"
)

// flowKeywords are flowchart statements outside the supported subset.
var flowKeywords = map[string]bool{
	"subgraph":  true,
	"end":       true,
	"direction": true,
	"classDef":  true,
	"class":     true,
	"style":     true,
	"linkStyle": true,
	"click":     true,
}

// brackets maps opening delimiters to their closer and shape, longest first.
var brackets = []struct {
	open, close string
	shape       Shape
}{
	{"[[", "]]", ShapeSubroutine},
	{"((", "))", ShapeCircle},
	{"[", "]", ShapeRectangle},
	{"(", ")", ShapeRounded},
	{"{", "}", ShapeDecision},
}

type flowParser struct {
	d    *Diagram
	seen map[string]bool
}

type nodeRef struct {
	id       string
	label    string
	shape    Shape
	explicit bool
	pos      Pos
}

type flowArrow struct {
	text  string
	style LineStyle
	head  Head
	label string
}

func (p *flowParser) line(num int, raw string) error {
	s := newScanner(num, raw)
	s.skipSpace()
	if s.eof() {
		return nil
	}
	col := s.col()

	save := s.pos
	if w := s.ident(); flowKeywords[w] && (s.eof() || unicode.IsSpace(s.peek())) {
		return s.errorf(col, "unsupported flowchart statement %q", w)
	}
	s.pos = save

	from, err := p.nodeRef(s)
	if err != nil {
		return err
	}
	s.skipSpace()
	if s.eof() {
		p.declare(from)
		return nil
	}

	arrow, err := scanFlowArrow(s)
	if err != nil {
		return err
	}
	s.skipSpace()
	if s.peek() == '|' {
		lcol := s.col()
		if arrow.label != "" {
			return s.errorf(lcol, "edge already has a label")
		}
		s.pos++
		text, ok := s.until("|")
		if !ok {
			return s.errorf(lcol, "unclosed edge label, expected \"|\"")
		}
		if arrow.label = strings.TrimSpace(text); arrow.label == "" {
			return s.errorf(lcol, "empty edge label")
		}
		s.skipSpace()
	}
	if s.eof() {
		return s.errorf(s.col(), "missing edge target after %q", arrow.text)
	}

	to, err := p.nodeRef(s)
	if err != nil {
		return err
	}
	s.skipSpace()
	if !s.eof() {
		switch r := s.peek(); {
		case r == '&':
			return s.errorf(s.col(), "node groups with \"&\" are not supported")
		case r == '-' || r == '=':
			return s.errorf(s.col(), "edge chains are not supported, write one edge per line")
		}
		return s.unexpected("end of statement")
	}

	p.declare(from)
	p.declare(to)
	p.d.Statements = append(p.d.Statements, &EdgeDecl{
		From:  from.id,
		To:    to.id,
		Label: arrow.label,
		Style: arrow.style,
		Head:  arrow.head,
		Pos:   Pos{Line: num, Column: col},
	})
	return nil
}

// declare records a node declaration. Bracketed references are always
// recorded; bare references only on first use, as implicit declarations.
func (p *flowParser) declare(ref nodeRef) {
	if !ref.explicit {
		if p.seen[ref.id] {
			return
		}
		ref.label = ref.id
		ref.shape = ShapeRectangle
	}
	p.seen[ref.id] = true
	p.d.Statements = append(p.d.Statements, &NodeDecl{
		ID:       ref.id,
		Label:    ref.label,
		Shape:    ref.shape,
		Implicit: !ref.explicit,
		Pos:      ref.pos,
	})
}

func (p *flowParser) nodeRef(s *scanner) (nodeRef, error) {
	col := s.col()
	id := s.ident()
	if id == "" {
		return nodeRef{}, s.unexpected("node id")
	}
	ref := nodeRef{id: id, pos: Pos{Line: s.line, Column: col}}

	for _, b := range brackets {
		if !s.hasPrefix(b.open) {
			continue
		}
		ocol := s.col()
		s.pos += len(b.open)
		label, err := bracketLabel(s, b.open, b.close, ocol)
		if err != nil {
			return nodeRef{}, err
		}
		ref.label = label
		ref.shape = b.shape
		ref.explicit = true
		break
	}
	return ref, nil
}

func bracketLabel(s *scanner, open, close string, ocol int) (string, error) {
	s.skipSpace()
	var text string
	if s.peek() == '"' {
		qcol := s.col()
		s.pos++
		quoted, ok := s.until(`"`)
		if !ok {
			return "", s.errorf(qcol, "unterminated quoted label")
		}
		s.skipSpace()
		if !s.hasPrefix(close) {
			return "", s.errorf(ocol, "unclosed %q, expected %q", open, close)
		}
		s.pos += len(close)
		text = quoted
	} else {
		raw, ok := s.until(close)
		if !ok {
			return "", s.errorf(ocol, "unclosed %q, expected %q", open, close)
		}
		text = raw
	}
	if text = strings.TrimSpace(text); text == "" {
		return "", s.errorf(ocol, "empty node label")
	}
	return text, nil
}

// scanFlowArrow reads one arrow token, including the inline `-- text -->`
// label form.
func scanFlowArrow(s *scanner) (flowArrow, error) {
	col := s.col()
	start := s.pos
	token := func() string { return string(s.src[start:s.pos]) }
	count := func(r rune) int {
		n := 0
		for s.peek() == r {
			s.pos++
			n++
		}
		return n
	}

	switch s.peek() {
	case '=':
		n := count('=')
		if n >= 2 && s.peek() == '>' {
			s.pos++
			return flowArrow{text: token(), style: LineThick, head: HeadArrow}, nil
		}
		if n >= 3 {
			return flowArrow{text: token(), style: LineThick, head: HeadNone}, nil
		}
	case '-':
		if s.peekAt(1) == '.' {
			s.pos++
			count('.')
			if s.peek() == '-' {
				s.pos++
				if s.peek() == '>' {
					s.pos++
					return flowArrow{text: token(), style: LineDashed, head: HeadArrow}, nil
				}
				return flowArrow{text: token(), style: LineDashed, head: HeadNone}, nil
			}
			break
		}
		n := count('-')
		if n >= 2 && s.peek() == '>' {
			s.pos++
			return flowArrow{text: token(), style: LineSolid, head: HeadArrow}, nil
		}
		if n >= 3 {
			return flowArrow{text: token(), style: LineSolid, head: HeadNone}, nil
		}
		if n == 2 && unicode.IsSpace(s.peek()) {
			return inlineLabelArrow(s, col)
		}
	}

	for !s.eof() && strings.ContainsRune("-=.>", s.peek()) {
		s.pos++
	}
	if tok := token(); tok != "" {
		return flowArrow{}, s.errorf(col, "malformed arrow %q", tok)
	}
	return flowArrow{}, s.unexpected("arrow")
}

func inlineLabelArrow(s *scanner, col int) (flowArrow, error) {
	lstart := s.pos
	for !s.eof() {
		var head Head
		switch {
		case s.hasPrefix("-->"):
			head = HeadArrow
		case s.hasPrefix("---"):
			head = HeadNone
		default:
			s.pos++
			continue
		}
		label := strings.TrimSpace(string(s.src[lstart:s.pos]))
		if label == "" {
			return flowArrow{}, s.errorf(col, "empty edge label")
		}
		s.pos += 3
		return flowArrow{text: "-- " + label + " -->", style: LineSolid, head: head, label: label}, nil
	}
	return flowArrow{}, s.errorf(col, "unterminated edge label, expected \"-->\"")
}
