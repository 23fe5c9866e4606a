package parser

import (
	"strings"
)

// seqKeywords are sequence statements outside the supported subset.
var seqKeywords = map[string]bool{
	"note":       true,
	"loop":       true,
	"alt":        true,
	"else":       true,
	"opt":        true,
	"par":        true,
	"and":        true,
	"rect":       true,
	"critical":   true,
	"break":      true,
	"activate":   true,
	"deactivate": true,
	"end":        true,
	"box":        true,
	"create":     true,
	"destroy":    true,
	"title":      true,
	"link":       true,
	"links":      true,
}

// messageArrows lists message arrow tokens, longest first.
var messageArrows = []struct {
	token string
	style LineStyle
	head  Head
}{
	{"-->>", LineDashed, HeadArrow},
	{"->>", LineSolid, HeadArrow},
	{"--)", LineDashed, HeadAsync},
	{"-)", LineSolid, HeadAsync},
	{"-->", LineDashed, HeadNone},
	{"->", LineSolid, HeadNone},
}

type seqParser struct {
	d    *Diagram
	seen map[string]bool
}

func (p *seqParser) line(num int, raw string) error {
	s := newScanner(num, raw)
	s.skipSpace()
	if s.eof() {
		return nil
	}
	col := s.col()

	save := s.pos
	w := s.word()
	switch kw := strings.ToLower(w); {
	case kw == "participant" || kw == "actor":
		return p.participant(s, col, kw == "actor")
	case kw == "autonumber":
		s.skipSpace()
		if !s.eof() {
			return s.unexpected("end of statement")
		}
		p.d.Autonumber = true
		return nil
	case seqKeywords[kw]:
		return s.errorf(col, "unsupported sequence statement %q", w)
	}
	s.pos = save
	return p.message(s, col)
}

func (p *seqParser) participant(s *scanner, col int, actor bool) error {
	s.skipSpace()
	id := s.ident()
	if id == "" {
		return s.unexpected("participant id")
	}
	s.skipSpace()

	var alias string
	if !s.eof() {
		kcol := s.col()
		if kw := s.word(); kw != "as" {
			return s.errorf(kcol, "expected \"as\", found %q", kw)
		}
		s.skipSpace()
		if alias = strings.TrimSpace(s.rest()); alias == "" {
			return s.errorf(s.col(), "missing participant name after \"as\"")
		}
	}

	p.seen[id] = true
	p.d.Statements = append(p.d.Statements, &ParticipantDecl{
		ID:    id,
		Alias: alias,
		Actor: actor,
		Pos:   Pos{Line: s.line, Column: col},
	})
	return nil
}

func (p *seqParser) message(s *scanner, col int) error {
	from := s.ident()
	if from == "" {
		return s.unexpected("participant id")
	}
	fromPos := Pos{Line: s.line, Column: col}
	s.skipSpace()

	acol := s.col()
	var matched bool
	var style LineStyle
	var head Head
	for _, a := range messageArrows {
		if s.hasPrefix(a.token) {
			s.pos += len(a.token)
			style, head, matched = a.style, a.head, true
			break
		}
	}
	if !matched {
		start := s.pos
		for !s.eof() && strings.ContainsRune("-=.>x", s.peek()) {
			s.pos++
		}
		if tok := string(s.src[start:s.pos]); tok != "" {
			return s.errorf(acol, "malformed message arrow %q", tok)
		}
		return s.unexpected("message arrow")
	}

	s.skipSpace()
	tcol := s.col()
	to := s.ident()
	if to == "" {
		return s.unexpected("target participant")
	}
	s.skipSpace()

	var text string
	if !s.eof() {
		if s.peek() != ':' {
			return s.unexpected("\":\" or end of line")
		}
		s.pos++
		text = strings.TrimSpace(s.rest())
	}

	p.declare(from, fromPos)
	p.declare(to, Pos{Line: s.line, Column: tcol})
	p.d.Statements = append(p.d.Statements, &Message{
		From:  from,
		To:    to,
		Text:  text,
		Style: style,
		Head:  head,
		Pos:   Pos{Line: s.line, Column: col},
	})
	return nil
}

// declare auto-declares a participant on first use.
func (p *seqParser) declare(id string, pos Pos) {
	if p.seen[id] {
		return
	}
	p.seen[id] = true
	p.d.Statements = append(p.d.Statements, &ParticipantDecl{ID: id, Implicit: true, Pos: pos})
}
