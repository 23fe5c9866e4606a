package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/matzehuels/mermaidboard/pkg/errors"
)

// scanner walks a single source line. Columns are rune based and count from
// the start of the raw line, leading whitespace included.
type scanner struct {
	line int
	src  []rune
	pos  int
}

func newScanner(line int, text string) *scanner {
	return &scanner{line: line, src: []rune(text)}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) col() int { return s.pos + 1 }

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekAt(off int) rune {
	if s.pos+off >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}

func (s *scanner) hasPrefix(p string) bool {
	r := []rune(p)
	if s.pos+len(r) > len(s.src) {
		return false
	}
	for i, c := range r {
		if s.src[s.pos+i] != c {
			return false
		}
	}
	return true
}

func (s *scanner) skipSpace() {
	for !s.eof() && unicode.IsSpace(s.src[s.pos]) {
		s.pos++
	}
}

func (s *scanner) rest() string {
	if s.eof() {
		return ""
	}
	return string(s.src[s.pos:])
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ident consumes an identifier and returns "" when none starts here.
func (s *scanner) ident() string {
	start := s.pos
	for !s.eof() && isIdentRune(s.src[s.pos]) {
		s.pos++
	}
	return string(s.src[start:s.pos])
}

// word consumes a run of non-space runes.
func (s *scanner) word() string {
	start := s.pos
	for !s.eof() && !unicode.IsSpace(s.src[s.pos]) {
		s.pos++
	}
	return string(s.src[start:s.pos])
}

// until consumes runes up to the first occurrence of stop and reports whether
// it was found. The stop sequence itself is consumed.
func (s *scanner) until(stop string) (string, bool) {
	start := s.pos
	for !s.eof() {
		if s.hasPrefix(stop) {
			text := string(s.src[start:s.pos])
			s.pos += len([]rune(stop))
			return text, true
		}
		s.pos++
	}
	return string(s.src[start:]), false
}

func (s *scanner) errorf(col int, format string, args ...any) *errors.ParseError {
	return &errors.ParseError{
		Code:    errors.ErrCodeParse,
		Line:    s.line,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
	}
}

// unexpected reports the token at the current position.
func (s *scanner) unexpected(what string) *errors.ParseError {
	if s.eof() {
		return s.errorf(s.col(), "expected %s, found end of line", what)
	}
	tok := s.word()
	return s.errorf(s.col()-len([]rune(tok)), "expected %s, found %q", what, tok)
}

// splitStatements cuts a raw line at `;` separators. A `;` inside quotes,
// brackets or |edge labels| belongs to the text, as does everything after the
// ':' that opens a sequence message. Each statement is left-padded with
// spaces so columns still match the raw line.
func splitStatements(line string, messageText bool) []string {
	runes := []rune(line)
	var out []string
	start, depth := 0, 0
	quoted, piped := false, false
	cut := func(end int) {
		stmt := strings.Repeat(" ", start) + string(runes[start:end])
		out = append(out, strings.TrimRightFunc(stmt, unicode.IsSpace))
	}

scan:
	for i, r := range runes {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[' || r == '(' || r == '{':
			depth++
		case r == ']' || r == ')' || r == '}':
			depth = max(depth-1, 0)
		case depth > 0:
		case r == '|':
			piped = !piped
		case piped:
		case r == ':' && messageText:
			break scan
		case r == ';':
			cut(i)
			start = i + 1
		}
	}
	cut(len(runes))
	return out
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "%%")
}
