package parser

import (
	"fmt"
	"strings"

	"github.com/matzehuels/mermaidboard/pkg/errors"
)

// unsupportedKinds are Mermaid diagram headers that are recognised but not
// converted. They are rejected rather than parsed as something else.
var unsupportedKinds = map[string]bool{
	"classDiagram":       true,
	"stateDiagram":       true,
	"stateDiagram-v2":    true,
	"erDiagram":          true,
	"gantt":              true,
	"pie":                true,
	"journey":            true,
	"gitGraph":           true,
	"mindmap":            true,
	"timeline":           true,
	"quadrantChart":      true,
	"requirementDiagram": true,
	"C4Context":          true,
	"sankey-beta":        true,
	"xychart-beta":       true,
	"block-beta":         true,
}

var directions = map[string]Direction{
	"TD": DirTopDown,
	"TB": DirTopBottom,
	"BT": DirBottomUp,
	"RL": DirRightLeft,
	"LR": DirLeftRight,
}

// lineParser handles the statements of one diagram kind.
type lineParser interface {
	line(num int, text string) error
}

// Parse parses diagram source into a [Diagram].
//
// The result is either a complete tree or a *errors.ParseError; nothing is
// returned alongside an error.
func Parse(src Source) (*Diagram, error) {
	lines := splitLines(src.Text)

	header := -1
	for i, l := range lines {
		if strings.TrimSpace(l) == "" || isComment(l) {
			continue
		}
		header = i
		break
	}
	if header < 0 {
		return nil, &errors.ParseError{Code: errors.ErrCodeParse, Line: 1, Column: 1, Message: "diagram source is empty"}
	}

	d, err := parseHeader(header+1, splitStatements(lines[header], false)[0])
	if err != nil {
		return nil, err
	}
	if src.Kind != "" && src.Kind != d.Kind {
		return nil, &errors.ParseError{
			Code:    errors.ErrCodeParse,
			Line:    header + 1,
			Column:  1,
			Message: fmt.Sprintf("source declared as %s but header starts a %s diagram", src.Kind, d.Kind),
		}
	}

	var p lineParser
	switch d.Kind {
	case KindFlowchart:
		p = &flowParser{d: d, seen: map[string]bool{}}
	case KindSequence:
		p = &seqParser{d: d, seen: map[string]bool{}}
	}

	for i := header; i < len(lines); i++ {
		if isComment(lines[i]) {
			continue
		}
		stmts := splitStatements(lines[i], d.Kind == KindSequence)
		if i == header {
			stmts = stmts[1:]
		}
		for _, stmt := range stmts {
			if err := p.line(i+1, stmt); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

func parseHeader(num int, raw string) (*Diagram, error) {
	s := newScanner(num, raw)
	s.skipSpace()
	col := s.col()
	kw := s.word()

	d := &Diagram{}
	switch kw {
	case "flowchart", "graph":
		d.Kind = KindFlowchart
		d.Direction = DirTopDown
		s.skipSpace()
		if !s.eof() {
			dcol := s.col()
			word := s.word()
			dir, ok := directions[word]
			if !ok {
				return nil, s.errorf(dcol, "unknown flowchart direction %q", word)
			}
			d.Direction = dir
		}
	case "sequenceDiagram":
		d.Kind = KindSequence
	default:
		if unsupportedKinds[kw] {
			return nil, &errors.ParseError{
				Code:    errors.ErrCodeUnsupportedKind,
				Line:    num,
				Column:  col,
				Message: fmt.Sprintf("%s diagrams are not supported", kw),
			}
		}
		return nil, &errors.ParseError{
			Code:    errors.ErrCodeUnsupportedKind,
			Line:    num,
			Column:  col,
			Message: fmt.Sprintf("unrecognized diagram type %q", kw),
		}
	}

	s.skipSpace()
	if !s.eof() {
		return nil, s.unexpected("end of header")
	}
	return d, nil
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
