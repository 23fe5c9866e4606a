package graph

import (
	"fmt"

	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/parser"
)

// Build normalizes a parsed diagram into a [Graph].
//
// Statements are applied in order. Repeated declarations reuse the existing
// node; the first explicit label and shape win. An edge or message whose
// endpoint was never declared fails with GRAPH_INTEGRITY.
//
// When the diagram enables autonumber, message labels are prefixed with their
// 1-based position ("1. Hello").
func Build(d *parser.Diagram) (*Graph, error) {
	if d == nil {
		return nil, errors.New(errors.ErrCodeGraphIntegrity, "nil diagram")
	}

	var kind Kind
	switch d.Kind {
	case parser.KindFlowchart:
		kind = KindFlowchart
	case parser.KindSequence:
		kind = KindSequence
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedKind, "unsupported diagram kind %q", d.Kind)
	}

	b := &builder{
		g:        New(kind, string(d.Direction)),
		explicit: make(map[string]bool),
	}

	messages := 0
	for _, st := range d.Statements {
		var err error
		switch s := st.(type) {
		case *parser.NodeDecl:
			err = b.declare(s.ID, s.Label, shapeOf(s.Shape), s.Implicit)
		case *parser.ParticipantDecl:
			label, shape := s.Alias, ShapeParticipant
			if label == "" {
				label = s.ID
			}
			if s.Actor {
				shape = ShapeActor
			}
			err = b.declare(s.ID, label, shape, s.Implicit)
		case *parser.EdgeDecl:
			err = b.connect(Edge{
				From:  s.From,
				To:    s.To,
				Label: s.Label,
				Style: styleOf(s.Style),
				Head:  headOf(s.Head),
			})
		case *parser.Message:
			messages++
			label := s.Text
			if d.Autonumber {
				label = numbered(messages, s.Text)
			}
			err = b.connect(Edge{
				From:  s.From,
				To:    s.To,
				Label: label,
				Style: styleOf(s.Style),
				Head:  headOf(s.Head),
			})
		default:
			err = fmt.Errorf("unexpected statement %T", st)
		}
		if err != nil {
			pos := st.Position()
			return nil, errors.Wrap(errors.ErrCodeGraphIntegrity, err, "line %d", pos.Line)
		}
	}
	return b.g, nil
}

type builder struct {
	g        *Graph
	explicit map[string]bool
}

func (b *builder) declare(id, label string, shape ShapeHint, implicit bool) error {
	if _, ok := b.g.Node(id); !ok {
		if err := b.g.AddNode(Node{ID: id, Label: label, Shape: shape}); err != nil {
			return fmt.Errorf("node %q: %w", id, err)
		}
		b.explicit[id] = !implicit
		return nil
	}
	if !implicit && !b.explicit[id] {
		b.g.updateNode(id, label, shape)
		b.explicit[id] = true
	}
	return nil
}

func (b *builder) connect(e Edge) error {
	if err := b.g.AddEdge(e); err != nil {
		return fmt.Errorf("edge %s -> %s: %w", e.From, e.To, err)
	}
	return nil
}

func numbered(n int, text string) string {
	if text == "" {
		return fmt.Sprintf("%d.", n)
	}
	return fmt.Sprintf("%d. %s", n, text)
}

func shapeOf(s parser.Shape) ShapeHint {
	switch s {
	case parser.ShapeRounded:
		return ShapeRounded
	case parser.ShapeDecision:
		return ShapeDecision
	case parser.ShapeCircle:
		return ShapeCircle
	case parser.ShapeSubroutine:
		return ShapeSubroutine
	case parser.ShapeParticipant:
		return ShapeParticipant
	case parser.ShapeActor:
		return ShapeActor
	default:
		return ShapeRectangle
	}
}

func styleOf(s parser.LineStyle) EdgeStyle {
	switch s {
	case parser.LineDashed:
		return StyleDashed
	case parser.LineThick:
		return StyleThick
	default:
		return StyleSolid
	}
}

func headOf(h parser.Head) ArrowHead {
	switch h {
	case parser.HeadNone:
		return HeadNone
	case parser.HeadAsync:
		return HeadAsync
	default:
		return HeadArrow
	}
}
