package miro

import (
	"reflect"
	"testing"

	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/graph"
	"github.com/matzehuels/mermaidboard/pkg/layout"
	"github.com/matzehuels/mermaidboard/pkg/parser"
	"github.com/matzehuels/mermaidboard/pkg/platform"
)

func prepare(t *testing.T, src string) (*graph.Graph, *layout.Layout) {
	t.Helper()
	d, err := parser.Parse(parser.Source{Text: src})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	g, err := graph.Build(d)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	l, err := layout.Compute(g)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return g, l
}

const scenarioA = "flowchart TD\nA[Start] --> B{Decision}\nB -->|Yes| C[Action 1]\nB -->|No| D[Action 2]"

func TestConvertFlowchart(t *testing.T) {
	g, l := prepare(t, scenarioA)
	shapes, connectors, err := NewConverter().Convert(g, l, platform.Options{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if len(shapes) != 4 || len(connectors) != 3 {
		t.Fatalf("got %d shapes, %d connectors, want 4, 3", len(shapes), len(connectors))
	}

	wantShapes := []struct{ id, shape, content string }{
		{"A", "rectangle", "Start"},
		{"B", "rhombus", "Decision"},
		{"C", "rectangle", "Action 1"},
		{"D", "rectangle", "Action 2"},
	}
	for i, w := range wantShapes {
		s := shapes[i]
		if s.NodeID != w.id || s.Shape != w.shape || s.Content != w.content {
			t.Errorf("shape %d = %s/%s/%q, want %s/%s/%q", i, s.NodeID, s.Shape, s.Content, w.id, w.shape, w.content)
		}
		n, _ := l.Node(w.id)
		if s.X != OriginX+n.X || s.Y != OriginY+n.Y || s.Width != n.Width || s.Height != n.Height {
			t.Errorf("shape %s geometry = (%v,%v %vx%v)", w.id, s.X, s.Y, s.Width, s.Height)
		}
	}

	captions := []string{"", "Yes", "No"}
	for i, c := range connectors {
		if c.EdgeIndex != i || c.Caption != captions[i] || c.Shape != "straight" {
			t.Errorf("connector %d = %+v", i, c)
		}
		if c.Style.EndArrowhead != "arrow" || c.Style.StrokeStyle != "normal" || c.Style.StrokeWidth != 2 {
			t.Errorf("connector %d style = %+v", i, c.Style)
		}
	}
	if connectors[1].FromNodeID != "B" || connectors[1].ToNodeID != "C" {
		t.Errorf("connector 1 endpoints = %s -> %s", connectors[1].FromNodeID, connectors[1].ToNodeID)
	}
}

func TestConvertIsDeterministic(t *testing.T) {
	g, l := prepare(t, "flowchart LR\nA((x)) --> B(y)\nB -.-> C[[z]]\nC ==> A\nC --- D")
	s1, c1, err := NewConverter().Convert(g, l, platform.Options{})
	if err != nil {
		t.Fatal(err)
	}
	s2, c2, _ := NewConverter().Convert(g, l, platform.Options{})
	if !reflect.DeepEqual(s1, s2) || !reflect.DeepEqual(c1, c2) {
		t.Error("Convert() is not deterministic")
	}
}

func TestConvertStyles(t *testing.T) {
	g, l := prepare(t, "flowchart LR\nA((x)) --> B(y)\nB -.-> C[[z]]\nC ==> A\nC --- D")
	shapes, connectors, err := NewConverter().Convert(g, l, platform.Options{})
	if err != nil {
		t.Fatal(err)
	}

	wantShapes := map[string]string{"A": "circle", "B": "round_rectangle", "C": "rectangle", "D": "rectangle"}
	for _, s := range shapes {
		if s.Shape != wantShapes[s.NodeID] {
			t.Errorf("%s shape = %s, want %s", s.NodeID, s.Shape, wantShapes[s.NodeID])
		}
	}
	if shapes[2].Style.BorderWidth <= shapes[3].Style.BorderWidth {
		t.Error("subroutine should have a heavier border than a rectangle")
	}

	if connectors[1].Style.StrokeStyle != "dashed" {
		t.Errorf("dotted edge stroke = %s", connectors[1].Style.StrokeStyle)
	}
	thick := connectors[2]
	if thick.Style.StrokeWidth != 4 {
		t.Errorf("thick edge width = %v", thick.Style.StrokeWidth)
	}
	if thick.Shape != "elbowed" || len(thick.Waypoints) != 4 {
		t.Errorf("back edge C->A = %s with %d waypoints, want elbowed with 4", thick.Shape, len(thick.Waypoints))
	}
	if connectors[3].Style.EndArrowhead != "none" {
		t.Errorf("open line end = %s", connectors[3].Style.EndArrowhead)
	}
}

func TestConvertSequence(t *testing.T) {
	g, l := prepare(t, "sequenceDiagram\nparticipant A as Alice\nactor B as Bob\nA->>B: Hello Bob!\nB-->>A: Hello Alice!\nA-)B: later")
	shapes, connectors, err := NewConverter().Convert(g, l, platform.Options{Scale: 2})
	if err != nil {
		t.Fatal(err)
	}
	if shapes[0].Shape != "round_rectangle" || shapes[1].Shape != "circle" {
		t.Errorf("participant shapes = %s, %s", shapes[0].Shape, shapes[1].Shape)
	}
	if shapes[0].Content != "Alice" || shapes[1].Content != "Bob" {
		t.Errorf("participant labels = %q, %q", shapes[0].Content, shapes[1].Content)
	}
	b, _ := l.Node("B")
	if shapes[1].X != OriginX+2*b.X || shapes[1].Width != 2*b.Width {
		t.Errorf("scaled shape = %+v", shapes[1])
	}
	styles := []string{connectors[0].Style.StrokeStyle, connectors[1].Style.StrokeStyle}
	if styles[0] != "normal" || styles[1] != "dashed" {
		t.Errorf("message styles = %v", styles)
	}
	if connectors[0].Shape != "straight" || connectors[2].Style.EndArrowhead != "stealth" {
		t.Errorf("connectors = %+v", connectors)
	}
}

func TestConvertRejectsMismatchedLayout(t *testing.T) {
	g, _ := prepare(t, scenarioA)
	_, other := prepare(t, "flowchart TD\nA --> B")
	if _, _, err := NewConverter().Convert(g, other, platform.Options{}); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Convert(mismatch) error = %v", err)
	}
	if _, _, err := NewConverter().Convert(nil, nil, platform.Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Convert(nil) error = %v", err)
	}
}
