package graph

import (
	stderrors "errors"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/parser"
)

func build(t *testing.T, src string) *Graph {
	t.Helper()
	d, err := parser.Parse(parser.Source{Text: src})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	g, err := Build(d)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

func TestAddNode(t *testing.T) {
	g := New(KindFlowchart, "TD")

	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !stderrors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(duplicate) error = %v, want ErrDuplicateNodeID", err)
	}
	if err := g.AddNode(Node{}); !stderrors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) error = %v, want ErrInvalidNodeID", err)
	}

	n, ok := g.Node("a")
	if !ok {
		t.Fatal("Node(a) not found")
	}
	if n.Label != "a" || n.Shape != ShapeRectangle || n.Order != 0 {
		t.Errorf("defaults = %+v, want label a, rectangle, order 0", n)
	}
}

func TestAddEdge(t *testing.T) {
	g := New(KindFlowchart, "TD")
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})

	if err := g.AddEdge(Edge{From: "a", To: "b"}); err != nil {
		t.Fatalf("AddEdge() error = %v", err)
	}
	if err := g.AddEdge(Edge{From: "x", To: "b"}); !stderrors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge(unknown from) error = %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !stderrors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge(unknown to) error = %v", err)
	}

	e := g.Edges()[0]
	if e.Style != StyleSolid || e.Head != HeadArrow || e.Order != 0 {
		t.Errorf("edge defaults = %+v", e)
	}
}

func TestBuildScenarioA(t *testing.T) {
	g := build(t, "flowchart TD\nA[Start] --> B{Decision}\nB -->|Yes| C[Action 1]\nB -->|No| D[Action 2]")

	if g.Kind() != KindFlowchart {
		t.Errorf("Kind() = %v, want flowchart", g.Kind())
	}
	if got := g.NodeIDs(); !slices.Equal(got, []string{"A", "B", "C", "D"}) {
		t.Errorf("NodeIDs() = %v, want [A B C D]", got)
	}
	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", g.EdgeCount())
	}
	b, _ := g.Node("B")
	if b.Shape != ShapeDecision || b.Label != "Decision" {
		t.Errorf("B = %+v, want decision labelled Decision", b)
	}
	if e := g.Edges()[2]; e.From != "B" || e.To != "D" || e.Label != "No" {
		t.Errorf("edge 2 = %+v", e)
	}
}

func TestBuildScenarioB(t *testing.T) {
	g := build(t, "sequenceDiagram\nparticipant A as Alice\nparticipant B as Bob\nA->>B: Hello Bob!\nB-->>A: Hello Alice!")

	if g.NodeCount() != 2 || g.EdgeCount() != 2 {
		t.Fatalf("nodes/edges = %d/%d, want 2/2", g.NodeCount(), g.EdgeCount())
	}
	var styles []EdgeStyle
	for _, e := range g.Edges() {
		styles = append(styles, e.Style)
	}
	if !slices.Equal(styles, []EdgeStyle{StyleSolid, StyleDashed}) {
		t.Errorf("styles = %v, want [solid dashed]", styles)
	}
	a, _ := g.Node("A")
	if a.Label != "Alice" || a.Shape != ShapeParticipant {
		t.Errorf("A = %+v", a)
	}
}

func TestBuildDistinctIDs(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		ids   []string
		edges int
	}{
		{
			name:  "repeated references",
			src:   "flowchart TD\nA --> B\nB --> C\nC --> A\nA --> C",
			ids:   []string{"A", "B", "C"},
			edges: 4,
		},
		{
			name:  "bare nodes and self loop",
			src:   "flowchart LR\nX\nY\nX --> X\nY -.-> X",
			ids:   []string{"X", "Y"},
			edges: 2,
		},
		{
			name:  "sequence auto declaration",
			src:   "sequenceDiagram\nClient->>API: call\nAPI->>DB: query\nDB-->>API: rows\nAPI-->>Client: ok",
			ids:   []string{"Client", "API", "DB"},
			edges: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.src)
			if got := g.NodeIDs(); !slices.Equal(got, tt.ids) {
				t.Errorf("NodeIDs() = %v, want %v", got, tt.ids)
			}
			if g.EdgeCount() != tt.edges {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), tt.edges)
			}
		})
	}
}

func TestBuildFirstLabelWins(t *testing.T) {
	g := build(t, "flowchart TD\nA --> B\nB{Check} --> C\nB[Other] --> D\nA(Later)")

	b, _ := g.Node("B")
	if b.Label != "Check" || b.Shape != ShapeDecision {
		t.Errorf("B = %+v, want implicit node upgraded by first explicit declaration", b)
	}
	a, _ := g.Node("A")
	if a.Label != "Later" || a.Shape != ShapeRounded {
		t.Errorf("A = %+v, want upgraded to Later/rounded", a)
	}
	if a.Order != 0 || b.Order != 1 {
		t.Errorf("orders = %d, %d, want 0, 1", a.Order, b.Order)
	}

	g = build(t, "flowchart TD\nA[First]\nA[Second]")
	a, _ = g.Node("A")
	if a.Label != "First" {
		t.Errorf("A label = %q, want First", a.Label)
	}
}

func TestBuildAutonumber(t *testing.T) {
	g := build(t, "sequenceDiagram\nautonumber\nA->>B: hello\nB-->>A")

	labels := []string{g.Edges()[0].Label, g.Edges()[1].Label}
	if !slices.Equal(labels, []string{"1. hello", "2."}) {
		t.Errorf("labels = %v", labels)
	}
}

func TestBuildActor(t *testing.T) {
	g := build(t, "sequenceDiagram\nactor U\nU->>S: hi")
	u, _ := g.Node("U")
	if u.Shape != ShapeActor || u.Label != "U" {
		t.Errorf("U = %+v, want actor labelled U", u)
	}
	s, _ := g.Node("S")
	if s.Shape != ShapeParticipant {
		t.Errorf("S shape = %v, want participant", s.Shape)
	}
}

func TestBuildIntegrityError(t *testing.T) {
	d := &parser.Diagram{
		Kind: parser.KindFlowchart,
		Statements: []parser.Statement{
			&parser.NodeDecl{ID: "A", Label: "A", Shape: parser.ShapeRectangle, Pos: parser.Pos{Line: 2, Column: 1}},
			&parser.EdgeDecl{From: "A", To: "Ghost", Style: parser.LineSolid, Head: parser.HeadArrow, Pos: parser.Pos{Line: 3, Column: 1}},
		},
	}

	g, err := Build(d)
	if g != nil {
		t.Error("Build() returned a graph alongside an error")
	}
	if !errors.Is(err, errors.ErrCodeGraphIntegrity) {
		t.Fatalf("Build() error = %v, want GRAPH_INTEGRITY", err)
	}
	if !stderrors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("Build() error = %v, want wrapped ErrUnknownTargetNode", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("Build() error = %q, want line reference", err.Error())
	}
}

func TestBuildNil(t *testing.T) {
	if _, err := Build(nil); !errors.Is(err, errors.ErrCodeGraphIntegrity) {
		t.Errorf("Build(nil) error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	g := build(t, "flowchart TD\nA --> B")
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	broken := &Graph{
		kind:  KindFlowchart,
		nodes: []Node{{ID: "A", Order: 0}},
		edges: []Edge{{From: "A", To: "B", Order: 0}},
	}
	if err := broken.Validate(); !stderrors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("Validate() error = %v, want ErrUnknownTargetNode", err)
	}
}
