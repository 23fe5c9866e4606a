package transform

import (
	"testing"

	"github.com/matzehuels/mermaidboard/pkg/dag"
)

func newGraph(t *testing.T, nodes []string, edges [][2]string) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, id := range nodes {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s) error = %v", id, err)
		}
	}
	for i, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1], Index: i}); err != nil {
			t.Fatalf("AddEdge(%v) error = %v", e, err)
		}
	}
	return g
}

func rowsOf(g *dag.DAG) map[string]int {
	rows := map[string]int{}
	for _, n := range g.Nodes() {
		rows[n.ID] = n.Row
	}
	return rows
}

func TestBreakCycles_NoCycles(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	removed := BreakCycles(g)

	if len(removed) != 0 {
		t.Errorf("BreakCycles() removed %d edges, want 0", len(removed))
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestBreakCycles_SimpleCycle(t *testing.T) {
	g := newGraph(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})

	removed := BreakCycles(g)

	if len(removed) != 1 {
		t.Fatalf("BreakCycles() removed %d edges, want 1", len(removed))
	}
	// Neither node is a source; traversal starts at the first inserted node.
	if removed[0].Index != 1 {
		t.Errorf("removed edge index = %d, want 1 (b->a)", removed[0].Index)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestBreakCycles_PrefersSources(t *testing.T) {
	// s -> b -> c -> b; c is inserted before s, but s is the only source.
	g := newGraph(t, []string{"c", "b", "s"}, [][2]string{{"s", "b"}, {"b", "c"}, {"c", "b"}})

	removed := BreakCycles(g)

	if len(removed) != 1 || removed[0].From != "c" || removed[0].To != "b" {
		t.Fatalf("BreakCycles() removed %+v, want c->b", removed)
	}
}

func TestBreakCycles_SelfLoop(t *testing.T) {
	g := newGraph(t, []string{"a", "b"}, [][2]string{{"a", "a"}, {"a", "b"}})

	removed := BreakCycles(g)

	if len(removed) != 1 || removed[0].Index != 0 {
		t.Fatalf("BreakCycles() removed %+v, want the self loop", removed)
	}
}

func TestBreakCycles_ParallelEdges(t *testing.T) {
	g := newGraph(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"a", "b"}, {"b", "a"}})

	removed := BreakCycles(g)

	if len(removed) != 1 || removed[0].Index != 2 {
		t.Fatalf("BreakCycles() removed %+v, want only b->a", removed)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestBreakCycles_Deterministic(t *testing.T) {
	nodes := []string{"a", "b", "c", "d", "e"}
	edges := [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"c", "d"}, {"d", "e"}, {"e", "c"}, {"e", "b"}}

	first := BreakCycles(newGraph(t, nodes, edges))
	for i := 0; i < 20; i++ {
		again := BreakCycles(newGraph(t, nodes, edges))
		if len(again) != len(first) {
			t.Fatalf("run %d removed %d edges, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d removed %+v, want %+v", i, again, first)
			}
		}
	}
}

func TestAssignLayers(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		want  map[string]int
	}{
		{
			name:  "chain",
			nodes: []string{"a", "b", "c"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}},
			want:  map[string]int{"a": 0, "b": 1, "c": 2},
		},
		{
			name:  "longest path wins",
			nodes: []string{"a", "b", "c"},
			edges: [][2]string{{"a", "c"}, {"a", "b"}, {"b", "c"}},
			want:  map[string]int{"a": 0, "b": 1, "c": 2},
		},
		{
			name:  "disconnected",
			nodes: []string{"a", "b", "x"},
			edges: [][2]string{{"a", "b"}},
			want:  map[string]int{"a": 0, "b": 1, "x": 0},
		},
		{
			name:  "after cycle removal",
			nodes: []string{"a", "b", "c"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
			want:  map[string]int{"a": 0, "b": 1, "c": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(t, tt.nodes, tt.edges)
			BreakCycles(g)
			AssignLayers(g)

			got := rowsOf(g)
			for id, row := range tt.want {
				if got[id] != row {
					t.Errorf("row[%s] = %d, want %d", id, got[id], row)
				}
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}
