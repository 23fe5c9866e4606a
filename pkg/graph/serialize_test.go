package graph

import (
	"strings"
	"testing"
)

func TestMarshalRead(t *testing.T) {
	g := build(t, "flowchart LR\nA[Start] -.->|maybe| B((End))")

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{`"kind": "flowchart"`, `"direction": "LR"`, `"shape": "circle"`, `"style": "dashed"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Marshal() output missing %s:\n%s", want, data)
		}
	}

	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if Hash(back) != Hash(g) {
		t.Error("Hash() differs after decode")
	}
	if n, ok := back.Node("B"); !ok || n.Label != "End" {
		t.Errorf("Node(B) = %+v, %v", n, ok)
	}
}

func TestUnmarshalRejectsBrokenGraphs(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown endpoint", `{"kind":"flowchart","nodes":[{"id":"A","order":0}],"edges":[{"from":"A","to":"B","order":0}]}`},
		{"duplicate id", `{"kind":"flowchart","nodes":[{"id":"A","order":0},{"id":"A","order":1}],"edges":[]}`},
		{"order gap", `{"kind":"flowchart","nodes":[{"id":"A","order":3}],"edges":[]}`},
		{"not json", `nodes: []`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.data)); err == nil {
				t.Error("Unmarshal() error = nil, want error")
			}
		})
	}
}

func TestHashStable(t *testing.T) {
	src := "sequenceDiagram\nA->>B: one\nB-->>A: two"
	h1 := Hash(build(t, src))
	h2 := Hash(build(t, src))
	if h1 != h2 {
		t.Errorf("Hash() not stable: %s vs %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(h1))
	}
	if h3 := Hash(build(t, src+"\nA->>B: three")); h3 == h1 {
		t.Error("Hash() equal for different graphs")
	}
}

func TestMarshalEmptyGraph(t *testing.T) {
	data, err := Marshal(New(KindFlowchart, "TD"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"nodes": []`) {
		t.Errorf("empty graph should encode empty arrays:\n%s", data)
	}
}
