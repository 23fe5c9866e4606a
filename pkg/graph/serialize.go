package graph

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
)

// wireGraph is the JSON form of a Graph.
type wireGraph struct {
	Kind      Kind   `json:"kind"`
	Direction string `json:"direction,omitempty"`
	Nodes     []Node `json:"nodes"`
	Edges     []Edge `json:"edges"`
}

// MarshalJSON implements json.Marshaler.
func (g *Graph) MarshalJSON() ([]byte, error) {
	nodes, edges := g.nodes, g.edges
	if nodes == nil {
		nodes = []Node{}
	}
	if edges == nil {
		edges = []Edge{}
	}
	return json.Marshal(wireGraph{Kind: g.kind, Direction: g.direction, Nodes: nodes, Edges: edges})
}

// Marshal converts a graph to indented JSON bytes.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a graph as indented JSON to w.
func Write(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Unmarshal decodes a JSON graph and validates it. Order fields in the input
// must match slice positions.
func Unmarshal(data []byte) (*Graph, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a JSON graph from r and validates it.
func Read(r io.Reader) (*Graph, error) {
	var w wireGraph
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	g := &Graph{
		kind:      w.Kind,
		direction: w.Direction,
		nodes:     w.Nodes,
		edges:     w.Edges,
		index:     make(map[string]int, len(w.Nodes)),
	}
	for i, n := range w.Nodes {
		if _, dup := g.index[n.ID]; !dup {
			g.index[n.ID] = i
		}
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return g, nil
}

// Hash returns the SHA-256 hex digest of the compact JSON encoding.
// Equal graphs hash equally.
func Hash(g *Graph) string {
	data, _ := json.Marshal(g)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
