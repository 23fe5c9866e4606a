package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrOrderMismatch is returned by [Graph.Validate] when node or edge
	// order indices are not 0..n-1 in slice order.
	ErrOrderMismatch = errors.New("order indices out of sequence")
)

// Kind is the diagram kind a graph was built from.
type Kind string

const (
	KindFlowchart Kind = "flowchart"
	KindSequence  Kind = "sequence"
)

// ShapeHint is the node shape derived from source syntax. Converters map it
// to their platform's shape vocabulary.
type ShapeHint string

const (
	ShapeRectangle   ShapeHint = "rectangle"
	ShapeRounded     ShapeHint = "rounded"
	ShapeDecision    ShapeHint = "decision"
	ShapeCircle      ShapeHint = "circle"
	ShapeSubroutine  ShapeHint = "subroutine"
	ShapeParticipant ShapeHint = "participant"
	ShapeActor       ShapeHint = "actor"
)

// EdgeStyle is the stroke style derived from the arrow token.
type EdgeStyle string

const (
	StyleSolid  EdgeStyle = "solid"
	StyleDashed EdgeStyle = "dashed"
	StyleThick  EdgeStyle = "thick"
)

// ArrowHead is the end decoration derived from the arrow token.
type ArrowHead string

const (
	HeadArrow ArrowHead = "arrow"
	HeadNone  ArrowHead = "none"
	HeadAsync ArrowHead = "async"
)

// Node is a diagram vertex.
type Node struct {
	ID    string    `json:"id" bson:"id"`
	Label string    `json:"label" bson:"label"`
	Shape ShapeHint `json:"shape" bson:"shape"`
	Order int       `json:"order" bson:"order"` // First-seen index
}

// Edge is a directed connection between two nodes. For sequence diagrams
// edges are messages and Order is their temporal position.
type Edge struct {
	From  string    `json:"from" bson:"from"`
	To    string    `json:"to" bson:"to"`
	Label string    `json:"label,omitempty" bson:"label,omitempty"`
	Style EdgeStyle `json:"style" bson:"style"`
	Head  ArrowHead `json:"head" bson:"head"`
	Order int       `json:"order" bson:"order"`
}

// IsSelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsSelfLoop() bool { return e.From == e.To }

// Graph is an ordered node/edge model of one diagram.
//
// The zero value is not usable; use [New] or [Build].
type Graph struct {
	kind      Kind
	direction string
	nodes     []Node
	edges     []Edge
	index     map[string]int
}

// New creates an empty graph of the given kind. Direction is the flowchart
// header direction (e.g. "TD") and is empty for sequence diagrams.
func New(kind Kind, direction string) *Graph {
	return &Graph{
		kind:      kind,
		direction: direction,
		index:     make(map[string]int),
	}
}

// Kind returns the diagram kind.
func (g *Graph) Kind() Kind { return g.kind }

// Direction returns the flowchart direction, or "" for sequence diagrams.
// It is informational; package layout does not rotate for it.
func (g *Graph) Direction() string { return g.direction }

// AddNode appends a node and assigns its Order. The Order field of n is
// ignored.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Label == "" {
		n.Label = n.ID
	}
	if n.Shape == "" {
		n.Shape = ShapeRectangle
	}
	n.Order = len(g.nodes)
	g.index[n.ID] = n.Order
	g.nodes = append(g.nodes, n)
	return nil
}

// AddEdge appends an edge between two existing nodes and assigns its Order.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.index[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.index[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.Style == "" {
		e.Style = StyleSolid
	}
	if e.Head == "" {
		e.Head = HeadArrow
	}
	e.Order = len(g.edges)
	g.edges = append(g.edges, e)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Nodes returns a copy of the nodes in first-seen order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of the edges in source order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// NodeIDs returns node IDs in first-seen order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	return ids
}

// Validate re-checks the structural invariants. Graphs built by [Build] or
// through AddNode/AddEdge always pass; it exists for graphs decoded from
// external data.
func (g *Graph) Validate() error {
	seen := make(map[string]bool, len(g.nodes))
	for i, n := range g.nodes {
		if n.ID == "" {
			return ErrInvalidNodeID
		}
		if seen[n.ID] {
			return ErrDuplicateNodeID
		}
		if n.Order != i {
			return ErrOrderMismatch
		}
		seen[n.ID] = true
	}
	for i, e := range g.edges {
		if !seen[e.From] {
			return ErrUnknownSourceNode
		}
		if !seen[e.To] {
			return ErrUnknownTargetNode
		}
		if e.Order != i {
			return ErrOrderMismatch
		}
	}
	return nil
}

// updateNode replaces label and shape of an existing node in place.
func (g *Graph) updateNode(id, label string, shape ShapeHint) {
	i := g.index[id]
	g.nodes[i].Label = label
	g.nodes[i].Shape = shape
}
