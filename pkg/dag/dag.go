package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	// Cycles are detected using depth-first search with white/gray/black
	// coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")

	// ErrRowOrder is returned by [DAG.Validate] when an edge does not point
	// to a strictly deeper row.
	ErrRowOrder = errors.New("edge target must be below its source")
)

// Node is a vertex with an assigned row (layer).
type Node struct {
	ID  string // Unique identifier
	Row int    // Layer assignment (0 = first layer)
}

// Edge is a directed connection. Index identifies the edge in the caller's
// own edge list, so parallel edges between the same nodes stay distinct.
type Edge struct {
	From  string
	To    string
	Index int
}

// DAG is a directed graph used for layer ranking. Unlike a plain adjacency
// map it preserves insertion order everywhere: nodes, edges, children and
// rows all iterate in the order they were added, which keeps every
// algorithm built on top of it deterministic.
//
// Despite the name, a DAG may hold cycles while it is being prepared; run
// transform.BreakCycles before layering and [DAG.Validate] to confirm.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization.
type DAG struct {
	order    []string
	nodes    map[string]*Node
	edges    []Edge
	outgoing map[string][]Edge
	incoming map[string][]Edge
	rows     map[int][]*Node
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]Edge),
		incoming: make(map[string][]Edge),
		rows:     make(map[int][]*Node),
	}
}

// AddNode adds a node and indexes it by its Row.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	d.order = append(d.order, node.ID)
	d.nodes[node.ID] = node
	d.rows[node.Row] = append(d.rows[node.Row], node)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Self loops and
// parallel edges are allowed.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e)
	d.incoming[e.To] = append(d.incoming[e.To], e)
	return nil
}

// RemoveEdge removes the edge with the given Index. No error is returned if
// it does not exist.
func (d *DAG) RemoveEdge(index int) {
	i := slices.IndexFunc(d.edges, func(e Edge) bool { return e.Index == index })
	if i < 0 {
		return
	}
	e := d.edges[i]
	match := func(x Edge) bool { return x.Index == index }
	d.edges = slices.Delete(d.edges, i, i+1)
	d.outgoing[e.From] = slices.DeleteFunc(d.outgoing[e.From], match)
	d.incoming[e.To] = slices.DeleteFunc(d.incoming[e.To], match)
}

// SetRows updates row assignments and rebuilds the row index. Nodes missing
// from the map keep their current row.
func (d *DAG) SetRows(rows map[string]int) {
	d.rows = make(map[int][]*Node)
	for _, id := range d.order {
		n := d.nodes[id]
		if row, ok := rows[id]; ok {
			n.Row = row
		}
		d.rows[n.Row] = append(d.rows[n.Row], n)
	}
}

// Nodes returns all nodes in insertion order.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, len(d.order))
	for i, id := range d.order {
		nodes[i] = d.nodes[id]
	}
	return nodes
}

// Node returns the node with the given ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Outgoing returns the edges leaving id in insertion order. The returned
// slice should not be modified.
func (d *DAG) Outgoing(id string) []Edge { return d.outgoing[id] }

// Children returns the targets of id's outgoing edges, one entry per edge.
func (d *DAG) Children(id string) []string {
	out := make([]string, len(d.outgoing[id]))
	for i, e := range d.outgoing[id] {
		out[i] = e.To
	}
	return out
}

// InDegree returns the number of incoming edges to the node.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// OutDegree returns the number of outgoing edges from the node.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// Sources returns nodes with no incoming edges, in insertion order.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			sources = append(sources, d.nodes[id])
		}
	}
	return sources
}

// NodesInRow returns the nodes assigned to row in insertion order.
func (d *DAG) NodesInRow(row int) []*Node { return d.rows[row] }

// RowIDs returns all row indices in ascending order.
func (d *DAG) RowIDs() []int {
	return slices.Sorted(maps.Keys(d.rows))
}

// Validate checks that the graph is acyclic and that every edge points to a
// strictly deeper row. It is meant to run after layering.
func (d *DAG) Validate() error {
	if err := d.detectCycles(); err != nil {
		return err
	}
	for _, e := range d.edges {
		if d.nodes[e.To].Row <= d.nodes[e.From].Row {
			return ErrRowOrder
		}
	}
	return nil
}

func (d *DAG) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, e := range d.outgoing[id] {
			switch color[e.To] {
			case white:
				dfs(e.To)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, id := range d.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// PosMap creates a position lookup map from a slice of node IDs.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
