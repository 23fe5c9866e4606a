package transform

import "github.com/matzehuels/mermaidboard/pkg/dag"

// BreakCycles removes back-edges so the graph becomes acyclic and returns the
// removed edges in the order they were found.
//
// Depth-first search starts from every source node in insertion order, then
// from any node still unvisited (nodes that only sit on cycles), again in
// insertion order. Outgoing edges are followed in insertion order. An edge
// that reaches a node on the current DFS stack is a back-edge. Self loops are
// always back-edges.
//
// The traversal order is fixed, so the same graph always loses the same
// edges. No attempt is made to minimise the number of removed edges.
func BreakCycles(g *dag.DAG) []dag.Edge {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var backEdges []dag.Edge

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, e := range g.Outgoing(node) {
			switch color[e.To] {
			case white:
				dfs(e.To)
			case gray:
				backEdges = append(backEdges, e)
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e.Index)
	}
	return backEdges
}
