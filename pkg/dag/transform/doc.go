// Package transform prepares a [dag.DAG] for layered layout.
//
// Flowcharts may contain cycles (retry loops, "back to start" edges). Layer
// ranking needs an acyclic graph, so ranking runs in two steps:
//
//  1. [BreakCycles] removes back-edges found by a depth-first search in a
//     fixed traversal order and returns them. The caller keeps drawing those
//     edges; they are only excluded from ranking.
//  2. [AssignLayers] computes longest-path rows with Kahn's algorithm.
//
// Example:
//
//	g := dag.New()
//	// ... add nodes and edges
//	back := transform.BreakCycles(g)
//	transform.AssignLayers(g)
//	if err := g.Validate(); err != nil {
//	    // cannot happen after BreakCycles
//	}
//	_ = back
package transform
