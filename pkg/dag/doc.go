// Package dag provides the ordered directed graph used for layer ranking.
//
// # Overview
//
// The layout engine ranks flowchart nodes into layers. This package holds the
// structure it ranks: nodes with a Row, and edges carrying the index of the
// diagram edge they came from. Every query returns results in insertion
// order, so layering the same graph twice yields the same rows and the same
// within-row order.
//
// # Basic Usage
//
//	g := dag.New()
//	_ = g.AddNode(dag.Node{ID: "a"})
//	_ = g.AddNode(dag.Node{ID: "b"})
//	_ = g.AddEdge(dag.Edge{From: "a", To: "b", Index: 0})
//
// Cycles are allowed while building. Use transform.BreakCycles to remove
// back-edges, transform.AssignLayers to compute rows, and [DAG.Validate] to
// confirm the result is acyclic with every edge pointing downward.
//
// # Crossings
//
// [CountCrossings] reports how many edges cross between consecutive rows for
// the current row order. The layout engine records it as a quality metric.
package dag
