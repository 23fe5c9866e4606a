// Package graph provides the platform-agnostic node/edge model of a diagram.
//
// A [Graph] is built from a parsed [parser.Diagram] by [Build] and is the
// only input the layout engine and the platform converters see. It is
// immutable after construction.
//
// # Invariants
//
//   - Node ids are unique and non-empty
//   - Every edge endpoint resolves to a node
//   - Nodes and edges keep their first-seen source order ([Node.Order],
//     [Edge.Order]), which drives deterministic layout and lane assignment
//
// A violation is a GRAPH_INTEGRITY error. With parser output it can only
// happen if parser and builder disagree about auto-declaration, so callers
// should treat it as an internal failure rather than bad input.
//
// # Declarations
//
// A node declared twice keeps its first explicit label and shape. An
// implicit declaration (a bare id in an edge) is upgraded by the first
// explicit one that follows it, so `A --> B` followed by `B{Check}` yields a
// decision node labelled "Check".
//
// # Serialization
//
// [Marshal] and [Unmarshal] use a node-link JSON format:
//
//	{
//	  "kind": "flowchart",
//	  "nodes": [{"id": "A", "label": "Start", "shape": "rectangle", "order": 0}],
//	  "edges": [{"from": "A", "to": "B", "style": "solid", "head": "arrow", "order": 0}]
//	}
//
// [Hash] returns a stable digest of that encoding, used as a cache and
// history key.
package graph
