// Package layout computes a deterministic 2-D placement for a diagram graph.
//
// Coordinates are abstract layout units, not pixels. Platform converters
// scale them into their own coordinate space. Every node position is the
// centre of its box.
//
// # Flowcharts
//
// Flowcharts use a layered layout:
//
//  1. Back-edges are removed for ranking only (transform.BreakCycles). The
//     traversal starts at source nodes in first-seen order, then at any node
//     still unvisited; the first edge that closes a cycle in that order is
//     the one dropped.
//  2. Nodes are ranked by longest path from a source (transform.AssignLayers).
//  3. Within a layer nodes keep first-seen order.
//  4. X = layer × ColumnSpacing, Y = index × RowSpacing.
//
// Box sizes follow the label: text is wrapped at MaxLabelChars with at most
// MaxLabelLines lines, so the largest box is still narrower than a column
// and lower than a row. Two boxes in one layer therefore never overlap.
//
// Edges are direct unless they are back-edges (target layer ≤ source layer,
// self loops included). A back-edge leaves through the channel right of its
// source layer, runs above the whole diagram and drops into the channel left
// of its target layer. Each back-edge gets its own lane above the diagram.
//
// # Sequence Diagrams
//
// Participants sit in one row at Y = 0, X = order × LaneSpacing. Message i
// is a horizontal row at Y = HeaderGap + (i+1) × MessageRowHeight with two
// waypoints on the sender and receiver lifelines. Self messages get a small
// four-point loop to the right of the lifeline.
//
// # Direction
//
// The flowchart header direction is recorded on the graph but the layout is
// always computed in the orientation above: ranks advance along X whatever
// the header says, so TD, TB, LR, BT and RL sources with the same statements
// yield identical layouts.
//
// # Freezing
//
// [Compute] returns a [Layout] that has no mutators. Accessors return copies.
package layout
