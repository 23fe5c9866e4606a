package platform

import (
	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/graph"
	"github.com/matzehuels/mermaidboard/pkg/layout"
)

// PlacedNode pairs a graph node with its placement.
type PlacedNode struct {
	graph.Node
	Box layout.Node
}

// RoutedEdge pairs a graph edge with its route.
type RoutedEdge struct {
	graph.Edge
	Route layout.Route
}

// Join matches every graph node and edge with its layout entry, in graph
// order. Converters use it so that a layout computed for a different graph
// is rejected instead of silently producing a broken board.
func Join(g *graph.Graph, l *layout.Layout) ([]PlacedNode, []RoutedEdge, error) {
	if g == nil || l == nil {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "graph and layout are required")
	}
	if g.Kind() != l.Kind() {
		return nil, nil, errors.New(errors.ErrCodeInternal, "layout kind %s does not match graph kind %s", l.Kind(), g.Kind())
	}

	nodes := make([]PlacedNode, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		box, ok := l.Node(n.ID)
		if !ok {
			return nil, nil, errors.New(errors.ErrCodeInternal, "node %q has no placement", n.ID)
		}
		nodes = append(nodes, PlacedNode{Node: n, Box: box})
	}
	if len(l.Nodes()) != len(nodes) {
		return nil, nil, errors.New(errors.ErrCodeInternal, "layout has %d nodes, graph has %d", len(l.Nodes()), len(nodes))
	}

	edges := make([]RoutedEdge, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		r, ok := l.Route(e.Order)
		if !ok || r.From != e.From || r.To != e.To {
			return nil, nil, errors.New(errors.ErrCodeInternal, "edge %d (%s -> %s) has no matching route", e.Order, e.From, e.To)
		}
		edges = append(edges, RoutedEdge{Edge: e, Route: r})
	}
	if len(l.Routes()) != len(edges) {
		return nil, nil, errors.New(errors.ErrCodeInternal, "layout has %d routes, graph has %d edges", len(l.Routes()), len(edges))
	}
	return nodes, edges, nil
}

// Transform maps layout coordinates to board coordinates.
type Transform struct {
	Scale   float64
	OriginX float64
	OriginY float64
}

// Point maps one layout point.
func (t Transform) Point(p layout.Point) layout.Point {
	return layout.Point{X: t.OriginX + p.X*t.Scale, Y: t.OriginY + p.Y*t.Scale}
}

// Length scales a distance.
func (t Transform) Length(v float64) float64 { return v * t.Scale }

// Points maps a slice of layout points. A nil slice stays nil.
func (t Transform) Points(ps []layout.Point) []layout.Point {
	if ps == nil {
		return nil
	}
	out := make([]layout.Point, len(ps))
	for i, p := range ps {
		out[i] = t.Point(p)
	}
	return out
}
