package miro

import (
	"github.com/matzehuels/mermaidboard/pkg/graph"
	"github.com/matzehuels/mermaidboard/pkg/layout"
	"github.com/matzehuels/mermaidboard/pkg/platform"
)

// Name is the registry name of the platform.
const Name = "miro"

// DisplayName is shown in platform listings.
const DisplayName = "Miro"

// Scale converts layout units to Miro board units.
const Scale = 1.0

// Board offset of the layout origin.
const (
	OriginX = 100.0
	OriginY = 100.0
)

const (
	inkColor  = "#1a1a1a"
	fillColor = "#ffffff"
	fontSize  = 14
)

var shapeNames = map[graph.ShapeHint]string{
	graph.ShapeRectangle:   "rectangle",
	graph.ShapeRounded:     "round_rectangle",
	graph.ShapeDecision:    "rhombus",
	graph.ShapeCircle:      "circle",
	graph.ShapeSubroutine:  "rectangle",
	graph.ShapeParticipant: "round_rectangle",
	graph.ShapeActor:       "circle",
}

var arrowheads = map[graph.ArrowHead]string{
	graph.HeadArrow: "arrow",
	graph.HeadNone:  "none",
	graph.HeadAsync: "stealth",
}

// Converter maps layouts to Miro shapes and connectors.
type Converter struct{}

// NewConverter returns the Miro converter.
func NewConverter() *Converter { return &Converter{} }

// Name implements [platform.Converter].
func (*Converter) Name() string { return Name }

// Convert implements [platform.Converter]. Shapes come out in graph node
// order and connectors in edge order.
func (*Converter) Convert(g *graph.Graph, l *layout.Layout, opts platform.Options) ([]platform.ShapeSpec, []platform.ConnectorSpec, error) {
	nodes, edges, err := platform.Join(g, l)
	if err != nil {
		return nil, nil, err
	}
	scale := opts.Scale
	if scale == 0 {
		scale = Scale
	}
	tr := platform.Transform{Scale: scale, OriginX: OriginX, OriginY: OriginY}

	shapes := make([]platform.ShapeSpec, len(nodes))
	for i, n := range nodes {
		shapes[i] = shapeSpec(n, tr)
	}
	connectors := make([]platform.ConnectorSpec, len(edges))
	for i, e := range edges {
		connectors[i] = connectorSpec(e, tr)
	}
	return shapes, connectors, nil
}

func shapeSpec(n platform.PlacedNode, tr platform.Transform) platform.ShapeSpec {
	name, ok := shapeNames[n.Shape]
	if !ok {
		name = "rectangle"
	}
	style := platform.ShapeStyle{
		FillColor:   fillColor,
		BorderColor: inkColor,
		BorderWidth: 2,
		BorderStyle: "normal",
		FontSize:    fontSize,
		TextColor:   inkColor,
	}
	if n.Shape == graph.ShapeSubroutine {
		// Miro has no double-bordered rectangle; a heavy border stands in.
		style.BorderWidth = 6
	}
	centre := tr.Point(layout.Point{X: n.Box.X, Y: n.Box.Y})
	return platform.ShapeSpec{
		NodeID:  n.ID,
		Shape:   name,
		Content: n.Label,
		X:       centre.X,
		Y:       centre.Y,
		Width:   tr.Length(n.Box.Width),
		Height:  tr.Length(n.Box.Height),
		Style:   style,
	}
}

func connectorSpec(e platform.RoutedEdge, tr platform.Transform) platform.ConnectorSpec {
	style := platform.ConnectorStyle{
		StrokeColor:    inkColor,
		StrokeWidth:    2,
		StrokeStyle:    "normal",
		StartArrowhead: "none",
		EndArrowhead:   arrowheads[e.Head],
	}
	switch e.Style {
	case graph.StyleDashed:
		style.StrokeStyle = "dashed"
	case graph.StyleThick:
		style.StrokeWidth = 4
	}
	if style.EndArrowhead == "" {
		style.EndArrowhead = "arrow"
	}

	// Two waypoints are a plain message row; more means the route bends.
	shape := "straight"
	if len(e.Route.Waypoints) > 2 {
		shape = "elbowed"
	}
	return platform.ConnectorSpec{
		EdgeIndex:  e.Order,
		FromNodeID: e.From,
		ToNodeID:   e.To,
		Shape:      shape,
		Caption:    e.Label,
		Waypoints:  tr.Points(e.Route.Waypoints),
		Style:      style,
	}
}
