// Package lucid declares the Lucid platform.
//
// Only the converter exists. Lucid has no backend yet, so the platform is
// always reported as unconfigured and every conversion against it fails
// with UNSUPPORTED before any remote call is made. The converter output can
// still be previewed.
package lucid

import (
	"github.com/matzehuels/mermaidboard/pkg/graph"
	"github.com/matzehuels/mermaidboard/pkg/layout"
	"github.com/matzehuels/mermaidboard/pkg/platform"
)

// Name is the registry name of the platform.
const Name = "lucid"

// DisplayName is shown in platform listings.
const DisplayName = "Lucidchart"

var shapeNames = map[graph.ShapeHint]string{
	graph.ShapeRectangle:   "process",
	graph.ShapeRounded:     "terminator",
	graph.ShapeDecision:    "decision",
	graph.ShapeCircle:      "circle",
	graph.ShapeSubroutine:  "predefinedProcess",
	graph.ShapeParticipant: "rectangle",
	graph.ShapeActor:       "actor",
}

// Converter maps layouts to Lucid standard-import shapes.
type Converter struct{}

// NewConverter returns the Lucid converter.
func NewConverter() *Converter { return &Converter{} }

// Name implements [platform.Converter].
func (*Converter) Name() string { return Name }

// Convert implements [platform.Converter].
func (*Converter) Convert(g *graph.Graph, l *layout.Layout, opts platform.Options) ([]platform.ShapeSpec, []platform.ConnectorSpec, error) {
	nodes, edges, err := platform.Join(g, l)
	if err != nil {
		return nil, nil, err
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	// Lucid pages start at the top-left corner, so shift the layout bounds
	// to the origin.
	b := l.Bounds()
	tr := platform.Transform{Scale: scale, OriginX: -b.MinX * scale, OriginY: -b.MinY * scale}

	shapes := make([]platform.ShapeSpec, len(nodes))
	for i, n := range nodes {
		name, ok := shapeNames[n.Shape]
		if !ok {
			name = "process"
		}
		c := tr.Point(layout.Point{X: n.Box.X, Y: n.Box.Y})
		shapes[i] = platform.ShapeSpec{
			NodeID:  n.ID,
			Shape:   name,
			Content: n.Label,
			X:       c.X,
			Y:       c.Y,
			Width:   tr.Length(n.Box.Width),
			Height:  tr.Length(n.Box.Height),
			Style:   platform.ShapeStyle{FillColor: "#ffffff", BorderColor: "#333333", BorderWidth: 1, FontSize: 12},
		}
	}

	connectors := make([]platform.ConnectorSpec, len(edges))
	for i, e := range edges {
		spec := platform.ConnectorSpec{
			EdgeIndex:  e.Order,
			FromNodeID: e.From,
			ToNodeID:   e.To,
			Shape:      "straight",
			Caption:    e.Label,
			Waypoints:  tr.Points(e.Route.Waypoints),
			Style: platform.ConnectorStyle{
				StrokeColor:  "#333333",
				StrokeWidth:  1,
				StrokeStyle:  "solid",
				EndArrowhead: "Arrow",
			},
		}
		if len(e.Route.Waypoints) > 2 {
			spec.Shape = "elbow"
		}
		switch e.Style {
		case graph.StyleDashed:
			spec.Style.StrokeStyle = "dashed"
		case graph.StyleThick:
			spec.Style.StrokeWidth = 3
		}
		switch e.Head {
		case graph.HeadNone:
			spec.Style.EndArrowhead = "None"
		case graph.HeadAsync:
			spec.Style.EndArrowhead = "OpenArrow"
		}
		connectors[i] = spec
	}
	return shapes, connectors, nil
}

var _ platform.Converter = (*Converter)(nil)
