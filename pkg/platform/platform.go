package platform

import (
	"context"

	"github.com/matzehuels/mermaidboard/pkg/graph"
	"github.com/matzehuels/mermaidboard/pkg/layout"
)

// ShapeSpec is a platform-specific request to create one shape. X and Y are
// the shape centre in platform board coordinates.
type ShapeSpec struct {
	NodeID  string     `json:"node_id"`
	Shape   string     `json:"shape"` // Platform shape name, e.g. "rhombus"
	Content string     `json:"content"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	Width   float64    `json:"width"`
	Height  float64    `json:"height"`
	Style   ShapeStyle `json:"style"`
}

// ShapeStyle carries the visual attributes of a shape.
type ShapeStyle struct {
	FillColor   string  `json:"fill_color,omitempty"`
	BorderColor string  `json:"border_color,omitempty"`
	BorderWidth float64 `json:"border_width,omitempty"`
	BorderStyle string  `json:"border_style,omitempty"`
	FontSize    int     `json:"font_size,omitempty"`
	TextColor   string  `json:"text_color,omitempty"`
}

// ConnectorSpec is a platform-specific request to create one connector
// between two shapes identified by diagram node IDs. The executor
// translates the IDs to platform shape IDs once all shapes exist.
type ConnectorSpec struct {
	EdgeIndex  int            `json:"edge_index"` // graph.Edge.Order
	FromNodeID string         `json:"from"`
	ToNodeID   string         `json:"to"`
	Shape      string         `json:"shape"` // "straight" or "elbowed"
	Caption    string         `json:"caption,omitempty"`
	Waypoints  []layout.Point `json:"waypoints,omitempty"`
	Style      ConnectorStyle `json:"style"`
}

// ConnectorStyle carries the visual attributes of a connector.
type ConnectorStyle struct {
	StrokeColor    string  `json:"stroke_color,omitempty"`
	StrokeWidth    float64 `json:"stroke_width,omitempty"`
	StrokeStyle    string  `json:"stroke_style,omitempty"`
	StartArrowhead string  `json:"start_arrowhead,omitempty"`
	EndArrowhead   string  `json:"end_arrowhead,omitempty"`
}

// Options are per-conversion settings passed to a [Converter].
type Options struct {
	// Scale multiplies layout units. Zero means the converter default.
	Scale float64
}

// Converter maps a graph and its layout to platform creation requests.
// Implementations are pure: no I/O and the same input always yields the
// same specs.
type Converter interface {
	Name() string
	Convert(g *graph.Graph, l *layout.Layout, opts Options) ([]ShapeSpec, []ConnectorSpec, error)
}

// Board identifies a board created on a platform.
type Board struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Backend performs the remote calls for one platform. Each method makes a
// single attempt; throttling and retries belong to the executor.
// Credentials are bound at construction.
type Backend interface {
	CreateBoard(ctx context.Context, name, description string) (Board, error)
	CreateShape(ctx context.Context, boardID string, s ShapeSpec) (string, error)
	CreateConnector(ctx context.Context, boardID string, c ConnectorSpec, fromShapeID, toShapeID string) (string, error)
	Ping(ctx context.Context) error
}
