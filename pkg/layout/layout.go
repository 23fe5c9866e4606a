package layout

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/graph"
)

// Point is a position in layout units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Intersects reports whether the two boxes overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX && r.MinY < o.MaxY && o.MinY < r.MaxY
}

// Node is the placement of one graph node.
type Node struct {
	ID     string   `json:"id"`
	X      float64  `json:"x"` // Centre
	Y      float64  `json:"y"` // Centre
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Layer  int      `json:"layer"`
	Index  int      `json:"index"` // Position within the layer
	Lines  []string `json:"lines"` // Wrapped label
}

// Bounds returns the node's bounding box.
func (n Node) Bounds() Rect {
	return Rect{
		MinX: n.X - n.Width/2,
		MinY: n.Y - n.Height/2,
		MaxX: n.X + n.Width/2,
		MaxY: n.Y + n.Height/2,
	}
}

// Route is the routing hint for one graph edge. Empty Waypoints means a
// direct connection between the two node boxes.
type Route struct {
	Edge      int     `json:"edge"` // graph.Edge.Order
	From      string  `json:"from"`
	To        string  `json:"to"`
	Waypoints []Point `json:"waypoints,omitempty"`
	Back      bool    `json:"back,omitempty"`
}

// Layout is a frozen placement of a graph.
type Layout struct {
	kind      graph.Kind
	order     []string
	nodes     map[string]Node
	routes    []Route
	layers    int
	crossings int
	lifeline  float64
	bounds    Rect
}

// Compute lays out g with [DefaultOptions].
func Compute(g *graph.Graph) (*Layout, error) {
	return ComputeWith(g, DefaultOptions())
}

// ComputeWith lays out g with the given options. The same graph and options
// always produce identical layouts.
func ComputeWith(g *graph.Graph, opts Options) (*Layout, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil graph")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	b := newBuilder(g.Kind())
	var err error
	switch g.Kind() {
	case graph.KindFlowchart:
		err = layoutFlowchart(b, g, opts)
	case graph.KindSequence:
		err = layoutSequence(b, g, opts)
	default:
		err = errors.New(errors.ErrCodeUnsupportedKind, "cannot lay out %q graphs", g.Kind())
	}
	if err != nil {
		return nil, err
	}
	return b.freeze(), nil
}

// Kind returns the kind of the graph the layout was computed for.
func (l *Layout) Kind() graph.Kind { return l.kind }

// Node returns the placement of the node with the given ID.
func (l *Layout) Node(id string) (Node, bool) {
	n, ok := l.nodes[id]
	if ok {
		n.Lines = slices.Clone(n.Lines)
	}
	return n, ok
}

// Nodes returns all placements in graph order.
func (l *Layout) Nodes() []Node {
	out := make([]Node, len(l.order))
	for i, id := range l.order {
		out[i], _ = l.Node(id)
	}
	return out
}

// Routes returns one route per graph edge, in edge order.
func (l *Layout) Routes() []Route {
	out := make([]Route, len(l.routes))
	for i, r := range l.routes {
		r.Waypoints = slices.Clone(r.Waypoints)
		out[i] = r
	}
	return out
}

// Route returns the route of the edge with the given order index.
func (l *Layout) Route(edge int) (Route, bool) {
	if edge < 0 || edge >= len(l.routes) {
		return Route{}, false
	}
	r := l.routes[edge]
	r.Waypoints = slices.Clone(r.Waypoints)
	return r, true
}

// Layers returns the number of layers (1 for sequence diagrams, 0 when empty).
func (l *Layout) Layers() int { return l.layers }

// Crossings returns the number of edge crossings between adjacent layers.
func (l *Layout) Crossings() int { return l.crossings }

// BackEdges returns the number of routes marked as back-edges.
func (l *Layout) BackEdges() int {
	n := 0
	for _, r := range l.routes {
		if r.Back {
			n++
		}
	}
	return n
}

// Bounds returns a box containing every node and waypoint.
func (l *Layout) Bounds() Rect { return l.bounds }

// builder accumulates a layout before it is frozen.
type builder struct {
	kind      graph.Kind
	order     []string
	nodes     map[string]Node
	routes    []Route
	layers    int
	crossings int
	lifeline  float64
	extent    []Point
}

func newBuilder(kind graph.Kind) *builder {
	return &builder{kind: kind, nodes: make(map[string]Node)}
}

func (b *builder) place(n Node) error {
	if _, dup := b.nodes[n.ID]; dup {
		return errors.New(errors.ErrCodeInternal, "node %q placed twice", n.ID)
	}
	b.order = append(b.order, n.ID)
	b.nodes[n.ID] = n
	r := n.Bounds()
	b.extent = append(b.extent, Point{r.MinX, r.MinY}, Point{r.MaxX, r.MaxY})
	return nil
}

func (b *builder) route(r Route) error {
	if r.Edge != len(b.routes) {
		return errors.New(errors.ErrCodeInternal, "route %d out of order", r.Edge)
	}
	b.routes = append(b.routes, r)
	b.extent = append(b.extent, r.Waypoints...)
	return nil
}

func (b *builder) freeze() *Layout {
	l := &Layout{
		kind:      b.kind,
		order:     b.order,
		nodes:     b.nodes,
		routes:    b.routes,
		layers:    b.layers,
		crossings: b.crossings,
		lifeline:  b.lifeline,
	}
	if len(b.extent) > 0 {
		r := Rect{MinX: b.extent[0].X, MinY: b.extent[0].Y, MaxX: b.extent[0].X, MaxY: b.extent[0].Y}
		for _, p := range b.extent[1:] {
			r.MinX, r.MaxX = min(r.MinX, p.X), max(r.MaxX, p.X)
			r.MinY, r.MaxY = min(r.MinY, p.Y), max(r.MaxY, p.Y)
		}
		l.bounds = r
	}
	// The builder must not be reused once frozen.
	*b = builder{}
	return l
}

// wireLayout is the JSON form of a Layout.
type wireLayout struct {
	Kind        graph.Kind `json:"kind"`
	Layers      int        `json:"layers"`
	Crossings   int        `json:"crossings"`
	BackEdges   int        `json:"back_edges"`
	LifelineEnd float64    `json:"lifeline_end,omitempty"`
	Bounds      Rect       `json:"bounds"`
	Nodes       []Node     `json:"nodes"`
	Routes      []Route    `json:"routes"`
}

// MarshalJSON implements json.Marshaler. The encoding is one-way; layouts
// are always recomputed from their graph.
func (l *Layout) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireLayout{
		Kind:        l.kind,
		Layers:      l.layers,
		Crossings:   l.crossings,
		BackEdges:   l.BackEdges(),
		LifelineEnd: l.lifeline,
		Bounds:      l.bounds,
		Nodes:       l.Nodes(),
		Routes:      l.Routes(),
	})
}

func (l *Layout) String() string {
	return fmt.Sprintf("layout(%s: %d nodes, %d routes, %d layers)", l.kind, len(l.order), len(l.routes), l.layers)
}
