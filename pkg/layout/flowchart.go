package layout

import (
	"github.com/matzehuels/mermaidboard/pkg/dag"
	"github.com/matzehuels/mermaidboard/pkg/dag/transform"
	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/graph"
)

func layoutFlowchart(b *builder, g *graph.Graph, o Options) error {
	d := dag.New()
	for _, n := range g.Nodes() {
		if err := d.AddNode(dag.Node{ID: n.ID}); err != nil {
			return errors.Wrap(errors.ErrCodeGraphIntegrity, err, "node %q", n.ID)
		}
	}
	edges := g.Edges()
	for _, e := range edges {
		if err := d.AddEdge(dag.Edge{From: e.From, To: e.To, Index: e.Order}); err != nil {
			return errors.Wrap(errors.ErrCodeGraphIntegrity, err, "edge %s -> %s", e.From, e.To)
		}
	}

	transform.BreakCycles(d)
	transform.AssignLayers(d)
	if err := d.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "layer ranking")
	}

	layerX := func(row int) float64 { return float64(row) * o.ColumnSpacing }

	for _, row := range d.RowIDs() {
		for i, dn := range d.NodesInRow(row) {
			gn, _ := g.Node(dn.ID)
			lines := wrapLabel(gn.Label, o.MaxLabelChars, o.MaxLabelLines)
			w, h := boxSize(lines, o)
			if gn.Shape == graph.ShapeCircle {
				w = min(max(w, h), o.MaxHeight())
				h = w
			}
			if err := b.place(Node{
				ID:     dn.ID,
				X:      layerX(row),
				Y:      float64(i) * o.RowSpacing,
				Width:  w,
				Height: h,
				Layer:  row,
				Index:  i,
				Lines:  lines,
			}); err != nil {
				return err
			}
		}
	}
	b.order = g.NodeIDs()
	b.layers = len(d.RowIDs())
	b.crossings = dag.CountCrossings(d)

	top := 0.0
	for _, n := range b.nodes {
		top = min(top, n.Y-n.Height/2)
	}

	lane := 0
	for _, e := range edges {
		src, dst := b.nodes[e.From], b.nodes[e.To]
		r := Route{Edge: e.Order, From: e.From, To: e.To}
		if dst.Layer <= src.Layer {
			lane++
			exitX := layerX(src.Layer) + o.ColumnSpacing/2
			entryX := layerX(dst.Layer) - o.ColumnSpacing/2
			y := top - o.RouteMargin*float64(lane)
			r.Back = true
			r.Waypoints = []Point{
				{X: exitX, Y: src.Y},
				{X: exitX, Y: y},
				{X: entryX, Y: y},
				{X: entryX, Y: dst.Y},
			}
		}
		if err := b.route(r); err != nil {
			return err
		}
	}
	return nil
}
