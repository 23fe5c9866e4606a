package layout

import "github.com/matzehuels/mermaidboard/pkg/graph"

func layoutSequence(b *builder, g *graph.Graph, o Options) error {
	for _, n := range g.Nodes() {
		lines := wrapLabel(n.Label, o.MaxLabelChars, o.MaxLabelLines)
		w, h := boxSize(lines, o)
		if err := b.place(Node{
			ID:     n.ID,
			X:      float64(n.Order) * o.LaneSpacing,
			Y:      0,
			Width:  w,
			Height: h,
			Index:  n.Order,
			Lines:  lines,
		}); err != nil {
			return err
		}
	}
	if g.NodeCount() > 0 {
		b.layers = 1
		b.lifeline = o.HeaderGap + float64(g.EdgeCount()+1)*o.MessageRowHeight
		b.extent = append(b.extent, Point{X: 0, Y: b.lifeline})
	}

	for _, e := range g.Edges() {
		src, dst := b.nodes[e.From], b.nodes[e.To]
		y := o.HeaderGap + float64(e.Order+1)*o.MessageRowHeight
		r := Route{Edge: e.Order, From: e.From, To: e.To}
		if e.IsSelfLoop() {
			loopX := src.X + o.SelfLoopWidth
			r.Waypoints = []Point{
				{X: src.X, Y: y},
				{X: loopX, Y: y},
				{X: loopX, Y: y + o.MessageRowHeight/2},
				{X: src.X, Y: y + o.MessageRowHeight/2},
			}
		} else {
			r.Waypoints = []Point{{X: src.X, Y: y}, {X: dst.X, Y: y}}
		}
		if err := b.route(r); err != nil {
			return err
		}
	}
	return nil
}

// LifelineEnd returns the Y coordinate where sequence lifelines end, one row
// below the last message. It is 0 for flowcharts.
func (l *Layout) LifelineEnd() float64 { return l.lifeline }
