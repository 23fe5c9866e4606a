package preview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/mermaidboard/pkg/graph"
	"github.com/matzehuels/mermaidboard/pkg/layout"
)

// Options configures DOT generation.
type Options struct {
	// Unpinned ignores the layout and lets Graphviz place the nodes.
	Unpinned bool
	// ShowIDs appends the node ID to each label.
	ShowIDs bool
}

// pointsPerUnit maps layout units to Graphviz points.
const pointsPerUnit = 0.75

// ToDOT converts g to DOT. l may be nil.
func ToDOT(g *graph.Graph, l *layout.Layout, opts Options) string {
	pinned := l != nil && !opts.Unpinned

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if pinned {
		buf.WriteString("  splines=true;\n")
	} else {
		fmt.Fprintf(&buf, "  rankdir=%s;\n", rankDir(g))
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=filled, fillcolor=white, fontname=\"Helvetica\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := nodeAttrs(n, opts)
		if pinned {
			if box, ok := l.Node(n.ID); ok {
				attrs = append(attrs, fmt.Sprintf("pos=\"%.1f,%.1f!\"", box.X*pointsPerUnit, -box.Y*pointsPerUnit))
				label := strings.Join(box.Lines, "\n")
				if opts.ShowIDs {
					label += "\n(" + n.ID + ")"
				}
				attrs[0] = fmt.Sprintf("label=%q", label)
			}
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	if g.Kind() == graph.KindSequence && !pinned {
		// Keep participants on one rank in declaration order.
		buf.WriteString("  { rank=same;")
		for _, id := range g.NodeIDs() {
			fmt.Fprintf(&buf, " %q;", id)
		}
		buf.WriteString(" }\n")
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := edgeAttrs(e, g.Kind())
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func rankDir(g *graph.Graph) string {
	switch g.Direction() {
	case "LR", "RL", "BT":
		return g.Direction()
	}
	return "TB"
}

func nodeAttrs(n graph.Node, opts Options) []string {
	label := n.Label
	if opts.ShowIDs && label != n.ID {
		label += "\n(" + n.ID + ")"
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Shape {
	case graph.ShapeRounded, graph.ShapeParticipant:
		attrs = append(attrs, "style=\"rounded,filled\"")
	case graph.ShapeDecision:
		attrs = append(attrs, "shape=diamond")
	case graph.ShapeCircle:
		attrs = append(attrs, "shape=circle")
	case graph.ShapeSubroutine:
		attrs = append(attrs, "peripheries=2")
	case graph.ShapeActor:
		attrs = append(attrs, "shape=ellipse")
	}
	return attrs
}

func edgeAttrs(e graph.Edge, kind graph.Kind) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	switch e.Style {
	case graph.StyleDashed:
		attrs = append(attrs, "style=dashed")
	case graph.StyleThick:
		attrs = append(attrs, "penwidth=3")
	}
	switch e.Head {
	case graph.HeadNone:
		attrs = append(attrs, "arrowhead=none")
	case graph.HeadAsync:
		attrs = append(attrs, "arrowhead=open")
	}
	if kind == graph.KindSequence {
		attrs = append(attrs, "constraint=false")
	}
	return attrs
}
