// Package preview renders a local picture of a diagram before it is sent to
// a platform.
//
// [ToDOT] turns a graph into Graphviz DOT. When a layout is supplied the
// nodes are pinned to the computed positions, so the preview shows the same
// arrangement the board will get. Without one, Graphviz ranks the nodes in
// the diagram's declared direction. [Render] produces DOT or SVG:
//
//	dot := preview.ToDOT(g, l, preview.Options{})
//	svg, err := preview.Render(ctx, dot, preview.FormatSVG)
//
// SVG rendering uses github.com/goccy/go-graphviz, which embeds Graphviz as
// WebAssembly and needs no system install.
package preview
