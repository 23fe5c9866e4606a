package graph_test

import (
	"fmt"

	"github.com/matzehuels/mermaidboard/pkg/graph"
	"github.com/matzehuels/mermaidboard/pkg/parser"
)

func ExampleBuild() {
	d, _ := parser.Parse(parser.Source{Text: "flowchart TD\nA --> B\nB{Check} -->|ok| C"})
	g, err := graph.Build(d)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, n := range g.Nodes() {
		fmt.Printf("%d %s %s %q\n", n.Order, n.ID, n.Shape, n.Label)
	}
	for _, e := range g.Edges() {
		fmt.Printf("%s -> %s %s %q\n", e.From, e.To, e.Style, e.Label)
	}
	// Output:
	// 0 A rectangle "A"
	// 1 B decision "Check"
	// 2 C rectangle "C"
	// A -> B solid ""
	// B -> C solid "ok"
}
