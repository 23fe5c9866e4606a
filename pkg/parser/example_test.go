package parser_test

import (
	"fmt"

	"github.com/matzehuels/mermaidboard/pkg/parser"
)

func ExampleParse() {
	d, err := parser.Parse(parser.Source{Text: "flowchart LR\nA[Start] -->|go| B{Ready?}"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(d.Kind, d.Direction)
	for _, st := range d.Statements {
		switch s := st.(type) {
		case *parser.NodeDecl:
			fmt.Printf("node %s %s %q\n", s.ID, s.Shape, s.Label)
		case *parser.EdgeDecl:
			fmt.Printf("edge %s -> %s %q\n", s.From, s.To, s.Label)
		}
	}
	// Output:
	// flowchart LR
	// node A rectangle "Start"
	// node B decision "Ready?"
	// edge A -> B "go"
}

func ExampleParse_error() {
	_, err := parser.Parse(parser.Source{Text: "flowchart TD\nA->B"})
	fmt.Println(err)
	// Output:
	// line 2, column 2: malformed arrow "->"
}
