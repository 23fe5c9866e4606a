// Package pipeline runs diagram conversions end to end.
//
// The stages are:
//
//  1. Parse: source text to a validated [graph.Graph] ([parser] + [graph.Build])
//  2. Layout: graph to a frozen [layout.Layout]
//  3. Convert: layout to platform shape and connector specs
//  4. Execute: specs to remote board items via [apiclient]
//
// The CLI and the HTTP server both go through a [Runner], which adds
// caching, observability hooks and history records around the stages:
//
//	reg, _ := pipeline.BuildRegistry(cfg)
//	runner := pipeline.NewRunner(reg, nil, nil, sink, logger)
//	out, err := runner.Convert(ctx, pipeline.ConvertRequest{
//	    Code:     "flowchart TD\nA --> B",
//	    Platform: "miro",
//	})
//
// The package-level [Parse] and [Prepare] functions run the pure stages
// without a Runner.
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/mermaidboard/pkg/graph"
	"github.com/matzehuels/mermaidboard/pkg/layout"
	"github.com/matzehuels/mermaidboard/pkg/parser"
)

// Parse turns source into a graph. Errors are *errors.ParseError for
// grammar problems and GRAPH_INTEGRITY errors from the builder.
func Parse(src parser.Source) (*graph.Graph, error) {
	d, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return graph.Build(d)
}

// Prepare parses src and lays it out.
func Prepare(src parser.Source) (*graph.Graph, *layout.Layout, error) {
	g, err := Parse(src)
	if err != nil {
		return nil, nil, err
	}
	l, err := layout.Compute(g)
	if err != nil {
		return nil, nil, err
	}
	return g, l, nil
}

// DefaultBoardName names a board after the diagram kind and the time,
// e.g. "Mermaid Flowchart - 2026-10-14 09:30".
func DefaultBoardName(kind graph.Kind, now time.Time) string {
	title := "Flowchart"
	if kind == graph.KindSequence {
		title = "Sequence"
	}
	return fmt.Sprintf("Mermaid %s - %s", title, now.Format("2006-01-02 15:04"))
}
