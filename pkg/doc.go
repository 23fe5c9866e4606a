// Package pkg provides the libraries behind mermaidboard, which recreates
// Mermaid diagrams as native shapes and connectors on online whiteboards.
//
// # Architecture
//
// The data flow for a conversion:
//
//	Mermaid source
//	     ↓
//	[parser]    (flowchart and sequence grammars → AST)
//	     ↓
//	[graph]     (validated nodes and edges)
//	     ↓
//	[layout]    (layers, ordering, coordinates, edge routes)
//	     ↓
//	[platform]  (per-platform shape and connector specs)
//	     ↓
//	[apiclient] (board, then shapes, then connectors, with retries)
//
// [pipeline] wires these stages together with caching and history for both
// the CLI and the HTTP [server].
//
// # Quick Start
//
//	g, l, err := pipeline.Prepare(parser.Source{Text: src})
//	if err != nil {
//	    return err
//	}
//	shapes, connectors, err := miro.NewConverter().Convert(g, l, platform.Options{})
//
// # Main Packages
//
// [parser] turns Mermaid text into an AST, reporting syntax errors with line
// and column. [graph] builds and checks the diagram graph. [dag] and
// [dag/transform] hold the cycle breaking and layering used by [layout].
//
// [platform] defines the converter and backend contracts plus the platform
// registry. [platform/miro] talks to the Miro REST API; [platform/lucid]
// declares Lucid without a remote backend.
//
// [apiclient] executes a conversion against a backend under rate limits and
// the retry policy from [httputil]. [integrations] is the shared HTTP client.
//
// [cache], [history], [config], [observability], [errors] and [buildinfo]
// are the supporting infrastructure. [preview] renders a local Graphviz
// picture of a computed layout.
//
// [parser]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/parser
// [graph]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/graph
// [layout]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/layout
// [dag]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/dag/transform
// [platform]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/platform
// [platform/miro]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/platform/miro
// [platform/lucid]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/platform/lucid
// [apiclient]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/apiclient
// [httputil]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/httputil
// [integrations]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/integrations
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/cache
// [history]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/history
// [config]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/buildinfo
// [preview]: https://pkg.go.dev/github.com/matzehuels/mermaidboard/pkg/preview
package pkg
