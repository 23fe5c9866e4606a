// Package parser turns Mermaid-style diagram source into a typed syntax tree.
//
// # Overview
//
// Two diagram kinds are understood: flowcharts (header `flowchart` or
// `graph`, optionally followed by a direction) and sequence diagrams (header
// `sequenceDiagram`). The kind is taken from the first line that is neither
// blank nor a `%%` comment. Any other header, including recognised Mermaid
// kinds such as `classDiagram` or `stateDiagram`, is rejected with an
// UNSUPPORTED_DIAGRAM_TYPE [errors.ParseError].
//
// # Flowchart Grammar
//
// Each line holds one statement, optionally terminated by `;`:
//
//	A                      bare node, label defaults to the id
//	A[Label]               rectangle
//	A(Label)               rounded rectangle
//	A{Label}               decision
//	A((Label))             circle
//	A[[Label]]             subroutine
//	A --> B                edge (either side may carry a bracket label)
//	A -->|label| B         labelled edge
//	A -- label --> B       labelled edge, inline form
//
// Arrow tokens select the edge style: `-->` and `---` are solid, `-.->` and
// `-.-` dashed, `==>` thick. Arrows without `>` have no head. Edge chains
// (`A --> B --> C`) and `&` groups are not supported and fail loudly.
//
// # Sequence Grammar
//
//	participant A as Alice  declaration (actor A as Alice for the actor shape)
//	A->>B: text             synchronous message
//	A-->>B: text            reply
//	A->B / A-->B            message without arrow head
//	A-)B / A--)B            asynchronous message
//	autonumber              number message labels
//
// # Auto-declaration
//
// Identifiers may be used before they are declared. The first use of an
// unseen id emits an implicit declaration ([NodeDecl.Implicit] or
// [ParticipantDecl.Implicit]) in front of the statement that used it, so the
// tree always declares a node before anything references it. A later
// explicit declaration of the same id is still recorded.
//
// # Errors
//
// Parse never returns a partial tree. Every failure is an
// [errors.ParseError] carrying the 1-based line and column of the offending
// token.
package parser
