package pipeline

import (
	"fmt"

	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/graph"
)

// ParseOutput is the result of a parse request. On failure only Success,
// Error, Code and, for grammar errors, Line and Column are set.
type ParseOutput struct {
	Success     bool          `json:"success"`
	DiagramType graph.Kind    `json:"diagram_type,omitempty"`
	Direction   string        `json:"direction,omitempty"`
	Nodes       []graph.Node  `json:"nodes,omitempty"`
	Edges       []graph.Edge  `json:"edges,omitempty"`
	Metadata    *ParseMetrics `json:"metadata,omitempty"`

	Error  string      `json:"error,omitempty"`
	Code   errors.Code `json:"code,omitempty"`
	Line   int         `json:"line,omitempty"`
	Column int         `json:"column,omitempty"`
}

// ParseMetrics summarises a parsed graph.
type ParseMetrics struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// NewParseOutput describes a successfully parsed graph.
func NewParseOutput(g *graph.Graph) *ParseOutput {
	return &ParseOutput{
		Success:     true,
		DiagramType: g.Kind(),
		Direction:   g.Direction(),
		Nodes:       g.Nodes(),
		Edges:       g.Edges(),
		Metadata:    &ParseMetrics{NodeCount: g.NodeCount(), EdgeCount: g.EdgeCount()},
	}
}

// ParseFailure describes a failed parse.
func ParseFailure(err error) *ParseOutput {
	out := &ParseOutput{Error: errors.UserMessage(err), Code: codeOrInternal(err)}
	var pe *errors.ParseError
	if errors.As(err, &pe) {
		out.Error = pe.Message
		out.Line, out.Column = pe.Line, pe.Column
	}
	return out
}

// ConvertRequest asks for a diagram to be created on a platform.
type ConvertRequest struct {
	Code     string         `json:"code" validate:"required"`
	Platform string         `json:"platform" validate:"required,lowercase"`
	Options  ConvertOptions `json:"options"`
}

// ConvertOptions are optional conversion settings.
type ConvertOptions struct {
	// BoardName defaults to [DefaultBoardName].
	BoardName string `json:"board_name,omitempty" validate:"max=60"`
}

// ConvertOutput is the result of a conversion. Counts are exact on both
// success and failure; URL and BoardID are set whenever a board exists.
type ConvertOutput struct {
	Success           bool   `json:"success"`
	Message           string `json:"message,omitempty"`
	Platform          string `json:"platform"`
	ShapesCreated     int    `json:"shapes_created"`
	ConnectorsCreated int    `json:"connectors_created"`
	URL               string `json:"url,omitempty"`
	BoardID           string `json:"board_id,omitempty"`
	ConversionID      string `json:"conversion_id,omitempty"`

	Error string      `json:"error,omitempty"`
	Code  errors.Code `json:"code,omitempty"`
}

// ConvertFailure describes a failed conversion, carrying the progress of a
// partial one.
func ConvertFailure(platform string, err error) *ConvertOutput {
	out := &ConvertOutput{Platform: platform, Error: errors.UserMessage(err), Code: codeOrInternal(err)}
	var pe *errors.PartialConversionError
	if errors.As(err, &pe) {
		out.ShapesCreated = pe.ShapesCreated
		out.ConnectorsCreated = pe.ConnectorsCreated
		out.URL = pe.BoardURL
		out.BoardID = pe.BoardID
	}
	return out
}

func successMessage(displayName string) string {
	return fmt.Sprintf("Successfully converted to %s!", displayName)
}

func codeOrInternal(err error) errors.Code {
	if c := errors.GetCode(err); c != "" {
		return c
	}
	return errors.ErrCodeInternal
}
