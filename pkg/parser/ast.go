package parser

// Kind identifies a supported diagram kind.
type Kind string

const (
	KindFlowchart Kind = "flowchart"
	KindSequence  Kind = "sequence"
)

// Direction is the flowchart layout direction from the header line.
type Direction string

const (
	DirTopDown   Direction = "TD"
	DirTopBottom Direction = "TB"
	DirBottomUp  Direction = "BT"
	DirRightLeft Direction = "RL"
	DirLeftRight Direction = "LR"
)

// Shape is the node shape encoded by the declaration syntax.
type Shape string

const (
	ShapeRectangle   Shape = "rectangle"
	ShapeRounded     Shape = "rounded"
	ShapeDecision    Shape = "decision"
	ShapeCircle      Shape = "circle"
	ShapeSubroutine  Shape = "subroutine"
	ShapeParticipant Shape = "participant"
	ShapeActor       Shape = "actor"
)

// LineStyle is the stroke derived from the arrow token.
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
	LineThick  LineStyle = "thick"
)

// Head is the arrow head derived from the arrow token.
type Head string

const (
	HeadArrow Head = "arrow"
	HeadNone  Head = "none"
	HeadAsync Head = "async"
)

// Source is diagram text plus an optional declared kind. When Kind is set it
// must agree with the header line.
type Source struct {
	Text string
	Kind Kind
}

// Pos is a 1-based source location.
type Pos struct {
	Line   int
	Column int
}

// Diagram is the parsed syntax tree. Statements appear in source order with
// implicit declarations inserted before their first use.
type Diagram struct {
	Kind       Kind
	Direction  Direction
	Autonumber bool
	Statements []Statement
}

// Statement is one of [NodeDecl], [EdgeDecl], [ParticipantDecl] or [Message].
type Statement interface {
	Position() Pos
	statement()
}

// NodeDecl declares a flowchart node.
type NodeDecl struct {
	ID       string
	Label    string
	Shape    Shape
	Implicit bool // emitted for the first use of an undeclared id
	Pos      Pos
}

// EdgeDecl connects two flowchart nodes.
type EdgeDecl struct {
	From  string
	To    string
	Label string
	Style LineStyle
	Head  Head
	Pos   Pos
}

// ParticipantDecl declares a sequence diagram participant.
type ParticipantDecl struct {
	ID       string
	Alias    string
	Actor    bool
	Implicit bool
	Pos      Pos
}

// Message is a sequence diagram message between two participants.
type Message struct {
	From  string
	To    string
	Text  string
	Style LineStyle
	Head  Head
	Pos   Pos
}

func (n *NodeDecl) Position() Pos        { return n.Pos }
func (e *EdgeDecl) Position() Pos        { return e.Pos }
func (p *ParticipantDecl) Position() Pos { return p.Pos }
func (m *Message) Position() Pos         { return m.Pos }

func (*NodeDecl) statement()        {}
func (*EdgeDecl) statement()        {}
func (*ParticipantDecl) statement() {}
func (*Message) statement()         {}
