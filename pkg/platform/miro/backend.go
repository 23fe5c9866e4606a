package miro

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/integrations"
	"github.com/matzehuels/mermaidboard/pkg/platform"
)

// DefaultBaseURL is the Miro REST API v2 endpoint.
const DefaultBaseURL = "https://api.miro.com/v2"

const boardViewURL = "https://miro.com/app/board/%s/"

// Backend talks to the Miro REST API v2.
type Backend struct {
	client *integrations.Client
}

// NewBackend creates a backend authenticated with token. An empty baseURL
// uses [DefaultBaseURL].
func NewBackend(baseURL, token string, timeout time.Duration) *Backend {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Backend{client: integrations.NewClient(Name, baseURL, token, timeout, nil)}
}

// WithHTTPClient replaces the HTTP client, mainly for tests.
func (b *Backend) WithHTTPClient(hc *http.Client) *Backend {
	b.client.WithHTTPClient(hc)
	return b
}

type boardRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Policy      boardPolicy `json:"policy"`
}

type boardPolicy struct {
	PermissionsPolicy struct {
		CollaborationToolsStartAccess string `json:"collaborationToolsStartAccess"`
		CopyAccess                    string `json:"copyAccess"`
		SharingAccess                 string `json:"sharingAccess"`
	} `json:"permissionsPolicy"`
}

type itemResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	ViewLink string `json:"viewLink,omitempty"`
}

// CreateBoard implements [platform.Backend]. New boards are private.
func (b *Backend) CreateBoard(ctx context.Context, name, description string) (platform.Board, error) {
	req := boardRequest{Name: name, Description: description}
	req.Policy.PermissionsPolicy.CollaborationToolsStartAccess = "all_editors"
	req.Policy.PermissionsPolicy.CopyAccess = "anyone"
	req.Policy.PermissionsPolicy.SharingAccess = "private"

	var resp itemResponse
	if err := b.client.PostJSON(ctx, "boards", req, &resp); err != nil {
		return platform.Board{}, err
	}
	if resp.ID == "" {
		return platform.Board{}, b.missingID("board")
	}
	board := platform.Board{ID: resp.ID, Name: resp.Name, URL: resp.ViewLink}
	if board.Name == "" {
		board.Name = name
	}
	if board.URL == "" {
		board.URL = BoardURL(resp.ID)
	}
	return board, nil
}

type shapeRequest struct {
	Data struct {
		Shape   string `json:"shape"`
		Content string `json:"content"`
	} `json:"data"`
	Style    map[string]string `json:"style"`
	Position position          `json:"position"`
	Geometry struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"geometry"`
}

type position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Origin string  `json:"origin"`
}

// CreateShape implements [platform.Backend].
func (b *Backend) CreateShape(ctx context.Context, boardID string, s platform.ShapeSpec) (string, error) {
	var req shapeRequest
	req.Data.Shape = s.Shape
	req.Data.Content = s.Content
	req.Style = shapeStyle(s.Style)
	req.Position = position{X: s.X, Y: s.Y, Origin: "center"}
	req.Geometry.Width = s.Width
	req.Geometry.Height = s.Height

	var resp itemResponse
	if err := b.client.PostJSON(ctx, "boards/"+url.PathEscape(boardID)+"/shapes", req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", b.missingID("shape")
	}
	return resp.ID, nil
}

// Miro expects style values as strings.
func shapeStyle(st platform.ShapeStyle) map[string]string {
	out := map[string]string{
		"textAlign":         "center",
		"textAlignVertical": "middle",
		"fontFamily":        "arial",
	}
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set("fillColor", st.FillColor)
	set("borderColor", st.BorderColor)
	set("borderStyle", st.BorderStyle)
	set("color", st.TextColor)
	if st.BorderWidth > 0 {
		out["borderWidth"] = formatFloat(st.BorderWidth)
	}
	if st.FontSize > 0 {
		out["fontSize"] = strconv.Itoa(st.FontSize)
	}
	return out
}

type connectorRequest struct {
	StartItem connectorEnd      `json:"startItem"`
	EndItem   connectorEnd      `json:"endItem"`
	Shape     string            `json:"shape"`
	Style     map[string]string `json:"style"`
	Captions  []caption         `json:"captions,omitempty"`
}

type connectorEnd struct {
	ID     string `json:"id"`
	SnapTo string `json:"snapTo,omitempty"`
}

type caption struct {
	Content   string `json:"content"`
	Position  string `json:"position"`
	TextAlign string `json:"textAlign"`
}

// CreateConnector implements [platform.Backend]. Miro routes connectors
// itself; waypoints only pick between straight and elbowed shapes.
func (b *Backend) CreateConnector(ctx context.Context, boardID string, c platform.ConnectorSpec, fromShapeID, toShapeID string) (string, error) {
	req := connectorRequest{
		StartItem: connectorEnd{ID: fromShapeID, SnapTo: "auto"},
		EndItem:   connectorEnd{ID: toShapeID, SnapTo: "auto"},
		Shape:     c.Shape,
		Style:     connectorStyle(c.Style),
	}
	if c.Caption != "" {
		// Captions sit halfway along the connector.
		req.Captions = []caption{{Content: c.Caption, Position: "50%", TextAlign: "center"}}
	}

	var resp itemResponse
	if err := b.client.PostJSON(ctx, "boards/"+url.PathEscape(boardID)+"/connectors", req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", b.missingID("connector")
	}
	return resp.ID, nil
}

func connectorStyle(st platform.ConnectorStyle) map[string]string {
	out := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set("strokeColor", st.StrokeColor)
	set("strokeStyle", st.StrokeStyle)
	set("startStrokeCap", st.StartArrowhead)
	set("endStrokeCap", st.EndArrowhead)
	if st.StrokeWidth > 0 {
		out["strokeWidth"] = formatFloat(st.StrokeWidth)
	}
	return out
}

// Ping implements [platform.Backend] by listing a single board.
func (b *Backend) Ping(ctx context.Context) error {
	var resp struct {
		Data []itemResponse `json:"data"`
	}
	return b.client.GetJSON(ctx, "boards?limit=1", &resp)
}

func (b *Backend) missingID(item string) error {
	return &errors.PlatformError{
		Code:     errors.ErrCodePlatformAPI,
		Platform: Name,
		Status:   http.StatusOK,
		Message:  "created " + item + " has no id",
	}
}

// BoardURL returns the browser URL of a board.
func BoardURL(boardID string) string {
	return fmt.Sprintf(boardViewURL, url.PathEscape(boardID))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var _ platform.Backend = (*Backend)(nil)
var _ platform.Converter = (*Converter)(nil)
