package platform

import (
	"context"
	"testing"

	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/graph"
	"github.com/matzehuels/mermaidboard/pkg/layout"
)

type stubConverter struct{ name string }

func (c stubConverter) Name() string { return c.name }
func (stubConverter) Convert(*graph.Graph, *layout.Layout, Options) ([]ShapeSpec, []ConnectorSpec, error) {
	return nil, nil, nil
}

type stubBackend struct{ pingErr error }

func (stubBackend) CreateBoard(context.Context, string, string) (Board, error) { return Board{}, nil }
func (stubBackend) CreateShape(context.Context, string, ShapeSpec) (string, error) {
	return "", nil
}
func (stubBackend) CreateConnector(context.Context, string, ConnectorSpec, string, string) (string, error) {
	return "", nil
}
func (b stubBackend) Ping(context.Context) error { return b.pingErr }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	entries := []Entry{
		{Name: "miro", DisplayName: "Miro", Converter: stubConverter{"miro"}, Backend: stubBackend{}},
		{Name: "lucid", Converter: stubConverter{"lucid"}},
		{Name: "down", Converter: stubConverter{"down"}, Backend: stubBackend{
			pingErr: &errors.PlatformError{Code: errors.ErrCodeUnauthorized, Message: "bad token"},
		}},
	}
	for _, e := range entries {
		if err := r.Register(e); err != nil {
			t.Fatalf("Register(%s) error = %v", e.Name, err)
		}
	}

	if err := r.Register(entries[0]); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("duplicate Register() error = %v", err)
	}
	if err := r.Register(Entry{Name: "x"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Register(no converter) error = %v", err)
	}

	if got := r.Names(); len(got) != 3 || got[0] != "miro" || got[1] != "lucid" {
		t.Errorf("Names() = %v", got)
	}
	if _, err := r.Lookup("visio"); !errors.Is(err, errors.ErrCodePlatformNotFound) {
		t.Errorf("Lookup(unknown) error = %v", err)
	}

	statuses := r.Statuses()
	if !statuses[0].Configured || statuses[1].Configured {
		t.Errorf("Statuses() = %+v", statuses)
	}
	if statuses[1].DisplayName != "lucid" {
		t.Errorf("default display name = %q", statuses[1].DisplayName)
	}

	checked := r.Check(context.Background())
	if checked[0].Reachable == nil || !*checked[0].Reachable {
		t.Errorf("miro should be reachable: %+v", checked[0])
	}
	if checked[1].Reachable != nil {
		t.Errorf("unconfigured platform should not be pinged: %+v", checked[1])
	}
	if checked[2].Reachable == nil || *checked[2].Reachable || checked[2].Error != "bad token" {
		t.Errorf("down = %+v", checked[2])
	}
}
