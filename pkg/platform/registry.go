package platform

import (
	"context"
	"slices"

	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/matzehuels/mermaidboard/pkg/httputil"
)

// Limits bound the request rate and parallelism against one platform.
type Limits struct {
	RatePerSecond float64
	Burst         int
	Concurrency   int
}

// Entry is one registered platform. Backend is nil when the platform is
// declared but not configured for remote calls.
type Entry struct {
	Name        string
	DisplayName string
	Converter   Converter
	Backend     Backend
	Limits      Limits
	Retry       httputil.Policy
}

// Configured reports whether conversions can reach the remote platform.
func (e Entry) Configured() bool { return e.Backend != nil }

// Status describes a registered platform for listings.
type Status struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Configured  bool   `json:"configured"`
	Reachable   *bool  `json:"reachable,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Registry is the explicit set of supported platforms, in registration
// order.
type Registry struct {
	entries map[string]Entry
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds a platform. Names must be unique and non-empty and every
// entry needs a converter.
func (r *Registry) Register(e Entry) error {
	if e.Name == "" || e.Converter == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "platform entry needs a name and a converter")
	}
	if _, dup := r.entries[e.Name]; dup {
		return errors.New(errors.ErrCodeInvalidConfig, "platform %q registered twice", e.Name)
	}
	if e.DisplayName == "" {
		e.DisplayName = e.Name
	}
	r.entries[e.Name] = e
	r.order = append(r.order, e.Name)
	return nil
}

// Lookup returns the entry for name or a PLATFORM_NOT_FOUND error.
func (r *Registry) Lookup(name string) (Entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, errors.New(errors.ErrCodePlatformNotFound, "unknown platform %q (supported: %v)", name, r.order)
	}
	return e, nil
}

// Names returns registered platform names in registration order.
func (r *Registry) Names() []string { return slices.Clone(r.order) }

// Statuses lists every platform without touching the network.
func (r *Registry) Statuses() []Status {
	out := make([]Status, 0, len(r.order))
	for _, name := range r.order {
		e := r.entries[name]
		out = append(out, Status{Name: e.Name, DisplayName: e.DisplayName, Configured: e.Configured()})
	}
	return out
}

// Check lists every platform and pings the configured ones.
func (r *Registry) Check(ctx context.Context) []Status {
	out := r.Statuses()
	for i := range out {
		e := r.entries[out[i].Name]
		if !e.Configured() {
			continue
		}
		err := e.Backend.Ping(ctx)
		ok := err == nil
		out[i].Reachable = &ok
		if err != nil {
			out[i].Error = errors.UserMessage(err)
		}
	}
	return out
}
