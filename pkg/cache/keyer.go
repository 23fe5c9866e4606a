package cache

import "github.com/matzehuels/mermaidboard/pkg/buildinfo"

// Keyer builds cache keys.
type Keyer interface {
	// ParseKey keys the parse result of a diagram source.
	ParseKey(sourceHash string) string
	// PreviewKey keys a rendered preview of a graph.
	PreviewKey(graphHash string, opts PreviewKeyOpts) string
}

// PreviewKeyOpts are the preview settings that change the output.
type PreviewKeyOpts struct {
	Format   string `json:"format"`
	Unpinned bool   `json:"unpinned,omitempty"`
	ShowIDs  bool   `json:"show_ids,omitempty"`
}

// DefaultKeyer derives keys from content hashes. Keys are versioned with the
// build so a new release never reads artifacts written by an older one.
type DefaultKeyer struct {
	version string
}

// NewDefaultKeyer creates a keyer versioned with [buildinfo.Version].
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{version: buildinfo.Version}
}

// ParseKey returns "parse:<hash>".
func (k *DefaultKeyer) ParseKey(sourceHash string) string {
	return hashKey("parse", k.version, sourceHash)
}

// PreviewKey returns "preview:<hash>".
func (k *DefaultKeyer) PreviewKey(graphHash string, opts PreviewKeyOpts) string {
	return hashKey("preview", k.version, graphHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
