package cache

// ScopedKeyer prefixes every key of another Keyer, giving separate
// namespaces on a shared backend (for example one per server deployment):
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, which defaults to a [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ParseKey(sourceHash string) string {
	return k.prefix + k.inner.ParseKey(sourceHash)
}

func (k *ScopedKeyer) PreviewKey(graphHash string, opts PreviewKeyOpts) string {
	return k.prefix + k.inner.PreviewKey(graphHash, opts)
}
