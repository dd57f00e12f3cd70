package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis database without reading each other's entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "prgraph:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// CategoriesKey generates a prefixed categories key.
func (k *ScopedKeyer) CategoriesKey(datasetVersion string) string {
	return k.prefix + k.inner.CategoriesKey(datasetVersion)
}

// IdentifiersKey generates a prefixed identifiers key.
func (k *ScopedKeyer) IdentifiersKey(datasetVersion, category string) string {
	return k.prefix + k.inner.IdentifiersKey(datasetVersion, category)
}

// ResolveKey generates a prefixed resolution key.
func (k *ScopedKeyer) ResolveKey(datasetVersion string, opts ResolveKeyOpts) string {
	return k.prefix + k.inner.ResolveKey(datasetVersion, opts)
}
