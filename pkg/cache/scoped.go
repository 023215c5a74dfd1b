package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Useful when several profiles share one cache backend and should not
// see each other's entries.
//
// Example usage:
//
//	profileKeyer := NewScopedKeyer(NewDefaultKeyer(), "profile:poster:")
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

// MaskKey generates a prefixed key for a decoded mask.
func (k *ScopedKeyer) MaskKey(sourceHash string) string {
	return k.prefix + k.inner.MaskKey(sourceHash)
}

// PackKey generates a prefixed key for a packing result.
func (k *ScopedKeyer) PackKey(maskHash string, opts PackKeyOpts) string {
	return k.prefix + k.inner.PackKey(maskHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(packHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(packHash, opts)
}
