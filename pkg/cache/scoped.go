package cache

// ScopedKeyer wraps a Keyer with a prefix so separate contexts get disjoint
// cache namespaces. The server uses it to keep API-generated entries apart
// from CLI entries sharing the same Redis instance.
//
// Example usage:
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
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

// ResultKey generates a prefixed key for a sorted result.
func (k *ScopedKeyer) ResultKey(imageHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(imageHash, opts)
}

// ArtifactKey generates a prefixed key for an encoded artifact.
func (k *ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resultHash, opts)
}
