package cache

// ScopedKeyer wraps a Keyer with a prefix so several users of one backend
// keep separate namespaces.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "streamstack:")
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

// DatasetKey generates a prefixed dataset key.
func (k *ScopedKeyer) DatasetKey(sourceHash string, opts DatasetKeyOpts) string {
	return k.prefix + k.inner.DatasetKey(sourceHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(datasetHash, opts)
}
