package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one backend without key collisions, e.g. a per-environment Redis
// namespace.
//
// Example usage:
//
//	// Keys private to one server instance group
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// SceneKey generates a prefixed key for a parsed scene.
func (k *ScopedKeyer) SceneKey(manifestHash string) string {
	return k.prefix + k.inner.SceneKey(manifestHash)
}

// FrameKey generates a prefixed key for a rendered frame.
func (k *ScopedKeyer) FrameKey(sceneHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(sceneHash, opts)
}

// ArtifactKey generates a prefixed key for an encoded artifact.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
