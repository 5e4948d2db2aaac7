// Package cache provides pluggable caching for rendered artifacts.
//
// Rendering a frame is pure: the artifact depends only on the scene
// manifest, the clock, and the output options. That makes every stage
// safely cacheable by content hash. Three backends implement the same
// interface: FileCache for the CLI, RedisCache for multi-instance server
// deployments, and NullCache to disable caching entirely.
package cache

import (
	"context"
	"time"
)

// TTLs per artifact kind. Scene manifests are tiny and effectively
// immutable by hash; encoded frames are larger and cheaper to redo.
const (
	TTLScene    = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte blobs under string keys with per-entry TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores it without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for the pipeline's stages. Separating key
// construction from storage lets deployments prefix or re-scope keys
// without touching the pipeline.
type Keyer interface {
	// SceneKey identifies a parsed scene by manifest content hash.
	SceneKey(manifestHash string) string

	// FrameKey identifies one rendered frame of a scene.
	FrameKey(sceneHash string, opts FrameKeyOpts) string

	// ArtifactKey identifies an encoded output (png, gif).
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// FrameKeyOpts are the inputs that change a rendered frame's pixels.
type FrameKeyOpts struct {
	Time   float32 `json:"time"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

// ArtifactKeyOpts are the inputs that change an encoded artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Start  float32 `json:"start"`
	Frames int     `json:"frames"`
	FPS    int     `json:"fps"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

// DefaultKeyer hashes key components with SHA-256 under a per-stage
// prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SceneKey generates a key for a parsed scene.
func (k *DefaultKeyer) SceneKey(manifestHash string) string {
	return hashKey("scene", manifestHash)
}

// FrameKey generates a key for a rendered frame.
func (k *DefaultKeyer) FrameKey(sceneHash string, opts FrameKeyOpts) string {
	return hashKey("frame", sceneHash, opts)
}

// ArtifactKey generates a key for an encoded artifact.
func (k *DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
