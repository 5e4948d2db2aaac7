// Package pipeline provides the core rendering pipeline for Sketchmesh.
//
// This package implements the complete load → render → encode pipeline that
// can be used by CLI, API, and worker components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Parse the scene manifest and build world-space meshes
//  2. Render: Shade and rasterize each requested frame
//  3. Encode: Produce output artifacts in various formats (PNG, GIF)
//
// Encoded artifacts are cached by scene content hash, so re-rendering an
// unchanged scene with the same output options is a cache lookup.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ScenePath: "island.toml",
//	    Frames:    16,
//	    Formats:   []string{"gif"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gif := result.Artifacts["gif"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/sketchmesh/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultFPS is the default animation rate in frames per second. It
	// matches the jitter effect's step rate, so consecutive frames advance
	// exactly one jitter step.
	DefaultFPS = 8

	// DefaultFrames is the default number of frames to render.
	DefaultFrames = 1

	// MaxFrames caps animation length to keep render jobs bounded.
	MaxFrames = 600
)

// Format constants for output formats.
const (
	FormatPNG = "png"
	FormatGIF = "gif"
)

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = FormatPNG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG: true,
	FormatGIF: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Scene options. Manifest takes precedence over ScenePath; when both
	// are empty the built-in scene is used.
	Manifest  string `json:"manifest,omitempty"`   // Inline TOML manifest
	ScenePath string `json:"scene_path,omitempty"` // Path to a manifest file

	// Frame options
	Start  float32 `json:"start,omitempty"`  // Clock value of the first frame, seconds
	Frames int     `json:"frames,omitempty"` // Number of frames to render
	FPS    int     `json:"fps,omitempty"`    // Frames per second of the animation clock
	Width  int     `json:"width,omitempty"`  // Overrides the manifest frame width when set
	Height int     `json:"height,omitempty"` // Overrides the manifest frame height when set

	// Output options
	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"` // Bypass the artifact cache

	// Runtime options (not serialized)
	Workers int         `json:"-"` // Shading goroutines per frame; 0 means GOMAXPROCS
	Logger  *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// SceneName is the name of the rendered scene.
	SceneName string

	// SceneHash is the content hash of the validated scene, after size
	// overrides. It keys the artifact cache.
	SceneHash string

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	VertexCount   int
	TriangleCount int
	FrameCount    int
	LoadTime      time.Duration
	RenderTime    time.Duration
	EncodeTime    time.Duration
}

// CacheInfo tracks artifact cache hits for a pipeline run.
type CacheInfo struct {
	// ArtifactHits reports, per requested format, whether the encoded
	// artifact came from the cache.
	ArtifactHits map[string]bool
}

// AllHit reports whether every requested artifact came from the cache.
func (c CacheInfo) AllHit() bool {
	if len(c.ArtifactHits) == 0 {
		return false
	}
	for _, hit := range c.ArtifactHits {
		if !hit {
			return false
		}
	}
	return true
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, gif)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Frames == 0 {
		o.Frames = DefaultFrames
	}
	if o.Frames < 1 {
		return errs.New(errs.ErrCodeInvalidOptions, "frames must be at least 1, got %d", o.Frames)
	}
	if o.Frames > MaxFrames {
		return errs.New(errs.ErrCodeInvalidOptions, "frames must be at most %d, got %d", MaxFrames, o.Frames)
	}
	if o.FPS == 0 {
		o.FPS = DefaultFPS
	}
	if o.FPS < 1 {
		return errs.New(errs.ErrCodeInvalidOptions, "fps must be at least 1, got %d", o.FPS)
	}
	if o.Width < 0 || o.Height < 0 {
		return errs.New(errs.ErrCodeInvalidOptions, "size override must not be negative, got %dx%d", o.Width, o.Height)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// FrameTime returns the clock value of the i-th frame.
func (o Options) FrameTime(i int) float32 {
	return o.Start + float32(i)/float32(o.FPS)
}
