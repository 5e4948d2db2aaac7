package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sketchmesh/pkg/cache"
	errs "github.com/matzehuels/sketchmesh/pkg/errors"
	"github.com/matzehuels/sketchmesh/pkg/observability"
	"github.com/matzehuels/sketchmesh/pkg/render"
	"github.com/matzehuels/sketchmesh/pkg/render/sink"
	"github.com/matzehuels/sketchmesh/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → render → encode pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
		CacheInfo: CacheInfo{ArtifactHits: make(map[string]bool)},
	}

	// Stage 1: Load
	loadStart := time.Now()
	s, meshes, err := r.LoadScene(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.SceneName = s.Name
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.FrameCount = opts.Frames
	for _, m := range meshes {
		result.Stats.VertexCount += len(m.Vertices)
		result.Stats.TriangleCount += m.TriangleCount()
	}

	// Hash the validated scene (with size overrides applied) for cache keys
	// and API responses.
	sceneData, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	result.SceneHash = cache.Hash(sceneData)

	r.Logger.Info("loaded scene",
		"scene", s.Name,
		"meshes", len(meshes),
		"vertices", result.Stats.VertexCount,
		"triangles", result.Stats.TriangleCount,
		"duration", result.Stats.LoadTime)

	// Try to serve every format from the cache before rendering anything.
	missing := opts.Formats
	if !opts.Refresh {
		missing = r.lookupArtifacts(ctx, result, s, opts)
	} else {
		for _, format := range opts.Formats {
			result.CacheInfo.ArtifactHits[format] = false
		}
	}
	if len(missing) == 0 {
		r.Logger.Debug("all artifacts cached", "scene", s.Name, "formats", opts.Formats)
		return result, nil
	}

	// Stage 2: Render
	renderStart := time.Now()
	frames, err := r.renderFrames(ctx, s, meshes, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered frames",
		"scene", s.Name,
		"frames", len(frames),
		"size", fmt.Sprintf("%dx%d", s.Frame.Width, s.Frame.Height),
		"duration", result.Stats.RenderTime)

	// Stage 3: Encode
	encodeStart := time.Now()
	for _, format := range missing {
		data, err := r.encode(ctx, format, frames, opts)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", format, err)
		}
		result.Artifacts[format] = data

		key := r.artifactKey(result.SceneHash, s, format, opts)
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	result.Stats.EncodeTime = time.Since(encodeStart)

	r.Logger.Info("encoded outputs",
		"formats", opts.Formats,
		"duration", result.Stats.EncodeTime)

	return result, nil
}

// LoadScene resolves the scene from options and builds its meshes.
// Precedence: inline manifest, then manifest path, then the built-in scene.
// Size overrides from the options are applied after validation.
func (r *Runner) LoadScene(ctx context.Context, opts Options) (*scene.Scene, []*scene.Mesh, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}

	source := "builtin"
	switch {
	case opts.Manifest != "":
		source = "inline"
	case opts.ScenePath != "":
		source = opts.ScenePath
	}
	observability.Pipeline().OnSceneLoadStart(ctx, source)

	start := time.Now()
	var (
		s   *scene.Scene
		err error
	)
	switch {
	case opts.Manifest != "":
		s, err = scene.Parse([]byte(opts.Manifest))
	case opts.ScenePath != "":
		s, err = scene.Load(opts.ScenePath)
		if errors.Is(err, os.ErrNotExist) {
			err = errs.Wrap(errs.ErrCodeSceneNotFound, err, "scene %s", opts.ScenePath)
		}
	default:
		s = scene.Default()
	}
	if err != nil {
		if errs.GetCode(err) == "" {
			err = errs.Wrap(errs.ErrCodeInvalidManifest, err, "load scene")
		}
		observability.Pipeline().OnSceneLoadComplete(ctx, source, 0, time.Since(start), err)
		return nil, nil, err
	}

	if opts.Width > 0 {
		s.Frame.Width = opts.Width
	}
	if opts.Height > 0 {
		s.Frame.Height = opts.Height
	}

	meshes := s.Build()
	observability.Pipeline().OnSceneLoadComplete(ctx, source, len(meshes), time.Since(start), nil)
	return s, meshes, nil
}

// Frames renders the requested frames without touching the cache. The
// preview TUI uses this to drive playback from raw images.
func (r *Runner) Frames(ctx context.Context, opts Options) ([]*image.RGBA, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	s, meshes, err := r.LoadScene(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return r.renderFrames(ctx, s, meshes, opts)
}

// renderFrames rasterizes each requested frame, checking for cancellation
// between frames.
func (r *Runner) renderFrames(ctx context.Context, s *scene.Scene, meshes []*scene.Mesh, opts Options) ([]*image.RGBA, error) {
	observability.Pipeline().OnRenderStart(ctx, s.Name, opts.Frames)
	start := time.Now()

	frames := make([]*image.RGBA, 0, opts.Frames)
	for i := 0; i < opts.Frames; i++ {
		if err := ctx.Err(); err != nil {
			observability.Pipeline().OnRenderComplete(ctx, s.Name, len(frames), time.Since(start), err)
			return nil, err
		}
		frames = append(frames, render.Frame(s, meshes, opts.FrameTime(i), opts.Workers))
	}

	observability.Pipeline().OnRenderComplete(ctx, s.Name, len(frames), time.Since(start), nil)
	return frames, nil
}

// encode produces one artifact from the rendered frames.
func (r *Runner) encode(ctx context.Context, format string, frames []*image.RGBA, opts Options) ([]byte, error) {
	observability.Pipeline().OnEncodeStart(ctx, format)
	start := time.Now()

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatPNG:
		data, err = sink.PNG(frames[0])
	case FormatGIF:
		data, err = sink.GIF(frames, opts.FPS)
	default:
		err = ValidateFormat(format)
	}

	observability.Pipeline().OnEncodeComplete(ctx, format, len(data), time.Since(start), err)
	return data, err
}

// lookupArtifacts fills result.Artifacts from the cache and records per-format
// hit info. It returns the formats that still need rendering.
func (r *Runner) lookupArtifacts(ctx context.Context, result *Result, s *scene.Scene, opts Options) []string {
	var missing []string
	for _, format := range opts.Formats {
		key := r.artifactKey(result.SceneHash, s, format, opts)
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			result.Artifacts[format] = data
			result.CacheInfo.ArtifactHits[format] = true
			observability.Cache().OnCacheHit(ctx, "artifact")
			continue
		}
		result.CacheInfo.ArtifactHits[format] = false
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	return missing
}

// artifactKey derives the cache key for one encoded artifact.
func (r *Runner) artifactKey(sceneHash string, s *scene.Scene, format string, opts Options) string {
	return r.Keyer.ArtifactKey(sceneHash, cache.ArtifactKeyOpts{
		Format: format,
		Start:  opts.Start,
		Frames: opts.Frames,
		FPS:    opts.FPS,
		Width:  s.Frame.Width,
		Height: s.Frame.Height,
	})
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
