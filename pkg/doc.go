// Package pkg provides the core libraries for Sketchmesh scene rendering.
//
// # Overview
//
// Sketchmesh renders procedural terrain scenes with a stop-motion,
// hand-drawn look: every vertex jitters on a half-unit grid at a fixed
// step rate, as if each frame had been redrawn by hand. The pkg
// directory is organized into four main areas:
//
//  1. [scene] - Scene manifests and procedural mesh generation
//  2. [vertex] - Per-vertex effects (jitter, height color, fog)
//  3. [render] - Software rasterizer and image encoding
//  4. [pipeline] - Orchestration (load → render → encode)
//
// # Architecture
//
// The typical data flow through Sketchmesh:
//
//	TOML Manifest
//	         ↓
//	    [scene] package (parse + build meshes)
//	         ↓
//	    [vertex] package (jitter, color, fog per vertex)
//	         ↓
//	    [render] package (shade + rasterize)
//	         ↓
//	    PNG/GIF output
//
// # Quick Start
//
// Load a scene and render an animation:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/sketchmesh/pkg/cache"
//	    "github.com/matzehuels/sketchmesh/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    ScenePath: "island.toml",
//	    Frames:    16,
//	    Formats:   []string{"gif"},
//	})
//	gif := result.Artifacts["gif"]
//
// # Main Packages
//
// ## Core Domain Logic
//
// [scene] - Scene manifest schema (frame, terrain, effect, water, camera),
// TOML loading with validation, fractal value-noise terrain generation, and
// the orbit camera.
//
// [vertex] - The jitter effect primitives: the deterministic hash chain
// from grid cell and step to pseudo-random offsets, the height color
// gradient, and planar distance fog. All functions are stateless.
//
// [render] - CPU rasterizer: per-vertex shading across a worker pool,
// triangle rasterization with a depth buffer, and the [render/sink]
// encoders for PNG and GIF.
//
// ## Infrastructure
//
// [cache] - Artifact caching keyed by scene content hash. FileCache for
// the CLI (filesystem), RedisCache for the server, NullCache to disable.
//
// [jobs] - Async render jobs with a pending → running → finished
// lifecycle. MemoryStore for single-process use, MongoStore for durable
// job history.
//
// [pipeline] - Complete render pipeline (load → render → encode) used by
// CLI, API, and worker. Ensures consistent behavior across all entry
// points.
//
// [server] - HTTP API exposing synchronous renders and async jobs.
//
// [errors] - Structured errors with machine-readable codes shared by the
// CLI and the API.
//
// [observability] - Hook points for instrumenting pipeline stages, cache
// traffic, and request handling.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/vertex/...       # Specific package
//	go test -run Example           # Examples only
//
// [scene]: https://pkg.go.dev/github.com/matzehuels/sketchmesh/pkg/scene
// [vertex]: https://pkg.go.dev/github.com/matzehuels/sketchmesh/pkg/vertex
// [render]: https://pkg.go.dev/github.com/matzehuels/sketchmesh/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/sketchmesh/pkg/render/sink
// [cache]: https://pkg.go.dev/github.com/matzehuels/sketchmesh/pkg/cache
// [jobs]: https://pkg.go.dev/github.com/matzehuels/sketchmesh/pkg/jobs
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sketchmesh/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/sketchmesh/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/sketchmesh/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/sketchmesh/pkg/observability
package pkg
