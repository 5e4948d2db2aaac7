// Package render rasterizes scenes into images on the CPU.
//
// # Overview
//
// This package contains the software renderer that turns built scene
// meshes into frames. It provides:
//
//   - Per-vertex shading (jitter, height color, fog) in [Frame]
//   - Triangle rasterization with a depth buffer
//   - Image encoding (in [sink] subpackage)
//
// # Rendering a Frame
//
// [Frame] shades every mesh at a given clock value and rasterizes the
// result into an RGBA image:
//
//	img := render.Frame(scene, meshes, t, workers)
//
// Shading is stateless: the same scene and clock value always produce
// the same image, which is what makes artifact caching safe.
//
// # Encoding
//
// The [sink] subpackage encodes rendered frames as PNG stills or
// animated GIFs:
//
//	png, err := sink.PNG(frames[0])
//	gif, err := sink.GIF(frames, fps)
//
// [sink]: github.com/matzehuels/sketchmesh/pkg/render/sink
package render
