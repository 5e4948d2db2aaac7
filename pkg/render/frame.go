package render

import (
	"image"

	"github.com/matzehuels/sketchmesh/pkg/scene"
)

// Frame renders one frame of a scene at elapsed time t. Meshes are shaded
// vertex-by-vertex in parallel and rasterized in order, so opaque terrain
// lands before the translucent water that blends over it.
//
// The same scene, clock, and size always produce the same image; the jitter
// comes from the clock, not from any renderer state.
func Frame(s *scene.Scene, meshes []*scene.Mesh, t float32, workers int) *image.RGBA {
	fb := NewFramebuffer(s.Frame.Width, s.Frame.Height)
	fb.Clear(s.Frame.BackgroundColor())

	fc := s.Camera.FrameAt(t, s.Frame.Aspect())
	r := NewRasterizer(fb)

	for _, m := range meshes {
		shaded := ShadeVertices(m.Vertices, fc, workers)
		r.DrawMesh(shaded, m)
	}

	return fb.ToImage()
}
