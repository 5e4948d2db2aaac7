package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/matzehuels/sketchmesh/pkg/scene"
	"github.com/matzehuels/sketchmesh/pkg/vertex"
)

// Rasterizer fills triangles from shaded vertices into a framebuffer.
type Rasterizer struct {
	fb *Framebuffer
}

// NewRasterizer creates a rasterizer writing into fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{fb: fb}
}

// screenVertex is a vertex after perspective divide and viewport mapping.
type screenVertex struct {
	x, y  float64 // screen space, pixels
	z     float64 // NDC depth
	invW  float64 // 1/w for perspective-correct interpolation
	color mgl32.Vec4
}

// DrawMesh rasterizes every triangle of a shaded mesh. Vertices with
// non-positive clip w are behind the eye; any triangle touching one is
// dropped rather than clipped, which is acceptable for scenes that keep
// geometry in front of the near plane.
func (r *Rasterizer) DrawMesh(shaded []vertex.VertexOut, mesh *scene.Mesh) {
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a := shaded[mesh.Indices[i]]
		b := shaded[mesh.Indices[i+1]]
		c := shaded[mesh.Indices[i+2]]
		r.drawTriangle(a, b, c)
	}
}

func (r *Rasterizer) drawTriangle(a, b, c vertex.VertexOut) {
	var sv [3]screenVertex
	for i, v := range []vertex.VertexOut{a, b, c} {
		w := float64(v.ClipPosition.W())
		if w <= 0 {
			return
		}
		sv[i] = r.toScreen(v, w)
	}

	minX := int(math.Max(0, math.Floor(min3(sv[0].x, sv[1].x, sv[2].x))))
	maxX := int(math.Min(float64(r.fb.Width-1), math.Ceil(max3(sv[0].x, sv[1].x, sv[2].x))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].y, sv[1].y, sv[2].y))))
	maxY := int(math.Min(float64(r.fb.Height-1), math.Ceil(max3(sv[0].y, sv[1].y, sv[2].y))))
	if minX > maxX || minY > maxY {
		return
	}

	area := edge(sv[0], sv[1], sv[2].x, sv[2].y)
	if area == 0 {
		return
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			w0 := edge(sv[1], sv[2], px, py) / area
			w1 := edge(sv[2], sv[0], px, py) / area
			w2 := edge(sv[0], sv[1], px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := float32(w0*sv[0].z + w1*sv[1].z + w2*sv[2].z)
			if z >= r.fb.depthAt(x, y) {
				continue
			}

			r.fb.setDepth(x, y, z)
			r.fb.blendPixel(x, y, interpolateColor(sv, w0, w1, w2))
		}
	}
}

// toScreen applies the perspective divide and maps NDC to pixels, flipping
// Y so world-up points to the top of the image.
func (r *Rasterizer) toScreen(v vertex.VertexOut, w float64) screenVertex {
	ndcX := float64(v.ClipPosition.X()) / w
	ndcY := float64(v.ClipPosition.Y()) / w
	ndcZ := float64(v.ClipPosition.Z()) / w

	return screenVertex{
		x:     (ndcX + 1) * 0.5 * float64(r.fb.Width),
		y:     (1 - ndcY) * 0.5 * float64(r.fb.Height),
		z:     ndcZ,
		invW:  1 / w,
		color: v.Color,
	}
}

// interpolateColor blends the three vertex colors at barycentric weights
// (w0, w1, w2), weighting by 1/w so interpolation is perspective correct.
func interpolateColor(sv [3]screenVertex, w0, w1, w2 float64) mgl32.Vec4 {
	iw := w0*sv[0].invW + w1*sv[1].invW + w2*sv[2].invW
	if iw == 0 {
		return sv[0].color
	}

	var out mgl32.Vec4
	for i := 0; i < 4; i++ {
		v := (w0*float64(sv[0].color[i])*sv[0].invW +
			w1*float64(sv[1].color[i])*sv[1].invW +
			w2*float64(sv[2].color[i])*sv[2].invW) / iw
		out[i] = float32(v)
	}
	return out
}

// edge is the signed area function for barycentric coordinates; positive
// when (px, py) is to the left of a→b.
func edge(a, b screenVertex, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }
