// Package render rasterizes shaded meshes into images.
//
// The package deliberately implements only what the jitter effect needs to
// be seen: clip-space transform of pre-shaded vertices, barycentric
// triangle fill with perspective-correct color interpolation, a depth
// buffer, and alpha blending for the water plane. There is no texturing
// and no lighting; all color comes out of the vertex stage.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Framebuffer holds the color and depth planes for one frame.
type Framebuffer struct {
	Width  int
	Height int

	color []mgl32.Vec4 // linear RGBA, row-major
	depth []float32    // NDC depth, row-major
}

// NewFramebuffer allocates a framebuffer of the given size.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		color:  make([]mgl32.Vec4, width*height),
		depth:  make([]float32, width*height),
	}
}

// Clear resets every pixel to the background color and the depth plane to
// the far value.
func (fb *Framebuffer) Clear(background mgl32.Vec4) {
	for i := range fb.color {
		fb.color[i] = background
		fb.depth[i] = math.MaxFloat32
	}
}

// blendPixel composites src over the stored color at (x, y) using the
// source alpha, leaving the destination alpha at full coverage.
func (fb *Framebuffer) blendPixel(x, y int, src mgl32.Vec4) {
	i := y*fb.Width + x
	a := src.W()
	if a >= 1 {
		fb.color[i] = mgl32.Vec4{src.X(), src.Y(), src.Z(), 1}
		return
	}
	if a <= 0 {
		return
	}
	dst := fb.color[i]
	fb.color[i] = mgl32.Vec4{
		src.X()*a + dst.X()*(1-a),
		src.Y()*a + dst.Y()*(1-a),
		src.Z()*a + dst.Z()*(1-a),
		1,
	}
}

func (fb *Framebuffer) depthAt(x, y int) float32 {
	return fb.depth[y*fb.Width+x]
}

func (fb *Framebuffer) setDepth(x, y int, d float32) {
	fb.depth[y*fb.Width+x] = d
}

// ToImage converts the color plane to an 8-bit RGBA image, clamping each
// channel to [0, 1].
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.color[y*fb.Width+x]
			img.SetRGBA(x, y, color.RGBA{
				R: channelByte(c.X()),
				G: channelByte(c.Y()),
				B: channelByte(c.Z()),
				A: channelByte(c.W()),
			})
		}
	}
	return img
}

func channelByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
