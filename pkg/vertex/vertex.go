// Package vertex implements the stop-motion jitter vertex effect.
//
// Every function in this package is a pure function of its arguments: a
// vertex's own attributes plus a read-only [FrameContext] shared by all
// vertices of a draw call. There is no package-level state, no randomness
// source, and no cross-vertex communication, so vertices may be shaded in
// any order, on any number of goroutines, with identical results.
//
// # Pipeline
//
// [Shade] runs the full per-vertex pipeline:
//
//  1. Quantize the world position to a 0.5-unit grid cell and the clock to
//     a discrete 8 Hz step.
//  2. Fold cell and step into a 32-bit seed and hash it into three
//     independent axis offsets, each bounded by the vertex's thickness.
//  3. Transform the perturbed position to clip space.
//  4. Composite a height-based terrain gradient and planar-distance fog
//     onto the vertex color.
//
// Because the jitter is keyed on the quantized cell rather than the raw
// position, sub-cell floating-point noise (a rotating billboard, an
// animated transform) does not change the offsets, and because time is
// quantized the offsets hold still for 1/8 s at a time. Together these give
// the deliberately jerky, hand-drawn look.
package vertex

import "github.com/go-gl/mathgl/mgl32"

// FrameContext carries the per-draw-call inputs shared by every vertex.
// It is read-only for the duration of a draw call and must not be mutated
// by any stage.
type FrameContext struct {
	// ClipFromWorld transforms world-space positions to clip space.
	// No model matrix is applied; meshes are already in world space.
	ClipFromWorld mgl32.Mat4

	// CameraWorld is the camera position in world space, used for the
	// planar fog distance.
	CameraWorld mgl32.Vec3

	// Time is the elapsed clock in seconds, monotonically non-decreasing
	// across frames.
	Time float32
}

// Attributes are the per-vertex effect controls.
//
// Flags are intended to be exactly 0 or 1 but any value in between is
// accepted and produces a proportionally blended result. A negative
// Thickness is accepted as a degenerate input: it flips the sign of the
// offset range but the magnitude stays bounded by |Thickness|.
type Attributes struct {
	Thickness       float32 // maximum jitter offset per axis
	FogFlag         float32 // 1 applies distance fog, 0 disables it
	HeightColorFlag float32 // 1 replaces the vertex color with the height gradient
}

// VertexIn is one vertex as supplied by the host mesh.
type VertexIn struct {
	Position mgl32.Vec3 // world space
	Attr     Attributes
	Color    mgl32.Vec4 // RGBA, used when HeightColorFlag is 0
}

// VertexOut is the shaded result consumed by the rasterizer.
type VertexOut struct {
	ClipPosition mgl32.Vec4
	Color        mgl32.Vec4
}

// Shade runs the complete per-vertex pipeline for a single vertex.
// It never fails: non-finite inputs propagate as non-finite outputs.
func Shade(in VertexIn, fc FrameContext) VertexOut {
	p := Perturb(in.Position, in.Attr.Thickness, fc.Time)

	clip := fc.ClipFromWorld.Mul4x1(mgl32.Vec4{p.X(), p.Y(), p.Z(), 1})

	rgb := HeightColor(p.Y(), in.Color.Vec3(), in.Attr.HeightColorFlag)
	rgb = Fog(p, fc.CameraWorld, rgb, in.Attr.FogFlag)

	// Alpha passes through every blend stage untouched.
	return VertexOut{
		ClipPosition: clip,
		Color:        mgl32.Vec4{rgb.X(), rgb.Y(), rgb.Z(), in.Color.W()},
	}
}

// Perturb returns position displaced by the stop-motion jitter offset for
// the given thickness and clock. A zero thickness returns position exactly.
func Perturb(position mgl32.Vec3, thickness, time float32) mgl32.Vec3 {
	seed := Seed(position, time)
	return position.Add(Offset(seed, thickness))
}
