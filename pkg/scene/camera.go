package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/matzehuels/sketchmesh/pkg/vertex"
)

// FrameAt returns the frame context for elapsed time t: the orbit camera's
// clip-from-world matrix, its world position, and the clock itself. The
// camera circles the target at OrbitSpeed radians per second; the clock
// also drives the stop-motion jitter downstream.
func (c Camera) FrameAt(t float32, aspect float32) vertex.FrameContext {
	az := float64(c.OrbitSpeed) * float64(t)
	target := mgl32.Vec3{c.Target[0], c.Target[1], c.Target[2]}
	eye := target.Add(mgl32.Vec3{
		c.Radius * float32(math.Cos(az)),
		c.Height,
		c.Radius * float32(math.Sin(az)),
	})

	proj := mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
	view := mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})

	return vertex.FrameContext{
		ClipFromWorld: proj.Mul4(view),
		CameraWorld:   eye,
		Time:          t,
	}
}

// Aspect returns the frame's width-to-height ratio.
func (f Frame) Aspect() float32 {
	if f.Height == 0 {
		return 1
	}
	return float32(f.Width) / float32(f.Height)
}
