package vertex

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Terrain gradient reference colors.
var (
	// WaterColor is the gradient color below the waterline.
	WaterColor = mgl32.Vec3{0.3, 0.7, 1.0}
	// GrassColor is the gradient color of the mid band.
	GrassColor = mgl32.Vec3{0.15, 0.65, 0.15}
	// MountainColor is the gradient color above the treeline.
	MountainColor = mgl32.Vec3{0.55, 0.4, 0.25}
	// FogColor is the color distant vertices fade toward.
	FogColor = mgl32.Vec3{0, 0, 0}
)

// Gradient band edges (world-space Y) and fog distances (world-space XZ).
const (
	waterGrassLo    float32 = -5.0
	waterGrassHi    float32 = 3.0
	grassMountainLo float32 = 10.0
	grassMountainHi float32 = 25.0

	fogNear float32 = 20.0
	fogFar  float32 = 100.0
)

// HeightColor blends the three-color terrain gradient with the vertex color.
// flag 0 returns base exactly, flag 1 returns the pure gradient, and values
// in between blend proportionally.
func HeightColor(y float32, base mgl32.Vec3, flag float32) mgl32.Vec3 {
	waterToGrass := smoothstep(waterGrassLo, waterGrassHi, y)
	grassToMountain := smoothstep(grassMountainLo, grassMountainHi, y)

	gradient := lerpVec3(lerpVec3(WaterColor, GrassColor, waterToGrass), MountainColor, grassToMountain)
	return lerpVec3(base, gradient, flag)
}

// Fog fades rgb toward FogColor based on the planar (XZ) camera distance,
// ignoring vertical separation. flag 0 disables the fade entirely no matter
// how far the vertex is.
func Fog(p, camera mgl32.Vec3, rgb mgl32.Vec3, flag float32) mgl32.Vec3 {
	dx := p.X() - camera.X()
	dz := p.Z() - camera.Z()
	dist := float32(math.Sqrt(float64(dx*dx + dz*dz)))

	fade := 1.0 - smoothstep(fogNear, fogFar, dist)
	fogFactor := lerp(1.0, fade, flag)
	return lerpVec3(FogColor, rgb, fogFactor)
}

// smoothstep is the standard cubic Hermite interpolation, clamped to [0, 1]
// for x outside [a, b].
func smoothstep(a, b, x float32) float32 {
	t := (x - a) / (b - a)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// lerp uses the two-product form so t=0 returns a exactly and t=1 returns b
// exactly, which the gradient and fog boundary guarantees rely on.
func lerp(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{
		lerp(a.X(), b.X(), t),
		lerp(a.Y(), b.Y(), t),
		lerp(a.Z(), b.Z(), t),
	}
}
