package vertex

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestHeightColorBoundaries(t *testing.T) {
	base := mgl32.Vec3{0.9, 0.1, 0.5}

	tests := []struct {
		name string
		y    float32
		want mgl32.Vec3
	}{
		{"below water band", -50, WaterColor},
		{"water edge", -5, WaterColor},
		{"grass edge", 3, GrassColor},
		{"mid grass", 6, GrassColor},
		{"mountain edge", 25, MountainColor},
		{"above mountain band", 100, MountainColor},
	}
	for _, tt := range tests {
		if got := HeightColor(tt.y, base, 1); got != tt.want {
			t.Errorf("%s: HeightColor(%f) = %v, want %v", tt.name, tt.y, got, tt.want)
		}
	}
}

func TestHeightColorFlagZero(t *testing.T) {
	base := mgl32.Vec3{0.12, 0.34, 0.56}
	for _, y := range []float32{-100, -5, 0, 3, 17, 25, 1000} {
		if got := HeightColor(y, base, 0); got != base {
			t.Errorf("flag 0 at y=%f: got %v, want base color exactly", y, got)
		}
	}
}

func TestHeightColorFractionalFlag(t *testing.T) {
	// Flags outside {0, 1} are not rejected; they blend. Halfway between
	// base and gradient every component must sit between the two.
	base := mgl32.Vec3{1, 0, 0}
	got := HeightColor(-10, base, 0.5)
	for i := 0; i < 3; i++ {
		lo, hi := base[i], WaterColor[i]
		if lo > hi {
			lo, hi = hi, lo
		}
		if got[i] < lo || got[i] > hi {
			t.Errorf("component %d = %f outside blend range [%f, %f]", i, got[i], lo, hi)
		}
	}
}

func TestFogBoundaries(t *testing.T) {
	cam := mgl32.Vec3{0, 0, 0}
	rgb := mgl32.Vec3{0.8, 0.6, 0.4}

	// Within the near distance there is no visible fog.
	near := Fog(mgl32.Vec3{20, 0, 0}, cam, rgb, 1)
	if near != rgb {
		t.Errorf("at distance 20 got %v, want unfogged %v", near, rgb)
	}

	// Beyond the far distance the color is fully fog.
	far := Fog(mgl32.Vec3{0, 0, 150}, cam, rgb, 1)
	if far != FogColor {
		t.Errorf("at distance 150 got %v, want fog color %v", far, FogColor)
	}
}

func TestFogFlagZero(t *testing.T) {
	cam := mgl32.Vec3{5, 0, -3}
	rgb := mgl32.Vec3{0.25, 0.5, 0.75}
	for _, p := range []mgl32.Vec3{{5, 0, -3}, {500, 12, 400}, {-9000, 0, 0}} {
		if got := Fog(p, cam, rgb, 0); got != rgb {
			t.Errorf("fog flag 0 at %v: got %v, want %v", p, got, rgb)
		}
	}
}

func TestFogIgnoresVerticalDistance(t *testing.T) {
	// Planar distance only: a vertex straight above the camera is never
	// fogged no matter how high.
	cam := mgl32.Vec3{0, 0, 0}
	rgb := mgl32.Vec3{1, 1, 1}
	if got := Fog(mgl32.Vec3{0, 5000, 0}, cam, rgb, 1); got != rgb {
		t.Errorf("vertical offset should not contribute to fog, got %v", got)
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		a, b, x, want float32
	}{
		{0, 1, -.5, 0},
		{0, 1, 0, 0},
		{0, 1, 1, 1},
		{0, 1, 2, 1},
		{0, 1, 0.5, 0.5},
		{-5, 3, -5, 0},
		{-5, 3, 3, 1},
	}
	for _, tt := range tests {
		if got := smoothstep(tt.a, tt.b, tt.x); got != tt.want {
			t.Errorf("smoothstep(%f, %f, %f) = %f, want %f", tt.a, tt.b, tt.x, got, tt.want)
		}
	}

	// Monotone over the band.
	prev := float32(-1)
	for x := float32(-5); x <= 3; x += 0.25 {
		v := smoothstep(-5, 3, x)
		if v < prev {
			t.Fatalf("smoothstep should be monotone, dropped at x=%f", x)
		}
		prev = v
	}
}

func TestLerpExactEndpoints(t *testing.T) {
	// The two-product form must hit both endpoints exactly; the gradient
	// and fog boundary guarantees depend on it.
	pairs := [][2]float32{{0.3, 0.15}, {-7.25, 123.5}, {0, 1e-8}}
	for _, p := range pairs {
		if lerp(p[0], p[1], 0) != p[0] {
			t.Errorf("lerp(%f, %f, 0) should equal the first endpoint", p[0], p[1])
		}
		if lerp(p[0], p[1], 1) != p[1] {
			t.Errorf("lerp(%f, %f, 1) should equal the second endpoint", p[0], p[1])
		}
	}
}
