package vertex

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func identityFrame(cam mgl32.Vec3, time float32) FrameContext {
	return FrameContext{
		ClipFromWorld: mgl32.Ident4(),
		CameraWorld:   cam,
		Time:          time,
	}
}

func TestShadeZeroThicknessIdentity(t *testing.T) {
	// Scenario A: no thickness means no perturbation at all.
	in := VertexIn{
		Position: mgl32.Vec3{0, 0, 0},
		Color:    mgl32.Vec4{1, 1, 1, 1},
	}
	out := Shade(in, identityFrame(mgl32.Vec3{}, 0))

	want := mgl32.Vec4{0, 0, 0, 1}
	if out.ClipPosition != want {
		t.Errorf("clip position = %v, want %v", out.ClipPosition, want)
	}
}

func TestPerturbZeroThickness(t *testing.T) {
	positions := []mgl32.Vec3{{0, 0, 0}, {1.5, -2.25, 3.125}, {-100, 50, 0.001}}
	for _, p := range positions {
		for _, time := range []float32{0, 0.07, 12.5} {
			if got := Perturb(p, 0, time); got != p {
				t.Errorf("Perturb(%v, 0, %f) = %v, want identity", p, time, got)
			}
		}
	}
}

func TestPerturbBounded(t *testing.T) {
	p := mgl32.Vec3{3.3, -1.7, 9.9}
	const thick float32 = 0.25
	for time := float32(0); time < 4; time += 0.11 {
		q := Perturb(p, thick, time)
		d := q.Sub(p)
		for _, v := range []float32{d.X(), d.Y(), d.Z()} {
			if v < -thick || v > thick {
				t.Fatalf("perturbation %f at t=%f exceeds thickness %f", v, time, thick)
			}
		}
	}
}

func TestPerturbStableWithinWindow(t *testing.T) {
	// Two invocations inside the same cell and step window must agree even
	// when the raw position wobbles sub-cell, so shading order and minor
	// transform noise can't cause flicker.
	a := Perturb(mgl32.Vec3{1.01, 2.02, 3.03}, 0.5, 0.30)
	b := Perturb(mgl32.Vec3{1.24, 2.24, 3.24}, 0.5, 0.37)
	if a.Sub(mgl32.Vec3{1.01, 2.02, 3.03}) != b.Sub(mgl32.Vec3{1.24, 2.24, 3.24}) {
		t.Error("offsets should be identical within one cell and time window")
	}
}

func TestShadeHeightGradient(t *testing.T) {
	// Scenario B: pure water color at the waterline edge, alpha untouched.
	in := VertexIn{
		Position: mgl32.Vec3{1, -5, 2},
		Attr:     Attributes{HeightColorFlag: 1},
		Color:    mgl32.Vec4{0.9, 0.1, 0.2, 0.7},
	}
	out := Shade(in, identityFrame(mgl32.Vec3{1, 0, 2}, 0))

	want := mgl32.Vec4{0.3, 0.7, 1.0, 0.7}
	if out.Color != want {
		t.Errorf("color = %v, want %v", out.Color, want)
	}
}

func TestShadeFullFog(t *testing.T) {
	// Scenario C: planar distance 150 with fog enabled fades the color to
	// black; alpha survives.
	in := VertexIn{
		Position: mgl32.Vec3{150, 0, 0},
		Attr:     Attributes{FogFlag: 1},
		Color:    mgl32.Vec4{0.9, 0.8, 0.7, 0.6},
	}
	out := Shade(in, identityFrame(mgl32.Vec3{0, 0, 0}, 0))

	want := mgl32.Vec4{0, 0, 0, 0.6}
	if out.Color != want {
		t.Errorf("color = %v, want %v", out.Color, want)
	}
}

func TestShadePassthrough(t *testing.T) {
	// Scenario D: both flags zero leaves the vertex color untouched at any
	// distance and time.
	in := VertexIn{
		Position: mgl32.Vec3{480, -17, 2500},
		Color:    mgl32.Vec4{0.11, 0.22, 0.33, 0.44},
	}
	out := Shade(in, identityFrame(mgl32.Vec3{0, 0, 0}, 99.5))

	if out.Color != in.Color {
		t.Errorf("color = %v, want passthrough %v", out.Color, in.Color)
	}
}

func TestShadeAlphaPreserved(t *testing.T) {
	frames := []FrameContext{
		identityFrame(mgl32.Vec3{0, 0, 0}, 0),
		identityFrame(mgl32.Vec3{40, 2, -7}, 3.2),
	}
	vertices := []VertexIn{
		{Position: mgl32.Vec3{0, -20, 0}, Attr: Attributes{HeightColorFlag: 1, FogFlag: 1}, Color: mgl32.Vec4{1, 0, 0, 0.35}},
		{Position: mgl32.Vec3{300, 40, 300}, Attr: Attributes{FogFlag: 1}, Color: mgl32.Vec4{0, 1, 0, 0.8}},
		{Position: mgl32.Vec3{2, 12, 2}, Attr: Attributes{HeightColorFlag: 0.5, FogFlag: 0.5}, Color: mgl32.Vec4{0, 0, 1, 0.05}},
	}
	for _, fc := range frames {
		for _, in := range vertices {
			out := Shade(in, fc)
			if out.Color.W() != in.Color.W() {
				t.Errorf("alpha %f changed to %f", in.Color.W(), out.Color.W())
			}
		}
	}
}

func TestShadeClipTransform(t *testing.T) {
	// A translation matrix moves the perturbed position; with zero
	// thickness the result is exact.
	fc := FrameContext{
		ClipFromWorld: mgl32.Translate3D(10, 20, 30),
		CameraWorld:   mgl32.Vec3{},
		Time:          0,
	}
	in := VertexIn{Position: mgl32.Vec3{1, 2, 3}, Color: mgl32.Vec4{1, 1, 1, 1}}
	out := Shade(in, fc)

	want := mgl32.Vec4{11, 22, 33, 1}
	if out.ClipPosition != want {
		t.Errorf("clip position = %v, want %v", out.ClipPosition, want)
	}
}

func TestShadeDeterministicAcrossOrder(t *testing.T) {
	// Referential transparency: shading the same vertex repeatedly, in any
	// interleaving, yields identical results.
	fc := identityFrame(mgl32.Vec3{3, 0, -1}, 1.77)
	vs := []VertexIn{
		{Position: mgl32.Vec3{0.3, 4.4, -2.2}, Attr: Attributes{Thickness: 0.2, FogFlag: 1, HeightColorFlag: 1}, Color: mgl32.Vec4{1, 0, 1, 1}},
		{Position: mgl32.Vec3{-8.1, 0.0, 6.5}, Attr: Attributes{Thickness: 1.5}, Color: mgl32.Vec4{0, 1, 1, 0.5}},
	}

	first := make([]VertexOut, len(vs))
	for i, v := range vs {
		first[i] = Shade(v, fc)
	}
	for i := len(vs) - 1; i >= 0; i-- {
		if got := Shade(vs[i], fc); got != first[i] {
			t.Errorf("vertex %d: repeated Shade diverged", i)
		}
	}
}
