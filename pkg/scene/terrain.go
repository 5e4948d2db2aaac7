package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/matzehuels/sketchmesh/pkg/vertex"
)

// Mesh is an indexed triangle mesh in world space, ready for shading.
type Mesh struct {
	Name     string
	Vertices []vertex.VertexIn
	Indices  []uint32 // triangle list, three indices per face
}

// TriangleCount returns the number of faces in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Build constructs the world-space meshes described by the scene: the
// terrain patch and, when enabled, the water plane. Building is
// deterministic for a given scene.
func (s *Scene) Build() []*Mesh {
	meshes := []*Mesh{s.buildTerrain()}
	if s.Water.Enabled {
		meshes = append(meshes, s.buildWater())
	}
	return meshes
}

// buildTerrain generates a (size+1)^2 grid of vertices displaced by octave
// noise, centered on the origin, triangulated into 2*size^2 faces.
func (s *Scene) buildTerrain() *Mesh {
	t := s.Terrain
	noise := newPerlin(t.Seed)

	side := t.Size + 1
	cell := t.Extent / float32(t.Size)
	half := t.Extent / 2

	attr := vertex.Attributes{
		Thickness:       s.Effect.Thickness,
		FogFlag:         boolFlag(s.Effect.Fog),
		HeightColorFlag: boolFlag(s.Effect.HeightColor),
	}

	m := &Mesh{
		Name:     "terrain",
		Vertices: make([]vertex.VertexIn, 0, side*side),
		Indices:  make([]uint32, 0, t.Size*t.Size*6),
	}

	for zi := 0; zi < side; zi++ {
		for xi := 0; xi < side; xi++ {
			wx := -half + float32(xi)*cell
			wz := -half + float32(zi)*cell

			n := noise.octaveNoise2D(
				float64(wx)*float64(t.Frequency),
				float64(wz)*float64(t.Frequency),
				t.Octaves,
				float64(t.Lacunarity),
				float64(t.Persistence),
			)
			wy := float32(n) * t.Amplitude

			m.Vertices = append(m.Vertices, vertex.VertexIn{
				Position: mgl32.Vec3{wx, wy, wz},
				Attr:     attr,
				// Fallback color when the height gradient is disabled:
				// a flat paper grey, brightened with elevation.
				Color: terrainBaseColor(wy, t.Amplitude),
			})
		}
	}

	for zi := 0; zi < t.Size; zi++ {
		for xi := 0; xi < t.Size; xi++ {
			i := uint32(zi*side + xi)
			right := i + 1
			below := i + uint32(side)
			diag := below + 1

			m.Indices = append(m.Indices,
				i, below, right,
				right, below, diag,
			)
		}
	}

	return m
}

// buildWater generates a large quad at the water level. The plane keeps its
// own translucent color (height gradient off) but participates in fog, and
// jitters like everything else so the shoreline wobbles in step.
func (s *Scene) buildWater() *Mesh {
	w := s.Water
	half := w.Extent / 2
	color := mgl32.Vec4{w.Color[0], w.Color[1], w.Color[2], w.Color[3]}

	attr := vertex.Attributes{
		Thickness: s.Effect.Thickness,
		FogFlag:   boolFlag(s.Effect.Fog),
	}

	corners := []mgl32.Vec3{
		{-half, w.Level, -half},
		{half, w.Level, -half},
		{-half, w.Level, half},
		{half, w.Level, half},
	}

	m := &Mesh{Name: "water"}
	for _, c := range corners {
		m.Vertices = append(m.Vertices, vertex.VertexIn{Position: c, Attr: attr, Color: color})
	}
	m.Indices = []uint32{0, 2, 1, 1, 2, 3}
	return m
}

// terrainBaseColor shades a vertex for scenes with the height gradient
// turned off: a warm grey ramp from valley to peak.
func terrainBaseColor(y, amplitude float32) mgl32.Vec4 {
	if amplitude == 0 {
		return mgl32.Vec4{0.6, 0.58, 0.55, 1}
	}
	t := (y/amplitude + 1) / 2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	v := 0.35 + 0.5*t
	return mgl32.Vec4{v, v * 0.97, v * 0.92, 1}
}

func boolFlag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
