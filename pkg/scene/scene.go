// Package scene loads scene manifests and builds the meshes they describe.
//
// A scene is declared in a TOML manifest: a procedural terrain patch, an
// optional water plane, the jitter effect parameters, and an orbiting
// camera. [Load] or [Parse] produce a validated [Scene]; [Scene.Build]
// turns it into world-space meshes ready for shading.
package scene

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl32"

	errs "github.com/matzehuels/sketchmesh/pkg/errors"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800
	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600

	defaultTerrainSize = 64
	defaultExtent      = 160.0
	defaultAmplitude   = 28.0
	defaultOctaves     = 4
	defaultFrequency   = 0.018
	defaultLacunarity  = 2.0
	defaultPersistence = 0.5

	defaultThickness = 0.35

	defaultCameraRadius = 90.0
	defaultCameraHeight = 40.0
	defaultFOV          = 60.0
	defaultOrbitSpeed   = 0.15
	defaultNear         = 0.5
	defaultFar          = 600.0
)

// =============================================================================
// Scene - Manifest Schema
// =============================================================================

// Scene is a full scene description as declared in a TOML manifest.
// Zero values are filled in by ValidateAndSetDefaults.
type Scene struct {
	Name string `toml:"name"`

	Frame   Frame   `toml:"frame"`
	Terrain Terrain `toml:"terrain"`
	Effect  Effect  `toml:"effect"`
	Water   Water   `toml:"water"`
	Camera  Camera  `toml:"camera"`
}

// Frame describes the output image.
type Frame struct {
	Width      int        `toml:"width"`
	Height     int        `toml:"height"`
	Background [4]float32 `toml:"background"`
}

// Terrain describes the procedural terrain patch.
type Terrain struct {
	Size        int     `toml:"size"`   // grid cells per side
	Extent      float32 `toml:"extent"` // world units per side
	Amplitude   float32 `toml:"amplitude"`
	Seed        uint64  `toml:"seed"`
	Octaves     int     `toml:"octaves"`
	Frequency   float32 `toml:"frequency"`
	Lacunarity  float32 `toml:"lacunarity"`
	Persistence float32 `toml:"persistence"`
}

// Effect holds the per-vertex jitter controls applied to the terrain.
type Effect struct {
	Thickness   float32 `toml:"thickness"`
	Fog         bool    `toml:"fog"`
	HeightColor bool    `toml:"height_color"`
}

// Water describes the optional translucent water plane.
type Water struct {
	Enabled bool       `toml:"enabled"`
	Level   float32    `toml:"level"`
	Extent  float32    `toml:"extent"`
	Color   [4]float32 `toml:"color"`
}

// Camera describes the orbit camera.
type Camera struct {
	Radius     float32    `toml:"radius"`
	Height     float32    `toml:"height"`
	FOV        float32    `toml:"fov"` // vertical field of view, degrees
	OrbitSpeed float32    `toml:"orbit_speed"`
	Target     [3]float32 `toml:"target"`
	Near       float32    `toml:"near"`
	Far        float32    `toml:"far"`
}

// =============================================================================
// Loading
// =============================================================================

// Load reads and parses a scene manifest from disk.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene manifest: %w", err)
	}
	return Parse(data)
}

// Parse parses a TOML scene manifest and applies defaults.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "parse scene manifest")
	}
	if err := s.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Default returns the built-in island scene used when no manifest is given.
func Default() *Scene {
	s := &Scene{
		Name: "island",
		Effect: Effect{
			Thickness:   defaultThickness,
			Fog:         true,
			HeightColor: true,
		},
		Water: Water{
			Enabled: true,
			Level:   -0.5,
			Color:   [4]float32{0.2, 0.45, 0.85, 0.8},
		},
	}
	// Defaults fill in the remaining sections; the built-in scene cannot
	// fail validation.
	_ = s.ValidateAndSetDefaults()
	return s
}

// ValidateAndSetDefaults fills zero values with defaults and rejects
// out-of-range settings.
func (s *Scene) ValidateAndSetDefaults() error {
	if s.Name == "" {
		s.Name = "scene"
	}

	if s.Frame.Width == 0 {
		s.Frame.Width = DefaultWidth
	}
	if s.Frame.Height == 0 {
		s.Frame.Height = DefaultHeight
	}
	if s.Frame.Width < 0 || s.Frame.Height < 0 {
		return errs.New(errs.ErrCodeInvalidScene, "frame size must be positive, got %dx%d", s.Frame.Width, s.Frame.Height)
	}

	t := &s.Terrain
	if t.Size == 0 {
		t.Size = defaultTerrainSize
	}
	if t.Size < 1 {
		return errs.New(errs.ErrCodeInvalidScene, "terrain size must be at least 1, got %d", t.Size)
	}
	if t.Extent == 0 {
		t.Extent = defaultExtent
	}
	if t.Extent < 0 {
		return errs.New(errs.ErrCodeInvalidScene, "terrain extent must be positive, got %f", t.Extent)
	}
	if t.Amplitude == 0 {
		t.Amplitude = defaultAmplitude
	}
	if t.Octaves == 0 {
		t.Octaves = defaultOctaves
	}
	if t.Octaves < 1 || t.Octaves > 16 {
		return errs.New(errs.ErrCodeInvalidScene, "terrain octaves must be in [1, 16], got %d", t.Octaves)
	}
	if t.Frequency == 0 {
		t.Frequency = defaultFrequency
	}
	if t.Lacunarity == 0 {
		t.Lacunarity = defaultLacunarity
	}
	if t.Persistence == 0 {
		t.Persistence = defaultPersistence
	}

	if s.Effect.Thickness < 0 {
		return errs.New(errs.ErrCodeInvalidScene, "effect thickness must not be negative, got %f", s.Effect.Thickness)
	}

	if s.Water.Enabled && s.Water.Extent == 0 {
		s.Water.Extent = t.Extent * 3
	}

	c := &s.Camera
	if c.Radius == 0 {
		c.Radius = defaultCameraRadius
	}
	if c.Height == 0 {
		c.Height = defaultCameraHeight
	}
	if c.FOV == 0 {
		c.FOV = defaultFOV
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		return errs.New(errs.ErrCodeInvalidScene, "camera fov must be in (0, 180), got %f", c.FOV)
	}
	if c.OrbitSpeed == 0 {
		c.OrbitSpeed = defaultOrbitSpeed
	}
	if c.Near == 0 {
		c.Near = defaultNear
	}
	if c.Far == 0 {
		c.Far = defaultFar
	}
	if c.Near <= 0 || c.Far <= c.Near {
		return errs.New(errs.ErrCodeInvalidScene, "camera planes must satisfy 0 < near < far, got near=%f far=%f", c.Near, c.Far)
	}

	return nil
}

// BackgroundColor returns the frame background as a color vector.
func (f Frame) BackgroundColor() mgl32.Vec4 {
	return mgl32.Vec4{f.Background[0], f.Background[1], f.Background[2], f.Background[3]}
}
