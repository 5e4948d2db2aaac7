package scene

import (
	"strings"
	"testing"
)

const sampleManifest = `
name = "archipelago"

[frame]
width = 320
height = 240
background = [0.05, 0.05, 0.1, 1.0]

[terrain]
size = 16
extent = 80.0
amplitude = 20.0
seed = 7
octaves = 3

[effect]
thickness = 0.5
fog = true
height_color = true

[water]
enabled = true
level = -1.0
color = [0.2, 0.4, 0.9, 0.75]

[camera]
radius = 60.0
height = 25.0
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if s.Name != "archipelago" {
		t.Errorf("Name = %q", s.Name)
	}
	if s.Frame.Width != 320 || s.Frame.Height != 240 {
		t.Errorf("frame = %dx%d, want 320x240", s.Frame.Width, s.Frame.Height)
	}
	if s.Terrain.Seed != 7 {
		t.Errorf("terrain seed = %d, want 7", s.Terrain.Seed)
	}
	if s.Effect.Thickness != 0.5 {
		t.Errorf("thickness = %f, want 0.5", s.Effect.Thickness)
	}

	// Unset fields picked up defaults.
	if s.Terrain.Lacunarity != defaultLacunarity {
		t.Errorf("lacunarity default not applied: %f", s.Terrain.Lacunarity)
	}
	if s.Camera.FOV != defaultFOV {
		t.Errorf("fov default not applied: %f", s.Camera.FOV)
	}
	if s.Water.Extent == 0 {
		t.Error("water extent default not applied")
	}
}

func TestParseInvalidTOML(t *testing.T) {
	if _, err := Parse([]byte("frame = [not toml")); err == nil {
		t.Error("invalid TOML should fail")
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Scene)
		wantErr string
	}{
		{"negative thickness", func(s *Scene) { s.Effect.Thickness = -1 }, "thickness"},
		{"bad octaves", func(s *Scene) { s.Terrain.Octaves = 99 }, "octaves"},
		{"bad fov", func(s *Scene) { s.Camera.FOV = 200 }, "fov"},
		{"inverted planes", func(s *Scene) { s.Camera.Near = 10; s.Camera.Far = 1 }, "near"},
		{"negative frame", func(s *Scene) { s.Frame.Width = -5 }, "frame size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			err := s.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultScene(t *testing.T) {
	s := Default()
	if err := s.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("default scene should validate: %v", err)
	}
	if !s.Effect.HeightColor || !s.Effect.Fog {
		t.Error("default scene should enable the height gradient and fog")
	}
	if !s.Water.Enabled {
		t.Error("default scene should include water")
	}
}
