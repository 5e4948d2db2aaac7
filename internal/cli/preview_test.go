package cli

import (
	"image"
	"image/color"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestEncodeHalfBlocks(t *testing.T) {
	img := testFrame(4, 4, color.RGBA{R: 255, A: 255})
	out := encodeHalfBlocks(img)

	// Two pixel rows collapse into one text row.
	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("Got %d lines, want 2", got)
	}
	if !strings.Contains(out, "\x1b[38;2;255;0;0m") {
		t.Error("Output should contain the truecolor foreground sequence")
	}
	if !strings.Contains(out, "▀") {
		t.Error("Output should use half-block glyphs")
	}
	if !strings.HasSuffix(out, "\x1b[0m\n") {
		t.Error("Each line should reset colors")
	}
}

func TestEncodeHalfBlocksOddHeight(t *testing.T) {
	img := testFrame(2, 3, color.RGBA{G: 255, A: 255})
	out := encodeHalfBlocks(img)

	// The odd final row duplicates its pixels rather than panicking.
	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("Got %d lines, want 2", got)
	}
}

func TestPlayerModelAdvancesFrames(t *testing.T) {
	frames := []*image.RGBA{
		testFrame(2, 2, color.RGBA{R: 255, A: 255}),
		testFrame(2, 2, color.RGBA{B: 255, A: 255}),
	}
	m := newPlayerModel(frames, 8)

	if m.current != 0 {
		t.Fatalf("current = %d, want 0", m.current)
	}

	next, _ := m.Update(tickMsg{})
	m = next.(playerModel)
	if m.current != 1 {
		t.Errorf("current = %d, want 1", m.current)
	}

	// Wraps around.
	next, _ = m.Update(tickMsg{})
	m = next.(playerModel)
	if m.current != 0 {
		t.Errorf("current = %d, want 0 after wrap", m.current)
	}
}

func TestPlayerModelPause(t *testing.T) {
	frames := []*image.RGBA{
		testFrame(2, 2, color.RGBA{A: 255}),
		testFrame(2, 2, color.RGBA{R: 255, A: 255}),
	}
	m := newPlayerModel(frames, 8)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m = next.(playerModel)
	if !m.paused {
		t.Fatal("Space should pause")
	}

	next, _ = m.Update(tickMsg{})
	m = next.(playerModel)
	if m.current != 0 {
		t.Error("Paused player should not advance")
	}
}

func TestPlayerModelQuit(t *testing.T) {
	m := newPlayerModel([]*image.RGBA{testFrame(2, 2, color.RGBA{A: 255})}, 8)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestPlayerModelView(t *testing.T) {
	m := newPlayerModel([]*image.RGBA{testFrame(2, 2, color.RGBA{A: 255})}, 8)

	view := m.View()
	if !strings.Contains(view, "frame 1/1") {
		t.Error("View should show the frame counter")
	}

	m.paused = true
	if !strings.Contains(m.View(), "paused") {
		t.Error("View should show the paused state")
	}
}
