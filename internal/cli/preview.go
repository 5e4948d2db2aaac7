package cli

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchmesh/pkg/pipeline"
)

// Default preview size in pixels. Two pixel rows map to one terminal row,
// so 100x64 fits comfortably in a standard terminal.
const (
	previewWidth  = 100
	previewHeight = 64
)

// previewCommand creates the preview command for in-terminal playback.
func (c *CLI) previewCommand() *cobra.Command {
	flags := renderFlags{frames: 8}

	cmd := &cobra.Command{
		Use:   "preview [scene.toml]",
		Short: "Play the animation directly in the terminal",
		Long: `Play the animation directly in the terminal.

Frames are rendered up front at a reduced size and played back as truecolor
half-block art. Requires a terminal with 24-bit color support.

Controls: space pauses, q quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(args)
			if opts.Width == 0 {
				opts.Width = previewWidth
			}
			if opts.Height == 0 {
				opts.Height = previewHeight
			}
			return c.runPreview(cmd, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&flags.frames, "frames", flags.frames, "number of frames in the loop")

	return cmd
}

// runPreview renders the frames and hands them to the player model.
func (c *CLI) runPreview(cmd *cobra.Command, opts pipeline.Options) error {
	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ctx := cmd.Context()
	spinner := newSpinnerWithContext(ctx, "Rendering preview frames...")
	spinner.Start()

	frames, err := runner.Frames(ctx, opts)
	if err != nil {
		spinner.StopWithError("Preview failed")
		return fmt.Errorf("preview: %w", err)
	}
	spinner.Stop()

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	model := newPlayerModel(frames, opts.FPS)
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// PlayerModel - Terminal Frame Playback
// =============================================================================

// tickMsg advances the playback clock.
type tickMsg time.Time

// playerModel is the bubbletea model that loops through rendered frames.
type playerModel struct {
	rendered []string // frames pre-encoded as ANSI half-block art
	interval time.Duration
	current  int
	paused   bool
}

// newPlayerModel pre-encodes every frame so playback is allocation-free.
func newPlayerModel(frames []*image.RGBA, fps int) playerModel {
	rendered := make([]string, len(frames))
	for i, f := range frames {
		rendered[i] = encodeHalfBlocks(f)
	}
	return playerModel{
		rendered: rendered,
		interval: time.Second / time.Duration(fps),
	}
}

func (m playerModel) Init() tea.Cmd {
	return m.tick()
}

func (m playerModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m playerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			if !m.paused {
				return m, m.tick()
			}
		}
	case tickMsg:
		if m.paused {
			return m, nil
		}
		m.current = (m.current + 1) % len(m.rendered)
		return m, m.tick()
	}
	return m, nil
}

func (m playerModel) View() string {
	var b strings.Builder
	b.WriteString(m.rendered[m.current])
	b.WriteString("\n")

	status := fmt.Sprintf("frame %d/%d", m.current+1, len(m.rendered))
	if m.paused {
		status += "  paused"
	}
	b.WriteString(StyleDim.Render("  " + status + "  ·  space pause  ·  q quit"))
	return b.String()
}

// encodeHalfBlocks converts an image to ANSI half-block art. Each terminal
// cell shows two vertically stacked pixels: the upper as foreground on the
// "▀" glyph, the lower as background.
func encodeHalfBlocks(img *image.RGBA) string {
	bounds := img.Bounds()
	var b strings.Builder

	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tr, tg, tb, _ := img.At(x, y).RGBA()
			br, bg, bb := tr, tg, tb
			if y+1 < bounds.Max.Y {
				br, bg, bb, _ = img.At(x, y+1).RGBA()
			}
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				tr>>8, tg>>8, tb>>8, br>>8, bg>>8, bb>>8)
		}
		b.WriteString("\x1b[0m\n")
	}
	return b.String()
}
