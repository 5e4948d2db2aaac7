package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchmesh/pkg/pipeline"
)

// renderFlags holds the command-line flags shared by render and animate.
type renderFlags struct {
	output  string  // output file path (or base path for multiple formats)
	start   float32 // clock value of the first frame, seconds
	frames  int     // number of frames to render
	fps     int     // animation clock rate
	width   int     // frame width override
	height  int     // frame height override
	workers int     // shading goroutines per frame
	noCache bool    // disable the artifact cache
	refresh bool    // bypass cached artifacts and re-render
}

// renderCommand creates the render command for still images.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	flags := renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [scene.toml]",
		Short: "Render a scene manifest to an image",
		Long: `Render a scene manifest to an image.

The scene is described in a TOML manifest: a procedural terrain patch, an
optional water plane, the jitter effect, and an orbit camera. Without an
argument the built-in island scene is rendered.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(args)
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runPipeline(cmd.Context(), opts, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), gif (comma-separated)")
	cmd.Flags().Float32Var(&flags.start, "start", 0, "clock value of the rendered frame, seconds")

	return cmd
}

// animateCommand creates the animate command for GIF output.
func (c *CLI) animateCommand() *cobra.Command {
	flags := renderFlags{frames: 16}

	cmd := &cobra.Command{
		Use:   "animate [scene.toml]",
		Short: "Render an animated GIF of the jitter effect",
		Long: `Render an animated GIF of the jitter effect.

At the default 8 frames per second each frame advances the jitter by exactly
one step, so the output loops through the effect's stop-motion offsets.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(args)
			opts.Formats = []string{pipeline.FormatGIF}
			return c.runPipeline(cmd.Context(), opts, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&flags.frames, "frames", flags.frames, "number of frames")

	return cmd
}

// register adds the flags shared by render and animate.
func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().IntVar(&f.fps, "fps", 0, "frames per second of the animation clock")
	cmd.Flags().IntVar(&f.width, "width", 0, "frame width, overrides the manifest")
	cmd.Flags().IntVar(&f.height, "height", 0, "frame height, overrides the manifest")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "shading goroutines per frame (0 = all CPUs)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "re-render even if cached")
}

// options builds pipeline options from flags and the optional manifest arg.
func (f *renderFlags) options(args []string) pipeline.Options {
	opts := pipeline.Options{
		Start:   f.start,
		Frames:  f.frames,
		FPS:     f.fps,
		Width:   f.width,
		Height:  f.height,
		Workers: f.workers,
		Refresh: f.refresh,
	}
	if len(args) > 0 {
		opts.ScenePath = args[0]
	}
	return opts
}

// runPipeline executes the pipeline and writes the resulting artifacts.
func (c *CLI) runPipeline(ctx context.Context, opts pipeline.Options, flags renderFlags) error {
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	label := opts.ScenePath
	if label == "" {
		label = "built-in scene"
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", label))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	printSuccess("Rendered %s", result.SceneName)
	printStats(result.Stats.VertexCount, result.Stats.TriangleCount, result.CacheInfo.AllHit())

	return writeArtifacts(result.Artifacts, opts.Formats, flags.output, opts.ScenePath)
}

// =============================================================================
// Output Helpers
// =============================================================================

// writeArtifacts saves each artifact, deriving file names when needed.
// A single format honors the output path directly; multiple formats treat
// it as a base path and append the format extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) error {
	base := basePath(output, input)

	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}

		path := output
		if path == "" || len(formats) > 1 {
			path = base + "." + format
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input, falling back to
// the scene name for the built-in scene. A known format extension on the
// output path is stripped so "-o out.png -f png,gif" works.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return "scene"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}

