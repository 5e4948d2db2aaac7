// Package sink encodes rendered frames into output formats.
package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
)

// PNG encodes a single frame as PNG.
func PNG(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// GIF encodes a frame sequence as an animated GIF looping forever. Frames
// are quantized to the Plan 9 palette; fps values that don't divide evenly
// into centiseconds are rounded.
func GIF(frames []*image.RGBA, fps int) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to encode")
	}
	if fps <= 0 {
		fps = 8
	}

	delay := 100 / fps
	if delay < 1 {
		delay = 1
	}

	anim := &gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		p := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(p, frame.Bounds(), frame, image.Point{})
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, delay)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("encode gif: %w", err)
	}
	return buf.Bytes(), nil
}
