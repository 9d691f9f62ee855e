// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tricolor

import (
	"fmt"
	"image"
)

// QuantizationError is returned when an image cannot be mapped onto a palette.
type QuantizationError struct {
	Err error
}

func (e *QuantizationError) Error() string {
	return fmt.Sprintf("tricolor: quantization failed: %v", e.Err)
}

func (e *QuantizationError) Unwrap() error {
	return e.Err
}

// Quantize maps src onto pal using Floyd-Steinberg error diffusion.
//
// Pixels are visited left to right, top to bottom. Each is matched to the
// nearest palette entry by squared RGB distance, earlier entries winning ties,
// and the remaining error is pushed to unvisited neighbors: 7/16 right, 3/16
// below left, 5/16 below and 1/16 below right. Error falling outside the image
// is dropped. Translucent pixels are composited over white paper.
//
// The result has the bounds of src and pal as its palette. All arithmetic is
// integer, so equal inputs give byte-identical outputs.
func Quantize(src image.Image, pal Palette) (*image.Paletted, error) {
	if err := pal.Validate(); err != nil {
		return nil, &QuantizationError{Err: err}
	}

	b := src.Bounds()
	dst := image.NewPaletted(b, pal.Colors())
	if b.Empty() {
		return dst, nil
	}

	targets := pal.rgb16()

	// One guard column on each side absorbs error sent past the edges.
	cur := make([][3]int32, b.Dx()+2)
	next := make([][3]int32, b.Dx()+2)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := x - b.Min.X + 1

			r, g, bl, a := src.At(x, y).RGBA()
			paper := int32(0xffff - a)

			v := [3]int32{
				clamp(int32(r) + paper + cur[i][0]),
				clamp(int32(g) + paper + cur[i][1]),
				clamp(int32(bl) + paper + cur[i][2]),
			}

			idx := nearest(targets, v)
			dst.Pix[dst.PixOffset(x, y)] = uint8(idx)

			t := targets[idx]
			for c := 0; c < 3; c++ {
				e := v[c] - t[c]
				cur[i+1][c] += e * 7 / 16
				next[i-1][c] += e * 3 / 16
				next[i][c] += e * 5 / 16
				next[i+1][c] += e * 1 / 16
			}
		}

		cur, next = next, cur
		clear(next)
	}

	return dst, nil
}

// nearest returns the index of the first target closest to v.
func nearest(targets [][3]int32, v [3]int32) int {
	best, bestDist := 0, int64(-1)
	for i, t := range targets {
		var d int64
		for c := 0; c < 3; c++ {
			delta := int64(v[c] - t[c])
			d += delta * delta
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func clamp(v int32) int32 {
	if v < 0 {
		return 0
	}
	if v > 0xffff {
		return 0xffff
	}
	return v
}
