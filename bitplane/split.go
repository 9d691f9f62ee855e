// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitplane

import (
	"image"
	"image/color"

	"github.com/GermanBionicSystems/photoframe/tricolor"
)

// Split separates a quantized image into its black and red planes.
//
// Pixels exactly matching the palette's black entry are set in the black
// plane and pixels matching its red entry in the red plane. Every other
// pixel, white or any color outside the palette, is paper in both. A pixel is
// never set in both planes. The planes have the bounds of img.
func Split(img image.Image, pal tricolor.Palette) (black, red *Plane) {
	b := img.Bounds()
	black, red = New(b), New(b)

	if p, ok := img.(*image.Paletted); ok {
		// Resolve each palette index once.
		inks := make([]int, len(p.Palette))
		for i, c := range p.Palette {
			inks[i] = classify(c, pal)
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := p.Pix[p.PixOffset(b.Min.X, y):]
			for dx, idx := range row[:b.Dx()] {
				if int(idx) >= len(inks) {
					continue
				}
				set(black, red, inks[idx], b.Min.X+dx, y)
			}
		}
		return black, red
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			set(black, red, classify(img.At(x, y), pal), x, y)
		}
	}
	return black, red
}

const (
	background = iota
	inkBlack
	inkRed
)

// classify returns which plane, if any, the color belongs to.
func classify(c color.Color, pal tricolor.Palette) int {
	r, g, b, a := c.RGBA()
	for _, e := range pal {
		if e.Ink == tricolor.White {
			continue
		}
		er, eg, eb, ea := e.Color.RGBA()
		if r != er || g != eg || b != eb || a != ea {
			continue
		}
		if e.Ink == tricolor.Black {
			return inkBlack
		}
		return inkRed
	}
	return background
}

func set(black, red *Plane, kind, x, y int) {
	switch kind {
	case inkBlack:
		black.SetBit(x, y, Ink)
	case inkRed:
		red.SetBit(x, y, Ink)
	}
}

// PreviewPalette is the palette of images returned by Compose, index for
// index: paper, black ink, red ink.
var PreviewPalette = color.Palette{
	color.NRGBA{255, 255, 255, 255},
	color.NRGBA{0, 0, 0, 255},
	color.NRGBA{255, 0, 0, 255},
}

// Compose renders the two planes as the panel would show them. Black ink
// wins where both planes are set. The result has the bounds of black.
func Compose(black, red *Plane) *image.Paletted {
	b := black.Bounds()
	dst := image.NewPaletted(b, PreviewPalette)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			switch {
			case bool(black.BitAt(x, y)):
				dst.SetColorIndex(x, y, 1)
			case bool(red.BitAt(x, y)):
				dst.SetColorIndex(x, y, 2)
			}
		}
	}
	return dst
}
