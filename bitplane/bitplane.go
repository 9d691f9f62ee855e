// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bitplane implements the 1-bit planes consumed by tri-color e-paper
// controllers.
//
// A Plane stores one bit per pixel, rows packed left to right with the most
// significant bit first. A set bit is ink: black in the black plane, red in
// the red plane. Pix can be sent to a controller that uses the same layout
// without conversion.
package bitplane

import (
	"image"
	"image/color"
)

// Bit is the color of a single plane pixel.
type Bit bool

const (
	// Paper leaves the pixel white.
	Paper Bit = false
	// Ink marks the pixel with the plane's color.
	Ink Bit = true
)

// RGBA implements color.Color. Ink is shown as black.
func (b Bit) RGBA() (r, g, bl, a uint32) {
	if b {
		return 0, 0, 0, 0xffff
	}
	return 0xffff, 0xffff, 0xffff, 0xffff
}

func (b Bit) String() string {
	if b {
		return "Ink"
	}
	return "Paper"
}

func convert(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, a := c.RGBA()
	if a < 0x8000 {
		return Paper
	}
	// Rec. 601 luma, premultiplied values are fine since alpha is high.
	y := (299*r + 587*g + 114*b) / 1000
	return Bit(y < 0x8000)
}

// Model converts colors to Bit. Dark opaque colors become Ink.
var Model = color.ModelFunc(convert)

// Plane is a packed 1-bit image.
type Plane struct {
	// Pix holds the rows of the image, each Stride bytes long. Bits past the
	// right edge are always zero.
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

// New returns a Plane of bounds r with all pixels set to Paper.
func New(r image.Rectangle) *Plane {
	if r.Empty() {
		return &Plane{Rect: r}
	}
	stride := (r.Dx() + 7) / 8
	return &Plane{
		Pix:    make([]byte, stride*r.Dy()),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel implements image.Image.
func (p *Plane) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (p *Plane) Bounds() image.Rectangle {
	return p.Rect
}

// At implements image.Image.
func (p *Plane) At(x, y int) color.Color {
	return p.BitAt(x, y)
}

// BitAt returns the Bit at (x, y). Pixels outside the bounds are Paper.
func (p *Plane) BitAt(x, y int) Bit {
	if !(image.Point{x, y}.In(p.Rect)) {
		return Paper
	}
	offset, mask := p.bitOffset(x, y)
	return p.Pix[offset]&mask != 0
}

// Set implements draw.Image.
func (p *Plane) Set(x, y int, c color.Color) {
	p.SetBit(x, y, convert(c).(Bit))
}

// SetBit sets the Bit at (x, y). Pixels outside the bounds are ignored.
func (p *Plane) SetBit(x, y int, b Bit) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	offset, mask := p.bitOffset(x, y)
	if b {
		p.Pix[offset] |= mask
	} else {
		p.Pix[offset] &^= mask
	}
}

// Fill sets every pixel to b.
func (p *Plane) Fill(b Bit) {
	if len(p.Pix) == 0 {
		return
	}
	v := byte(0)
	if b {
		v = 0xff
	}
	for i := range p.Pix {
		p.Pix[i] = v
	}
	if rem := p.Rect.Dx() % 8; b && rem != 0 {
		last := byte(0xff << (8 - rem))
		for i := p.Stride - 1; i < len(p.Pix); i += p.Stride {
			p.Pix[i] = last
		}
	}
}

// Count returns the number of Ink pixels.
func (p *Plane) Count() int {
	n := 0
	for _, v := range p.Pix {
		for ; v != 0; v &= v - 1 {
			n++
		}
	}
	return n
}

// Equal reports whether both planes have the same bounds and pixels.
func (p *Plane) Equal(o *Plane) bool {
	if p.Rect != o.Rect || len(p.Pix) != len(o.Pix) {
		return false
	}
	for i := range p.Pix {
		if p.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// bitOffset returns the byte offset and bit mask of the pixel at (x, y).
func (p *Plane) bitOffset(x, y int) (int, byte) {
	dx := x - p.Rect.Min.X
	offset := (y-p.Rect.Min.Y)*p.Stride + dx/8
	return offset, 0x80 >> uint(dx%8)
}
