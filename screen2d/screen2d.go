// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen2d implements a display.Drawer and frame sink that outputs a
// tri-color panel to the terminal using ANSI color codes.
//
// Useful while the e-paper HAT is still in the mail.
package screen2d

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"github.com/GermanBionicSystems/photoframe/bitplane"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"golang.org/x/term"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	// Width and Height default to 264x176.
	Width, Height int
	// Scale shows every Scale-th pixel. 0 fits the output to the terminal
	// width.
	Scale   int
	Palette *ansi256.Palette
	// Out defaults to stdout.
	Out io.Writer

	_ struct{}
}

// Dev is a tri-color panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	scale   int
	palette ansi256.Palette

	img *image.Paletted
	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w, h := opts.Width, opts.Height
	if w == 0 || h == 0 {
		w, h = 264, 176
	}
	out := opts.Out
	var tty io.Writer = out
	if out == nil {
		out, tty = colorable.NewColorableStdout(), os.Stdout
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = fitScale(tty, w)
	}
	return &Dev{
		w:       out,
		scale:   scale,
		palette: *p,
		img:     image.NewPaletted(image.Rect(0, 0, w, h), bitplane.PreviewPalette),
	}
}

// fitScale returns the smallest scale that fits width pixels in the terminal
// behind out. Outputs that are not a terminal get scale 1.
func fitScale(out io.Writer, width int) int {
	f, ok := out.(interface{ Fd() uintptr })
	if !ok {
		return 1
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return 1
	}
	return (width + cols - 1) / cols
}

func (d *Dev) String() string {
	return fmt.Sprintf("Screen2D{%s, scale %d}", d.img.Bounds().Size(), d.scale)
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the shell is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return d.img.Palette
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.img.Bounds()
}

// Draw implements display.Drawer.
//
// The image is dithered onto black, white and red as the panel would.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.FloydSteinberg.Draw(d.img, r.Intersect(d.Bounds()), src, sp)
	return d.refresh()
}

// ShowPlanes shows a pair of planes of the display bounds.
func (d *Dev) ShowPlanes(black, red *bitplane.Plane) error {
	if black.Bounds() != d.Bounds() || red.Bounds() != d.Bounds() {
		return fmt.Errorf("screen2d: planes %v and %v do not match display %v", black.Bounds(), red.Bounds(), d.Bounds())
	}
	d.img = bitplane.Compose(black, red)
	return d.refresh()
}

func (d *Dev) refresh() error {
	d.buf.Reset()
	// Home the cursor so each frame overwrites the previous one.
	_, _ = d.buf.WriteString("\033[H\033[0m")
	b := d.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += d.scale {
		for x := b.Min.X; x < b.Max.X; x += d.scale {
			c := color.NRGBAModel.Convert(d.img.Palette[d.img.ColorIndexAt(x, y)]).(color.NRGBA)
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
