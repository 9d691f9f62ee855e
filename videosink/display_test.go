// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package videosink

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/GermanBionicSystems/photoframe/bitplane"
)

func TestNewHalt(t *testing.T) {
	d := New(&Options{Width: 100, Height: 100})

	if err := d.Halt(); err != nil {
		t.Errorf("Halt() failed: %v", err)
	}
}

func TestShowPlanes(t *testing.T) {
	d := New(&Options{Width: 3, Height: 1})

	r := d.Bounds()
	black, red := bitplane.New(r), bitplane.New(r)
	black.SetBit(0, 0, bitplane.Ink)
	red.SetBit(1, 0, bitplane.Ink)
	if err := d.ShowPlanes(black, red); err != nil {
		t.Fatalf("ShowPlanes() failed: %v", err)
	}

	encoded, err := d.frame(PNG)
	if err != nil {
		t.Fatalf("frame() failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("Decoding snapshot failed: %v", err)
	}
	for x, want := range []color.NRGBA{
		{0, 0, 0, 255},
		{255, 0, 0, 255},
		{255, 255, 255, 255},
	} {
		if got := color.NRGBAModel.Convert(img.At(x, 0)); got != want {
			t.Errorf("pixel %d = %v, want %v", x, got, want)
		}
	}

	if err := d.ShowPlanes(bitplane.New(image.Rect(0, 0, 4, 1)), red); err == nil {
		t.Errorf("ShowPlanes() accepted planes of the wrong size")
	}
}

func TestFrameCache(t *testing.T) {
	d := New(&Options{Width: 16, Height: 8})

	first, err := d.frame(PNG)
	if err != nil {
		t.Fatal(err)
	}
	again, err := d.frame(PNG)
	if err != nil {
		t.Fatal(err)
	}
	if &first[0] != &again[0] {
		t.Errorf("unchanged buffer was encoded twice")
	}

	if err := d.Draw(d.Bounds(), image.Black, image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}
	changed, err := d.frame(PNG)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(first, changed) {
		t.Errorf("frame() did not change after Draw()")
	}
	if _, err := d.frame(ImageFormat(7)); err == nil {
		t.Errorf("frame() accepted an unknown format")
	}
}

func TestDrawDithers(t *testing.T) {
	d := New(&Options{Width: 4, Height: 1})
	if err := d.Draw(d.Bounds(), &image.Uniform{color.NRGBA{250, 10, 10, 255}}, image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}
	for x := 0; x < 4; x++ {
		if got, want := d.buffer.ColorIndexAt(x, 0), uint8(2); got != want {
			t.Errorf("pixel %d has index %d, want %d", x, got, want)
		}
	}
}
