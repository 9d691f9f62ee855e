// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitplane

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		r          image.Rectangle
		wantStride int
		wantLen    int
	}{
		{image.Rect(0, 0, 264, 176), 33, 33 * 176},
		{image.Rect(0, 0, 176, 264), 22, 22 * 264},
		{image.Rect(0, 0, 9, 2), 2, 4},
		{image.Rect(5, 5, 6, 6), 1, 1},
		{image.Rectangle{}, 0, 0},
	} {
		p := New(tc.r)
		if p.Stride != tc.wantStride || len(p.Pix) != tc.wantLen {
			t.Errorf("New(%v) = stride %d len %d, want stride %d len %d", tc.r, p.Stride, len(p.Pix), tc.wantStride, tc.wantLen)
		}
		if p.Count() != 0 {
			t.Errorf("New(%v) is not blank", tc.r)
		}
	}
}

func TestPacking(t *testing.T) {
	p := New(image.Rect(0, 0, 10, 2))
	p.SetBit(0, 0, Ink)
	p.SetBit(7, 0, Ink)
	p.SetBit(8, 0, Ink)
	p.SetBit(9, 1, Ink)
	// Out of bounds writes are ignored.
	p.SetBit(10, 0, Ink)
	p.SetBit(-1, 0, Ink)

	want := []byte{
		0b10000001, 0b10000000,
		0b00000000, 0b01000000,
	}
	if diff := cmp.Diff(p.Pix, want); diff != "" {
		t.Errorf("Pix difference (-got +want):\n%s", diff)
	}

	p.SetBit(7, 0, Paper)
	if p.BitAt(7, 0) != Paper {
		t.Errorf("BitAt(7, 0) = Ink after clearing")
	}
	if got, want := p.Count(), 3; got != want {
		t.Errorf("Count() = %d, want %d", got, want)
	}
}

func TestPackingOffsetBounds(t *testing.T) {
	p := New(image.Rect(100, 50, 108, 51))
	p.SetBit(100, 50, Ink)
	p.SetBit(107, 50, Ink)
	if diff := cmp.Diff(p.Pix, []byte{0b10000001}); diff != "" {
		t.Errorf("Pix difference (-got +want):\n%s", diff)
	}
	if p.BitAt(0, 0) != Paper {
		t.Errorf("BitAt outside bounds = Ink")
	}
}

func TestFill(t *testing.T) {
	p := New(image.Rect(0, 0, 12, 2))
	p.Fill(Ink)
	want := []byte{0xff, 0xf0, 0xff, 0xf0}
	if diff := cmp.Diff(p.Pix, want); diff != "" {
		t.Errorf("Fill(Ink) difference (-got +want):\n%s", diff)
	}
	if got, want := p.Count(), 24; got != want {
		t.Errorf("Count() = %d, want %d", got, want)
	}
	p.Fill(Paper)
	if p.Count() != 0 {
		t.Errorf("Fill(Paper) left %d ink pixels", p.Count())
	}
}

func TestDraw(t *testing.T) {
	p := New(image.Rect(0, 0, 16, 4))
	draw.Draw(p, image.Rect(4, 1, 12, 3), &image.Uniform{color.Black}, image.Point{}, draw.Src)
	if got, want := p.Count(), 16; got != want {
		t.Errorf("Count() = %d, want %d", got, want)
	}
	if diff := cmp.Diff(p.Pix[2:4], []byte{0x0f, 0xf0}); diff != "" {
		t.Errorf("row 1 difference (-got +want):\n%s", diff)
	}
}

func TestModel(t *testing.T) {
	for _, tc := range []struct {
		name string
		c    color.Color
		want Bit
	}{
		{"black", color.Black, Ink},
		{"white", color.White, Paper},
		{"dark gray", color.Gray{Y: 0x40}, Ink},
		{"light gray", color.Gray{Y: 0xc0}, Paper},
		{"transparent", color.Transparent, Paper},
		{"bit", Ink, Ink},
	} {
		if got := Model.Convert(tc.c); got != tc.want {
			t.Errorf("Convert(%s) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEqual(t *testing.T) {
	a := New(image.Rect(0, 0, 8, 8))
	b := New(image.Rect(0, 0, 8, 8))
	if !a.Equal(b) {
		t.Errorf("blank planes differ")
	}
	b.SetBit(3, 3, Ink)
	if a.Equal(b) {
		t.Errorf("planes with different pixels are equal")
	}
	if a.Equal(New(image.Rect(0, 0, 8, 9))) {
		t.Errorf("planes with different bounds are equal")
	}
}
