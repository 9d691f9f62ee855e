// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package picture

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// Filter selects the interpolation used by Resize.
type Filter int

// Valid Filter.
const (
	CatmullRom Filter = iota
	Nearest
	ApproxBiLinear
	BiLinear
)

var filterNames = [...]string{
	CatmullRom:     "catmull-rom",
	Nearest:        "nearest",
	ApproxBiLinear: "approx-bilinear",
	BiLinear:       "bilinear",
}

func (f Filter) String() string {
	if f < 0 || int(f) >= len(filterNames) {
		return fmt.Sprintf("Filter(%d)", int(f))
	}
	return filterNames[f]
}

// Set implements the flag.Value interface.
func (f *Filter) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range filterNames {
		if n == s {
			*f = Filter(i)
			return nil
		}
	}
	return fmt.Errorf("unknown filter %q: expected one of %s", s, strings.Join(filterNames[:], ", "))
}

// Type implements the pflag.Value interface.
func (f *Filter) Type() string {
	return "filter"
}

func (f Filter) scaler() draw.Scaler {
	switch f {
	case Nearest:
		return draw.NearestNeighbor
	case ApproxBiLinear:
		return draw.ApproxBiLinear
	case BiLinear:
		return draw.BiLinear
	default:
		return draw.CatmullRom
	}
}

// Resize scales src to exactly width x height, ignoring its aspect ratio. The
// result has its origin at (0, 0).
func Resize(src image.Image, width, height int, f Filter) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if src.Bounds().Empty() || dst.Bounds().Empty() {
		return dst
	}
	f.scaler().Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
