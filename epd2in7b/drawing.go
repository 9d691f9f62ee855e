// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd2in7b

import (
	"image"

	"github.com/GermanBionicSystems/photoframe/bitplane"
)

// packPlane returns the content of a plane in controller RAM order: rows of
// the physical display, top to bottom, eight pixels per byte, most
// significant bit first.
//
// The plane is in logical orientation. origin is the physical corner where
// the logical (0,0) is shown.
func packPlane(p *bitplane.Plane, native image.Point, origin Corner) []byte {
	stride := (native.X + 7) / 8
	out := make([]byte, stride*native.Y)
	devSize := p.Bounds().Size()
	off := p.Bounds().Min

	if origin == TopLeft && off == (image.Point{}) && p.Stride == stride {
		copy(out, p.Pix)
		return out
	}

	var posFor func(destY, destX int) image.Point

	switch origin {
	case TopLeft:
		posFor = func(destY, destX int) image.Point {
			return image.Point{
				X: destX,
				Y: destY,
			}
		}

	case TopRight:
		posFor = func(destY, destX int) image.Point {
			return image.Point{
				X: destY,
				Y: devSize.Y - destX - 1,
			}
		}

	case BottomRight:
		posFor = func(destY, destX int) image.Point {
			return image.Point{
				X: devSize.X - destX - 1,
				Y: devSize.Y - destY - 1,
			}
		}

	case BottomLeft:
		posFor = func(destY, destX int) image.Point {
			return image.Point{
				X: devSize.X - destY - 1,
				Y: destX,
			}
		}
	}

	for destY := 0; destY < native.Y; destY++ {
		row := out[destY*stride : (destY+1)*stride]
		for destX := 0; destX < native.X; destX++ {
			pos := posFor(destY, destX).Add(off)
			if p.BitAt(pos.X, pos.Y) {
				row[destX/8] |= 0x80 >> uint(destX%8)
			}
		}
	}

	return out
}
