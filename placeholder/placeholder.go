// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package placeholder draws the card shown when there are no pictures.
package placeholder

import (
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	paper = color.NRGBA{255, 255, 255, 255}
	ink   = color.NRGBA{0, 0, 0, 255}
	red   = color.NRGBA{255, 0, 0, 255}
)

var regular = sync.OnceValue(func() *truetype.Font {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
	return f
})

// Render returns a white card of the given size with a red border and title
// and the message wrapped below in black. Only the three panel colors are
// used, so the card dithers cleanly.
func Render(width, height int, title, message string) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetColor(paper)
	dc.Clear()

	w, h := float64(width), float64(height)
	margin := h / 16
	border := max(2, h/60)

	dc.SetColor(red)
	dc.SetLineWidth(border)
	dc.DrawRectangle(margin/2, margin/2, w-margin, h-margin)
	dc.Stroke()

	titleSize := h / 8
	dc.SetFontFace(truetype.NewFace(regular(), &truetype.Options{Size: titleSize}))
	dc.DrawStringAnchored(title, w/2, margin+titleSize/2, 0.5, 0.5)

	dc.SetColor(ink)
	dc.SetFontFace(truetype.NewFace(regular(), &truetype.Options{Size: h / 14}))
	dc.DrawStringWrapped(message, w/2, margin+titleSize*1.5, 0.5, 0, w-3*margin, 1.3, gg.AlignCenter)

	return dc.Image()
}
