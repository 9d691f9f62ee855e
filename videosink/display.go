// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package videosink provides a display driver implementing an HTTP request
// handler. Client requests get an initial snapshot of the graphics buffer and
// are updated further on every change.
//
// The primary use case is the development of display outputs on a host
// machine. Additionally devices with network connectivity can use this driver
// to provide a copy of their local display via a web interface.
//
// The protocol used is "MJPEG" (https://en.wikipedia.org/wiki/Motion_JPEG)
// which is often used by IP cameras. Because of its better suitability for
// computer-drawn graphics the PNG image format is used by default. JPEG as
// a format can be selected via Options.Format or using the "format" URL
// parameter.
//
// The buffer holds the three colors of a tri-color e-paper panel. Frames are
// handed over as black and red planes with ShowPlanes; anything drawn with
// Draw is dithered onto the same colors.
package videosink

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/GermanBionicSystems/photoframe/bitplane"
	"periph.io/x/conn/v3/display"
)

// Options for videosink devices.
type Options struct {
	// Width and height of the image buffer.
	Width, Height int

	// Format specifies the image format to send to clients.
	Format ImageFormat

	// PNGLevel is the PNG compression level, png.DefaultCompression when zero.
	PNGLevel png.CompressionLevel
	// JPEGQuality defaults to jpeg.DefaultQuality.
	JPEGQuality int

	// Keepalive resends the current frame to clients that did not receive
	// one for this long. Zero disables it.
	Keepalive time.Duration
}

type Display struct {
	format    ImageFormat
	keepalive time.Duration
	png       png.Encoder
	jpeg      jpeg.Options

	mu      sync.Mutex
	buffer  *image.Paletted
	clients map[*client]struct{}
	// encoded holds the buffer in each format requested since the last
	// change. The slices are never modified once stored.
	encoded map[ImageFormat][]byte
}

var _ display.Drawer = (*Display)(nil)
var _ http.Handler = (*Display)(nil)

// New creates a new videosink device instance.
func New(opt *Options) *Display {
	// Index 0 is paper, so the buffer starts out blank.
	buffer := image.NewPaletted(image.Rect(0, 0, opt.Width, opt.Height), bitplane.PreviewPalette)

	quality := opt.JPEGQuality
	if quality == 0 {
		quality = jpeg.DefaultQuality
	}

	return &Display{
		format:    opt.Format,
		keepalive: opt.Keepalive,
		png:       png.Encoder{CompressionLevel: opt.PNGLevel, BufferPool: &encoderBuffers{}},
		jpeg:      jpeg.Options{Quality: quality},
		buffer:    buffer,
		clients:   map[*client]struct{}{},
		encoded:   map[ImageFormat][]byte{},
	}
}

// String returns the name of the device.
func (d *Display) String() string {
	return "VideoSink"
}

// Halt implements conn.Resource and terminates all running client requests
// asynchronously.
func (d *Display) Halt() error {
	d.mu.Lock()
	for c := range d.clients {
		c.stop()
	}
	d.mu.Unlock()

	return nil
}

// ColorModel implements display.Drawer.
func (d *Display) ColorModel() color.Model {
	return d.buffer.ColorModel()
}

// Bounds implements display.Drawer.
func (d *Display) Bounds() image.Rectangle {
	return d.buffer.Bounds()
}

// Draw implements display.Drawer.
func (d *Display) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	d.mu.Lock()
	draw.FloydSteinberg.Draw(d.buffer, dstRect, src, srcPts)
	d.changedLocked()
	d.mu.Unlock()

	return nil
}

// ShowPlanes replaces the buffer with the composed planes and wakes all
// clients. The planes must have the bounds of the display.
func (d *Display) ShowPlanes(black, red *bitplane.Plane) error {
	if black.Bounds() != d.Bounds() || red.Bounds() != d.Bounds() {
		return fmt.Errorf("videosink: planes %v and %v do not match display %v", black.Bounds(), red.Bounds(), d.Bounds())
	}
	img := bitplane.Compose(black, red)

	d.mu.Lock()
	copy(d.buffer.Pix, img.Pix)
	d.changedLocked()
	d.mu.Unlock()

	return nil
}

func (d *Display) changedLocked() {
	clear(d.encoded)
	for c := range d.clients {
		c.wake()
	}
}
