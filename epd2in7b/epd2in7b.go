// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd2in7b

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/GermanBionicSystems/photoframe/bitplane"
	"github.com/GermanBionicSystems/photoframe/tricolor"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
)

// Commands
const (
	panelSetting           byte = 0x00
	powerSetting           byte = 0x01
	powerOff               byte = 0x02
	powerOn                byte = 0x04
	boosterSoftStart       byte = 0x06
	deepSleep              byte = 0x07
	dataStartTransmission1 byte = 0x10
	dataStop               byte = 0x11
	displayRefresh         byte = 0x12
	dataStartTransmission2 byte = 0x13
	partialDisplayRefresh  byte = 0x16
	pllControl             byte = 0x30
	vcomDataInterval       byte = 0x50
	vcmDCSetting           byte = 0x82
	powerOptimization      byte = 0xF8
)

const (
	// panelSettingOTP selects the waveform stored in OTP, tri-color mode and
	// the default scan directions.
	panelSettingOTP byte = 0x0F
	// deepSleepCheck must follow the deepSleep command.
	deepSleepCheck byte = 0xA5
)

// defaultBusyTimeout bounds a single wait for the controller. A full refresh
// takes about 15s.
const defaultBusyTimeout = 40 * time.Second

// ErrBusyTimeout is returned when the controller does not release BUSY, which
// usually means the panel is not connected.
var ErrBusyTimeout = errors.New("epd2in7b: timed out waiting for the display")

// Dev defines the handler which is used to access the display.
type Dev struct {
	c conn.Conn

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	maxTxSize   int
	busyTimeout time.Duration
	bounds      image.Rectangle
	// awake is false until Init and after Sleep.
	awake bool

	opts *Opts
}

// Corner describes a corner on the physical device and is used to define the
// origin for drawing operations.
type Corner uint8

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// Opts definies the structure of the display configuration.
type Opts struct {
	// Width and Height are the physical resolution, in portrait.
	Width  int
	Height int
	Origin Corner
}

// EPD2in7b contains the display configuration for the Waveshare 2in7b in
// landscape, 264x176, the same way up as the vendor examples.
var EPD2in7b = Opts{
	Width:  176,
	Height: 264,
	Origin: BottomLeft,
}

// flipPt returns a new image.Point with the X and Y coordinates exchanged.
func flipPt(pt image.Point) image.Point {
	return image.Point{X: pt.Y, Y: pt.X}
}

// New creates new handler which is used to access the display.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	if err := busy.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, err
	}

	displaySize := image.Pt(opts.Width, opts.Height)

	switch opts.Origin {
	case TopLeft, BottomRight:
	case TopRight, BottomLeft:
		displaySize = flipPt(displaySize)
	default:
		return nil, fmt.Errorf("unknown corner %v", opts.Origin)
	}

	// Get the maxTxSize from the conn if it implements the conn.Limits interface,
	// otherwise use 4096 bytes.
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize == 0 {
		maxTxSize = 4096 // Use a conservative default.
	}

	d := &Dev{
		c:           c,
		dc:          dc,
		cs:          cs,
		rst:         rst,
		busy:        busy,
		maxTxSize:   maxTxSize,
		busyTimeout: defaultBusyTimeout,
		bounds:      image.Rectangle{Max: displaySize},
		opts:        opts,
	}

	return d, nil
}

// NewHat creates new handler which is used to access the display. Default Waveshare Hat configuration is used.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, cs, rst, busy, opts)
}

// Init resets the controller and configures it for usage through the other
// functions. It is called implicitly when the display is asleep.
func (d *Dev) Init() error {
	// Hardware Reset
	if err := d.Reset(); err != nil {
		return err
	}

	eh := errorHandler{d: *d}

	initDisplay(&eh)

	d.awake = eh.err == nil

	return eh.err
}

func (d *Dev) wake() error {
	if d.awake {
		return nil
	}
	return d.Init()
}

// nativeSize returns the size of the display in controller orientation.
func (d *Dev) nativeSize() image.Point {
	return image.Pt(d.opts.Width, d.opts.Height)
}

// Clear sets the whole display to white.
func (d *Dev) Clear() error {
	if err := d.wake(); err != nil {
		return err
	}

	eh := errorHandler{d: *d}

	native := d.nativeSize()
	clearDisplay(&eh, (native.X+7)/8*native.Y)

	return eh.err
}

// ColorModel returns the three panel colors.
func (d *Dev) ColorModel() color.Model {
	return bitplane.PreviewPalette
}

// Bounds returns the bounds for the configurated display.
func (d *Dev) Bounds() image.Rectangle {
	return d.bounds
}

// ShowPlanes uploads the black and red planes and refreshes the display. Both
// planes must have the display bounds. A pixel set in both planes shows as
// black.
func (d *Dev) ShowPlanes(black, red *bitplane.Plane) error {
	if black.Bounds().Size() != d.bounds.Size() || red.Bounds().Size() != d.bounds.Size() {
		return fmt.Errorf("epd2in7b: planes %v and %v do not match display %v", black.Bounds(), red.Bounds(), d.bounds)
	}

	if err := d.wake(); err != nil {
		return err
	}

	native := d.nativeSize()
	blackData := packPlane(black, native, d.opts.Origin)
	redData := packPlane(red, native, d.opts.Origin)

	// The controller would mix both inks, black wins instead.
	for i, b := range blackData {
		redData[i] &^= b
	}

	eh := errorHandler{d: *d}

	writePlanes(&eh, blackData, redData)

	return eh.err
}

// Draw draws the given image to the display. The image is dithered onto
// black, white and red. Areas outside dstRect are white.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	canvas := image.NewRGBA(d.bounds)
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, dstRect.Intersect(d.bounds), src, srcPts, draw.Src)

	q, err := tricolor.Quantize(canvas, tricolor.DefaultPalette)
	if err != nil {
		return err
	}

	black, red := bitplane.Split(q, tricolor.DefaultPalette)

	return d.ShowPlanes(black, red)
}

// Halt clears the display and puts it to sleep, preventing burn-in while the
// display is not driven.
func (d *Dev) Halt() error {
	if err := d.Init(); err != nil {
		return err
	}
	if err := d.Clear(); err != nil {
		return err
	}
	return d.Sleep()
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("epd.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, d.bounds.Dx(), d.bounds.Dy())
}

// Sleep makes the controller enter deep sleep mode. The next drawing
// operation wakes it up through Init.
func (d *Dev) Sleep() error {
	eh := errorHandler{d: *d}

	sleepDisplay(&eh)

	d.awake = false

	return eh.err
}

// Reset the hardware.
func (d *Dev) Reset() error {
	eh := errorHandler{d: *d}

	eh.rstOut(gpio.High)
	time.Sleep(200 * time.Millisecond)
	eh.rstOut(gpio.Low)
	time.Sleep(10 * time.Millisecond)
	eh.rstOut(gpio.High)
	time.Sleep(200 * time.Millisecond)

	return eh.err
}

var _ display.Drawer = &Dev{}
