// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd2in7b

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/GermanBionicSystems/photoframe/bitplane"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

func newDev(t *testing.T, p spi.Port, opts Opts) *Dev {
	t.Helper()
	dev, err := New(p, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return dev
}

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name       string
		opts       Opts
		wantString string
		wantBounds image.Rectangle
	}{
		{
			name:       "empty",
			wantString: "epd.Dev{record, (0), Width: 0, Height: 0}",
		},
		{
			name:       "EPD2in7b",
			opts:       EPD2in7b,
			wantBounds: image.Rect(0, 0, 264, 176),
			wantString: "epd.Dev{record, (0), Width: 264, Height: 176}",
		},
		{
			name: "EPD2in7b, portrait",
			opts: func() Opts {
				opts := EPD2in7b
				opts.Origin = TopLeft
				return opts
			}(),
			wantBounds: image.Rect(0, 0, 176, 264),
			wantString: "epd.Dev{record, (0), Width: 176, Height: 264}",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dev := newDev(t, &spitest.Record{}, tc.opts)

			if diff := cmp.Diff(dev.String(), tc.wantString); diff != "" {
				t.Errorf("String() difference (-got +want):\n%s", diff)
			}

			if diff := cmp.Diff(dev.Bounds(), tc.wantBounds); diff != "" {
				t.Errorf("Bounds() difference (-got +want):\n%s", diff)
			}

			if dev.maxTxSize != 4096 {
				t.Errorf("maxTxSize = %d, want 4096", dev.maxTxSize)
			}
		})
	}
}

func TestNewErrors(t *testing.T) {
	opts := EPD2in7b
	opts.Origin = Corner(9)
	if _, err := New(&spitest.Record{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &opts); err == nil {
		t.Errorf("New() accepted an unknown corner")
	}
}

// ops returns the recorded writes as commands followed by their data, with
// chunked data transfers kept separate.
func ops(r *spitest.Record) [][]byte {
	var out [][]byte
	for _, op := range r.Ops {
		out = append(out, op.W)
	}
	return out
}

func TestShowPlanes(t *testing.T) {
	r := &spitest.Record{}
	dev := newDev(t, r, EPD2in7b)
	dev.awake = true

	b := dev.Bounds()
	black, red := bitplane.New(b), bitplane.New(b)
	black.Fill(bitplane.Ink)
	// Overlapping ink is dropped from the red plane.
	red.Fill(bitplane.Ink)

	if err := dev.ShowPlanes(black, red); err != nil {
		t.Fatalf("ShowPlanes() failed: %v", err)
	}

	const size = 22 * 264
	ones := bytes.Repeat([]byte{0xff}, size)
	zeros := make([]byte, size)
	want := [][]byte{
		{dataStartTransmission1},
		ones[:4096],
		ones[4096:],
		{dataStop},
		{dataStartTransmission2},
		zeros[:4096],
		zeros[4096:],
		{dataStop},
		{displayRefresh},
	}

	if diff := cmp.Diff(ops(r), want); diff != "" {
		t.Errorf("ShowPlanes() difference (-got +want):\n%s", diff)
	}
}

func TestShowPlanesBounds(t *testing.T) {
	dev := newDev(t, &spitest.Record{}, EPD2in7b)
	dev.awake = true
	p := bitplane.New(image.Rect(0, 0, 176, 264))
	if err := dev.ShowPlanes(p, p); err == nil {
		t.Errorf("ShowPlanes() accepted portrait planes on a landscape display")
	}
}

func TestDraw(t *testing.T) {
	r := &spitest.Record{}
	dev := newDev(t, r, EPD2in7b)
	dev.awake = true

	red := &image.Uniform{color.RGBA{255, 0, 0, 255}}
	if err := dev.Draw(dev.Bounds(), red, image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	got := ops(r)
	if len(got) != 9 {
		t.Fatalf("got %d transfers, want 9", len(got))
	}
	blackData := append(append([]byte{}, got[1]...), got[2]...)
	redData := append(append([]byte{}, got[5]...), got[6]...)
	if !bytes.Equal(blackData, make([]byte, 22*264)) {
		t.Errorf("black RAM is not blank")
	}
	if !bytes.Equal(redData, bytes.Repeat([]byte{0xff}, 22*264)) {
		t.Errorf("red RAM is not fully inked")
	}
}

func TestSleep(t *testing.T) {
	r := &spitest.Record{}
	dev := newDev(t, r, EPD2in7b)
	dev.awake = true

	if err := dev.Sleep(); err != nil {
		t.Fatalf("Sleep() failed: %v", err)
	}
	if dev.awake {
		t.Errorf("display still awake after Sleep()")
	}

	want := [][]byte{
		{vcomDataInterval},
		{0xf7},
		{powerOff},
		{deepSleep},
		{deepSleepCheck},
	}
	if diff := cmp.Diff(ops(r), want); diff != "" {
		t.Errorf("Sleep() difference (-got +want):\n%s", diff)
	}
}

func TestWakeOnClear(t *testing.T) {
	r := &spitest.Record{}
	dev := newDev(t, r, EPD2in7b)

	if err := dev.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if !dev.awake {
		t.Errorf("display not awake after Clear()")
	}
	got := ops(r)
	if len(got) == 0 || got[0][0] != powerOn {
		t.Errorf("Clear() did not initialize the display first: %v", got)
	}
}

type failingConn struct {
	n, failAt int
}

func (f *failingConn) String() string { return "failing" }

func (f *failingConn) Tx(w, r []byte) error {
	f.n++
	if f.n >= f.failAt {
		return errors.New("bus error")
	}
	return nil
}

func (f *failingConn) Duplex() conn.Duplex { return conn.Half }
func (f *failingConn) TxPackets(p []spi.Packet) error { return conntest.Errorf("not implemented") }
func (f *failingConn) LimitSpeed(physic.Frequency) error { return nil }
func (f *failingConn) MaxTxSize() int { return 64 }
func (f *failingConn) Close() error { return nil }
func (f *failingConn) Connect(physic.Frequency, spi.Mode, int) (spi.Conn, error) {
	return f, nil
}

func TestErrorLatch(t *testing.T) {
	fc := &failingConn{failAt: 2}
	dev, err := New(fc, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &EPD2in7b)
	if err != nil {
		t.Fatal(err)
	}
	dev.awake = true
	if dev.maxTxSize != 64 {
		t.Errorf("maxTxSize = %d, want 64", dev.maxTxSize)
	}

	b := dev.Bounds()
	if err := dev.ShowPlanes(bitplane.New(b), bitplane.New(b)); err == nil {
		t.Fatalf("ShowPlanes() did not report the bus error")
	}
	// The first error stops all further transfers.
	if fc.n != 2 {
		t.Errorf("Tx called %d times, want 2", fc.n)
	}
}

func TestBusy(t *testing.T) {
	busy := &gpiotest.Pin{}
	if _, err := New(&spitest.Record{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, busy, &EPD2in7b); err != nil {
		t.Fatal(err)
	}
	// The pull-up keeps the line idle when no panel is connected.
	if busy.P != gpio.PullUp || busy.Read() != gpio.High {
		t.Errorf("busy pin = %v %v, want pulled up", busy.P, busy.Read())
	}
}

func TestBusyTimeout(t *testing.T) {
	busy := &gpiotest.Pin{}
	dev, err := New(&spitest.Record{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, busy, &EPD2in7b)
	if err != nil {
		t.Fatal(err)
	}
	dev.busyTimeout = 10 * time.Millisecond

	// A panel stuck in its busy state.
	busy.Lock()
	busy.L = gpio.Low
	busy.Unlock()

	if err := dev.Init(); !errors.Is(err, ErrBusyTimeout) {
		t.Errorf("Init() = %v, want %v", err, ErrBusyTimeout)
	}
	if err := dev.Sleep(); !errors.Is(err, ErrBusyTimeout) {
		t.Errorf("Sleep() = %v, want %v", err, ErrBusyTimeout)
	}
}
