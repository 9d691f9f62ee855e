// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"image"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/GermanBionicSystems/photoframe/epd2in7b"
	"github.com/GermanBionicSystems/photoframe/frame"
	"github.com/GermanBionicSystems/photoframe/screen2d"
	"github.com/GermanBionicSystems/photoframe/videosink"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	defaultInterval = 30 * time.Second
	defaultSettle   = 2 * time.Second
	webKeepalive    = 10 * time.Second
)

type sinkConfig struct {
	width, height int
	listen        string
	format        videosink.ImageFormat
	spi           string
}

// display is a frame sink released with Close.
type display interface {
	frame.Sink
	fmt.Stringer
	Close() error
}

func openSink(name string, cfg sinkConfig) (display, error) {
	switch name {
	case "epd":
		return openEPD(cfg)
	case "terminal":
		return &terminalDisplay{screen2d.New(&screen2d.Opts{Width: cfg.width, Height: cfg.height})}, nil
	case "web":
		return openWeb(cfg)
	default:
		return nil, fmt.Errorf("unknown sink %q: expected either epd, terminal or web", name)
	}
}

// epdDisplay is the e-paper HAT. It owns the SPI port.
type epdDisplay struct {
	*epd2in7b.Dev
	port spi.PortCloser
}

func openEPD(cfg sinkConfig) (display, error) {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	port, err := spireg.Open(cfg.spi)
	if err != nil {
		return nil, fmt.Errorf("opening SPI port: %w", err)
	}

	dev, err := epd2in7b.NewHat(port, &epd2in7b.EPD2in7b)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to initialize driver: %w", err)
	}
	if want := image.Pt(cfg.width, cfg.height); dev.Bounds().Size() != want {
		port.Close()
		return nil, fmt.Errorf("frame size %v does not match display %v", want, dev.Bounds().Size())
	}

	if err := dev.Init(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to initialize display: %w", err)
	}
	if err := dev.Clear(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to clear display: %w", err)
	}
	return &epdDisplay{Dev: dev, port: port}, nil
}

// Close clears the panel, puts it to sleep and releases the SPI port.
func (e *epdDisplay) Close() error {
	err := e.Halt()
	if cerr := e.port.Close(); err == nil {
		err = cerr
	}
	return err
}

type terminalDisplay struct {
	*screen2d.Dev
}

func (t *terminalDisplay) Close() error {
	return t.Halt()
}

// webDisplay serves the frames as an MJPEG stream.
type webDisplay struct {
	*videosink.Display
	srv *http.Server
}

func openWeb(cfg sinkConfig) (display, error) {
	d := videosink.New(&videosink.Options{
		Width:     cfg.width,
		Height:    cfg.height,
		Format:    cfg.format,
		Keepalive: webKeepalive,
	})

	ln, err := net.Listen("tcp", cfg.listen)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Handler: d}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("web preview: %v", err)
		}
	}()
	log.Printf("web preview on http://%s/", ln.Addr())

	return &webDisplay{Display: d, srv: srv}, nil
}

func (w *webDisplay) Close() error {
	if err := w.Halt(); err != nil {
		return err
	}
	return w.srv.Close()
}
