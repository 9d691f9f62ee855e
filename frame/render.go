// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package frame turns pictures into panel frames and cycles them on a sink.
package frame

import (
	"fmt"
	"image"
	"log"
	"os"

	"github.com/GermanBionicSystems/photoframe/bitplane"
	"github.com/GermanBionicSystems/photoframe/picture"
	"github.com/GermanBionicSystems/photoframe/planecache"
	"github.com/GermanBionicSystems/photoframe/tricolor"
)

// Options controls how pictures are rendered.
type Options struct {
	Width   int
	Height  int
	Palette tricolor.Palette
	Filter  picture.Filter
}

// DefaultOptions renders for the 2.7" panel in landscape.
var DefaultOptions = Options{
	Width:   264,
	Height:  176,
	Palette: tricolor.DefaultPalette,
	Filter:  picture.CatmullRom,
}

// String returns a fingerprint of the options. Two Options render the same
// picture identically if and only if their strings are equal.
func (o *Options) String() string {
	return fmt.Sprintf("%dx%d;%s;%s", o.Width, o.Height, o.Palette, o.Filter)
}

// Frame is a rendered picture.
type Frame struct {
	// Source is the path the frame was rendered from, empty for in-memory
	// images.
	Source string
	Black  *bitplane.Plane
	Red    *bitplane.Plane
}

// Cache stores rendered planes. *planecache.Cache implements it.
type Cache interface {
	Get(key string) (black, red *bitplane.Plane, ok bool, err error)
	Put(key string, black, red *bitplane.Plane) error
}

// Renderer runs the decode, resize, quantize and split stages.
type Renderer struct {
	Opts Options
	// Cache is optional.
	Cache  Cache
	Logger *log.Logger
}

// Render loads the picture at path and returns its frame.
//
// Errors are *picture.DecodeError or *tricolor.QuantizationError.
func (r *Renderer) Render(path string) (*Frame, error) {
	var key string
	if r.Cache != nil {
		if info, err := os.Stat(path); err == nil {
			key = planecache.Key(path, info, r.Opts.String())
			black, red, ok, err := r.Cache.Get(key)
			if err != nil {
				r.logger().Printf("cache lookup for %s failed: %v", path, err)
			}
			if ok {
				return &Frame{Source: path, Black: black, Red: red}, nil
			}
		}
	}

	img, err := picture.Decode(path)
	if err != nil {
		return nil, err
	}
	f, err := r.RenderImage(img)
	if err != nil {
		return nil, err
	}
	f.Source = path

	if key != "" {
		if err := r.Cache.Put(key, f.Black, f.Red); err != nil {
			r.logger().Printf("cache store for %s failed: %v", path, err)
		}
	}
	return f, nil
}

// RenderImage returns the frame of an already decoded image.
func (r *Renderer) RenderImage(img image.Image) (*Frame, error) {
	resized := picture.Resize(img, r.Opts.Width, r.Opts.Height, r.Opts.Filter)
	q, err := tricolor.Quantize(resized, r.Opts.Palette)
	if err != nil {
		return nil, err
	}
	black, red := bitplane.Split(q, r.Opts.Palette)
	return &Frame{Black: black, Red: red}, nil
}

func (r *Renderer) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}
