// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epd2in7b controls the Waveshare 2.7 inch (B) tri-color e-paper
// display, driven by an IL91874 controller.
//
// The panel shows black, white and red. It is fed two 1-bit planes: one for
// black ink and one for red ink, see package bitplane.
//
// Datasheet:
// https://www.waveshare.com/w/upload/d/d8/2.7inch-e-paper-b-specification.pdf
//
// Product page:
// https://www.waveshare.com/wiki/2.7inch_e-Paper_HAT_(B)
package epd2in7b
