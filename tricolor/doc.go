// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tricolor reduces images to the black, white and red inks of
// tri-color e-paper panels.
//
// Quantize uses Floyd-Steinberg error diffusion over a fixed Palette. Unlike
// draw.FloydSteinberg the palette order doubles as tie-break priority and the
// arithmetic is integer only, which keeps the output reproducible across
// platforms.
package tricolor
