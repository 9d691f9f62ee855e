// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package photoframe is a container for the packages of a tri-color e-paper
// photo frame.
//
// Pictures are resized by picture, dithered to black, white and red by
// tricolor, split into bit planes by bitplane and shown in turn by frame on
// the epd2in7b panel. screen2d and videosink preview the same frames in a
// terminal or a browser. See cmd/photoframe for the command line tool.
package photoframe
