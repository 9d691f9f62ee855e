// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package videosink

import "fmt"

// ImageFormat is the encoding of the frames sent to clients. It can be used
// as a command line flag.
type ImageFormat int

const (
	PNG ImageFormat = iota
	JPEG

	// DefaultFormat is used when neither the options nor the "format" URL
	// parameter select one.
	DefaultFormat = PNG
)

func (f ImageFormat) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	}
	return fmt.Sprintf("ImageFormat(%d)", int(f))
}

// Set parses a format name, see ParseImageFormat.
func (f *ImageFormat) Set(s string) error {
	v, err := ParseImageFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Type returns the flag type name.
func (f *ImageFormat) Type() string {
	return "format"
}

func (f ImageFormat) mimeType() string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	}
	return "application/octet-stream"
}

// ParseImageFormat returns the format abbreviated as "png", "jpg" or "jpeg".
func ParseImageFormat(s string) (ImageFormat, error) {
	switch s {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return DefaultFormat, fmt.Errorf("videosink: unrecognized image format %q", s)
}
