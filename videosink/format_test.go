// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package videosink

import (
	"testing"
)

func TestImageFormat(t *testing.T) {
	for _, tc := range []struct {
		format       ImageFormat
		wantString   string
		wantMimeType string
	}{
		{ImageFormat(-1), "ImageFormat(-1)", "application/octet-stream"},
		{DefaultFormat, "png", "image/png"},
		{PNG, "png", "image/png"},
		{JPEG, "jpeg", "image/jpeg"},
	} {
		if got := tc.format.String(); got != tc.wantString {
			t.Errorf("String() = %q, want %q", got, tc.wantString)
		}
		if got := tc.format.mimeType(); got != tc.wantMimeType {
			t.Errorf("%s: mimeType() = %q, want %q", tc.wantString, got, tc.wantMimeType)
		}
	}
}

func TestImageFormatSet(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    ImageFormat
		wantErr bool
	}{
		{in: "png", want: PNG},
		{in: "jpg", want: JPEG},
		{in: "jpeg", want: JPEG},
		{in: "bmp", want: JPEG, wantErr: true},
		{in: "", want: JPEG, wantErr: true},
	} {
		f := JPEG
		err := f.Set(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Set(%q) error = %v, wantErr %t", tc.in, err, tc.wantErr)
		}
		if f != tc.want {
			t.Errorf("Set(%q) = %v, want %v", tc.in, f, tc.want)
		}
	}
}
