// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package videosink

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"sync"
)

// encoderBuffers lets a png.Encoder reuse its compression state.
type encoderBuffers struct {
	pool sync.Pool
}

func (b *encoderBuffers) Get() *png.EncoderBuffer {
	buf, _ := b.pool.Get().(*png.EncoderBuffer)
	return buf
}

func (b *encoderBuffers) Put(buf *png.EncoderBuffer) {
	b.pool.Put(buf)
}

// frame returns the buffer encoded as f. The result is shared and must not be
// modified.
func (d *Display) frame(f ImageFormat) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if b, ok := d.encoded[f]; ok {
		return b, nil
	}

	var buf bytes.Buffer
	var err error
	switch f {
	case PNG:
		err = d.png.Encode(&buf, d.buffer)
	case JPEG:
		err = jpeg.Encode(&buf, d.buffer, &d.jpeg)
	default:
		err = fmt.Errorf("videosink: unhandled image format %s", f)
	}
	if err != nil {
		return nil, err
	}
	d.encoded[f] = buf.Bytes()
	return buf.Bytes(), nil
}
