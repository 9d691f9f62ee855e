// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package planecache stores rendered plane pairs on disk so a picture is only
// decoded and dithered once.
//
// Each entry is a single zstd compressed file named after its key. The
// decompressed payload is a header (magic, width, height) followed by the
// black plane and then the red plane, both in bitplane packing.
package planecache

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/GermanBionicSystems/photoframe/bitplane"
	"github.com/klauspost/compress/zstd"
)

var magic = [4]byte{'P', 'F', 'B', 'R'}

const headerSize = 8

// ErrCorrupt is reported by decode when an entry cannot be read back.
var ErrCorrupt = errors.New("planecache: corrupt entry")

// Cache is a directory of rendered entries.
type Cache struct {
	dir string
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// New returns a Cache rooted at dir, creating it when needed.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("planecache: %w", err)
	}
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		return nil, fmt.Errorf("planecache: %w", err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("planecache: %w", err)
	}
	return &Cache{dir: dir, enc: enc, dec: dec}, nil
}

// Key derives the entry name for the picture at path. Any change to the file
// size, modification time or fingerprint gives a different key.
func Key(path string, info fs.FileInfo, fingerprint string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00%d\x00%s", path, info.Size(), info.ModTime().UnixNano(), fingerprint)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the planes stored under key. A missing or corrupt entry is
// reported as a miss; err is only set when the entry exists but cannot be
// read.
func (c *Cache) Get(key string) (black, red *bitplane.Plane, ok bool, err error) {
	raw, err := os.ReadFile(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("planecache: %w", err)
	}
	black, red, err = c.decode(raw)
	if err != nil {
		return nil, nil, false, nil
	}
	return black, red, true, nil
}

// Put stores the planes under key. Both planes must have the same bounds. The
// entry is written to a temporary file first so readers never see a partial
// entry.
func (c *Cache) Put(key string, black, red *bitplane.Plane) error {
	if black.Bounds() != red.Bounds() {
		return fmt.Errorf("planecache: plane bounds differ: %v != %v", black.Bounds(), red.Bounds())
	}
	sz := black.Bounds().Size()
	if sz.X > 0xffff || sz.Y > 0xffff {
		return fmt.Errorf("planecache: planes too large: %v", sz)
	}

	payload := make([]byte, headerSize, headerSize+len(black.Pix)+len(red.Pix))
	copy(payload, magic[:])
	binary.BigEndian.PutUint16(payload[4:], uint16(sz.X))
	binary.BigEndian.PutUint16(payload[6:], uint16(sz.Y))
	payload = append(payload, black.Pix...)
	payload = append(payload, red.Pix...)

	f, err := os.CreateTemp(c.dir, key+".tmp*")
	if err != nil {
		return fmt.Errorf("planecache: %w", err)
	}
	if _, err := f.Write(c.enc.EncodeAll(payload, nil)); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("planecache: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("planecache: %w", err)
	}
	if err := os.Rename(f.Name(), c.path(key)); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("planecache: %w", err)
	}
	return nil
}

// Close releases the compressor state.
func (c *Cache) Close() error {
	c.dec.Close()
	return c.enc.Close()
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".zst")
}

func (c *Cache) decode(raw []byte) (black, red *bitplane.Plane, err error) {
	payload, err := c.dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(payload) < headerSize || !bytes.Equal(payload[:4], magic[:]) {
		return nil, nil, ErrCorrupt
	}
	w := int(binary.BigEndian.Uint16(payload[4:]))
	h := int(binary.BigEndian.Uint16(payload[6:]))
	r := image.Rect(0, 0, w, h)
	black, red = bitplane.New(r), bitplane.New(r)
	body := payload[headerSize:]
	if len(body) != len(black.Pix)+len(red.Pix) {
		return nil, nil, ErrCorrupt
	}
	n := copy(black.Pix, body)
	copy(red.Pix, body[n:])
	return black, red, nil
}
