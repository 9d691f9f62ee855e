// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package videosink

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/textproto"
	"sort"
	"strconv"
)

// randomBoundary returns a MIME multipart boundary within the 70 characters
// allowed by RFC 2046 section 5.1.1.
func randomBoundary() string {
	var buf [32]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf[:])
}

// partWriter writes a never ending multipart stream. mime/multipart.Writer
// only emits a part's closing boundary when the next part starts, which
// leaves the last frame pending in the client.
type partWriter struct {
	w        io.Writer
	boundary string
	started  bool
}

func newPartWriter(w io.Writer) *partWriter {
	return &partWriter{w: w, boundary: randomBoundary()}
}

// writePart writes the headers and body of a single part followed by its
// closing boundary. Content-Length is set in header.
func (p *partWriter) writePart(header textproto.MIMEHeader, body []byte) error {
	header.Set("Content-Length", strconv.Itoa(len(body)))

	var head bytes.Buffer
	if !p.started {
		fmt.Fprintf(&head, "--%s\r\n", p.boundary)
		p.started = true
	}
	keys := make([]string, 0, len(header))
	for k := range header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range header[k] {
			fmt.Fprintf(&head, "%s: %s\r\n", k, v)
		}
	}
	head.WriteString("\r\n")

	if _, err := head.WriteTo(p.w); err != nil {
		return err
	}
	if _, err := p.w.Write(body); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.w, "\r\n--%s\r\n", p.boundary)
	return err
}
