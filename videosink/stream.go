// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package videosink

import (
	"log"
	"mime"
	"net/http"
	"net/textproto"
	"time"
)

type client struct {
	refresh   chan struct{}
	terminate chan struct{}
}

func newClient() *client {
	return &client{
		refresh:   make(chan struct{}, 1),
		terminate: make(chan struct{}, 1),
	}
}

func (c *client) wake() {
	select {
	case c.refresh <- struct{}{}:
	default:
	}
}

func (c *client) stop() {
	select {
	case c.terminate <- struct{}{}:
	default:
	}
}

// ServeHTTP handles HTTP GET requests and sends a stream of images
// representing the display buffer in response. The display options control the
// default format and clients can explicitly request PNG or JPEG images using
// the "format" parameter ("?format=png", "?format=jpeg").
func (d *Display) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	format := d.format
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := ParseImageFormat(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}

	pw := newPartWriter(w)
	w.Header().Set("Content-Type", mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{
		"boundary": pw.boundary,
	}))

	c := newClient()
	d.mu.Lock()
	d.clients[c] = struct{}{}
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		delete(d.clients, c)
		d.mu.Unlock()
	}()

	var keepalive <-chan time.Time
	if d.keepalive > 0 {
		t := time.NewTicker(d.keepalive)
		defer t.Stop()
		keepalive = t.C
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Type", format.mimeType())
	header.Set("Content-Transfer-Encoding", "binary")

	for {
		body, err := d.frame(format)
		if err != nil {
			log.Printf("videosink: %v", err)
			return
		}
		// A failed write means the client went away. There is no way to
		// report an error inside an image stream.
		if err := pw.writePart(header, body); err != nil {
			return
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		select {
		case <-c.refresh:
		case <-keepalive:
		case <-c.terminate:
			return
		case <-r.Context().Done():
			return
		}
	}
}
