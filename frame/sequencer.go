// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"context"
	"log"
	"time"

	"github.com/GermanBionicSystems/photoframe/bitplane"
)

// Sink shows a pair of planes. The sink owns the planes once called.
type Sink interface {
	ShowPlanes(black, red *bitplane.Plane) error
}

// Sleeper is implemented by sinks that can power down between frames.
type Sleeper interface {
	Sleep() error
}

// Sequencer cycles through pictures on a Sink.
type Sequencer struct {
	// Paths is the ordered list of pictures. When empty, Fallback is shown.
	Paths    []string
	Renderer *Renderer
	Sink     Sink
	// Interval is the time between two frames. Defaults to 30s, negative
	// disables the wait.
	Interval time.Duration
	// Settle is the time given to the panel after a refresh before it is put
	// to sleep. Defaults to 2s, negative disables the wait.
	Settle   time.Duration
	Fallback *Frame
	Logger   *log.Logger
	// Once stops Run after the first frame.
	Once bool

	index   int
	current *Frame
}

// Run shows frames until ctx is cancelled. It returns ctx.Err() on
// cancellation and nil in Once mode.
func (s *Sequencer) Run(ctx context.Context) error {
	interval := s.Interval
	if interval == 0 {
		interval = 30 * time.Second
	}
	for {
		if err := s.Step(ctx); err != nil {
			return err
		}
		if s.Once {
			return nil
		}
		if err := wait(ctx, interval); err != nil {
			return err
		}
	}
}

// Step renders the current picture, shows it and advances to the next one.
//
// A picture that fails to render is logged and skipped; the sink keeps the
// previous frame. Sink errors are logged too, and a Sleeper sink is put to
// sleep whether or not ShowPlanes succeeded. Step only returns an error when
// ctx is cancelled.
func (s *Sequencer) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f := s.next()
	if f == nil {
		return nil
	}
	s.current = f
	if err := s.Sink.ShowPlanes(f.Black, f.Red); err != nil {
		s.logger().Printf("failed to show %s: %v", name(f), err)
	} else {
		s.logger().Printf("showing %s", name(f))
	}

	// The panel is put to sleep even after a failed refresh.
	if sl, ok := s.Sink.(Sleeper); ok {
		settle := s.Settle
		if settle == 0 {
			settle = 2 * time.Second
		}
		if err := wait(ctx, settle); err != nil {
			return err
		}
		if err := sl.Sleep(); err != nil {
			s.logger().Printf("failed to put display to sleep: %v", err)
		}
	}
	return nil
}

// Current returns the last frame handed to the sink.
func (s *Sequencer) Current() *Frame {
	return s.current
}

// next renders the picture at the current index and advances it. It returns
// nil when nothing new should be shown.
func (s *Sequencer) next() *Frame {
	if len(s.Paths) == 0 {
		if s.Fallback == nil {
			s.logger().Printf("no pictures to show")
		}
		return s.Fallback
	}
	path := s.Paths[s.index]
	s.index = (s.index + 1) % len(s.Paths)
	f, err := s.Renderer.Render(path)
	if err != nil {
		s.logger().Printf("skipping %s: %v", path, err)
		return nil
	}
	return f
}

func (s *Sequencer) logger() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}

func name(f *Frame) string {
	if f.Source == "" {
		return "placeholder"
	}
	return f.Source
}

// wait blocks for d or until ctx is done. A negative d does not block.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
