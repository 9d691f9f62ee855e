// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tricolor

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Ink is one of the colors a tri-color panel can show.
type Ink uint8

// Valid Ink.
const (
	Black Ink = iota
	White
	Red
)

func (i Ink) String() string {
	switch i {
	case Black:
		return "black"
	case White:
		return "white"
	case Red:
		return "red"
	default:
		return fmt.Sprintf("Ink(%d)", uint8(i))
	}
}

// Set sets the Ink to a value represented by the string s. Set implements the
// flag.Value interface.
func (i *Ink) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black":
		*i = Black
	case "white":
		*i = White
	case "red":
		*i = Red
	default:
		return fmt.Errorf("unknown ink %q: expected either black, white or red", s)
	}
	return nil
}

// nominal returns the color an ink is matched against unless overridden.
func (i Ink) nominal() color.NRGBA {
	switch i {
	case Black:
		return color.NRGBA{0, 0, 0, 255}
	case Red:
		return color.NRGBA{255, 0, 0, 255}
	default:
		return color.NRGBA{255, 255, 255, 255}
	}
}

// Entry binds an ink to the RGB value source pixels are compared with.
type Entry struct {
	Ink   Ink
	Color color.NRGBA
}

// Palette is an ordered set of entries. Order is the priority used to break
// ties between equidistant entries, earliest first.
type Palette []Entry

// DefaultPalette matches pure black, white and red, in that priority.
var DefaultPalette = Palette{
	{Ink: Black, Color: Black.nominal()},
	{Ink: White, Color: White.nominal()},
	{Ink: Red, Color: Red.nominal()},
}

var (
	// ErrEmptyPalette is returned when a palette has no entries.
	ErrEmptyPalette = errors.New("tricolor: palette is empty")
	// ErrPaletteTooLarge is returned when a palette has more than one entry per
	// ink.
	ErrPaletteTooLarge = errors.New("tricolor: palette has more than three entries")
)

// ParsePalette parses a comma separated list of inks in priority order. Each
// item is either an ink name ("red") or an ink name with an explicit RGB
// value ("red=#c83232").
func ParsePalette(s string) (Palette, error) {
	var p Palette
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, value, hasValue := strings.Cut(item, "=")

		var e Entry
		if err := e.Ink.Set(name); err != nil {
			return nil, err
		}
		e.Color = e.Ink.nominal()

		if hasValue {
			c, err := parseHex(value)
			if err != nil {
				return nil, fmt.Errorf("ink %s: %w", e.Ink, err)
			}
			e.Color = c
		}

		p = append(p, e)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseHex(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: expected #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Validate reports whether the palette can be used for quantization.
func (p Palette) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPalette
	}
	if len(p) > 3 {
		return ErrPaletteTooLarge
	}
	var seen [3]bool
	for _, e := range p {
		if e.Ink > Red {
			return fmt.Errorf("tricolor: unknown ink %v", e.Ink)
		}
		if seen[e.Ink] {
			return fmt.Errorf("tricolor: duplicate ink %v", e.Ink)
		}
		seen[e.Ink] = true
	}
	return nil
}

// String returns the palette in the format accepted by ParsePalette. Entries
// using their nominal color are written as the bare ink name.
func (p Palette) String() string {
	items := make([]string, 0, len(p))
	for _, e := range p {
		if e.Color == e.Ink.nominal() {
			items = append(items, e.Ink.String())
			continue
		}
		items = append(items, fmt.Sprintf("%s=#%02x%02x%02x", e.Ink, e.Color.R, e.Color.G, e.Color.B))
	}
	return strings.Join(items, ",")
}

// Set implements the flag.Value interface.
func (p *Palette) Set(s string) error {
	v, err := ParsePalette(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Type implements the pflag.Value interface.
func (p *Palette) Type() string {
	return "palette"
}

// Colors returns the palette as a color.Palette, index for index.
func (p Palette) Colors() color.Palette {
	c := make(color.Palette, len(p))
	for i, e := range p {
		c[i] = e.Color
	}
	return c
}

// Index returns the position of ink in the palette, or -1.
func (p Palette) Index(ink Ink) int {
	for i, e := range p {
		if e.Ink == ink {
			return i
		}
	}
	return -1
}

// rgb16 returns the entries as 16-bit per channel values.
func (p Palette) rgb16() [][3]int32 {
	out := make([][3]int32, len(p))
	for i, e := range p {
		out[i] = [3]int32{
			int32(e.Color.R) * 0x101,
			int32(e.Color.G) * 0x101,
			int32(e.Color.B) * 0x101,
		}
	}
	return out
}
