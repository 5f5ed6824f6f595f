// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sim

import (
	"bytes"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"github.com/dangrie158/NixieClock/pinmap"
)

// Colors of the three element classes when lit. Neon glows orange, the
// separator LEDs on the board are blue.
var (
	litDigit = color.NRGBA{0xff, 0x8c, 0x00, 0xff}
	litLamp  = color.NRGBA{0x40, 0x80, 0xff, 0xff}
	offCell  = color.NRGBA{0x28, 0x28, 0x28, 0xff}
)

// ScreenOpts represents the options for NewScreen.
type ScreenOpts struct {
	// Writer receives the ANSI output. Defaults to a colorable stdout.
	Writer io.Writer

	// Palette picks how colors map to terminal codes. Defaults to
	// ansi256.Default.
	Palette *ansi256.Palette
}

// Screen is a terminal emulation of the register chain. It implements the
// same Write contract as tpic6b595.Dev so it can be handed to nixie.New in
// its place.
type Screen struct {
	w       io.Writer
	pm      *pinmap.Map
	palette ansi256.Palette

	buf bytes.Buffer
}

// NewScreen returns a Screen for the given wiring.
func NewScreen(pm *pinmap.Map, opts *ScreenOpts) *Screen {
	var o ScreenOpts
	if opts != nil {
		o = *opts
	}
	if o.Writer == nil {
		o.Writer = colorable.NewColorableStdout()
	}
	p := o.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Screen{w: o.Writer, pm: pm, palette: *p}
}

// Write renders one serial word as a line of colored cells, one per output
// wire grouped by chip, followed by the decoded time. The line overwrites
// itself with a carriage return so the fast tick path animates in place.
func (s *Screen) Write(word uint64) error {
	// Reuse one buffer to keep the per tick allocation at zero, the same
	// trick the real chain driver plays.
	s.buf.Reset()
	s.buf.WriteString("\r\033[0m")
	for bit := s.pm.Bits() - 1; bit >= 0; bit-- {
		c := offCell
		if word&(1<<bit) != 0 {
			switch {
			case s.pm.LampMask&(1<<bit) != 0:
				c = litLamp
			default:
				c = litDigit
			}
		}
		s.buf.WriteString(s.palette.Block(c))
		if bit%pinmap.BitsPerChip == 0 && bit != 0 {
			s.buf.WriteByte(' ')
		}
	}
	s.buf.WriteString("\033[0m  ")
	s.buf.WriteString(Format(s.pm, word))
	_, err := s.buf.WriteTo(s.w)
	return err
}

// Halt ends the in place line so the shell prompt comes back clean.
func (s *Screen) Halt() error {
	_, err := s.w.Write([]byte("\n\033[0m"))
	return err
}

func (s *Screen) String() string {
	return "sim.Screen{" + s.pm.Name + "}"
}
