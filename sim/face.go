// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sim

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/dangrie158/NixieClock/pinmap"
)

const (
	tubeW  = 56
	tubeH  = 96
	gapW   = 10
	sepW   = 24
	margin = 12
)

var (
	faceBg   = color.NRGBA{0x10, 0x10, 0x12, 0xff}
	tubeBg   = color.NRGBA{0x1e, 0x1a, 0x16, 0xff}
	glowDim  = color.NRGBA{0x50, 0x30, 0x10, 0xff}
	glowFull = color.NRGBA{0xff, 0x9a, 0x20, 0xff}
)

// Face draws the clock face for a serial word into an image. It is a pure
// renderer; feed it Dev.Frame for the canonical display or the words from
// a recorded tick sequence to inspect the duty cycle.
type Face struct {
	pm *pinmap.Map
}

// NewFace returns a Face for the given wiring.
func NewFace(pm *pinmap.Map) *Face {
	return &Face{pm: pm}
}

// Render draws word and returns the picture.
func (f *Face) Render(word uint64) image.Image {
	w := 2*margin + pinmap.NumDigits*tubeW + (pinmap.NumDigits-1)*gapW + sepW
	h := 2*margin + tubeH
	dc := gg.NewContext(w, h)
	dc.SetColor(faceBg)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	glyphs := Glyphs(f.pm, word)
	x := float64(margin)
	for pos, g := range glyphs {
		if pos == 2 {
			f.drawSeparator(dc, x, word&f.pm.LampMask != 0)
			x += sepW
		}
		f.drawTube(dc, x, g, word&(1<<f.pm.Dots[pos]) != 0)
		x += tubeW + gapW
	}
	return dc.Image()
}

func (f *Face) drawTube(dc *gg.Context, x float64, glyph int, dot bool) {
	y := float64(margin)
	dc.SetColor(tubeBg)
	dc.DrawRoundedRectangle(x, y, tubeW, tubeH, 10)
	dc.Fill()

	// The stack of dark cathodes behind the lit one.
	dc.SetColor(glowDim)
	dc.DrawStringAnchored("8", x+tubeW/2, y+tubeH/2, 0.5, 0.5)

	if glyph >= 0 {
		dc.SetColor(glowFull)
		dc.DrawStringAnchored(string(rune('0'+glyph)), x+tubeW/2, y+tubeH/2, 0.5, 0.5)
	}
	if dot {
		dc.SetColor(glowFull)
		dc.DrawCircle(x+tubeW-8, y+tubeH-8, 3)
		dc.Fill()
	}
}

func (f *Face) drawSeparator(dc *gg.Context, x float64, lit bool) {
	c := glowDim
	if lit {
		c = color.NRGBA{0x40, 0x80, 0xff, 0xff}
	}
	dc.SetColor(c)
	cx := x + sepW/2
	dc.DrawCircle(cx, margin+tubeH/3, 4)
	dc.Fill()
	dc.DrawCircle(cx, margin+2*tubeH/3, 4)
	dc.Fill()
}
