// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sim renders the serial word of the nixie display without any
// hardware attached.
//
// Screen writes an ANSI colored strip to a terminal, one cell per shift
// register output, and decodes the shown time next to it. Face draws a
// picture of the clock face. Both consume the exact word the register
// chain would receive, so the whole driver including the brightness engine
// can be watched while you are waiting for the high voltage board to come
// by mail.
package sim

import (
	"strings"

	"github.com/dangrie158/NixieClock/pinmap"
)

// Glyphs returns the glyph lit on each tube position in word, or -1 for a
// dark tube. A tube with several cathodes lit reports the lowest glyph;
// that only happens on words the encoder never produces.
func Glyphs(m *pinmap.Map, word uint64) [pinmap.NumDigits]int {
	var out [pinmap.NumDigits]int
	for pos := range out {
		out[pos] = -1
		for glyph, a := range m.Digits[pos] {
			if word&(1<<a) != 0 {
				out[pos] = glyph
				break
			}
		}
	}
	return out
}

// Format decodes word into a "12:34" style string. Dark tubes show as
// spaces and the separator follows the lamp bits.
func Format(m *pinmap.Map, word uint64) string {
	glyphs := Glyphs(m, word)
	var b strings.Builder
	for pos, g := range glyphs {
		if pos == 2 {
			if word&m.LampMask != 0 {
				b.WriteByte(':')
			} else {
				b.WriteByte(' ')
			}
		}
		if g < 0 {
			b.WriteByte(' ')
		} else {
			b.WriteByte('0' + byte(g))
		}
	}
	return b.String()
}
