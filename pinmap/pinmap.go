// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pinmap holds the wiring tables that connect each display element
// of a nixie clock to an output of the TPIC6B595 shift register chain.
//
// The tables differ per tube model because the boards are routed differently
// around each socket, so the package exposes one validated Map per hardware
// variant instead of a single hard coded table.
package pinmap

import (
	"fmt"
	"strings"
)

const (
	// BitsPerChip is the number of parallel outputs per shift register.
	BitsPerChip = 8

	// NumDigits is the number of digit tubes: tens of hour, ones of hour,
	// tens of minute, ones of minute.
	NumDigits = 4

	// NumGlyphs is the number of cathodes per digit tube.
	NumGlyphs = 10

	// NumLamps is the number of separator lamps between the hour and
	// minute tubes.
	NumLamps = 2
)

// BitAddr identifies a single physical output wire as a flat index into the
// serial stream that is shifted through the whole register chain.
type BitAddr uint8

// P2B converts a (chip, pin) pair from a wiring table to the BitAddr of that
// output. Chip numbering starts at 1, matching the schematics the tables are
// transcribed from; pins within a chip are 0 based. The offset by one is a
// convention of the source tables, not an accident.
func P2B(chip, pin int) BitAddr {
	return BitAddr((chip-1)*BitsPerChip + pin)
}

// Map is the full wiring description for one hardware variant together with
// the bitmasks derived from it. A Map is immutable after New returns it.
type Map struct {
	// Name of the hardware variant, e.g. "IN12".
	Name string

	// NumChips is the length of the register chain.
	NumChips int

	// Digits maps [tube position][glyph 0-9] to the wire of that cathode.
	Digits [NumDigits][NumGlyphs]BitAddr

	// Dots maps each tube position to the wire of its decimal point lamp.
	Dots [NumDigits]BitAddr

	// Lamps maps each half of the blinking separator to its wire.
	Lamps [NumLamps]BitAddr

	// Derived masks, disjoint by construction. DigitMask covers every
	// valid bit that is neither a lamp nor a dot, including unused
	// outputs, which stay low as long as the encoder never sets them.
	LampMask  uint64
	DotMask   uint64
	DigitMask uint64
}

// Bits returns the total number of outputs on the chain.
func (m *Map) Bits() int {
	return m.NumChips * BitsPerChip
}

// New validates the wiring table and computes the derived masks. A duplicate
// or out of range bit address means the table was transcribed wrong and the
// display would come up scrambled, so it is reported as an error rather than
// wrapped around.
func New(m Map) (*Map, error) {
	if m.NumChips <= 0 || m.Bits() > 64 {
		return nil, fmt.Errorf("pinmap: %s: unsupported chain length %d", m.Name, m.NumChips)
	}

	var seen [64]bool
	check := func(what string, a BitAddr) error {
		if int(a) >= m.Bits() {
			return fmt.Errorf("pinmap: %s: %s wired to bit %d, chain only has %d outputs", m.Name, what, a, m.Bits())
		}
		if seen[a] {
			return fmt.Errorf("pinmap: %s: %s wired to bit %d which is already in use", m.Name, what, a)
		}
		seen[a] = true
		return nil
	}

	for pos := range m.Digits {
		for glyph, a := range m.Digits[pos] {
			if err := check(fmt.Sprintf("digit %d glyph %d", pos, glyph), a); err != nil {
				return nil, err
			}
		}
	}
	for pos, a := range m.Dots {
		if err := check(fmt.Sprintf("dot %d", pos), a); err != nil {
			return nil, err
		}
	}
	for i, a := range m.Lamps {
		if err := check(fmt.Sprintf("lamp %d", i), a); err != nil {
			return nil, err
		}
	}

	valid := uint64(1)<<m.Bits() - 1
	for _, a := range m.Lamps {
		m.LampMask |= 1 << a
	}
	for _, a := range m.Dots {
		m.DotMask |= 1 << a
	}
	m.DigitMask = ^(m.LampMask | m.DotMask) & valid
	return &m, nil
}

// ByName returns the validated Map for the named hardware variant. The name
// comparison is case insensitive so it can be fed straight from a config
// file.
func ByName(name string) (*Map, error) {
	switch strings.ToUpper(name) {
	case "IN12", "IN-12":
		return IN12()
	case "IN14", "IN-14":
		return IN14()
	}
	return nil, fmt.Errorf("pinmap: unknown tube variant %q (have IN12, IN14)", name)
}

