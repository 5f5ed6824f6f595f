// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package nixie turns a wall clock time into the serial word for a nixie
// tube display and fakes per group brightness on top of it.
//
// The shift register chain only knows on and off, so brightness is time
// multiplexed: a fast tick decides on every call whether the digit tubes
// and the separator lamps get blanked for that tick, yielding two
// independent duty cycles over one shared output word. Ticking fast enough,
// several hundred hertz or more, the blanking disappears into perceived
// dimming.
package nixie

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dangrie158/NixieClock/pinmap"
)

// DefaultMaxLevel is the default number of brightness steps. 50 steps at a
// 1 kHz tick keeps the full PWM period just under 20 Hz worth of flicker
// headroom per step while still dimming smoothly.
const DefaultMaxLevel = 50

// MaxMaxLevel is the highest usable MaxLevel. The duty counters cycle
// through MaxLevel+1 states, which must itself fit in their 8 bit range.
const MaxMaxLevel = 254

var (
	ErrNoChain  = errors.New("nixie: an output chain is required")
	ErrNoPinMap = errors.New("nixie: a pin map is required")
	ErrMaxLevel = errors.New("nixie: MaxLevel must be at most 254")
)

// Chain is the serial sink for encoded display words. tpic6b595.Dev drives
// real hardware; sim.Screen renders to a terminal or image instead.
type Chain interface {
	Write(word uint64) error
}

// Opts holds the options for New.
type Opts struct {
	// Map is the wiring of the attached tube board. Required.
	Map *pinmap.Map

	// MaxLevel is the top brightness level and the PWM period minus one,
	// at most MaxMaxLevel. Defaults to DefaultMaxLevel.
	MaxLevel uint8
}

// Dev is the display driver for one nixie clock face: four digit tubes,
// one dot lamp per tube and a pair of separator lamps.
//
// Two call rates share a Dev. SetTime, SetDots and SetBrightness run on the
// slow path, around once per second, and refresh the canonical frame. Tick
// runs on the fast path, once per scheduler tick, and pushes a brightness
// masked copy of the canonical frame down the chain. All methods are safe
// for concurrent use.
type Dev struct {
	chain    Chain
	pm       *pinmap.Map
	maxLevel uint8

	mu sync.Mutex
	// Canonical frame plus the inputs it was encoded from.
	frame                uint64
	hour, minute, second int
	dots                 uint8
	// Requested brightness per element group.
	digitLevel, lampLevel uint8
	// Free running duty counters, owned by Tick.
	digitCounter, lampCounter uint8
}

// New returns a Dev writing to chain. The display starts blank at full
// brightness.
func New(chain Chain, opts *Opts) (*Dev, error) {
	if chain == nil {
		return nil, ErrNoChain
	}
	if opts == nil || opts.Map == nil {
		return nil, ErrNoPinMap
	}
	if opts.MaxLevel > MaxMaxLevel {
		return nil, ErrMaxLevel
	}
	maxLevel := opts.MaxLevel
	if maxLevel == 0 {
		maxLevel = DefaultMaxLevel
	}
	return &Dev{
		chain:      chain,
		pm:         opts.Map,
		maxLevel:   maxLevel,
		digitLevel: maxLevel,
		lampLevel:  maxLevel,
	}, nil
}

// Encode builds the raw output word for one display state: one cathode per
// digit tube, the dot lamp of every tube whose bit is set in dots, and both
// separator lamps on odd seconds, which blinks the separator at 1 Hz with a
// 50% duty cycle straight from the seconds value.
//
// Callers are expected to pass hour in 0..23, minute and second in 0..59.
// Out of range values wrap per digit; they never bleed into other elements.
func Encode(m *pinmap.Map, hour, minute, second int, dots uint8) uint64 {
	var w uint64
	w |= 1 << m.Digits[0][hour/10%pinmap.NumGlyphs]
	w |= 1 << m.Digits[1][hour%pinmap.NumGlyphs]
	w |= 1 << m.Digits[2][minute/10%pinmap.NumGlyphs]
	w |= 1 << m.Digits[3][minute%pinmap.NumGlyphs]
	for pos := 0; pos < pinmap.NumDigits; pos++ {
		if dots&(1<<pos) != 0 {
			w |= 1 << m.Dots[pos]
		}
	}
	if second%2 != 0 {
		w |= 1<<m.Lamps[0] | 1<<m.Lamps[1]
	}
	return w
}

// SetTime re-encodes the canonical frame for the given wall clock time.
func (d *Dev) SetTime(hour, minute, second int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hour, d.minute, d.second = hour, minute, second
	d.frame = Encode(d.pm, hour, minute, second, d.dots)
}

// SetDots turns individual tube dot lamps on or off; bit p of mask is the
// dot of tube position p. Used to animate things like a pairing passcode.
func (d *Dev) SetDots(mask uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dots = mask
	d.frame = Encode(d.pm, d.hour, d.minute, d.second, d.dots)
}

// SetBrightness sets the duty cycle levels for the digit tubes and the
// separator lamps, each in 0..MaxLevel and clamped to it. The dot lamps
// follow the digit level: they sit in the digit group of the duty cycle,
// there is no third channel for them.
func (d *Dev) SetBrightness(digits, lamps uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.digitLevel = min(digits, d.maxLevel)
	d.lampLevel = min(lamps, d.maxLevel)
}

// Brightness returns the current digit and lamp levels.
func (d *Dev) Brightness() (digits, lamps uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.digitLevel, d.lampLevel
}

// Frame returns the canonical, unmasked output word.
func (d *Dev) Frame() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// MaxLevel returns the top brightness level.
func (d *Dev) MaxLevel() uint8 {
	return d.maxLevel
}

// Tick emits one PWM step: it takes a working copy of the canonical frame,
// blanks the digit group if the digit counter has passed the digit level,
// independently blanks the lamps the same way, and writes the result to the
// chain. The canonical frame is never modified.
//
// Both counters advance modulo MaxLevel+1 on every call no matter what was
// blanked, so a level change mid cycle only moves the duty edge instead of
// restarting the phase. Over MaxLevel+1 consecutive calls at a constant
// level L the group is lit on exactly L of them.
//
// Tick does not allocate and runs in constant time; it is meant to be
// called from a tight loop at the highest rate the platform can sustain.
func (d *Dev) Tick() error {
	d.mu.Lock()
	word := d.frame
	if d.digitCounter >= d.digitLevel {
		word &^= d.pm.DigitMask | d.pm.DotMask
	}
	if d.lampCounter >= d.lampLevel {
		word &^= d.pm.LampMask
	}
	d.digitCounter = (d.digitCounter + 1) % (d.maxLevel + 1)
	d.lampCounter = (d.lampCounter + 1) % (d.maxLevel + 1)
	d.mu.Unlock()
	return d.chain.Write(word)
}

// Halt blanks the display.
func (d *Dev) Halt() error {
	d.mu.Lock()
	d.frame = 0
	d.mu.Unlock()
	return d.chain.Write(0)
}

func (d *Dev) String() string {
	return fmt.Sprintf("nixie.Dev{%s, %d levels}", d.pm.Name, d.maxLevel+1)
}
