// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tpic6b595 drives a daisy chain of TPIC6B595 power logic shift
// registers. The chain converts one serial stream into numChips*8 open
// drain high voltage outputs, which is what makes a nixie tube display
// controllable from three GPIO pins.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/tpic6b595.pdf
package tpic6b595

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
)

const (
	devName = "TPIC6B595"

	// BitsPerChip is the number of drain outputs per register.
	BitsPerChip = 8

	// MaxChips is the widest chain a single uint64 word can address.
	MaxChips = 8
)

var (
	ErrChainLength = errors.New(devName + ": chain length must be between 1 and 8 chips")
	ErrMissingPin  = errors.New(devName + ": data, clock and latch pins are all required")
)

// Byte and bit ordering on the wire.
//
// The first byte clocked out travels the farthest and ends up in the
// highest numbered register of the chain, so Write emits the most
// significant chip of the word first, and within each byte the most
// significant bit first. These two orderings pair with the flat bit
// addresses produced by pinmap.P2B: if the board ever changes its shift
// direction, both must change together or every glyph comes out scrambled.
const (
	orderChipMSBFirst = true
	orderBitMSBFirst  = true
)

// Dev represents one chain of TPIC6B595 registers behind a shared storage
// register clock (latch) pin.
//
// The serial side is driven either by bit banging three GPIO pins or by an
// SPI port with the latch on a discrete pin; the two constructors pick the
// path. Write is safe for concurrent use.
type Dev struct {
	mu       sync.Mutex
	numChips int
	latch    gpio.PinOut

	// GPIO path.
	data  gpio.PinOut
	clock gpio.PinOut

	// SPI path.
	conn spi.Conn

	buf []byte
}

// New returns a Dev that bit bangs the chain over three GPIO pins: data
// (SER IN), clock (SRCK) and latch (RCK).
func New(data, clock, latch gpio.PinOut, numChips int) (*Dev, error) {
	if data == nil || clock == nil || latch == nil {
		return nil, ErrMissingPin
	}
	if numChips < 1 || numChips > MaxChips {
		return nil, ErrChainLength
	}
	return &Dev{
		numChips: numChips,
		latch:    latch,
		data:     data,
		clock:    clock,
		buf:      make([]byte, numChips),
	}, nil
}

// NewSPI returns a Dev that shifts the chain through an spi.Conn. The
// registers clock serial data on SCLK/MOSI directly; the latch still needs
// a discrete GPIO pin because the storage clock must pulse after the whole
// word has been shifted, not per byte.
func NewSPI(conn spi.Conn, latch gpio.PinOut, numChips int) (*Dev, error) {
	if conn == nil || latch == nil {
		return nil, ErrMissingPin
	}
	if numChips < 1 || numChips > MaxChips {
		return nil, ErrChainLength
	}
	return &Dev{
		numChips: numChips,
		latch:    latch,
		conn:     conn,
		buf:      make([]byte, numChips),
	}, nil
}

// NumChips returns the length of the chain.
func (d *Dev) NumChips() int {
	return d.numChips
}

// Write shifts the low numChips*8 bits of word onto the chain and latches
// them into the parallel outputs in one go.
//
// The latch is held low while bits move so the tubes never show a half
// shifted word, then raised once to commit the new state atomically. The
// call does not allocate; it is meant to run on every PWM tick.
func (d *Dev) Write(word uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.latch.Out(gpio.Low); err != nil {
		return fmt.Errorf("%s: %w", devName, err)
	}
	for i := 0; i < d.numChips; i++ {
		chip := i
		if orderChipMSBFirst {
			chip = d.numChips - 1 - i
		}
		d.buf[i] = byte(word >> (chip * BitsPerChip))
	}
	if d.conn != nil {
		if err := d.conn.Tx(d.buf, nil); err != nil {
			return fmt.Errorf("%s: %w", devName, err)
		}
	} else {
		for _, b := range d.buf {
			if err := d.shiftOut(b); err != nil {
				return fmt.Errorf("%s: %w", devName, err)
			}
		}
	}
	if err := d.latch.Out(gpio.High); err != nil {
		return fmt.Errorf("%s: %w", devName, err)
	}
	return nil
}

// shiftOut clocks one byte onto the data pin, most significant bit first.
// The register samples SER IN on the rising SRCK edge and tolerates clock
// rates far above what GPIO toggling reaches, so no settle delay is needed
// between edges.
func (d *Dev) shiftOut(b byte) error {
	for i := 0; i < BitsPerChip; i++ {
		bit := i
		if orderBitMSBFirst {
			bit = BitsPerChip - 1 - i
		}
		if err := d.data.Out(gpio.Level(b&(1<<bit) != 0)); err != nil {
			return err
		}
		if err := d.clock.Out(gpio.High); err != nil {
			return err
		}
		if err := d.clock.Out(gpio.Low); err != nil {
			return err
		}
	}
	return nil
}

// Halt clears every output of the chain. With nixie tubes on the drains
// this turns the display off.
func (d *Dev) Halt() error {
	return d.Write(0)
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{%d chips}", devName, d.numChips)
}
