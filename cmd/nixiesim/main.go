// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// nixiesim runs the full display driver against a terminal rendering of
// the shift register chain instead of real hardware. Useful to watch the
// brightness multiplexing and the separator blink before a board exists,
// or to eyeball a new wiring table.
package main

import (
	"context"
	"flag"
	"image/png"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dangrie158/NixieClock/nixie"
	"github.com/dangrie158/NixieClock/pinmap"
	"github.com/dangrie158/NixieClock/sim"
)

func main() {
	variant := flag.String("variant", "IN12", "tube wiring variant")
	tick := flag.Duration("tick", 20*time.Millisecond, "PWM tick period (slowed down so the duty cycle is visible)")
	digits := flag.Uint("digits", nixie.DefaultMaxLevel, "digit brightness level")
	lamps := flag.Uint("lamps", nixie.DefaultMaxLevel, "separator brightness level")
	dots := flag.Uint("dots", 0, "dot lamp mask, one bit per tube")
	imagePath := flag.String("image", "", "write a PNG snapshot of the face to this path and exit")
	flag.Parse()

	pm, err := pinmap.ByName(*variant)
	if err != nil {
		log.Fatal(err)
	}

	if *imagePath != "" {
		if err := snapshot(pm, *imagePath, uint8(*dots)); err != nil {
			log.Fatal(err)
		}
		return
	}

	screen := sim.NewScreen(pm, nil)
	dev, err := nixie.New(screen, &nixie.Opts{Map: pm})
	if err != nil {
		log.Fatal(err)
	}
	dev.SetBrightness(uint8(*digits), uint8(*lamps))
	dev.SetDots(uint8(*dots))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fast := time.NewTicker(*tick)
	defer fast.Stop()
	second := time.NewTicker(time.Second)
	defer second.Stop()

	setNow := func() {
		hour, minute, sec := time.Now().Clock()
		dev.SetTime(hour, minute, sec)
	}
	setNow()

	for {
		select {
		case <-ctx.Done():
			if err := screen.Halt(); err != nil {
				log.Print(err)
			}
			return
		case <-fast.C:
			if err := dev.Tick(); err != nil {
				log.Print(err)
			}
		case <-second.C:
			setNow()
		}
	}
}

// snapshot renders the current time as a clock face picture.
func snapshot(pm *pinmap.Map, path string, dots uint8) error {
	hour, minute, sec := time.Now().Clock()
	img := sim.NewFace(pm).Render(nixie.Encode(pm, hour, minute, sec, dots))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
