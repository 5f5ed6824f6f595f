// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// nixieclock runs a four digit nixie tube clock on a chain of TPIC6B595
// shift registers. Time comes from NTP, the timezone offset from
// timezonedb.com, and per group brightness is multiplexed in software by
// the nixie package.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/dangrie158/NixieClock/localtime"
	"github.com/dangrie158/NixieClock/nixie"
	"github.com/dangrie158/NixieClock/pinmap"
	"github.com/dangrie158/NixieClock/tpic6b595"
	"github.com/dangrie158/NixieClock/tzdb"
)

func main() {
	configPath := flag.String("config", "/etc/nixieclock.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	pm, err := pinmap.ByName(cfg.Variant)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	chain, err := openChain(cfg, pm)
	if err != nil {
		log.Fatal(err)
	}
	dev, err := nixie.New(chain, &nixie.Opts{Map: pm, MaxLevel: cfg.MaxLevel})
	if err != nil {
		log.Fatal(err)
	}

	zones, err := tzdb.New(cfg.Timezone.APIKey, nil)
	if err != nil {
		log.Fatal(err)
	}
	src, err := localtime.New(zones, cfg.Timezone.Zone, &localtime.Opts{NTPHost: cfg.NTP.Host})
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Get a first fix before the tubes light up; keep running on the
	// system clock if the network is not up yet, the sync ticker will
	// catch up.
	if err := src.Sync(ctx); err != nil {
		log.Printf("initial time sync failed, starting on system time: %v", err)
	}

	log.Printf("driving %s through %s every %v", dev, chain, time.Duration(cfg.Tick))
	run(ctx, dev, src, cfg)

	if err := dev.Halt(); err != nil {
		log.Printf("blanking display: %v", err)
	}
}

// run is the two rate loop: the fast ticker emits one PWM step, the slow
// one refreshes the displayed time and brightness schedule, and the sync
// ticker re-disciplines the clock in the background so a slow network
// round trip never stalls the PWM.
func run(ctx context.Context, dev *nixie.Dev, src *localtime.Source, cfg *config) {
	sched := cfg.schedule()

	refresh := func() {
		hour, minute, second := src.WallClock()
		dev.SetTime(hour, minute, second)
		l := sched.LevelsAt(hour)
		dev.SetBrightness(l.Digits, l.Lamps)
	}
	refresh()

	tick := time.NewTicker(time.Duration(cfg.Tick))
	defer tick.Stop()
	second := time.NewTicker(time.Second)
	defer second.Stop()
	sync := time.NewTicker(time.Duration(cfg.NTP.Interval))
	defer sync.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if err := dev.Tick(); err != nil {
				log.Printf("tick: %v", err)
			}
		case <-second.C:
			refresh()
		case <-sync.C:
			go func() {
				if err := src.Sync(ctx); err != nil {
					log.Printf("time sync: %v", err)
				}
			}()
		}
	}
}

// openChain builds the register chain from the configured pins, over SPI
// when a port is configured and by bit banging otherwise.
func openChain(cfg *config, pm *pinmap.Map) (*tpic6b595.Dev, error) {
	latch := gpioreg.ByName(cfg.Pins.Latch)
	if latch == nil {
		return nil, fmt.Errorf("unknown latch pin %q", cfg.Pins.Latch)
	}

	if cfg.SPIPort != "" {
		port, err := spireg.Open(cfg.SPIPort)
		if err != nil {
			return nil, err
		}
		conn, err := port.Connect(4*physic.MegaHertz, spi.Mode0, 8)
		if err != nil {
			return nil, err
		}
		return tpic6b595.NewSPI(conn, latch, pm.NumChips)
	}

	data := gpioreg.ByName(cfg.Pins.Data)
	if data == nil {
		return nil, fmt.Errorf("unknown data pin %q", cfg.Pins.Data)
	}
	clock := gpioreg.ByName(cfg.Pins.Clock)
	if clock == nil {
		return nil, fmt.Errorf("unknown clock pin %q", cfg.Pins.Clock)
	}
	return tpic6b595.New(data, clock, latch, pm.NumChips)
}
