// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dangrie158/NixieClock/localtime"
	"github.com/dangrie158/NixieClock/nixie"
)

// config is the startup configuration of the clock. Everything in here is
// fixed for the lifetime of the process.
type config struct {
	// Variant selects the tube wiring table, e.g. "IN12".
	Variant string `yaml:"variant"`

	// Tick is the PWM tick period. Shorter means finer dimming.
	Tick duration `yaml:"tick"`

	// MaxLevel is the number of brightness steps minus one.
	MaxLevel uint8 `yaml:"maxLevel"`

	Pins struct {
		Data  string `yaml:"data"`
		Clock string `yaml:"clock"`
		Latch string `yaml:"latch"`
	} `yaml:"pins"`

	// SPIPort, when set, shifts data through this SPI port instead of bit
	// banging the data and clock pins. The latch pin is still required.
	SPIPort string `yaml:"spiPort"`

	Brightness struct {
		Day        levels `yaml:"day"`
		Night      levels `yaml:"night"`
		NightStart int    `yaml:"nightStart"`
		NightEnd   int    `yaml:"nightEnd"`
	} `yaml:"brightness"`

	Timezone struct {
		Zone   string `yaml:"zone"`
		APIKey string `yaml:"apiKey"`
	} `yaml:"timezone"`

	NTP struct {
		Host     string   `yaml:"host"`
		Interval duration `yaml:"interval"`
	} `yaml:"ntp"`
}

type levels struct {
	Digits uint8 `yaml:"digits"`
	Lamps  uint8 `yaml:"lamps"`
}

// duration lets YAML carry human readable periods like "500µs" or "63s".
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// schedule converts the brightness section into the driver's policy type.
func (c *config) schedule() nixie.Schedule {
	return nixie.Schedule{
		Day:        nixie.Levels{Digits: c.Brightness.Day.Digits, Lamps: c.Brightness.Day.Lamps},
		Night:      nixie.Levels{Digits: c.Brightness.Night.Digits, Lamps: c.Brightness.Night.Lamps},
		NightStart: c.Brightness.NightStart,
		NightEnd:   c.Brightness.NightEnd,
	}
}

// loadConfig reads, defaults and validates the YAML config at path.
func loadConfig(path string) (*config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := &config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Variant == "" {
		cfg.Variant = "IN12"
	}
	if cfg.Tick == 0 {
		cfg.Tick = duration(time.Millisecond)
	}
	if cfg.MaxLevel == 0 {
		cfg.MaxLevel = nixie.DefaultMaxLevel
	}
	if cfg.MaxLevel > nixie.MaxMaxLevel {
		return nil, fmt.Errorf("config %s: maxLevel %d above the limit of %d", path, cfg.MaxLevel, nixie.MaxMaxLevel)
	}
	if cfg.Brightness.Day == (levels{}) {
		cfg.Brightness.Day = levels{Digits: cfg.MaxLevel, Lamps: cfg.MaxLevel}
	}
	if cfg.NTP.Host == "" {
		cfg.NTP.Host = localtime.DefaultNTPHost
	}
	if cfg.NTP.Interval == 0 {
		cfg.NTP.Interval = duration(localtime.DefaultSyncInterval)
	}

	if cfg.Pins.Latch == "" {
		return nil, fmt.Errorf("config %s: pins.latch is required", path)
	}
	if cfg.SPIPort == "" && (cfg.Pins.Data == "" || cfg.Pins.Clock == "") {
		return nil, fmt.Errorf("config %s: either spiPort or pins.data and pins.clock are required", path)
	}
	if cfg.Timezone.Zone == "" {
		return nil, fmt.Errorf("config %s: timezone.zone is required", path)
	}
	if cfg.Timezone.APIKey == "" {
		return nil, fmt.Errorf("config %s: timezone.apiKey is required", path)
	}
	if bad := cfg.Brightness.NightStart; bad < 0 || bad > 23 {
		return nil, fmt.Errorf("config %s: brightness.nightStart %d outside 0..23", path, bad)
	}
	if bad := cfg.Brightness.NightEnd; bad < 0 || bad > 23 {
		return nil, fmt.Errorf("config %s: brightness.nightEnd %d outside 0..23", path, bad)
	}
	return cfg, nil
}
