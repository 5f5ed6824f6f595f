// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nixieclock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
variant: IN14
tick: 500us
maxLevel: 40
pins:
  data: GPIO0
  clock: GPIO4
  latch: GPIO5
brightness:
  day: {digits: 40, lamps: 40}
  night: {digits: 8, lamps: 0}
  nightStart: 22
  nightEnd: 7
timezone:
  zone: Europe/Berlin
  apiKey: secret
ntp:
  host: de.pool.ntp.org
  interval: 63s
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "IN14", cfg.Variant)
	assert.Equal(t, 500*time.Microsecond, time.Duration(cfg.Tick))
	assert.Equal(t, uint8(40), cfg.MaxLevel)
	assert.Equal(t, "GPIO5", cfg.Pins.Latch)
	assert.Equal(t, "de.pool.ntp.org", cfg.NTP.Host)
	assert.Equal(t, 63*time.Second, time.Duration(cfg.NTP.Interval))

	sched := cfg.schedule()
	assert.Equal(t, uint8(8), sched.LevelsAt(23).Digits)
	assert.Equal(t, uint8(40), sched.LevelsAt(12).Digits)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
pins:
  data: GPIO0
  clock: GPIO4
  latch: GPIO5
timezone:
  zone: Europe/Berlin
  apiKey: secret
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "IN12", cfg.Variant)
	assert.Equal(t, time.Millisecond, time.Duration(cfg.Tick))
	assert.Equal(t, uint8(50), cfg.MaxLevel)
	assert.Equal(t, "pool.ntp.org", cfg.NTP.Host)
	assert.Equal(t, levels{Digits: 50, Lamps: 50}, cfg.Brightness.Day)
}

func TestLoadConfigSPIPortReplacesDataClock(t *testing.T) {
	path := writeConfig(t, `
spiPort: /dev/spidev0.0
pins:
  latch: GPIO5
timezone:
  zone: Europe/Berlin
  apiKey: secret
`)
	_, err := loadConfig(path)
	assert.NoError(t, err)
}

func TestLoadConfigRejects(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing latch",
			body: "timezone: {zone: Europe/Berlin, apiKey: k}\npins: {data: GPIO0, clock: GPIO4}\n",
			want: "pins.latch is required",
		},
		{
			name: "missing serial pins",
			body: "timezone: {zone: Europe/Berlin, apiKey: k}\npins: {latch: GPIO5}\n",
			want: "spiPort or pins.data",
		},
		{
			name: "missing zone",
			body: "timezone: {apiKey: k}\npins: {data: GPIO0, clock: GPIO4, latch: GPIO5}\n",
			want: "timezone.zone is required",
		},
		{
			name: "missing api key",
			body: "timezone: {zone: Europe/Berlin}\npins: {data: GPIO0, clock: GPIO4, latch: GPIO5}\n",
			want: "timezone.apiKey is required",
		},
		{
			name: "bad night window",
			body: "timezone: {zone: Europe/Berlin, apiKey: k}\npins: {data: GPIO0, clock: GPIO4, latch: GPIO5}\nbrightness: {nightStart: 24}\n",
			want: "nightStart",
		},
		{
			name: "maxLevel overflows the duty counter",
			body: "maxLevel: 255\ntimezone: {zone: Europe/Berlin, apiKey: k}\npins: {data: GPIO0, clock: GPIO4, latch: GPIO5}\n",
			want: "maxLevel 255 above the limit",
		},
		{
			name: "bad tick",
			body: "tick: soon\ntimezone: {zone: Europe/Berlin, apiKey: k}\npins: {data: GPIO0, clock: GPIO4, latch: GPIO5}\n",
			want: "parsing config",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
