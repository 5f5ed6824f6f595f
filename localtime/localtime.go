// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package localtime keeps the wall clock time the display shows: system
// time disciplined by periodic NTP queries, shifted into the configured
// timezone with offsets from timezonedb.com. Zone info is re-fetched when
// its validity window passes, so DST transitions happen on their own.
package localtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/beevik/ntp"

	"github.com/dangrie158/NixieClock/tzdb"
)

const (
	// DefaultNTPHost matches the pool the original clock firmware used.
	DefaultNTPHost = "pool.ntp.org"

	// DefaultSyncInterval is how often Sync should be driven. A prime-ish
	// interval spreads the load on the public pool.
	DefaultSyncInterval = 63 * time.Second
)

// ZoneProvider is the part of tzdb.Client that Source needs.
type ZoneProvider interface {
	Zone(ctx context.Context, name string) (*tzdb.ZoneInfo, error)
}

// Opts holds the options for New.
type Opts struct {
	// NTPHost is the NTP server or pool to query. Defaults to
	// DefaultNTPHost.
	NTPHost string

	// Query performs one NTP round trip. Defaults to ntp.Query;
	// injectable for tests.
	Query func(host string) (*ntp.Response, error)

	// Now returns the current system time. Defaults to time.Now;
	// injectable for tests.
	Now func() time.Time
}

// Source produces the local time of one timezone.
//
// Sync must be called periodically from the slow path; Now and WallClock
// are cheap and safe to call from anywhere.
type Source struct {
	zones ZoneProvider
	zone  string
	host  string
	query func(host string) (*ntp.Response, error)
	now   func() time.Time

	mu     sync.Mutex
	offset time.Duration // system clock error, from NTP
	info   *tzdb.ZoneInfo
}

// New returns a Source for the named zone, e.g. "Europe/Berlin". No
// network traffic happens until the first Sync.
func New(zones ZoneProvider, zone string, opts *Opts) (*Source, error) {
	if zones == nil {
		return nil, fmt.Errorf("localtime: a zone provider is required")
	}
	if zone == "" {
		return nil, fmt.Errorf("localtime: a zone name is required")
	}
	var o Opts
	if opts != nil {
		o = *opts
	}
	if o.NTPHost == "" {
		o.NTPHost = DefaultNTPHost
	}
	if o.Query == nil {
		o.Query = ntp.Query
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return &Source{
		zones: zones,
		zone:  zone,
		host:  o.NTPHost,
		query: o.Query,
		now:   o.Now,
	}, nil
}

// Sync performs one NTP query and, if the cached zone info has expired or
// was never fetched, one zone lookup. The previous state stays in effect
// when either fails, so a flaky network degrades into clock drift instead
// of a dead display.
func (s *Source) Sync(ctx context.Context) error {
	rsp, err := s.query(s.host)
	if err != nil {
		return fmt.Errorf("localtime: ntp query %s: %w", s.host, err)
	}
	if err := rsp.Validate(); err != nil {
		return fmt.Errorf("localtime: ntp response from %s: %w", s.host, err)
	}

	s.mu.Lock()
	s.offset = rsp.ClockOffset
	utc := s.now().Add(s.offset)
	stale := s.info == nil || !s.info.Valid(utc)
	s.mu.Unlock()

	if !stale {
		return nil
	}
	info, err := s.zones.Zone(ctx, s.zone)
	if err != nil {
		return fmt.Errorf("localtime: %w", err)
	}
	s.mu.Lock()
	s.info = info
	s.mu.Unlock()
	return nil
}

// Now returns the current local time of the zone. Before the first
// successful Sync it falls back to the raw system clock in UTC.
func (s *Source) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.now().Add(s.offset).UTC()
	if s.info != nil {
		t = t.Add(s.info.Offset)
	}
	return t
}

// WallClock returns the hour, minute and second to put on the display.
func (s *Source) WallClock() (hour, minute, second int) {
	return s.Now().Clock()
}
