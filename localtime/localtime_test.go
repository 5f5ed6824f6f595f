// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package localtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beevik/ntp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangrie158/NixieClock/tzdb"
)

// fakeZones serves canned zone infos and counts lookups.
type fakeZones struct {
	infos []*tzdb.ZoneInfo
	calls int
	err   error
}

func (f *fakeZones) Zone(ctx context.Context, name string) (*tzdb.ZoneInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	info := f.infos[0]
	if len(f.infos) > 1 {
		f.infos = f.infos[1:]
	}
	return info, nil
}

func fixedQuery(offset time.Duration) func(string) (*ntp.Response, error) {
	return func(string) (*ntp.Response, error) {
		return &ntp.Response{Stratum: 1, ClockOffset: offset}, nil
	}
}

func TestWallClock(t *testing.T) {
	sysNow := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	zones := &fakeZones{infos: []*tzdb.ZoneInfo{{
		Offset:     2 * time.Hour,
		ValidUntil: sysNow.Add(24 * time.Hour),
	}}}

	src, err := New(zones, "Europe/Berlin", &Opts{
		Query: fixedQuery(90 * time.Second),
		Now:   func() time.Time { return sysNow },
	})
	require.NoError(t, err)
	require.NoError(t, src.Sync(context.Background()))

	hour, minute, second := src.WallClock()
	assert.Equal(t, 12, hour)
	assert.Equal(t, 1, minute)
	assert.Equal(t, 30, second)
}

func TestZoneCachedWhileValid(t *testing.T) {
	sysNow := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	zones := &fakeZones{infos: []*tzdb.ZoneInfo{{
		Offset:     time.Hour,
		ValidUntil: sysNow.Add(time.Hour),
	}}}

	src, err := New(zones, "Europe/Berlin", &Opts{
		Query: fixedQuery(0),
		Now:   func() time.Time { return sysNow },
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, src.Sync(context.Background()))
	}
	assert.Equal(t, 1, zones.calls, "zone info should be fetched once while valid")
}

func TestZoneRefetchedWhenExpired(t *testing.T) {
	sysNow := time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)
	zones := &fakeZones{infos: []*tzdb.ZoneInfo{
		{Offset: 2 * time.Hour, ValidUntil: sysNow.Add(time.Minute)},
		{Offset: 1 * time.Hour, ValidUntil: sysNow.Add(150 * 24 * time.Hour)},
	}}

	src, err := New(zones, "Europe/Berlin", &Opts{
		Query: fixedQuery(0),
		Now:   func() time.Time { return sysNow },
	})
	require.NoError(t, err)
	require.NoError(t, src.Sync(context.Background()))
	assert.Equal(t, 1, zones.calls)

	// Cross the DST boundary; the next sync must pick up the new offset.
	sysNow = sysNow.Add(2 * time.Minute)
	require.NoError(t, src.Sync(context.Background()))
	assert.Equal(t, 2, zones.calls)

	hour, _, _ := src.WallClock()
	assert.Equal(t, 1, hour, "expected the post-DST offset of one hour")
}

func TestSyncNTPFailureKeepsState(t *testing.T) {
	sysNow := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	zones := &fakeZones{infos: []*tzdb.ZoneInfo{{
		Offset:     time.Hour,
		ValidUntil: sysNow.Add(time.Hour),
	}}}

	queryErr := error(nil)
	src, err := New(zones, "Europe/Berlin", &Opts{
		Query: func(string) (*ntp.Response, error) {
			if queryErr != nil {
				return nil, queryErr
			}
			return &ntp.Response{Stratum: 1}, nil
		},
		Now: func() time.Time { return sysNow },
	})
	require.NoError(t, err)
	require.NoError(t, src.Sync(context.Background()))

	queryErr = errors.New("pool unreachable")
	err = src.Sync(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool unreachable")

	// The zone offset from the successful sync is still applied.
	hour, _, _ := src.WallClock()
	assert.Equal(t, 11, hour)
}

func TestSyncZoneFailure(t *testing.T) {
	zones := &fakeZones{err: errors.New("quota exceeded")}
	src, err := New(zones, "Europe/Berlin", &Opts{Query: fixedQuery(0)})
	require.NoError(t, err)

	err = src.Sync(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, "Europe/Berlin", nil)
	assert.Error(t, err)
	_, err = New(&fakeZones{}, "", nil)
	assert.Error(t, err)
}
