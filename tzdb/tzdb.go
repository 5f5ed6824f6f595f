// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tzdb queries the timezonedb.com API for the UTC offset of a
// timezone and how long that offset stays valid. The clock re-fetches the
// zone info whenever the validity window passes, which is how it follows
// DST changes without carrying a local timezone database.
package tzdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.timezonedb.com/v2.1"

var ErrMissingKey = errors.New("tzdb: an API key is required")

// ZoneInfo is the subset of a get-time-zone response the clock needs.
type ZoneInfo struct {
	// DSTInEffect reports whether daylight saving time is currently
	// active in the zone.
	DSTInEffect bool

	// Offset is the current total offset from UTC, DST included.
	Offset time.Duration

	// ValidUntil is the instant the offset next changes. Zero for zones
	// without DST, meaning the offset holds indefinitely.
	ValidUntil time.Time
}

// Valid reports whether the info still applies at the given instant.
func (z *ZoneInfo) Valid(at time.Time) bool {
	return z.ValidUntil.IsZero() || at.Before(z.ValidUntil)
}

// Opts holds the options for New.
type Opts struct {
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string

	// HTTPClient overrides http.DefaultClient.
	HTTPClient *http.Client
}

// Client is a minimal timezonedb.com API client.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// New returns a Client authenticating with the given API key.
func New(apiKey string, opts *Opts) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingKey
	}
	var o Opts
	if opts != nil {
		o = *opts
	}
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.HTTPClient == nil {
		o.HTTPClient = http.DefaultClient
	}
	return &Client{baseURL: o.BaseURL, apiKey: apiKey, hc: o.HTTPClient}, nil
}

// Zone fetches the current offset info for a zone name like
// "Europe/Berlin".
func (c *Client) Zone(ctx context.Context, zone string) (*ZoneInfo, error) {
	q := url.Values{
		"format": {"json"},
		"key":    {c.apiKey},
		"by":     {"zone"},
		"zone":   {zone},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get-time-zone?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("tzdb: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tzdb: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tzdb: get-time-zone returned %s", resp.Status)
	}

	// dst arrives as the string "1" or "0", not as a JSON boolean, and
	// zoneEnd is a unix timestamp that may exceed 32 bits.
	var raw struct {
		Status    string `json:"status"`
		Message   string `json:"message"`
		DST       string `json:"dst"`
		GMTOffset int64  `json:"gmtOffset"`
		ZoneEnd   int64  `json:"zoneEnd"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("tzdb: decoding get-time-zone response: %w", err)
	}
	if raw.Status != "OK" {
		return nil, fmt.Errorf("tzdb: get-time-zone failed: %s", raw.Message)
	}

	info := &ZoneInfo{
		DSTInEffect: raw.DST == "1",
		Offset:      time.Duration(raw.GMTOffset) * time.Second,
	}
	if raw.ZoneEnd != 0 {
		info.ValidUntil = time.Unix(raw.ZoneEnd, 0)
	}
	return info, nil
}
