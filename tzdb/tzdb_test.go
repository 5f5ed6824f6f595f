// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tzdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get-time-zone", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "zone", r.URL.Query().Get("by"))
		assert.Equal(t, "Europe/Berlin", r.URL.Query().Get("zone"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"message": "",
			"countryCode": "DE",
			"zoneName": "Europe/Berlin",
			"abbreviation": "CEST",
			"dst": "1",
			"gmtOffset": 7200,
			"zoneEnd": 1761440400,
			"timestamp": 1756640000
		}`))
	}))
	defer srv.Close()

	c, err := New("secret", &Opts{BaseURL: srv.URL})
	require.NoError(t, err)

	info, err := c.Zone(context.Background(), "Europe/Berlin")
	require.NoError(t, err)

	assert.True(t, info.DSTInEffect)
	assert.Equal(t, 2*time.Hour, info.Offset)
	assert.Equal(t, time.Unix(1761440400, 0), info.ValidUntil)

	assert.True(t, info.Valid(time.Unix(1761440399, 0)))
	assert.False(t, info.Valid(time.Unix(1761440400, 0)))
}

func TestZoneWithoutDSTNeverExpires(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","dst":"0","gmtOffset":32400,"zoneEnd":0}`))
	}))
	defer srv.Close()

	c, err := New("secret", &Opts{BaseURL: srv.URL})
	require.NoError(t, err)

	info, err := c.Zone(context.Background(), "Asia/Tokyo")
	require.NoError(t, err)

	assert.False(t, info.DSTInEffect)
	assert.Equal(t, 9*time.Hour, info.Offset)
	assert.True(t, info.ValidUntil.IsZero())
	assert.True(t, info.Valid(time.Now().Add(100*24*time.Hour)))
}

func TestZoneAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"FAILED","message":"Invalid API key."}`))
	}))
	defer srv.Close()

	c, err := New("wrong", &Opts{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Zone(context.Background(), "Europe/Berlin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestZoneHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := New("secret", &Opts{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Zone(context.Background(), "Europe/Berlin")
	require.Error(t, err)
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New("", nil)
	assert.ErrorIs(t, err, ErrMissingKey)
}
