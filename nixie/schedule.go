// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package nixie

// Levels is a brightness pair, one level for the digit tubes and one for
// the separator lamps.
type Levels struct {
	Digits uint8
	Lamps  uint8
}

// Schedule is a day/night dimming policy. Between NightStart (inclusive)
// and NightEnd (exclusive) the Night levels apply, otherwise the Day
// levels. The window may wrap past midnight, e.g. NightStart 22, NightEnd
// 7. Equal start and end means night mode never kicks in.
type Schedule struct {
	Day   Levels
	Night Levels

	NightStart int
	NightEnd   int
}

// LevelsAt returns the levels to apply at the given hour of day.
func (s Schedule) LevelsAt(hour int) Levels {
	if s.isNight(hour) {
		return s.Night
	}
	return s.Day
}

func (s Schedule) isNight(hour int) bool {
	switch {
	case s.NightStart == s.NightEnd:
		return false
	case s.NightStart < s.NightEnd:
		return hour >= s.NightStart && hour < s.NightEnd
	default:
		return hour >= s.NightStart || hour < s.NightEnd
	}
}
