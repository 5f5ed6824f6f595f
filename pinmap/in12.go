// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pinmap

// IN12 returns the wiring for the IN-12 tube board revision. The table is
// transcribed from the board schematic; chip numbers are the 1 based
// designators printed on the silkscreen.
func IN12() (*Map, error) {
	return New(Map{
		Name:     "IN12",
		NumChips: 6,
		Digits: [NumDigits][NumGlyphs]BitAddr{
			{P2B(1, 5), P2B(1, 3), P2B(1, 2), P2B(1, 1), P2B(1, 0), P2B(1, 7), P2B(1, 6), P2B(2, 6), P2B(2, 5), P2B(2, 4)},
			{P2B(3, 4), P2B(2, 3), P2B(2, 2), P2B(2, 1), P2B(2, 7), P2B(2, 0), P2B(3, 0), P2B(3, 1), P2B(3, 2), P2B(3, 3)},
			{P2B(5, 7), P2B(4, 4), P2B(4, 3), P2B(4, 5), P2B(4, 2), P2B(4, 6), P2B(4, 1), P2B(4, 7), P2B(4, 0), P2B(5, 1)},
			{P2B(6, 0), P2B(5, 4), P2B(5, 3), P2B(5, 5), P2B(5, 6), P2B(5, 2), P2B(6, 5), P2B(6, 3), P2B(6, 2), P2B(6, 1)},
		},
		Dots:  [NumDigits]BitAddr{P2B(1, 4), P2B(3, 5), P2B(5, 0), P2B(6, 4)},
		Lamps: [NumLamps]BitAddr{P2B(3, 6), P2B(3, 7)},
	})
}
