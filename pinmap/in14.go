// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pinmap

// IN14 returns the wiring for the IN-14 tube board revision. The IN-14
// socket footprint allowed the cathodes to be routed in order, so this
// table runs straight through the chain with the dots and lamps on the
// last chip.
func IN14() (*Map, error) {
	return New(Map{
		Name:     "IN14",
		NumChips: 6,
		Digits: [NumDigits][NumGlyphs]BitAddr{
			{P2B(1, 0), P2B(1, 1), P2B(1, 2), P2B(1, 3), P2B(1, 4), P2B(1, 5), P2B(1, 6), P2B(1, 7), P2B(2, 0), P2B(2, 1)},
			{P2B(2, 2), P2B(2, 3), P2B(2, 4), P2B(2, 5), P2B(2, 6), P2B(2, 7), P2B(3, 0), P2B(3, 1), P2B(3, 2), P2B(3, 3)},
			{P2B(3, 4), P2B(3, 5), P2B(3, 6), P2B(3, 7), P2B(4, 0), P2B(4, 1), P2B(4, 2), P2B(4, 3), P2B(4, 4), P2B(4, 5)},
			{P2B(4, 6), P2B(4, 7), P2B(5, 0), P2B(5, 1), P2B(5, 2), P2B(5, 3), P2B(5, 4), P2B(5, 5), P2B(5, 6), P2B(5, 7)},
		},
		Dots:  [NumDigits]BitAddr{P2B(6, 0), P2B(6, 1), P2B(6, 2), P2B(6, 3)},
		Lamps: [NumLamps]BitAddr{P2B(6, 4), P2B(6, 5)},
	})
}
