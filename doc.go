// Copyright 2026 The NixieClock Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package nixieclock is a container for the driver packages of a four digit
// nixie tube clock built from daisy-chained TPIC6B595 high voltage shift
// registers.
//
// The interesting packages are nixie (display encoding and software PWM
// brightness), pinmap (per tube-model wiring tables), tpic6b595 (the shift
// register chain) and sim (a hardware-free renderer for development).
package nixieclock
