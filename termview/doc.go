// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview simulates stepper step clocks and enable lines on the
// terminal (stdout) using ANSI color codes.
//
// Useful to exercise the test sequence without a rig attached. Each motor is
// drawn as a colored block followed by its velocity: gray while disabled,
// red while its step clock is stopped, and green getting brighter as the
// step rate increases.
package termview
