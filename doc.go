// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package stepperrig is a container for the stepper test rig packages.
//
// stepper drives one motor's step clock and enable line, ramp accelerates a
// motor without stalling it and sequencer runs the three-motor endurance
// test. termview simulates the motors on a terminal.
package stepperrig
