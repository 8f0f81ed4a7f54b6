// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ramp walks a stepper velocity towards a faster target.
//
// A loaded stepper motor locks up when its step rate jumps. The ramp applies
// a sequence of velocities, one every StepDelay, following a Schedule: large
// steps while the motor is slow and finer steps as the velocity approaches
// its target.
//
// With DefaultSchedule a velocity at or above 100 is halved, a velocity in
// [80, 100) drops by 10, a velocity in [10, 80) drops by 1 and a velocity
// below 10 jumps straight to the target. No applied value ever goes below
// the target, and the ramp always ends with the target applied.
package ramp
