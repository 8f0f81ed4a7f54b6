// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package stepper drives a step/enable stepper motor driver stage.
//
// A Motor pairs a Channel, the timer/PWM output generating the step clock,
// with an active-low enable line. The step rate is set through a Velocity:
// a timer prescaler value where larger values mean a slower step clock.
//
// # Velocity changes
//
// SetVelocity stops the step clock, rewrites the prescaler and restarts the
// clock. The restart happens on every exit path once the clock was stopped.
// A failing channel is fatal: the motor latches ErrFault and refuses further
// velocity changes.
//
// Abrupt velocity changes stall a loaded motor. Use package ramp to walk the
// velocity towards a faster target.
package stepper
