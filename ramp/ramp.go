// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ramp

import (
	"errors"
	"fmt"
	"time"

	"github.com/GermanBionicSystems/stepperrig/stepper"
	"github.com/benbjohnson/clock"
)

const (
	// BaseVelocity is the starting velocity of FromBase, a step rate slow
	// enough for a standing motor to follow.
	BaseVelocity stepper.Velocity = 2000

	// DefaultStepDelay is the pause before each velocity change.
	DefaultStepDelay = 10 * time.Millisecond
)

// ErrInvalidSchedule is returned when a Schedule would not converge.
var ErrInvalidSchedule = errors.New("ramp: invalid schedule")

// Setter applies a velocity. stepper.Motor implements it.
type Setter interface {
	SetVelocity(v stepper.Velocity) error
}

// Sleeper blocks for a duration. clock.Clock implements it.
type Sleeper interface {
	Sleep(d time.Duration)
}

// Schedule is the velocity step table.
type Schedule struct {
	// Floor: below it the velocity jumps straight to the target.
	Floor stepper.Velocity
	// FineBelow: below it the velocity drops by FineStep.
	FineBelow stepper.Velocity
	FineStep  stepper.Velocity
	// CoarseBelow: below it the velocity drops by CoarseStep. At or above
	// it, the velocity is divided by Divisor.
	CoarseBelow stepper.Velocity
	CoarseStep  stepper.Velocity
	Divisor     stepper.Velocity
}

// DefaultSchedule is the empirically tuned schedule of the rig's motors.
var DefaultSchedule = Schedule{
	Floor:       10,
	FineBelow:   80,
	FineStep:    1,
	CoarseBelow: 100,
	CoarseStep:  10,
	Divisor:     2,
}

// Validate returns an error if s does not strictly decrease the velocity.
func (s *Schedule) Validate() error {
	switch {
	case s.FineStep == 0 || s.CoarseStep == 0:
		return fmt.Errorf("%w: zero step", ErrInvalidSchedule)
	case s.Divisor < 2:
		return fmt.Errorf("%w: divisor %d", ErrInvalidSchedule, s.Divisor)
	case s.Floor > s.FineBelow || s.FineBelow > s.CoarseBelow:
		return fmt.Errorf("%w: thresholds out of order", ErrInvalidSchedule)
	}
	return nil
}

// Next returns the velocity following cur on the way to target. It never
// returns a value below target and returns target once cur is at or below
// it.
func (s *Schedule) Next(cur, target stepper.Velocity) stepper.Velocity {
	if cur <= target || cur < s.Floor {
		return target
	}
	var step stepper.Velocity
	switch {
	case cur < s.FineBelow:
		step = s.FineStep
	case cur < s.CoarseBelow:
		step = s.CoarseStep
	default:
		step = cur - cur/s.Divisor
	}
	if step >= cur-target {
		return target
	}
	return cur - step
}

// Opts holds the configuration options of a ramp.
type Opts struct {
	Schedule Schedule
	// StepDelay is slept before every velocity change after the first. It is
	// shared by all motors.
	StepDelay time.Duration
	// Clock defaults to the wall clock.
	Clock Sleeper
	// Observer, if set, is called with every velocity applied.
	Observer func(v stepper.Velocity)

	_ struct{}
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Schedule:  DefaultSchedule,
	StepDelay: DefaultStepDelay,
}

// To applies start, then walks down to target following opts.Schedule,
// waiting opts.StepDelay before each change. The last velocity applied is
// always target.
//
// If start is below target, start is applied and immediately followed by
// target: slowing down does not need a ramp.
//
// The first Setter error aborts the ramp and is returned unchanged.
func To(m Setter, start, target stepper.Velocity, opts *Opts) error {
	if opts == nil {
		opts = &DefaultOpts
	}
	if start > stepper.MaxVelocity || target > stepper.MaxVelocity {
		return fmt.Errorf("ramp: %w: %d -> %d", stepper.ErrVelocityRange, start, target)
	}
	if err := opts.Schedule.Validate(); err != nil {
		return err
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	apply := func(v stepper.Velocity) error {
		if err := m.SetVelocity(v); err != nil {
			return err
		}
		if opts.Observer != nil {
			opts.Observer(v)
		}
		return nil
	}

	if err := apply(start); err != nil {
		return err
	}
	cur := start
	for cur > target {
		clk.Sleep(opts.StepDelay)
		cur = opts.Schedule.Next(cur, target)
		if err := apply(cur); err != nil {
			return err
		}
	}
	if cur != target {
		return apply(target)
	}
	return nil
}

// FromBase ramps m from BaseVelocity to target.
func FromBase(m Setter, target stepper.Velocity, opts *Opts) error {
	return To(m, BaseVelocity, target, opts)
}

// Path returns the velocities To would apply, without touching hardware. s
// must be valid.
func (s *Schedule) Path(start, target stepper.Velocity) []stepper.Velocity {
	out := []stepper.Velocity{start}
	cur := start
	for cur > target {
		cur = s.Next(cur, target)
		out = append(out, cur)
	}
	if cur != target {
		out = append(out, target)
	}
	return out
}
