// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stepper

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultTimerClock is the input clock of the step timer.
	DefaultTimerClock = 80 * physic.MegaHertz
	// DefaultPeriod is the timer auto-reload value. One step pulse is emitted
	// every Period+1 prescaled ticks.
	DefaultPeriod = 200
)

// ErrNotConfigured is returned by PWMChannel.Start before Configure.
var ErrNotConfigured = errors.New("stepper: channel not configured")

// PWMChannel is a Channel emitting the step clock as a 50% duty PWM on a
// gpio.PinOut.
//
// The Velocity is used as the timer prescaler: the step frequency is
// TimerClock / ((v+1) * (Period+1)).
type PWMChannel struct {
	p      gpio.PinOut
	clk    physic.Frequency
	period uint32
	f      physic.Frequency
}

// NewPWMChannel returns a PWMChannel on p. Pass DefaultTimerClock and
// DefaultPeriod to reproduce the rig's timer settings.
func NewPWMChannel(p gpio.PinOut, clk physic.Frequency, period uint32) (*PWMChannel, error) {
	if p == nil {
		return nil, errors.New("stepper: step pin is required")
	}
	if clk <= 0 {
		return nil, fmt.Errorf("stepper: invalid timer clock %s", clk)
	}
	return &PWMChannel{p: p, clk: clk, period: period}, nil
}

// Frequency returns the step frequency produced by v.
func (c *PWMChannel) Frequency(v Velocity) physic.Frequency {
	return c.clk / physic.Frequency((int64(v)+1)*(int64(c.period)+1))
}

// String implements Channel.
func (c *PWMChannel) String() string {
	return c.p.String()
}

// Stop implements Channel. The step pin is held low.
func (c *PWMChannel) Stop() error {
	return c.p.Out(gpio.Low)
}

// Configure implements Channel.
func (c *PWMChannel) Configure(v Velocity) error {
	if v > MaxVelocity {
		return ErrVelocityRange
	}
	f := c.Frequency(v)
	if f <= 0 {
		return fmt.Errorf("stepper: velocity %d is below the pin resolution", v)
	}
	c.f = f
	return nil
}

// Start implements Channel.
func (c *PWMChannel) Start() error {
	if c.f == 0 {
		return ErrNotConfigured
	}
	return c.p.PWM(gpio.DutyHalf, c.f)
}

var _ Channel = &PWMChannel{}
