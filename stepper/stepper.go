// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stepper

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// MaxVelocity is the largest prescaler value accepted by the step clock.
const MaxVelocity Velocity = 4095

// DefaultInitial is the velocity the step clock is started at by New. It
// matches the timer prescaler of the rig's board configuration.
const DefaultInitial Velocity = 4000

var (
	// ErrVelocityRange is returned when a velocity above MaxVelocity is
	// requested.
	ErrVelocityRange = errors.New("velocity out of range")

	// ErrFault is returned when the step clock could not be reconfigured. The
	// motor state is unknown afterwards and the fault is latched.
	ErrFault = errors.New("step clock fault")
)

// Velocity is a step clock prescaler value. 0 is the fastest step rate,
// MaxVelocity the slowest.
type Velocity uint16

// ID names one motor of the rig.
type ID string

const (
	A ID = "A"
	B ID = "B"
	C ID = "C"
)

// Channel is a timer/PWM output producing the step clock of one motor.
type Channel interface {
	fmt.Stringer
	// Stop halts pulse generation. No pulse is emitted until Start.
	Stop() error
	// Configure sets the prescaler used by the next Start.
	Configure(v Velocity) error
	// Start resumes pulse generation.
	Start() error
}

// Opts holds the configuration options for a Motor.
type Opts struct {
	// Initial is the velocity applied by New.
	Initial Velocity

	_ struct{}
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{Initial: DefaultInitial}

// Motor is a handle to one stepper driver stage.
type Motor struct {
	id ID
	ch Channel
	en gpio.PinOut

	enabled atomic.Bool

	mu       sync.Mutex
	velocity Velocity
	err      error
}

// New returns a Motor with its driver stage disabled and its step clock
// running at opts.Initial.
func New(id ID, ch Channel, en gpio.PinOut, opts *Opts) (*Motor, error) {
	if ch == nil || en == nil {
		return nil, fmt.Errorf("stepper %s: channel and enable pin are required", id)
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	m := &Motor{id: id, ch: ch, en: en}
	if err := m.Disable(); err != nil {
		return nil, err
	}
	if err := m.SetVelocity(opts.Initial); err != nil {
		return nil, err
	}
	return m, nil
}

// ID returns the motor identity.
func (m *Motor) ID() ID {
	return m.id
}

// String implements conn.Resource.
func (m *Motor) String() string {
	return "stepper " + string(m.id)
}

// Halt disables the driver stage.
//
// Halt implements conn.Resource.
func (m *Motor) Halt() error {
	return m.Disable()
}

// Enable drives the active-low enable line low so the driver stage delivers
// current to the windings.
func (m *Motor) Enable() error {
	return m.gate(gpio.Low)
}

// Disable drives the enable line high, cutting drive current immediately. It
// is safe to call on a disabled motor.
func (m *Motor) Disable() error {
	return m.gate(gpio.High)
}

func (m *Motor) gate(l gpio.Level) error {
	if err := m.en.Out(l); err != nil {
		return fmt.Errorf("stepper %s: %w", m.id, err)
	}
	m.enabled.Store(l == gpio.Low)
	return nil
}

// Enabled reports the last level written to the enable line.
func (m *Motor) Enabled() bool {
	return m.enabled.Load()
}

// Velocity returns the last velocity applied successfully.
func (m *Motor) Velocity() Velocity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.velocity
}

// Err returns the latched fault, if any.
func (m *Motor) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// SetVelocity applies v to the step clock without ramping.
//
// Jumping to a much faster velocity stalls a loaded motor; it is safe while
// the motor is disabled.
func (m *Motor) SetVelocity(v Velocity) error {
	if v > MaxVelocity {
		return fmt.Errorf("stepper %s: %w: %d", m.id, ErrVelocityRange, v)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if err := m.reconfigure(v); err != nil {
		m.err = fmt.Errorf("stepper %s: %w: %w", m.id, ErrFault, err)
		return m.err
	}
	m.velocity = v
	return nil
}

// reconfigure rewrites the prescaler while the step clock is stopped. Once
// stopped, the clock is restarted on every return path.
func (m *Motor) reconfigure(v Velocity) (err error) {
	if err = m.ch.Stop(); err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, m.ch.Start())
	}()
	return m.ch.Configure(v)
}

var _ conn.Resource = &Motor{}
