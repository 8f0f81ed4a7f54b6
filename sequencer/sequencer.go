// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sequencer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GermanBionicSystems/stepperrig/ramp"
	"github.com/GermanBionicSystems/stepperrig/stepper"
	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

const (
	// DefaultCruiseA is the cruise velocity of motor A.
	DefaultCruiseA stepper.Velocity = 370
	// DefaultCruiseBC is the cruise velocity of motors B and C.
	DefaultCruiseBC = stepper.Speed005FPS
	// DefaultCrawl is the near-stall velocity motor A is dropped to during a
	// cycle.
	DefaultCrawl stepper.Velocity = 4000

	// DefaultCycleInterval is the cruise time before each cycle of motor A.
	DefaultCycleInterval = time.Second
	// DefaultSettle is the time motor A stays disabled at crawl.
	DefaultSettle = 125 * time.Millisecond
	// DefaultPollInterval is the sampling period of the run signal while
	// idle.
	DefaultPollInterval = time.Millisecond
)

// ErrFaulted is returned once a motor fault stopped the sequencer.
var ErrFaulted = errors.New("sequencer: faulted")

// Motor is one motor of the rig. stepper.Motor implements it.
type Motor interface {
	fmt.Stringer
	ramp.Setter
	Enable() error
	Disable() error
}

// Opts holds the configuration options of the Sequencer.
type Opts struct {
	CruiseA  stepper.Velocity
	CruiseBC stepper.Velocity
	Crawl    stepper.Velocity

	CycleInterval time.Duration
	Settle        time.Duration
	PollInterval  time.Duration

	// Ramp configures every ramp. Its Clock is replaced by Clock.
	Ramp ramp.Opts
	// Clock defaults to the wall clock.
	Clock ramp.Sleeper
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// OnState, if set, is called on every state transition.
	OnState func(State)

	_ struct{}
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	CruiseA:       DefaultCruiseA,
	CruiseBC:      DefaultCruiseBC,
	Crawl:         DefaultCrawl,
	CycleInterval: DefaultCycleInterval,
	Settle:        DefaultSettle,
	PollInterval:  DefaultPollInterval,
	Ramp:          ramp.DefaultOpts,
}

// Sequencer drives the test sequence. It is not safe for concurrent use.
type Sequencer struct {
	a, b, c Motor
	run     gpio.PinIn
	opts    Opts
	clk     ramp.Sleeper
	log     *zap.Logger

	state State
	err   error
}

// New returns a Sequencer in the Idle state with all motors disabled.
//
// The run pin is configured as an input with a pull-down so a disconnected
// run line reads as stop.
func New(a, b, c Motor, run gpio.PinIn, opts *Opts) (*Sequencer, error) {
	if a == nil || b == nil || c == nil || run == nil {
		return nil, errors.New("sequencer: three motors and a run pin are required")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	for _, v := range []stepper.Velocity{opts.CruiseA, opts.CruiseBC, opts.Crawl} {
		if v > stepper.MaxVelocity {
			return nil, fmt.Errorf("sequencer: %w: %d", stepper.ErrVelocityRange, v)
		}
	}
	if err := opts.Ramp.Schedule.Validate(); err != nil {
		return nil, err
	}
	s := &Sequencer{a: a, b: b, c: c, run: run, opts: *opts, clk: opts.Clock, log: opts.Logger}
	if s.clk == nil {
		s.clk = clock.New()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.opts.Ramp.Clock = s.clk
	if err := run.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("sequencer: run pin: %w", err)
	}
	if err := s.disableAll(); err != nil {
		return nil, err
	}
	return s, nil
}

// String implements conn.Resource.
func (s *Sequencer) String() string {
	return "sequencer"
}

// Halt disables all motors.
//
// Halt implements conn.Resource.
func (s *Sequencer) Halt() error {
	return s.disableAll()
}

// State returns the current state.
func (s *Sequencer) State() State {
	return s.state
}

// Err returns the fault that stopped the sequencer, if any.
func (s *Sequencer) Err() error {
	return s.err
}

// Run executes one test: it waits for the run signal, runs the test until
// the signal is low at a cycle boundary, disables all motors and returns to
// Idle.
//
// Cancelling ctx while idle returns ctx.Err() without enabling any motor.
// Cancelling it while running stops the test at the next cycle boundary,
// like a low run signal, and returns ctx.Err().
//
// A motor fault disables all motors and returns an error wrapping
// ErrFaulted; every later call returns the same error.
func (s *Sequencer) Run(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	s.enter(Idle)
	if err := s.waitRun(ctx); err != nil {
		return err
	}

	s.enter(RampingUp)
	if err := s.rampUp(); err != nil {
		return s.fault(err)
	}

	s.enter(Cruising)
	for s.active() && ctx.Err() == nil {
		if err := s.cycle(); err != nil {
			return s.fault(err)
		}
		s.enter(Cruising)
	}

	s.enter(Stopped)
	if err := s.disableAll(); err != nil {
		return s.fault(err)
	}
	s.enter(Idle)
	return ctx.Err()
}

// RunForever calls Run until ctx is done or a fault occurs.
func (s *Sequencer) RunForever(ctx context.Context) error {
	for {
		if err := s.Run(ctx); err != nil {
			return err
		}
	}
}

func (s *Sequencer) active() bool {
	return s.run.Read() == gpio.High
}

func (s *Sequencer) waitRun(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.active() {
			return nil
		}
		s.clk.Sleep(s.opts.PollInterval)
	}
}

// rampUp starts the motors strictly one after the other.
func (s *Sequencer) rampUp() error {
	for _, m := range []struct {
		m      Motor
		cruise stepper.Velocity
	}{
		{s.a, s.opts.CruiseA},
		{s.b, s.opts.CruiseBC},
		{s.c, s.opts.CruiseBC},
	} {
		if err := m.m.Enable(); err != nil {
			return err
		}
		if err := ramp.FromBase(m.m, m.cruise, &s.opts.Ramp); err != nil {
			return err
		}
		s.log.Info("motor cruising", zap.Stringer("motor", m.m), zap.Uint16("velocity", uint16(m.cruise)))
	}
	return nil
}

// cycle drops motor A to a crawl and brings it back to cruise.
func (s *Sequencer) cycle() error {
	s.clk.Sleep(s.opts.CycleInterval)

	s.enter(CycleDisable)
	if err := s.a.Disable(); err != nil {
		return err
	}

	// The drop to crawl is not ramped: the windings carry no current while
	// the motor is disabled, so it cannot stall.
	s.enter(CycleSlow)
	if err := s.a.SetVelocity(s.opts.Crawl); err != nil {
		return err
	}

	s.enter(CyclePause)
	s.clk.Sleep(s.opts.Settle)

	s.enter(CycleReenable)
	if err := s.a.Enable(); err != nil {
		return err
	}
	return ramp.FromBase(s.a, s.opts.CruiseA, &s.opts.Ramp)
}

func (s *Sequencer) disableAll() error {
	return multierr.Combine(s.a.Disable(), s.b.Disable(), s.c.Disable())
}

func (s *Sequencer) fault(err error) error {
	s.enter(Faulted)
	err = multierr.Append(err, s.disableAll())
	s.err = fmt.Errorf("%w: %w", ErrFaulted, err)
	s.log.Error("test stopped", zap.Error(err))
	return s.err
}

func (s *Sequencer) enter(st State) {
	if st == s.state {
		return
	}
	s.log.Debug("state", zap.Stringer("from", s.state), zap.Stringer("to", st))
	s.state = st
	if s.opts.OnState != nil {
		s.opts.OnState(st)
	}
}

var _ conn.Resource = &Sequencer{}
