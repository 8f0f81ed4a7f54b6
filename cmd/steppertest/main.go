// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// steppertest runs the three-motor endurance test.
//
// Pins are read from the environment, see config. With -sim the motors are
// simulated on the terminal and the run signal is taken from stdin: each
// line toggles it.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"

	"github.com/GermanBionicSystems/stepperrig/sequencer"
	"github.com/GermanBionicSystems/stepperrig/stepper"
	"github.com/GermanBionicSystems/stepperrig/termview"
	"github.com/caarlos0/env"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// config is the pin wiring of the rig.
type config struct {
	StepA   string `env:"STEPPER_A_STEP" envDefault:"GPIO12"`
	StepB   string `env:"STEPPER_B_STEP" envDefault:"GPIO13"`
	StepC   string `env:"STEPPER_C_STEP" envDefault:"GPIO18"`
	EnableA string `env:"STEPPER_A_EN" envDefault:"GPIO5"`
	EnableB string `env:"STEPPER_B_EN" envDefault:"GPIO6"`
	EnableC string `env:"STEPPER_C_EN" envDefault:"GPIO16"`
	Run     string `env:"STEPPER_RUN" envDefault:"GPIO17"`
	// TimerClockHz is the step timer input clock.
	TimerClockHz int64 `env:"STEPPER_TIMER_CLOCK_HZ" envDefault:"80000000"`
	Debug        bool  `env:"STEPPER_DEBUG" envDefault:"false"`
}

type rig struct {
	motors [3]*stepper.Motor
	run    gpio.PinIn
	close  func() error
}

func main() {
	os.Exit(run())
}

// run returns the process exit code. Deferred cleanups run before the
// process exits.
func run() int {
	sim := flag.Bool("sim", false, "simulate the motors on the terminal")
	flag.Parse()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Print(err)
		return 2
	}

	logger, err := newLogger(cfg.Debug, *sim)
	if err != nil {
		log.Print(err)
		return 2
	}
	defer logger.Sync()

	var r *rig
	if *sim {
		r, err = simRig(nil)
	} else {
		r, err = hostRig(&cfg)
	}
	if err != nil {
		logger.Error("rig setup failed", zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return serve(ctx, logger, r)
}

// serve runs the test on r until ctx is done or a fault stops it. It halts
// the motors and closes r before returning.
func serve(ctx context.Context, logger *zap.Logger, r *rig) int {
	defer r.close()

	opts := sequencer.DefaultOpts
	opts.Logger = logger
	s, err := sequencer.New(r.motors[0], r.motors[1], r.motors[2], r.run, &opts)
	if err != nil {
		logger.Error("sequencer setup failed", zap.Error(err))
		return 1
	}
	defer s.Halt()

	logger.Info("waiting for run signal", zap.String("pin", r.run.Name()))
	if err := s.RunForever(ctx); err != nil && ctx.Err() == nil {
		logger.Error("rig halted", zap.Error(err))
		return 1
	}
	return 0
}

func newLogger(debug, sim bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	if sim {
		// Keep stdout for the simulated motors.
		cfg.OutputPaths = []string{"stderr"}
	}
	return cfg.Build()
}

func hostRig(cfg *config) (*rig, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	byName := func(name string) (gpio.PinIO, error) {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("no pin %q", name)
		}
		return p, nil
	}
	r := &rig{close: func() error { return nil }}
	for i, id := range []stepper.ID{stepper.A, stepper.B, stepper.C} {
		step, err := byName([]string{cfg.StepA, cfg.StepB, cfg.StepC}[i])
		if err != nil {
			return nil, err
		}
		en, err := byName([]string{cfg.EnableA, cfg.EnableB, cfg.EnableC}[i])
		if err != nil {
			return nil, err
		}
		ch, err := stepper.NewPWMChannel(step, physic.Frequency(cfg.TimerClockHz)*physic.Hertz, stepper.DefaultPeriod)
		if err != nil {
			return nil, err
		}
		if r.motors[i], err = stepper.New(id, ch, en, &stepper.DefaultOpts); err != nil {
			return nil, err
		}
	}
	run, err := byName(cfg.Run)
	if err != nil {
		return nil, err
	}
	r.run = run
	return r, nil
}

// simRig draws the motors on w, stdout if nil. Each line read on stdin
// toggles the run signal.
func simRig(w io.Writer) (*rig, error) {
	view := termview.New(&termview.Opts{W: w})
	r := &rig{close: view.Halt}
	for i, id := range []stepper.ID{stepper.A, stepper.B, stepper.C} {
		ch, en := view.Add(string(id))
		var err error
		if r.motors[i], err = stepper.New(id, ch, en, &stepper.DefaultOpts); err != nil {
			return nil, err
		}
	}
	run := &simRun{PinIO: gpio.INVALID}
	r.run = run
	go run.follow(bufio.NewScanner(os.Stdin))
	return r, nil
}

// simRun is a run signal toggled from stdin. It ignores the pull-down
// applied by the sequencer.
type simRun struct {
	gpio.PinIO
	mu sync.Mutex
	on bool
}

func (p *simRun) String() string {
	return p.Name()
}

func (p *simRun) Name() string {
	return "RUN"
}

func (p *simRun) In(pull gpio.Pull, edge gpio.Edge) error {
	return nil
}

func (p *simRun) Read() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return gpio.Level(p.on)
}

func (p *simRun) follow(sc *bufio.Scanner) {
	for sc.Scan() {
		p.mu.Lock()
		p.on = !p.on
		p.mu.Unlock()
	}
}
