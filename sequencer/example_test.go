// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sequencer_test

import (
	"context"
	"log"

	"github.com/GermanBionicSystems/stepperrig/sequencer"
	"github.com/GermanBionicSystems/stepperrig/stepper"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	var motors [3]*stepper.Motor
	for i, pins := range [][3]string{
		{"A", "GPIO12", "GPIO5"},
		{"B", "GPIO13", "GPIO6"},
		{"C", "GPIO18", "GPIO16"},
	} {
		ch, err := stepper.NewPWMChannel(gpioreg.ByName(pins[1]), stepper.DefaultTimerClock, stepper.DefaultPeriod)
		if err != nil {
			log.Fatal(err)
		}
		if motors[i], err = stepper.New(stepper.ID(pins[0]), ch, gpioreg.ByName(pins[2]), nil); err != nil {
			log.Fatal(err)
		}
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	opts := sequencer.DefaultOpts
	opts.Logger = logger

	s, err := sequencer.New(motors[0], motors[1], motors[2], gpioreg.ByName("GPIO17"), &opts)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Halt()

	// Blocks until the run signal goes high, then runs one test.
	if err := s.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
