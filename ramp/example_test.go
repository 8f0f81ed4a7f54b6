// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ramp_test

import (
	"fmt"
	"log"

	"github.com/GermanBionicSystems/stepperrig/ramp"
	"github.com/GermanBionicSystems/stepperrig/stepper"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	ch, err := stepper.NewPWMChannel(gpioreg.ByName("GPIO18"), stepper.DefaultTimerClock, stepper.DefaultPeriod)
	if err != nil {
		log.Fatal(err)
	}
	m, err := stepper.New(stepper.A, ch, gpioreg.ByName("GPIO23"), nil)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Halt()

	if err := m.Enable(); err != nil {
		log.Fatal(err)
	}
	// Accelerate from a standstill-safe step rate to cruise.
	if err := ramp.FromBase(m, 370, &ramp.DefaultOpts); err != nil {
		log.Fatal(err)
	}
}

func ExampleSchedule_Path() {
	fmt.Println(ramp.DefaultSchedule.Path(ramp.BaseVelocity, 370))
	fmt.Println(ramp.DefaultSchedule.Path(95, 75))
	fmt.Println(ramp.DefaultSchedule.Path(12, 0))
	// Output:
	// [2000 1000 500 370]
	// [95 85 75]
	// [12 11 10 9 0]
}
