// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// rampplot renders the velocity ramp between two values to a PNG.
//
// The vertical axis is the step frequency produced by each velocity, the
// horizontal axis is time, one StepDelay per step.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/stepperrig/ramp"
	"github.com/GermanBionicSystems/stepperrig/stepper"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/gpio"
)

const (
	width   = 800
	height  = 480
	padding = 48.0
)

func main() {
	start := flag.Uint("start", uint(ramp.BaseVelocity), "start velocity")
	target := flag.Uint("target", 370, "target velocity")
	out := flag.String("o", "ramp.png", "output PNG")
	flag.Parse()

	if *start > uint(stepper.MaxVelocity) || *target > uint(stepper.MaxVelocity) {
		log.Fatalf("velocities must be in [0, %d]", stepper.MaxVelocity)
	}
	path := ramp.DefaultSchedule.Path(stepper.Velocity(*start), stepper.Velocity(*target))

	// Only the frequency computation is used; the pin is never driven.
	ch, err := stepper.NewPWMChannel(gpio.INVALID, stepper.DefaultTimerClock, stepper.DefaultPeriod)
	if err != nil {
		log.Fatal(err)
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		log.Fatal(err)
	}
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: 14}))

	plot(dc, ch, path)

	dc.SetRGB(0, 0, 0)
	title := fmt.Sprintf("%d -> %d: %d steps, %s", *start, *target, len(path)-1, ramp.DefaultStepDelay*time.Duration(len(path)-1))
	dc.DrawStringAnchored(title, width/2, padding/2, 0.5, 0.5)

	if err := dc.SavePNG(*out); err != nil {
		log.Fatal(err)
	}
}

func plot(dc *gg.Context, ch *stepper.PWMChannel, path []stepper.Velocity) {
	maxHz := 0.0
	hz := make([]float64, len(path))
	for i, v := range path {
		hz[i] = float64(ch.Frequency(v)) / 1e6
		if hz[i] > maxHz {
			maxHz = hz[i]
		}
	}
	if maxHz == 0 {
		maxHz = 1
	}
	w := width - 2*padding
	h := height - 2*padding
	x := func(i int) float64 {
		if len(path) < 2 {
			return padding
		}
		return padding + w*float64(i)/float64(len(path)-1)
	}
	y := func(f float64) float64 {
		return height - padding - h*f/maxHz
	}

	// Axes.
	dc.SetRGB(0.5, 0.5, 0.5)
	dc.SetLineWidth(1)
	dc.DrawLine(padding, height-padding, width-padding, height-padding)
	dc.DrawLine(padding, padding, padding, height-padding)
	dc.Stroke()
	dc.DrawStringAnchored(fmt.Sprintf("%.0f Hz", maxHz), padding+4, padding, 0, 1)

	// Steps.
	dc.SetRGB(0, 0.5, 0)
	dc.SetLineWidth(2)
	for i := range hz {
		if i == 0 {
			dc.MoveTo(x(i), y(hz[i]))
			continue
		}
		dc.LineTo(x(i), y(hz[i-1]))
		dc.LineTo(x(i), y(hz[i]))
	}
	dc.Stroke()
	for i := range hz {
		dc.DrawCircle(x(i), y(hz[i]), 3)
	}
	dc.Fill()
}
