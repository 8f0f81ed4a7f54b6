// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termview

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/GermanBionicSystems/stepperrig/stepper"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

func TestMotorLine(t *testing.T) {
	var buf bytes.Buffer
	d := New(&Opts{W: &buf})
	chA, enA := d.Add("A")
	chB, enB := d.Add("B")

	mA, err := stepper.New(stepper.A, chA, enA, &stepper.Opts{Initial: 370})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := stepper.New(stepper.B, chB, enB, nil); err != nil {
		t.Fatal(err)
	}
	if err := mA.Enable(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	last := out[strings.LastIndex(out, "\r"):]
	for _, want := range []string{"A:370", "B:4000"} {
		if !strings.Contains(last, want) {
			t.Fatalf("wanted %q in %q", want, last)
		}
	}
	if !d.motors[0].enabled || d.motors[1].enabled {
		t.Fatalf("unexpected enable state A=%t B=%t", d.motors[0].enabled, d.motors[1].enabled)
	}
	if !d.motors[0].running {
		t.Fatal("A's step clock should be running")
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "\n\033[0m") {
		t.Fatal("Halt should reset the terminal")
	}
}

func TestColor(t *testing.T) {
	for _, test := range []struct {
		name string
		m    motor
		want color.NRGBA
	}{
		{name: "disabled", m: motor{v: 0, running: true}, want: colorDisabled},
		{name: "stopped", m: motor{v: 0, enabled: true}, want: colorStopped},
		{name: "fastest", m: motor{v: 0, enabled: true, running: true}, want: color.NRGBA{0, 0xff, 0, 0xff}},
		{name: "slowest", m: motor{v: stepper.MaxVelocity, enabled: true, running: true}, want: color.NRGBA{0, 0x30, 0, 0xff}},
	} {
		t.Run(test.name, func(t *testing.T) {
			if got := test.m.color(); got != test.want {
				t.Fatalf("wanted %v, got %v", test.want, got)
			}
		})
	}
}

func TestGate(t *testing.T) {
	d := New(&Opts{W: &bytes.Buffer{}})
	_, g := d.Add("C")
	if g.Name() != "C_EN" || g.Number() != 0 || g.Function() != "OUT" {
		t.Fatalf("unexpected pin %s %d %s", g.Name(), g.Number(), g.Function())
	}
	if err := g.PWM(gpio.DutyHalf, physic.KiloHertz); err == nil {
		t.Fatal("expected PWM error")
	}
	if err := g.SetFunc(gpio.IN); err == nil {
		t.Fatal("expected SetFunc error")
	}
	if err := g.Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if !d.motors[0].enabled {
		t.Fatal("low should enable the motor")
	}
}
