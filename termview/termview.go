// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termview

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"sync"

	"github.com/GermanBionicSystems/stepperrig/stepper"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

var (
	colorDisabled = color.NRGBA{0x40, 0x40, 0x40, 0xff}
	colorStopped  = color.NRGBA{0xc0, 0x00, 0x00, 0xff}
)

// Opts represents the options available for the view.
type Opts struct {
	// W defaults to a colorable stdout.
	W       io.Writer
	Palette *ansi256.Palette

	_ struct{}
}

// Dev renders simulated motors on one terminal line.
type Dev struct {
	mu      sync.Mutex
	w       io.Writer
	palette ansi256.Palette
	motors  []*motor
	buf     bytes.Buffer
}

type motor struct {
	name    string
	v       stepper.Velocity
	running bool
	enabled bool
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{w: w, palette: *p}
}

// Add registers a motor and returns its simulated step clock and enable
// line.
func (d *Dev) Add(name string) (*Channel, *Gate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m := &motor{name: name}
	d.motors = append(d.motors, m)
	return &Channel{d: d, m: m}, &Gate{d: d, m: m, num: len(d.motors) - 1}
}

func (d *Dev) String() string {
	return "TermView"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors and moves to a new line.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

func (d *Dev) update(f func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	f()
	return d.refresh()
}

func (d *Dev) refresh() error {
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for _, m := range d.motors {
		_, _ = io.WriteString(&d.buf, d.palette.Block(m.color()))
		_, _ = d.buf.WriteString("\033[0m ")
		_, _ = d.buf.WriteString(m.name)
		_ = d.buf.WriteByte(':')
		_, _ = d.buf.WriteString(strconv.Itoa(int(m.v)))
		_, _ = d.buf.WriteString("  ")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

func (m *motor) color() color.NRGBA {
	switch {
	case !m.enabled:
		return colorDisabled
	case !m.running:
		return colorStopped
	}
	// Brighter means a faster step rate.
	g := 0x30 + 0xcf*int(stepper.MaxVelocity-m.v)/int(stepper.MaxVelocity)
	return color.NRGBA{0x00, byte(g), 0x00, 0xff}
}

// Channel is a simulated step clock. It implements stepper.Channel.
type Channel struct {
	d *Dev
	m *motor
}

func (c *Channel) String() string {
	return c.m.name + "_STEP"
}

// Stop implements stepper.Channel.
func (c *Channel) Stop() error {
	return c.d.update(func() { c.m.running = false })
}

// Configure implements stepper.Channel.
func (c *Channel) Configure(v stepper.Velocity) error {
	if v > stepper.MaxVelocity {
		return stepper.ErrVelocityRange
	}
	return c.d.update(func() { c.m.v = v })
}

// Start implements stepper.Channel.
func (c *Channel) Start() error {
	return c.d.update(func() { c.m.running = true })
}

// Gate is a simulated active-low enable line. It implements gpio.PinOut.
type Gate struct {
	d   *Dev
	m   *motor
	num int
}

func (g *Gate) String() string {
	return g.Name()
}

// Halt implements conn.Resource.
func (g *Gate) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (g *Gate) Name() string {
	return g.m.name + "_EN"
}

// Number implements pin.Pin.
func (g *Gate) Number() int {
	return g.num
}

// Function implements pin.Pin.
func (g *Gate) Function() string {
	return string(g.Func())
}

// Func implements pin.PinFunc.
func (g *Gate) Func() pin.Func {
	return gpio.OUT
}

// SupportedFuncs implements pin.PinFunc.
func (g *Gate) SupportedFuncs() []pin.Func {
	return []pin.Func{gpio.OUT}
}

// SetFunc implements pin.PinFunc.
func (g *Gate) SetFunc(f pin.Func) error {
	if f != gpio.OUT {
		return fmt.Errorf("termview: %s only supports %s", g, gpio.OUT)
	}
	return nil
}

// Out implements gpio.PinOut. Low enables the motor.
func (g *Gate) Out(l gpio.Level) error {
	return g.d.update(func() { g.m.enabled = l == gpio.Low })
}

// PWM implements gpio.PinOut. It is not supported.
func (g *Gate) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("termview: PWM is not supported on an enable line")
}

var _ conn.Resource = &Dev{}
var _ stepper.Channel = &Channel{}
var _ gpio.PinOut = &Gate{}
var _ pin.PinFunc = &Gate{}
