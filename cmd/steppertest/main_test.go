// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/GermanBionicSystems/stepperrig/stepper"
	"github.com/GermanBionicSystems/stepperrig/termview"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"periph.io/x/conn/v3/gpio"
)

// brokenChannel fails every Configure once armed.
type brokenChannel struct {
	stepper.Channel
	armed bool
}

func (c *brokenChannel) Configure(v stepper.Velocity) error {
	if c.armed {
		return errors.New("timer stalled")
	}
	return c.Channel.Configure(v)
}

// newTestRig returns a simulated rig drawing on buf with the run signal
// held high. closed is set once the rig is closed.
func newTestRig(t *testing.T, buf *bytes.Buffer, closed *bool) (*rig, [3]*brokenChannel) {
	view := termview.New(&termview.Opts{W: buf})
	r := &rig{
		run: &simRun{PinIO: gpio.INVALID, on: true},
		close: func() error {
			*closed = true
			return view.Halt()
		},
	}
	var chans [3]*brokenChannel
	for i, id := range []stepper.ID{stepper.A, stepper.B, stepper.C} {
		ch, en := view.Add(string(id))
		chans[i] = &brokenChannel{Channel: ch}
		m, err := stepper.New(id, chans[i], en, nil)
		if err != nil {
			t.Fatal(err)
		}
		r.motors[i] = m
	}
	return r, chans
}

func TestServeCancelled(t *testing.T) {
	var buf bytes.Buffer
	closed := false
	r, _ := newTestRig(t, &buf, &closed)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if code := serve(ctx, zap.NewNop(), r); code != 0 {
		t.Fatalf("wanted exit code 0, got %d", code)
	}
	if !closed {
		t.Fatal("rig not closed")
	}
	if !strings.HasSuffix(buf.String(), "\n\033[0m") {
		t.Fatalf("terminal not reset: %q", buf.String())
	}
	for _, m := range r.motors {
		if m.Enabled() {
			t.Fatalf("motor %s left enabled", m.ID())
		}
	}
}

func TestServeFault(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	var buf bytes.Buffer
	closed := false
	r, chans := newTestRig(t, &buf, &closed)
	chans[0].armed = true

	if code := serve(context.Background(), zap.New(core), r); code != 1 {
		t.Fatalf("wanted exit code 1, got %d", code)
	}
	if !closed {
		t.Fatal("rig not closed")
	}
	if !strings.HasSuffix(buf.String(), "\n\033[0m") {
		t.Fatalf("terminal not reset: %q", buf.String())
	}
	for _, m := range r.motors {
		if m.Enabled() {
			t.Fatalf("motor %s left enabled", m.ID())
		}
	}
	if logs.FilterMessage("rig halted").Len() != 1 {
		t.Fatalf("fault not logged: %v", logs.All())
	}
}

func TestServeSetupFailure(t *testing.T) {
	var buf bytes.Buffer
	closed := false
	r, _ := newTestRig(t, &buf, &closed)
	r.run = nil

	if code := serve(context.Background(), zap.NewNop(), r); code != 1 {
		t.Fatalf("wanted exit code 1, got %d", code)
	}
	if !closed {
		t.Fatal("rig not closed")
	}
}
