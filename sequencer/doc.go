// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sequencer runs the three-motor endurance test of the rig.
//
// The test waits for the run signal, then enables and ramps motors A, B and
// C to their cruise velocities one after the other. While the run signal
// stays high, motor A is cycled: it is disabled, dropped to a crawl, left to
// settle, re-enabled and ramped back to cruise. B and C keep cruising. When
// the run signal is low at the start of a cycle, all motors are disabled.
//
// The run signal is only sampled while idle and between cycles: a cycle in
// progress always completes.
//
// Any motor fault is fatal for the whole rig since the motors drive one
// mechanism. The sequencer disables every motor and refuses to run again.
package sequencer
