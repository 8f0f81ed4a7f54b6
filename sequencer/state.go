// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sequencer

import "strconv"

// State is a step of the test sequence.
type State int

const (
	Idle State = iota
	RampingUp
	Cruising
	CycleDisable
	CycleSlow
	CyclePause
	CycleReenable
	Stopped
	Faulted
)

var stateNames = [...]string{
	Idle:          "Idle",
	RampingUp:     "RampingUp",
	Cruising:      "Cruising",
	CycleDisable:  "CycleDisable",
	CycleSlow:     "CycleSlow",
	CyclePause:    "CyclePause",
	CycleReenable: "CycleReenable",
	Stopped:       "Stopped",
	Faulted:       "Faulted",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}
