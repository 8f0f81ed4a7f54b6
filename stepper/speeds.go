// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stepper

// Step rate presets of the rig's carriage, in feet per second, measured with
// DefaultTimerClock and DefaultPeriod.
const (
	Speed005FPS Velocity = 398
	Speed01FPS  Velocity = 198
	Speed02FPS  Velocity = 99
	Speed03FPS  Velocity = 66
	Speed04FPS  Velocity = 49
	Speed05FPS  Velocity = 38
	Speed06FPS  Velocity = 32
	Speed07FPS  Velocity = 27
	Speed08FPS  Velocity = 24
	Speed09FPS  Velocity = 21
	Speed10FPS  Velocity = 19
	Speed11FPS  Velocity = 17
	Speed12FPS  Velocity = 15
	Speed13FPS  Velocity = 14
	Speed14FPS  Velocity = 13
	Speed15FPS  Velocity = 12
	Speed16FPS  Velocity = 11
	// Speed17FPS is the same prescaler as Speed16FPS; the timer cannot
	// resolve the difference.
	Speed17FPS Velocity = 11
	Speed18FPS Velocity = 10
)
