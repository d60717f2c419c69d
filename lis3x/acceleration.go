// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lis3x

import (
	"fmt"
	"strconv"
)

// Acceleration is a measurement of acceleration stored as an int64 nano
// metre per second squared, following the conventions of periph's physic
// package.
//
// The highest representable value is about 940 million g.
type Acceleration int64

const (
	NanoMetrePerSecond2  Acceleration = 1
	MicroMetrePerSecond2 Acceleration = 1000 * NanoMetrePerSecond2
	MilliMetrePerSecond2 Acceleration = 1000 * MicroMetrePerSecond2
	MetrePerSecond2      Acceleration = 1000 * MilliMetrePerSecond2

	// StandardGravity is 1g, 9.80665 m/s².
	StandardGravity Acceleration = 9_806_650 * MicroMetrePerSecond2
	// MilliG is 1/1000 of StandardGravity. It is exact in this unit, which is
	// what lets every datasheet sensitivity be represented without rounding.
	MilliG Acceleration = StandardGravity / 1000
)

// G returns the value in units of standard gravity.
func (a Acceleration) G() float64 {
	return float64(a) / float64(StandardGravity)
}

// MetresPerSecond2 returns the value in m/s².
func (a Acceleration) MetresPerSecond2() float64 {
	return float64(a) / float64(MetrePerSecond2)
}

// String returns the value in g with 3 decimals.
func (a Acceleration) String() string {
	return strconv.FormatFloat(a.G(), 'f', 3, 64) + "g"
}

// RawSample is one reading of the three output registers pairs, as signed
// counts at the chip's resolution.
type RawSample struct {
	X int16
	Y int16
	Z int16
}

func (r RawSample) String() string {
	return fmt.Sprintf("X:%d Y:%d Z:%d", r.X, r.Y, r.Z)
}

// Sample is a RawSample scaled by the sensitivity of the range that was
// configured when it was read.
type Sample struct {
	X Acceleration
	Y Acceleration
	Z Acceleration
}

func (s Sample) String() string {
	return fmt.Sprintf("X:%s Y:%s Z:%s", s.X, s.Y, s.Z)
}

// Scale converts raw counts using sensitivity, the acceleration represented
// by one count.
func (r RawSample) Scale(sensitivity Acceleration) Sample {
	return Sample{
		X: Acceleration(r.X) * sensitivity,
		Y: Acceleration(r.Y) * sensitivity,
		Z: Acceleration(r.Z) * sensitivity,
	}
}
