// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lis3x

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
)

// DataRate selects the power mode and output data rate of the LIS331 family.
// The numeric value of a DataRate is not its register code; use Code.
type DataRate int

const (
	PowerDown DataRate = iota
	Rate50Hz
	Rate100Hz
	Rate400Hz
	Rate1000Hz
	LowPower0_5Hz
	LowPower1Hz
	LowPower2Hz
	LowPower5Hz
	LowPower10Hz
)

// dataRateCodes are the PM[2:0]|DR[1:0] codes of CTRL_REG1 bits 7..3.
var dataRateCodes = map[DataRate]byte{
	PowerDown:     0x00,
	Rate50Hz:      0x04,
	Rate100Hz:     0x05,
	Rate400Hz:     0x06,
	Rate1000Hz:    0x07,
	LowPower0_5Hz: 0x08,
	LowPower1Hz:   0x0C,
	LowPower2Hz:   0x10,
	LowPower5Hz:   0x14,
	LowPower10Hz:  0x18,
}

var dataRateFrequencies = map[DataRate]physic.Frequency{
	Rate50Hz:      50 * physic.Hertz,
	Rate100Hz:     100 * physic.Hertz,
	Rate400Hz:     400 * physic.Hertz,
	Rate1000Hz:    1000 * physic.Hertz,
	LowPower0_5Hz: 500 * physic.MilliHertz,
	LowPower1Hz:   physic.Hertz,
	LowPower2Hz:   2 * physic.Hertz,
	LowPower5Hz:   5 * physic.Hertz,
	LowPower10Hz:  10 * physic.Hertz,
}

// Code returns the register code of r. ok is false if r is not a DataRate
// constant.
func (r DataRate) Code() (code byte, ok bool) {
	code, ok = dataRateCodes[r]
	return code, ok
}

// Frequency returns the output data rate, 0 when powered down.
func (r DataRate) Frequency() physic.Frequency {
	return dataRateFrequencies[r]
}

// Period returns the time between two samples, 0 when powered down.
func (r DataRate) Period() time.Duration {
	f := r.Frequency()
	if f == 0 {
		return 0
	}
	return f.Period()
}

func (r DataRate) String() string {
	if r == PowerDown {
		return "PowerDown"
	}
	f, ok := dataRateFrequencies[r]
	if !ok {
		return fmt.Sprintf("DataRate(%d)", int(r))
	}
	if r >= LowPower0_5Hz {
		return "LowPower" + f.String()
	}
	return f.String()
}

// DataRateFromCode is the inverse of DataRate.Code.
func DataRateFromCode(code byte) (DataRate, error) {
	for r, c := range dataRateCodes {
		if c == code {
			return r, nil
		}
	}
	return PowerDown, fmt.Errorf("lis3x: data rate code %#02x: %w", code, ErrUnknownCode)
}

// ParseDataRate returns the DataRate whose String is s.
func ParseDataRate(s string) (DataRate, error) {
	for r := range dataRateCodes {
		if r.String() == s {
			return r, nil
		}
	}
	return PowerDown, fmt.Errorf("lis3x: data rate %q: %w", s, ErrInvalidOption)
}
