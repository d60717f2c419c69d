// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lis331hh

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/accel/lis3x"
)

// Range is the full-scale measurement range.
type Range int

const (
	Range6G  Range = iota // ±6g
	Range12G              // ±12g
	Range24G              // ±24g
)

var rangeCodes = map[Range]byte{
	Range6G:  0x0,
	Range12G: 0x1,
	Range24G: 0x3,
}

var sensitivities = map[byte]lis3x.Acceleration{
	0x0: 3 * lis3x.MilliG,
	0x1: 6 * lis3x.MilliG,
	0x3: 12 * lis3x.MilliG,
}

func (r Range) String() string {
	switch r {
	case Range6G:
		return "6g"
	case Range12G:
		return "12g"
	case Range24G:
		return "24g"
	}
	return fmt.Sprintf("Range(%d)", int(r))
}

// ParseRange returns the Range whose String is s.
func ParseRange(s string) (Range, error) {
	for r := range rangeCodes {
		if r.String() == s {
			return r, nil
		}
	}
	return Range6G, fmt.Errorf("lis331hh: range %q: %w", s, lis3x.ErrInvalidOption)
}

func rangeFromCode(code byte) (Range, error) {
	for r, c := range rangeCodes {
		if c == code {
			return r, nil
		}
	}
	return Range6G, fmt.Errorf("lis331hh: range code %#02x: %w", code, lis3x.ErrUnknownCode)
}

// Code returns the register code of r.
func (r Range) Code() (code byte, ok bool) {
	code, ok = rangeCodes[r]
	return code, ok
}

// Sensitivity returns the acceleration of one count.
func (r Range) Sensitivity() lis3x.Acceleration {
	return sensitivities[rangeCodes[r]]
}

// FullScale returns the largest magnitude r can measure.
func (r Range) FullScale() lis3x.Acceleration {
	switch r {
	case Range6G:
		return 6 * lis3x.StandardGravity
	case Range12G:
		return 12 * lis3x.StandardGravity
	case Range24G:
		return 24 * lis3x.StandardGravity
	}
	return 0
}

type chip struct{}

var registers = lis3x.LIS331Map()

func (chip) Name() string                  { return "LIS331HH" }
func (chip) Registers() *lis3x.RegisterMap { return &registers }
func (chip) CheckIdentity(id byte) bool    { return id == registers.WhoAmI }

func (chip) Sensitivity(code byte) (lis3x.Acceleration, error) {
	s, ok := sensitivities[code]
	if !ok {
		return 0, fmt.Errorf("lis331hh: range code %#02x: %w", code, lis3x.ErrInvalidOption)
	}
	return s, nil
}

// Chip is the LIS331HH description used by lis3x.New.
var Chip lis3x.Chip = chip{}

// Opts holds the configuration applied on start.
type Opts struct {
	DataRate lis3x.DataRate
	Range    Range
	SPI      lis3x.SPIOpts
	// SensorID is an application defined tag reported by Dev.SensorID.
	SensorID int32
	Debug    lis3x.DebugF
}

// DefaultOpts is used when the constructors get nil options.
var DefaultOpts = Opts{
	DataRate: lis3x.Rate50Hz,
	Range:    Range6G,
	SPI:      lis3x.DefaultSPIOpts,
}

// Dev is a LIS331HH.
//
// The embedded lis3x.Dev exposes sensing and the raw data rate code access.
type Dev struct {
	*lis3x.Dev
}

// NewI2C returns a Dev for the device at addr on b.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	return New(lis3x.NewI2CTransport(b, addr), opts)
}

// NewSPI returns a Dev on an SPI port.
func NewSPI(p spi.Port, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	t, err := lis3x.NewSPITransport(p, &opts.SPI)
	if err != nil {
		return nil, err
	}
	return New(t, opts)
}

// New returns a Dev on any lis3x.Transport.
func New(t lis3x.Transport, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	rate, ok := opts.DataRate.Code()
	if !ok {
		return nil, fmt.Errorf("lis331hh: data rate %d: %w", int(opts.DataRate), lis3x.ErrInvalidOption)
	}
	rng, ok := opts.Range.Code()
	if !ok {
		return nil, fmt.Errorf("lis331hh: range %d: %w", int(opts.Range), lis3x.ErrInvalidOption)
	}
	d, err := lis3x.New(t, Chip, &lis3x.Opts{DataRate: rate, Range: rng, SensorID: opts.SensorID, Debug: opts.Debug})
	if err != nil {
		return nil, err
	}
	return &Dev{Dev: d}, nil
}

// SetDataRate changes the power mode and output data rate.
func (d *Dev) SetDataRate(r lis3x.DataRate) error {
	code, ok := r.Code()
	if !ok {
		return fmt.Errorf("lis331hh: data rate %d: %w", int(r), lis3x.ErrInvalidOption)
	}
	return d.SetDataRateCode(code)
}

// DataRate reads the data rate from the device.
func (d *Dev) DataRate() (lis3x.DataRate, error) {
	code, err := d.DataRateCode()
	if err != nil {
		return lis3x.PowerDown, err
	}
	return lis3x.DataRateFromCode(code)
}

// SetRange changes the full-scale range.
func (d *Dev) SetRange(r Range) error {
	code, ok := r.Code()
	if !ok {
		return fmt.Errorf("lis331hh: range %d: %w", int(r), lis3x.ErrInvalidOption)
	}
	return d.SetRangeCode(code)
}

// Range returns the range in effect.
func (d *Dev) Range() Range {
	// Only codes from rangeCodes are ever written.
	r, _ := rangeFromCode(d.RangeCode())
	return r
}

var _ conn.Resource = &Dev{}
