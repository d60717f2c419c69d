// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package h3lis331

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/accel/bitbang"
	"github.com/GermanBionicSystems/accel/lis3x"
)

// DataRate is the power mode and output data rate, shared with the rest of
// the LIS331 family.
type DataRate = lis3x.DataRate

const (
	PowerDown     = lis3x.PowerDown
	Rate50Hz      = lis3x.Rate50Hz
	Rate100Hz     = lis3x.Rate100Hz
	Rate400Hz     = lis3x.Rate400Hz
	Rate1000Hz    = lis3x.Rate1000Hz
	LowPower0_5Hz = lis3x.LowPower0_5Hz
	LowPower1Hz   = lis3x.LowPower1Hz
	LowPower2Hz   = lis3x.LowPower2Hz
	LowPower5Hz   = lis3x.LowPower5Hz
	LowPower10Hz  = lis3x.LowPower10Hz
)

// Range is the full-scale measurement range.
type Range int

const (
	Range100G Range = iota // ±100g
	Range200G              // ±200g
	Range400G              // ±400g
)

// rangeCodes are the FS[1:0] codes of CTRL_REG4 bits 5..4.
var rangeCodes = map[Range]byte{
	Range100G: 0x0,
	Range200G: 0x1,
	Range400G: 0x3,
}

// sensitivities is the acceleration of one 12 bit count per FS code.
var sensitivities = map[byte]lis3x.Acceleration{
	0x0: 49 * lis3x.MilliG,
	0x1: 98 * lis3x.MilliG,
	0x3: 195 * lis3x.MilliG,
}

// Code returns the register code of r.
func (r Range) Code() (code byte, ok bool) {
	code, ok = rangeCodes[r]
	return code, ok
}

// FullScale returns the largest magnitude r can measure.
func (r Range) FullScale() lis3x.Acceleration {
	switch r {
	case Range100G:
		return 100 * lis3x.StandardGravity
	case Range200G:
		return 200 * lis3x.StandardGravity
	case Range400G:
		return 400 * lis3x.StandardGravity
	}
	return 0
}

// Sensitivity returns the acceleration of one count.
func (r Range) Sensitivity() lis3x.Acceleration {
	return sensitivities[rangeCodes[r]]
}

func (r Range) String() string {
	switch r {
	case Range100G:
		return "100g"
	case Range200G:
		return "200g"
	case Range400G:
		return "400g"
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
	return Range100G, fmt.Errorf("h3lis331: range %q: %w", s, lis3x.ErrInvalidOption)
}

func rangeFromCode(code byte) (Range, error) {
	for r, c := range rangeCodes {
		if c == code {
			return r, nil
		}
	}
	return Range100G, fmt.Errorf("h3lis331: range code %#02x: %w", code, lis3x.ErrUnknownCode)
}

// ExpectedDeviceID is the value of the WHO_AM_I register.
const ExpectedDeviceID = 0x32

type chip struct{}

var registers = lis3x.LIS331Map()

func (chip) Name() string                  { return "H3LIS331DL" }
func (chip) Registers() *lis3x.RegisterMap { return &registers }
func (chip) CheckIdentity(id byte) bool    { return id == ExpectedDeviceID }

func (chip) Sensitivity(code byte) (lis3x.Acceleration, error) {
	s, ok := sensitivities[code]
	if !ok {
		return 0, fmt.Errorf("h3lis331: range code %#02x: %w", code, lis3x.ErrInvalidOption)
	}
	return s, nil
}

// Chip is the H3LIS331DL description used by lis3x.New.
var Chip lis3x.Chip = chip{}

// Opts holds the configuration applied on start.
type Opts struct {
	DataRate DataRate
	Range    Range
	// SPI is used by NewSPI and NewSoftSPI.
	SPI lis3x.SPIOpts
	// SensorID is an application defined tag reported by Dev.SensorID, to
	// tell several sensors apart.
	SensorID int32
	// Debug receives register level traces when set.
	Debug lis3x.DebugF
}

// DefaultOpts is used when the constructors get nil options: the slowest
// normal mode rate and the most sensitive range.
var DefaultOpts = Opts{
	DataRate: Rate50Hz,
	Range:    Range100G,
	SPI:      lis3x.DefaultSPIOpts,
}

// Dev is a H3LIS331DL.
type Dev struct {
	d *lis3x.Dev
}

// NewI2C returns a Dev for the device at addr on b, lis3x.DefaultI2CAddr
// (SA0 low) or lis3x.AltI2CAddr (SA0 high).
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	return New(lis3x.NewI2CTransport(b, addr), opts)
}

// NewSPI returns a Dev on a hardware SPI port.
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

// NewSoftSPI returns a Dev on four gpio pins driven in software. cs is
// handled by the bit-banged port; opts.SPI.CS is ignored.
func NewSoftSPI(clk, mosi gpio.PinOut, miso gpio.PinIn, cs gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	p, err := bitbang.New(clk, mosi, miso, cs)
	if err != nil {
		return nil, err
	}
	o := *opts
	o.SPI.CS = nil
	return NewSPI(p, &o)
}

// New returns a Dev on any lis3x.Transport.
//
// The device identity is checked before anything is written. Errors are
// *lis3x.InitError, or wrap lis3x.ErrInvalidOption for values outside the
// tables above.
func New(t lis3x.Transport, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	rate, ok := opts.DataRate.Code()
	if !ok {
		return nil, fmt.Errorf("h3lis331: data rate %d: %w", int(opts.DataRate), lis3x.ErrInvalidOption)
	}
	rng, ok := opts.Range.Code()
	if !ok {
		return nil, fmt.Errorf("h3lis331: range %d: %w", int(opts.Range), lis3x.ErrInvalidOption)
	}
	d, err := lis3x.New(t, Chip, &lis3x.Opts{DataRate: rate, Range: rng, SensorID: opts.SensorID, Debug: opts.Debug})
	if err != nil {
		return nil, err
	}
	return &Dev{d: d}, nil
}

// SetDataRate changes the power mode and output data rate.
func (d *Dev) SetDataRate(r DataRate) error {
	code, ok := r.Code()
	if !ok {
		return fmt.Errorf("h3lis331: data rate %d: %w", int(r), lis3x.ErrInvalidOption)
	}
	return d.d.SetDataRateCode(code)
}

// DataRate reads the data rate from the device.
func (d *Dev) DataRate() (DataRate, error) {
	code, err := d.d.DataRateCode()
	if err != nil {
		return PowerDown, err
	}
	return lis3x.DataRateFromCode(code)
}

// SetRange changes the full-scale range. Samples read after a successful
// call are scaled for r.
func (d *Dev) SetRange(r Range) error {
	code, ok := r.Code()
	if !ok {
		return fmt.Errorf("h3lis331: range %d: %w", int(r), lis3x.ErrInvalidOption)
	}
	return d.d.SetRangeCode(code)
}

// Range returns the range in effect, without a bus transaction.
func (d *Dev) Range() Range {
	// Only codes from rangeCodes are ever written.
	r, _ := rangeFromCode(d.d.RangeCode())
	return r
}

// ReadRaw returns the three axes as counts.
func (d *Dev) ReadRaw() (lis3x.RawSample, error) {
	return d.d.ReadRaw()
}

// Sense returns the three axes scaled for the current range.
func (d *Dev) Sense() (lis3x.Sample, error) {
	return d.d.Sense()
}

// SenseContinuous sends a Sample every interval until Halt is called.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan lis3x.Sample, error) {
	return d.d.SenseContinuous(interval)
}

// SensorID returns the tag given in Opts.
func (d *Dev) SensorID() int32 {
	return d.d.SensorID()
}

// Halt stops SenseContinuous and powers the device down. Implements
// conn.Resource.
func (d *Dev) Halt() error {
	return d.d.Halt()
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{Range:%s}", d.d, d.Range())
}

var _ conn.Resource = &Dev{}
