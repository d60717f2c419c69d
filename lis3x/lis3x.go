// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lis3x

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
)

// Chip is what a chip package provides to the core.
type Chip interface {
	// Name is used in String and errors.
	Name() string
	// Registers returns the chip's register map. It must not change.
	Registers() *RegisterMap
	// CheckIdentity reports whether id, read from the identity register,
	// belongs to this chip.
	CheckIdentity(id byte) bool
	// Sensitivity returns the acceleration of one output count for a Range
	// code, or an error wrapping ErrInvalidOption.
	Sensitivity(rangeCode byte) (Acceleration, error)
}

// Opts is the configuration applied by New, as register codes.
type Opts struct {
	DataRate byte
	Range    byte
	// SensorID is an application defined tag kept with the Dev. It is never
	// sent to the device.
	SensorID int32
	// Debug, when set, receives register level traces from the core and from
	// the transport if it has an EnableDebug method.
	Debug DebugF
}

// Dev is a LIS3x accelerometer.
//
// Dev is safe for concurrent use; every method holds a lock for its whole
// read-modify-write sequence. Two Dev must never share one device.
type Dev struct {
	mu        sync.Mutex
	t         Transport
	chip      Chip
	regs      *RegisterMap
	rangeCode byte
	scale     Acceleration
	sensorID  int32
	stop      chan struct{}
	debug     DebugF
}

// New identifies the device on t and applies o.
//
// The identity register is read first. When it doesn't match, nothing is
// written and an *InitError of kind IdentityMismatch is returned. Otherwise
// the data rate and range are written with the axes and block data update
// enabled. Any bus failure returns an *InitError of kind
// TransportUnavailable wrapping the *TransportError. The returned Dev is nil
// on error.
func New(t Transport, c Chip, o *Opts) (*Dev, error) {
	if o == nil {
		o = &Opts{}
	}
	d := &Dev{t: t, chip: c, regs: c.Registers(), sensorID: o.SensorID, debug: noop}
	if o.Debug != nil {
		d.debug = o.Debug
		if e, ok := t.(interface{ EnableDebug(DebugF) }); ok {
			e.EnableDebug(o.Debug)
		}
	}
	if err := d.init(o); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) init(o *Opts) error {
	scale, err := d.chip.Sensitivity(o.Range)
	if err != nil {
		return err
	}
	unavailable := func(err error) error {
		return &InitError{Kind: TransportUnavailable, Chip: d.chip.Name(), Err: err}
	}
	id, err := d.t.ReadRegister(d.regs.WhoAmIReg)
	if err != nil {
		return unavailable(err)
	}
	if !d.chip.CheckIdentity(id) {
		return &InitError{Kind: IdentityMismatch, Chip: d.chip.Name(), Got: id, Want: d.regs.WhoAmI}
	}
	dr := d.regs.DataRate
	if err := d.update(dr.Reg, dr.Mask|d.regs.AxesEnable, dr.Encode(o.DataRate)|d.regs.AxesEnable); err != nil {
		return unavailable(err)
	}
	rg := d.regs.Range
	if err := d.update(rg.Reg, rg.Mask|d.regs.BlockDataUpdate, rg.Encode(o.Range)|d.regs.BlockDataUpdate); err != nil {
		return unavailable(err)
	}
	d.rangeCode = o.Range
	d.scale = scale
	d.debug("%s initialized: data rate %#x, range %#x", d.chip.Name(), o.DataRate, o.Range)
	return nil
}

// SetDataRateCode writes code in the data rate field, leaving the other bits
// of the register untouched.
func (d *Dev) SetDataRateCode(code byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	f := d.regs.DataRate
	return d.update(f.Reg, f.Mask, f.Encode(code))
}

// DataRateCode reads the data rate field back from the device.
func (d *Dev) DataRateCode() (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f := d.regs.DataRate
	v, err := d.t.ReadRegister(f.Reg)
	if err != nil {
		return 0, err
	}
	return f.Decode(v), nil
}

// SetRangeCode writes code in the range field. The range used to scale
// samples changes only once the write succeeded.
func (d *Dev) SetRangeCode(code byte) error {
	scale, err := d.chip.Sensitivity(code)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	f := d.regs.Range
	if err := d.update(f.Reg, f.Mask, f.Encode(code)); err != nil {
		return err
	}
	d.rangeCode = code
	d.scale = scale
	return nil
}

// RangeCode returns the range in effect. The device is not read; Dev is the
// only writer of the field.
func (d *Dev) RangeCode() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rangeCode
}

// Sensitivity returns the acceleration of one count at the current range.
func (d *Dev) Sensitivity() Acceleration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scale
}

// ReadRaw reads the three axes.
func (d *Dev) ReadRaw() (RawSample, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readRaw()
}

// Sense reads the three axes and scales them with the current range.
func (d *Dev) Sense() (Sample, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, err := d.readRaw()
	if err != nil {
		return Sample{}, err
	}
	return r.Scale(d.scale), nil
}

// SenseContinuous reads a Sample every interval and sends it on the returned
// channel. Samples are dropped while the channel is full and failed reads
// are skipped. Call Halt to stop; the channel is then closed.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan Sample, error) {
	if interval <= 0 {
		return nil, errors.New("lis3x: invalid interval")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("lis3x: SenseContinuous already running")
	}
	const channelSize = 16
	ch := make(chan Sample, channelSize)
	d.stop = make(chan struct{})
	go d.senseLoop(interval, ch, d.stop)
	return ch, nil
}

func (d *Dev) senseLoop(interval time.Duration, ch chan<- Sample, stop <-chan struct{}) {
	defer close(ch)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			s, err := d.Sense()
			if err != nil {
				d.debug("%s: sense: %v", d.chip.Name(), err)
				continue
			}
			select {
			case <-stop:
				return
			case ch <- s:
			default:
			}
		}
	}
}

// Halt stops SenseContinuous and powers the device down. Implements
// conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		close(d.stop)
		d.stop = nil
	}
	f := d.regs.DataRate
	return d.update(f.Reg, f.Mask, f.Encode(d.regs.PowerDown))
}

// SensorID returns Opts.SensorID.
func (d *Dev) SensorID() int32 {
	return d.sensorID
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{%s}{SensorID:%d}", d.chip.Name(), d.t, d.sensorID)
}

// update is a read-modify-write of the bits in mask.
func (d *Dev) update(reg, mask, value byte) error {
	old, err := d.t.ReadRegister(reg)
	if err != nil {
		return err
	}
	v := old&^mask | value&mask
	d.debug("update register %#x: %#x -> %#x", reg, old, v)
	return d.t.WriteRegister(reg, v)
}

// readRaw reads the six output registers. With a BurstReader this is one
// transaction. Otherwise the registers are read one at a time and an axis
// may come from a newer conversion than another; BDU only keeps the two
// bytes of one axis together.
func (d *Dev) readRaw() (RawSample, error) {
	var b [6]byte
	if br, ok := d.t.(BurstReader); ok {
		if err := br.ReadRegisters(d.regs.OutX, b[:]); err != nil {
			return RawSample{}, err
		}
	} else {
		for i := range b {
			v, err := d.t.ReadRegister(d.regs.OutX + byte(i))
			if err != nil {
				return RawSample{}, err
			}
			b[i] = v
		}
	}
	s := d.regs.ResolutionShift
	return RawSample{
		X: int16(uint16(b[1])<<8|uint16(b[0])) >> s,
		Y: int16(uint16(b[3])<<8|uint16(b[2])) >> s,
		Z: int16(uint16(b[5])<<8|uint16(b[4])) >> s,
	}, nil
}

var _ conn.Resource = &Dev{}
