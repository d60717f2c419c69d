// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lis3x

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DebugF the debug function type.
type DebugF func(string, ...interface{})

// Transport reads and writes single device registers. Errors are
// *TransportError.
type Transport interface {
	fmt.Stringer
	ReadRegister(reg byte) (byte, error)
	WriteRegister(reg, value byte) error
}

// BurstReader is implemented by transports that can read consecutive
// registers in one bus transaction.
type BurstReader interface {
	ReadRegisters(reg byte, b []byte) error
}

const (
	// DefaultI2CAddr is the address with SA0 tied low.
	DefaultI2CAddr uint16 = 0x18
	// AltI2CAddr is the address with SA0 tied high.
	AltI2CAddr uint16 = 0x19

	i2cAutoIncrement byte = 0x80 // Sub-address MSB
	spiRead          byte = 0x80 // RW bit
	spiAutoIncrement byte = 0x40 // MS bit
	spiAddrMask      byte = 0x3F
)

// I2CTransport talks to the device on an I²C bus.
type I2CTransport struct {
	d     *i2c.Dev
	debug DebugF
}

// NewI2CTransport returns a Transport for the device at addr on b.
func NewI2CTransport(b i2c.Bus, addr uint16) *I2CTransport {
	return &I2CTransport{d: &i2c.Dev{Bus: b, Addr: addr}, debug: noop}
}

// EnableDebug sets the debugging output function.
func (t *I2CTransport) EnableDebug(f DebugF) {
	t.debug = f
}

func (t *I2CTransport) ReadRegister(reg byte) (byte, error) {
	var r [1]byte
	if err := t.d.Tx([]byte{reg}, r[:]); err != nil {
		return 0, newTransportError("read", reg, err)
	}
	t.debug("read register %#x: %#x", reg, r[0])
	return r[0], nil
}

func (t *I2CTransport) WriteRegister(reg, value byte) error {
	t.debug("write register %#x value %#x", reg, value)
	if err := t.d.Tx([]byte{reg, value}, nil); err != nil {
		return newTransportError("write", reg, err)
	}
	return nil
}

// ReadRegisters reads len(b) registers starting at reg in one transaction.
func (t *I2CTransport) ReadRegisters(reg byte, b []byte) error {
	if err := t.d.Tx([]byte{reg | i2cAutoIncrement}, b); err != nil {
		return newTransportError("read", reg, err)
	}
	t.debug("read registers %#x: % x", reg, b)
	return nil
}

func (t *I2CTransport) String() string {
	return t.d.String()
}

// SPIOpts configures an SPI transport.
type SPIOpts struct {
	// Frequency of the bus clock. 0 means DefaultSPIOpts.Frequency. The
	// family supports up to 10MHz.
	Frequency physic.Frequency
	// CS is an optional chip-select pin driven by the driver. When nil the
	// SPI port's own chip-select is used.
	CS gpio.PinOut
}

// DefaultSPIOpts are used when NewSPITransport gets nil options.
var DefaultSPIOpts = SPIOpts{
	Frequency: physic.MegaHertz,
}

// SPIMode is the mode the chips require: clock idles high, data is sampled on
// the rising edge.
const SPIMode = spi.Mode3

// SPITransport talks to the device over SPI, hardware or bit-banged.
type SPITransport struct {
	c     spi.Conn
	cs    gpio.PinOut
	debug DebugF
}

// NewSPITransport connects to p.
func NewSPITransport(p spi.Port, o *SPIOpts) (*SPITransport, error) {
	if o == nil {
		o = &DefaultSPIOpts
	}
	f := o.Frequency
	if f == 0 {
		f = DefaultSPIOpts.Frequency
	}
	mode := SPIMode
	if o.CS != nil {
		mode |= spi.NoCS
		if err := o.CS.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("lis3x: can't deselect %s: %w", o.CS, err)
		}
	}
	c, err := p.Connect(f, mode, 8)
	if err != nil {
		return nil, fmt.Errorf("lis3x: can't initialize SPI: %w", err)
	}
	return &SPITransport{c: c, cs: o.CS, debug: noop}, nil
}

// EnableDebug sets the debugging output function.
func (t *SPITransport) EnableDebug(f DebugF) {
	t.debug = f
}

func (t *SPITransport) ReadRegister(reg byte) (byte, error) {
	var (
		w = [...]byte{spiRead | reg&spiAddrMask, 0}
		r [2]byte
	)
	if err := t.tx("read", reg, w[:], r[:]); err != nil {
		return 0, err
	}
	t.debug("read register %#x: %#x", reg, r[1])
	return r[1], nil
}

func (t *SPITransport) WriteRegister(reg, value byte) error {
	t.debug("write register %#x value %#x", reg, value)
	w := [...]byte{reg & spiAddrMask, value}
	return t.tx("write", reg, w[:], nil)
}

// ReadRegisters reads len(b) registers starting at reg in one transaction.
func (t *SPITransport) ReadRegisters(reg byte, b []byte) error {
	w := make([]byte, len(b)+1)
	r := make([]byte, len(w))
	w[0] = spiRead | spiAutoIncrement | reg&spiAddrMask
	if err := t.tx("read", reg, w, r); err != nil {
		return err
	}
	copy(b, r[1:])
	t.debug("read registers %#x: % x", reg, b)
	return nil
}

func (t *SPITransport) String() string {
	if t.cs == nil {
		return t.c.String()
	}
	return fmt.Sprintf("%s/%s", t.c, t.cs)
}

func (t *SPITransport) tx(op string, reg byte, w, r []byte) error {
	if t.cs != nil {
		if err := t.cs.Out(gpio.Low); err != nil {
			return newTransportError(op, reg, err)
		}
	}
	err := t.c.Tx(w, r)
	if t.cs != nil {
		if err2 := t.cs.Out(gpio.High); err == nil {
			err = err2
		}
	}
	if err != nil {
		return newTransportError(op, reg, err)
	}
	return nil
}

func newTransportError(op string, reg byte, err error) error {
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Kind: classify(err), Op: op, Reg: reg, Err: err}
}

// classify maps a bus error to a TransportErrorKind. Some periph drivers
// format the errno with %v, so the message is checked too.
func classify(err error) TransportErrorKind {
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	for _, e := range timeoutErrnos {
		if errors.Is(err, e) {
			return Timeout
		}
	}
	for _, e := range noAckErrnos {
		if errors.Is(err, e) {
			return NoAck
		}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timed out"), strings.Contains(msg, "timeout"):
		return Timeout
	case strings.Contains(msg, "remote i/o error"), strings.Contains(msg, "no such device or address"), strings.Contains(msg, "nack"):
		return NoAck
	}
	return BusFault
}

func noop(string, ...interface{}) {}

var (
	_ Transport   = &I2CTransport{}
	_ BurstReader = &I2CTransport{}
	_ Transport   = &SPITransport{}
	_ BurstReader = &SPITransport{}
)
