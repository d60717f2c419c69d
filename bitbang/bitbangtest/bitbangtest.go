// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bitbangtest implements a fake SPI register device that is driven
// by gpio pin transitions, so code using package bitbang can be tested
// without hardware.
//
// The device follows the LIS3x command format: the first byte holds the
// register address in bits 5..0, bit 7 set for a read and bit 6 set to
// auto-increment the address. The device answers on the rising clock edge
// convention of SPI modes 0 and 3.
package bitbangtest

import (
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

const (
	cmdRead      = 0x80
	cmdIncrement = 0x40
	addrMask     = 0x3F
)

// Device is the fake. Wire CLK, MOSI, MISO and CS to bitbang.New.
type Device struct {
	CLK  *Clock
	MOSI *gpiotest.Pin
	MISO *gpiotest.Pin
	CS   *Select

	mu     sync.Mutex
	regs   [addrMask + 1]byte
	frames [][]byte

	selected bool
	edges    int
	shift    byte
	cmd      byte
	frame    []byte
}

// New returns a device with all registers zero.
func New() *Device {
	d := &Device{
		MOSI: &gpiotest.Pin{N: "MOSI", Num: 10},
		MISO: &gpiotest.Pin{N: "MISO", Num: 9},
	}
	d.CLK = &Clock{Pin: &gpiotest.Pin{N: "CLK", Num: 11, L: gpio.High}, d: d}
	d.CS = &Select{Pin: &gpiotest.Pin{N: "CS", Num: 8, L: gpio.High}, d: d}
	return d
}

// Set stores v in register reg.
func (d *Device) Set(reg, v byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.regs[reg&addrMask] = v
}

// Get returns register reg.
func (d *Device) Get(reg byte) byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regs[reg&addrMask]
}

// Frames returns the bytes received, one slice per chip select assertion.
func (d *Device) Frames() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(d.frames))
	copy(out, d.frames)
	return out
}

// Clock is the CLK pin.
type Clock struct {
	*gpiotest.Pin
	d *Device
}

// Out drives the clock and lets the device react to the edge.
func (c *Clock) Out(l gpio.Level) error {
	prev := c.Pin.Read()
	if err := c.Pin.Out(l); err != nil {
		return err
	}
	switch {
	case prev == gpio.Low && l == gpio.High:
		c.d.rising()
	case prev == gpio.High && l == gpio.Low:
		c.d.falling()
	}
	return nil
}

// Select is the active low chip select pin.
type Select struct {
	*gpiotest.Pin
	d *Device
}

// Out drives the chip select.
func (s *Select) Out(l gpio.Level) error {
	prev := s.Pin.Read()
	if err := s.Pin.Out(l); err != nil {
		return err
	}
	switch {
	case prev == gpio.High && l == gpio.Low:
		s.d.selectDevice()
	case prev == gpio.Low && l == gpio.High:
		s.d.deselect()
	}
	return nil
}

func (d *Device) selectDevice() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selected = true
	d.edges = 0
	d.shift = 0
	d.cmd = 0
	d.frame = nil
	d.present()
}

func (d *Device) deselect() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected {
		d.frames = append(d.frames, d.frame)
	}
	d.selected = false
}

// rising samples MOSI.
func (d *Device) rising() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.selected {
		return
	}
	d.shift <<= 1
	if d.MOSI.Read() == gpio.High {
		d.shift |= 1
	}
	d.edges++
	if d.edges%8 != 0 {
		return
	}
	b := d.shift
	d.shift = 0
	d.frame = append(d.frame, b)
	n := d.edges/8 - 1
	switch {
	case n == 0:
		d.cmd = b
	case d.cmd&cmdRead == 0:
		d.regs[d.addr(n-1)] = b
	}
}

// falling shifts the next bit out on MISO.
func (d *Device) falling() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected {
		d.present()
	}
}

func (d *Device) present() {
	n := d.edges / 8
	var out byte
	if n >= 1 && d.cmd&cmdRead != 0 {
		out = d.regs[d.addr(n-1)]
	}
	bit := 7 - uint(d.edges%8)
	_ = d.MISO.Out((out>>bit)&1 == 1)
}

func (d *Device) addr(i int) byte {
	a := d.cmd & addrMask
	if d.cmd&cmdIncrement != 0 {
		a += byte(i)
	}
	return a & addrMask
}
