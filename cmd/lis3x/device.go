// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/accel/bitbang"
	"github.com/GermanBionicSystems/accel/h3lis331"
	"github.com/GermanBionicSystems/accel/lis331hh"
	"github.com/GermanBionicSystems/accel/lis3x"
)

// sensor is what both chip drivers provide.
type sensor interface {
	conn.Resource
	Sense() (lis3x.Sample, error)
	SenseContinuous(interval time.Duration) (<-chan lis3x.Sample, error)
}

// device is an opened sensor and the bus it sits on.
type device struct {
	sensor
	fullScale lis3x.Acceleration
	period    time.Duration
	closers   []io.Closer
}

func (d *device) Close() error {
	err := d.Halt()
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err2 := d.closers[i].Close(); err == nil {
			err = err2
		}
	}
	return err
}

func openDevice(c *config) (*device, error) {
	s, err := c.validate()
	if err != nil {
		return nil, err
	}
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	d := &device{fullScale: s.fullScale, period: s.dataRate.Period()}
	t, err := openTransport(c, s, d)
	if err != nil {
		d.closeBus()
		return nil, err
	}
	var debug lis3x.DebugF
	if c.Debug {
		debug = log.Printf
	}
	switch c.Chip {
	case "h3lis331":
		d.sensor, err = h3lis331.New(t, &h3lis331.Opts{DataRate: s.dataRate, Range: s.h3Range, SensorID: c.SensorID, Debug: debug})
	case "lis331hh":
		d.sensor, err = lis331hh.New(t, &lis331hh.Opts{DataRate: s.dataRate, Range: s.hhRange, SensorID: c.SensorID, Debug: debug})
	}
	if err != nil {
		d.closeBus()
		return nil, err
	}
	return d, nil
}

func openTransport(c *config, s settings, d *device) (lis3x.Transport, error) {
	switch c.Bus {
	case "i2c":
		b, err := i2creg.Open(c.I2C.Name)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, b)
		return lis3x.NewI2CTransport(b, c.I2C.Addr), nil
	case "spi":
		p, err := spireg.Open(c.SPI.Name)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, p)
		o := lis3x.SPIOpts{Frequency: s.frequency}
		if c.SPI.CS != "" {
			if o.CS, err = pin(c.SPI.CS); err != nil {
				return nil, err
			}
		}
		return lis3x.NewSPITransport(p, &o)
	case "softspi":
		var pins [4]gpio.PinIO
		for i, name := range []string{c.SoftSPI.CLK, c.SoftSPI.MOSI, c.SoftSPI.MISO, c.SoftSPI.CS} {
			if name == "" {
				continue
			}
			p, err := pin(name)
			if err != nil {
				return nil, err
			}
			pins[i] = p
		}
		var cs gpio.PinOut
		if pins[3] != nil {
			cs = pins[3]
		}
		p, err := bitbang.New(pins[0], pins[1], pins[2], cs)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, p)
		return lis3x.NewSPITransport(p, &lis3x.SPIOpts{Frequency: s.frequency})
	}
	return nil, fmt.Errorf("unknown bus %q", c.Bus)
}

func (d *device) closeBus() {
	for _, c := range d.closers {
		_ = c.Close()
	}
	d.closers = nil
}

func pin(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, errors.New("failed to find pin " + name)
	}
	return p, nil
}
