// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bitbang implements a software SPI port on four gpio pins.
//
// It is meant for boards where the sensor is wired to arbitrary pins instead
// of a hardware SPI controller. Only modes 0 and 3 are supported, which
// covers devices that sample on the rising clock edge. Transfers are MSB
// first, 8 bits per word.
package bitbang

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// SPI is a software SPI port. It implements spi.PortCloser and, once
// connected, spi.Conn.
type SPI struct {
	clk  gpio.PinOut
	mosi gpio.PinOut
	miso gpio.PinIn
	cs   gpio.PinOut

	mu        sync.Mutex
	mode      spi.Mode
	halfCycle time.Duration
	maxHz     physic.Frequency
	connected bool
}

// New returns a port using the given pins. cs may be nil when the chip
// select is handled elsewhere or the device has none.
func New(clk, mosi gpio.PinOut, miso gpio.PinIn, cs gpio.PinOut) (*SPI, error) {
	if clk == nil || mosi == nil || miso == nil {
		return nil, errors.New("bitbang: clk, mosi and miso are required")
	}
	if err := miso.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("bitbang: %s: %w", miso, err)
	}
	if cs != nil {
		if err := cs.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("bitbang: %s: %w", cs, err)
		}
	}
	return &SPI{clk: clk, mosi: mosi, miso: miso, cs: cs}, nil
}

func (s *SPI) String() string {
	return fmt.Sprintf("bitbang/%s/%s/%s", s.clk, s.mosi, s.miso)
}

// Close implements spi.PortCloser. The pins are left as they are.
func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}

// LimitSpeed implements spi.PortCloser.
func (s *SPI) LimitSpeed(f physic.Frequency) error {
	if f <= 0 {
		return errors.New("bitbang: invalid speed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxHz = f
	return nil
}

// Connect implements spi.Port. The frequency is an upper bound; toggling
// pins from user space is usually far slower.
func (s *SPI) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if f < 0 {
		return nil, errors.New("bitbang: invalid speed")
	}
	if bits != 8 {
		return nil, fmt.Errorf("bitbang: %d bits per word is not supported", bits)
	}
	if mode&(spi.HalfDuplex|spi.LSBFirst) != 0 {
		return nil, errors.New("bitbang: only full duplex MSB first is supported")
	}
	m := mode &^ spi.NoCS
	if m != spi.Mode0 && m != spi.Mode3 {
		return nil, fmt.Errorf("bitbang: mode %v is not supported", m)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected {
		return nil, errors.New("bitbang: already connected")
	}
	if s.maxHz != 0 && (f == 0 || f > s.maxHz) {
		f = s.maxHz
	}
	s.mode = mode
	s.halfCycle = 0
	if f != 0 {
		s.halfCycle = f.Period() / 2
	}
	if err := s.clk.Out(s.idle()); err != nil {
		return nil, err
	}
	s.connected = true
	return s, nil
}

// Duplex implements conn.Conn.
func (s *SPI) Duplex() conn.Duplex {
	return conn.Full
}

// Tx implements conn.Conn. When r is not nil it must be the same length as
// w.
func (s *SPI) Tx(w, r []byte) error {
	return s.TxPackets([]spi.Packet{{W: w, R: r}})
}

// TxPackets implements spi.Conn. Chip select is held across packets with
// KeepCS set.
func (s *SPI) TxPackets(p []spi.Packet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return errors.New("bitbang: not connected")
	}
	for i := range p {
		if len(p[i].R) != 0 && len(p[i].R) != len(p[i].W) {
			return fmt.Errorf("bitbang: packet %d: r and w must be the same length", i)
		}
	}
	selected := false
	for i := range p {
		if !selected {
			if err := s.selectDevice(gpio.Low); err != nil {
				return err
			}
			selected = true
		}
		if err := s.transfer(p[i].W, p[i].R); err != nil {
			_ = s.selectDevice(gpio.High)
			return err
		}
		if !p[i].KeepCS || i == len(p)-1 {
			if err := s.selectDevice(gpio.High); err != nil {
				return err
			}
			selected = false
		}
	}
	return nil
}

func (s *SPI) idle() gpio.Level {
	return s.mode&spi.Mode3 == spi.Mode3
}

func (s *SPI) selectDevice(l gpio.Level) error {
	if s.cs == nil || s.mode&spi.NoCS != 0 {
		return nil
	}
	return s.cs.Out(l)
}

// transfer clocks the bytes out MSB first. Data is set up while the clock is
// low and both sides sample on the rising edge.
func (s *SPI) transfer(w, r []byte) error {
	for i := range w {
		out := w[i]
		var in byte
		for bit := 7; bit >= 0; bit-- {
			if err := s.clk.Out(gpio.Low); err != nil {
				return err
			}
			if err := s.mosi.Out(out&(1<<uint(bit)) != 0); err != nil {
				return err
			}
			s.wait()
			if err := s.clk.Out(gpio.High); err != nil {
				return err
			}
			if s.miso.Read() == gpio.High {
				in |= 1 << uint(bit)
			}
			s.wait()
		}
		if len(r) != 0 {
			r[i] = in
		}
	}
	return s.clk.Out(s.idle())
}

func (s *SPI) wait() {
	if s.halfCycle > 0 {
		time.Sleep(s.halfCycle)
	}
}

var (
	_ spi.PortCloser = &SPI{}
	_ spi.Conn       = &SPI{}
)
