// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lis3x

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"
)

func TestI2CTransport(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultI2CAddr, W: []byte{RegWhoAmI}, R: []byte{0x32}},
			{Addr: DefaultI2CAddr, W: []byte{RegCtrl1, 0x27}},
			{Addr: DefaultI2CAddr, W: []byte{RegOutXL | 0x80}, R: []byte{1, 2, 3, 4, 5, 6}},
		},
		DontPanic: true,
	}
	var traces []string
	tr := NewI2CTransport(bus, DefaultI2CAddr)
	tr.EnableDebug(func(f string, a ...interface{}) { traces = append(traces, fmt.Sprintf(f, a...)) })
	id, err := tr.ReadRegister(RegWhoAmI)
	if err != nil {
		t.Fatal(err)
	}
	if id != 0x32 {
		t.Errorf("got %#x", id)
	}
	if err := tr.WriteRegister(RegCtrl1, 0x27); err != nil {
		t.Fatal(err)
	}
	b := make([]byte, 6)
	if err := tr.ReadRegisters(RegOutXL, b); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(b, []byte{1, 2, 3, 4, 5, 6}); diff != "" {
		t.Errorf("burst (-got +want):\n%s", diff)
	}
	if len(traces) != 3 {
		t.Errorf("expected 3 traces, got %q", traces)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestI2CTransportError(t *testing.T) {
	// Playback with no ops fails every transaction.
	bus := &i2ctest.Playback{DontPanic: true}
	tr := NewI2CTransport(bus, AltI2CAddr)
	_, err := tr.ReadRegister(RegWhoAmI)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %#v", err)
	}
	if te.Op != "read" || te.Reg != RegWhoAmI {
		t.Errorf("unexpected %#v", te)
	}
	if err := tr.WriteRegister(RegCtrl4, 0); !errors.As(err, &te) || te.Op != "write" {
		t.Errorf("unexpected %v", err)
	}
}

func TestSPITransport(t *testing.T) {
	port := &spitest.Playback{
		Playback: conntest.Playback{
			Ops: []conntest.IO{
				{W: []byte{0x8F, 0x00}, R: []byte{0x00, 0x32}},
				{W: []byte{0x23, 0x90}},
				{W: []byte{0xE8, 0, 0, 0, 0, 0, 0}, R: []byte{0, 0x10, 0x00, 0xF0, 0xFF, 0x00, 0x80}},
			},
			DontPanic: true,
		},
	}
	tr, err := NewSPITransport(port, nil)
	if err != nil {
		t.Fatal(err)
	}
	id, err := tr.ReadRegister(RegWhoAmI)
	if err != nil {
		t.Fatal(err)
	}
	if id != 0x32 {
		t.Errorf("got %#x", id)
	}
	if err := tr.WriteRegister(RegCtrl4, 0x90); err != nil {
		t.Fatal(err)
	}
	b := make([]byte, 6)
	if err := tr.ReadRegisters(RegOutXL, b); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(b, []byte{0x10, 0x00, 0xF0, 0xFF, 0x00, 0x80}); diff != "" {
		t.Errorf("burst (-got +want):\n%s", diff)
	}
	if err := port.Close(); err != nil {
		t.Fatal(err)
	}
}

type levelPin struct {
	*gpiotest.Pin
	levels []gpio.Level
}

func (p *levelPin) Out(l gpio.Level) error {
	p.levels = append(p.levels, l)
	return p.Pin.Out(l)
}

func TestSPITransportChipSelect(t *testing.T) {
	port := &spitest.Playback{
		Playback: conntest.Playback{
			Ops:       []conntest.IO{{W: []byte{0x20, 0x07}}},
			DontPanic: true,
		},
	}
	cs := &levelPin{Pin: &gpiotest.Pin{N: "CS", Num: 8}}
	tr, err := NewSPITransport(port, &SPIOpts{Frequency: 5 * physic.MegaHertz, CS: cs})
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.WriteRegister(RegCtrl1, 0x07); err != nil {
		t.Fatal(err)
	}
	// Deselected at connect, then low/high around the transaction.
	if diff := cmp.Diff(cs.levels, []gpio.Level{gpio.High, gpio.Low, gpio.High}); diff != "" {
		t.Errorf("chip select (-got +want):\n%s", diff)
	}
	// The device is deselected even when the transaction fails.
	if err := tr.WriteRegister(RegCtrl1, 0x00); err == nil {
		t.Error("expected error")
	}
	if cs.L != gpio.High {
		t.Error("chip select left asserted")
	}
}

func TestClassify(t *testing.T) {
	data := []struct {
		err  error
		want TransportErrorKind
	}{
		{os.ErrDeadlineExceeded, Timeout},
		{fmt.Errorf("bus: %w", context.DeadlineExceeded), Timeout},
		{errors.New("sysfs-i2c: connection timed out"), Timeout},
		{errors.New("sysfs-i2c: remote I/O error"), NoAck},
		{errors.New("something else"), BusFault},
	}
	for _, line := range data {
		if got := classify(line.err); got != line.want {
			t.Errorf("classify(%v) = %s, want %s", line.err, got, line.want)
		}
	}
	inner := &TransportError{Kind: NoAck, Op: "read", Reg: 1}
	if err := newTransportError("write", 2, fmt.Errorf("x: %w", inner)); !errors.Is(err, ErrNoAck) {
		t.Errorf("got %v", err)
	}
}
