// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitbang

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/accel/bitbang/bitbangtest"
)

func connect(t *testing.T, d *bitbangtest.Device, mode spi.Mode) spi.Conn {
	t.Helper()
	p, err := New(d.CLK, d.MOSI, d.MISO, d.CS)
	if err != nil {
		t.Fatal(err)
	}
	c, err := p.Connect(0, mode, 8)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestTx(t *testing.T) {
	for _, mode := range []spi.Mode{spi.Mode0, spi.Mode3} {
		d := bitbangtest.New()
		d.Set(0x0F, 0x32)
		d.Set(0x28, 0xA5)
		d.Set(0x29, 0x5A)
		c := connect(t, d, mode)

		r := make([]byte, 2)
		if err := c.Tx([]byte{0x8F, 0x00}, r); err != nil {
			t.Fatal(err)
		}
		if r[1] != 0x32 {
			t.Errorf("mode %v: read %#x, want 0x32", mode, r[1])
		}
		if err := c.Tx([]byte{0x20, 0x27}, nil); err != nil {
			t.Fatal(err)
		}
		if got := d.Get(0x20); got != 0x27 {
			t.Errorf("mode %v: register 0x20 = %#x, want 0x27", mode, got)
		}
		r = make([]byte, 3)
		if err := c.Tx([]byte{0xE8, 0, 0}, r); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(r[1:], []byte{0xA5, 0x5A}); diff != "" {
			t.Errorf("mode %v: burst (-got +want):\n%s", mode, diff)
		}
		want := [][]byte{{0x8F, 0x00}, {0x20, 0x27}, {0xE8, 0, 0}}
		if diff := cmp.Diff(d.Frames(), want); diff != "" {
			t.Errorf("mode %v: frames (-got +want):\n%s", mode, diff)
		}
		if d.CLK.L != (mode == spi.Mode3) {
			t.Errorf("mode %v: clock not idle", mode)
		}
		if d.CS.L != gpio.High {
			t.Errorf("mode %v: chip select left asserted", mode)
		}
	}
}

func TestTxPacketsKeepCS(t *testing.T) {
	d := bitbangtest.New()
	d.Set(0x23, 0x80)
	c := connect(t, d, spi.Mode3)
	r := make([]byte, 1)
	p := []spi.Packet{
		{W: []byte{0xA3}, KeepCS: true},
		{W: []byte{0x00}, R: r},
	}
	if err := c.TxPackets(p); err != nil {
		t.Fatal(err)
	}
	if r[0] != 0x80 {
		t.Errorf("read %#x, want 0x80", r[0])
	}
	if diff := cmp.Diff(d.Frames(), [][]byte{{0xA3, 0x00}}); diff != "" {
		t.Errorf("frames (-got +want):\n%s", diff)
	}
}

func TestTxPacketsLengthMismatch(t *testing.T) {
	d := bitbangtest.New()
	c := connect(t, d, spi.Mode3)
	data := []struct {
		name string
		p    []spi.Packet
	}{
		{"short read", []spi.Packet{{W: []byte{0xE8, 0, 0, 0}, R: make([]byte, 2)}}},
		{"long read", []spi.Packet{{W: []byte{0x8F}, R: make([]byte, 2)}}},
		{"second packet", []spi.Packet{
			{W: []byte{0xA3}, KeepCS: true},
			{W: []byte{0, 0}, R: make([]byte, 1)},
		}},
	}
	for _, line := range data {
		if err := c.TxPackets(line.p); err == nil {
			t.Errorf("%s: accepted", line.name)
		}
		if d.CS.L != gpio.High {
			t.Errorf("%s: chip select left asserted", line.name)
		}
	}
	if f := d.Frames(); len(f) != 0 {
		t.Errorf("bytes clocked out: %v", f)
	}
}

func TestConnectErrors(t *testing.T) {
	d := bitbangtest.New()
	p, err := New(d.CLK, d.MOSI, d.MISO, d.CS)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Connect(physic.MegaHertz, spi.Mode1, 8); err == nil {
		t.Error("mode 1 accepted")
	}
	if _, err := p.Connect(physic.MegaHertz, spi.Mode3, 16); err == nil {
		t.Error("16 bits accepted")
	}
	if _, err := p.Connect(physic.MegaHertz, spi.Mode3|spi.LSBFirst, 8); err == nil {
		t.Error("LSB first accepted")
	}
	if err := p.Tx([]byte{0}, nil); err == nil {
		t.Error("Tx before Connect accepted")
	}
	if err := p.LimitSpeed(physic.KiloHertz); err != nil {
		t.Fatal(err)
	}
	c, err := p.Connect(physic.MegaHertz, spi.Mode3, 8)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.halfCycle; got != physic.KiloHertz.Period()/2 {
		t.Errorf("half cycle %s", got)
	}
	if _, err := p.Connect(physic.MegaHertz, spi.Mode3, 8); err == nil {
		t.Error("second Connect accepted")
	}
	if err := c.Tx([]byte{0, 0}, make([]byte, 1)); err == nil {
		t.Error("mismatched buffers accepted")
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := New(nil, d.MOSI, d.MISO, nil); err == nil {
		t.Error("nil clock accepted")
	}
}
