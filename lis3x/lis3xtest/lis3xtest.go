// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lis3xtest implements an in-memory lis3x.Transport for tests.
package lis3xtest

import (
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/accel/lis3x"
)

// IO is one recorded register access.
type IO struct {
	Write bool
	Reg   byte
	Value byte
}

// Registers is a fake device: a register file that records every access.
//
// It implements lis3x.BurstReader; wrap it in Sequential to hide that.
type Registers struct {
	sync.Mutex
	Regs [128]byte
	Ops  []IO
	// Fail, when set, is called before every access; a non-nil return is
	// wrapped in a *lis3x.TransportError of kind Kind.
	Fail func(write bool, reg byte) error
	Kind lis3x.TransportErrorKind
}

// New returns a register file preloaded with regs.
func New(regs map[byte]byte) *Registers {
	r := &Registers{}
	for k, v := range regs {
		r.Regs[k] = v
	}
	return r
}

func (r *Registers) ReadRegister(reg byte) (byte, error) {
	r.Lock()
	defer r.Unlock()
	if err := r.fail(false, reg); err != nil {
		return 0, err
	}
	v := r.Regs[reg&0x7F]
	r.Ops = append(r.Ops, IO{Reg: reg, Value: v})
	return v, nil
}

func (r *Registers) WriteRegister(reg, value byte) error {
	r.Lock()
	defer r.Unlock()
	if err := r.fail(true, reg); err != nil {
		return err
	}
	r.Regs[reg&0x7F] = value
	r.Ops = append(r.Ops, IO{Write: true, Reg: reg, Value: value})
	return nil
}

// ReadRegisters reads consecutive registers, recording one IO per register.
func (r *Registers) ReadRegisters(reg byte, b []byte) error {
	r.Lock()
	defer r.Unlock()
	if err := r.fail(false, reg); err != nil {
		return err
	}
	for i := range b {
		a := (reg + byte(i)) & 0x7F
		b[i] = r.Regs[a]
		r.Ops = append(r.Ops, IO{Reg: a, Value: b[i]})
	}
	return nil
}

// SetAxes stores x, y and z, already left-justified, as little endian pairs
// starting at reg.
func (r *Registers) SetAxes(reg byte, x, y, z int16) {
	r.Lock()
	defer r.Unlock()
	for i, v := range []int16{x, y, z} {
		r.Regs[reg+byte(2*i)] = byte(uint16(v))
		r.Regs[reg+byte(2*i)+1] = byte(uint16(v) >> 8)
	}
}

// Writes returns the recorded writes.
func (r *Registers) Writes() []IO {
	r.Lock()
	defer r.Unlock()
	var out []IO
	for _, op := range r.Ops {
		if op.Write {
			out = append(out, op)
		}
	}
	return out
}

// Reset forgets the recorded accesses.
func (r *Registers) Reset() {
	r.Lock()
	defer r.Unlock()
	r.Ops = nil
}

func (r *Registers) String() string {
	return "lis3xtest"
}

func (r *Registers) fail(write bool, reg byte) error {
	if r.Fail == nil {
		return nil
	}
	err := r.Fail(write, reg)
	if err == nil {
		return nil
	}
	op := "read"
	if write {
		op = "write"
	}
	return &lis3x.TransportError{Kind: r.Kind, Op: op, Reg: reg, Err: err}
}

// Sequential hides the BurstReader of a Transport.
type Sequential struct {
	lis3x.Transport
}

func (s Sequential) String() string {
	return fmt.Sprintf("sequential(%s)", s.Transport)
}

var (
	_ lis3x.Transport   = &Registers{}
	_ lis3x.BurstReader = &Registers{}
	_ lis3x.Transport   = Sequential{}
)
