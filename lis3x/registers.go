// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lis3x

// Register addresses shared by the LIS331 family.
const (
	RegWhoAmI    byte = 0x0F // Identity, 0x32 for H3LIS331DL and LIS331HH
	RegCtrl1     byte = 0x20 // Power mode, data rate, axis enable
	RegCtrl2     byte = 0x21 // Boot, high-pass filter
	RegCtrl3     byte = 0x22 // Interrupt control
	RegCtrl4     byte = 0x23 // Block data update, endianness, full scale, SPI mode
	RegCtrl5     byte = 0x24 // Sleep-to-wake
	RegReference byte = 0x26
	RegStatus    byte = 0x27
	RegOutXL     byte = 0x28 // Output registers, X/Y/Z low then high byte
	RegOutXH     byte = 0x29
	RegOutYL     byte = 0x2A
	RegOutYH     byte = 0x2B
	RegOutZL     byte = 0x2C
	RegOutZH     byte = 0x2D
)

// Bits in the family control registers.
const (
	Ctrl1AxesEnable byte = 0x07 // Zen | Yen | Xen
	Ctrl4BDU        byte = 0x80 // Block data update
)

// Field is a bit field inside one register.
type Field struct {
	Reg   byte
	Mask  byte // Bits of the field, in register position.
	Shift uint
}

// Decode extracts the field's code from a register value.
func (f Field) Decode(v byte) byte {
	return (v & f.Mask) >> f.Shift
}

// Encode places code in the field's bits. Bits of code that don't fit are
// dropped.
func (f Field) Encode(code byte) byte {
	return (code << f.Shift) & f.Mask
}

// RegisterMap is the per-chip description of where things live.
type RegisterMap struct {
	// WhoAmIReg holds the identity; WhoAmI is the expected value.
	WhoAmIReg byte
	WhoAmI    byte

	DataRate Field
	Range    Field

	// AxesEnable bits are set in the DataRate register by New.
	AxesEnable byte
	// BlockDataUpdate is set in the Range register by New, so the device
	// doesn't update an output register pair between the low and high byte
	// reads.
	BlockDataUpdate byte

	// OutX is the first of the six output registers (XL, XH, YL, YH, ZL, ZH).
	OutX byte
	// ResolutionShift right-aligns the left-justified output counts.
	ResolutionShift uint

	// PowerDown is the DataRate code written by Halt.
	PowerDown byte
}

// LIS331Map returns the register map common to the LIS331 family, with 12
// bit output. Chips adjust the identity if they need to.
func LIS331Map() RegisterMap {
	return RegisterMap{
		WhoAmIReg:       RegWhoAmI,
		WhoAmI:          0x32,
		DataRate:        Field{Reg: RegCtrl1, Mask: 0xF8, Shift: 3},
		Range:           Field{Reg: RegCtrl4, Mask: 0x30, Shift: 4},
		AxesEnable:      Ctrl1AxesEnable,
		BlockDataUpdate: Ctrl4BDU,
		OutX:            RegOutXL,
		ResolutionShift: 4,
		PowerDown:       0,
	}
}
