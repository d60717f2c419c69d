// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package accelbar draws accelerometer samples as three horizontal bars on
// the terminal using ANSI color codes.
//
// Each bar is centered on zero; cells between zero and the reading are lit
// with a color going from green to red as the reading nears full scale.
package accelbar

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"github.com/GermanBionicSystems/accel/lis3x"
)

// Opts represents the options available for the bars.
type Opts struct {
	// Width is the number of cells per bar. It is rounded down to an even
	// number so zero sits between two cells.
	Width int
	// FullScale is the reading that fills half a bar.
	FullScale lis3x.Acceleration
	Palette   *ansi256.Palette
	// W defaults to a colorable stdout.
	W io.Writer

	_ struct{}
}

// Dev renders samples to a terminal.
type Dev struct {
	w       io.Writer
	half    int
	full    lis3x.Acceleration
	palette ansi256.Palette

	buf bytes.Buffer
}

var off = color.NRGBA{0x20, 0x20, 0x20, 255}

// New returns a Dev that displays at the console.
func New(opts *Opts) (*Dev, error) {
	if opts.Width < 2 {
		return nil, errors.New("accelbar: width must be at least 2")
	}
	if opts.FullScale <= 0 {
		return nil, errors.New("accelbar: full scale must be positive")
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{w: w, half: opts.Width / 2, full: opts.FullScale, palette: *p}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("AccelBar{%d, %s}", 2*d.half, d.full)
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so it is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Draw renders s, overwriting the previous three lines after the first call.
func (d *Dev) Draw(s lis3x.Sample, first bool) error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	if !first {
		_, _ = d.buf.WriteString("\033[3A")
	}
	for _, a := range []struct {
		name string
		v    lis3x.Acceleration
	}{{"X", s.X}, {"Y", s.Y}, {"Z", s.Z}} {
		_, _ = fmt.Fprintf(&d.buf, "\r\033[0m%s ", a.name)
		n := d.cells(a.v)
		for i := -d.half; i < d.half; i++ {
			c := off
			if (n < 0 && i >= n && i < 0) || (n > 0 && i >= 0 && i < n) {
				c = d.shade(i, n)
			}
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		}
		_, _ = fmt.Fprintf(&d.buf, "\033[0m %9s\033[K\n", a.v)
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

// cells returns the signed number of lit cells for v, clamped to the bar.
func (d *Dev) cells(v lis3x.Acceleration) int {
	n := int(int64(v) * int64(d.half) / int64(d.full))
	if n > d.half {
		return d.half
	}
	if n < -d.half {
		return -d.half
	}
	return n
}

// shade blends from green at zero to red at full scale.
func (d *Dev) shade(i, n int) color.NRGBA {
	if n < 0 {
		i = -i - 1
	}
	t := (i + 1) * 255 / d.half
	return color.NRGBA{uint8(t), uint8(255 - t), 0, 255}
}
