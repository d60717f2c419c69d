// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package accelbar

import (
	"bytes"
	"strings"
	"testing"

	"github.com/maruel/ansi256"

	"github.com/GermanBionicSystems/accel/lis3x"
)

func TestCells(t *testing.T) {
	d, err := New(&Opts{Width: 20, FullScale: 100 * lis3x.StandardGravity, W: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	data := []struct {
		v    lis3x.Acceleration
		want int
	}{
		{0, 0},
		{50 * lis3x.StandardGravity, 5},
		{-50 * lis3x.StandardGravity, -5},
		{400 * lis3x.StandardGravity, 10},
		{-400 * lis3x.StandardGravity, -10},
	}
	for _, line := range data {
		if got := d.cells(line.v); got != line.want {
			t.Errorf("cells(%s) = %d, want %d", line.v, got, line.want)
		}
	}
}

func TestDraw(t *testing.T) {
	var buf bytes.Buffer
	d, err := New(&Opts{Width: 10, FullScale: lis3x.StandardGravity, Palette: ansi256.Default, W: &buf})
	if err != nil {
		t.Fatal(err)
	}
	s := lis3x.Sample{X: lis3x.StandardGravity, Y: -lis3x.StandardGravity / 2, Z: 0}
	if err := d.Draw(s, true); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "\033[3A") {
		t.Error("first draw moved the cursor up")
	}
	for _, want := range []string{"X ", "Y ", "Z ", "1.000g", "-0.500g", "0.000g"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
	if n := strings.Count(out, "\n"); n != 3 {
		t.Errorf("got %d lines", n)
	}
	buf.Reset()
	if err := d.Draw(s, false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "\033[3A") {
		t.Error("redraw didn't move the cursor up")
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if d.String() != "AccelBar{10, 1.000g}" {
		t.Errorf("String() = %q", d.String())
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(&Opts{Width: 1, FullScale: lis3x.StandardGravity}); err == nil {
		t.Error("width 1 accepted")
	}
	if _, err := New(&Opts{Width: 10}); err == nil {
		t.Error("zero full scale accepted")
	}
}
