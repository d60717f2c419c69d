// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/accel/h3lis331"
	"github.com/GermanBionicSystems/accel/lis331hh"
	"github.com/GermanBionicSystems/accel/lis3x"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "lis3x.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	p := writeConfig(t, `
chip: lis331hh
bus: spi
spi:
  name: SPI0.1
  frequency: 2MHz
data_rate: 400Hz
range: 24g
sensor_id: 4
`)
	c, err := loadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	want := defaultConfig()
	want.Chip = "lis331hh"
	want.Bus = "spi"
	want.SPI.Name = "SPI0.1"
	want.SPI.Frequency = "2MHz"
	want.DataRate = "400Hz"
	want.Range = "24g"
	want.SensorID = 4
	if diff := cmp.Diff(c, want); diff != "" {
		t.Errorf("config (-got +want):\n%s", diff)
	}
	s, err := c.validate()
	if err != nil {
		t.Fatal(err)
	}
	if s.dataRate != lis3x.Rate400Hz || s.hhRange != lis331hh.Range24G || s.frequency != 2*physic.MegaHertz {
		t.Errorf("unexpected settings %+v", s)
	}
	if s.fullScale != 24*lis3x.StandardGravity {
		t.Errorf("full scale %s", s.fullScale)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	c, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	s, err := c.validate()
	if err != nil {
		t.Fatal(err)
	}
	if s.dataRate != h3lis331.DefaultOpts.DataRate || s.h3Range != h3lis331.DefaultOpts.Range {
		t.Errorf("unexpected settings %+v", s)
	}
	if c.Range != "100g" {
		t.Errorf("range %q", c.Range)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}
	if _, err := loadConfig(writeConfig(t, "chip: [")); err == nil {
		t.Error("bad yaml accepted")
	}
}

func TestValidate(t *testing.T) {
	data := []struct {
		name   string
		modify func(c *config)
	}{
		{"chip", func(c *config) { c.Chip = "adxl345" }},
		{"bus", func(c *config) { c.Bus = "uart" }},
		{"addr", func(c *config) { c.I2C.Addr = 0x53 }},
		{"rate", func(c *config) { c.DataRate = "3Hz" }},
		{"range", func(c *config) { c.Range = "6g" }},
		{"hz", func(c *config) { c.Bus = "spi"; c.SPI.Frequency = "fast" }},
		{"softspi", func(c *config) { c.Bus = "softspi"; c.SoftSPI.CLK = "GPIO11" }},
	}
	for _, line := range data {
		c := defaultConfig()
		line.modify(&c)
		if _, err := c.validate(); err == nil {
			t.Errorf("%s: invalid config accepted", line.name)
		}
	}
}

func TestConfigCmd(t *testing.T) {
	p := writeConfig(t, "bus: i2c\nrange: 400g\n")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "--config", p, "--rate", "1kHz", "--addr", "25"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	var got config
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.DataRate != "1kHz" || got.Range != "400g" || got.I2C.Addr != lis3x.AltI2CAddr {
		t.Errorf("unexpected config:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "chip: h3lis331") {
		t.Errorf("unexpected config:\n%s", out.String())
	}
}
