// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/accel/h3lis331"
	"github.com/GermanBionicSystems/accel/lis331hh"
	"github.com/GermanBionicSystems/accel/lis3x"
)

// config is the device description, from a YAML file and/or flags.
type config struct {
	Chip string `yaml:"chip"` // h3lis331 or lis331hh
	Bus  string `yaml:"bus"`  // i2c, spi or softspi

	I2C struct {
		Name string `yaml:"name"`
		Addr uint16 `yaml:"addr"`
	} `yaml:"i2c"`

	SPI struct {
		Name      string `yaml:"name"`
		Frequency string `yaml:"frequency"`
		CS        string `yaml:"cs"`
	} `yaml:"spi"`

	SoftSPI struct {
		CLK  string `yaml:"clk"`
		MOSI string `yaml:"mosi"`
		MISO string `yaml:"miso"`
		CS   string `yaml:"cs"`
	} `yaml:"softspi"`

	DataRate string `yaml:"data_rate"`
	Range    string `yaml:"range"`
	SensorID int32  `yaml:"sensor_id"`
	Debug    bool   `yaml:"debug"`
}

func defaultConfig() config {
	var c config
	c.Chip = "h3lis331"
	c.Bus = "i2c"
	c.I2C.Addr = lis3x.DefaultI2CAddr
	c.SPI.Frequency = lis3x.DefaultSPIOpts.Frequency.String()
	c.DataRate = h3lis331.DefaultOpts.DataRate.String()
	return c
}

// loadConfig reads path over the defaults. An empty path returns the
// defaults.
func loadConfig(path string) (config, error) {
	c := defaultConfig()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// settings is a validated config.
type settings struct {
	dataRate  lis3x.DataRate
	frequency physic.Frequency
	// Exactly one of the two is meaningful, depending on the chip.
	h3Range   h3lis331.Range
	hhRange   lis331hh.Range
	fullScale lis3x.Acceleration
}

func (c *config) validate() (settings, error) {
	var s settings
	var err error
	if s.dataRate, err = lis3x.ParseDataRate(c.DataRate); err != nil {
		return s, err
	}
	switch c.Chip {
	case "h3lis331":
		if c.Range == "" {
			c.Range = h3lis331.DefaultOpts.Range.String()
		}
		if s.h3Range, err = h3lis331.ParseRange(c.Range); err != nil {
			return s, err
		}
		s.fullScale = s.h3Range.FullScale()
	case "lis331hh":
		if c.Range == "" {
			c.Range = lis331hh.DefaultOpts.Range.String()
		}
		if s.hhRange, err = lis331hh.ParseRange(c.Range); err != nil {
			return s, err
		}
		s.fullScale = s.hhRange.FullScale()
	default:
		return s, fmt.Errorf("unknown chip %q", c.Chip)
	}
	switch c.Bus {
	case "i2c":
		if c.I2C.Addr != lis3x.DefaultI2CAddr && c.I2C.Addr != lis3x.AltI2CAddr {
			return s, fmt.Errorf("i2c address %#x is not %#x or %#x", c.I2C.Addr, lis3x.DefaultI2CAddr, lis3x.AltI2CAddr)
		}
	case "spi":
		if c.SPI.Frequency != "" {
			if err := s.frequency.Set(c.SPI.Frequency); err != nil {
				return s, fmt.Errorf("spi frequency: %w", err)
			}
		}
	case "softspi":
		if c.SoftSPI.CLK == "" || c.SoftSPI.MOSI == "" || c.SoftSPI.MISO == "" {
			return s, errors.New("softspi needs clk, mosi and miso pins")
		}
	default:
		return s, fmt.Errorf("unknown bus %q", c.Bus)
	}
	return s, nil
}
