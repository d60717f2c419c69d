// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// lis3x reads a LIS3x family accelerometer.
//
// The device is described by a YAML file (--config) and/or flags, flags
// winning:
//
//	chip: h3lis331
//	bus: spi
//	spi:
//	  name: SPI0.0
//	  frequency: 2MHz
//	data_rate: 100Hz
//	range: 200g
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/accel/accelbar"
	"github.com/GermanBionicSystems/accel/accelplot"
	"github.com/GermanBionicSystems/accel/lis3x"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		flags   config
	)
	cfg := defaultConfig()
	root := &cobra.Command{
		Use:          "lis3x",
		Short:        "Read a LIS3x accelerometer",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			mergeFlags(cmd, &c, &flags)
			cfg = c
			return nil
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "YAML device description")
	pf.StringVar(&flags.Chip, "chip", cfg.Chip, "chip: h3lis331 or lis331hh")
	pf.StringVar(&flags.Bus, "bus", cfg.Bus, "bus: i2c, spi or softspi")
	pf.StringVar(&flags.I2C.Name, "i2c", "", "I²C bus to use")
	pf.Uint16Var(&flags.I2C.Addr, "addr", cfg.I2C.Addr, "I²C address")
	pf.StringVar(&flags.SPI.Name, "spi", "", "SPI port to use")
	pf.StringVar(&flags.SPI.Frequency, "hz", cfg.SPI.Frequency, "SPI clock")
	pf.StringVar(&flags.SPI.CS, "cs", "", "gpio pin driven as chip select")
	pf.StringVar(&flags.SoftSPI.CLK, "clk", "", "softspi clock pin")
	pf.StringVar(&flags.SoftSPI.MOSI, "mosi", "", "softspi MOSI pin")
	pf.StringVar(&flags.SoftSPI.MISO, "miso", "", "softspi MISO pin")
	pf.StringVar(&flags.SoftSPI.CS, "softcs", "", "softspi chip select pin")
	pf.StringVar(&flags.DataRate, "rate", cfg.DataRate, "data rate, e.g. 50Hz, 1kHz, LowPower2Hz")
	pf.StringVar(&flags.Range, "range", "", "full scale range, e.g. 100g")
	pf.Int32Var(&flags.SensorID, "id", 0, "sensor id printed with the device")
	pf.BoolVar(&flags.Debug, "debug", false, "trace register accesses")

	root.AddCommand(
		newReadCmd(&cfg),
		newWatchCmd(&cfg),
		newPlotCmd(&cfg),
		newConfigCmd(&cfg),
	)
	return root
}

// mergeFlags copies the flags the user set over c.
func mergeFlags(cmd *cobra.Command, c, f *config) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("chip", &c.Chip, f.Chip)
	set("bus", &c.Bus, f.Bus)
	set("i2c", &c.I2C.Name, f.I2C.Name)
	set("spi", &c.SPI.Name, f.SPI.Name)
	set("hz", &c.SPI.Frequency, f.SPI.Frequency)
	set("cs", &c.SPI.CS, f.SPI.CS)
	set("clk", &c.SoftSPI.CLK, f.SoftSPI.CLK)
	set("mosi", &c.SoftSPI.MOSI, f.SoftSPI.MOSI)
	set("miso", &c.SoftSPI.MISO, f.SoftSPI.MISO)
	set("softcs", &c.SoftSPI.CS, f.SoftSPI.CS)
	set("rate", &c.DataRate, f.DataRate)
	set("range", &c.Range, f.Range)
	if cmd.Flags().Changed("addr") {
		c.I2C.Addr = f.I2C.Addr
	}
	if cmd.Flags().Changed("id") {
		c.SensorID = f.SensorID
	}
	if cmd.Flags().Changed("debug") {
		c.Debug = f.Debug
	}
}

func newReadCmd(cfg *config) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Print samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDevice(cfg)
			if err != nil {
				return err
			}
			defer d.Close()
			fmt.Fprintln(cmd.OutOrStdout(), d)
			for i := 0; i < n; i++ {
				if i != 0 {
					time.Sleep(d.period)
				}
				s, err := d.Sense()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 1, "number of samples")
	return cmd
}

func newWatchCmd(cfg *config) *cobra.Command {
	var (
		width int
		dur   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show live bars until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDevice(cfg)
			if err != nil {
				return err
			}
			defer d.Close()
			bars, err := accelbar.New(&accelbar.Opts{Width: width, FullScale: d.fullScale})
			if err != nil {
				return err
			}
			defer bars.Halt()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if dur > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, dur)
				defer cancel()
			}
			ch, err := d.SenseContinuous(max(d.period, 20*time.Millisecond))
			if err != nil {
				return err
			}
			first := true
			for {
				select {
				case <-ctx.Done():
					return nil
				case s, ok := <-ch:
					if !ok {
						return nil
					}
					if err := bars.Draw(s, first); err != nil {
						return err
					}
					first = false
				}
			}
		},
	}
	cmd.Flags().IntVar(&width, "width", 60, "bar width in cells")
	cmd.Flags().DurationVar(&dur, "duration", 0, "stop after this long")
	return cmd
}

func newPlotCmd(cfg *config) *cobra.Command {
	var (
		n   int
		out string
	)
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Capture samples into a PNG chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDevice(cfg)
			if err != nil {
				return err
			}
			defer d.Close()
			interval := max(d.period, time.Millisecond)
			samples := make([]lis3x.Sample, 0, n)
			for len(samples) < n {
				s, err := d.Sense()
				if err != nil {
					return err
				}
				samples = append(samples, s)
				time.Sleep(interval)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			o := accelplot.DefaultOpts
			o.FullScale = d.fullScale
			o.Interval = interval
			o.Title = d.String()
			if err := accelplot.WritePNG(f, samples, &o); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			log.Printf("wrote %d samples to %s", len(samples), out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 200, "number of samples")
	cmd.Flags().StringVarP(&out, "out", "o", "lis3x.png", "output file")
	return cmd
}

func newConfigCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cfg.validate(); err != nil {
				return err
			}
			b, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
