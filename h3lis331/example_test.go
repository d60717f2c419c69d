// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package h3lis331_test

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/accel/h3lis331"
	"github.com/GermanBionicSystems/accel/lis3x"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use i2creg I²C bus registry to find the first available I²C bus.
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	d, err := h3lis331.NewI2C(b, lis3x.DefaultI2CAddr, &h3lis331.Opts{
		DataRate: h3lis331.Rate100Hz,
		Range:    h3lis331.Range200G,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer d.Halt()

	s, err := d.Sense()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(s)
}

func ExampleNewSPI() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	d, err := h3lis331.NewSPI(p, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer d.Halt()

	// Read for a second at the device's own rate.
	ch, err := d.SenseContinuous(h3lis331.DefaultOpts.DataRate.Period())
	if err != nil {
		log.Fatal(err)
	}
	time.AfterFunc(time.Second, func() { _ = d.Halt() })
	for s := range ch {
		fmt.Println(s)
	}
}

func ExampleNewSoftSPI() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Any four gpio pins will do.
	clk := gpioreg.ByName("GPIO11")
	mosi := gpioreg.ByName("GPIO10")
	miso := gpioreg.ByName("GPIO9")
	cs := gpioreg.ByName("GPIO8")
	if clk == nil || mosi == nil || miso == nil || cs == nil {
		log.Fatal("failed to find gpio pins")
	}

	d, err := h3lis331.NewSoftSPI(clk, mosi, miso, cs, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer d.Halt()

	if err := d.SetRange(h3lis331.Range400G); err != nil {
		log.Fatal(err)
	}
	raw, err := d.ReadRaw()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(raw, raw.Scale(d.Range().Sensitivity()))
}
