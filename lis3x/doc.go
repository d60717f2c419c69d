// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lis3x is the shared register driver for the ST LIS3x family of
// 3-axis accelerometers (H3LIS331DL, LIS331HH and friends).
//
// The package knows how to talk to the chips over I²C or SPI, how to apply a
// data rate or full-scale range with a read-modify-write of the control
// registers, and how to turn the output registers into an Acceleration. What
// differs per chip (identity, register layout, codes and sensitivities) is
// described by a Chip, which the chip packages implement.
//
// # Datasheet
//
// https://www.st.com/resource/en/datasheet/h3lis331dl.pdf
//
// https://www.st.com/resource/en/datasheet/lis331hh.pdf
package lis3x
