// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lis331hh controls an ST LIS331HH 3-axis accelerometer (±6g, ±12g,
// ±24g) over I²C or SPI. It shares its registers and data rates with the
// H3LIS331DL.
//
// # Datasheet
//
// https://www.st.com/resource/en/datasheet/lis331hh.pdf
package lis331hh
