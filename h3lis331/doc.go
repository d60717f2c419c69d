// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package h3lis331 controls an ST H3LIS331DL high-g 3-axis accelerometer
// (±100g, ±200g, ±400g) over I²C or SPI.
//
// # Datasheet
//
// https://www.st.com/resource/en/datasheet/h3lis331dl.pdf
package h3lis331
