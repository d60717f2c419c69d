// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package accel is a container for the LIS3x family of accelerometer
// drivers.
//
// The register core lives in lis3x; each chip (h3lis331, lis331hh) plugs its
// register table and scale factors into it.
package accel
