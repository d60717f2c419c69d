// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package lis3x

var (
	noAckErrnos   []error
	timeoutErrnos []error
)
