// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lis3x

import "syscall"

// The Linux i2c-dev adapters report a missing ACK as EREMOTEIO or ENXIO.
var (
	noAckErrnos   = []error{syscall.EREMOTEIO, syscall.ENXIO}
	timeoutErrnos = []error{syscall.ETIMEDOUT}
)
