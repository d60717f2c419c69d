// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lis3x

import (
	"errors"
	"fmt"
)

// TransportErrorKind classifies a failed bus transaction.
type TransportErrorKind int

const (
	// BusFault is any bus failure that is neither a missing acknowledge nor
	// a timeout.
	BusFault TransportErrorKind = iota
	// NoAck means the device did not acknowledge its address or a byte.
	NoAck
	// Timeout means the transaction did not complete in time.
	Timeout
)

func (k TransportErrorKind) String() string {
	switch k {
	case NoAck:
		return "no ack"
	case Timeout:
		return "timeout"
	default:
		return "bus fault"
	}
}

// TransportError is returned by the transports for every failed register
// transaction. Dev methods return it unchanged.
type TransportError struct {
	Kind TransportErrorKind
	Op   string // "read" or "write"
	Reg  byte
	Err  error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("lis3x: %s", e.Kind)
	}
	return fmt.Sprintf("lis3x: %s register %#02x: %s: %v", e.Op, e.Reg, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches any TransportError of the same Kind, so the Err* sentinels below
// work with errors.Is.
func (e *TransportError) Is(target error) bool {
	t, ok := target.(*TransportError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNoAck    error = &TransportError{Kind: NoAck}
	ErrTimeout  error = &TransportError{Kind: Timeout}
	ErrBusFault error = &TransportError{Kind: BusFault}
)

// InitErrorKind classifies a failed initialization.
type InitErrorKind int

const (
	// IdentityMismatch means the identity register did not hold the value
	// expected for the chip.
	IdentityMismatch InitErrorKind = iota
	// TransportUnavailable means the bus failed before the device could be
	// identified or configured.
	TransportUnavailable
)

func (k InitErrorKind) String() string {
	if k == IdentityMismatch {
		return "identity mismatch"
	}
	return "transport unavailable"
}

// InitError is returned by New when the device can't be brought up. The
// handle is not usable after an InitError.
type InitError struct {
	Kind InitErrorKind
	Chip string
	// Got and Want are the identity values, set for IdentityMismatch.
	Got, Want byte
	// Err is the underlying *TransportError, set for TransportUnavailable.
	Err error
}

func (e *InitError) Error() string {
	switch {
	case e.Kind == IdentityMismatch && e.Chip != "":
		return fmt.Sprintf("lis3x: %s: wrong device connected, identity %#02x, expected %#02x", e.Chip, e.Got, e.Want)
	case e.Err != nil:
		return fmt.Sprintf("lis3x: %s: %s: %v", e.Chip, e.Kind, e.Err)
	default:
		return fmt.Sprintf("lis3x: %s", e.Kind)
	}
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// Is matches any InitError of the same Kind.
func (e *InitError) Is(target error) bool {
	t, ok := target.(*InitError)
	return ok && t.Kind == e.Kind
}

var (
	ErrIdentityMismatch     error = &InitError{Kind: IdentityMismatch}
	ErrTransportUnavailable error = &InitError{Kind: TransportUnavailable}
)

// ErrUnknownCode is returned when a control register field holds a code that
// the chip table does not define. A correctly operating device never does
// this.
var ErrUnknownCode = errors.New("lis3x: register field holds an unknown code")

// ErrInvalidOption is returned when a caller passes a value outside the chip's
// tables.
var ErrInvalidOption = errors.New("lis3x: invalid option")
