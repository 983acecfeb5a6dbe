// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"syscall"
)

// A Category is the transience category of a particular error, as
// reported by function Categorize().
//
// The category Not means the error is not transient: executing a clone
// of the failed call is very unlikely to succeed. All other categories
// indicate the failure may go away on a later call.
type Category int

const (
	// Not indicates any non-transient error.
	Not Category = iota
	// Timeout indicates a client-side timeout.
	//
	// Function Categorize() will return Timeout if the error or any of
	// its wrapped causes has a Timeout() function that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection,
	// corresponding to the POSIX error code ECONNREFUSED.
	//
	// Connection refusal is classified as transient because it happens
	// while the service on the remote host is starting or restarting.
	ConnRefused
	// ConnReset indicates the remote host returned an RST packet on a
	// previously active TCP connection, corresponding to the POSIX
	// error code ECONNRESET.
	ConnReset
	// Canceled indicates the call was canceled, either through the
	// call's own Cancel method or through the plan context.
	//
	// Function Categorize() will return Canceled if the error is not a
	// Timeout, and the error or any of its wrapped causes is equal to
	// context.Canceled.
	Canceled
)

var categoryNames = []string{
	"not",
	"timeout",
	"conn_refused",
	"conn_reset",
	"canceled",
}

// String returns a short snake-case name for the category, suitable
// for use as a metric label value.
func (cat Category) String() string {
	if cat < 0 || int(cat) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[cat]
}

// Categorize returns the transience category of the given error. A nil
// error, and an error that is not transient, both produce Not.
//
// Categorize looks at wrapped cause errors contained within err, not
// just err itself. It never checks for a Temporary() function, as the
// semantics of Temporary() aren't entirely clear.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
