// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpcall

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyExecuted is returned by Call.Execute, Call.Enqueue and
	// Call.Submit when the call has already been executed. Use
	// Call.Clone to get a fresh call that may be executed.
	ErrAlreadyExecuted = errors.New("httpcall: already executed")

	// ErrNilRawCall is the creation failure recorded when a
	// RawCallFactory returns neither a raw call nor an error.
	ErrNilRawCall = errors.New("httpcall: raw call factory returned nil")

	// ErrConvertedBody is returned when reading the body of a raw
	// response whose body stream has already been handed off for
	// conversion or buffering.
	ErrConvertedBody = errors.New("httpcall: cannot read raw response body of a converted body")
)

// A PanicError reports a panic recovered while classifying a raw
// response on a transport goroutine. It is delivered to
// Callback.OnFailure like any other classification failure.
type PanicError struct {
	// Value is the value the panic was raised with.
	Value interface{}
}

func (err *PanicError) Error() string {
	return fmt.Sprintf("httpcall: panic during classification: %v", err.Value)
}

// Unwrap returns Value if it is an error, and nil otherwise.
func (err *PanicError) Unwrap() error {
	if e, ok := err.Value.(error); ok {
		return e
	}
	return nil
}
