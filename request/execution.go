// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/httpcall/transient"
)

// An Execution records the lifecycle of a single call execution, from
// the moment the call is executed (synchronously or asynchronously)
// until its outcome is known.
//
// The call updates the Execution as the execution progresses and hands
// it to event handlers at designated points. Handlers may store their
// own data using SetValue and Value, but should treat the exported
// fields as read-only.
type Execution struct {
	// Plan is the request plan the call is bound to. It is never nil.
	Plan *Plan

	// ID identifies the call instance that owns the execution. Clones
	// of a call have distinct IDs.
	ID string

	// Async is true when the execution was started by an asynchronous
	// method (Enqueue or Submit) and false for Execute.
	Async bool

	// Start is the time the execution started.
	Start time.Time

	// End is the time the execution ended. It contains the zero value
	// while the execution is in flight.
	End time.Time

	// Request is the HTTP request carried by the raw call. It is nil if
	// the raw call could not be created.
	Request *http.Request

	// Response is the raw HTTP response received from the transport
	// with its body stream severed: reading from its Body always fails.
	// Only the metadata (status, headers, protocol) remains usable.
	//
	// Response is nil until a raw response arrives, and stays nil if
	// the execution failed before one arrived.
	Response *http.Response

	// Err is the failure that ended the execution: the memoized
	// creation failure, a transport failure, or a classification
	// failure. It is nil when the execution produced a response,
	// including a response with a non-2XX status code.
	Err error

	data context.Context
}

// StatusCode returns the status code of the raw response, or 0 if no
// raw response has been received.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the raw response headers, or a nil header if no raw
// response has been received.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Duration returns the duration of the execution.
//
// It is zero before the execution starts, grows while the execution is
// in flight, and is fixed at End minus Start once the execution ends.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return !e.Start.IsZero()
}

// Ended indicates whether the execution has ended. Once it returns
// true the execution does not change any more.
func (e *Execution) Ended() bool {
	return !e.End.IsZero()
}

// Timeout indicates whether Err is a timeout.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// Canceled indicates whether Err is the result of a cancellation.
func (e *Execution) Canceled() bool {
	return transient.Categorize(e.Err) == transient.Canceled
}

// SetValue allows event handlers to store arbitrary data in the
// execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue: it may not be nil, it must be comparable, and it
// should not be a built-in type.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
