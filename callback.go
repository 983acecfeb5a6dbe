// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpcall

// A Callback receives the outcome of an asynchronous call execution.
// Exactly one of its methods is invoked, exactly once, per Enqueue.
//
// Apart from a creation failure, which is reported on the goroutine
// that called Enqueue, the methods run on a goroutine managed by the
// transport. A panic raised by a Callback method on that goroutine is
// recovered and logged, and never reaches the transport.
type Callback[T any] interface {
	// OnResponse receives the classified response. A response with a
	// non-2XX status code is delivered here, not to OnFailure. If the
	// response has an error body, the callback owns it and must close
	// it.
	OnResponse(c *Call[T], r *Response[T])
	// OnFailure receives the creation, transport or classification
	// failure that prevented a response from being produced.
	OnFailure(c *Call[T], err error)
}

// CallbackFuncs adapts a pair of ordinary functions into a Callback.
// A nil function ignores the corresponding outcome.
type CallbackFuncs[T any] struct {
	Response func(*Call[T], *Response[T])
	Failure  func(*Call[T], error)
}

// OnResponse calls f.Response(c, r) if f.Response is non-nil.
func (f CallbackFuncs[T]) OnResponse(c *Call[T], r *Response[T]) {
	if f.Response != nil {
		f.Response(c, r)
	}
}

// OnFailure calls f.Failure(c, err) if f.Failure is non-nil.
func (f CallbackFuncs[T]) OnFailure(c *Call[T], err error) {
	if f.Failure != nil {
		f.Failure(c, err)
	}
}

// A Result carries the outcome of a call submitted with Call.Submit.
// Exactly one of Response and Err is non-nil.
type Result[T any] struct {
	Response *Response[T]
	Err      error
}
