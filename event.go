// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpcall

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend every call the
// client creates with custom functionality, such as metrics.
//
// Handlers run on the goroutine executing the call: the caller's
// goroutine for Call.Execute, and a transport goroutine for
// Call.Enqueue and Call.Submit.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs when a call
	// is executed, after the raw call has been obtained (or its creation
	// has failed) and before the request is sent.
	//
	// When a call fires BeforeExecutionStart, the execution's plan, ID,
	// start time and Async flag are set. The request is set unless raw
	// call creation failed, in which case the error is set instead.
	BeforeExecutionStart Event = iota
	// BeforeClassify identifies the event that occurs after a raw
	// response arrived and its body stream was severed, but before the
	// response is classified and its body buffered or converted.
	//
	// When a call fires BeforeClassify, the execution's response field
	// holds the severed raw response. BeforeClassify never fires if the
	// call failed before a raw response arrived.
	BeforeClassify
	// AfterExecutionEnd identifies the event that occurs after the
	// outcome of the call is known, and before the outcome is returned
	// to the caller or delivered to the callback.
	//
	// When a call fires AfterExecutionEnd, the execution's end time is
	// set, and its error field holds the failure, if any.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeClassify",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur during
// a call execution, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeClassify,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
