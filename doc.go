// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpcall provides typed, single-shot HTTP calls on top of any
HTTP transport, with synchronous and asynchronous execution,
cancellation, and classification of responses into typed successes and
raw errors.

Create a Client, then create calls from it:

	client := &httpcall.Client{}
	call, err := httpcall.Get(client, "https://www.example.com/users/1",
		converter.JSON[User]())
	...
	resp, err := call.Execute()
	if err != nil {
		// The call could not be made, or the body could not be converted.
	}
	if resp.IsSuccessful() {
		user := resp.Body()
		...
	} else {
		defer resp.ErrorBody().Close()
		...
	}

A non-2XX status code is not an error: it produces an unsuccessful
Response whose error body is fully buffered in memory. The caller owns
that body and must close it.

A call executes at most once. To execute the same request again, Clone
the call:

	resp2, err := call.Clone().Execute()

To execute a call without blocking, use Enqueue with a Callback, or
Submit to receive the outcome on a channel:

	ch, err := call.Submit()
	...
	select {
	case res := <-ch:
		...
	case <-time.After(time.Second):
		call.Cancel()
	}

For control over how the client sends HTTP requests and receives HTTP
responses, use a custom HTTPDoer, for example one built by package
transport, and a timeout policy from package timeout:

	doer, err := transport.New(cfg)
	...
	client := &httpcall.Client{
		HTTPDoer:      doer,
		TimeoutPolicy: timeout.Fixed(10 * time.Second),
	}

To hook into each call execution, install a handler into the
appropriate handler chain:

	handlers := &httpcall.HandlerGroup{}
	handlers.PushBack(httpcall.AfterExecutionEnd, httpcall.HandlerFunc(
		func(_ httpcall.Event, e *request.Execution) {
			log.Printf("%s %s took %s", e.Plan.Method, e.Plan.URL, e.Duration())
		}),
	)
	client := &httpcall.Client{
		Handlers: handlers,
	}

Package metrics provides ready-made handlers which export Prometheus
metrics.
*/
package httpcall
