// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Plan (the fixed parameters of
an HTTP request) and Execution (the record of one call execution).

A Plan describes how to build an HTTP request. For those familiar with
net/http, a Plan looks like a stripped-down http.Request with all
server-side fields removed and the body replaced with a pre-buffered
[]byte. Because the body is buffered, a Plan can produce any number of
identical requests, which is what lets a call be cloned and executed
again under a new identity.

	p, err := request.NewPlan("GET", "https://example.com", nil)
	...
	call := httpcall.NewCall(client, p, converter.String())

A plan may be assigned a context. Every request built from the plan
uses it as the parent context, so cancelling it aborts every call bound
to the plan:

	p, err := request.NewPlanWithContext(ctx, "POST", "https://example.com/upload", body)

An Execution is created by a call when it is executed and handed to the
event handlers installed on the client. You will typically not allocate
Execution instances yourself.
*/
package request
