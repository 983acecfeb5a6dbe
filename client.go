// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpcall

import (
	"errors"
	"net/http"

	"github.com/gogama/httpcall/timeout"
	"go.uber.org/zap"
)

var nopLogger = zap.NewNop()

// A Client creates calls and the raw calls that carry them. Its zero
// value is a valid configuration.
//
// The zero value client uses http.DefaultClient (from net/http) as the
// HTTPDoer, timeout.DefaultPolicy as the timeout policy, no event
// handlers, and a no-op logger.
//
// Client's HTTPDoer typically has an internal state (cached TCP
// connections) so Client instances should be reused instead of created
// as needed. Client is safe for concurrent use by multiple goroutines
// as long as its fields are not modified.
//
// A Client is higher-level than an HTTPDoer. The HTTPDoer is
// responsible for all details of sending the HTTP request and receiving
// the response, including redirects. Client adds on top of it:
//
// • single-shot, cancellable raw calls with a per-call timeout chosen
// by a customizable timeout policy;
//
// • typed calls (see NewCall) which convert response bodies with a
// Converter and classify responses into successes and errors;
//
// • user-provided handler functions invoked at designated points of
// each call execution, allowing features such as metrics to be mixed
// in from outside libraries.
type Client struct {
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, http.DefaultClient from the standard net/http
	// package is used.
	HTTPDoer HTTPDoer
	// TimeoutPolicy specifies the timeout of each raw call.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// RawCallFactory, if set, replaces the client's own raw calls. The
	// HTTPDoer and TimeoutPolicy are then unused.
	RawCallFactory RawCallFactory
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during a call execution.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
	// Logger receives diagnostics, such as panics raised by callbacks.
	//
	// If Logger is nil, nothing is logged.
	Logger *zap.Logger
}

// NewRawCall creates a raw call carrying r over the client's HTTPDoer,
// with the timeout dictated by the client's timeout policy. If the
// client has a RawCallFactory, creation is delegated to it.
//
// NewRawCall makes Client a RawCallFactory.
func (c *Client) NewRawCall(r *http.Request) (RawCall, error) {
	if c.RawCallFactory != nil {
		return c.RawCallFactory.NewRawCall(r)
	}
	if r == nil {
		return nil, errors.New("httpcall: nil request")
	}
	if r.URL == nil {
		return nil, errors.New("httpcall: nil request URL")
	}

	timeoutPolicy := c.TimeoutPolicy
	if timeoutPolicy == nil {
		timeoutPolicy = timeout.DefaultPolicy
	}

	return newDoerCall(c.doer(), r, timeoutPolicy.Timeout(r)), nil
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
func (c *Client) CloseIdleConnections() {
	doer := c.doer()
	if ic, ok := doer.(interface{ CloseIdleConnections() }); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return http.DefaultClient
	}

	return c.HTTPDoer
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return nopLogger
	}

	return c.Logger
}
