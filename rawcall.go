// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpcall

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// A RawCall is a single-shot, cancellable transport-level exchange of
// one HTTP request for one raw HTTP response.
//
// Implementations must be safe for concurrent use by multiple
// goroutines. Cancel and IsCanceled in particular may be called at any
// time from any goroutine.
type RawCall interface {
	// Request returns the HTTP request the raw call carries.
	Request() *http.Request
	// Timeout returns the timeout covering the whole exchange. A
	// duration of math.MaxInt64 means no timeout.
	Timeout() time.Duration
	// Execute sends the request and blocks until the raw response
	// headers arrive or the exchange fails. On success the caller owns
	// the response body and must close it.
	Execute() (*http.Response, error)
	// Enqueue sends the request without blocking. Exactly one method of
	// h is invoked, exactly once, on a goroutine managed by the raw
	// call.
	Enqueue(h RawHandler)
	// Cancel aborts the exchange. It is idempotent, and a raw call
	// canceled before it starts fails as soon as it starts.
	Cancel()
	// IsCanceled reports whether Cancel has been called.
	IsCanceled() bool
}

// A RawHandler receives the outcome of RawCall.Enqueue.
type RawHandler interface {
	// OnResponse receives the raw response. The handler owns the
	// response body and must close it.
	OnResponse(rc RawCall, resp *http.Response)
	// OnFailure receives the failure that prevented a raw response from
	// arriving.
	OnFailure(rc RawCall, err error)
}

// A RawCallFactory creates raw calls. Creation may fail, for example
// when the request cannot be carried by the transport.
type RawCallFactory interface {
	NewRawCall(r *http.Request) (RawCall, error)
}

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// doerCall is the RawCall the Client creates over its HTTPDoer.
type doerCall struct {
	doer    HTTPDoer
	req     *http.Request
	timeout time.Duration

	mu       sync.Mutex
	started  bool
	canceled bool
	cancel   context.CancelFunc
}

func newDoerCall(doer HTTPDoer, req *http.Request, timeout time.Duration) *doerCall {
	return &doerCall{
		doer:    doer,
		req:     req,
		timeout: timeout,
	}
}

func (c *doerCall) Request() *http.Request {
	return c.req
}

func (c *doerCall) Timeout() time.Duration {
	return c.timeout
}

// start derives the attempt context and returns the request to send.
// The returned cancel function must be called once the response body
// is closed or the exchange failed.
func (c *doerCall) start() (*http.Request, context.CancelFunc, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil, nil, ErrAlreadyExecuted
	}
	c.started = true
	if c.canceled {
		return nil, nil, urlErrorWrap(c.req, context.Canceled)
	}
	var ctx context.Context
	var cancel context.CancelFunc
	if c.timeout <= 0 || c.timeout == 1<<63-1 {
		ctx, cancel = context.WithCancel(c.req.Context())
	} else {
		ctx, cancel = context.WithTimeout(c.req.Context(), c.timeout)
	}
	c.cancel = cancel
	return c.req.WithContext(ctx), cancel, nil
}

func (c *doerCall) Execute() (*http.Response, error) {
	req, cancel, err := c.start()
	if err != nil {
		return nil, err
	}
	return c.do(req, cancel)
}

func (c *doerCall) do(req *http.Request, cancel context.CancelFunc) (*http.Response, error) {
	resp, err := c.doer.Do(req)
	if err != nil {
		cancel()
		return nil, urlErrorWrap(c.req, err)
	}
	if resp.Body == nil {
		resp.Body = http.NoBody
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (c *doerCall) Enqueue(h RawHandler) {
	req, cancel, err := c.start()
	go func() {
		if err == nil {
			var resp *http.Response
			resp, err = c.do(req, cancel)
			if err == nil {
				h.OnResponse(c, resp)
				return
			}
		}
		h.OnFailure(c, err)
	}()
}

func (c *doerCall) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.canceled = true
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *doerCall) IsCanceled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canceled
}

// cancelOnClose keeps the attempt context alive until the body is
// closed, so that a timeout keeps covering the body read.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func urlErrorWrap(r *http.Request, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(r.Method),
		URL: r.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
