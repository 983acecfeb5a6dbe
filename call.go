// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpcall

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogama/httpcall/request"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// A Call is a single logical invocation of an HTTP request plan whose
// successful response body is converted to a T.
//
// A Call can be executed once, either synchronously with Execute or
// asynchronously with Enqueue or Submit. Use Clone to get a fresh call
// bound to the same plan. The raw call that carries the request is
// created lazily, at most once per Call; if its creation fails, the
// failure is remembered and returned verbatim by every later attempt to
// use it.
//
// Call is safe for concurrent use by multiple goroutines. In
// particular, Cancel may be called at any time from any goroutine.
type Call[T any] struct {
	id        string
	plan      *request.Plan
	factory   RawCallFactory
	converter Converter[T]
	handlers  *HandlerGroup
	logger    *zap.Logger

	canceled atomic.Bool

	// mu guards raw, creationErr, and executed.
	mu          sync.Mutex
	raw         RawCall
	creationErr error
	executed    bool
}

// NewCall returns an unexecuted call bound to plan p, using client c
// to create its raw call and conv to convert successful response
// bodies.
//
// NewCall panics if any argument is nil.
func NewCall[T any](c *Client, p *request.Plan, conv Converter[T]) *Call[T] {
	if c == nil {
		panic("httpcall: nil client")
	}
	if p == nil {
		panic("httpcall: nil plan")
	}
	if conv == nil {
		panic("httpcall: nil converter")
	}
	return newCall(p, c, conv, c.Handlers, c.logger())
}

func newCall[T any](p *request.Plan, f RawCallFactory, conv Converter[T], h *HandlerGroup, l *zap.Logger) *Call[T] {
	return &Call[T]{
		id:        uuid.NewString(),
		plan:      p,
		factory:   f,
		converter: conv,
		handlers:  h,
		logger:    l,
	}
}

// Clone returns a new, unexecuted call bound to the same plan,
// factory, converter, handlers and logger. The clone does not share
// the raw call, the creation failure, or the cancellation of c.
func (c *Call[T]) Clone() *Call[T] {
	return newCall(c.plan, c.factory, c.converter, c.handlers, c.logger)
}

// ID returns the identifier of this call instance.
func (c *Call[T]) ID() string {
	return c.id
}

// Plan returns the request plan the call is bound to.
func (c *Call[T]) Plan() *request.Plan {
	return c.plan
}

// Request returns the HTTP request carried by the raw call, creating
// the raw call if necessary. If raw call creation fails, now or
// earlier, the creation failure is returned.
func (c *Call[T]) Request() (*http.Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := c.rawCallLocked()
	if err != nil {
		return nil, err
	}
	return raw.Request(), nil
}

// Timeout returns the timeout of the raw call, creating the raw call if
// necessary. If raw call creation fails, now or earlier, the creation
// failure is returned.
func (c *Call[T]) Timeout() (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := c.rawCallLocked()
	if err != nil {
		return 0, err
	}
	return raw.Timeout(), nil
}

// rawCallLocked returns the raw call, creating it on first use. The
// outcome of the first creation, success or failure, is kept and
// returned to every later caller. A panic raised by the factory is not
// kept. c.mu must be held.
func (c *Call[T]) rawCallLocked() (RawCall, error) {
	if c.raw != nil {
		return c.raw, nil
	}
	if c.creationErr != nil {
		return nil, c.creationErr
	}

	raw, err := c.factory.NewRawCall(c.plan.ToRequest(c.plan.Context()))
	if err == nil && raw == nil {
		err = ErrNilRawCall
	}
	if err != nil {
		c.creationErr = err
		c.logger.Debug("httpcall: raw call creation failed", c.fields(zap.Error(err))...)
		return nil, err
	}

	c.raw = raw
	return raw, nil
}

// claim marks the call executed and returns its raw call or creation
// failure. It returns false if the call was already executed.
func (c *Call[T]) claim() (bool, RawCall, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.executed {
		return false, nil, nil
	}
	c.executed = true
	raw, err := c.rawCallLocked()
	return true, raw, err
}

// Execute sends the request and blocks until the response is received
// and classified.
//
// A response is returned, with a nil error, whenever the server
// responded, including with a non-2XX status code; in that case the
// caller owns the response's error body and must close it. An error is
// returned if the raw call could not be created, if the exchange
// failed, or if the response body could not be converted. If the
// conversion failed because reading the body failed, the read error is
// returned rather than the converter's error.
//
// Execute returns ErrAlreadyExecuted if the call was already executed.
func (c *Call[T]) Execute() (*Response[T], error) {
	claimed, raw, err := c.claim()
	if !claimed {
		return nil, ErrAlreadyExecuted
	}

	e := c.begin(false, raw, err)
	if err != nil {
		return nil, c.end(e, err)
	}

	if c.canceled.Load() {
		raw.Cancel()
	}

	resp, err := raw.Execute()
	if err != nil {
		return nil, c.end(e, err)
	}

	r, err := c.classify(e, resp)
	if err != nil {
		return nil, c.end(e, err)
	}
	c.end(e, nil)
	return r, nil
}

// Enqueue sends the request without blocking and reports the outcome
// to cb. Exactly one method of cb is invoked, exactly once.
//
// If the raw call could not be created, cb.OnFailure is invoked on the
// calling goroutine before Enqueue returns. Otherwise cb is invoked on
// a goroutine managed by the transport, and any panic it raises is
// recovered and logged. A panic raised while classifying the response,
// whether by the converter or by a BeforeClassify handler, is recovered
// and reported to cb.OnFailure as a *PanicError.
//
// Enqueue returns ErrAlreadyExecuted, without invoking cb, if the call
// was already executed. Enqueue panics if cb is nil.
func (c *Call[T]) Enqueue(cb Callback[T]) error {
	if cb == nil {
		panic("httpcall: nil callback")
	}

	claimed, raw, err := c.claim()
	if !claimed {
		return ErrAlreadyExecuted
	}

	e := c.begin(true, raw, err)
	if err != nil {
		cb.OnFailure(c, c.end(e, err))
		return nil
	}

	if c.canceled.Load() {
		raw.Cancel()
	}

	raw.Enqueue(&rawHandler[T]{call: c, callback: cb, execution: e})
	return nil
}

// Submit is like Enqueue, but delivers the outcome on the returned
// channel instead of to a callback. The channel is buffered and
// receives exactly one Result. Use Cancel to abort the call.
func (c *Call[T]) Submit() (<-chan Result[T], error) {
	ch := make(chan Result[T], 1)
	err := c.Enqueue(CallbackFuncs[T]{
		Response: func(_ *Call[T], r *Response[T]) {
			ch <- Result[T]{Response: r}
		},
		Failure: func(_ *Call[T], err error) {
			ch <- Result[T]{Err: err}
		},
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// Cancel cancels the call. It may be called any number of times, from
// any goroutine, before, during, or after execution. If the raw call
// exists it is aborted immediately; otherwise it is aborted as soon as
// it is created and executed.
func (c *Call[T]) Cancel() {
	c.canceled.Store(true)

	c.mu.Lock()
	raw := c.raw
	c.mu.Unlock()

	if raw != nil {
		c.logger.Debug("httpcall: canceling raw call", c.fields()...)
		raw.Cancel()
	}
}

// IsCanceled reports whether Cancel was called, or the raw call
// reports having been canceled.
func (c *Call[T]) IsCanceled() bool {
	if c.canceled.Load() {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raw != nil && c.raw.IsCanceled()
}

// IsExecuted reports whether Execute, Enqueue or Submit was invoked
// successfully on the call, whatever the outcome.
func (c *Call[T]) IsExecuted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.executed
}

func (c *Call[T]) begin(async bool, raw RawCall, err error) *request.Execution {
	e := &request.Execution{
		Plan:  c.plan,
		ID:    c.id,
		Async: async,
		Start: time.Now(),
		Err:   err,
	}
	if raw != nil {
		e.Request = raw.Request()
	}
	c.handlers.run(BeforeExecutionStart, e)
	return e
}

func (c *Call[T]) end(e *request.Execution, err error) error {
	e.Err = err
	e.End = time.Now()
	if err != nil {
		c.logger.Debug("httpcall: call failed", c.fields(zap.Error(err), zap.Duration("duration", e.Duration()))...)
	}
	c.handlers.run(AfterExecutionEnd, e)
	return err
}

// classify turns a raw response into a Response. The raw response body
// is closed exactly once whatever the outcome, including when a
// handler or the converter panics.
func (c *Call[T]) classify(e *request.Execution, resp *http.Response) (*Response[T], error) {
	body := resp.Body
	if body == nil {
		body = http.NoBody
	}
	contentType := resp.Header.Get("Content-Type")
	guard := newCatchingBody(body, contentType, resp.ContentLength)
	defer func() {
		_ = guard.Close()
	}()

	// The severed response stays inspectable after the body stream has
	// gone elsewhere.
	severed := new(http.Response)
	*severed = *resp
	severed.Body = &noContentBody{contentType: contentType, length: resp.ContentLength}
	e.Response = severed
	c.handlers.run(BeforeClassify, e)

	code := severed.StatusCode
	if !successful(code) {
		// Buffer the whole error body so the connection is released
		// before the caller gets to it.
		buffered, err := buffer(guard, contentType)
		if err != nil {
			return nil, err
		}
		return ErrorRaw[T](buffered, severed), nil
	}

	if code == http.StatusNoContent || code == http.StatusResetContent {
		return noContent[T](severed), nil
	}

	v, err := c.converter.Convert(guard)
	if err != nil {
		if cause := guard.caught(); cause != nil {
			return nil, cause
		}
		return nil, err
	}
	return SuccessRaw(v, severed), nil
}

func (c *Call[T]) fields(extra ...zap.Field) []zap.Field {
	fields := make([]zap.Field, 0, 3+len(extra))
	fields = append(fields,
		zap.String("call_id", c.id),
		zap.String("method", c.plan.Method),
	)
	if c.plan.URL != nil {
		fields = append(fields, zap.String("url", c.plan.URL.Redacted()))
	}
	return append(fields, extra...)
}

// rawHandler completes an enqueued call on the transport's goroutine.
type rawHandler[T any] struct {
	call      *Call[T]
	callback  Callback[T]
	execution *request.Execution
}

func (h *rawHandler[T]) OnResponse(_ RawCall, resp *http.Response) {
	r, err := h.classify(resp)
	if err != nil {
		h.fail(err)
		return
	}
	h.end(nil)
	h.deliver(func() {
		h.callback.OnResponse(h.call, r)
	})
}

func (h *rawHandler[T]) OnFailure(_ RawCall, err error) {
	h.fail(err)
}

func (h *rawHandler[T]) classify(resp *http.Response) (r *Response[T], err error) {
	defer func() {
		if p := recover(); p != nil {
			h.call.logger.Error("httpcall: panic during classification", h.call.fields(zap.Any("panic", p), zap.Stack("stack"))...)
			r, err = nil, &PanicError{Value: p}
		}
	}()
	return h.call.classify(h.execution, resp)
}

func (h *rawHandler[T]) fail(err error) {
	h.end(err)
	h.deliver(func() {
		h.callback.OnFailure(h.call, err)
	})
}

// end records the outcome. A panicking AfterExecutionEnd handler is
// logged and does not prevent the callback from being invoked.
func (h *rawHandler[T]) end(err error) {
	defer h.contain("httpcall: handler panicked")
	h.call.end(h.execution, err)
}

// deliver invokes the callback, keeping its panics off the transport's
// goroutine.
func (h *rawHandler[T]) deliver(f func()) {
	defer h.contain("httpcall: callback panicked")
	f()
}

func (h *rawHandler[T]) contain(msg string) {
	if p := recover(); p != nil {
		h.call.logger.Error(msg, h.call.fields(zap.Any("panic", p), zap.Stack("stack"))...)
	}
}
