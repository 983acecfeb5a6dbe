// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpcall

import (
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogama/httpcall/request"
	"github.com/gogama/httpcall/timeout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	t.Run("zero value", testClientZeroValue)
	t.Run("timeout policy", testClientTimeoutPolicy)
	t.Run("raw call factory", testClientRawCallFactory)
	t.Run("invalid request", testClientInvalidRequest)
	t.Run("close idle connections", testClientCloseIdleConnections)
}

func TestURLErrorOp(t *testing.T) {
	assert.Equal(t, "Get", urlErrorOp(""))
	assert.Equal(t, "Get", urlErrorOp("GET"))
	assert.Equal(t, "G", urlErrorOp("G"))
	assert.Equal(t, "X", urlErrorOp("X"))
	assert.Equal(t, "Xyz", urlErrorOp("XYZ"))
	assert.Equal(t, "Put", urlErrorOp("PUT"))
}

func testClientZeroValue(t *testing.T) {
	t.Parallel()
	cl := &Client{}
	assert.Same(t, http.DefaultClient, cl.doer())
	assert.Same(t, nopLogger, cl.logger())

	r, err := http.NewRequest("GET", "http://localhost", nil)
	require.NoError(t, err)
	rc, err := cl.NewRawCall(r)
	require.NoError(t, err)
	assert.Same(t, r, rc.Request())
	assert.Equal(t, timeout.DefaultPolicy.Timeout(r), rc.Timeout())
	assert.False(t, rc.IsCanceled())
}

func testClientTimeoutPolicy(t *testing.T) {
	t.Parallel()
	r, err := http.NewRequest("POST", "http://localhost", nil)
	require.NoError(t, err)
	policy := newMockTimeoutPolicy(t)
	policy.On("Timeout", r).Return(42 * time.Millisecond).Once()
	cl := &Client{TimeoutPolicy: policy}

	rc, err := cl.NewRawCall(r)
	require.NoError(t, err)
	assert.Equal(t, 42*time.Millisecond, rc.Timeout())
	policy.AssertExpectations(t)
}

func testClientRawCallFactory(t *testing.T) {
	t.Parallel()
	r, err := http.NewRequest("GET", "http://localhost", nil)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		rc := newMockRawCall(t)
		factory := newMockRawCallFactory(t)
		factory.On("NewRawCall", r).Return(rc, nil).Once()
		cl := &Client{RawCallFactory: factory, HTTPDoer: newMockHTTPDoer(t)}

		actual, err := cl.NewRawCall(r)
		assert.NoError(t, err)
		assert.Same(t, rc, actual)
		factory.AssertExpectations(t)
	})
	t.Run("failure", func(t *testing.T) {
		factoryErr := errors.New("no transport for you")
		factory := newMockRawCallFactory(t)
		factory.On("NewRawCall", r).Return(nil, factoryErr).Once()
		cl := &Client{RawCallFactory: factory}

		actual, err := cl.NewRawCall(r)
		assert.Same(t, factoryErr, err)
		assert.Nil(t, actual)
		factory.AssertExpectations(t)
	})
}

func testClientInvalidRequest(t *testing.T) {
	t.Parallel()
	cl := &Client{}

	rc, err := cl.NewRawCall(nil)
	assert.EqualError(t, err, "httpcall: nil request")
	assert.Nil(t, rc)

	rc, err = cl.NewRawCall(&http.Request{Method: "GET"})
	assert.EqualError(t, err, "httpcall: nil request URL")
	assert.Nil(t, rc)
}

func testClientCloseIdleConnections(t *testing.T) {
	t.Parallel()
	t.Run("not supported", func(t *testing.T) {
		doer := newMockHTTPDoer(t)
		cl := &Client{HTTPDoer: doer}
		cl.CloseIdleConnections()
		doer.AssertExpectations(t)
	})
	t.Run("supported", func(t *testing.T) {
		doer := newMockHTTPDoerWithCloseIdleConnections(t)
		doer.On("CloseIdleConnections").Once()
		cl := &Client{HTTPDoer: doer}
		cl.CloseIdleConnections()
		doer.AssertExpectations(t)
	})
}

type mockHTTPDoer struct {
	mock.Mock
}

func newMockHTTPDoer(t *testing.T) *mockHTTPDoer {
	m := &mockHTTPDoer{}
	m.Test(t)
	return m
}

func (m *mockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	err := args.Error(1)
	if resp, ok := args.Get(0).(*http.Response); ok {
		return resp, err
	}
	return nil, err
}

type mockHTTPDoerWithCloseIdleConnections struct {
	mockHTTPDoer
}

func newMockHTTPDoerWithCloseIdleConnections(t *testing.T) *mockHTTPDoerWithCloseIdleConnections {
	m := &mockHTTPDoerWithCloseIdleConnections{}
	m.Test(t)
	return m
}

func (m *mockHTTPDoerWithCloseIdleConnections) CloseIdleConnections() {
	m.Called()
}

type mockTimeoutPolicy struct {
	mock.Mock
}

func newMockTimeoutPolicy(t *testing.T) *mockTimeoutPolicy {
	m := &mockTimeoutPolicy{}
	m.Test(t)
	return m
}

func (m *mockTimeoutPolicy) Timeout(r *http.Request) time.Duration {
	args := m.Called(r)
	return args.Get(0).(time.Duration)
}

type mockRawCallFactory struct {
	mock.Mock
}

func newMockRawCallFactory(t *testing.T) *mockRawCallFactory {
	m := &mockRawCallFactory{}
	m.Test(t)
	return m
}

func (m *mockRawCallFactory) NewRawCall(r *http.Request) (RawCall, error) {
	args := m.Called(r)
	err := args.Error(1)
	if rc, ok := args.Get(0).(RawCall); ok {
		return rc, err
	}
	return nil, err
}

type mockRawCall struct {
	mock.Mock
}

func newMockRawCall(t *testing.T) *mockRawCall {
	m := &mockRawCall{}
	m.Test(t)
	return m
}

func (m *mockRawCall) Request() *http.Request {
	args := m.Called()
	r, _ := args.Get(0).(*http.Request)
	return r
}

func (m *mockRawCall) Timeout() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

func (m *mockRawCall) Execute() (*http.Response, error) {
	args := m.Called()
	err := args.Error(1)
	if resp, ok := args.Get(0).(*http.Response); ok {
		return resp, err
	}
	return nil, err
}

func (m *mockRawCall) Enqueue(h RawHandler) {
	m.Called(h)
}

func (m *mockRawCall) Cancel() {
	m.Called()
}

func (m *mockRawCall) IsCanceled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (g *HandlerGroup) mock(evt Event) *mockHandler {
	var m *mockHandler
	if len(g.handlers) <= int(evt) || len(g.handlers[evt]) < 1 {
		m = &mockHandler{}
		g.PushBack(evt, m)
		return m
	}

	for _, h := range g.handlers[evt] {
		if m, ok := h.(*mockHandler); ok {
			return m
		}
	}

	m = &mockHandler{}
	g.PushBack(evt, m)
	return m
}

func (g *HandlerGroup) assertExpectations(t *testing.T) {
	if g.handlers == nil {
		return
	}

	for _, evt := range Events() {
		handlers := g.handlers[evt]
		for _, h := range handlers {
			if m, ok := h.(*mockHandler); ok {
				m.AssertExpectations(t)
			}
		}
	}
}

type mockHandler struct {
	mock.Mock
}

func (m *mockHandler) Handle(evt Event, e *request.Execution) {
	m.Called(evt, e)
}

type trace struct {
	calls []string
}

func (g *HandlerGroup) addTraceHandlers() *trace {
	tr := &trace{}
	f := func(evt Event, _ *request.Execution) {
		tr.calls = append(tr.calls, evt.Name())
	}
	h := HandlerFunc(f)
	for _, evt := range Events() {
		g.PushBack(evt, h)
	}
	return tr
}

type mockReadCloser struct {
	mock.Mock
}

func newMockReadCloser(t *testing.T) *mockReadCloser {
	m := &mockReadCloser{}
	m.Test(t)
	return m
}

func (m *mockReadCloser) Read(p []byte) (n int, err error) {
	args := m.Called(p)
	n = args.Int(0)
	err = args.Error(1)
	return
}

func (m *mockReadCloser) Close() error {
	args := m.Called()
	return args.Error(0)
}

// countingCloser counts how many times the body it wraps is closed.
type countingCloser struct {
	io.Reader
	closed int32
}

func (c *countingCloser) Close() error {
	atomic.AddInt32(&c.closed, 1)
	return nil
}

func (c *countingCloser) count() int {
	return int(atomic.LoadInt32(&c.closed))
}
