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
	"testing"
	"time"

	"github.com/gogama/httpcall/request"
	"github.com/gogama/httpcall/transient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDoerCall(t *testing.T) {
	for _, server := range servers {
		t.Run(serverName(server), func(t *testing.T) {
			t.Run("execute", func(t *testing.T) { testDoerCallExecute(t, server.Client(), server.URL) })
			t.Run("enqueue", func(t *testing.T) { testDoerCallEnqueue(t, server.Client(), server.URL) })
			t.Run("header timeout", func(t *testing.T) { testDoerCallHeaderTimeout(t, server.Client(), server.URL) })
			t.Run("body timeout", func(t *testing.T) { testDoerCallBodyTimeout(t, server.Client(), server.URL) })
			t.Run("cancel in flight", func(t *testing.T) { testDoerCallCancelInFlight(t, server.Client(), server.URL) })
		})
	}
	t.Run("cancel before start", testDoerCallCancelBeforeStart)
	t.Run("single shot", testDoerCallSingleShot)
	t.Run("doer error", testDoerCallDoerError)
	t.Run("no timeout", testDoerCallNoTimeout)
}

func newServerRequest(t *testing.T, u string, i *serverInstruction) *http.Request {
	p, err := request.NewPlan("POST", u, i.toJSON())
	require.NoError(t, err)
	return p.ToRequest(context.Background())
}

func testDoerCallExecute(t *testing.T, doer HTTPDoer, u string) {
	i := &serverInstruction{StatusCode: 200, Body: []bodyChunk{{Data: []byte("foo")}, {Data: []byte("bar")}}}
	rc := newDoerCall(doer, newServerRequest(t, u, i), 5*time.Second)

	resp, err := rc.Execute()
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NoError(t, resp.Body.Close())
	assert.Equal(t, "foobar", string(data))
	assert.Equal(t, 200, resp.StatusCode)
	assert.False(t, rc.IsCanceled())
}

func testDoerCallEnqueue(t *testing.T, doer HTTPDoer, u string) {
	i := &serverInstruction{StatusCode: 500, Body: []bodyChunk{{Data: []byte("nope")}}}
	rc := newDoerCall(doer, newServerRequest(t, u, i), 5*time.Second)
	h := newMockRawHandler(t)
	done := make(chan struct{})
	h.On("OnResponse", rc, mock.MatchedBy(func(resp *http.Response) bool {
		return resp.StatusCode == 500
	})).Run(func(args mock.Arguments) {
		_ = args.Get(1).(*http.Response).Body.Close()
		close(done)
	}).Once()

	rc.Enqueue(h)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for response")
	}
	h.AssertExpectations(t)
}

func testDoerCallHeaderTimeout(t *testing.T, doer HTTPDoer, u string) {
	i := &serverInstruction{HeaderPause: 500 * time.Millisecond, StatusCode: 200}
	rc := newDoerCall(doer, newServerRequest(t, u, i), 50*time.Millisecond)

	resp, err := rc.Execute()
	assert.Nil(t, resp)
	var urlErr *url.Error
	require.ErrorAs(t, err, &urlErr)
	assert.Equal(t, transient.Timeout, transient.Categorize(err))
}

func testDoerCallBodyTimeout(t *testing.T, doer HTTPDoer, u string) {
	i := &serverInstruction{StatusCode: 200, Body: []bodyChunk{{Pause: 500 * time.Millisecond, Data: []byte("slow body")}}}
	rc := newDoerCall(doer, newServerRequest(t, u, i), 100*time.Millisecond)

	resp, err := rc.Execute()
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	start := time.Now()
	_, err = io.ReadAll(resp.Body)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 450*time.Millisecond)
}

func testDoerCallCancelInFlight(t *testing.T, doer HTTPDoer, u string) {
	i := &serverInstruction{HeaderPause: 2 * time.Second, StatusCode: 200}
	rc := newDoerCall(doer, newServerRequest(t, u, i), 10*time.Second)
	go func() {
		time.Sleep(50 * time.Millisecond)
		rc.Cancel()
	}()

	start := time.Now()
	resp, err := rc.Execute()
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, rc.IsCanceled())
}

func testDoerCallCancelBeforeStart(t *testing.T) {
	doer := newMockHTTPDoer(t)
	r, err := http.NewRequest("DELETE", "http://localhost/x", nil)
	require.NoError(t, err)
	rc := newDoerCall(doer, r, time.Second)

	rc.Cancel()
	rc.Cancel()
	assert.True(t, rc.IsCanceled())

	resp, err := rc.Execute()
	assert.Nil(t, resp)
	var urlErr *url.Error
	require.ErrorAs(t, err, &urlErr)
	assert.Equal(t, "Delete", urlErr.Op)
	assert.Equal(t, "http://localhost/x", urlErr.URL)
	assert.ErrorIs(t, err, context.Canceled)
	doer.AssertNotCalled(t, "Do", mock.Anything)
}

func testDoerCallSingleShot(t *testing.T) {
	doer := newMockHTTPDoer(t)
	doer.On("Do", mock.Anything).Return(&http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader(""))}, nil).Once()
	r, err := http.NewRequest("GET", "http://localhost", nil)
	require.NoError(t, err)
	rc := newDoerCall(doer, r, time.Second)

	resp, err := rc.Execute()
	require.NoError(t, err)
	_ = resp.Body.Close()

	_, err = rc.Execute()
	assert.Same(t, ErrAlreadyExecuted, err)

	h := newMockRawHandler(t)
	done := make(chan struct{})
	h.On("OnFailure", rc, ErrAlreadyExecuted).Run(func(mock.Arguments) { close(done) }).Once()
	rc.Enqueue(h)
	<-done
	h.AssertExpectations(t)
	doer.AssertExpectations(t)
}

func testDoerCallDoerError(t *testing.T) {
	doErr := errors.New("dial failed")
	doer := newMockHTTPDoer(t)
	doer.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		_, hasDeadline := r.Context().Deadline()
		return hasDeadline
	})).Return(nil, doErr).Once()
	r, err := http.NewRequest("PATCH", "http://localhost/y", nil)
	require.NoError(t, err)

	_, err = newDoerCall(doer, r, time.Second).Execute()

	var urlErr *url.Error
	require.ErrorAs(t, err, &urlErr)
	assert.Equal(t, "Patch", urlErr.Op)
	assert.Same(t, doErr, urlErr.Err)
	doer.AssertExpectations(t)
}

func testDoerCallNoTimeout(t *testing.T) {
	body := newBody("")
	doer := newMockHTTPDoer(t)
	doer.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		_, hasDeadline := r.Context().Deadline()
		return !hasDeadline
	})).Return(&http.Response{StatusCode: 200, Body: body}, nil).Twice()

	for _, d := range []time.Duration{0, 1<<63 - 1} {
		r, err := http.NewRequest("GET", "http://localhost", nil)
		require.NoError(t, err)
		rc := newDoerCall(doer, r, d)
		assert.Equal(t, d, rc.Timeout())
		resp, err := rc.Execute()
		require.NoError(t, err)
		assert.NoError(t, resp.Body.Close())
	}
	assert.Equal(t, 2, body.count())
	doer.AssertExpectations(t)
}

type mockRawHandler struct {
	mock.Mock
}

func newMockRawHandler(t *testing.T) *mockRawHandler {
	m := &mockRawHandler{}
	m.Test(t)
	return m
}

func (m *mockRawHandler) OnResponse(rc RawCall, resp *http.Response) {
	m.Called(rc, resp)
}

func (m *mockRawHandler) OnFailure(rc RawCall, err error) {
	m.Called(rc, err)
}
