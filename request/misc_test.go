// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBodyBytes(t *testing.T) {
	t.Run("literal types", func(t *testing.T) {
		b, err := BodyBytes(nil)
		assert.Nil(t, b)
		assert.NoError(t, err)
		b, err = BodyBytes("foo")
		assert.Equal(t, []byte("foo"), b)
		assert.NoError(t, err)
		b, err = BodyBytes([]byte{})
		assert.Equal(t, []byte{}, b)
		assert.NoError(t, err)
	})
	t.Run("plain reader", func(t *testing.T) {
		b, err := BodyBytes(strings.NewReader("baz"))
		assert.Equal(t, []byte("baz"), b)
		assert.NoError(t, err)
	})
	t.Run("encoded body", func(t *testing.T) {
		// An encoder's output is an io.ReadCloser carrying its own
		// content type. It must be drained and closed exactly once.
		e := &encodedBody{Reader: strings.NewReader(`{"id":7}`), contentType: "application/json"}
		b, err := BodyBytes(e)
		require.NoError(t, err)
		assert.Equal(t, `{"id":7}`, string(b))
		assert.Equal(t, 1, e.closed)
		assert.Equal(t, 0, e.Len())
	})
	t.Run("unsupported type", func(t *testing.T) {
		b, err := BodyBytes(map[string]string{"a": "b"})
		assert.Nil(t, b)
		assert.EqualError(t, err, badBodyTypeMsg)
	})
	t.Run("read error still closes", func(t *testing.T) {
		readErr := errors.New("connection reset")
		m := newMockReadCloser(t)
		m.On("Read", mock.Anything).Return(3, readErr).Once()
		m.On("Close").Return(errors.New("ignored")).Once()
		b, err := BodyBytes(m)
		assert.Nil(t, b)
		assert.Same(t, readErr, err)
		m.AssertExpectations(t)
	})
	t.Run("close error", func(t *testing.T) {
		closeErr := errors.New("close failed")
		m := newMockReadCloser(t)
		m.On("Read", mock.Anything).Return(0, io.EOF).Once()
		m.On("Close").Return(closeErr).Once()
		b, err := BodyBytes(m)
		assert.Nil(t, b)
		assert.Same(t, closeErr, err)
		m.AssertExpectations(t)
	})
}

type encodedBody struct {
	*strings.Reader
	contentType string
	closed      int
}

func (b *encodedBody) ContentType() string { return b.contentType }

func (b *encodedBody) Close() error {
	b.closed++
	return nil
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
