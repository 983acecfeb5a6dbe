// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpcall

import (
	"bytes"
	"io"
	"sync"
)

// A Body is a readable HTTP body together with its metadata.
//
// Whoever holds a Body owns it and must Close it exactly once when
// done. In particular the error body of a Response is handed to the
// caller, and the caller must close it.
type Body interface {
	io.ReadCloser
	// ContentType returns the value of the Content-Type header that
	// accompanied the body, or the empty string if there was none.
	ContentType() string
	// ContentLength returns the length of the body in bytes, or -1 if
	// the length is unknown.
	ContentLength() int64
}

// NewBody returns an in-memory Body containing data. Closing it has no
// effect.
func NewBody(contentType string, data []byte) Body {
	return &bufferedBody{
		Reader:      bytes.NewReader(data),
		contentType: contentType,
		length:      int64(len(data)),
	}
}

type bufferedBody struct {
	*bytes.Reader
	contentType string
	length      int64
}

func (b *bufferedBody) ContentType() string  { return b.contentType }
func (b *bufferedBody) ContentLength() int64 { return b.length }
func (b *bufferedBody) Close() error         { return nil }

// buffer reads src to the end and returns the contents as an in-memory
// Body. It does not close src.
func buffer(src io.Reader, contentType string) (Body, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return NewBody(contentType, data), nil
}

// noContentBody takes the place of the live body stream on a raw
// response once the stream has been handed off. Its metadata remains
// readable, but reading from it always fails.
type noContentBody struct {
	contentType string
	length      int64
}

func (b *noContentBody) Read(_ []byte) (int, error) { return 0, ErrConvertedBody }
func (b *noContentBody) Close() error               { return nil }
func (b *noContentBody) ContentType() string        { return b.contentType }
func (b *noContentBody) ContentLength() int64       { return b.length }

// catchingBody wraps a live body stream while a Converter reads from
// it. Any read error raised by the stream is recorded before being
// returned, so that after a failed conversion the stream's error can
// be reported in place of the converter's.
type catchingBody struct {
	delegate    io.ReadCloser
	contentType string
	length      int64

	mu     sync.Mutex
	thrown error

	closeOnce sync.Once
	closeErr  error
}

func newCatchingBody(delegate io.ReadCloser, contentType string, length int64) *catchingBody {
	return &catchingBody{
		delegate:    delegate,
		contentType: contentType,
		length:      length,
	}
}

func (b *catchingBody) Read(p []byte) (int, error) {
	n, err := b.delegate.Read(p)
	if err != nil && err != io.EOF {
		b.mu.Lock()
		b.thrown = err
		b.mu.Unlock()
	}
	return n, err
}

// Close closes the delegate stream. Only the first call reaches the
// delegate; later calls return the first call's result.
func (b *catchingBody) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = b.delegate.Close()
	})
	return b.closeErr
}

func (b *catchingBody) ContentType() string  { return b.contentType }
func (b *catchingBody) ContentLength() int64 { return b.length }

// caught returns the last read error raised by the delegate stream, or
// nil if reading never failed.
func (b *catchingBody) caught() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.thrown
}
