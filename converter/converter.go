// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package converter

import (
	"io"

	"github.com/gogama/httpcall"
)

// A Codec converts in both directions between T and HTTP bodies.
type Codec[T any] interface {
	httpcall.Converter[T]
	httpcall.Encoder[T]
}

// String returns a codec between strings and plain text bodies.
func String() Codec[string] {
	return stringCodec{}
}

type stringCodec struct{}

func (stringCodec) Convert(b httpcall.Body) (string, error) {
	defer func() {
		_ = b.Close()
	}()
	data, err := io.ReadAll(b)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (stringCodec) Encode(v string) (httpcall.Body, error) {
	return httpcall.NewBody("text/plain; charset=UTF-8", []byte(v)), nil
}

// Bytes returns a codec between byte slices and opaque binary bodies.
func Bytes() Codec[[]byte] {
	return bytesCodec{}
}

type bytesCodec struct{}

func (bytesCodec) Convert(b httpcall.Body) ([]byte, error) {
	defer func() {
		_ = b.Close()
	}()
	return io.ReadAll(b)
}

func (bytesCodec) Encode(v []byte) (httpcall.Body, error) {
	return httpcall.NewBody("application/octet-stream", v), nil
}

// Discard returns a converter which reads and throws away the response
// body. Use it when only the status and headers of a successful
// response matter.
func Discard() httpcall.Converter[struct{}] {
	return httpcall.ConverterFunc[struct{}](func(b httpcall.Body) (struct{}, error) {
		defer func() {
			_ = b.Close()
		}()
		_, err := io.Copy(io.Discard, b)
		return struct{}{}, err
	})
}
