// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpcall

// A Converter converts the body of a successful raw response into a
// typed value.
//
// Convert may read the body fully or partially, and may close it. The
// call closes the body after Convert returns in any case. Package
// converter provides converters for common formats.
type Converter[T any] interface {
	Convert(b Body) (T, error)
}

// The ConverterFunc type is an adapter to allow the use of ordinary
// functions as converters.
type ConverterFunc[T any] func(Body) (T, error)

// Convert calls f(b).
func (f ConverterFunc[T]) Convert(b Body) (T, error) {
	return f(b)
}

// An Encoder converts a typed value into a request body. The returned
// Body's content type becomes the request's Content-Type.
type Encoder[T any] interface {
	Encode(v T) (Body, error)
}

// The EncoderFunc type is an adapter to allow the use of ordinary
// functions as encoders.
type EncoderFunc[T any] func(T) (Body, error)

// Encode calls f(v).
func (f EncoderFunc[T]) Encode(v T) (Body, error) {
	return f(v)
}
