// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package converter

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/gogama/httpcall"
)

const jsonContentType = "application/json; charset=UTF-8"

// ErrTrailingData is returned when a JSON response body contains more
// data after the converted value.
var ErrTrailingData = errors.New("converter: JSON document was not fully consumed")

// JSON returns a codec between T and JSON bodies, using encoding/json.
//
// Converting a body that holds anything other than whitespace after
// the JSON value fails with ErrTrailingData.
func JSON[T any]() Codec[T] {
	return jsonCodec[T]{}
}

type jsonCodec[T any] struct{}

func (jsonCodec[T]) Convert(b httpcall.Body) (T, error) {
	defer func() {
		_ = b.Close()
	}()
	var v T
	dec := json.NewDecoder(b)
	if err := dec.Decode(&v); err != nil {
		var zero T
		return zero, err
	}
	if _, err := dec.Token(); err != io.EOF {
		var zero T
		if err != nil {
			return zero, err
		}
		return zero, ErrTrailingData
	}
	return v, nil
}

func (jsonCodec[T]) Encode(v T) (httpcall.Body, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return httpcall.NewBody(jsonContentType, bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
