// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package converter

import (
	"io"

	"github.com/gogama/httpcall"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

const (
	protoContentType     = "application/x-protobuf"
	protoJSONContentType = "application/json"
)

// Proto returns a codec between protocol buffer messages and bodies in
// the protocol buffer binary wire format. Converted messages are new
// instances of the same message type as prototype, which is otherwise
// unused.
func Proto[T proto.Message](prototype T) Codec[T] {
	return &protoCodec[T]{prototype: prototype}
}

type protoCodec[T proto.Message] struct {
	prototype T
}

func (c *protoCodec[T]) Convert(b httpcall.Body) (T, error) {
	defer func() {
		_ = b.Close()
	}()
	data, err := io.ReadAll(b)
	if err != nil {
		var zero T
		return zero, err
	}
	m := newMessage(c.prototype)
	if err = proto.Unmarshal(data, m); err != nil {
		var zero T
		return zero, err
	}
	return m, nil
}

func (c *protoCodec[T]) Encode(v T) (httpcall.Body, error) {
	data, err := proto.Marshal(v)
	if err != nil {
		return nil, err
	}
	return httpcall.NewBody(protoContentType, data), nil
}

// ProtoJSON returns a codec between protocol buffer messages and JSON
// bodies following the canonical protocol buffer JSON mapping. Unknown
// fields in converted bodies are ignored.
func ProtoJSON[T proto.Message](prototype T) Codec[T] {
	return &protoJSONCodec[T]{
		prototype: prototype,
		unmarshal: protojson.UnmarshalOptions{DiscardUnknown: true},
	}
}

type protoJSONCodec[T proto.Message] struct {
	prototype T
	marshal   protojson.MarshalOptions
	unmarshal protojson.UnmarshalOptions
}

func (c *protoJSONCodec[T]) Convert(b httpcall.Body) (T, error) {
	defer func() {
		_ = b.Close()
	}()
	data, err := io.ReadAll(b)
	if err != nil {
		var zero T
		return zero, err
	}
	m := newMessage(c.prototype)
	if err = c.unmarshal.Unmarshal(data, m); err != nil {
		var zero T
		return zero, err
	}
	return m, nil
}

func (c *protoJSONCodec[T]) Encode(v T) (httpcall.Body, error) {
	data, err := c.marshal.Marshal(v)
	if err != nil {
		return nil, err
	}
	return httpcall.NewBody(protoJSONContentType, data), nil
}

func newMessage[T proto.Message](prototype T) T {
	return prototype.ProtoReflect().New().Interface().(T)
}
