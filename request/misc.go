// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"io"
)

const badBodyTypeMsg = "httpcall/request: invalid type (for body use nil, " +
	"string, []byte, io.Reader or io.ReadCloser)"

// BodyBytes buffers a generic body parameter into the byte slice held
// by a Plan.
//
// The body parameter may be nil, a string, a []byte, an io.Reader or an
// io.ReadCloser. Readers are drained, and a reader that is also an
// io.Closer is always closed, even when draining fails. The read error
// takes precedence over the close error. Any other type is rejected.
func BodyBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case io.Reader:
		return drain(x)
	default:
		return nil, errors.New(badBodyTypeMsg)
	}
}

func drain(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(r)
	if c, ok := r.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
