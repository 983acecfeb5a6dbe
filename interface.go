// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpcall

import (
	"net/url"

	"github.com/gogama/httpcall/request"
)

// Get returns an unexecuted call that issues a GET to the specified URL
// and converts a successful response body with conv.
//
// To make a call with custom headers, use request.NewPlan and NewCall.
func Get[T any](c *Client, url string, conv Converter[T]) (*Call[T], error) {
	p, err := request.NewPlan("GET", url, nil)
	if err != nil {
		return nil, err
	}
	return NewCall(c, p, conv), nil
}

// Head returns an unexecuted call that issues a HEAD to the specified
// URL. Responses to HEAD have no body, so the call's typed body is
// always the empty struct.
func Head(c *Client, url string) (*Call[struct{}], error) {
	p, err := request.NewPlan("HEAD", url, nil)
	if err != nil {
		return nil, err
	}
	return NewCall[struct{}](c, p, discard), nil
}

// Post returns an unexecuted call that issues a POST to the specified
// URL and converts a successful response body with conv.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.NewPlan and request.BodyBytes, namely:
// string; []byte; io.Reader; and io.ReadCloser.
func Post[T any](c *Client, url, contentType string, body interface{}, conv Converter[T]) (*Call[T], error) {
	b, err := request.BodyBytes(body)
	if err != nil {
		return nil, err
	}
	p, err := request.NewPlan("POST", url, b)
	if err != nil {
		return nil, err
	}
	p.Header.Set("Content-Type", contentType)
	return NewCall(c, p, conv), nil
}

// PostForm returns an unexecuted call that issues a POST to the
// specified URL, with data's keys and values URL-encoded as the request
// body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
func PostForm[T any](c *Client, url string, data url.Values, conv Converter[T]) (*Call[T], error) {
	return Post(c, url, "application/x-www-form-urlencoded", data.Encode(), conv)
}

// Send returns an unexecuted call that issues a request with the given
// method to the specified URL. The request body is v encoded by enc,
// and the Content-Type header is set to the encoded body's content
// type, if it has one.
func Send[Req, T any](c *Client, method, url string, enc Encoder[Req], v Req, conv Converter[T]) (*Call[T], error) {
	if enc == nil {
		panic("httpcall: nil encoder")
	}
	body, err := enc.Encode(v)
	if err != nil {
		return nil, err
	}
	var contentType string
	var b []byte
	if body != nil {
		contentType = body.ContentType()
		b, err = request.BodyBytes(body)
		if err != nil {
			return nil, err
		}
	}
	p, err := request.NewPlan(method, url, b)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		p.Header.Set("Content-Type", contentType)
	}
	return NewCall(c, p, conv), nil
}

var discard = ConverterFunc[struct{}](func(b Body) (struct{}, error) {
	return struct{}{}, nil
})
