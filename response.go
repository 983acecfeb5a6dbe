// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpcall

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// A Response is the classified outcome of a call: either a success
// carrying a typed body, or an error carrying the raw error body.
//
// A Response is successful if and only if its status code is in the
// range [200, 300). A successful Response never has an error body, and
// an unsuccessful one never has a typed body. A successful Response may
// also have no body at all, which is the case for the no-content
// statuses 204 and 205.
//
// A Response is immutable. The error body, if present, is owned by the
// holder of the Response, who must close it; the Response never closes
// it on the holder's behalf.
type Response[T any] struct {
	raw       *http.Response
	body      T
	hasBody   bool
	errorBody Body
}

var localhost = &url.URL{Scheme: "http", Host: "localhost", Path: "/"}

// Success returns a successful Response with status 200 OK, carrying
// body.
func Success[T any](body T) *Response[T] {
	return SuccessRaw(body, syntheticResponse(http.StatusOK, nil, nil))
}

// SuccessCode returns a successful Response with the given status code,
// carrying body. SuccessCode panics if code is not in [200, 300).
func SuccessCode[T any](code int, body T) *Response[T] {
	if code < 200 || code >= 300 {
		panic("httpcall: code < 200 or >= 300: " + strconv.Itoa(code))
	}
	return SuccessRaw(body, syntheticResponse(code, nil, nil))
}

// SuccessHeader returns a successful Response with status 200 OK and
// the given headers, carrying body. SuccessHeader panics if header is
// nil.
func SuccessHeader[T any](body T, header http.Header) *Response[T] {
	if header == nil {
		panic("httpcall: nil header")
	}
	return SuccessRaw(body, syntheticResponse(http.StatusOK, header, nil))
}

// SuccessRaw returns a successful Response backed by the raw response,
// carrying body. SuccessRaw panics if raw is nil or not successful.
func SuccessRaw[T any](body T, raw *http.Response) *Response[T] {
	if raw == nil {
		panic("httpcall: nil raw response")
	}
	if !successful(raw.StatusCode) {
		panic("httpcall: raw response must be successful")
	}
	return &Response[T]{raw: raw, body: body, hasBody: true}
}

// noContent returns a successful Response without a body.
func noContent[T any](raw *http.Response) *Response[T] {
	return &Response[T]{raw: raw}
}

// ErrorCode returns an unsuccessful Response with the given status code
// and error body. ErrorCode panics if body is nil or code is less than
// 400.
func ErrorCode[T any](code int, body Body) *Response[T] {
	if body == nil {
		panic("httpcall: nil error body")
	}
	if code < 400 {
		panic("httpcall: code < 400: " + strconv.Itoa(code))
	}
	stub := &noContentBody{contentType: body.ContentType(), length: body.ContentLength()}
	return ErrorRaw[T](body, syntheticResponse(code, nil, stub))
}

// ErrorRaw returns an unsuccessful Response backed by the raw response,
// carrying the error body. ErrorRaw panics if body or raw is nil, or if
// raw is successful.
func ErrorRaw[T any](body Body, raw *http.Response) *Response[T] {
	if body == nil {
		panic("httpcall: nil error body")
	}
	if raw == nil {
		panic("httpcall: nil raw response")
	}
	if successful(raw.StatusCode) {
		panic("httpcall: raw response should not be successful")
	}
	return &Response[T]{raw: raw, errorBody: body}
}

func syntheticResponse(code int, header http.Header, body Body) *http.Response {
	if header == nil {
		header = make(http.Header)
	}
	if body == nil {
		body = &noContentBody{length: -1}
	}
	return &http.Response{
		Status:        strconv.Itoa(code) + " " + http.StatusText(code),
		StatusCode:    code,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          body,
		ContentLength: body.ContentLength(),
		Request:       &http.Request{Method: "GET", URL: localhost, Header: make(http.Header)},
	}
}

func successful(code int) bool {
	return code >= 200 && code < 300
}

// Raw returns the raw HTTP response. Its body stream has been severed,
// so only its metadata is usable.
func (r *Response[T]) Raw() *http.Response {
	return r.raw
}

// Code returns the HTTP status code.
func (r *Response[T]) Code() int {
	return r.raw.StatusCode
}

// Message returns the HTTP status message (reason phrase), for example
// "Not Found".
func (r *Response[T]) Message() string {
	prefix := strconv.Itoa(r.raw.StatusCode)
	return strings.TrimSpace(strings.TrimPrefix(r.raw.Status, prefix))
}

// Header returns the HTTP response headers.
func (r *Response[T]) Header() http.Header {
	return r.raw.Header
}

// IsSuccessful reports whether the status code is in [200, 300).
func (r *Response[T]) IsSuccessful() bool {
	return successful(r.raw.StatusCode)
}

// Body returns the typed body of a successful response. It returns the
// zero value of T if the response is unsuccessful or has no content;
// use HasBody to tell the cases apart.
func (r *Response[T]) Body() T {
	return r.body
}

// HasBody reports whether the response carries a typed body.
func (r *Response[T]) HasBody() bool {
	return r.hasBody
}

// ErrorBody returns the raw body of an unsuccessful response, or nil
// if the response is successful. The caller owns the returned Body and
// must close it.
func (r *Response[T]) ErrorBody() Body {
	return r.errorBody
}

func (r *Response[T]) String() string {
	u := ""
	if r.raw.Request != nil && r.raw.Request.URL != nil {
		u = r.raw.Request.URL.String()
	}
	return fmt.Sprintf("Response{protocol=%s, code=%d, message=%s, url=%s}",
		r.raw.Proto, r.raw.StatusCode, r.Message(), u)
}
