// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"net/http"
	"strings"
	"time"
)

// A Policy defines a timeout policy which may be plugged into the
// client (httpcall.Client) to decide the timeout of each raw call it
// creates. The timeout covers the whole exchange: connecting, sending
// the request, and reading the response body.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to set on the raw call that will
	// carry request r.
	Timeout(r *http.Request) time.Duration
}

// DefaultPolicy is the default timeout policy. It sets a fixed timeout
// of 5 seconds on each call.
var DefaultPolicy Policy = Fixed(5 * time.Second)

// Infinite is a built-in timeout policy which never times out.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed constructs a timeout policy that uses the same value for every
// call.
func Fixed(d time.Duration) Policy {
	return fixed(d)
}

type fixed time.Duration

func (p fixed) Timeout(_ *http.Request) time.Duration {
	return time.Duration(p)
}

// ByMethod constructs a timeout policy that picks the timeout by HTTP
// method. Methods are matched case-insensitively; an empty request
// method matches "GET". Methods missing from byMethod get usual.
//
// Use ByMethod when uploads or other mutating calls legitimately take
// much longer than reads:
//
//	p := ByMethod(2*time.Second, map[string]time.Duration{
//		"POST": 30 * time.Second,
//		"PUT":  30 * time.Second,
//	})
func ByMethod(usual time.Duration, byMethod map[string]time.Duration) Policy {
	m := make(map[string]time.Duration, len(byMethod))
	for method, d := range byMethod {
		m[strings.ToUpper(method)] = d
	}
	return &methodPolicy{usual: usual, byMethod: m}
}

type methodPolicy struct {
	usual    time.Duration
	byMethod map[string]time.Duration
}

func (p *methodPolicy) Timeout(r *http.Request) time.Duration {
	method := "GET"
	if r != nil && r.Method != "" {
		method = strings.ToUpper(r.Method)
	}
	if d, ok := p.byMethod[method]; ok {
		return d
	}
	return p.usual
}
