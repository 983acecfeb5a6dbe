// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"net"
	"net/http"
	"time"

	"github.com/gogama/httpcall"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// New builds an HTTP client with a fresh transport configured from cfg.
// Defaults are applied to a copy of cfg first. The returned client has
// no timeout of its own since httpcall raw calls enforce their own.
func New(cfg Config) (*http.Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}
	t := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		DisableKeepAlives:     cfg.DisableKeepAlives,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if cfg.HTTP2 {
		if err := http2.ConfigureTransport(t); err != nil {
			return nil, err
		}
	}

	return &http.Client{Transport: t}, nil
}

// NewClient builds an httpcall.Client whose HTTPDoer and timeout
// policy come from cfg. A nil logger disables logging.
func NewClient(cfg Config, logger *zap.Logger) (*httpcall.Client, error) {
	cfg.ApplyDefaults()
	doer, err := New(cfg)
	if err != nil {
		return nil, err
	}

	return &httpcall.Client{
		HTTPDoer:      doer,
		TimeoutPolicy: cfg.TimeoutPolicy(),
		Handlers:      &httpcall.HandlerGroup{},
		Logger:        logger,
	}, nil
}
