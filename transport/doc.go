// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package transport builds the HTTP plumbing underneath an httpcall.Client
from declarative configuration.

A Config may be filled in directly, or loaded with viper from a
configuration file section or from environment variables:

	v := viper.New()
	v.SetConfigFile("client.yml")
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	cfg, err := transport.LoadConfig(v)
	if err != nil {
		return err
	}
	client, err := transport.NewClient(cfg, logger)

The corresponding YAML looks like:

	transport:
	  timeout: 2s
	  method_timeouts:
	    post: 30s
	  http2: true
*/
package transport
