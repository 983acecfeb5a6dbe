// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command httpcall sends a single HTTP request as an httpcall call and
// prints the response.
//
//	httpcall get -i https://example.com/
//	httpcall post -d '{"name":"ada"}' --timeout 30s https://example.com/users
//
// Transport settings may be read from a YAML file with --config, whose
// "transport" section is described by package transport. Flags take
// precedence over the file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "httpcall: %v\n", err)
		stop()
		os.Exit(1)
	}
}
