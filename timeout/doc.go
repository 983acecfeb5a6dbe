// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for setting the timeout of each raw
// call created by the client. A generic interface for timeout policies
// is provided, Policy, along with built-in policies and policy
// generating functions.
package timeout
