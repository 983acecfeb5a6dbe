// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies call failures as transient or
// non-transient. The categories are used to label failure metrics and
// to decide whether executing a clone of a failed call is worthwhile.
//
// Package transient depends only on the standard library, so it brings
// no dependencies when imported as a standalone package.
package transient
