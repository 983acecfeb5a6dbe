// Copyright 2021 The httpcall Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package converter provides codecs which convert response bodies into
// typed values (httpcall.Converter) and typed values into request
// bodies (httpcall.Encoder).
//
//	call, err := httpcall.Send(client, "POST", "https://example.com/users",
//		converter.JSON[NewUser](), u, converter.JSON[User]())
//
// Protocol buffer messages are supported in both the binary wire format
// (Proto) and the canonical JSON mapping (ProtoJSON).
package converter
