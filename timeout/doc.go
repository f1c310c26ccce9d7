// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines the timeout value applied to each individual
// transport attempt of a logical API call, the client default (60
// seconds overall, 5 seconds to connect), and the plumbing that carries
// a per-call connect timeout down to the dialer.
package timeout
