// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient categorizes the errors a transport attempt can end
// in, so that the API client can tell a timeout from a refused or reset
// connection, and a caller's cancellation from all of them.
package transient
