// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"context"
	"net/http"

	"github.com/gogama/lithic/request"
)

// An HTTPDoer implements a Do method in the same manner as the Go
// standard library http.Client from the net/http package. It is the
// transport over which Client makes every attempt.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the Go
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// Doer is the interface that wraps the basic Do method.
//
// Do executes one logical API call and returns the final execution
// state, and the classified error if the call failed.
type Doer interface {
	Do(ctx context.Context, o *request.Options) (*request.Execution, error)
}

// A Caller is a Doer which also says how successful responses are
// decoded. Client implements Caller, and the typed helpers Execute,
// Get, Post, Put, Patch, Delete, Go, GetAPIList and ListAsync work on
// any Caller.
type Caller interface {
	Doer

	// StrictValidation reports whether responses are validated against
	// their model schema.
	StrictValidation() bool
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any connections which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
//
// If the underlying implementation does not support this ability,
// CloseIdleConnections does nothing.
type IdleCloser interface {
	CloseIdleConnections()
}
