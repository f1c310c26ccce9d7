// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"syscall"
)

// A Category is the category of a transport error, as reported by
// function Categorize.
//
// Every category except None and Canceled denotes a failure to complete
// an HTTP exchange which a later attempt may not suffer from.
type Category int

const (
	// None indicates the absence of an error.
	None Category = iota
	// Canceled indicates the caller cancelled the context governing
	// the logical call. A cancelled call must never be retried.
	Canceled
	// Timeout indicates a client-side timeout. The server may be going
	// through a temporary period of slowness, or the network path to
	// the server may be congested.
	//
	// Function Categorize returns Timeout if the error or any of its
	// wrapped causes has a Timeout method that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection, and
	// corresponds to the POSIX error code ECONNREFUSED.
	//
	// Although connection refusal may be a permanent condition, it is
	// also what a client sees while the remote service is starting or
	// restarting behind its port.
	ConnRefused
	// ConnReset indicates the remote host returned an RST packet on a
	// previously active TCP connection, and corresponds to the POSIX
	// error code ECONNRESET.
	ConnReset
	// Other indicates any other failure to speak HTTP with the remote
	// host, for example a DNS failure or an unexpected EOF.
	Other
)

var categoryNames = []string{
	"none",
	"canceled",
	"timeout",
	"conn_refused",
	"conn_reset",
	"other",
}

// String returns a short snake_case name for the category, suitable for
// use as a log field or metric label.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Categorize returns the category of the given transport error. A nil
// error produces None.
//
// Categorize looks at wrapped cause errors contained within err, not
// just err itself. Cancellation takes priority over every other
// category, and a timeout takes priority over the errno checks.
func Categorize(err error) Category {
	if err == nil {
		return None
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	if isTimeout(err) {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	return Other
}

type hasTimeout interface {
	Timeout() bool
}

// isTimeout reports whether any error in err's tree reports a timeout.
// Unlike errors.As, it keeps looking below an error which has a
// Timeout method reporting false, such as a *url.Error wrapping a
// joined error.
func isTimeout(err error) bool {
	if t, ok := err.(hasTimeout); ok && t.Timeout() {
		return true
	}
	switch x := err.(type) {
	case interface{ Unwrap() error }:
		if inner := x.Unwrap(); inner != nil {
			return isTimeout(inner)
		}
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			if inner != nil && isTimeout(inner) {
				return true
			}
		}
	}
	return false
}
