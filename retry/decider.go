// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/lithic/request"
)

// A Decider decides if a retry should be done.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
//
// Use the built-in deciders Budget, Directive and TransportErr, the
// constructors Times, StatusCode and Before, or implement your own
// Decider. Use DeciderFunc to convert an ordinary function into a
// Decider, and to compose deciders logically using DeciderFunc.And and
// DeciderFunc.Or.
type Decider interface {
	Decide(e *request.Execution) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface, and
// also provides the logical composition methods And and Or.
//
// Every DeciderFunc must be safe for concurrent use by multiple
// goroutines.
type DeciderFunc func(e *request.Execution) bool

// DefaultDecider is the retry decider used by the API client. It
// retries while the call's retry budget is not exhausted (Budget) and
// either the server response calls for a retry (Directive) or the
// transport error is retryable (TransportErr).
var DefaultDecider = Budget.And(Directive.Or(TransportErr))

// Budget is a decider that indicates a retry while the execution has
// retries remaining. The budget comes from the per-call max retries
// override or, absent one, the client default.
var Budget DeciderFunc = budget

// Directive is a decider that indicates a retry if the most recent
// attempt received a complete HTTP error response for which
// ShouldRetry returns true.
var Directive DeciderFunc = directive

// TransportErr is a decider that indicates a retry if the most recent
// attempt failed with a transport error for which ShouldRetryErr
// returns true.
//
// TransportErr only looks at the error, so it always returns false if
// a valid HTTP response was read.
var TransportErr DeciderFunc = transportErr

// Decide returns true if a retry should be done, and false otherwise,
// after examining the current execution state.
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And composes two retry deciders into a new decider which returns true
// if both sub-deciders return true, and false otherwise.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Or composes two retry deciders into a new decider which returns
// true if either of the two sub-deciders returns true, but false if
// they both return false.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) || g(e)
	}
}

// Times constructs a retry decider which allows up to n retries
// regardless of the execution's own budget. The returned decider
// returns true while the attempt index e.Attempt is less than n.
func Times(n int) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Attempt < n
	}
}

// Before constructs a retry decider allowing retries until a certain
// amount of time has elapsed since the start of the call.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Duration() < d
	}
}

// StatusCode constructs a retry decider allowing retries based on the
// HTTP response status code. If the most recent attempt received a
// valid HTTP response whose status code is contained in ss, the decider
// returns true.
func StatusCode(ss ...int) DeciderFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(e *request.Execution) bool {
		for _, s := range ss2 {
			if e.StatusCode() == s {
				return true
			}
		}
		return false
	}
}

func budget(e *request.Execution) bool {
	return e.Remaining > 0
}

func directive(e *request.Execution) bool {
	if e.Response == nil || e.Err != nil {
		return false
	}
	return e.StatusCode() >= 400 && ShouldRetry(e.StatusCode(), e.Header())
}

func transportErr(e *request.Execution) bool {
	return e.Err != nil && ShouldRetryErr(e.Err, e.WroteRequest)
}
