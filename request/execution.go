// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/lithic/transient"
)

// An Execution represents the state of one logical API call.
//
// When a call is made, an Execution is created for it. The Execution
// is updated as the call progresses (for example when the HTTP
// response becomes available, or when a retry is needed) and is
// ultimately returned to the caller.
//
// Retry policies and event handlers may set values on an Execution
// using its SetValue method and read them back using the Value method.
// They should otherwise treat the exported fields as read-only, since
// the executor relies on them. The exceptions are reasonable changes
// to the http.Request before it is sent, such as adding a trace
// header, and replacing the call context via SetContext before the
// first attempt.
type Execution struct {
	// Options are the options of the logical call. Never nil.
	Options *Options

	// Args are the transport arguments materialized from Options.
	// Never nil.
	Args *Args

	// Start is the start time of the call. It is assigned when the call
	// starts and remains constant thereafter.
	Start time.Time

	// End is the end time of the call. It contains the zero value until
	// the call ends.
	End time.Time

	// Attempt is the zero-based number of the current transport
	// attempt: zero on the initial attempt, one on the first retry, and
	// so on. Once the call has ended, Attempt is the number of the last
	// attempt made.
	Attempt int

	// AttemptTimeouts counts the transport attempts which timed out.
	AttemptTimeouts int

	// MaxRetries is the retry budget of the call, copied from Args.
	MaxRetries int

	// Remaining is the number of retries still permitted. It starts at
	// MaxRetries and is decremented by one before each retry wait.
	Remaining int

	// Request is the HTTP request of the current attempt, or of the
	// last attempt made.
	Request *http.Request

	// Response is the HTTP response received in the most recent
	// attempt. It is nil if the most recent attempt ended in a
	// transport error, or while an attempt is underway.
	Response *http.Response

	// Body is the complete response body read in the most recent
	// attempt. It may be non-nil together with Err if the body was
	// only partially read.
	Body []byte

	// Err is the error of the most recent attempt. While the call is in
	// flight, Err is either nil or a transport error of type
	// *url.Error. Once the call has ended, Err holds the classified
	// error returned to the caller, or nil on success.
	Err error

	// WroteRequest reports whether the most recent attempt finished
	// writing its request to the network. A timeout after the request
	// was written is a read-phase timeout.
	WroteRequest bool

	ctx  context.Context
	data context.Context
}

// NewExecution returns a new Execution for a call governed by ctx,
// which may not be nil.
func NewExecution(ctx context.Context, o *Options, a *Args) *Execution {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	return &Execution{
		Options:    o,
		Args:       a,
		MaxRetries: a.MaxRetries,
		Remaining:  a.MaxRetries,
		ctx:        ctx,
	}
}

// Context returns the context governing the whole call. It is never
// nil.
func (e *Execution) Context() context.Context {
	if e.ctx != nil {
		return e.ctx
	}
	return context.Background()
}

// SetContext replaces the context governing the call. It is intended
// for event handlers running before the first attempt that need to
// derive a child context, for example to carry a trace span.
func (e *Execution) SetContext(ctx context.Context) {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	e.ctx = ctx
}

// StatusCode returns the status code of the HTTP response from the
// most recent attempt, or 0 if there is no response.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the HTTP response headers from the most recent
// attempt. If there is no HTTP response, the nil header is returned,
// which is safe for read-only operations.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Duration returns the duration of the call.
//
// If the call has not yet started, the duration is zero. If the call
// has ended, the duration is End minus Start. Otherwise, it is the
// current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the call has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the call has ended. Once it returns true,
// there will be no further changes to the execution.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a timeout, either
// of the most recent attempt or of the call context.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// ReadTimeout indicates whether Err currently contains a timeout which
// struck after the request was written, while waiting for or reading
// the response.
func (e *Execution) ReadTimeout() bool {
	return e.WroteRequest && e.Timeout()
}

// SetValue allows event handlers to store arbitrary data in the
// execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue, namely it:
//
// • it may not be nil;
//
// • it must be comparable;
//
// • it should not be of type string or any other built-in type to avoid
// collisions between different event handlers putting data into the
// same execution.
func (e *Execution) SetValue(key, value any) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key any) any {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
