// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"

	"github.com/gogama/lithic/timeout"
)

// A CallOption overrides one aspect of a single call. Resource methods
// accept CallOptions and apply them to the Options they build.
type CallOption func(o *Options)

// Apply returns a clone of o with every option in opts applied in
// order. If opts is empty, o itself is returned.
func (o *Options) Apply(opts ...CallOption) *Options {
	if len(opts) == 0 {
		return o
	}
	o2 := o.Clone()
	for _, opt := range opts {
		opt(o2)
	}
	return o2
}

// WithHeader sets one header for the call, replacing any default value
// of the same header.
func WithHeader(key, value string) CallOption {
	return func(o *Options) {
		h, ok := o.Headers.Get()
		if !ok {
			h = http.Header{}
		}
		h.Set(key, value)
		o.Headers = Some(h)
	}
}

// WithHeaders gives the call's header overrides as a whole. A nil h
// gives them as null, meaning no headers beyond the client defaults.
func WithHeaders(h http.Header) CallOption {
	return func(o *Options) {
		if h == nil {
			o.Headers = Null[http.Header]()
			return
		}
		o.Headers = Some(h.Clone())
	}
}

// WithMaxRetries overrides the client's retry budget for the call.
func WithMaxRetries(n int) CallOption {
	return func(o *Options) {
		o.MaxRetries = Some(n)
	}
}

// WithTimeout overrides the client's per-attempt timeout for the call.
func WithTimeout(t timeout.Timeout) CallOption {
	return func(o *Options) {
		o.Timeout = Some(t)
	}
}

// WithNoTimeout disables the per-attempt timeout for the call.
func WithNoTimeout() CallOption {
	return func(o *Options) {
		o.Timeout = Null[timeout.Timeout]()
	}
}

// WithQuery merges p into the call's query parameters, p winning on
// collision.
func WithQuery(p Params) CallOption {
	return func(o *Options) {
		o.Params = o.Params.Merge(p)
	}
}

// WithRoute sets the path template which identifies the call's endpoint
// in telemetry.
func WithRoute(route string) CallOption {
	return func(o *Options) {
		o.Route = route
	}
}
