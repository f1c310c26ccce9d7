// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"context"
	"net"
	"time"
)

// A Timeout bounds a single transport attempt. The zero value, None,
// places no bound on the attempt at all.
type Timeout struct {
	// Total bounds the whole attempt: connecting, writing the request,
	// receiving the response headers and reading the complete response
	// body. Zero means the attempt is unbounded.
	Total time.Duration

	// Connect bounds establishing the network connection. Zero means
	// connecting is bounded only by Total.
	Connect time.Duration
}

// Default is the timeout used by the API client when neither the client
// nor the individual call specifies one.
var Default = Timeout{Total: 60 * time.Second, Connect: 5 * time.Second}

// None is the timeout which never times out.
var None = Timeout{}

// Fixed constructs a timeout which uses d both as the total attempt
// timeout and as the connect timeout.
func Fixed(d time.Duration) Timeout {
	if d < 0 {
		panic("lithic/timeout: negative duration")
	}
	return Timeout{Total: d, Connect: d}
}

// IsNone reports whether t places no bound on the attempt.
func (t Timeout) IsNone() bool {
	return t.Total <= 0 && t.Connect <= 0
}

type connectKey struct{}

// WithAttempt returns a child context of ctx bounded by t.Total and
// carrying t.Connect for retrieval by a dialer created with DialContext.
// The caller must call the returned cancel function once the attempt,
// including reading the response body, is over.
func WithAttempt(ctx context.Context, t Timeout) (context.Context, context.CancelFunc) {
	ctx = context.WithValue(ctx, connectKey{}, t.Connect)
	if t.Total > 0 {
		return context.WithTimeout(ctx, t.Total)
	}
	return context.WithCancel(ctx)
}

// ConnectFrom returns the connect timeout carried by ctx. The boolean
// is false if ctx did not come from WithAttempt.
func ConnectFrom(ctx context.Context) (time.Duration, bool) {
	d, ok := ctx.Value(connectKey{}).(time.Duration)
	return d, ok
}

// DialContext wraps a dialer so that every connection it dials honours
// the connect timeout carried in the dial context. If the context does
// not carry a connect timeout, the dialer's own Timeout applies.
//
// Install the returned function as the DialContext of an http.Transport
// to give per-call connect timeouts effect.
func DialContext(d *net.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if d == nil {
		panic("lithic/timeout: nil dialer")
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		connect, ok := ConnectFrom(ctx)
		if !ok || connect == d.Timeout {
			return d.DialContext(ctx, network, addr)
		}
		d2 := *d
		d2.Timeout = connect
		return d2.DialContext(ctx, network, addr)
	}
}
