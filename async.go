// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"context"

	"github.com/gogama/lithic/request"
)

// A Future is the pending result of a call running on its own
// goroutine. Create one with Go.
type Future[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	v      *T
	err    error
}

// Go starts the logical call described by o on a new goroutine and
// returns immediately. The call runs the same execution loop as
// Execute, including retries and backoff, and its result is available
// from the returned Future.
//
// The call is governed by ctx. Cancelling ctx, or calling Cancel on the
// Future, abandons the call in the same way as a cancelled Execute.
func Go[T any](ctx context.Context, c Caller, o *request.Options, opts ...request.CallOption) *Future[T] {
	return goFunc(ctx, func(ctx context.Context) (*T, error) {
		return Execute[T](ctx, c, o, opts...)
	})
}

func goFunc[T any](ctx context.Context, f func(context.Context) (*T, error)) *Future[T] {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	ctx, cancel := context.WithCancel(ctx)
	fut := &Future[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go func() {
		defer close(fut.done)
		defer cancel()
		fut.v, fut.err = f(ctx)
	}()
	return fut
}

// Done returns a channel which is closed when the call has finished.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await waits for the call to finish and returns its result. If ctx is
// done first, Await returns ctx.Err() and the call keeps running; a
// later Await can still collect its result.
func (f *Future[T]) Await(ctx context.Context) (*T, error) {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	select {
	case <-f.done:
		return f.v, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel cancels the context of the call. It does not wait for the call
// to finish.
func (f *Future[T]) Cancel() {
	f.cancel()
}
