// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"context"
	"errors"
	"net/http"

	"github.com/gogama/lithic/request"
)

// Execute makes the logical call described by o, with opts applied,
// and decodes the successful response into a new T.
//
// The returned error is nil, a plain error if o is invalid, one of the
// classified call errors documented on Client.Do, or a
// *ValidationError if strict validation is enabled and the response
// does not match the schema of T. Decoding failures are never retried.
func Execute[T any](ctx context.Context, c Caller, o *request.Options, opts ...request.CallOption) (*T, error) {
	if o == nil {
		return nil, errors.New("lithic: nil options")
	}
	o = o.Apply(opts...)
	v := new(T)
	if dc, ok := c.(decodingCaller); ok {
		if _, err := dc.doDecode(ctx, o, v); err != nil {
			return nil, err
		}
		return v, nil
	}
	e, err := c.Do(ctx, o)
	if err != nil {
		return nil, err
	}
	if err = decode(c.StrictValidation(), e, v); err != nil {
		return nil, err
	}
	return v, nil
}

// routed returns opts preceded by an option setting the call's route,
// so that a route given by the caller still wins.
func routed(route string, opts []request.CallOption) []request.CallOption {
	return append([]request.CallOption{request.WithRoute(route)}, opts...)
}

// A decodingCaller decodes the response inside the execution, before
// the AfterExecutionEnd event fires.
type decodingCaller interface {
	doDecode(ctx context.Context, o *request.Options, dst any) (*request.Execution, error)
}

// Get makes a GET call to path with query parameters query.
func Get[T any](ctx context.Context, c Caller, path string, query request.Params, opts ...request.CallOption) (*T, error) {
	o := &request.Options{Method: http.MethodGet, URL: path, Params: query.Clone()}
	return Execute[T](ctx, c, o, opts...)
}

// Post makes a POST call to path with JSON body body, which may be nil.
func Post[T any](ctx context.Context, c Caller, path string, body any, opts ...request.CallOption) (*T, error) {
	return withBody[T](ctx, c, http.MethodPost, path, body, opts)
}

// Put makes a PUT call to path with JSON body body, which may be nil.
func Put[T any](ctx context.Context, c Caller, path string, body any, opts ...request.CallOption) (*T, error) {
	return withBody[T](ctx, c, http.MethodPut, path, body, opts)
}

// Patch makes a PATCH call to path with JSON body body, which may be
// nil.
func Patch[T any](ctx context.Context, c Caller, path string, body any, opts ...request.CallOption) (*T, error) {
	return withBody[T](ctx, c, http.MethodPatch, path, body, opts)
}

// Delete makes a DELETE call to path with JSON body body, which may be
// nil.
func Delete[T any](ctx context.Context, c Caller, path string, body any, opts ...request.CallOption) (*T, error) {
	return withBody[T](ctx, c, http.MethodDelete, path, body, opts)
}

func withBody[T any](ctx context.Context, c Caller, method, path string, body any, opts []request.CallOption) (*T, error) {
	o := &request.Options{Method: method, URL: path, Body: body}
	return Execute[T](ctx, c, o, opts...)
}
