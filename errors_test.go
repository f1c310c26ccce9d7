// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/gogama/lithic/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusKind(t *testing.T) {
	testCases := []struct {
		status int
		kind   error
	}{
		{400, ErrBadRequest},
		{401, ErrAuthentication},
		{403, ErrPermissionDenied},
		{404, ErrNotFound},
		{409, ErrConflict},
		{422, ErrUnprocessableEntity},
		{429, ErrRateLimit},
		{500, ErrInternalServer},
		{502, ErrInternalServer},
		{599, ErrInternalServer},
		{402, nil},
		{418, nil},
	}
	for _, testCase := range testCases {
		t.Run(http.StatusText(testCase.status), func(t *testing.T) {
			assert.Equal(t, testCase.kind, statusKind(testCase.status))
		})
	}
}

func TestClassify(t *testing.T) {
	req, err := http.NewRequest("GET", "https://api.example.com/v1/status", nil)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		for _, status := range []int{200, 201, 204, 302, 399} {
			e := &request.Execution{Request: req, Response: &http.Response{StatusCode: status}}
			assert.NoError(t, classify(e), status)
		}
	})
	t.Run("status error", func(t *testing.T) {
		e := &request.Execution{
			Request:  req,
			Response: &http.Response{StatusCode: 422},
			Body:     []byte("  {\"debugging_request_id\":\"abc\"}\n"),
		}
		err := classify(e)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.ErrorIs(t, err, ErrUnprocessableEntity)
		assert.False(t, errors.Is(err, ErrBadRequest))
		assert.Same(t, req, se.Request)
		assert.Same(t, e.Response, se.Response)
		assert.Equal(t, `{"debugging_request_id":"abc"}`, se.Message)
		assert.Equal(t, map[string]any{"debugging_request_id": "abc"}, se.Detail)
		assert.Equal(t, `lithic: 422 Unprocessable Entity: {"debugging_request_id":"abc"}`, err.Error())
	})
	t.Run("status error without body", func(t *testing.T) {
		e := &request.Execution{Request: req, Response: &http.Response{StatusCode: 418}}
		err := classify(e)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Nil(t, se.Unwrap())
		assert.Equal(t, "Unknown", se.Message)
		assert.Nil(t, se.Detail)
		assert.Equal(t, "lithic: 418 I'm a teapot: Unknown", err.Error())
	})
	t.Run("status error text body", func(t *testing.T) {
		e := &request.Execution{Request: req, Response: &http.Response{StatusCode: 502}, Body: []byte("Bad Gateway")}
		err := classify(e)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "Bad Gateway", se.Message)
		assert.Nil(t, se.Detail)
		assert.ErrorIs(t, err, ErrInternalServer)
	})
	t.Run("connection error", func(t *testing.T) {
		cause := &url.Error{Op: "Get", URL: "x", Err: io.ErrUnexpectedEOF}
		e := &request.Execution{Request: req, Err: cause}
		err := classify(e)
		assert.IsType(t, &ConnectionError{}, err)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Equal(t, "lithic: connection error: Get \"x\": unexpected EOF", err.Error())
	})
	t.Run("connection error wins over response", func(t *testing.T) {
		e := &request.Execution{
			Request:  req,
			Response: &http.Response{StatusCode: 500},
			Err:      &url.Error{Op: "Get", URL: "x", Err: io.ErrUnexpectedEOF},
		}
		assert.IsType(t, &ConnectionError{}, classify(e))
	})
	t.Run("timeout error", func(t *testing.T) {
		cause := &url.Error{Op: "Get", URL: "x", Err: context.DeadlineExceeded}
		e := &request.Execution{Request: req, Err: cause}
		err := classify(e)
		var te *TimeoutError
		require.ErrorAs(t, err, &te)
		assert.True(t, te.Timeout())
		var ce *ConnectionError
		require.ErrorAs(t, err, &ce)
		assert.Same(t, &te.ConnectionError, ce)
		assert.Same(t, req, ce.Request)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, "lithic: request timed out: Get \"x\": context deadline exceeded", err.Error())
	})
}

func TestValidationError(t *testing.T) {
	cause := errors.New("bad")
	err := &ValidationError{Err: cause}
	assert.Equal(t, "lithic: response invalid for expected schema: bad", err.Error())
	assert.ErrorIs(t, err, cause)
}
