// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gogama/lithic/request"
)

// Sentinel kinds of *StatusError. A *StatusError unwraps to at most one
// of them, so callers can test the kind with errors.Is:
//
//	if errors.Is(err, lithic.ErrNotFound) { ... }
//
// A 4xx status not listed here produces a *StatusError with no kind.
var (
	ErrBadRequest          = errors.New("lithic: bad request")
	ErrAuthentication      = errors.New("lithic: authentication failed")
	ErrPermissionDenied    = errors.New("lithic: permission denied")
	ErrNotFound            = errors.New("lithic: not found")
	ErrConflict            = errors.New("lithic: conflict")
	ErrUnprocessableEntity = errors.New("lithic: unprocessable entity")
	ErrRateLimit           = errors.New("lithic: rate limit exceeded")
	ErrInternalServer      = errors.New("lithic: internal server error")
)

// A ConnectionError reports that the client could not complete an HTTP
// exchange with the API, after any retries.
type ConnectionError struct {
	// Request is the request of the final attempt.
	Request *http.Request

	// Err is the underlying transport error, usually a *url.Error.
	Err error
}

func (e *ConnectionError) Error() string {
	return "lithic: connection error: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// A TimeoutError reports that the final attempt of a call timed out,
// or that the call's own context deadline passed. It is a kind of
// ConnectionError: errors.As finds either type in it.
type TimeoutError struct {
	ConnectionError
}

func (e *TimeoutError) Error() string {
	return "lithic: request timed out: " + e.Err.Error()
}

// Unwrap returns the embedded *ConnectionError.
func (e *TimeoutError) Unwrap() error {
	return &e.ConnectionError
}

// Timeout always returns true.
func (e *TimeoutError) Timeout() bool {
	return true
}

// A ValidationError reports that a successful response did not match
// the schema of the expected model. Validation errors are never
// retried.
type ValidationError struct {
	Request  *http.Request
	Response *http.Response

	// StatusCode is the status code of Response.
	StatusCode int

	// Body is the raw response body.
	Body []byte

	// Err is the underlying *model.SchemaError.
	Err error
}

func (e *ValidationError) Error() string {
	return "lithic: response invalid for expected schema: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// A StatusError reports that the API responded with a 4xx or 5xx status
// code, after any retries.
type StatusError struct {
	Request  *http.Request
	Response *http.Response

	// StatusCode is the status code of Response.
	StatusCode int

	// Body is the raw response body.
	Body []byte

	// Message is the trimmed response body text, or "Unknown" if the
	// body is empty.
	Message string

	// Detail holds the response body decoded as JSON, or nil if the
	// body is not valid JSON.
	Detail any

	kind error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lithic: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// Unwrap returns the sentinel kind of the error, such as ErrNotFound, or
// nil if the status code has no kind.
func (e *StatusError) Unwrap() error {
	return e.kind
}

func statusKind(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrBadRequest
	case status == http.StatusUnauthorized:
		return ErrAuthentication
	case status == http.StatusForbidden:
		return ErrPermissionDenied
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusUnprocessableEntity:
		return ErrUnprocessableEntity
	case status == http.StatusTooManyRequests:
		return ErrRateLimit
	case status >= 500:
		return ErrInternalServer
	default:
		return nil
	}
}

func makeStatusError(e *request.Execution) *StatusError {
	text := bytes.TrimSpace(e.Body)
	se := &StatusError{
		Request:    e.Request,
		Response:   e.Response,
		StatusCode: e.StatusCode(),
		Body:       e.Body,
		Message:    string(text),
		kind:       statusKind(e.StatusCode()),
	}
	if se.Message == "" {
		se.Message = "Unknown"
	}
	var detail any
	if json.Unmarshal(text, &detail) == nil {
		se.Detail = detail
	}
	return se
}

// classify turns the final state of an execution into the error
// returned to the caller: nil on success, a *TimeoutError or
// *ConnectionError for a transport failure, or a *StatusError for an
// HTTP error status.
func classify(e *request.Execution) error {
	if e.Err != nil {
		ce := ConnectionError{Request: e.Request, Err: e.Err}
		if e.Timeout() {
			return &TimeoutError{ce}
		}
		return &ce
	}
	if e.StatusCode() >= 400 {
		return makeStatusError(e)
	}
	return nil
}
