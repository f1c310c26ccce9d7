// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gogama/lithic/request"
	"github.com/gogama/lithic/retry"
	"github.com/gogama/lithic/timeout"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultMaxRetries is the number of retries a call gets unless the
	// client or the call says otherwise.
	DefaultMaxRetries = 2

	// IdempotencyHeader carries the key which identifies all attempts
	// of one non-GET call as the same operation.
	IdempotencyHeader = "Idempotency-Key"

	nilCtxMsg = "lithic: nil context"
)

var (
	_ Caller         = (*Client)(nil)
	_ decodingCaller = (*Client)(nil)
)

// A Client is a client of the Lithic API. Create one with New.
//
// A Client owns its transport, which typically keeps cached TCP
// connections, so Client instances should be reused instead of created
// as needed. Client is safe for concurrent use by multiple goroutines;
// no call changes client-wide configuration.
//
// Every call made through a Client is one logical call, which may
// consist of several transport attempts:
//
// • the call's Options are merged over the client defaults (headers,
// timeout, retry budget) into transport arguments once;
//
// • each attempt sends a fresh HTTP request bounded by the call's
// timeout, and reads and buffers the entire response body;
//
// • failed attempts are retried according to the retry policy while
// the retry budget lasts, waiting out a backoff between attempts;
//
// • the final outcome is classified into at most one error of type
// *ConnectionError, *TimeoutError or *StatusError; and
//
// • user-provided handlers run at designated points within the loop.
type Client struct {
	// Status is the service for the API status endpoint.
	Status *StatusService
	// Accounts is the service for the accounts endpoints.
	Accounts *AccountsService

	baseURL     *url.URL
	apiKey      string
	timeout     timeout.Timeout
	maxRetries  int
	strict      bool
	doer        HTTPDoer
	transport   *http.Transport
	proxy       func(*http.Request) (*url.URL, error)
	retryPolicy retry.Policy
	handlers    *HandlerGroup
	logger      *zerolog.Logger
	headers     http.Header
}

// New returns a new Client configured by opts. An API key and a base
// URL are required; each may also come from the environment variables
// LITHIC_API_KEY and LITHIC_BASE_URL when package config is used.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		timeout:     timeout.Default,
		maxRetries:  DefaultMaxRetries,
		strict:      true,
		retryPolicy: retry.DefaultPolicy,
		handlers:    &HandlerGroup{},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.apiKey == "" {
		return nil, errors.New("lithic: missing API key")
	}
	if c.baseURL == nil {
		return nil, errors.New("lithic: missing base URL")
	}
	if c.doer == nil {
		t, err := newTransport(c.timeout, c.proxy)
		if err != nil {
			return nil, err
		}
		c.transport = t
		c.doer = &http.Client{Transport: t}
	}
	c.handlers = c.handlers.clone()
	if c.logger != nil {
		installLogHandlers(c.handlers, *c.logger)
	}
	c.headers = defaultHeaders(c.apiKey)
	c.Status = &StatusService{client: c}
	c.Accounts = &AccountsService{client: c}
	return c, nil
}

// BaseURL returns a copy of the URL against which call paths are
// resolved.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// StrictValidation reports whether responses are decoded strictly.
func (c *Client) StrictValidation() bool {
	return c.strict
}

func (c *Client) defaults() request.Defaults {
	return request.Defaults{
		BaseURL:    c.baseURL,
		Headers:    c.headers,
		Timeout:    c.timeout,
		MaxRetries: c.maxRetries,
	}
}

// Do executes one logical API call described by o, following the
// client's timeout and retry configuration as overridden by o, and
// returns the final execution state.
//
// The result is the result of the final transport attempt made. If the
// call succeeded with a 2xx or 3xx status, the returned error is nil
// and the execution holds the response and its complete body. If it
// failed, the returned error is the classified error, which the
// execution's Err field also references:
//
// • a *TimeoutError if the final attempt timed out, or if ctx expired;
//
// • a *ConnectionError if the final attempt could not complete an HTTP
// exchange, or if ctx was cancelled;
//
// • a *StatusError if the final attempt received a 4xx or 5xx status.
//
// Errors in o itself, such as an invalid method, are returned as plain
// errors with a nil execution before any attempt is made.
//
// Do blocks the calling goroutine for the whole call, including any
// backoff waits. A call whose ctx is cancelled during a backoff wait
// makes no further attempt.
func (c *Client) Do(ctx context.Context, o *request.Options) (*request.Execution, error) {
	return c.do(ctx, o, nil)
}

// doDecode executes o like Do and then decodes a successful response
// into dst. A decode failure is the call's error, so AfterExecutionEnd
// handlers see it in the execution's Err field.
func (c *Client) doDecode(ctx context.Context, o *request.Options, dst any) (*request.Execution, error) {
	return c.do(ctx, o, func(e *request.Execution) error {
		return decode(c.strict, e, dst)
	})
}

func (c *Client) do(ctx context.Context, o *request.Options, dec func(*request.Execution) error) (*request.Execution, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	if o == nil {
		return nil, errors.New("lithic: nil options")
	}
	a, err := o.Materialize(c.defaults())
	if err != nil {
		return nil, err
	}
	if a.Method != http.MethodGet && a.Header.Get(IdempotencyHeader) == "" {
		a.Header.Set(IdempotencyHeader, "stainless-go-retry-"+uuid.NewString())
	}

	e := request.NewExecution(ctx, o, a)
	c.handlers.run(BeforeExecutionStart, e)
	e.Start = time.Now()

RetryLoop:
	for {
		c.sendAndReceive(e)
		if e.Timeout() {
			e.AttemptTimeouts++
			c.handlers.run(AfterAttemptTimeout, e)
		}
		c.handlers.run(AfterAttempt, e)
		if err := e.Context().Err(); err != nil {
			if e.Err != nil {
				e.Err = urlErrorWrap(a, err)
			}
			c.handlers.run(AfterContextDone, e)
			break
		} else if c.retryPolicy.Decide(e) {
			e.Remaining--
			wait := c.retryPolicy.Wait(e)
			e.SetValue(retryWaitKey{}, wait)
			c.handlers.run(BeforeRetryWait, e)
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-e.Context().Done():
				timer.Stop()
				e.Err = urlErrorWrap(a, e.Context().Err())
				e.Response = nil
				e.Body = nil
				c.handlers.run(AfterContextDone, e)
				break RetryLoop
			}
			e.Response = nil
			e.Err = nil
			e.Body = nil
			e.WroteRequest = false
			e.Attempt++
		} else {
			break
		}
	}

	e.Err = classify(e)
	if e.Err == nil && dec != nil {
		e.Err = dec(e)
	}
	e.End = time.Now()
	c.handlers.run(AfterExecutionEnd, e)
	return e, e.Err
}

type retryWaitKey struct{}

// RetryWait returns the backoff wait most recently chosen for the
// execution, or zero if it has not been retried. Handlers of the
// BeforeRetryWait event use it to learn the wait about to start.
func RetryWait(e *request.Execution) time.Duration {
	d, _ := e.Value(retryWaitKey{}).(time.Duration)
	return d
}

func (c *Client) sendAndReceive(e *request.Execution) {
	ctx, cancel := timeout.WithAttempt(e.Context(), e.Args.Timeout)
	defer cancel()

	var wrote atomic.Bool
	ctx = httptrace.WithClientTrace(ctx, &httptrace.ClientTrace{
		WroteRequest: func(httptrace.WroteRequestInfo) {
			wrote.Store(true)
		},
	})

	e.Request = e.Args.Request(ctx)
	c.handlers.run(BeforeAttempt, e)
	var err error
	e.Response, err = c.doer.Do(e.Request)
	if err != nil {
		e.Response = nil
		e.Err = attemptErr(e, err)
	} else {
		c.readBody(e)
	}
	e.WroteRequest = wrote.Load()
}

func (c *Client) readBody(e *request.Execution) {
	defer func() {
		_ = e.Response.Body.Close()
	}()
	c.handlers.run(BeforeReadBody, e)
	var err error
	e.Body, err = io.ReadAll(e.Response.Body)
	if err != nil {
		e.Err = attemptErr(e, err)
	}
}

// attemptErr wraps an error of the current attempt as a *url.Error. If
// the attempt context is done but err does not say so, the context
// error is joined in so that an attempt deadline reads as a timeout.
func attemptErr(e *request.Execution, err error) error {
	ctxErr := e.Request.Context().Err()
	if ctxErr == nil || errors.Is(err, ctxErr) {
		return urlErrorWrap(e.Args, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: urlErr.URL, Err: errors.Join(urlErr.Err, ctxErr)}
	}
	return urlErrorWrap(e.Args, errors.Join(err, ctxErr))
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer, if it has one.
func (c *Client) CloseIdleConnections() {
	if ic, ok := c.doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

// Close releases the transport connections owned by the client. A
// client constructed with WithHTTPDoer does not own its transport, and
// Close only closes its idle connections if it supports that.
func (c *Client) Close() error {
	if c.transport != nil {
		c.transport.CloseIdleConnections()
		return nil
	}
	c.CloseIdleConnections()
	return nil
}

func urlErrorWrap(a *request.Args, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(a.Method),
		URL: a.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
