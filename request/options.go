// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"

	"github.com/gogama/lithic/timeout"
)

var (
	template, _ = http.NewRequest("GET", "", nil)
)

const (
	nilCtxMsg = "lithic/request: nil context"
)

// Options describes one logical API call: the HTTP method, the URL
// path, query parameters, header overrides, an optional JSON body, and
// per-call overrides of the client's retry budget and timeout.
//
// Options are constructed once per call and treated as immutable
// thereafter. Methods which produce a variant, such as WithParams,
// return a modified clone and leave the receiver untouched.
type Options struct {
	// Method is the HTTP method, one of GET, POST, PUT, PATCH or
	// DELETE. An empty string means GET.
	Method string

	// URL is the target of the call. It is normally a path relative to
	// the client's base URL, such as "/accounts", but may also be an
	// absolute URL, in which case the base URL is ignored.
	URL string

	// Route is the path template of the endpoint the call targets, such
	// as "/accounts/{token}". It has no effect on the request, and is
	// used to label telemetry with a bounded set of values. It may be
	// empty.
	Route string

	// Params are encoded into the query string of the request URL.
	Params Params

	// Headers are per-call header overrides. When given, they are
	// merged over the client's default headers, winning on collision.
	// When given as null, no extra headers are added.
	Headers Opt[http.Header]

	// Body is the request body. A nil body means no body is sent.
	// A []byte, string or io.Reader is sent as-is; any other value is
	// encoded as JSON.
	Body any

	// MaxRetries overrides the client's maximum number of retries. A
	// null value means no retries.
	MaxRetries Opt[int]

	// Timeout overrides the client's per-attempt timeout. A null value
	// means attempts of this call never time out.
	Timeout Opt[timeout.Timeout]
}

// New returns Options for the given method and URL.
func New(method, url string) (*Options, error) {
	if method == "" {
		method = http.MethodGet
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("lithic/request: invalid method %q", method)
	}
	return &Options{Method: method, URL: url}, nil
}

// Clone returns a copy of o whose maps may be modified without
// affecting o. The body is not copied.
func (o *Options) Clone() *Options {
	o2 := new(Options)
	*o2 = *o
	o2.Params = o.Params.Clone()
	if h, ok := o.Headers.Get(); ok {
		o2.Headers = Some(h.Clone())
	}
	return o2
}

// WithParams returns a clone of o whose query parameters are the union
// of o's parameters and p, with p winning on collision. This is how a
// paginated list call produces the options for its next page.
func (o *Options) WithParams(p Params) *Options {
	o2 := o.Clone()
	o2.Params = o.Params.Merge(p)
	return o2
}

// Defaults contains the client-wide values over which the per-call
// overrides in Options are merged.
type Defaults struct {
	// BaseURL is the URL against which relative Options URLs are
	// resolved.
	BaseURL *urlpkg.URL

	// Headers are sent on every request unless overridden per call.
	Headers http.Header

	// Timeout is the per-attempt timeout used when Options does not
	// give one.
	Timeout timeout.Timeout

	// MaxRetries is the retry budget used when Options does not give
	// one.
	MaxRetries int
}

// Args are the concrete transport arguments for a logical call,
// produced from Options and Defaults by Materialize. Args are
// immutable once created; each transport attempt turns them into a
// fresh http.Request via the Request method.
type Args struct {
	Method     string
	URL        *urlpkg.URL
	Header     http.Header
	Body       []byte
	Timeout    timeout.Timeout
	MaxRetries int
}

// Materialize merges o over d into concrete transport arguments.
//
// The headers are d.Headers overlaid with the per-call headers. The
// timeout and the retry budget are the per-call values if given, the
// zero values if given as null, and the defaults otherwise. The
// method, URL, params and body pass through, with the URL resolved
// against d.BaseURL and the params encoded into its query string.
func (o *Options) Materialize(d Defaults) (*Args, error) {
	method := o.Method
	if method == "" {
		method = http.MethodGet
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("lithic/request: invalid method %q", method)
	}

	u, err := resolve(d.BaseURL, o.URL)
	if err != nil {
		return nil, err
	}
	if len(o.Params) > 0 {
		q := u.Query()
		for k, vs := range o.Params.Values() {
			q[k] = vs
		}
		u.RawQuery = q.Encode()
	}

	h := d.Headers.Clone()
	if h == nil {
		h = make(http.Header)
	}
	if override, ok := o.Headers.Get(); ok {
		for k, vs := range override {
			h[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
		}
	}

	maxRetries := o.MaxRetries.Or(d.MaxRetries)
	if maxRetries < 0 {
		return nil, errors.New("lithic/request: negative max retries")
	}

	b, err := EncodeBody(o.Body)
	if err != nil {
		return nil, err
	}

	return &Args{
		Method:     method,
		URL:        u,
		Header:     h,
		Body:       b,
		Timeout:    o.Timeout.Or(d.Timeout),
		MaxRetries: maxRetries,
	}, nil
}

// Request creates a new HTTP request for one transport attempt. The
// context of the new request is set to ctx, which may not be nil. The
// request gets its own copy of the URL and header so that changes made
// to one attempt's request do not leak into the next.
func (a *Args) Request(ctx context.Context) *http.Request {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	r := template.WithContext(ctx)
	r.Method = a.Method
	u := *a.URL
	r.URL = &u
	r.Header = a.Header.Clone()
	if len(a.Body) > 0 {
		r.Body = io.NopCloser(bytes.NewReader(a.Body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(a.Body)), nil
		}
		r.ContentLength = int64(len(a.Body))
	}
	r.Host = u.Host
	return r
}

func resolve(base *urlpkg.URL, ref string) (*urlpkg.URL, error) {
	r, err := urlpkg.Parse(ref)
	if err != nil {
		return nil, err
	}
	if r.IsAbs() {
		r.Host = removeEmptyPort(r.Host)
		return r, nil
	}
	if base == nil {
		return nil, fmt.Errorf("lithic/request: relative URL %q with no base URL", ref)
	}
	u := *base
	u.Host = removeEmptyPort(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(r.Path, "/")
	u.RawPath = ""
	u.RawQuery = r.RawQuery
	u.Fragment = ""
	return &u, nil
}

func validMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
