// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gogama/lithic/timeout"
	"golang.org/x/net/http2"
)

const (
	maxIdleConns        = 100
	maxIdleConnsPerHost = 20
	idleConnTimeout     = 90 * time.Second
	keepAlive           = 30 * time.Second
)

// newTransport builds the transport owned by a Client. Its dialer
// honours the per-attempt connect timeout carried by the attempt
// context, falling back to the connect timeout of t.
func newTransport(t timeout.Timeout, proxy func(*http.Request) (*url.URL, error)) (*http.Transport, error) {
	if proxy == nil {
		proxy = http.ProxyFromEnvironment
	}
	dialer := &net.Dialer{
		Timeout:   t.Connect,
		KeepAlive: keepAlive,
	}
	tr := &http.Transport{
		Proxy:                 proxy,
		DialContext:           timeout.DialContext(dialer),
		MaxIdleConns:          maxIdleConns,
		MaxIdleConnsPerHost:   maxIdleConnsPerHost,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   t.Connect,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, fmt.Errorf("lithic: configure HTTP/2: %w", err)
	}
	return tr, nil
}
