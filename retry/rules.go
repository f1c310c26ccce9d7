// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gogama/lithic/transient"
)

// ShouldRetryHeader is the name of the response header by which the
// server may tell the client whether to retry, overriding every other
// rule. Its value is "true" or "false".
const ShouldRetryHeader = "X-Should-Retry"

const (
	// InitialDelay is the scale of the exponential backoff curve.
	InitialDelay = 500 * time.Millisecond
	// MaxDelay caps the exponential backoff before jitter is added.
	MaxDelay = 2 * time.Second
	// Jitter is the half-width of the uniform jitter applied around
	// the exponential backoff.
	Jitter = 500 * time.Millisecond
	// MaxRetryAfter is the longest Retry-After value the client will
	// honour. Longer values fall back to exponential backoff.
	MaxRetryAfter = 60 * time.Second
)

// ShouldRetry reports whether a call which received an HTTP response
// with the given status code and headers should be retried.
//
// A value of exactly "true" or "false" in ShouldRetryHeader is obeyed.
// Otherwise, 409 Conflict (lock contention), 429 Too Many Requests and
// every 5xx status are retried, and nothing else is.
func ShouldRetry(status int, h http.Header) bool {
	switch h.Get(ShouldRetryHeader) {
	case "true":
		return true
	case "false":
		return false
	}

	switch {
	case status == http.StatusConflict:
		return true
	case status == http.StatusTooManyRequests:
		return true
	case status >= 500:
		return true
	default:
		return false
	}
}

// ShouldRetryErr reports whether a call whose transport attempt failed
// with err should be retried. Parameter wroteRequest indicates whether
// the attempt finished writing the request before failing.
//
// Connection failures and connect-phase timeouts are retryable. A
// timeout after the request was written means the far end stopped
// responding mid-exchange, and is not retried. A cancelled call is
// never retried.
func ShouldRetryErr(err error, wroteRequest bool) bool {
	switch transient.Categorize(err) {
	case transient.None, transient.Canceled:
		return false
	case transient.Timeout:
		return !wroteRequest
	default:
		return true
	}
}

// RetryAfter returns the wait requested by the Retry-After header in h,
// if it is present and lies in the interval (0, MaxRetryAfter]. Both
// the delay-seconds and the HTTP-date forms are accepted; an HTTP-date
// is measured from now.
func RetryAfter(h http.Header, now time.Time) (time.Duration, bool) {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0, false
	}

	var d time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		d = time.Duration(secs) * time.Second
	} else if t, err := http.ParseTime(v); err == nil {
		d = t.Sub(now)
	} else {
		return 0, false
	}

	if d <= 0 || d > MaxRetryAfter {
		return 0, false
	}
	return d, true
}

// ExpBackoff returns the un-jittered exponential backoff before retry
// number n, where n is one on the first retry:
//
//	min(InitialDelay * (n-1)^2, MaxDelay)
//
// Values of n below one are treated as one.
func ExpBackoff(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	f := InitialDelay.Seconds() * float64(n-1) * float64(n-1)
	if f > MaxDelay.Seconds() {
		return MaxDelay
	}
	return time.Duration(f * float64(time.Second))
}

// BackoffDelay computes the wait before the next retry of a call with
// retry budget maxRetries, of which remaining retries are still
// available after the upcoming one is counted.
//
// If h carries an acceptable Retry-After value (see RetryAfter), it is
// used verbatim. Otherwise the result is ExpBackoff of the retry
// number maxRetries-remaining, plus jitter uniformly distributed in
// [-Jitter, +Jitter), clamped at zero. Parameter rnd is a uniform
// random number in [0, 1) which selects the jitter.
func BackoffDelay(maxRetries, remaining int, h http.Header, rnd float64) time.Duration {
	if d, ok := RetryAfter(h, time.Now()); ok {
		return d
	}

	d := ExpBackoff(maxRetries-remaining)
	d += time.Duration((rnd - 0.5) * 2 * float64(Jitter))
	if d < 0 {
		return 0
	}
	return d
}
