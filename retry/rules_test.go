// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldRetry(t *testing.T) {
	t.Run("no header", func(t *testing.T) {
		for status := 100; status < 600; status++ {
			expected := status == 409 || status == 429 || status >= 500
			assert.Equal(t, expected, ShouldRetry(status, nil), fmt.Sprintf("status %d", status))
		}
	})
	t.Run("header overrides", func(t *testing.T) {
		for _, status := range []int{200, 400, 404, 409, 429, 500, 503} {
			assert.True(t, ShouldRetry(status, http.Header{ShouldRetryHeader: {"true"}}))
			assert.False(t, ShouldRetry(status, http.Header{ShouldRetryHeader: {"false"}}))
		}
	})
	t.Run("header name case", func(t *testing.T) {
		h := http.Header{}
		h.Set("x-should-retry", "true")
		assert.True(t, ShouldRetry(400, h))
	})
	t.Run("header value case", func(t *testing.T) {
		for _, v := range []string{"TRUE", "True", "FALSE", "False", " true"} {
			h := http.Header{ShouldRetryHeader: {v}}
			assert.False(t, ShouldRetry(400, h), v)
			assert.True(t, ShouldRetry(503, h), v)
		}
	})
	t.Run("other header values ignored", func(t *testing.T) {
		h := http.Header{ShouldRetryHeader: {"maybe"}}
		assert.False(t, ShouldRetry(400, h))
		assert.True(t, ShouldRetry(503, h))
	})
}

func TestShouldRetryErr(t *testing.T) {
	timeoutErr := &net.OpError{Op: "read", Err: syscall.ETIMEDOUT}
	testCases := []struct {
		name     string
		err      error
		wrote    bool
		expected bool
	}{
		{"nil", nil, false, false},
		{"canceled", &url.Error{Err: context.Canceled}, false, false},
		{"connect timeout", &url.Error{Err: timeoutErr}, false, true},
		{"read timeout", &url.Error{Err: timeoutErr}, true, false},
		{"deadline before write", context.DeadlineExceeded, false, true},
		{"refused", &url.Error{Err: syscall.ECONNREFUSED}, false, true},
		{"reset after write", &url.Error{Err: syscall.ECONNRESET}, true, true},
		{"other", errors.New("no such host"), false, true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, ShouldRetryErr(testCase.err, testCase.wrote))
		})
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	testCases := []struct {
		value    string
		expected time.Duration
		ok       bool
	}{
		{"", 0, false},
		{"1", time.Second, true},
		{" 60 ", time.Minute, true},
		{"61", 0, false},
		{"0", 0, false},
		{"-3", 0, false},
		{"1.5", 0, false},
		{"soon", 0, false},
		{now.Add(30 * time.Second).Format(http.TimeFormat), 30 * time.Second, true},
		{now.Add(2 * time.Minute).Format(http.TimeFormat), 0, false},
		{now.Add(-time.Second).Format(http.TimeFormat), 0, false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.value, func(t *testing.T) {
			h := http.Header{}
			if testCase.value != "" {
				h.Set("Retry-After", testCase.value)
			}
			d, ok := RetryAfter(h, now)
			assert.Equal(t, testCase.ok, ok)
			assert.Equal(t, testCase.expected, d)
		})
	}
}

func TestExpBackoff(t *testing.T) {
	assert.Equal(t, time.Duration(0), ExpBackoff(-1))
	assert.Equal(t, time.Duration(0), ExpBackoff(0))
	assert.Equal(t, time.Duration(0), ExpBackoff(1))
	assert.Equal(t, 500*time.Millisecond, ExpBackoff(2))
	assert.Equal(t, 2*time.Second, ExpBackoff(3))
	assert.Equal(t, 2*time.Second, ExpBackoff(1000))

	prev := time.Duration(0)
	for n := 1; n < 50; n++ {
		d := ExpBackoff(n)
		assert.GreaterOrEqual(t, d, prev, fmt.Sprintf("n=%d", n))
		prev = d
	}
}

func TestBackoffDelay(t *testing.T) {
	t.Run("no jitter", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), BackoffDelay(2, 1, nil, 0.5))
		assert.Equal(t, 500*time.Millisecond, BackoffDelay(2, 0, nil, 0.5))
	})
	t.Run("jitter bounds", func(t *testing.T) {
		for maxRetries := 1; maxRetries < 10; maxRetries++ {
			for remaining := maxRetries - 1; remaining >= 0; remaining-- {
				for _, rnd := range []float64{0, 0.25, 0.5, 0.75, 0.999999} {
					d := BackoffDelay(maxRetries, remaining, nil, rnd)
					assert.GreaterOrEqual(t, d, time.Duration(0))
					assert.LessOrEqual(t, d, 2500*time.Millisecond)
				}
			}
		}
		assert.Equal(t, time.Duration(0), BackoffDelay(2, 1, nil, 0))
		assert.Equal(t, 1500*time.Millisecond, BackoffDelay(3, 0, nil, 0))
	})
	t.Run("Retry-After", func(t *testing.T) {
		h := http.Header{"Retry-After": {"5"}}
		assert.Equal(t, 5*time.Second, BackoffDelay(2, 1, h, 0))
		h.Set("Retry-After", "600")
		assert.Equal(t, 500*time.Millisecond, BackoffDelay(2, 0, h, 0.5))
	})
}
