// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"sync"
	"time"

	"github.com/gogama/lithic/request"
)

// A Waiter specifies how long to wait before retrying a failed
// transport attempt.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines.
//
// The API client will not call the Waiter on a retry policy if the
// policy Decider returned false. By the time Wait is called, the
// execution's Remaining count already excludes the upcoming retry.
type Waiter interface {
	Wait(e *request.Execution) time.Duration
}

// DefaultWaiter is the default retry wait policy. It honours a
// reasonable Retry-After response header, and otherwise uses the
// jittered quadratic backoff computed by BackoffDelay.
var DefaultWaiter = NewBackoffWaiter(time.Now())

// NewFixedWaiter constructs a Waiter that always returns the given
// duration.
//
// Use NewFixedWaiter to obtain a constant retry backoff.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Execution) time.Duration {
	return time.Duration(w)
}

// NewBackoffWaiter constructs a Waiter which computes each wait with
// BackoffDelay from the execution's retry budget and the headers of the
// most recent response.
//
// Parameter jitter controls the random jitter. To make a waiter that
// does not jitter, pass nil; the waiter then returns the un-jittered
// backoff. Otherwise you may specify either a random number generator
// seed value (as a time.Time, int, or int64) or a random number
// generator (as a rand.Source or *rand.Rand).
func NewBackoffWaiter(jitter any) Waiter {
	return &backoffWaiter{rand: jitterToRand(jitter)}
}

type backoffWaiter struct {
	rand *rand.Rand
	lock sync.Mutex
}

func (w *backoffWaiter) Wait(e *request.Execution) time.Duration {
	rnd := 0.5
	if w.rand != nil {
		w.lock.Lock()
		rnd = w.rand.Float64()
		w.lock.Unlock()
	}
	return BackoffDelay(e.MaxRetries, e.Remaining, e.Header(), rnd)
}

func jitterToRand(jitter any) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("lithic/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("lithic/retry: invalid jitter type")
	}
	return rand.New(s)
}
