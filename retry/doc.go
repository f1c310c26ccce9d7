// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry decides whether a failed attempt of a logical API call
// should be retried, and how long to wait before retrying.
//
// The decision rules are plain functions of data: ShouldRetry looks at
// a response status code and headers, ShouldRetryErr at a transport
// error, and BackoffDelay computes the wait from the retry budget and
// the response headers. Both the blocking and the asynchronous call
// paths of the client go through them.
//
// The interface Policy wraps the rules for use by the client. A Policy
// is a decision-maker, Decider, plus a wait time calculator, Waiter.
// DefaultPolicy applies the rules above within the call's retry budget.
// Custom policies can be assembled from the building blocks:
//
//	decider := retry.Budget.
//	               And(retry.Before(5 * time.Second)).
//	               And(retry.StatusCode(500).Or(retry.TransportErr))
//	policy := retry.NewPolicy(decider, retry.NewFixedWaiter(time.Second))
package retry
