// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality such as logging, metrics or tracing.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before the
	// logical call starts.
	//
	// When Client fires BeforeExecutionStart, the execution's options,
	// arguments and context are set, but no attempt has been made.
	// Handlers may replace the call context with Execution.SetContext.
	BeforeExecutionStart Event = iota
	// BeforeAttempt identifies the event that occurs before each
	// transport attempt.
	//
	// When Client fires BeforeAttempt, the execution's request field is
	// set to the HTTP request that WILL BE sent after all BeforeAttempt
	// handlers have finished. Handlers may modify the request, for
	// example to add a header. Each attempt gets a fresh request, so
	// changes do not carry over to the next attempt.
	BeforeAttempt
	// BeforeReadBody identifies the event that occurs after a transport
	// attempt has resulted in an HTTP response (as opposed to an error)
	// but before the response body is read and buffered.
	//
	// BeforeReadBody never fires if the attempt ended in a transport
	// error, but always fires if an HTTP response is received,
	// regardless of status code.
	BeforeReadBody
	// AfterAttemptTimeout identifies the event that occurs after a
	// transport attempt failed because of a timeout.
	//
	// When Client fires AfterAttemptTimeout, the execution's error
	// field is set to the timeout error, and its attempt timeout
	// counter has been incremented.
	AfterAttemptTimeout
	// AfterAttempt identifies the event that occurs after a transport
	// attempt is concluded, regardless of its outcome.
	//
	// When Client fires AfterAttempt, the execution's response field or
	// its error field or both are set. Both are set only if there was
	// an error reading the response body. AfterAttempt fires before the
	// retry policy is consulted.
	AfterAttempt
	// BeforeRetryWait identifies the event that occurs after the retry
	// policy decided to retry and computed the wait, but before the
	// wait starts.
	//
	// When Client fires BeforeRetryWait, the execution's Remaining
	// count already excludes the upcoming retry, and RetryWait returns
	// the wait about to start.
	BeforeRetryWait
	// AfterContextDone identifies the event that occurs when the
	// context governing the call is found to be done, either after an
	// attempt or during a retry wait. No further attempt is made.
	AfterContextDone
	// AfterExecutionEnd identifies the event that occurs after the
	// logical call ends.
	//
	// When Client fires AfterExecutionEnd, the end time is set, and the
	// execution's error field holds the classified error returned to
	// the caller, or nil on success.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"BeforeReadBody",
	"AfterAttemptTimeout",
	"AfterAttempt",
	"BeforeRetryWait",
	"AfterContextDone",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur in a
// logical call made by Client, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		BeforeReadBody,
		AfterAttemptTimeout,
		AfterAttempt,
		BeforeRetryWait,
		AfterContextDone,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
