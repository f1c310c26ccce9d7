// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics records Prometheus metrics about the calls made by a
// lithic.Client.
//
// Create a Collector against a registerer, install it in a handler
// group, and hand the group to the client:
//
//	c := metrics.NewCollector(prometheus.DefaultRegisterer)
//	handlers := &lithic.HandlerGroup{}
//	c.Install(handlers)
//	client, err := lithic.New(..., lithic.WithHandlers(handlers))
package metrics

import (
	"errors"
	"strconv"

	"github.com/gogama/lithic"
	"github.com/gogama/lithic/request"
	"github.com/gogama/lithic/transient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values of the calls counter and duration histogram.
const (
	OutcomeOK         = "ok"
	OutcomeTimeout    = "timeout"
	OutcomeConnection = "connection"
	OutcomeStatus     = "status"
	OutcomeValidation = "validation"
	OutcomeOther      = "other"
)

// OtherEndpoint is the endpoint label value of calls whose options
// carry no route.
const OtherEndpoint = "other"

// A Collector holds the metric vectors fed by the handlers it installs.
// It is safe for concurrent use, and one Collector may be installed in
// the handler groups of several clients.
type Collector struct {
	calls     *prometheus.CounterVec
	attempts  *prometheus.CounterVec
	retries   *prometheus.CounterVec
	inFlight  *prometheus.GaugeVec
	duration  *prometheus.HistogramVec
	retryWait *prometheus.HistogramVec
}

// NewCollector creates a Collector whose metrics are registered with
// reg. It panics if any of the metrics is already registered.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		calls: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lithic",
				Name:      "calls_total",
				Help:      "Total number of logical API calls, by outcome.",
			},
			[]string{"method", "endpoint", "outcome"},
		),
		attempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lithic",
				Name:      "attempts_total",
				Help:      "Total number of transport attempts, by status code and transport error category.",
			},
			[]string{"method", "endpoint", "status_code", "error"},
		),
		retries: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lithic",
				Name:      "retries_total",
				Help:      "Total number of retries scheduled.",
			},
			[]string{"method", "endpoint"},
		),
		inFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "lithic",
				Name:      "calls_in_flight",
				Help:      "Number of logical API calls currently in flight.",
			},
			[]string{"method", "endpoint"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lithic",
				Name:      "call_duration_seconds",
				Help:      "Duration of logical API calls in seconds, including retries.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "outcome"},
		),
		retryWait: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lithic",
				Name:      "retry_wait_seconds",
				Help:      "Backoff waited before each retry in seconds.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"method", "endpoint"},
		),
	}
}

// Install pushes the collector's handlers onto the back of the relevant
// handler chains of g.
func (c *Collector) Install(g *lithic.HandlerGroup) {
	g.PushBack(lithic.BeforeExecutionStart, lithic.HandlerFunc(c.start))
	g.PushBack(lithic.AfterAttempt, lithic.HandlerFunc(c.attempt))
	g.PushBack(lithic.BeforeRetryWait, lithic.HandlerFunc(c.retry))
	g.PushBack(lithic.AfterExecutionEnd, lithic.HandlerFunc(c.end))
}

func (c *Collector) start(_ lithic.Event, e *request.Execution) {
	c.inFlight.WithLabelValues(labels(e)...).Inc()
}

func (c *Collector) attempt(_ lithic.Event, e *request.Execution) {
	method, endpoint := e.Args.Method, route(e)
	status := strconv.Itoa(e.StatusCode())
	c.attempts.WithLabelValues(method, endpoint, status, transient.Categorize(e.Err).String()).Inc()
}

func (c *Collector) retry(_ lithic.Event, e *request.Execution) {
	c.retries.WithLabelValues(labels(e)...).Inc()
	c.retryWait.WithLabelValues(labels(e)...).Observe(lithic.RetryWait(e).Seconds())
}

func (c *Collector) end(_ lithic.Event, e *request.Execution) {
	method, endpoint := e.Args.Method, route(e)
	o := Outcome(e.Err)
	c.inFlight.WithLabelValues(method, endpoint).Dec()
	c.calls.WithLabelValues(method, endpoint, o).Inc()
	c.duration.WithLabelValues(method, endpoint, o).Observe(e.Duration().Seconds())
}

func labels(e *request.Execution) []string {
	return []string{e.Args.Method, route(e)}
}

// route is the route template of the call, never its raw URL, so
// that resource tokens do not become label values.
func route(e *request.Execution) string {
	if e.Options.Route == "" {
		return OtherEndpoint
	}
	return e.Options.Route
}

// Outcome returns the outcome label value for the error returned by a
// call.
func Outcome(err error) string {
	var timeoutErr *lithic.TimeoutError
	var connErr *lithic.ConnectionError
	var statusErr *lithic.StatusError
	var validationErr *lithic.ValidationError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &timeoutErr):
		return OutcomeTimeout
	case errors.As(err, &connErr):
		return OutcomeConnection
	case errors.As(err, &statusErr):
		return OutcomeStatus
	case errors.As(err, &validationErr):
		return OutcomeValidation
	default:
		return OutcomeOther
	}
}
