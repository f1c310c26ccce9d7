// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package tracing traces the calls made by a lithic.Client with
// OpenTelemetry.
//
// Each logical call gets one client span, which covers every transport
// attempt and retry wait of the call. Attempts and retries are recorded
// as span events, and the span context is injected into the headers of
// every attempt so that the server side can join the trace.
package tracing

import (
	"context"

	"github.com/gogama/lithic"
	"github.com/gogama/lithic/request"
	"github.com/gogama/lithic/transient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// ScopeName is the instrumentation scope name of the tracer.
const ScopeName = "github.com/gogama/lithic/tracing"

// Attribute keys set on call spans and their events.
const (
	AttrMethod     = attribute.Key("http.request.method")
	AttrURL        = attribute.Key("url.full")
	AttrRoute      = attribute.Key("http.route")
	AttrStatusCode = attribute.Key("http.response.status_code")
	AttrAttempt    = attribute.Key("lithic.attempt")
	AttrAttempts   = attribute.Key("lithic.attempts")
	AttrMaxRetries = attribute.Key("lithic.max_retries")
	AttrErrorKind  = attribute.Key("lithic.error_kind")
	AttrRetryWait  = attribute.Key("lithic.retry_wait_ms")
)

// A Tracer installs handlers which trace calls.
type Tracer struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// An Option configures a Tracer.
type Option func(c *config)

type config struct {
	provider   trace.TracerProvider
	propagator propagation.TextMapPropagator
}

// WithTracerProvider sets the provider of the tracer. The default is
// the global provider.
func WithTracerProvider(p trace.TracerProvider) Option {
	return func(c *config) {
		c.provider = p
	}
}

// WithPropagator sets the propagator which injects the span context
// into request headers. The default is the global propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(c *config) {
		c.propagator = p
	}
}

// New returns a Tracer configured by opts.
func New(opts ...Option) *Tracer {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.provider == nil {
		c.provider = otel.GetTracerProvider()
	}
	if c.propagator == nil {
		c.propagator = otel.GetTextMapPropagator()
	}
	return &Tracer{
		tracer:     c.provider.Tracer(ScopeName, trace.WithInstrumentationVersion(lithic.Version)),
		propagator: c.propagator,
	}
}

// Install pushes the tracer's handlers onto the back of the relevant
// handler chains of g. Handlers pushed onto g after Install find the
// call span in the execution context.
func (t *Tracer) Install(g *lithic.HandlerGroup) {
	g.PushBack(lithic.BeforeExecutionStart, lithic.HandlerFunc(t.start))
	g.PushBack(lithic.BeforeAttempt, lithic.HandlerFunc(t.inject))
	g.PushBack(lithic.AfterAttempt, lithic.HandlerFunc(t.attempt))
	g.PushBack(lithic.BeforeRetryWait, lithic.HandlerFunc(t.retry))
	g.PushBack(lithic.AfterExecutionEnd, lithic.HandlerFunc(t.end))
}

type spanKey struct{}

func span(e *request.Execution) trace.Span {
	s, _ := e.Value(spanKey{}).(trace.Span)
	if s == nil {
		return trace.SpanFromContext(context.Background())
	}
	return s
}

func (t *Tracer) start(_ lithic.Event, e *request.Execution) {
	name := e.Args.Method
	attrs := []attribute.KeyValue{
		AttrMethod.String(e.Args.Method),
		AttrURL.String(e.Args.URL.String()),
		AttrMaxRetries.Int(e.MaxRetries),
	}
	if r := e.Options.Route; r != "" {
		name += " " + r
		attrs = append(attrs, AttrRoute.String(r))
	}
	ctx, s := t.tracer.Start(e.Context(), name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...))
	e.SetContext(ctx)
	e.SetValue(spanKey{}, s)
}

func (t *Tracer) inject(_ lithic.Event, e *request.Execution) {
	t.propagator.Inject(e.Request.Context(), propagation.HeaderCarrier(e.Request.Header))
}

func (t *Tracer) attempt(_ lithic.Event, e *request.Execution) {
	span(e).AddEvent("attempt", trace.WithAttributes(
		AttrAttempt.Int(e.Attempt),
		AttrStatusCode.Int(e.StatusCode()),
		AttrErrorKind.String(transient.Categorize(e.Err).String()),
	))
}

func (t *Tracer) retry(_ lithic.Event, e *request.Execution) {
	span(e).AddEvent("retry", trace.WithAttributes(
		AttrAttempt.Int(e.Attempt+1),
		AttrRetryWait.Int64(lithic.RetryWait(e).Milliseconds()),
	))
}

func (t *Tracer) end(_ lithic.Event, e *request.Execution) {
	s := span(e)
	s.SetAttributes(AttrAttempts.Int(e.Attempt + 1))
	if code := e.StatusCode(); code != 0 {
		s.SetAttributes(AttrStatusCode.Int(code))
	}
	if e.Err != nil {
		s.RecordError(e.Err)
		s.SetStatus(codes.Error, e.Err.Error())
	}
	s.End()
}
