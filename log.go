// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"github.com/gogama/lithic/request"
	"github.com/rs/zerolog"
)

// installLogHandlers pushes handlers onto g which log the progress of
// every call to logger.
func installLogHandlers(g *HandlerGroup, logger zerolog.Logger) {
	logger = logger.With().Str("component", "lithic").Logger()

	g.PushBack(BeforeAttempt, HandlerFunc(func(_ Event, e *request.Execution) {
		logger.Debug().
			Str("method", e.Args.Method).
			Str("url", e.Args.URL.String()).
			Int("attempt", e.Attempt).
			Msg("sending request")
	}))
	g.PushBack(AfterAttempt, HandlerFunc(func(_ Event, e *request.Execution) {
		switch {
		case e.Err != nil:
			logger.Warn().
				Err(e.Err).
				Int("attempt", e.Attempt).
				Bool("timeout", e.Timeout()).
				Msg("attempt failed")
		case e.StatusCode() >= 400:
			logger.Warn().
				Int("status", e.StatusCode()).
				Int("attempt", e.Attempt).
				Msg("attempt received error status")
		default:
			logger.Debug().
				Int("status", e.StatusCode()).
				Int("attempt", e.Attempt).
				Msg("attempt succeeded")
		}
	}))
	g.PushBack(BeforeRetryWait, HandlerFunc(func(_ Event, e *request.Execution) {
		logger.Info().
			Str("method", e.Args.Method).
			Str("url", e.Args.URL.String()).
			Dur("wait", RetryWait(e)).
			Int("remaining", e.Remaining).
			Msg("retrying request")
	}))
	g.PushBack(AfterExecutionEnd, HandlerFunc(func(_ Event, e *request.Execution) {
		var ev *zerolog.Event
		if e.Err != nil {
			ev = logger.Error().Err(e.Err)
		} else {
			ev = logger.Debug()
		}
		ev.Str("method", e.Args.Method).
			Str("url", e.Args.URL.String()).
			Int("status", e.StatusCode()).
			Int("attempts", e.Attempt+1).
			Dur("duration", e.Duration()).
			Msg("request finished")
	}))
}
