// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gogama/lithic/retry"
	"github.com/gogama/lithic/timeout"
	"github.com/rs/zerolog"
)

// An Environment names a deployment of the Lithic API.
type Environment string

const (
	// EnvironmentProduction is the production API.
	EnvironmentProduction Environment = "production"
	// EnvironmentSandbox is the sandbox API, for testing.
	EnvironmentSandbox Environment = "sandbox"
)

var environments = map[Environment]string{
	EnvironmentProduction: "https://api.lithic.com/v1",
	EnvironmentSandbox:    "https://sandbox.lithic.com/v1",
}

// URL returns the base URL of the environment, or the empty string if
// the environment is unknown.
func (env Environment) URL() string {
	return environments[env]
}

// An Option configures a Client under construction by New.
type Option func(c *Client) error

// WithAPIKey sets the API key sent in the Authorization header of every
// request.
func WithAPIKey(key string) Option {
	return func(c *Client) error {
		c.apiKey = key
		return nil
	}
}

// WithBaseURL sets the URL against which call paths are resolved. It
// must be an absolute http or https URL.
func WithBaseURL(s string) Option {
	return func(c *Client) error {
		u, err := url.Parse(s)
		if err != nil {
			return fmt.Errorf("lithic: invalid base URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("lithic: invalid base URL %q", s)
		}
		c.baseURL = u
		return nil
	}
}

// WithEnvironment sets the base URL to that of a known environment.
func WithEnvironment(env Environment) Option {
	return func(c *Client) error {
		s := env.URL()
		if s == "" {
			return fmt.Errorf("lithic: unknown environment %q", env)
		}
		return WithBaseURL(s)(c)
	}
}

// WithMaxRetries sets the default retry budget of every call. Zero
// disables retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) error {
		if n < 0 {
			return errors.New("lithic: negative max retries")
		}
		c.maxRetries = n
		return nil
	}
}

// WithTimeout sets the default per-attempt timeout of every call. Use
// timeout.None for no timeout.
func WithTimeout(t timeout.Timeout) Option {
	return func(c *Client) error {
		if t.Total < 0 || t.Connect < 0 {
			return errors.New("lithic: negative timeout")
		}
		c.timeout = t
		return nil
	}
}

// WithHTTPDoer replaces the client's default transport. The client does
// not own d: Close does not release it. The connect timeout only takes
// effect if d dials through timeout.DialContext.
func WithHTTPDoer(d HTTPDoer) Option {
	return func(c *Client) error {
		if d == nil {
			return errors.New("lithic: nil HTTPDoer")
		}
		c.doer = d
		return nil
	}
}

// WithProxy sets the proxy function of the default transport. It has no
// effect together with WithHTTPDoer. Without it, the default transport
// uses http.ProxyFromEnvironment.
func WithProxy(proxy func(*http.Request) (*url.URL, error)) Option {
	return func(c *Client) error {
		c.proxy = proxy
		return nil
	}
}

// WithStrictValidation sets whether responses are validated against
// their model schema (true, the default) or constructed leniently.
func WithStrictValidation(strict bool) Option {
	return func(c *Client) error {
		c.strict = strict
		return nil
	}
}

// WithRetryPolicy replaces retry.DefaultPolicy. The policy's decider
// should include retry.Budget to honour the retry budget.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) error {
		if p == nil {
			return errors.New("lithic: nil retry policy")
		}
		c.retryPolicy = p
		return nil
	}
}

// WithHandlers installs the event handlers of g. The client takes a
// copy of g, so later changes to g have no effect on the client.
func WithHandlers(g *HandlerGroup) Option {
	return func(c *Client) error {
		if g == nil {
			return errors.New("lithic: nil handler group")
		}
		c.handlers = g
		return nil
	}
}

// WithLogger installs handlers which log the progress of every call to
// logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) error {
		c.logger = &logger
		return nil
	}
}
