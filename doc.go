// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package lithic provides a typed client for the Lithic REST API, with
retries, backoff, response validation and pagination built in.

Create a Client to begin making calls.

	client, err := lithic.New(
		lithic.WithAPIKey(os.Getenv("LITHIC_API_KEY")),
		lithic.WithEnvironment(lithic.EnvironmentSandbox),
	)
	...
	defer client.Close()
	status, err := client.Status.Retrieve(ctx)

Every call may be tuned individually with options from package request,
which override the client-wide defaults for that call only:

	status, err := client.Status.Retrieve(ctx,
		request.WithMaxRetries(5),
		request.WithTimeout(timeout.Fixed(10*time.Second)),
		request.WithHeader("X-Trace", "abc"))

List endpoints return a Page, which iterates over the items of every
page, fetching the following pages as it goes:

	page, err := client.Accounts.List(ctx, lithic.AccountListParams{PageSize: 50})
	...
	for account, err := range page.All(ctx) {
		...
	}

A failed call returns exactly one error of type *ConnectionError,
*TimeoutError, *StatusError or *ValidationError. Status errors of
common kinds unwrap to a sentinel error:

	_, err := client.Status.Retrieve(ctx)
	if errors.Is(err, lithic.ErrRateLimit) {
		...
	}

Endpoints without a dedicated service method can be called through the
generic helpers Get, Post, Put, Patch, Delete and GetAPIList, or run on
their own goroutine with Go and ListAsync.

To hook into the fine-grained details of the client's execution loop,
install a handler into the appropriate handler chain:

	handlers := &lithic.HandlerGroup{}
	handlers.PushBack(lithic.BeforeAttempt, lithic.HandlerFunc(
		func(_ lithic.Event, e *request.Execution) {
			log.Printf("Attempt %d to %s", e.Attempt, e.Request.URL)
		}))
	client, err := lithic.New(..., lithic.WithHandlers(handlers))

Packages metrics and tracing provide ready-made handler groups for
Prometheus and OpenTelemetry. Package config loads client options from
the environment, a .env file or a YAML file.
*/
package lithic
