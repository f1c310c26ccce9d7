// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Options (describes one logical
API call) and Execution (describes the progress of that call).

Options carry the method, the URL path, query parameters, an optional
JSON body, and per-call overrides of the client's headers, retry budget
and timeout. Each override is an Opt, a tri-state value which is either
not given, given as null, or given as a value:

	o, err := request.New("GET", "/accounts")
	...
	o.Params = request.Params{"page_size": 50}
	o.MaxRetries = request.Some(5)
	o.Timeout = request.Null[timeout.Timeout]() // never time out

An Opt that is not given inherits the client-wide default. A null Opt
overrides the default with nothing: no extra headers, no retries, or no
timeout.

Before the first attempt, the client merges Options over its Defaults
with Materialize, producing Args. Args are turned into a fresh
http.Request for every transport attempt.

Execution is both the output type of the client's Do method and the
input type of retry policies and event handlers. You will typically not
allocate Execution instances yourself.
*/
package request
