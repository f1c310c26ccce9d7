// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package model provides the two construction paths of typed API models.

Every model is a Go struct with json tags. The strict path, Strict,
unmarshals the payload and then validates it against the struct's
validate tags, failing with a *SchemaError on any mismatch. The lenient
path, Lenient, never fails: it hands the payload's members to the
model's own Construct method, which assigns what it can and keeps
declared defaults for the rest.

A typical model implements both:

	type Card struct {
		Token   string   `json:"token" validate:"required"`
		State   string   `json:"state"`
		Funding *Funding `json:"funding"`
		Tags    []Tag    `json:"tags"`
	}

	func (c *Card) Construct(f model.Fields) {
		c.State = "OPEN" // default
		model.Value(f, &c.Token, "token")
		model.Value(f, &c.State, "state")
		model.Object(f, &c.Funding, "funding", "funding_source")
		model.List(f, &c.Tags, "tags")
	}

Names after the first passed to Value, Object and List are aliases.
*/
package model
