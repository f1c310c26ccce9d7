// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

type optState uint8

const (
	notGiven optState = iota
	givenNull
	givenValue
)

// An Opt is a tri-state per-call override. Its zero value means "not
// given", in which case the client-wide default applies. An Opt may
// also be explicitly given as null (see Null), which overrides the
// default with the absence of a value, or given as a value (see Some).
//
// The distinction matters for timeouts in particular: a timeout that
// is not given inherits the client timeout, while a null timeout
// disables the timeout for the call.
type Opt[T any] struct {
	v     T
	state optState
}

// Some returns an Opt given as the value v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{v: v, state: givenValue}
}

// Null returns an Opt explicitly given as null.
func Null[T any]() Opt[T] {
	return Opt[T]{state: givenNull}
}

// IsGiven reports whether o was given, either as null or as a value.
func (o Opt[T]) IsGiven() bool {
	return o.state != notGiven
}

// IsNull reports whether o was explicitly given as null.
func (o Opt[T]) IsNull() bool {
	return o.state == givenNull
}

// Get returns the value of o and true if o was given as a value. It
// returns the zero value of T and false otherwise.
func (o Opt[T]) Get() (T, bool) {
	return o.v, o.state == givenValue
}

// Or resolves o against a default: def if o was not given, the zero
// value of T if o was given as null, and the value of o otherwise.
func (o Opt[T]) Or(def T) T {
	switch o.state {
	case notGiven:
		return def
	case givenNull:
		var zero T
		return zero
	default:
		return o.v
	}
}

// String returns "not given", "null", or "value".
func (o Opt[T]) String() string {
	switch o.state {
	case notGiven:
		return "not given"
	case givenNull:
		return "null"
	default:
		return "value"
	}
}
