// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package model

import (
	"bytes"
	"encoding/json"
)

// Fields holds the members of a JSON object, keyed by name, with each
// value left undecoded. It is the input of lenient construction.
type Fields map[string]json.RawMessage

// ParseFields parses data as a JSON object. The boolean is false if
// data is not a JSON object, in which case the returned Fields are
// empty but usable.
func ParseFields(data []byte) (Fields, bool) {
	var f Fields
	if err := json.Unmarshal(data, &f); err != nil || f == nil {
		return Fields{}, false
	}
	return f, true
}

// Lookup returns the raw value of the first of names present in f with
// a non-null value. Passing a field's json name followed by its
// aliases matches the field under any of them.
func (f Fields) Lookup(names ...string) (json.RawMessage, bool) {
	for _, name := range names {
		raw, ok := f[name]
		if ok && !isNull(raw) {
			return raw, true
		}
	}
	return nil, false
}

// A Constructor is a model which can build itself leniently from
// Fields, without validation.
//
// Construct must never fail. It assigns every field found in f whose
// value has the expected JSON type, leaves every other field at its
// declared default, and ignores unknown members of f. Nested models
// and lists of models are constructed by recursing explicitly, per
// field, through the helpers Object and List.
type Constructor interface {
	Construct(f Fields)
}

// Lenient decodes data into dst without validation and without ever
// failing.
//
// If dst implements Constructor, data is parsed into Fields and handed
// to Construct; data which is not a JSON object yields empty Fields.
// Otherwise data is unmarshalled into dst on a best-effort basis and
// any error is discarded.
func Lenient(data []byte, dst any) {
	if c, ok := dst.(Constructor); ok {
		f, _ := ParseFields(data)
		c.Construct(f)
		return
	}
	_ = json.Unmarshal(data, dst)
}

// Value assigns the field named by names to dst if it is present and
// decodes as a T, and reports whether it did. If T's pointer type
// implements Constructor, the field must be a JSON object and is
// constructed leniently. Otherwise dst keeps its value.
func Value[T any](f Fields, dst *T, names ...string) bool {
	raw, ok := f.Lookup(names...)
	if !ok {
		return false
	}
	var v T
	if !decode(raw, &v) {
		return false
	}
	*dst = v
	return true
}

// Object assigns the nested model named by names to dst, allocating a
// new T, if the field is present and decodes. Otherwise dst keeps its
// value.
func Object[T any](f Fields, dst **T, names ...string) bool {
	raw, ok := f.Lookup(names...)
	if !ok {
		return false
	}
	v := new(T)
	if !decode(raw, v) {
		return false
	}
	*dst = v
	return true
}

// List assigns the list named by names to dst if the field is present
// and is a JSON array. Elements which do not decode as a T are
// skipped. If the field is absent or not an array, dst keeps its
// value.
func List[T any](f Fields, dst *[]T, names ...string) bool {
	raw, ok := f.Lookup(names...)
	if !ok {
		return false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return false
	}
	list := make([]T, 0, len(elems))
	for _, elem := range elems {
		var v T
		if decode(elem, &v) {
			list = append(list, v)
		}
	}
	*dst = list
	return true
}

func decode(raw json.RawMessage, dst any) bool {
	if c, ok := dst.(Constructor); ok {
		f, isObject := ParseFields(raw)
		if !isObject {
			return false
		}
		c.Construct(f)
		return true
	}
	return json.Unmarshal(raw, dst) == nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// None is the model of a call which expects no response content. Its
// body is never read.
type None struct{}

// Construct implements Constructor.
func (*None) Construct(Fields) {}

// Text is the fallback model for a response whose content type is not
// JSON: the body is exposed as text under the "content" member.
type Text struct {
	Content string `json:"content"`
}

// Construct implements Constructor.
func (t *Text) Construct(f Fields) {
	Value(f, &t.Content, "content")
}
