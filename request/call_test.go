// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"testing"
	"time"

	"github.com/gogama/lithic/timeout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Apply(t *testing.T) {
	o, err := New("GET", "/status")
	require.NoError(t, err)

	t.Run("no options", func(t *testing.T) {
		assert.Same(t, o, o.Apply())
	})
	t.Run("headers", func(t *testing.T) {
		o2 := o.Apply(WithHeader("X-Foo", "bar"), WithHeader("x-baz", "qux"))
		assert.False(t, o.Headers.IsGiven())
		h, ok := o2.Headers.Get()
		require.True(t, ok)
		assert.Equal(t, http.Header{"X-Foo": {"bar"}, "X-Baz": {"qux"}}, h)

		o3 := o2.Apply(WithHeaders(nil))
		assert.True(t, o3.Headers.IsNull())
		h, _ = o2.Headers.Get()
		assert.Len(t, h, 2)

		src := http.Header{"X-A": {"1"}}
		o4 := o.Apply(WithHeaders(src))
		src.Set("X-A", "2")
		h, _ = o4.Headers.Get()
		assert.Equal(t, "1", h.Get("X-A"))
	})
	t.Run("max retries", func(t *testing.T) {
		o2 := o.Apply(WithMaxRetries(0))
		n, ok := o2.MaxRetries.Get()
		assert.True(t, ok)
		assert.Equal(t, 0, n)
		assert.False(t, o.MaxRetries.IsGiven())
	})
	t.Run("timeout", func(t *testing.T) {
		o2 := o.Apply(WithTimeout(timeout.Fixed(time.Second)))
		tt, ok := o2.Timeout.Get()
		assert.True(t, ok)
		assert.Equal(t, timeout.Fixed(time.Second), tt)

		o3 := o2.Apply(WithNoTimeout())
		assert.True(t, o3.Timeout.IsNull())
		assert.Equal(t, timeout.None, o3.Timeout.Or(timeout.Default))
	})
	t.Run("query", func(t *testing.T) {
		o2 := o.Apply(WithQuery(Params{"page": 1}), WithQuery(Params{"page": 2, "page_size": 5}))
		assert.Equal(t, Params{"page": 2, "page_size": 5}, o2.Params)
		assert.Nil(t, o.Params)
	})
	t.Run("route", func(t *testing.T) {
		o2 := o.Apply(WithRoute("/status"))
		assert.Equal(t, "/status", o2.Route)
		assert.Empty(t, o.Route)
		assert.Equal(t, "/status", o2.WithParams(Params{"page": 2}).Route)
	})
}
