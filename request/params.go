// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// Params holds the query parameters of a request. Values may be
// scalars (string, bool, any integer or floating point type,
// time.Time, fmt.Stringer) or slices of scalars. A nil value means the
// parameter is omitted.
type Params map[string]any

// Merge returns a new Params containing the union of p and q. Where a
// key appears in both, the value from q wins. Neither p nor q is
// modified.
func (p Params) Merge(q Params) Params {
	r := make(Params, len(p)+len(q))
	for k, v := range p {
		r[k] = v
	}
	for k, v := range q {
		r[k] = v
	}
	return r
}

// Clone returns a shallow copy of p. The clone of a nil Params is nil.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	return p.Merge(nil)
}

// Values encodes p as URL query values. A slice value repeats its key
// once per element. Keys are visited in sorted order so the encoding is
// deterministic.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p))
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch x := p[k].(type) {
		case nil:
		case []string:
			v[k] = append(v[k], x...)
		case []int:
			for _, i := range x {
				v.Add(k, strconv.Itoa(i))
			}
		case []int64:
			for _, i := range x {
				v.Add(k, strconv.FormatInt(i, 10))
			}
		case []any:
			for _, e := range x {
				if e != nil {
					v.Add(k, scalar(e))
				}
			}
		default:
			v.Add(k, scalar(x))
		}
	}
	return v
}

func scalar(x any) string {
	switch s := x.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case time.Time:
		return s.Format(time.RFC3339)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}
