// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/json"
	"fmt"
	"io"
)

// EncodeBody converts an Options body to the bytes sent on the wire.
//
// A nil body encodes to a nil slice. A string or []byte is sent as-is.
// An io.Reader is read to the end, and closed if it is also an
// io.Closer. Any other value is encoded as JSON.
func EncodeBody(body any) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	case io.Reader:
		b, err := io.ReadAll(x)
		if c, ok := x.(io.Closer); ok {
			if cerr := c.Close(); err == nil {
				err = cerr
			}
		}
		if err != nil {
			return nil, fmt.Errorf("lithic/request: read body: %w", err)
		}
		return b, nil
	default:
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("lithic/request: encode body: %w", err)
		}
		return b, nil
	}
}
