// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"encoding/json"
	"mime"

	"github.com/gogama/lithic/model"
	"github.com/gogama/lithic/request"
)

// decode turns the buffered body of a successful execution into dst.
//
// A *model.None target ignores the body. A body whose media type is
// application/json is decoded as is; any other body is decoded as the
// object {"content": <body text>}, which fits model.Text. In strict
// mode the result is validated and a mismatch is reported as a
// *ValidationError. In lenient mode decode never fails.
func decode(strict bool, e *request.Execution, dst any) error {
	if _, ok := dst.(*model.None); ok {
		return nil
	}
	data := payload(e)
	if !strict {
		model.Lenient(data, dst)
		return nil
	}
	if err := model.Strict(data, dst); err != nil {
		return &ValidationError{
			Request:    e.Request,
			Response:   e.Response,
			StatusCode: e.StatusCode(),
			Body:       e.Body,
			Err:        err,
		}
	}
	return nil
}

func payload(e *request.Execution) []byte {
	mediaType, _, err := mime.ParseMediaType(e.Header().Get("Content-Type"))
	if err == nil && mediaType == "application/json" {
		return e.Body
	}
	data, _ := json.Marshal(model.Text{Content: string(e.Body)})
	return data
}
