// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"context"
	"net/http"

	"github.com/gogama/lithic/model"
	"github.com/gogama/lithic/request"
)

// APIStatus is the health of the API.
type APIStatus struct {
	Status string `json:"status" validate:"required"`
}

// Construct implements model.Constructor.
func (s *APIStatus) Construct(f model.Fields) {
	model.Value(f, &s.Status, "status")
}

// StatusService is the service for the API status endpoint.
type StatusService struct {
	client *Client
}

// Retrieve returns the current status of the API.
func (s *StatusService) Retrieve(ctx context.Context, opts ...request.CallOption) (*APIStatus, error) {
	return Get[APIStatus](ctx, s.client, "/status", nil, routed("/status", opts)...)
}

// RetrieveAsync retrieves the status of the API on a new goroutine.
func (s *StatusService) RetrieveAsync(ctx context.Context, opts ...request.CallOption) *Future[APIStatus] {
	o := &request.Options{Method: http.MethodGet, URL: "/status", Route: "/status"}
	return Go[APIStatus](ctx, s.client, o, opts...)
}
