// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pagination

import (
	"github.com/gogama/lithic/model"
	"github.com/gogama/lithic/request"
)

// OffsetPage is a page of a list endpoint paginated by offset. The
// next page starts at the current offset plus the number of items on
// this page, and exists while the server reports more items.
type OffsetPage[T any] struct {
	Data    []T  `json:"data" validate:"dive"`
	HasMore bool `json:"has_more"`
	Offset  int  `json:"offset"`
}

// Construct implements model.Constructor.
func (p *OffsetPage[T]) Construct(f model.Fields) {
	model.List(f, &p.Data, "data")
	model.Value(f, &p.HasMore, "has_more")
	model.Value(f, &p.Offset, "offset")
}

// PageItems returns the items on the page.
func (p *OffsetPage[T]) PageItems() []T {
	return p.Data
}

// NextPageParams returns the query parameters selecting the next page,
// or nil if this is the last page.
func (p *OffsetPage[T]) NextPageParams() request.Params {
	if !p.HasMore || len(p.Data) == 0 {
		return nil
	}
	return request.Params{"offset": p.Offset + len(p.Data)}
}

// NumberedPage is a page of a list endpoint paginated by page number.
// Page numbers start at one.
type NumberedPage[T any] struct {
	Data         []T `json:"data" validate:"dive"`
	Page         int `json:"page"`
	TotalPages   int `json:"total_pages"`
	TotalEntries int `json:"total_entries"`
}

// Construct implements model.Constructor.
func (p *NumberedPage[T]) Construct(f model.Fields) {
	model.List(f, &p.Data, "data")
	model.Value(f, &p.Page, "page")
	model.Value(f, &p.TotalPages, "total_pages")
	model.Value(f, &p.TotalEntries, "total_entries")
}

// PageItems returns the items on the page.
func (p *NumberedPage[T]) PageItems() []T {
	return p.Data
}

// NextPageParams returns the query parameters selecting the next page,
// or nil if this is the last page.
func (p *NumberedPage[T]) NextPageParams() request.Params {
	if p.Page < 1 || p.Page >= p.TotalPages {
		return nil
	}
	return request.Params{"page": p.Page + 1}
}

// CursorPage is a page of a list endpoint paginated by an opaque
// cursor returned with each page.
type CursorPage[T any] struct {
	Data       []T    `json:"data" validate:"dive"`
	NextCursor string `json:"next_cursor"`
}

// Construct implements model.Constructor.
func (p *CursorPage[T]) Construct(f model.Fields) {
	model.List(f, &p.Data, "data")
	model.Value(f, &p.NextCursor, "next_cursor", "cursor")
}

// PageItems returns the items on the page.
func (p *CursorPage[T]) PageItems() []T {
	return p.Data
}

// NextPageParams returns the query parameters selecting the next page,
// or nil if this is the last page.
func (p *CursorPage[T]) NextPageParams() request.Params {
	if p.NextCursor == "" {
		return nil
	}
	return request.Params{"cursor": p.NextCursor}
}
