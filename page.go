// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"sync"

	"github.com/gogama/lithic/model"
	"github.com/gogama/lithic/request"
)

// ErrNoNextPage is returned by Page.Next when the page is the last one.
// Check Page.HasNext before calling Next to avoid it.
var ErrNoNextPage = errors.New("lithic: no next page expected")

// A PageModel is the decoded payload of one page of a list endpoint.
// The types in package pagination implement it.
type PageModel[T any] interface {
	model.Constructor

	// PageItems returns the items on the page.
	PageItems() []T

	// NextPageParams returns the query parameters which select the next
	// page, or an empty value if this is the last page.
	NextPageParams() request.Params
}

// A Page is one page of results from a list endpoint, together with
// what is needed to fetch the pages after it.
//
// A Page memoizes the next page once fetched, so iterating a chain of
// pages a second time replays the pages already fetched without
// calling the API again.
type Page[T any] struct {
	// Model is the decoded page payload.
	Model PageModel[T]

	options *request.Options
	fetch   func(context.Context, *request.Options) (*Page[T], error)

	mu   sync.Mutex
	next *Page[T]
}

// Items returns the items on the page.
func (p *Page[T]) Items() []T {
	return p.Model.PageItems()
}

// NextPageParams returns the query parameters which select the next
// page, or nil if this is the last page.
func (p *Page[T]) NextPageParams() request.Params {
	params := p.Model.NextPageParams()
	if len(params) == 0 {
		return nil
	}
	return params
}

// HasNext reports whether there is a page after this one.
func (p *Page[T]) HasNext() bool {
	return p.NextPageParams() != nil
}

// Options returns a copy of the options of the call which fetched the
// page.
func (p *Page[T]) Options() *request.Options {
	return p.options.Clone()
}

// Next fetches the page after this one by repeating the call which
// fetched this page, with the next page parameters merged over its
// query parameters. It returns ErrNoNextPage if there is no next page.
func (p *Page[T]) Next(ctx context.Context) (*Page[T], error) {
	params := p.NextPageParams()
	if params == nil {
		return nil, ErrNoNextPage
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.next != nil {
		return p.next, nil
	}
	next, err := p.fetch(ctx, p.options.WithParams(params))
	if err != nil {
		return nil, err
	}
	p.next = next
	return next, nil
}

// Pages returns an iterator over this page and every page after it. If
// fetching a page fails, the iterator yields the error and stops.
func (p *Page[T]) Pages(ctx context.Context) iter.Seq2[*Page[T], error] {
	return func(yield func(*Page[T], error) bool) {
		page := p
		for {
			if !yield(page, nil) || !page.HasNext() {
				return
			}
			next, err := page.Next(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			page = next
		}
	}
}

// All returns an iterator over the items on this page and every page
// after it. If fetching a page fails, the iterator yields the error
// and stops.
func (p *Page[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return allItems(p.Pages(ctx))
}

func allItems[T any](pages iter.Seq2[*Page[T], error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for page, err := range pages {
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range page.Items() {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

// GetAPIList fetches the first page of the list endpoint at path. P is
// the page payload type, for example pagination.OffsetPage[T].
func GetAPIList[T any, P any, PP interface {
	*P
	PageModel[T]
}](ctx context.Context, c Caller, path string, query request.Params, opts ...request.CallOption) (*Page[T], error) {
	return requestAPIList[T, P, PP](ctx, c, listOptions(path, query, opts))
}

func listOptions(path string, query request.Params, opts []request.CallOption) *request.Options {
	o := &request.Options{Method: http.MethodGet, URL: path, Params: query.Clone()}
	return o.Apply(opts...)
}

func requestAPIList[T any, P any, PP interface {
	*P
	PageModel[T]
}](ctx context.Context, c Caller, o *request.Options) (*Page[T], error) {
	payload, err := Execute[P](ctx, c, o)
	if err != nil {
		return nil, err
	}
	return &Page[T]{
		Model:   PP(payload),
		options: o,
		fetch: func(ctx context.Context, o *request.Options) (*Page[T], error) {
			return requestAPIList[T, P, PP](ctx, c, o)
		},
	}, nil
}

// A Paginator lazily fetches the pages of a list endpoint. Nothing is
// sent until the first page is asked for, and the first page is then
// fetched only once. A Paginator is safe for concurrent use. Create one
// with ListAsync.
type Paginator[T any] struct {
	load func(context.Context) (*Page[T], error)

	mu    sync.Mutex
	first *Page[T]
}

// ListAsync returns a Paginator over the list endpoint at path. P is
// the page payload type, for example pagination.OffsetPage[T].
func ListAsync[T any, P any, PP interface {
	*P
	PageModel[T]
}](c Caller, path string, query request.Params, opts ...request.CallOption) *Paginator[T] {
	o := listOptions(path, query, opts)
	return &Paginator[T]{
		load: func(ctx context.Context) (*Page[T], error) {
			return requestAPIList[T, P, PP](ctx, c, o)
		},
	}
}

// Page returns the first page, fetching it if this is the first
// successful call. A failed fetch is not remembered, so a later call
// tries again.
func (p *Paginator[T]) Page(ctx context.Context) (*Page[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.first != nil {
		return p.first, nil
	}
	first, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	p.first = first
	return first, nil
}

// Go fetches the first page on a new goroutine.
func (p *Paginator[T]) Go(ctx context.Context) *Future[Page[T]] {
	return goFunc(ctx, p.Page)
}

// Pages returns an iterator over every page, starting from the first.
func (p *Paginator[T]) Pages(ctx context.Context) iter.Seq2[*Page[T], error] {
	return func(yield func(*Page[T], error) bool) {
		first, err := p.Page(ctx)
		if err != nil {
			yield(nil, err)
			return
		}
		for page, err := range first.Pages(ctx) {
			if !yield(page, err) {
				return
			}
		}
	}
}

// All returns an iterator over the items of every page.
func (p *Paginator[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return allItems(p.Pages(ctx))
}
