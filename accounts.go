// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gogama/lithic/model"
	"github.com/gogama/lithic/pagination"
	"github.com/gogama/lithic/request"
)

// An Account is a Lithic account.
type Account struct {
	Token          string      `json:"token" validate:"required"`
	State          string      `json:"state" validate:"required,oneof=ACTIVE PAUSED CLOSED"`
	SpendLimit     *SpendLimit `json:"spend_limit" validate:"required"`
	AuthRuleTokens []string    `json:"auth_rule_tokens,omitempty"`
}

// Construct implements model.Constructor.
func (a *Account) Construct(f model.Fields) {
	model.Value(f, &a.Token, "token")
	model.Value(f, &a.State, "state")
	model.Object(f, &a.SpendLimit, "spend_limit")
	model.List(f, &a.AuthRuleTokens, "auth_rule_tokens")
}

// A SpendLimit caps the spending of an account, in cents.
type SpendLimit struct {
	Daily    int64 `json:"daily"`
	Monthly  int64 `json:"monthly"`
	Lifetime int64 `json:"lifetime"`
}

// Construct implements model.Constructor.
func (l *SpendLimit) Construct(f model.Fields) {
	model.Value(f, &l.Daily, "daily")
	model.Value(f, &l.Monthly, "monthly")
	model.Value(f, &l.Lifetime, "lifetime")
}

// AccountListParams filters and pages a list of accounts. Zero fields
// are omitted from the query.
type AccountListParams struct {
	// Begin selects accounts created after this time.
	Begin time.Time
	// End selects accounts created before this time.
	End time.Time
	// Page is the page number, starting at one.
	Page int
	// PageSize is the number of accounts per page.
	PageSize int
}

// Params returns p as query parameters, times in UTC.
func (p AccountListParams) Params() request.Params {
	q := request.Params{}
	if !p.Begin.IsZero() {
		q["begin"] = p.Begin.UTC()
	}
	if !p.End.IsZero() {
		q["end"] = p.End.UTC()
	}
	if p.Page > 0 {
		q["page"] = p.Page
	}
	if p.PageSize > 0 {
		q["page_size"] = p.PageSize
	}
	return q
}

// AccountsService is the service for the accounts endpoints.
type AccountsService struct {
	client *Client
}

// List fetches the first page of accounts matching p.
func (s *AccountsService) List(ctx context.Context, p AccountListParams, opts ...request.CallOption) (*Page[Account], error) {
	return GetAPIList[Account, pagination.NumberedPage[Account]](ctx, s.client, "/accounts", p.Params(), routed("/accounts", opts)...)
}

// ListAsync returns a Paginator over the accounts matching p. No call
// is made until the paginator is consumed.
func (s *AccountsService) ListAsync(p AccountListParams, opts ...request.CallOption) *Paginator[Account] {
	return ListAsync[Account, pagination.NumberedPage[Account]](s.client, "/accounts", p.Params(), routed("/accounts", opts)...)
}

// Retrieve fetches the account identified by token.
func (s *AccountsService) Retrieve(ctx context.Context, token string, opts ...request.CallOption) (*Account, error) {
	if token == "" {
		return nil, errors.New("lithic: empty account token")
	}
	return Get[Account](ctx, s.client, "/accounts/"+url.PathEscape(token), nil, routed("/accounts/{token}", opts)...)
}
