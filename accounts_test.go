// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"context"
	"testing"
	"time"

	"github.com/gogama/lithic/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountListParams(t *testing.T) {
	assert.Equal(t, request.Params{}, AccountListParams{}.Params())

	loc := time.FixedZone("X", 3600)
	p := AccountListParams{
		Begin:    time.Date(2023, 1, 2, 3, 4, 5, 0, loc),
		End:      time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
		Page:     2,
		PageSize: 50,
	}
	assert.Equal(t, request.Params{
		"begin":     time.Date(2023, 1, 2, 2, 4, 5, 0, time.UTC),
		"end":       time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
		"page":      2,
		"page_size": 50,
	}, p.Params())
}

const (
	accountsPage1 = `{"data":[{"token":"a1","state":"ACTIVE","spend_limit":{"daily":100,"monthly":1000,"lifetime":10000}}],"page":1,"total_pages":2,"total_entries":2}`
	accountsPage2 = `{"data":[{"token":"a2","state":"PAUSED","spend_limit":{"daily":1,"monthly":2,"lifetime":3},"auth_rule_tokens":["r1"]}],"page":2,"total_pages":2,"total_entries":2}`
)

func TestAccountsService(t *testing.T) {
	for _, server := range servers {
		t.Run(serverName(server), func(t *testing.T) {
			var paths, queries []string
			g := &HandlerGroup{}
			g.PushBack(AfterAttempt, HandlerFunc(func(_ Event, e *request.Execution) {
				paths = append(paths, e.Header().Get(receivedPathHeader))
				queries = append(queries, e.Header().Get(receivedQueryHeader))
			}))
			cl := newServerClient(server, WithHandlers(g))
			script := serverScript{
				{StatusCode: 200, Body: body(accountsPage1)},
				{StatusCode: 200, Body: body(accountsPage2)},
			}

			t.Run("List", func(t *testing.T) {
				paths, queries = nil, nil
				page, err := cl.Accounts.List(context.Background(), AccountListParams{PageSize: 1}, script.callOptions()...)
				require.NoError(t, err)

				var tokens []string
				for account, err := range page.All(context.Background()) {
					require.NoError(t, err)
					tokens = append(tokens, account.Token)
				}
				assert.Equal(t, []string{"a1", "a2"}, tokens)
				assert.Equal(t, []string{"/v1/accounts", "/v1/accounts"}, paths)
				assert.Equal(t, []string{"page_size=1", "page=2&page_size=1"}, queries)

				next, err := page.Next(context.Background())
				require.NoError(t, err)
				a2 := next.Items()[0]
				assert.Equal(t, "PAUSED", a2.State)
				assert.Equal(t, &SpendLimit{Daily: 1, Monthly: 2, Lifetime: 3}, a2.SpendLimit)
				assert.Equal(t, []string{"r1"}, a2.AuthRuleTokens)
			})
			t.Run("ListAsync", func(t *testing.T) {
				paths, queries = nil, nil
				p := cl.Accounts.ListAsync(AccountListParams{}, script.callOptions()...)
				assert.Empty(t, paths)

				var n int
				for _, err := range p.All(context.Background()) {
					require.NoError(t, err)
					n++
				}
				assert.Equal(t, 2, n)
				assert.Equal(t, []string{"", "page=2"}, queries)
			})
		})
	}
}

func TestStatusService(t *testing.T) {
	for _, server := range servers {
		t.Run(serverName(server), func(t *testing.T) {
			var paths, auths []string
			g := &HandlerGroup{}
			g.PushBack(AfterAttempt, HandlerFunc(func(_ Event, e *request.Execution) {
				paths = append(paths, e.Header().Get(receivedPathHeader))
				auths = append(auths, e.Header().Get(receivedAuthHeader))
			}))

			t.Run("strict", func(t *testing.T) {
				paths, auths = nil, nil
				cl := newServerClient(server, WithHandlers(g))
				status, err := cl.Status.Retrieve(context.Background(),
					serverScript{{StatusCode: 200, Body: body(`{"status":"ok"}`)}}.callOptions()...)
				require.NoError(t, err)
				assert.Equal(t, &APIStatus{Status: "ok"}, status)
				assert.Equal(t, []string{"/v1/status"}, paths)
				assert.Equal(t, []string{"test-key"}, auths)
			})
			t.Run("strict validation failure is not retried", func(t *testing.T) {
				paths = nil
				cl := newServerClient(server, WithHandlers(g))
				status, err := cl.Status.Retrieve(context.Background(),
					serverScript{{StatusCode: 200, Body: body(`{"state":"ok"}`)}}.callOptions()...)
				assert.Nil(t, status)
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, 200, ve.StatusCode)
				assert.Len(t, paths, 1)
			})
			t.Run("lenient", func(t *testing.T) {
				cl := newServerClient(server, WithHandlers(g), WithStrictValidation(false))
				status, err := cl.Status.Retrieve(context.Background(),
					serverScript{{StatusCode: 200, Body: body(`{"state":"ok"}`)}}.callOptions()...)
				require.NoError(t, err)
				assert.Equal(t, &APIStatus{}, status)
			})
			t.Run("text body", func(t *testing.T) {
				cl := newServerClient(server)
				script := serverScript{{StatusCode: 200, Header: map[string]string{"Content-Type": "text/plain"}, Body: body(`OK`)}}
				o := script.toOptions("GET")
				text, err := Execute[struct {
					Content string `json:"content"`
				}](context.Background(), cl, o)
				require.NoError(t, err)
				assert.Equal(t, "OK", text.Content)
			})
		})
	}
}
