// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic_test

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogama/lithic"
	"github.com/gogama/lithic/internal/mockapi"
	"github.com/gogama/lithic/request"
	"github.com/gogama/lithic/retry"
	"github.com/gogama/lithic/timeout"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mockKey = "mock-key"

func mockAccounts(n int) []lithic.Account {
	accounts := make([]lithic.Account, n)
	for i := range accounts {
		accounts[i] = lithic.Account{
			Token:      fmt.Sprintf("acct-%d", i),
			State:      "ACTIVE",
			SpendLimit: &lithic.SpendLimit{Daily: 100, Monthly: 1000, Lifetime: 10000},
		}
	}
	return accounts
}

func newMockAPI(t *testing.T, accounts []lithic.Account, opts ...lithic.Option) (*mockapi.Server, *lithic.Client) {
	gin.SetMode(gin.TestMode)
	api := mockapi.New(mockKey, accounts, zerolog.Nop())
	server := httptest.NewServer(api.Handler())
	t.Cleanup(server.Close)
	base := []lithic.Option{
		lithic.WithAPIKey(mockKey),
		lithic.WithBaseURL(server.URL + "/v1"),
		lithic.WithRetryPolicy(retry.NewPolicy(retry.DefaultDecider, retry.NewFixedWaiter(5*time.Millisecond))),
	}
	client, err := lithic.New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return api, client
}

func tokens(t *testing.T, page *lithic.Page[lithic.Account]) []string {
	var result []string
	for account, err := range page.All(context.Background()) {
		require.NoError(t, err)
		result = append(result, account.Token)
	}
	return result
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()

	t.Run("status", func(t *testing.T) {
		_, client := newMockAPI(t, nil)
		status, err := client.Status.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ok", status.Status)
	})
	t.Run("list all pages", func(t *testing.T) {
		api, client := newMockAPI(t, mockAccounts(5))
		page, err := client.Accounts.List(ctx, lithic.AccountListParams{
			Begin:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			PageSize: 2,
		})
		require.NoError(t, err)
		assert.True(t, page.HasNext())
		assert.Equal(t, []string{"acct-0", "acct-1", "acct-2", "acct-3", "acct-4"}, tokens(t, page))
		assert.Equal(t, 3, api.Requests())
		assert.Equal(t, []string{"acct-0", "acct-1", "acct-2", "acct-3", "acct-4"}, tokens(t, page))
		assert.Equal(t, 3, api.Requests())
	})
	t.Run("list async", func(t *testing.T) {
		api, client := newMockAPI(t, mockAccounts(3))
		p := client.Accounts.ListAsync(lithic.AccountListParams{PageSize: 2})
		assert.Equal(t, 0, api.Requests())
		page, err := p.Go(ctx).Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"acct-0", "acct-1", "acct-2"}, tokens(t, page))
	})
	t.Run("list empty", func(t *testing.T) {
		_, client := newMockAPI(t, nil)
		page, err := client.Accounts.List(ctx, lithic.AccountListParams{})
		require.NoError(t, err)
		assert.False(t, page.HasNext())
		assert.Empty(t, page.Items())
		_, err = page.Next(ctx)
		assert.ErrorIs(t, err, lithic.ErrNoNextPage)
	})
	t.Run("list out of range", func(t *testing.T) {
		api, client := newMockAPI(t, nil)
		_, err := client.Accounts.List(ctx, lithic.AccountListParams{PageSize: 5000})
		assert.ErrorIs(t, err, lithic.ErrUnprocessableEntity)
		assert.Equal(t, 1, api.Requests())
	})
	t.Run("retrieve", func(t *testing.T) {
		_, client := newMockAPI(t, mockAccounts(2))
		account, err := client.Accounts.Retrieve(ctx, "acct-1")
		require.NoError(t, err)
		assert.Equal(t, mockAccounts(2)[1], *account)
	})
	t.Run("retrieve not found", func(t *testing.T) {
		api, client := newMockAPI(t, mockAccounts(2))
		_, err := client.Accounts.Retrieve(ctx, "acct-9")
		assert.ErrorIs(t, err, lithic.ErrNotFound)
		var statusErr *lithic.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, map[string]any{"message": "account not found"}, statusErr.Detail)
		assert.Equal(t, 1, api.Requests())
	})
	t.Run("retrieve empty token", func(t *testing.T) {
		api, client := newMockAPI(t, nil)
		_, err := client.Accounts.Retrieve(ctx, "")
		assert.EqualError(t, err, "lithic: empty account token")
		assert.Equal(t, 0, api.Requests())
	})
	t.Run("bad API key", func(t *testing.T) {
		api, client := newMockAPI(t, nil, lithic.WithAPIKey("wrong"))
		_, err := client.Status.Retrieve(ctx)
		assert.ErrorIs(t, err, lithic.ErrAuthentication)
		assert.Equal(t, 1, api.Requests())
	})
	t.Run("retry then succeed", func(t *testing.T) {
		api, client := newMockAPI(t, nil)
		status, err := client.Status.Retrieve(ctx,
			request.WithHeader(mockapi.FailHeader, "503"),
			request.WithHeader(mockapi.FailTimesHeader, "2"),
			request.WithHeader(mockapi.CallHeader, uuid.NewString()))
		require.NoError(t, err)
		assert.Equal(t, "ok", status.Status)
		assert.Equal(t, 3, api.Requests())
	})
	t.Run("retries exhausted", func(t *testing.T) {
		api, client := newMockAPI(t, nil, lithic.WithMaxRetries(1))
		_, err := client.Status.Retrieve(ctx, request.WithHeader(mockapi.FailHeader, "500"))
		assert.ErrorIs(t, err, lithic.ErrInternalServer)
		assert.Equal(t, 2, api.Requests())
	})
	t.Run("idempotent retries", func(t *testing.T) {
		api, client := newMockAPI(t, nil)
		_, err := lithic.Post[lithic.APIStatus](ctx, client, "/status", map[string]string{"a": "b"},
			request.WithHeader(mockapi.FailHeader, "409"),
			request.WithHeader(mockapi.FailTimesHeader, "2"))
		assert.ErrorIs(t, err, lithic.ErrNotFound)
		assert.Equal(t, 3, api.Requests())
	})
	t.Run("timeout", func(t *testing.T) {
		api, client := newMockAPI(t, nil, lithic.WithMaxRetries(0))
		_, err := client.Status.Retrieve(ctx,
			request.WithHeader(mockapi.DelayHeader, "500ms"),
			request.WithTimeout(timeout.Fixed(50*time.Millisecond)))
		var timeoutErr *lithic.TimeoutError
		assert.ErrorAs(t, err, &timeoutErr)
		assert.Equal(t, 1, api.Requests())
	})
	t.Run("context cancelled", func(t *testing.T) {
		_, client := newMockAPI(t, nil)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := client.Status.Retrieve(cancelled)
		var connErr *lithic.ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
