// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lithic

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gogama/lithic/model"
	"github.com/gogama/lithic/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		m := newMockCaller(t, true)
		m.On("Do", mock.Anything, mock.MatchedBy(func(o *request.Options) bool {
			return o.Method == "GET" && o.URL == "/status" && o.Params["verbose"] == true && o.Body == nil
		})).Return(execution(200, "application/json", `{"status":"ok"}`), nil).Once()
		status, err := Get[APIStatus](context.Background(), m, "/status", request.Params{"verbose": true})
		require.NoError(t, err)
		assert.Equal(t, &APIStatus{Status: "ok"}, status)
		m.AssertExpectations(t)
	})
	t.Run("query not aliased", func(t *testing.T) {
		m := newMockCaller(t, true)
		query := request.Params{"page": 1}
		m.On("Do", mock.Anything, mock.Anything).Return(execution(200, "application/json", `{"status":"ok"}`), nil).Once()
		_, err := Get[APIStatus](context.Background(), m, "/status", query, request.WithQuery(request.Params{"page": 2}))
		require.NoError(t, err)
		assert.Equal(t, request.Params{"page": 1}, query)
	})
	t.Run("call error", func(t *testing.T) {
		m := newMockCaller(t, true)
		expected := &StatusError{StatusCode: 404, kind: ErrNotFound}
		m.On("Do", mock.Anything, mock.Anything).Return(nil, expected).Once()
		status, err := Get[APIStatus](context.Background(), m, "/status", nil)
		assert.Nil(t, status)
		assert.Same(t, expected, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestWithBody(t *testing.T) {
	type widget struct {
		Name string `json:"name"`
	}
	testCases := []struct {
		method string
		call   func(ctx context.Context, c Caller, path string, body any, opts ...request.CallOption) (*widget, error)
	}{
		{"POST", Post[widget]},
		{"PUT", Put[widget]},
		{"PATCH", Patch[widget]},
		{"DELETE", Delete[widget]},
	}
	for _, testCase := range testCases {
		t.Run(testCase.method, func(t *testing.T) {
			m := newMockCaller(t, true)
			in := map[string]string{"name": "in"}
			m.On("Do", mock.Anything, mock.MatchedBy(func(o *request.Options) bool {
				n, _ := o.MaxRetries.Get()
				return o.Method == testCase.method && o.URL == "/widgets" && o.Body != nil && n == 5
			})).Return(execution(200, "application/json", `{"name":"out"}`), nil).Once()
			w, err := testCase.call(context.Background(), m, "/widgets", in, request.WithMaxRetries(5))
			require.NoError(t, err)
			assert.Equal(t, "out", w.Name)
			m.AssertExpectations(t)
		})
	}
}

func TestExecute(t *testing.T) {
	t.Run("nil options", func(t *testing.T) {
		m := newMockCaller(t, true)
		v, err := Execute[APIStatus](context.Background(), m, nil)
		assert.Nil(t, v)
		assert.EqualError(t, err, "lithic: nil options")
		m.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
	})
	t.Run("options not mutated", func(t *testing.T) {
		m := newMockCaller(t, true)
		o := &request.Options{URL: "/status"}
		m.On("Do", mock.Anything, mock.MatchedBy(func(o2 *request.Options) bool {
			return o2 != o && o2.Headers.IsGiven()
		})).Return(execution(200, "application/json", `{"status":"ok"}`), nil).Once()
		_, err := Execute[APIStatus](context.Background(), m, o, request.WithHeader("X-Foo", "bar"))
		require.NoError(t, err)
		assert.False(t, o.Headers.IsGiven())
		m.AssertExpectations(t)
	})
	t.Run("none", func(t *testing.T) {
		m := newMockCaller(t, true)
		m.On("Do", mock.Anything, mock.Anything).Return(execution(204, "", ``), nil).Once()
		v, err := Delete[model.None](context.Background(), m, "/accounts/1", nil)
		require.NoError(t, err)
		assert.Equal(t, &model.None{}, v)
	})
	t.Run("validation error", func(t *testing.T) {
		m := newMockCaller(t, true)
		e := execution(200, "application/json", `{}`)
		m.On("Do", mock.Anything, mock.Anything).Return(e, nil).Once()
		v, err := Get[APIStatus](context.Background(), m, "/status", nil)
		assert.Nil(t, v)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Same(t, e.Response, ve.Response)
		assert.Equal(t, 200, ve.StatusCode)
		assert.Equal(t, []byte(`{}`), ve.Body)
		var se *model.SchemaError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, []model.FieldError{{Field: "status", Message: "is required"}}, se.Fields)
		assert.Equal(t, "lithic: response invalid for expected schema: lithic/model: status: is required", err.Error())
	})
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name        string
		strict      bool
		contentType string
		body        string
		expected    any
		err         bool
	}{
		{name: "strict", strict: true, contentType: "application/json", body: `{"status":"ok"}`, expected: &APIStatus{Status: "ok"}},
		{name: "strict media type params", strict: true, contentType: "application/json; charset=utf-8", body: `{"status":"ok","extra":1}`, expected: &APIStatus{Status: "ok"}},
		{name: "strict missing field", strict: true, contentType: "application/json", body: `{"other":"x"}`, err: true},
		{name: "strict wrong type", strict: true, contentType: "application/json", body: `{"status":5}`, err: true},
		{name: "strict not JSON", strict: true, contentType: "application/json", body: `<html>`, err: true},
		{name: "strict text fallback", strict: true, contentType: "text/plain", body: `pong`, expected: &model.Text{Content: "pong"}},
		{name: "lenient missing field", contentType: "application/json", body: `{"other":"x"}`, expected: &APIStatus{}},
		{name: "lenient wrong type", contentType: "application/json", body: `{"status":5}`, expected: &APIStatus{}},
		{name: "lenient not JSON", contentType: "application/json", body: `<html>`, expected: &APIStatus{}},
		{name: "lenient no content type", body: `{"status":"ok"}`, expected: &model.Text{Content: `{"status":"ok"}`}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			e := execution(200, testCase.contentType, testCase.body)
			var dst any
			switch testCase.expected.(type) {
			case *model.Text:
				dst = &model.Text{}
			default:
				dst = &APIStatus{}
			}
			err := decode(testCase.strict, e, dst)
			if testCase.err {
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, dst)
		})
	}
	t.Run("none", func(t *testing.T) {
		assert.NoError(t, decode(true, execution(200, "application/json", `garbage`), &model.None{}))
	})
}

func execution(status int, contentType, body string) *request.Execution {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &request.Execution{
		Response: &http.Response{StatusCode: status, Header: h},
		Body:     []byte(body),
	}
}

type mockCaller struct {
	mock.Mock
	strict bool
}

func newMockCaller(t *testing.T, strict bool) *mockCaller {
	m := &mockCaller{strict: strict}
	m.Test(t)
	return m
}

func (m *mockCaller) Do(ctx context.Context, o *request.Options) (*request.Execution, error) {
	args := m.Called(ctx, o)
	e, _ := args.Get(0).(*request.Execution)
	return e, args.Error(1)
}

func (m *mockCaller) StrictValidation() bool {
	return m.strict
}

var errBoom = errors.New("boom")
