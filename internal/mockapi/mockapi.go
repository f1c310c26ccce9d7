// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package mockapi serves an in-memory imitation of the Lithic API for
// end-to-end tests of the client.
package mockapi

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogama/lithic"
	"github.com/rs/zerolog"
)

// Request headers which make the server misbehave on purpose.
const (
	// FailHeader makes the server answer with the given status code.
	FailHeader = "X-Mock-Fail"
	// FailTimesHeader limits FailHeader to the first n requests
	// carrying the same Idempotency-Key or X-Mock-Call value.
	FailTimesHeader = "X-Mock-Fail-Times"
	// CallHeader identifies the attempts of one GET call, which carry
	// no idempotency key.
	CallHeader = "X-Mock-Call"
	// DelayHeader makes the server sleep for the given duration before
	// answering.
	DelayHeader = "X-Mock-Delay"
)

// DefaultPageSize is the page size of a list call without page_size.
const DefaultPageSize = 50

// A Server is the state behind the handlers of the mock API.
type Server struct {
	apiKey   string
	accounts []lithic.Account
	logger   zerolog.Logger

	mu       sync.Mutex
	failures map[string]int
	requests int
}

// New returns a server accepting only apiKey and holding accounts in
// list order.
func New(apiKey string, accounts []lithic.Account, logger zerolog.Logger) *Server {
	return &Server{
		apiKey:   apiKey,
		accounts: accounts,
		logger:   logger,
		failures: make(map[string]int),
	}
}

// Requests returns the number of requests received so far.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// Handler returns the routes of the server under /v1.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests(), s.count(), s.fault(), s.authenticate())
	v1 := r.Group("/v1")
	v1.GET("/status", s.status)
	v1.GET("/accounts", s.listAccounts)
	v1.GET("/accounts/:token", s.retrieveAccount)
	return r
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("mock request")
	}
}

func (s *Server) count() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		c.Next()
	}
}

func (s *Server) fault() gin.HandlerFunc {
	return func(c *gin.Context) {
		if d, err := time.ParseDuration(c.GetHeader(DelayHeader)); err == nil {
			select {
			case <-time.After(d):
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}
		code, err := strconv.Atoi(c.GetHeader(FailHeader))
		if err != nil || code < 400 {
			c.Next()
			return
		}
		if times, err := strconv.Atoi(c.GetHeader(FailTimesHeader)); err == nil {
			key := c.GetHeader(lithic.IdempotencyHeader) + "/" + c.GetHeader(CallHeader)
			s.mu.Lock()
			n := s.failures[key]
			s.failures[key] = n + 1
			s.mu.Unlock()
			if n >= times {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(code, gin.H{"message": "injected failure"})
	}
}

func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != s.apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid API key"})
			return
		}
		c.Next()
	}
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type listQuery struct {
	Begin    string `form:"begin"`
	End      string `form:"end"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

func (s *Server) listAccounts(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	for _, t := range []string{q.Begin, q.End} {
		if t == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339, t); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid date: " + t})
			return
		}
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Page < 0 || q.PageSize < 1 || q.PageSize > 1000 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "page or page_size out of range"})
		return
	}

	total := len(s.accounts)
	pages := int(math.Ceil(float64(total) / float64(q.PageSize)))
	from := min((q.Page-1)*q.PageSize, total)
	to := min(from+q.PageSize, total)
	c.JSON(http.StatusOK, gin.H{
		"data":          s.accounts[from:to],
		"page":          q.Page,
		"total_pages":   pages,
		"total_entries": total,
	})
}

func (s *Server) retrieveAccount(c *gin.Context) {
	token := c.Param("token")
	for i := range s.accounts {
		if s.accounts[i].Token == token {
			c.JSON(http.StatusOK, s.accounts[i])
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "account not found"})
}
