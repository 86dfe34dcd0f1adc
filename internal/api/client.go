// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package api sends requests to the GreedyBandit REST API. Every call is a
// single synchronous round trip; retries and pooling are left to the caller's
// transport.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gbs/internal/logger"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	headerRequestID     = "X-Request-Id"

	contentTypeJSON = "application/json"
	contentTypeCSV  = "text/csv"
)

// Client dispatches requests against one base URL.
type Client struct {
	baseURL     string
	userAgent   string
	restyClient *resty.Client
}

type ClientOption func(*Client)

func NewClient(baseURL string, opts ...ClientOption) *Client {
	client := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   "gbs",
		restyClient: createDefaultRestyClient(),
	}

	for _, opt := range opts {
		opt(client)
	}

	client.restyClient.SetHeader("User-Agent", client.userAgent)

	return client
}

func WithRestyClient(restyClient *resty.Client) ClientOption {
	return func(c *Client) {
		if restyClient != nil {
			c.restyClient = restyClient
		}
	}
}

func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

func createDefaultRestyClient() *resty.Client {
	return resty.New().
		SetLogger(logger.Resty{}).
		SetHeader(headerAccept, contentTypeJSON)
}

// BaseURL returns the URL every request path is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request is one call to the API. Auth, when set, is sent verbatim as the
// Authorization header.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Auth   string
	Body   any
}

// Response is the part of an HTTP response the renderer needs.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
	RequestID   string
}

// IsError reports whether the service answered with an error status.
func (r *Response) IsError() bool {
	return r.StatusCode >= http.StatusBadRequest
}

// TransportError means no HTTP response was received at all.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// URL joins the base URL, path and percent-encoded query.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Do sends req and returns the response whatever its status. The only error
// it returns is a *TransportError, apart from a body that cannot be encoded.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	requestID := uuid.NewString()
	fullURL := c.URL(req.Path, req.Query)

	r := c.restyClient.R().
		SetContext(ctx).
		SetHeader(headerRequestID, requestID)

	if req.Auth != "" {
		r.SetHeader(headerAuthorization, req.Auth)
	}
	for key, values := range req.Header {
		r.Header.Del(key)
		for _, v := range values {
			r.Header.Add(key, v)
		}
	}
	if req.Body != nil {
		body, err := encodeBody(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		r.SetHeader(headerContentType, contentTypeJSON).SetBody(body)
	}

	logger.Debug("sending request", "method", req.Method, "url", fullURL, "request_id", requestID)
	start := time.Now()

	resp, err := r.Execute(req.Method, fullURL)
	if err != nil {
		logger.Error("request failed", "method", req.Method, "url", fullURL, "request_id", requestID, "error", err)
		return nil, &TransportError{Method: req.Method, URL: fullURL, Err: err}
	}

	logger.Info("request finished",
		"method", req.Method,
		"url", fullURL,
		"status", resp.StatusCode(),
		"duration", time.Since(start).String(),
		"request_id", requestID,
	)

	return &Response{
		StatusCode:  resp.StatusCode(),
		ContentType: resp.Header().Get(headerContentType),
		Body:        resp.Body(),
		RequestID:   requestID,
	}, nil
}

func encodeBody(body any) ([]byte, error) {
	if raw, ok := body.([]byte); ok {
		return raw, nil
	}
	return json.Marshal(body)
}
