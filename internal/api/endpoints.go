// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// StatsKind selects one of the CSV statistics reports.
type StatsKind string

const (
	StatsArms     StatsKind = "arms"
	StatsSegments StatsKind = "segs"
	StatsGoals    StatsKind = "goals"
)

func (k StatsKind) Valid() bool {
	switch k {
	case StatsArms, StatsSegments, StatsGoals:
		return true
	}
	return false
}

type newAccount struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// CreateAccount registers a new account. The service mails a link to the
// account's first service credential.
func (c *Client) CreateAccount(ctx context.Context, email, name string) (*Response, error) {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/accounts",
		Body:   newAccount{Email: email, Name: name},
	})
}

// RequestServiceCredential asks the service to mail a link to a new
// credential. The current credential stays valid.
func (c *Client) RequestServiceCredential(ctx context.Context, email string) (*Response, error) {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/accounts/service_credential_request",
		Query:  url.Values{"email": {email}},
	})
}

func (c *Client) DescribeAccount(ctx context.Context, auth, accountID string) (*Response, error) {
	return c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/accounts/" + url.PathEscape(accountID),
		Auth:   auth,
	})
}

func (c *Client) ListServices(ctx context.Context, auth string) (*Response, error) {
	return c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/services",
		Auth:   auth,
	})
}

func (c *Client) DescribeService(ctx context.Context, auth, svcID string) (*Response, error) {
	return c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   servicePath(svcID),
		Auth:   auth,
	})
}

func (c *Client) DeleteService(ctx context.Context, auth, svcID string) (*Response, error) {
	return c.Do(ctx, Request{
		Method: http.MethodDelete,
		Path:   servicePath(svcID),
		Auth:   auth,
	})
}

// PutService creates or replaces a service configuration. config must be a
// JSON document and is sent unchanged.
func (c *Client) PutService(ctx context.Context, auth, svcID string, config []byte) (*Response, error) {
	return c.Do(ctx, Request{
		Method: http.MethodPut,
		Path:   servicePath(svcID),
		Auth:   auth,
		Body:   config,
	})
}

// Stats fetches a CSV report for one experiment of a service.
func (c *Client) Stats(ctx context.Context, auth string, kind StatsKind, svcID, expID string) (*Response, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown stats report %q", kind)
	}
	return c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   "/stats/" + string(kind),
		Query:  url.Values{"svc_id": {svcID}, "exp_id": {expID}},
		Header: http.Header{headerAccept: {contentTypeCSV}},
		Auth:   auth,
	})
}

func servicePath(svcID string) string {
	return "/services/" + url.PathEscape(svcID)
}
