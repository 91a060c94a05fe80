// Package api is the typed client for the pharmacy back-office REST API.
// All authenticated calls go through the 401-refresh-replay bridge in do();
// the auth endpoints themselves (login, MFA verify, refresh) are exempt so
// a bad-credentials 401 is never misread as session expiry.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

const ApiBaseUrl = "https://api.apteekki-backoffice.fi/api"

// TokenSource provides bearer tokens for authenticated calls. Implemented
// by the session coordinator.
type TokenSource interface {
	// EnsureFresh returns a token with more than the safety margin of
	// lifetime left, refreshing if needed.
	EnsureFresh(ctx context.Context) (string, error)
	// ForceRefresh obtains a new token regardless of remaining lifetime.
	ForceRefresh(ctx context.Context) (string, error)
}

type ClientOpts struct {
	BaseURL string
	// ClientID is sent as X-Client-Id on every request.
	ClientID string
}

type Client struct {
	httpClient *resty.Client
	tokens     TokenSource
}

func NewClient(opts ClientOpts) *Client {
	c := Client{}
	baseURL := ApiBaseUrl
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": "apteekki-admin/1.0",
	}
	if opts.ClientID != "" {
		headers["X-Client-Id"] = opts.ClientID
	}
	c.httpClient = resty.New().
		SetBaseURL(baseURL).
		SetHeaders(headers)

	return &c
}

// SetTokenSource wires the session coordinator in. Must be called before
// any authenticated operation; the auth endpoints work without it.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// req builds a request for the public (unauthenticated) endpoints.
func (c *Client) req(ctx context.Context, result any) *resty.Request {
	request := c.httpClient.
		NewRequest().
		SetContext(ctx)

	if result != nil {
		request.SetResult(result)
	}

	return request
}

// do executes an authenticated call. The bearer token comes from
// EnsureFresh, so a token inside the safety margin is renewed before the
// request goes out. If the backend still answers 401, the call is replayed
// exactly once after a forced refresh; a second 401 propagates untouched.
// Worst case any call is issued twice.
//
// Concurrent 401s all funnel into the coordinator's single-flight refresh,
// so a burst of failing calls triggers one token exchange and every replay
// carries the same new token.
func (c *Client) do(ctx context.Context, result any, send func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	if c.tokens == nil {
		return nil, fmt.Errorf("client has no token source")
	}

	token, err := c.tokens.EnsureFresh(ctx)
	if err != nil {
		return nil, err
	}

	res, err := send(c.req(ctx, result).SetAuthToken(token))
	if err != nil {
		return res, err
	}
	if res.StatusCode() != http.StatusUnauthorized {
		return handleError(res, nil)
	}

	token, err = c.tokens.ForceRefresh(ctx)
	if err != nil {
		return res, err
	}

	return handleError(send(c.req(ctx, result).SetAuthToken(token)))
}

// handleError is a generic error handler for failing responses (>399
// status code). Without this, failing responses would have nil error.
func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		return res, fmt.Errorf("request failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode())
	}

	return res, nil
}
