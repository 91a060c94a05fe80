package api

import (
	"context"
	"fmt"

	"github.com/jsalmela/apteekki-admin/internal/session"
)

// AuthResponse is the shape shared by login, MFA verification and refresh.
// On login with MFA enabled, RequiresMFA is true and MFAToken carries the
// short-lived challenge token for VerifyMFA; the token pair comes only
// after verification.
type AuthResponse struct {
	Success      bool               `json:"success"`
	Message      string             `json:"message,omitempty"`
	RequiresMFA  bool               `json:"requiresMfa,omitempty"`
	MFAToken     string             `json:"mfaToken,omitempty"`
	AccessToken  string             `json:"accessToken,omitempty"`
	RefreshToken string             `json:"refreshToken,omitempty"`
	User         *session.Principal `json:"user,omitempty"`
}

// Login authenticates with email and password. A 401 here means bad
// credentials and propagates to the caller directly; the login endpoint
// never goes through the refresh bridge.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	result := &AuthResponse{}

	res, err := c.req(ctx, result).
		SetBody(map[string]string{
			"email":    email,
			"password": password,
		}).
		Post("/auth/login")
	if _, err := handleError(res, err); err != nil {
		return nil, err
	}

	if !result.Success {
		return nil, fmt.Errorf("login rejected: %s", result.Message)
	}

	return result, nil
}

// VerifyMFA completes a login that required multi-factor verification.
func (c *Client) VerifyMFA(ctx context.Context, mfaToken, code string) (*AuthResponse, error) {
	result := &AuthResponse{}

	res, err := c.req(ctx, result).
		SetBody(map[string]string{
			"mfaToken": mfaToken,
			"code":     code,
		}).
		Post("/auth/verify-mfa")
	if _, err := handleError(res, err); err != nil {
		return nil, err
	}

	if !result.Success {
		return nil, fmt.Errorf("MFA verification rejected: %s", result.Message)
	}

	return result, nil
}

// Refresh exchanges the refresh token for a new pair. Implements
// session.RefreshClient. Any non-success outcome (HTTP error, transport
// error, success:false, incomplete pair) is a plain error; the coordinator
// treats them all identically and fails the session closed.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (session.TokenPair, error) {
	result := &AuthResponse{}

	res, err := c.req(ctx, result).
		SetBody(map[string]string{
			"refreshToken": refreshToken,
		}).
		Post("/auth/refresh")
	if _, err := handleError(res, err); err != nil {
		return session.TokenPair{}, err
	}

	if !result.Success {
		return session.TokenPair{}, fmt.Errorf("refresh rejected: %s", result.Message)
	}

	return session.TokenPair{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, nil
}

var _ session.RefreshClient = (*Client)(nil)
