package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	var req *http.Request
	var body map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"accessToken":"a1","refreshToken":"r1","user":{"name":"Testi Admin","email":"admin@apteekki.fi","roles":["admin"],"permissions":["orders:read"]}}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	resp, err := client.Login(context.Background(), "admin@apteekki.fi", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, "/auth/login", req.URL.Path)
	assert.Equal(t, "admin@apteekki.fi", body["email"])
	assert.Equal(t, "hunter2", body["password"])
	assert.Equal(t, "a1", resp.AccessToken)
	assert.Equal(t, "r1", resp.RefreshToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Testi Admin", resp.User.Name)
	assert.Equal(t, []string{"admin"}, resp.User.Roles)
}

func TestLoginRequiresMFA(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"requiresMfa":true,"mfaToken":"mfa-1"}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	resp, err := client.Login(context.Background(), "admin@apteekki.fi", "hunter2")
	require.NoError(t, err)
	assert.True(t, resp.RequiresMFA)
	assert.Equal(t, "mfa-1", resp.MFAToken)
	assert.Empty(t, resp.AccessToken)
}

// Bad credentials come back as a 401 from the login endpoint itself. That
// must surface as a plain error to the caller, never as a refresh trigger.
func TestLoginUnauthorizedPropagates(t *testing.T) {
	var count int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	tokens := &fakeTokens{current: "tok-1"}
	client := NewClient(ClientOpts{BaseURL: ts.URL})
	client.SetTokenSource(tokens)

	_, err := client.Login(context.Background(), "admin@apteekki.fi", "wrong")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "status: 401")
	assert.Equal(t, 1, count, "login is never retried")
	assert.Equal(t, 0, tokens.forcedCount(), "a login 401 must not trigger a refresh")
}

func TestVerifyMFA(t *testing.T) {
	var req *http.Request
	var body map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req = r
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"accessToken":"a2","refreshToken":"r2","user":{"name":"Testi Admin"}}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	resp, err := client.VerifyMFA(context.Background(), "mfa-1", "123456")
	require.NoError(t, err)

	assert.Equal(t, "/auth/verify-mfa", req.URL.Path)
	assert.Equal(t, "mfa-1", body["mfaToken"])
	assert.Equal(t, "123456", body["code"])
	assert.Equal(t, "a2", resp.AccessToken)
}

func TestRefresh(t *testing.T) {
	var body map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"accessToken":"a2","refreshToken":"r2"}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	pair, err := client.Refresh(context.Background(), "r1")
	require.NoError(t, err)

	assert.Equal(t, "r1", body["refreshToken"])
	assert.Equal(t, "a2", pair.AccessToken)
	assert.Equal(t, "r2", pair.RefreshToken)
}

// A success:false body on a 200 response is still a refresh failure; the
// coordinator treats it identically to an HTTP error.
func TestRefreshRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"message":"refresh token expired"}`))
	}))
	defer ts.Close()

	client := NewClient(ClientOpts{BaseURL: ts.URL})
	_, err := client.Refresh(context.Background(), "r1")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "refresh token expired")
}

func TestRefreshTransportError(t *testing.T) {
	client := NewClient(ClientOpts{BaseURL: "http://127.0.0.1:1"})
	_, err := client.Refresh(context.Background(), "r1")
	assert.NotNil(t, err)
}
