package session

import "errors"

var (
	// ErrNoSession means no token pair is stored. Callers send the user to
	// the login flow; this is a navigation, not a failure.
	ErrNoSession = errors.New("no session")

	// ErrMalformedToken means the stored access token's expiry claim could
	// not be decoded. Treated like an expired token: fail closed.
	ErrMalformedToken = errors.New("malformed access token")

	// ErrRefreshFailed means the backend rejected the refresh token or the
	// call itself failed. The session has been torn down; the refresh is
	// never retried automatically.
	ErrRefreshFailed = errors.New("token refresh failed")

	// ErrStartupTimeout means the bootstrap sequence exceeded its wall-clock
	// budget. Distinct from ErrRefreshFailed: the cause may be transient, so
	// callers surface a retry-capable error instead of forcing a re-login.
	ErrStartupTimeout = errors.New("session bootstrap timed out")
)
