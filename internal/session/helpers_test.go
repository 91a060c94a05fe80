package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// makeToken builds a signed JWT whose exp claim is expiresIn from now. The
// signing key is irrelevant since expiry decoding never verifies.
func makeToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin@apteekki.fi",
		"exp": time.Now().Add(expiresIn).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

// memStore is an in-memory Store for coordinator tests.
type memStore struct {
	mu        sync.Mutex
	pair      TokenPair
	principal *Principal
	hasRow    bool
}

func (s *memStore) Save(pair TokenPair, principal *Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	s.principal = principal
	s.hasRow = true
	return nil
}

func (s *memStore) Pair() (TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasRow || !s.pair.Valid() {
		return TokenPair{}, ErrNoSession
	}
	return s.pair, nil
}

func (s *memStore) Principal() (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.principal, nil
}

func (s *memStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = TokenPair{}
	s.principal = nil
	s.hasRow = false
	return nil
}

func (s *memStore) Close() error { return nil }

// fakeRefreshClient counts refresh calls and serves canned results.
type fakeRefreshClient struct {
	mu    sync.Mutex
	calls int
	delay time.Duration
	err   error
	next  func() TokenPair
}

func (f *fakeRefreshClient) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return TokenPair{}, ctx.Err()
		}
	}
	if f.err != nil {
		return TokenPair{}, f.err
	}
	return f.next(), nil
}

func (f *fakeRefreshClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// signalRecorder counts the two session signals. A non-zero delay makes it
// a deliberately slow listener.
type signalRecorder struct {
	mu        sync.Mutex
	refreshed []string
	invalid   int
	delay     time.Duration
	onRefresh func(token string)
}

func (r *signalRecorder) TokenRefreshed(accessToken string) {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	r.mu.Lock()
	r.refreshed = append(r.refreshed, accessToken)
	cb := r.onRefresh
	r.mu.Unlock()
	if cb != nil {
		cb(accessToken)
	}
}

func (r *signalRecorder) SessionInvalid() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalid++
}

func (r *signalRecorder) invalidCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.invalid
}

func (r *signalRecorder) refreshedTokens() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.refreshed...)
}

var tokenSeq int

// nextPair returns a fresh valid pair with a long-lived access token.
func nextPair(t *testing.T) TokenPair {
	t.Helper()
	tokenSeq++
	return TokenPair{
		AccessToken:  makeToken(t, time.Hour),
		RefreshToken: fmt.Sprintf("refresh-%d", tokenSeq),
	}
}
