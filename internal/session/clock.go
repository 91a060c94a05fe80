package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultRefreshMargin is the lead time before expiry at which an access
// token is treated as due for renewal. A token within the margin is never
// attached to a new request.
const DefaultRefreshMargin = 120 * time.Second

var tokenParser = jwt.NewParser()

// TimeUntilExpiry decodes the token's exp claim and returns the remaining
// lifetime, negative if already past expiry. The signature is deliberately
// not verified; that is the backend's job. Returns ErrMalformedToken when
// the claim cannot be decoded, which callers must treat the same as an
// expired token.
func TimeUntilExpiry(token string) (time.Duration, error) {
	return timeUntilExpiryAt(token, time.Now())
}

func timeUntilExpiryAt(token string, now time.Time) (time.Duration, error) {
	parsed, _, err := tokenParser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, fmt.Errorf("%w: missing exp claim", ErrMalformedToken)
	}

	return exp.Sub(now), nil
}
