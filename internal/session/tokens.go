package session

// Principal is the authenticated user's identity and authorization data,
// returned by login/MFA verification and cached alongside the token pair.
type Principal struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// TokenPair holds the short-lived access token and the long-lived refresh
// token. The two are always persisted and cleared together; a pair with
// either field empty is treated as no session at all.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Valid reports whether both credentials are present.
func (p TokenPair) Valid() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}
