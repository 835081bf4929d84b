package models

// TokenType discriminates the two credential classes. Access and refresh
// tokens are signed with distinct secrets and are never accepted by the other
// verification path.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenPair is the credential pair returned by login and refresh endpoints.
// ExpiresAt is the access token expiry in epoch seconds; the refresh token
// carries its own (much longer) expiry inside the token itself.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}
