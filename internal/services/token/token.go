// Package token issues, verifies and rotates the access/refresh token pair
// that authenticates the API. Tokens are self-contained HS256 JWTs; there is
// no server-side token store, so revocation is by expiry only.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/todopalm/todopalm-api/internal/models"
)

var (
	// ErrMissingToken is returned by Rotate when no token was supplied.
	ErrMissingToken = errors.New("no token provided")
	// ErrInvalidToken covers signature, parse and claim failures.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidRefreshToken is the single externally visible failure for
	// Rotate: expired, malformed and wrong-secret refresh tokens are
	// deliberately indistinguishable.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// Config holds the secret material and lifetimes for a Service. Secrets are
// injected explicitly so tests can supply isolated ones per run.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Service signs and verifies token pairs. It is stateless and safe for
// concurrent use.
type Service struct {
	cfg Config
	now func() time.Time
}

// NewService creates a token service from explicit configuration.
func NewService(cfg Config) (*Service, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, fmt.Errorf("token service requires both signing secrets")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, fmt.Errorf("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	return &Service{cfg: cfg, now: time.Now}, nil
}

// WithClock overrides the service's time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// IssueAccessToken signs a short-lived access token for userID. The returned
// expiry is epoch seconds.
func (s *Service) IssueAccessToken(userID string) (string, int64, error) {
	expiresAt := s.now().Add(s.cfg.AccessTTL)
	signed, err := s.sign(userID, models.TokenTypeAccess, expiresAt, s.cfg.AccessSecret)
	if err != nil {
		return "", 0, err
	}
	return signed, expiresAt.Unix(), nil
}

// IssueRefreshToken signs a long-lived refresh token for userID using the
// refresh secret.
func (s *Service) IssueRefreshToken(userID string) (string, error) {
	signed, err := s.sign(userID, models.TokenTypeRefresh, s.now().Add(s.cfg.RefreshTTL), s.cfg.RefreshSecret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// IssuePair issues a fresh access/refresh pair for userID.
func (s *Service) IssuePair(userID string) (*models.TokenPair, error) {
	accessToken, expiresAt, err := s.IssueAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.IssueRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// VerifyAccessToken validates an access token against the access secret only
// and returns its subject. Fails with ErrTokenExpired past expiry and
// ErrInvalidToken for every other defect, including refresh tokens presented
// on the access path.
func (s *Service) VerifyAccessToken(tokenString string) (string, error) {
	return s.verify(tokenString, models.TokenTypeAccess, s.cfg.AccessSecret)
}

// VerifyRefreshToken validates a refresh token against the refresh secret
// only and returns its subject.
func (s *Service) VerifyRefreshToken(tokenString string) (string, error) {
	return s.verify(tokenString, models.TokenTypeRefresh, s.cfg.RefreshSecret)
}

// Rotate exchanges a refresh token for a brand-new access/refresh pair for
// the same subject. The input token is superseded, not reused. All
// verification failures collapse to ErrInvalidRefreshToken so callers cannot
// probe which check failed.
func (s *Service) Rotate(refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrMissingToken
	}

	userID, err := s.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	return s.IssuePair(userID)
}

func (s *Service) sign(userID string, typ models.TokenType, expiresAt time.Time, secret []byte) (string, error) {
	tok, err := jwt.NewBuilder().
		Subject(userID).
		IssuedAt(s.now()).
		Expiration(expiresAt).
		Claim("type", string(typ)).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return string(signed), nil
}

func (s *Service) verify(tokenString string, typ models.TokenType, secret []byte) (string, error) {
	tok, err := jwt.Parse([]byte(tokenString),
		jwt.WithKey(jwa.HS256, secret),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(s.now)),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	claimed, ok := tok.Get("type")
	if !ok {
		return "", ErrInvalidToken
	}
	if claimedStr, ok := claimed.(string); !ok || claimedStr != string(typ) {
		return "", ErrInvalidToken
	}

	sub := tok.Subject()
	if sub == "" {
		return "", ErrInvalidToken
	}

	return sub, nil
}
