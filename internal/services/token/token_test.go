package token

import (
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(Config{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestNewServiceValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg: Config{
				AccessSecret:  []byte("a"),
				RefreshSecret: []byte("b"),
			},
		},
		{
			name:    "missing access secret",
			cfg:     Config{RefreshSecret: []byte("b")},
			wantErr: true,
		},
		{
			name:    "missing refresh secret",
			cfg:     Config{AccessSecret: []byte("a")},
			wantErr: true,
		},
		{
			name: "identical secrets",
			cfg: Config{
				AccessSecret:  []byte("same"),
				RefreshSecret: []byte("same"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewService(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewService() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	signed, expiresAt, err := svc.IssueAccessToken("user-123")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}
	if expiresAt <= time.Now().Unix() {
		t.Errorf("expiresAt = %d, want in the future", expiresAt)
	}

	sub, err := svc.VerifyAccessToken(signed)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error = %v", err)
	}
	if sub != "user-123" {
		t.Errorf("subject = %q, want %q", sub, "user-123")
	}
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	issued := time.Now().Add(-2 * time.Hour)
	svc.WithClock(func() time.Time { return issued })
	signed, _, err := svc.IssueAccessToken("user-123")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	svc.WithClock(time.Now)
	if _, err := svc.VerifyAccessToken(signed); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("VerifyAccessToken() error = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	other, err := NewService(Config{
		AccessSecret:  []byte("a-completely-different-secret"),
		RefreshSecret: []byte("test-refresh-secret-2"),
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	signed, _, err := other.IssueAccessToken("user-123")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	if _, err := svc.VerifyAccessToken(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyAccessToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenTypesDoNotCross(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	refresh, err := svc.IssueRefreshToken("user-123")
	if err != nil {
		t.Fatalf("IssueRefreshToken() error = %v", err)
	}
	if _, err := svc.VerifyAccessToken(refresh); err == nil {
		t.Error("VerifyAccessToken() accepted a refresh token")
	}

	access, _, err := svc.IssueAccessToken("user-123")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}
	if _, err := svc.VerifyRefreshToken(access); err == nil {
		t.Error("VerifyRefreshToken() accepted an access token")
	}
}

func TestIssuePair(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	pair, err := svc.IssuePair("user-123")
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("IssuePair() returned empty tokens")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Error("access and refresh tokens are identical")
	}

	if sub, err := svc.VerifyAccessToken(pair.AccessToken); err != nil || sub != "user-123" {
		t.Errorf("VerifyAccessToken() = (%q, %v)", sub, err)
	}
	if sub, err := svc.VerifyRefreshToken(pair.RefreshToken); err != nil || sub != "user-123" {
		t.Errorf("VerifyRefreshToken() = (%q, %v)", sub, err)
	}
}

func TestRotate(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	refresh, err := svc.IssueRefreshToken("user-123")
	if err != nil {
		t.Fatalf("IssueRefreshToken() error = %v", err)
	}

	pair, err := svc.Rotate(refresh)
	if err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}
	sub, err := svc.VerifyRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("VerifyRefreshToken() error = %v", err)
	}
	if sub != "user-123" {
		t.Errorf("rotated subject = %q, want %q", sub, "user-123")
	}
}

func TestRotateMissingToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	if _, err := svc.Rotate(""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("Rotate(\"\") error = %v, want ErrMissingToken", err)
	}
}

func TestRotateInvalidToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "invalid-refresh-token"},
		{"access token on refresh path", mustAccessToken(t, svc)},
		{"expired", expiredRefreshToken(t)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Rotate(tt.token); !errors.Is(err, ErrInvalidRefreshToken) {
				t.Errorf("Rotate() error = %v, want ErrInvalidRefreshToken", err)
			}
		})
	}
}

func mustAccessToken(t *testing.T, svc *Service) string {
	t.Helper()
	signed, _, err := svc.IssueAccessToken("user-123")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}
	return signed
}

func expiredRefreshToken(t *testing.T) string {
	t.Helper()
	svc := newTestService(t)
	svc.WithClock(func() time.Time { return time.Now().Add(-48 * time.Hour) })
	signed, err := svc.IssueRefreshToken("user-123")
	if err != nil {
		t.Fatalf("IssueRefreshToken() error = %v", err)
	}
	return signed
}
