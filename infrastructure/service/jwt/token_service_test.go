package jwt

import (
	"testing"
	"time"

	"github.com/velora/auth-service/domain/entity"
)

func newTestService(t *testing.T) *TokenService {
	t.Helper()
	service, err := NewTokenService(Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}
	return service
}

func testAccount() *entity.Account {
	return &entity.Account{
		ID:       "4f1c2d8e-1111-2222-3333-444455556666",
		Username: "alice",
		IsActive: true,
		Role:     "user",
	}
}

func TestTokenService(t *testing.T) {
	service := newTestService(t)

	t.Run("AccessRoundTrip", func(t *testing.T) {
		account := testAccount()
		token, err := service.IssueAccess(account)
		if err != nil {
			t.Fatalf("Failed to issue access token: %v", err)
		}

		claims, err := service.VerifyAccess(token)
		if err != nil {
			t.Fatalf("Failed to verify access token: %v", err)
		}
		if claims.SubjectID != account.ID {
			t.Errorf("Expected subject %q, got %q", account.ID, claims.SubjectID)
		}
		if claims.Role != account.Role {
			t.Errorf("Expected role %q, got %q", account.Role, claims.Role)
		}
		if !claims.IsActive {
			t.Error("Expected is_active to survive the round trip")
		}
		if !claims.ExpiresAt.After(time.Now()) {
			t.Error("Expected expiry in the future")
		}
	})

	t.Run("RefreshRoundTrip", func(t *testing.T) {
		token, err := service.IssueRefresh(testAccount())
		if err != nil {
			t.Fatalf("Failed to issue refresh token: %v", err)
		}
		claims, err := service.VerifyRefresh(token)
		if err != nil {
			t.Fatalf("Failed to verify refresh token: %v", err)
		}
		if remaining := claims.Remaining(time.Now()); remaining < 6*24*time.Hour {
			t.Errorf("Refresh expiry too short: %v remaining", remaining)
		}
	})

	t.Run("KeysDoNotCross", func(t *testing.T) {
		accessToken, err := service.IssueAccess(testAccount())
		if err != nil {
			t.Fatalf("Failed to issue access token: %v", err)
		}
		if _, err := service.VerifyRefresh(accessToken); err == nil {
			t.Error("Access token must not verify with the refresh key")
		}

		refreshToken, err := service.IssueRefresh(testAccount())
		if err != nil {
			t.Fatalf("Failed to issue refresh token: %v", err)
		}
		if _, err := service.VerifyAccess(refreshToken); err == nil {
			t.Error("Refresh token must not verify with the access key")
		}
	})

	t.Run("MalformedToken", func(t *testing.T) {
		for _, token := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9..x"} {
			if _, err := service.VerifyAccess(token); err == nil {
				t.Errorf("Expected failure for malformed token %q", token)
			}
		}
	})

	t.Run("TamperedToken", func(t *testing.T) {
		token, err := service.IssueAccess(testAccount())
		if err != nil {
			t.Fatalf("Failed to issue access token: %v", err)
		}
		tampered := token[:len(token)-2] + "xx"
		if _, err := service.VerifyAccess(tampered); err == nil {
			t.Error("Expected failure for tampered signature")
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		expired, err := NewTokenService(Config{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     -time.Minute,
			RefreshTTL:    time.Hour,
		})
		if err != nil {
			t.Fatalf("Failed to create token service: %v", err)
		}
		token, err := expired.IssueAccess(testAccount())
		if err != nil {
			t.Fatalf("Failed to issue access token: %v", err)
		}
		if _, err := expired.VerifyAccess(token); err == nil {
			t.Error("Expected failure for expired token")
		}
	})
}

func TestNewTokenServiceValidation(t *testing.T) {
	t.Run("MissingSecrets", func(t *testing.T) {
		if _, err := NewTokenService(Config{}); err == nil {
			t.Error("Expected error for missing secrets")
		}
	})

	t.Run("IdenticalSecrets", func(t *testing.T) {
		_, err := NewTokenService(Config{
			AccessSecret:  "same",
			RefreshSecret: "same",
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
		})
		if err == nil {
			t.Error("Expected error for identical access and refresh secrets")
		}
	})
}
