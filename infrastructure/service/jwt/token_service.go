package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/velora/auth-service/domain/entity"
)

// ErrInvalidToken covers bad signature, wrong signing method, malformed
// payload and expiry. Callers cannot distinguish the cases.
var ErrInvalidToken = errors.New("invalid token")

type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenService signs and verifies HS256 tokens. Access and refresh tokens use
// separate secrets and independently configured expiry windows.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(cfg Config) (*TokenService, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("jwt: access and refresh secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("jwt: access and refresh secrets must differ")
	}
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}, nil
}

func (s *TokenService) IssueAccess(account *entity.Account) (string, error) {
	return s.sign(account, s.accessTTL, s.accessSecret)
}

func (s *TokenService) IssueRefresh(account *entity.Account) (string, error) {
	return s.sign(account, s.refreshTTL, s.refreshSecret)
}

func (s *TokenService) VerifyAccess(token string) (*entity.Claims, error) {
	return s.verify(token, s.accessSecret)
}

func (s *TokenService) VerifyRefresh(token string) (*entity.Claims, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *TokenService) sign(account *entity.Account, ttl time.Duration, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub":       account.ID,
		"role":      account.Role,
		"is_active": account.IsActive,
		"exp":       time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) verify(tokenString string, secret []byte) (*entity.Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	subject, ok := mapClaims["sub"].(string)
	if !ok || subject == "" {
		return nil, ErrInvalidToken
	}
	exp, ok := mapClaims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	role, _ := mapClaims["role"].(string)
	isActive, _ := mapClaims["is_active"].(bool)

	return &entity.Claims{
		SubjectID: subject,
		Role:      role,
		IsActive:  isActive,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
