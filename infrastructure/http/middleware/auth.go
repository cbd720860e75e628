package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/velora/auth-service/application/port/inbound"
	"github.com/velora/auth-service/domain/entity"
	"github.com/velora/auth-service/infrastructure/http/response"
)

type claimsKey struct{}

// AuthMiddleware guards routes with a bearer token. It goes through the
// orchestrator's Verify so revoked tokens are rejected even while their
// signature still verifies.
type AuthMiddleware struct {
	auth inbound.AuthUseCase
}

func NewAuthMiddleware(auth inbound.AuthUseCase) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.BadRequest(w, "bearer token required")
			return
		}

		claims, err := m.auth.Verify(r.Context(), token)
		if err != nil {
			response.Failure(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// ClaimsFromContext returns the verified claims placed by RequireAuth.
func ClaimsFromContext(ctx context.Context) (*entity.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*entity.Claims)
	return claims, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
