package handler

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/velora/auth-service/application/port/inbound"
	"github.com/velora/auth-service/domain/apperror"
	"github.com/velora/auth-service/domain/valueobject"
	"github.com/velora/auth-service/infrastructure/http/middleware"
	"github.com/velora/auth-service/infrastructure/http/response"
	"github.com/velora/auth-service/infrastructure/service/logger"
	"github.com/velora/auth-service/infrastructure/service/ratelimit"
)

// AuthHandler is thin transport plumbing over the auth orchestrator: JSON in,
// envelope out, no business rules.
type AuthHandler struct {
	auth    inbound.AuthUseCase
	limiter ratelimit.Limiter
	logger  logger.Logger
}

func NewAuthHandler(auth inbound.AuthUseCase, limiter ratelimit.Limiter, log logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter, logger: log}
}

func (h *AuthHandler) Register(router *mux.Router, guard *middleware.AuthMiddleware) {
	router.HandleFunc("/auth/signup", h.Signup).Methods(http.MethodPost)
	router.HandleFunc("/auth/confirm/{id}", h.Confirm).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/auth/refresh", h.Refresh).Methods(http.MethodPost)
	router.HandleFunc("/auth/verify", h.Verify).Methods(http.MethodGet)
	router.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
	router.HandleFunc("/auth/me", guard.RequireAuth(h.Me)).Methods(http.MethodGet)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req inbound.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	resp, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		response.Failure(w, err)
		return
	}
	response.Success(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	confirmationID := mux.Vars(r)["id"]

	pair, err := h.auth.Confirm(r.Context(), confirmationID)
	if err != nil {
		response.Failure(w, err)
		return
	}
	response.Success(w, http.StatusOK, pair)
}

type loginRequest struct {
	Username string `json:"username,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	clientKey := "ip:" + clientIP(r)
	allowed, err := h.limiter.Allowed(r.Context(), clientKey)
	if err != nil {
		h.logger.Error(r.Context(), "rate limit check failed", err, nil)
	} else if !allowed {
		response.TooManyRequests(w)
		return
	}

	pair, err := h.auth.Login(r.Context(), valueobject.Credentials{
		Username: req.Username,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		if apperror.Is(err, apperror.CodeInvalidCredentials) {
			if recordErr := h.limiter.RecordFailure(r.Context(), clientKey); recordErr != nil {
				h.logger.Error(r.Context(), "failed to record login failure", recordErr, nil)
			}
		}
		response.Failure(w, err)
		return
	}

	if err := h.limiter.Reset(r.Context(), clientKey); err != nil {
		h.logger.Error(r.Context(), "failed to reset login attempts", err, nil)
	}
	response.Success(w, http.StatusOK, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		response.Failure(w, err)
		return
	}
	response.Success(w, http.StatusOK, pair)
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		response.BadRequest(w, "bearer token required")
		return
	}

	claims, err := h.auth.Verify(r.Context(), token)
	if err != nil {
		response.Failure(w, err)
		return
	}
	response.Success(w, http.StatusOK, map[string]interface{}{
		"subject_id": claims.SubjectID,
		"role":       claims.Role,
		"is_active":  claims.IsActive,
	})
}

type logoutRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.auth.Logout(r.Context(), req.AccessToken, req.RefreshToken); err != nil {
		response.Failure(w, err)
		return
	}
	response.Success(w, http.StatusOK, map[string]bool{"logged_out": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Failure(w, apperror.TokenInvalid(nil))
		return
	}
	response.Success(w, http.StatusOK, map[string]interface{}{
		"subject_id": claims.SubjectID,
		"role":       claims.Role,
	})
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
