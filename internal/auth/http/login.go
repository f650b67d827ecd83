package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/univc/univc-auth/internal/auth/domain"
	"github.com/univc/univc-auth/internal/auth/service"
	"github.com/univc/univc-auth/pkg/httpx"
	"github.com/univc/univc-auth/pkg/slogx"
)

// LoginHandler serves POST /v1/auth/login. A successful email/password check
// mints a fresh access/refresh pair under a brand-new session id.
type LoginHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	user, err := h.UserService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		log.Error("login failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
		return
	}

	pair, err := h.TokenService.IssuePair(ctx, user.ID, user.Email, "", clientContext(r))
	if err != nil {
		log.Error("token issuance failed", slog.Any("error", err), slog.String("user_id", user.ID))
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
		return
	}

	log.Info("user signed in", slog.String("user_id", user.ID), slog.String("session_id", pair.SessionID))

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tokenPairResponse(pair, h.TokenService.AccessTTL))
}

func clientContext(r *http.Request) domain.ClientContext {
	return domain.ClientContext{
		IP:        httpx.IPKeyExtractor(r),
		UserAgent: r.UserAgent(),
	}
}

func tokenPairResponse(pair *domain.TokenPair, accessTTL time.Duration) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTTL.Seconds()),
		SessionID:    pair.SessionID,
	}
}
