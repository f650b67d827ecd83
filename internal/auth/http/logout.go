package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/univc/univc-auth/internal/auth/domain"
	"github.com/univc/univc-auth/internal/auth/service"
	"github.com/univc/univc-auth/pkg/httpx"
)

// LogoutHandler serves POST /v1/auth/logout. Logout is deliberately
// forgiving: expired tokens still revoke, a second logout of the same token
// succeeds, and malformed input just reports revoked=false. The only hard
// requirement is a verifiable signature, so strangers can't revoke tokens by
// guessing ids.
type LogoutHandler struct {
	TokenService *service.TokenService
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	AccessToken  string `json:"access_token"`
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	// No token in the body: fall back to the Authorization header so a
	// client can log out with nothing but its bearer token.
	if req.RefreshToken == "" && req.AccessToken == "" {
		if raw, ok := bearerToken(r); ok {
			req.AccessToken = raw
		}
	}
	if req.RefreshToken == "" && req.AccessToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	revoked := false
	if req.RefreshToken != "" {
		revoked = h.TokenService.Revoke(ctx, req.RefreshToken, domain.ReasonLogout)
	}
	if req.AccessToken != "" {
		if h.TokenService.Revoke(ctx, req.AccessToken, domain.ReasonLogout) {
			revoked = true
		}
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, LogoutResponse{Revoked: revoked})
}
