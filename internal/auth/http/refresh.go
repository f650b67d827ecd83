package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/univc/univc-auth/internal/auth/service"
	"github.com/univc/univc-auth/pkg/httpx"
	"github.com/univc/univc-auth/pkg/slogx"
)

// RefreshHandler serves POST /v1/auth/refresh. The presented refresh token is
// consumed: it is revoked before the replacement pair is returned, so a
// replayed refresh always fails no matter how the previous call ended.
type RefreshHandler struct {
	TokenService *service.TokenService
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	pair, err := h.TokenService.Rotate(ctx, req.RefreshToken, clientContext(r))
	if err != nil {
		if service.IsTokenError(err) {
			log.Info("refresh rejected", slog.Any("error", err))
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		log.Error("refresh failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tokenPairResponse(pair, h.TokenService.AccessTTL))
}
