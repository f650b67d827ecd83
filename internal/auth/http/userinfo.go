package http

import (
	"log/slog"
	"net/http"

	"github.com/univc/univc-auth/internal/auth/service"
	"github.com/univc/univc-auth/pkg/httpx"
	"github.com/univc/univc-auth/pkg/slogx"
)

// UserInfoHandler serves GET /v1/userinfo for a validated access token.
type UserInfoHandler struct {
	UserService *service.UserService
}

func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := httpx.ClaimsFrom(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token")
		return
	}

	user, err := h.UserService.GetUserByID(ctx, claims.UID)
	if err != nil {
		log.Error("failed to load user", slog.Any("error", err), slog.String("user_id", claims.UID))
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, UserInfoResponse{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		SessionID:    claims.SID,
		LastSignedAt: user.LastSignedAt,
	})
}
