package http

import (
	"log/slog"
	"net/http"

	"github.com/univc/univc-auth/internal/auth/service"
	"github.com/univc/univc-auth/pkg/httpx"
	"github.com/univc/univc-auth/pkg/jwtx"
	"github.com/univc/univc-auth/pkg/slogx"
)

// SessionsHandler serves GET /v1/auth/sessions: every token record issued to
// the authenticated user, newest first, including revoked ones. The ?kind=
// query narrows the listing to access or refresh tokens.
type SessionsHandler struct {
	TokenService *service.TokenService
}

func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := httpx.ClaimsFrom(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token")
		return
	}

	kind := jwtx.Kind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.Valid() {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	tokens, err := h.TokenService.Sessions(ctx, claims.UID, kind)
	if err != nil {
		log.Error("failed to list sessions", slog.Any("error", err), slog.String("user_id", claims.UID))
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := SessionsResponse{Tokens: make([]SessionTokenResponse, 0, len(tokens))}
	for _, t := range tokens {
		resp.Tokens = append(resp.Tokens, SessionTokenResponse{
			TokenID:       t.TokenID,
			Kind:          t.Kind.String(),
			SessionID:     t.SessionID,
			IP:            t.Client.IP,
			UserAgent:     t.Client.UserAgent,
			IssuedAt:      t.IssuedAt,
			ExpiresAt:     t.ExpiresAt,
			RevokedAt:     t.RevokedAt,
			RevokedReason: t.RevokedReason,
		})
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, resp)
}
