package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/univc/univc-auth/internal/auth/service"
	"github.com/univc/univc-auth/pkg/httpx"
	"github.com/univc/univc-auth/pkg/jwtx"
	"github.com/univc/univc-auth/pkg/slogx"
)

// AuthnMiddleware guards a route with full access-token validation: signature,
// claims, and the backing record's revocation state. All token-level failures
// collapse into one uniform 401 so a caller can't probe which sub-check
// tripped; store faults surface as 500 so clients retry instead of
// re-authenticating.
func AuthnMiddleware(tokens *service.TokenService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := bearerToken(r)
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token")
				return
			}

			claims, err := tokens.Validate(ctx, raw, jwtx.KindAccess)
			if err != nil {
				if service.IsTokenError(err) {
					// Logs keep the real reason; the response doesn't.
					log.Info("access token rejected", slog.Any("error", err))
					httpx.WriteError(w, http.StatusUnauthorized, "invalid_token")
					return
				}
				log.Error("token validation failed", slog.Any("error", err))
				httpx.WriteError(w, http.StatusInternalServerError, "server_error")
				return
			}

			next.ServeHTTP(w, r.WithContext(httpx.WithClaims(ctx, claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
