package httpx

import (
	"context"

	"github.com/univc/univc-auth/pkg/jwtx"
)

type ctxKey int

const (
	ctxKeyClaims ctxKey = iota
)

// WithClaims attaches validated token claims to the request context. Only
// the authn middleware should call this; everything downstream reads.
func WithClaims(ctx context.Context, c jwtx.Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims, c)
}

// ClaimsFrom returns the validated claims for the request, if any.
func ClaimsFrom(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(jwtx.Claims)
	return c, ok
}

// OwnerIDFrom returns the authenticated user's id, or "" when the request
// was not authenticated.
func OwnerIDFrom(ctx context.Context) string {
	c, ok := ClaimsFrom(ctx)
	if !ok {
		return ""
	}
	return c.UID
}

// SessionIDFrom returns the session id of the presented token, or "".
func SessionIDFrom(ctx context.Context) string {
	c, ok := ClaimsFrom(ctx)
	if !ok {
		return ""
	}
	return c.SID
}
