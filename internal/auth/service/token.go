// Package service implements the token issuance, validation, rotation and
// revocation engine on top of the store and codec layers.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/univc/univc-auth/internal/auth/domain"
	"github.com/univc/univc-auth/internal/auth/store"
	"github.com/univc/univc-auth/pkg/idx"
	"github.com/univc/univc-auth/pkg/jwtx"
	"github.com/univc/univc-auth/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrWrongTokenKind     = errors.New("wrong_token_kind")
	ErrUnknownToken       = errors.New("unknown_token")
	ErrRevokedToken       = errors.New("revoked_token")
)

// IsTokenError reports whether err is an authentication failure rather than an
// infrastructure fault. Handlers use this split to answer 401 versus 500.
func IsTokenError(err error) bool {
	return errors.Is(err, jwtx.ErrMalformed) ||
		errors.Is(err, jwtx.ErrInvalidSig) ||
		errors.Is(err, jwtx.ErrExpired) ||
		errors.Is(err, jwtx.ErrNotYetValid) ||
		errors.Is(err, jwtx.ErrMissingClaim) ||
		errors.Is(err, jwtx.ErrIssuer) ||
		errors.Is(err, jwtx.ErrAudience) ||
		errors.Is(err, ErrWrongTokenKind) ||
		errors.Is(err, ErrUnknownToken) ||
		errors.Is(err, ErrRevokedToken)
}

type TokenService struct {
	Codec      jwtx.Codec
	Store      store.Store
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssuePair mints a paired access and refresh token for the given owner and
// persists both records before any token material is returned. An empty
// sessionID starts a new session; rotation passes the previous one through so
// the chain stays traceable across refreshes.
func (s *TokenService) IssuePair(
	ctx context.Context,
	ownerID, subject, sessionID string,
	client domain.ClientContext,
) (*domain.TokenPair, error) {
	now := time.Now()

	if sessionID == "" {
		sessionID = idx.New().String()
	}

	accessClaims := jwtx.NewClaims(jwtx.KindAccess, idx.New().String(), ownerID, sessionID, subject, s.Issuer, s.Audience, s.AccessTTL, now)
	refreshClaims := jwtx.NewClaims(jwtx.KindRefresh, idx.New().String(), ownerID, sessionID, subject, s.Issuer, s.Audience, s.RefreshTTL, now)

	accessToken, err := s.Codec.Encode(accessClaims)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.Codec.Encode(refreshClaims)
	if err != nil {
		return nil, err
	}

	// Both records land in one transaction so a failure on the second insert
	// can never leave a usable orphan behind.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tokens().CreateToken(ctx, recordFor(accessClaims, client)); err != nil {
			return err
		}
		return tx.Tokens().CreateToken(ctx, recordFor(refreshClaims, client))
	})
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessClaims.ExpiresAt.Time,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshClaims.ExpiresAt.Time,
		SessionID:        sessionID,
	}, nil
}

// Validate runs the full bearer-token check: decode and verify the signature,
// pin issuer/audience/kind, then cross-check the backing record for existence
// and revocation. Token-level failures come back as sentinel errors (see
// IsTokenError); store faults propagate untouched.
func (s *TokenService) Validate(ctx context.Context, raw string, kind jwtx.Kind) (jwtx.Claims, error) {
	claims, err := s.Codec.Decode(raw)
	if err != nil {
		return jwtx.Claims{}, err
	}

	if err := claims.ValidateIssuer(s.Issuer); err != nil {
		return jwtx.Claims{}, err
	}
	if err := claims.ValidateAudience(s.Audience); err != nil {
		return jwtx.Claims{}, err
	}
	if claims.Kind != kind {
		return jwtx.Claims{}, ErrWrongTokenKind
	}

	record, err := s.Store.Tokens().GetTokenByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// A verifiable signature over a record we never stored means
			// key compromise or a purged row. Either way, not valid.
			return jwtx.Claims{}, ErrUnknownToken
		}
		return jwtx.Claims{}, err
	}

	if record.Revoked() {
		return jwtx.Claims{}, ErrRevokedToken
	}

	return claims, nil
}

// Rotate exchanges a refresh token for a fresh pair. The presented token is
// revoked and durably committed before the new pair is minted, so a crash
// mid-rotation loses the session rather than leaving the old token usable.
// Concurrent rotations of the same token resolve to exactly one winner; the
// losers see ErrRevokedToken.
func (s *TokenService) Rotate(
	ctx context.Context,
	rawRefresh string,
	client domain.ClientContext,
) (*domain.TokenPair, error) {
	claims, err := s.Validate(ctx, rawRefresh, jwtx.KindRefresh)
	if err != nil {
		return nil, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		first, err := tx.Tokens().RevokeToken(ctx, claims.ID, domain.ReasonRotated)
		if err != nil {
			return err
		}
		if !first {
			// Lost the race: another rotation already consumed this token.
			return ErrRevokedToken
		}
		return tx.Revocations().AddRevocation(ctx, domain.RevocationEvent{
			TokenID:   claims.ID,
			OwnerID:   claims.UID,
			Reason:    domain.ReasonRotated,
			RevokedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.IssuePair(ctx, claims.UID, claims.Subject, claims.SID, client)
}

// Revoke is the best-effort logout path. It accepts expired tokens (so logout
// still works after expiry) but still insists on a valid signature, and it
// never returns an error: true means the token is revoked now (including
// already-revoked), false means the input couldn't be tied to a record.
func (s *TokenService) Revoke(ctx context.Context, raw, reason string) bool {
	l := slogx.FromContext(ctx)

	claims, err := s.Codec.DecodeLenient(raw)
	if err != nil {
		return false
	}

	var revoked bool
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		first, err := tx.Tokens().RevokeToken(ctx, claims.ID, reason)
		if err != nil {
			return err
		}
		revoked = true
		if !first {
			// Already revoked: idempotent success, no second event.
			return nil
		}
		return tx.Revocations().AddRevocation(ctx, domain.RevocationEvent{
			TokenID:   claims.ID,
			OwnerID:   claims.UID,
			Reason:    reason,
			RevokedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			l.Error("revoke token failed",
				slog.Any("error", err),
				slog.String("token_id", claims.ID),
			)
		}
		return false
	}

	return revoked
}

// Sessions lists every token record issued to the owner, newest first. Kind
// may be empty to list both kinds.
func (s *TokenService) Sessions(ctx context.Context, ownerID string, kind jwtx.Kind) ([]domain.Token, error) {
	return s.Store.Tokens().ListTokensForOwner(ctx, ownerID, kind)
}

// Revocations returns the owner's revocation audit trail, newest first.
func (s *TokenService) Revocations(ctx context.Context, ownerID string) ([]domain.RevocationEvent, error) {
	return s.Store.Revocations().ListRevocationsForOwner(ctx, ownerID)
}

func recordFor(c jwtx.Claims, client domain.ClientContext) domain.Token {
	return domain.Token{
		TokenID:   c.ID,
		OwnerID:   c.UID,
		Kind:      c.Kind,
		Audience:  c.Audience[0],
		Issuer:    c.Issuer,
		Subject:   c.Subject,
		SessionID: c.SID,
		Client:    client,
		IssuedAt:  c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
	}
}
