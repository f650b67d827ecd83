package domain

import (
	"time"

	"github.com/univc/univc-auth/pkg/jwtx"
)

// ClientContext is origin metadata captured at issuance for audit trails.
// It never participates in validation decisions.
type ClientContext struct {
	IP        string
	UserAgent string
}

// Token models one issued token record, access or refresh. Records are
// created exactly once at issuance and mutated exactly once (revocation);
// this service never deletes them, retention is someone else's job.
type Token struct {
	// TokenID is the "jti" claim of the encoded token. Primary key; never
	// reused across the lifetime of the store.
	TokenID string

	// OwnerID is the user the token was issued for.
	OwnerID string

	// Kind is "access" or "refresh". Fixed at creation, as is the TTL.
	Kind jwtx.Kind

	// Claim-level identity. Audience and Issuer are fixed per deployment,
	// Subject per issuance.
	Audience string
	Issuer   string
	Subject  string

	// SessionID ties the access/refresh pair minted together, and carries
	// across refresh rotation so a rotation chain shares one session.
	SessionID string

	Client ClientContext

	IssuedAt  time.Time
	ExpiresAt time.Time

	// RevokedAt is nil while the token is live. Once set it never clears.
	RevokedAt     *time.Time
	RevokedReason string

	CreatedAt time.Time
}

// Revoked reports whether the record has been revoked.
func (t Token) Revoked() bool { return t.RevokedAt != nil }

// RevocationEvent is one row of the append-only revocation log. Events
// survive even if the token record itself is eventually purged.
type RevocationEvent struct {
	TokenID   string
	OwnerID   string
	Reason    string
	RevokedAt time.Time
}

// TokenPair is what issuance hands back to the HTTP layer: the two encoded
// tokens plus their expiries for the response body.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	SessionID        string
}

// Revocation reasons recorded by this service. The column is free-form;
// these are just the values we write ourselves.
const (
	ReasonLogout  = "logout"
	ReasonRotated = "rotated"
)
