package jwtx

import (
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind discriminates the two token types we mint. It travels in the "typ"
// claim and is stored on every token record, so the same value is used on
// the wire and in the database.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Valid reports whether k is one of the known token kinds.
func (k Kind) Valid() bool {
	return k == KindAccess || k == KindRefresh
}

func (k Kind) String() string { return string(k) }

// Claims is the full, typed claim set carried by every token we issue.
// Decoding rejects tokens that are missing any of these, which turns the
// loose "claims dictionary" contract into a compile-time one.
type Claims struct {
	jwt.RegisteredClaims

	// Kind is the token type, "access" or "refresh".
	Kind Kind `json:"typ"`

	// SID correlates the access/refresh pair issued together and survives
	// refresh rotation, so a whole rotation chain traces to one session.
	SID string `json:"sid"`

	// UID is the id of the user the token was issued for. The subject
	// claim usually carries the user's email, so we keep the id separate.
	UID string `json:"uid"`
}

// NewClaims builds a minimally-correct claim set for one token. The jti is
// supplied by the caller because the issuance engine persists it before the
// encoded token ever leaves the process.
func NewClaims(
	kind Kind,
	tokenID, ownerID, sessionID string,
	subject, issuer, audience string,
	ttl time.Duration,
	now time.Time,
) Claims {
	now = now.UTC().Truncate(time.Second)

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			Subject:   subject,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
		SID:  sessionID,
		UID:  ownerID,
	}
}

// ValidateIssuer checks if the issuer matches the expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks that the expected audience is present. The aud
// claim may be a single string or a list on the wire; ClaimStrings absorbs
// both forms.
func (c *Claims) ValidateAudience(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if !slices.Contains(c.Audience, expected) {
		return ErrAudience
	}

	return nil
}

// requireComplete checks that every claim the deployment relies on is
// present and well formed. Called after signature and expiry checks.
func (c *Claims) requireComplete() error {
	missing := func(name string) error {
		return fmt.Errorf("%w: %s", ErrMissingClaim, name)
	}

	switch {
	case c.Issuer == "":
		return missing("iss")
	case len(c.Audience) == 0:
		return missing("aud")
	case c.Subject == "":
		return missing("sub")
	case c.ID == "":
		return missing("jti")
	case c.SID == "":
		return missing("sid")
	case c.UID == "":
		return missing("uid")
	case c.IssuedAt == nil:
		return missing("iat")
	case c.NotBefore == nil:
		return missing("nbf")
	case c.ExpiresAt == nil:
		return missing("exp")
	}

	if !c.Kind.Valid() {
		return fmt.Errorf("%w: typ", ErrMissingClaim)
	}

	return nil
}
