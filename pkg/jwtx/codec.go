// Package jwtx is the token codec: it turns a typed claim set into a
// compact signed JWT and back again. It is pure and stateless, no store
// lookups happen here. Whether a structurally valid token is actually
// usable is the validation engine's call, not ours.
package jwtx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrMissingClaim = errors.New("jwtx: missing required claim")

	ErrIssuer   = errors.New("jwtx: issuer mismatch")
	ErrAudience = errors.New("jwtx: audience mismatch")
)

// Codec signs and parses tokens with a single symmetric key and a fixed
// HMAC algorithm chosen at process start. The algorithm is pinned on the
// verify side too; we never trust the "alg" header of an inbound token.
type Codec struct {
	key []byte
	alg jwt.SigningMethod
}

// NewCodec builds a codec from the deployment's signing secret and
// algorithm identifier. Only the HMAC family is accepted, this service has
// no key distribution story for asymmetric signing.
func NewCodec(secret string, alg string) (Codec, error) {
	if secret == "" {
		return Codec{}, errors.New("jwtx: signing secret must not be empty")
	}

	if alg == "" {
		alg = "HS256"
	}

	switch strings.ToUpper(alg) {
	case "HS256", "HS384", "HS512":
	default:
		return Codec{}, fmt.Errorf("jwtx: unsupported signing algorithm %q", alg)
	}

	return Codec{
		key: []byte(secret),
		alg: jwt.GetSigningMethod(strings.ToUpper(alg)),
	}, nil
}

// Alg returns the configured algorithm identifier.
func (c Codec) Alg() string { return c.alg.Alg() }

// Encode signs the claim set and returns the compact three-part token.
func (c Codec) Encode(claims Claims) (string, error) {
	token := jwt.NewWithClaims(c.alg, claims)

	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: signing token: %w", err)
	}

	return signed, nil
}

// Decode parses and fully validates a token string: structure, signature,
// expiry window and claim completeness. Failures map onto the package
// sentinel errors so callers can distinguish them with errors.Is.
func (c Codec) Decode(tokenString string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(t *jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{c.alg.Alg()}),
	)
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if err := claims.requireComplete(); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

// DecodeLenient verifies the signature but skips expiry and completeness
// checks. This exists for exactly one caller: best-effort revocation, where
// a user logging out with an already-expired token is still a revocation we
// want to record. Never use it on the validation path.
func (c Codec) DecodeLenient(tokenString string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(t *jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{c.alg.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	return claims, nil
}

// mapParseError translates golang-jwt's wrapped errors into our sentinels.
// Order matters: a garbled token should report as malformed even though the
// library also flags it unverifiable.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: %w", ErrNotYetValid, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
