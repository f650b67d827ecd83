package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/univc/univc-auth/pkg/idx"
	"github.com/univc/univc-auth/pkg/jwtx"
)

const (
	testSecret   = "test-secret-please-rotate"
	testIssuer   = "univc-auth"
	testAudience = "univc-api"
)

func newTestCodec(t *testing.T) jwtx.Codec {
	t.Helper()
	codec, err := jwtx.NewCodec(testSecret, "HS256")
	require.NoError(t, err)
	return codec
}

func newTestClaims(kind jwtx.Kind, ttl time.Duration, now time.Time) jwtx.Claims {
	return jwtx.NewClaims(
		kind,
		idx.New().String(),
		idx.New().String(),
		idx.New().String(),
		"student@univc.example",
		testIssuer,
		testAudience,
		ttl,
		now,
	)
}

func TestNewCodec(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := jwtx.NewCodec("", "HS256")
		require.Error(t, err)
	})

	t.Run("defaults to HS256", func(t *testing.T) {
		codec, err := jwtx.NewCodec(testSecret, "")
		require.NoError(t, err)
		require.Equal(t, "HS256", codec.Alg())
	})

	t.Run("accepts the HMAC family only", func(t *testing.T) {
		for _, alg := range []string{"HS256", "HS384", "HS512"} {
			_, err := jwtx.NewCodec(testSecret, alg)
			require.NoError(t, err, alg)
		}
		for _, alg := range []string{"RS256", "ES256", "EdDSA", "none"} {
			_, err := jwtx.NewCodec(testSecret, alg)
			require.Error(t, err, alg)
		}
	})
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	now := time.Now()
	claims := newTestClaims(jwtx.KindAccess, 15*time.Minute, now)

	token, err := codec.Encode(claims)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	decoded, err := codec.Decode(token)
	require.NoError(t, err)

	require.Equal(t, claims.ID, decoded.ID)
	require.Equal(t, claims.UID, decoded.UID)
	require.Equal(t, claims.SID, decoded.SID)
	require.Equal(t, jwtx.KindAccess, decoded.Kind)
	require.Equal(t, testIssuer, decoded.Issuer)
	require.Equal(t, claims.Subject, decoded.Subject)

	// exp - iat must equal the requested TTL exactly.
	require.Equal(t,
		15*time.Minute,
		decoded.ExpiresAt.Sub(decoded.IssuedAt.Time),
	)
	require.True(t, decoded.NotBefore.Equal(decoded.IssuedAt.Time))
}

func TestDecodeRejectsBadSignature(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	token, err := codec.Encode(newTestClaims(jwtx.KindAccess, time.Hour, time.Now()))
	require.NoError(t, err)

	t.Run("tampered signature segment", func(t *testing.T) {
		// Flip one character of the signature. This must surface as a
		// signature failure, not a malformed token.
		last := token[len(token)-1]
		flip := byte('A')
		if last == 'A' {
			flip = 'B'
		}
		tampered := token[:len(token)-1] + string(flip)

		_, err := codec.Decode(tampered)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("signed with a different secret", func(t *testing.T) {
		other, err := jwtx.NewCodec("a-different-secret", "HS256")
		require.NoError(t, err)

		token, err := other.Encode(newTestClaims(jwtx.KindAccess, time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = codec.Decode(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("alg none is never accepted", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(
			jwt.SigningMethodNone,
			newTestClaims(jwtx.KindAccess, time.Hour, time.Now()),
		)
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.Decode(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})
}

func TestDecodeRejectsMalformed(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	for _, input := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := codec.Decode(input)
		require.ErrorIs(t, err, jwtx.ErrMalformed, "input %q", input)
	}
}

func TestDecodeExpiry(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	t.Run("expired token", func(t *testing.T) {
		claims := newTestClaims(jwtx.KindAccess, time.Minute, time.Now().Add(-time.Hour))
		token, err := codec.Encode(claims)
		require.NoError(t, err)

		_, err = codec.Decode(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("exactly at expires_at is expired", func(t *testing.T) {
		// exp lands on the current (truncated) second, so now >= exp.
		claims := newTestClaims(jwtx.KindAccess, time.Minute, time.Now().Add(-time.Minute))
		token, err := codec.Encode(claims)
		require.NoError(t, err)

		_, err = codec.Decode(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("before expires_at is valid", func(t *testing.T) {
		claims := newTestClaims(jwtx.KindAccess, time.Hour, time.Now())
		token, err := codec.Encode(claims)
		require.NoError(t, err)

		_, err = codec.Decode(token)
		require.NoError(t, err)
	})
}

func TestDecodeRequiresAllClaims(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	base := func() jwtx.Claims {
		return newTestClaims(jwtx.KindRefresh, time.Hour, time.Now())
	}

	tests := []struct {
		name   string
		mutate func(*jwtx.Claims)
	}{
		{"missing jti", func(c *jwtx.Claims) { c.ID = "" }},
		{"missing sid", func(c *jwtx.Claims) { c.SID = "" }},
		{"missing uid", func(c *jwtx.Claims) { c.UID = "" }},
		{"missing sub", func(c *jwtx.Claims) { c.Subject = "" }},
		{"missing iss", func(c *jwtx.Claims) { c.Issuer = "" }},
		{"missing aud", func(c *jwtx.Claims) { c.Audience = nil }},
		{"unknown typ", func(c *jwtx.Claims) { c.Kind = "session" }},
		{"missing typ", func(c *jwtx.Claims) { c.Kind = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			claims := base()
			tc.mutate(&claims)

			token, err := codec.Encode(claims)
			require.NoError(t, err)

			_, err = codec.Decode(token)
			require.ErrorIs(t, err, jwtx.ErrMissingClaim)
		})
	}
}

func TestDecodeLenient(t *testing.T) {
	t.Parallel()
	codec := newTestCodec(t)

	t.Run("accepts an expired token", func(t *testing.T) {
		claims := newTestClaims(jwtx.KindAccess, time.Minute, time.Now().Add(-time.Hour))
		token, err := codec.Encode(claims)
		require.NoError(t, err)

		decoded, err := codec.DecodeLenient(token)
		require.NoError(t, err)
		require.Equal(t, claims.ID, decoded.ID)
		require.Equal(t, claims.UID, decoded.UID)
	})

	t.Run("still verifies the signature", func(t *testing.T) {
		other, err := jwtx.NewCodec("a-different-secret", "HS256")
		require.NoError(t, err)

		token, err := other.Encode(newTestClaims(jwtx.KindAccess, time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = codec.DecodeLenient(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := codec.DecodeLenient("not-a-token")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestValidateIssuerAndAudience(t *testing.T) {
	t.Parallel()

	claims := newTestClaims(jwtx.KindAccess, time.Hour, time.Now())

	require.NoError(t, claims.ValidateIssuer(testIssuer))
	require.ErrorIs(t, claims.ValidateIssuer("someone-else"), jwtx.ErrIssuer)
	require.NoError(t, claims.ValidateIssuer(""))

	require.NoError(t, claims.ValidateAudience(testAudience))
	require.ErrorIs(t, claims.ValidateAudience("other-api"), jwtx.ErrAudience)
	require.NoError(t, claims.ValidateAudience(""))
}
