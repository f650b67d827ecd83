// Package http exposes the token engine over a JSON HTTP surface: login,
// refresh, logout, introspection-style userinfo, session listing and the
// health probes.
package http

import "time"

// TokenPairResponse is the body returned by login and refresh.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	SessionID    string `json:"session_id"`
}

// LogoutResponse reports whether the presented token was tied to a record.
type LogoutResponse struct {
	Revoked bool `json:"revoked"`
}

type UserInfoResponse struct {
	UserID       string     `json:"user_id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	SessionID    string     `json:"session_id"`
	LastSignedAt *time.Time `json:"last_signed_at,omitempty"`
}

// SessionTokenResponse is one token record in the session listing.
type SessionTokenResponse struct {
	TokenID       string     `json:"token_id"`
	Kind          string     `json:"kind"`
	SessionID     string     `json:"session_id"`
	IP            string     `json:"ip,omitempty"`
	UserAgent     string     `json:"user_agent,omitempty"`
	IssuedAt      time.Time  `json:"issued_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
	RevokedReason string     `json:"revoked_reason,omitempty"`
}

type SessionsResponse struct {
	Tokens []SessionTokenResponse `json:"tokens"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
