// Package store defines the data access contracts for the token engine.
// Concrete drivers live under drivers/. The store enforces uniqueness and
// the single ISSUED -> REVOKED transition; everything smarter belongs to
// the service layer.
package store

import (
	"context"
	"errors"

	"github.com/univc/univc-auth/internal/auth/domain"
	"github.com/univc/univc-auth/pkg/jwtx"
)

var (
	ErrNotFound = errors.New("store: not found")

	// ErrAlreadyExists is the duplicate-jti invariant violation on token
	// insert. Practically unreachable with ULID generation but enforced by
	// the primary key all the same.
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. It exposes sub-repositories to
// keep concerns tidy and testable.
type Store interface {
	Tokens() Tokens
	Revocations() Revocations
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction: rolled back if fn errors,
	// committed otherwise. Use it for multi-step operations that must be
	// atomic (revoke + audit event, pair issuance).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Tokens interface {
	// CreateToken inserts a new token record. Returns ErrAlreadyExists if
	// the token id is already present.
	CreateToken(ctx context.Context, t domain.Token) error

	// GetTokenByID returns the record for a jti, revoked or not.
	// Returns ErrNotFound if no record exists.
	GetTokenByID(ctx context.Context, tokenID string) (domain.Token, error)

	// RevokeToken performs the single atomic ISSUED -> REVOKED transition:
	// a conditional update that only fires while revoked_at is still null.
	// first reports whether THIS call performed the transition; callers
	// that need exactly-once semantics (rotation, audit events) branch on
	// it. Already-revoked tokens return (false, nil): revocation is
	// idempotent. Returns ErrNotFound for unknown ids.
	RevokeToken(ctx context.Context, tokenID, reason string) (first bool, err error)

	// ListTokensForOwner returns the owner's token records newest first,
	// filtered by kind when kind is non-empty.
	ListTokensForOwner(ctx context.Context, ownerID string, kind jwtx.Kind) ([]domain.Token, error)
}

type Revocations interface {
	// AddRevocation appends one event to the revocation log. Call it in
	// the same transaction as the RevokeToken that returned first=true, so
	// one logical revocation never yields two events.
	AddRevocation(ctx context.Context, ev domain.RevocationEvent) error

	// ListRevocationsForOwner returns the owner's revocation log, newest
	// first. Audit surface only.
	ListRevocationsForOwner(ctx context.Context, ownerID string) ([]domain.RevocationEvent, error)
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id. ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login. ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// TouchLastSigned records a successful login.
	TouchLastSigned(ctx context.Context, userID string) error
}
