package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/univc/univc-auth/internal/auth/domain"
	"github.com/univc/univc-auth/internal/auth/store"
)

type usersRepo struct {
	db DBTX
}

const createUser = `
INSERT INTO users (id, email, name, password_hash, enabled, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err := r.db.ExecContext(ctx, createUser,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Enabled, createdAt, now,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", mapConstraint(err))
	}
	return nil
}

const userColumns = `id, email, name, password_hash, enabled, last_signed_at, created_at, updated_at`

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, getUserByEmail, email))
}

const touchLastSigned = `
UPDATE users
SET last_signed_at = ?, updated_at = ?
WHERE id = ?`

func (r *usersRepo) TouchLastSigned(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, touchLastSigned, now, now, userID)
	if err != nil {
		return fmt.Errorf("touch last signed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch last signed: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var lastSigned sql.NullTime

	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Enabled,
		&lastSigned, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.LastSignedAt = mapNullTimePtr(lastSigned)
	return u, nil
}

var _ store.Users = (*usersRepo)(nil)
