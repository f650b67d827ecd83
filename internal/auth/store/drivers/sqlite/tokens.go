package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/univc/univc-auth/internal/auth/domain"
	"github.com/univc/univc-auth/internal/auth/store"
	"github.com/univc/univc-auth/pkg/jwtx"
)

type tokensRepo struct {
	db DBTX
}

const tokenColumns = `token_id, owner_id, kind,
	audience, issuer, subject, session_id,
	ip, user_agent,
	issued_at, expires_at,
	revoked_at, revoked_reason,
	created_at`

const createToken = `
INSERT INTO tokens (
	token_id, owner_id, kind,
	audience, issuer, subject, session_id,
	ip, user_agent,
	issued_at, expires_at,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.Token) error {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, createToken,
		t.TokenID, t.OwnerID, t.Kind.String(),
		t.Audience, t.Issuer, t.Subject, t.SessionID,
		t.Client.IP, t.Client.UserAgent,
		t.IssuedAt.UTC(), t.ExpiresAt.UTC(),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("create token: %w", mapConstraint(err))
	}
	return nil
}

const getTokenByID = `
SELECT ` + tokenColumns + `
FROM tokens
WHERE token_id = ?`

func (r *tokensRepo) GetTokenByID(ctx context.Context, tokenID string) (domain.Token, error) {
	row := r.db.QueryRowContext(ctx, getTokenByID, tokenID)

	t, err := scanToken(row.Scan)
	if err != nil {
		return domain.Token{}, mapNotFound(err)
	}
	return t, nil
}

// revokeToken only fires while revoked_at is still null. That single
// conditional update is what makes concurrent revokes (and rotation races)
// resolve to exactly one winner without any caller-side locking.
const revokeToken = `
UPDATE tokens
SET revoked_at = ?, revoked_reason = ?
WHERE token_id = ? AND revoked_at IS NULL`

const tokenExists = `SELECT 1 FROM tokens WHERE token_id = ?`

func (r *tokensRepo) RevokeToken(ctx context.Context, tokenID, reason string) (bool, error) {
	res, err := r.db.ExecContext(ctx, revokeToken, time.Now().UTC(), reason, tokenID)
	if err != nil {
		return false, fmt.Errorf("revoke token: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("revoke token: %w", err)
	}
	if affected == 1 {
		return true, nil
	}

	// Nothing updated: either the token is already revoked (fine,
	// idempotent) or it was never there.
	var one int
	if err := r.db.QueryRowContext(ctx, tokenExists, tokenID).Scan(&one); err != nil {
		return false, mapNotFound(err)
	}
	return false, nil
}

const listTokensForOwner = `
SELECT ` + tokenColumns + `
FROM tokens
WHERE owner_id = ?
ORDER BY issued_at DESC, token_id DESC`

const listTokensForOwnerByKind = `
SELECT ` + tokenColumns + `
FROM tokens
WHERE owner_id = ? AND kind = ?
ORDER BY issued_at DESC, token_id DESC`

func (r *tokensRepo) ListTokensForOwner(
	ctx context.Context,
	ownerID string,
	kind jwtx.Kind,
) ([]domain.Token, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if kind == "" {
		rows, err = r.db.QueryContext(ctx, listTokensForOwner, ownerID)
	} else {
		rows, err = r.db.QueryContext(ctx, listTokensForOwnerByKind, ownerID, kind.String())
	}
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Token
	for rows.Next() {
		t, err := scanToken(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list tokens: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	return out, nil
}

var _ store.Tokens = (*tokensRepo)(nil)
