package sqlite

import (
	"context"
	"fmt"

	"github.com/univc/univc-auth/internal/auth/domain"
	"github.com/univc/univc-auth/internal/auth/store"
)

type revocationsRepo struct {
	db DBTX
}

const addRevocation = `
INSERT INTO revocations (token_id, owner_id, reason, revoked_at)
VALUES (?, ?, ?, ?)`

func (r *revocationsRepo) AddRevocation(ctx context.Context, ev domain.RevocationEvent) error {
	_, err := r.db.ExecContext(ctx, addRevocation,
		ev.TokenID, ev.OwnerID, ev.Reason, ev.RevokedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("add revocation: %w", err)
	}
	return nil
}

const listRevocationsForOwner = `
SELECT token_id, owner_id, reason, revoked_at
FROM revocations
WHERE owner_id = ?
ORDER BY revoked_at DESC, id DESC`

func (r *revocationsRepo) ListRevocationsForOwner(
	ctx context.Context,
	ownerID string,
) ([]domain.RevocationEvent, error) {
	rows, err := r.db.QueryContext(ctx, listRevocationsForOwner, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list revocations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.RevocationEvent
	for rows.Next() {
		var ev domain.RevocationEvent
		if err := rows.Scan(&ev.TokenID, &ev.OwnerID, &ev.Reason, &ev.RevokedAt); err != nil {
			return nil, fmt.Errorf("list revocations: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list revocations: %w", err)
	}
	return out, nil
}

var _ store.Revocations = (*revocationsRepo)(nil)
