package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/univc/univc-auth/internal/auth/domain"
	"github.com/univc/univc-auth/internal/auth/store"
	"github.com/univc/univc-auth/pkg/cryptox"
	"github.com/univc/univc-auth/pkg/slogx"
)

type UserService struct {
	Store store.Store
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// Authenticate checks an email/password pair against the store. Unknown
// email, bad password and a disabled account all collapse into
// ErrInvalidCredentials so callers can't tell which one tripped.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	if !user.Enabled {
		l.Info("sign-in attempt on disabled account", slog.String("user_id", user.ID))
		return domain.User{}, ErrInvalidCredentials
	}

	if err := s.Store.Users().TouchLastSigned(ctx, user.ID); err != nil {
		// Non-fatal: the sign-in itself succeeded.
		l.Warn("failed to record last sign-in", slog.Any("error", err), slog.String("user_id", user.ID))
	}

	return user, nil
}
