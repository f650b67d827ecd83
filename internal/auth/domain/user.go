package domain

import "time"

// User is the principal tokens are issued for. This service only needs
// enough of the portal's user model to authenticate a login and label
// claims; profile, XP and level data live with the portal API.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string

	// Enabled gates login; disabled users keep their row but can't sign in.
	Enabled bool

	LastSignedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
