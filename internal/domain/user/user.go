package user

import (
	"context"

	"github.com/google/uuid"
)

// User is the administrative identity. The intended deployment has exactly
// one, seeded by scripts/seed_owner.go.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
}

type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
}
